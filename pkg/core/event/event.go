// Package event implements the non-RT Event hierarchy and its conversion
// to/from rtevent.RtEvent at the dual-domain boundary (§4.d).
package event

import "github.com/sushi-audio/sushi-go/pkg/core/rtevent"

// CompletionFunc is the optional callback an Event carries, returned by
// Completion. No component in this module calls it; the dispatcher does not
// invoke it when an event has been handled.
type CompletionFunc func(event Event, handledOK bool)

// Event is the non-RT counterpart to rtevent.RtEvent: heap-allocated,
// polymorphic, and free to carry arbitrary-sized payloads (strings, full
// ProcessorState blobs) that would never fit the RT variant's footprint.
type Event interface {
	Timestamp() int64
	ReceiverID() uint32
	EventID() uint64
	Completion() (CompletionFunc, bool)
	// ToRtEvent serialises this event for RT delivery. sampleOffset places
	// it within the next chunk. Events carrying heap data transfer
	// ownership into the returned RtEvent; the RT side must return it via
	// rtevent.NewDelete once consumed.
	ToRtEvent(sampleOffset int32) rtevent.RtEvent
}

// base carries the fields shared by every Event specialisation.
type base struct {
	timestamp   int64
	receiverID  uint32
	eventID     uint64
	completion  CompletionFunc
	hasComplete bool
}

func (b base) Timestamp() int64  { return b.timestamp }
func (b base) ReceiverID() uint32 { return b.receiverID }
func (b base) EventID() uint64    { return b.eventID }
func (b base) Completion() (CompletionFunc, bool) {
	return b.completion, b.hasComplete
}

func newBase(timestamp int64, receiverID uint32, eventID uint64, cb CompletionFunc) base {
	return base{timestamp: timestamp, receiverID: receiverID, eventID: eventID, completion: cb, hasComplete: cb != nil}
}
