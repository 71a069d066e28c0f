// Package asyncreceiver implements the non-RT side's correlation of an
// outgoing graph-mutation RtEvent with its RT acknowledgement (§4.n),
// grounded on original_source/src/engine/receiver.cpp.
package asyncreceiver

import (
	"time"

	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// maxRetries bounds how many poll/sleep cycles WaitForResponse performs
// before giving up, matching the original's fixed retry budget.
const maxRetries = 100

// Queue is the outbound RtEvent FIFO the receiver drains. Pop returns
// (event, false) once empty.
type Queue interface {
	Pop() (rtevent.RtEvent, bool)
}

type pendingResult struct {
	eventID uint64
	handled bool
}

// Receiver polls an outbound RtEvent queue on behalf of callers blocked in
// WaitForResponse, buffering any returnable event it sees that isn't the one
// being waited for so a later caller can still find it.
type Receiver struct {
	queue    Queue
	received []pendingResult
}

// New constructs a Receiver draining queue.
func New(queue Queue) *Receiver {
	return &Receiver{queue: queue}
}

// WaitForResponse blocks the calling goroutine until a returnable RtEvent
// with the given id is observed on the queue, or timeout elapses. Returns
// true iff that event's Handled flag was set (HANDLED_OK).
func (r *Receiver) WaitForResponse(id uint64, timeout time.Duration) bool {
	interval := timeout / maxRetries

	for retry := 0; retry < maxRetries; retry++ {
		for {
			ev, ok := r.queue.Pop()
			if !ok {
				break
			}
			if !isReturnable(ev.Tag) {
				continue
			}
			if ev.EventID == id {
				return ev.Handled
			}
			r.received = append(r.received, pendingResult{eventID: ev.EventID, handled: ev.Handled})
		}

		for i, node := range r.received {
			if node.eventID == id {
				r.received = append(r.received[:i], r.received[i+1:]...)
				return node.handled
			}
		}

		time.Sleep(interval)
	}
	return false
}

// isReturnable reports whether tag is one of the graph-mutation variants
// that carry a round-trip EventID/Handled status back from the audio
// thread, as opposed to one-way notifications or audio-data events.
func isReturnable(tag rtevent.Tag) bool {
	switch tag {
	case rtevent.InsertProcessor, rtevent.RemoveProcessor,
		rtevent.AddProcessorToTrack, rtevent.RemoveProcessorFromTrack,
		rtevent.AddTrack, rtevent.RemoveTrack,
		rtevent.AddAudioConnection, rtevent.RemoveAudioConnection:
		return true
	default:
		return false
	}
}
