package asyncreceiver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

type fakeQueue struct {
	events []rtevent.RtEvent
}

func (q *fakeQueue) Pop() (rtevent.RtEvent, bool) {
	if len(q.events) == 0 {
		return rtevent.RtEvent{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

func returnable(tag rtevent.Tag, eventID uint64, handled bool) rtevent.RtEvent {
	return rtevent.RtEvent{Tag: tag, EventID: eventID, Handled: handled}
}

func TestWaitForResponseMatchesImmediately(t *testing.T) {
	q := &fakeQueue{events: []rtevent.RtEvent{returnable(rtevent.AddTrack, 42, true)}}
	r := New(q)

	ok := r.WaitForResponse(42, 50*time.Millisecond)
	assert.True(t, ok)
}

func TestWaitForResponseReportsHandledError(t *testing.T) {
	q := &fakeQueue{events: []rtevent.RtEvent{returnable(rtevent.RemoveTrack, 7, false)}}
	r := New(q)

	ok := r.WaitForResponse(7, 50*time.Millisecond)
	assert.False(t, ok)
}

func TestWaitForResponseBuffersMismatchedEventsForLater(t *testing.T) {
	q := &fakeQueue{events: []rtevent.RtEvent{
		returnable(rtevent.AddTrack, 1, true),
		returnable(rtevent.AddTrack, 2, true),
	}}
	r := New(q)

	assert.True(t, r.WaitForResponse(2, 50*time.Millisecond))
	// id 1 was buffered while draining for id 2; a later wait finds it
	// without needing a fresh queue read.
	assert.True(t, r.WaitForResponse(1, 50*time.Millisecond))
	assert.Empty(t, r.received)
}

func TestWaitForResponseIgnoresNonReturnableEvents(t *testing.T) {
	q := &fakeQueue{events: []rtevent.RtEvent{
		{Tag: rtevent.NoteOn, EventID: 99},
		returnable(rtevent.AddTrack, 5, true),
	}}
	r := New(q)

	assert.True(t, r.WaitForResponse(5, 50*time.Millisecond))
}

func TestWaitForResponseTimesOut(t *testing.T) {
	q := &fakeQueue{}
	r := New(q)

	start := time.Now()
	ok := r.WaitForResponse(1, 10*time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 9*time.Millisecond)
}
