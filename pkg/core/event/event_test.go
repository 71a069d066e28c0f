package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestKeyboardEventToRtEvent(t *testing.T) {
	e := NewKeyboardEvent(1000, 5, 1, KeyNoteOn, 0, 64, 0.9)
	rt := e.ToRtEvent(32)
	assert.Equal(t, rtevent.NoteOn, rt.Tag)
	ch, note, vel := rt.KeyboardData()
	assert.EqualValues(t, 0, ch)
	assert.EqualValues(t, 64, note)
	assert.InDelta(t, 0.9, vel, 1e-6)
	assert.EqualValues(t, 32, rt.SampleOffset)
}

func TestStringPropertyEventTransfersOwnership(t *testing.T) {
	e := NewStringPropertyEvent(0, 3, 7, 1, "hello")
	rt := e.ToRtEvent(0)
	_, s := rt.StringPropertyData()
	assert.Equal(t, "hello", *s)
}

func TestFromRtEventBuildsKeyboardNotification(t *testing.T) {
	rt := rtevent.NewNoteOff(9, 0, 1, 60, 0.0)
	ev := FromRtEvent(rt, 42)
	kb, ok := ev.(*KeyboardEvent)
	assert.True(t, ok)
	assert.Equal(t, KeyNoteOff, kb.Kind)
	assert.EqualValues(t, 9, kb.ReceiverID())
	assert.EqualValues(t, 42, kb.Timestamp())
}

func TestFromRtEventBuildsClippingNotification(t *testing.T) {
	rt := rtevent.NewClipNotification(1, 3, true)
	ev := FromRtEvent(rt, 0)
	clip, ok := ev.(*ClippingNotificationEvent)
	assert.True(t, ok)
	assert.EqualValues(t, 3, clip.Channel)
	assert.True(t, clip.IsInput)
}

func TestFromRtEventBuildsTimingNotification(t *testing.T) {
	rt := rtevent.NewSynchronisation(123456)
	ev := FromRtEvent(rt, 0)
	timing, ok := ev.(*EngineTimingNotificationEvent)
	assert.True(t, ok)
	assert.EqualValues(t, 123456, timing.ProcessTimeSamples)
}

func TestAddProcessorToTrackBeforeRoundTrip(t *testing.T) {
	e := NewAddProcessorToTrackBeforeEvent(0, 10, 20, 30, 1)
	rt := e.ToRtEvent(0)
	proc, track, before, hasBefore := rt.TrackMembershipData()
	assert.EqualValues(t, 10, proc)
	assert.EqualValues(t, 20, track)
	assert.EqualValues(t, 30, before)
	assert.True(t, hasBefore)
}
