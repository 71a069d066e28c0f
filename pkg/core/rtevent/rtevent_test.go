package rtevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyboardRoundTrip(t *testing.T) {
	e := NewNoteOn(7, 12, 0, 60, 0.8)
	ch, note, vel := e.KeyboardData()
	assert.EqualValues(t, 0, ch)
	assert.EqualValues(t, 60, note)
	assert.InDelta(t, 0.8, vel, 1e-6)
	assert.EqualValues(t, 7, e.ProcessorID())
	assert.EqualValues(t, 12, e.SampleOffset)
}

func TestFloatParameterRoundTrip(t *testing.T) {
	e := NewFloatParameterChange(3, 42, 0, 0.25)
	id, v := e.FloatParameterData()
	assert.EqualValues(t, 42, id)
	assert.InDelta(t, 0.25, v, 1e-9)
}

func TestStringPropertyCarriesHeapPointer(t *testing.T) {
	s := "preset.json"
	e := NewStringPropertyChange(1, 9, &s)
	_, got := e.StringPropertyData()
	assert.Same(t, &s, got)

	del := NewDelete(got)
	assert.Equal(t, &s, del.DeleteData())
}

func TestWrongVariantAccessorPanics(t *testing.T) {
	e := NewNoteOn(1, 0, 0, 60, 1.0)
	assert.Panics(t, func() { e.TempoData() })
}

func TestTrackMembershipWithBefore(t *testing.T) {
	e := NewAddProcessorToTrackBefore(10, 20, 30)
	proc, track, before, hasBefore := e.TrackMembershipData()
	assert.EqualValues(t, 10, proc)
	assert.EqualValues(t, 20, track)
	assert.EqualValues(t, 30, before)
	assert.True(t, hasBefore)
}

func TestAsyncWorkInvokesClosure(t *testing.T) {
	called := false
	e := NewAsyncWork(5, 100, func(arg any) error {
		called = true
		assert.Equal(t, "payload", arg)
		return nil
	}, "payload")
	work := e.AsyncWorkData()
	err := work.Fn(work.Arg)
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "NOTE_ON", NoteOn.String())
	assert.Equal(t, "SET_STATE", SetState.String())
}
