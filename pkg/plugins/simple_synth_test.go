package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestSimpleSynthSilentWithoutNoteOn(t *testing.T) {
	s := NewSimpleSynth(1, 2)
	s.Init(48000)

	in := buffer.New(0)
	out := buffer.New(2)
	s.ProcessAudio(in, out)

	for _, v := range out.Channel(0) {
		assert.Equal(t, float32(0), v)
	}
}

func TestSimpleSynthProducesSoundAfterNoteOn(t *testing.T) {
	s := NewSimpleSynth(1, 2)
	s.Init(48000)
	s.ProcessEvent(rtevent.NewNoteOn(1, 0, 0, 60, 1.0))

	in := buffer.New(0)
	out := buffer.New(2)
	s.ProcessAudio(in, out)

	nonZero := false
	for _, v := range out.Channel(0) {
		if v != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)

	// Both output channels carry the same mono voice.
	assert.Equal(t, out.Channel(0), out.Channel(1))
}

func TestSimpleSynthSilencesAfterReleaseCompletes(t *testing.T) {
	s := NewSimpleSynth(1, 2)
	s.Init(48000)
	s.ProcessEvent(rtevent.NewFloatParameterChange(1, synthReleaseParamID, 0, 0.01))
	s.ProcessEvent(rtevent.NewFloatParameterChange(1, synthDecayParamID, 0, 0.01))
	s.ProcessEvent(rtevent.NewNoteOn(1, 0, 0, 60, 1.0))

	in := buffer.New(0)
	out := buffer.New(2)
	s.ProcessAudio(in, out)

	s.ProcessEvent(rtevent.NewNoteOff(1, 0, 0, 60, 1.0))
	for i := 0; i < 200; i++ {
		s.ProcessAudio(in, out)
	}

	for _, v := range out.Channel(0) {
		assert.Equal(t, float32(0), v)
	}
}

func TestSimpleSynthIgnoresNoteOffForDifferentNote(t *testing.T) {
	s := NewSimpleSynth(1, 2)
	s.Init(48000)
	s.ProcessEvent(rtevent.NewNoteOn(1, 0, 0, 60, 1.0))
	s.ProcessEvent(rtevent.NewNoteOff(1, 0, 0, 61, 1.0))

	assert.True(t, s.noteActive)
}
