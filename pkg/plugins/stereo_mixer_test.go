package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestStereoMixerDefaultsHardPanLeftAndRight(t *testing.T) {
	m := NewStereoMixer(1)
	m.Init(48000)

	in := buffer.New(2)
	in.Channel(0)[0] = 1.0 // channel 1
	in.Channel(1)[0] = 1.0 // channel 2
	out := buffer.New(2)

	for i := 0; i < 10; i++ {
		m.ProcessAudio(in, out)
	}

	// Channel 1 defaults hard left, channel 2 hard right.
	assert.Greater(t, out.Channel(0)[0], float32(0.9))
	assert.Greater(t, out.Channel(1)[0], float32(0.9))
}

func TestStereoMixerMonoInputSumsStraightThrough(t *testing.T) {
	m := NewStereoMixer(1)
	m.Init(48000)

	in := buffer.New(1)
	in.Channel(0)[0] = 0.5
	out := buffer.New(2)
	m.ProcessAudio(in, out)

	assert.Equal(t, float32(0.5), out.Channel(0)[0])
}

func TestStereoMixerInvertPhaseFlipsSign(t *testing.T) {
	m := NewStereoMixer(1)
	m.Init(48000)
	m.ProcessEvent(rtevent.NewFloatParameterChange(1, mixCh1PanParamID, 0, 0))
	m.ProcessEvent(rtevent.NewBoolParameterChange(1, mixCh1InvertParamID, 0, true))

	in := buffer.New(2)
	in.Channel(0)[0] = 1.0
	out := buffer.New(2)

	for i := 0; i < 300; i++ {
		m.ProcessAudio(in, out)
	}

	assert.Less(t, out.Channel(0)[0], float32(0))
}

func TestStereoMixerBypassedIsTransparent(t *testing.T) {
	m := NewStereoMixer(1)
	m.Init(48000)
	m.SetBypassed(true)

	in := buffer.New(2)
	in.Channel(0)[0] = 0.3
	in.Channel(1)[0] = -0.2
	out := buffer.New(2)
	m.ProcessAudio(in, out)

	assert.Equal(t, float32(0.3), out.Channel(0)[0])
	assert.Equal(t, float32(-0.2), out.Channel(1)[0])
}
