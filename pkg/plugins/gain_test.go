package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestGainUnityAtDefault(t *testing.T) {
	g := NewGain(1, 2)
	g.Init(48000)

	in := buffer.New(2)
	in.Channel(0)[0] = 1.0
	out := buffer.New(2)

	// Run a few chunks so the smoother settles to its initial target.
	for i := 0; i < 4; i++ {
		g.ProcessAudio(in, out)
	}

	assert.InDelta(t, 1.0, out.Channel(0)[0], 0.01)
}

func TestGainAppliesDBChange(t *testing.T) {
	g := NewGain(1, 2)
	g.Init(48000)
	g.ProcessEvent(rtevent.NewFloatParameterChange(1, gainParamID, 0, -6.0))

	in := buffer.New(2)
	in.Channel(0)[0] = 1.0
	out := buffer.New(2)

	for i := 0; i < 1000; i++ {
		g.ProcessAudio(in, out)
	}

	assert.InDelta(t, 0.501, out.Channel(0)[0], 0.01)
}

func TestGainClampsParameterRange(t *testing.T) {
	g := NewGain(1, 2)
	g.Init(48000)
	g.ProcessEvent(rtevent.NewFloatParameterChange(1, gainParamID, 0, 1000))
	v, ok := g.ParameterValueInDomain(gainParamID)
	assert.True(t, ok)
	assert.Equal(t, 24.0, v)
}

func TestGainBypassedIsTransparent(t *testing.T) {
	g := NewGain(1, 2)
	g.Init(48000)
	g.ProcessEvent(rtevent.NewFloatParameterChange(1, gainParamID, 0, -20))
	g.SetBypassed(true)

	in := buffer.New(2)
	in.Channel(0)[5] = 0.8
	out := buffer.New(2)
	g.ProcessAudio(in, out)

	assert.Equal(t, float32(0.8), out.Channel(0)[5])
}
