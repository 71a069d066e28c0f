package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestSampleDelayDelaysByExactSampleCount(t *testing.T) {
	s := NewSampleDelay(1, 1)
	s.Init(48000)
	s.ProcessEvent(rtevent.NewIntParameterChange(1, sampleDelayParamID, 0, 3))

	in := buffer.New(1)
	in.Channel(0)[0] = 1.0
	out := buffer.New(1)
	s.ProcessAudio(in, out)

	assert.Equal(t, float32(0), out.Channel(0)[0])
	assert.Equal(t, float32(0), out.Channel(0)[2])
	assert.InDelta(t, 1.0, out.Channel(0)[3], 0.001)
}

func TestSampleDelayClampsToValidRange(t *testing.T) {
	s := NewSampleDelay(1, 1)
	s.Init(48000)

	s.ProcessEvent(rtevent.NewIntParameterChange(1, sampleDelayParamID, 0, -5))
	v, _ := s.ParameterValueInDomain(sampleDelayParamID)
	assert.Equal(t, 0.0, v)

	s.ProcessEvent(rtevent.NewIntParameterChange(1, sampleDelayParamID, 0, maxDelaySamples+100))
	v, _ = s.ParameterValueInDomain(sampleDelayParamID)
	assert.Equal(t, float64(maxDelaySamples-1), v)
}

func TestSampleDelayBypassedIsTransparent(t *testing.T) {
	s := NewSampleDelay(1, 1)
	s.Init(48000)
	s.ProcessEvent(rtevent.NewIntParameterChange(1, sampleDelayParamID, 0, 10))
	s.SetBypassed(true)

	in := buffer.New(1)
	in.Channel(0)[0] = 0.77
	out := buffer.New(1)
	s.ProcessAudio(in, out)

	assert.Equal(t, float32(0.77), out.Channel(0)[0])
}
