package plugins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestSaturationBypassedIsTransparent(t *testing.T) {
	s := NewSaturation(1, 2)
	s.Init(48000)
	s.SetBypassed(true)

	in := buffer.New(2)
	in.Channel(0)[0] = 0.9
	out := buffer.New(2)
	s.ProcessAudio(in, out)

	assert.Equal(t, float32(0.9), out.Channel(0)[0])
}

func TestSaturationClampsBiasAndGainParams(t *testing.T) {
	s := NewSaturation(1, 2)
	s.Init(48000)

	s.ProcessEvent(rtevent.NewFloatParameterChange(1, saturationBiasParamID, 0, 99))
	bias, _ := s.ParameterValueInDomain(saturationBiasParamID)
	assert.Equal(t, 2.5, bias)

	s.ProcessEvent(rtevent.NewFloatParameterChange(1, saturationGainParamID, 0, -5))
	norm, _ := s.ParameterValue(saturationGainParamID)
	assert.Equal(t, 0.0, norm)
}

func TestSaturationProducesFiniteOutput(t *testing.T) {
	s := NewSaturation(1, 2)
	s.Init(48000)
	s.ProcessEvent(rtevent.NewFloatParameterChange(1, saturationGainParamID, 0, 1.0))

	in := buffer.New(2)
	out := buffer.New(2)
	for i := range in.Channel(0) {
		in.Channel(0)[i] = float32(math.Sin(float64(i) * 0.5))
	}

	for i := 0; i < 10; i++ {
		s.ProcessAudio(in, out)
		for _, v := range out.Channel(0) {
			assert.False(t, math.IsNaN(float64(v)))
			assert.False(t, math.IsInf(float64(v), 0))
		}
	}
}
