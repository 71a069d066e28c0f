package plugins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestEqualizerBypassIsTransparent(t *testing.T) {
	e := NewEqualizer(1, 2)
	e.Init(48000)
	e.SetBypassed(true)

	in := buffer.New(2)
	in.Channel(0)[10] = 0.42
	out := buffer.New(2)
	e.ProcessAudio(in, out)

	assert.Equal(t, float32(0.42), out.Channel(0)[10])
}

func TestEqualizerParameterClamping(t *testing.T) {
	e := NewEqualizer(1, 2)
	e.Init(48000)

	e.ProcessEvent(rtevent.NewFloatParameterChange(1, eqFrequencyParamID, 0, 100000))
	freq, _ := e.ParameterValueInDomain(eqFrequencyParamID)
	assert.Equal(t, 20000.0, freq)

	e.ProcessEvent(rtevent.NewFloatParameterChange(1, eqGainParamID, 0, -999))
	g, _ := e.ParameterValueInDomain(eqGainParamID)
	assert.Equal(t, -24.0, g)

	e.ProcessEvent(rtevent.NewFloatParameterChange(1, eqQParamID, 0, 0))
	q, _ := e.ParameterValueInDomain(eqQParamID)
	assert.Equal(t, 0.1, q)
}

func TestEqualizerProducesFiniteOutput(t *testing.T) {
	e := NewEqualizer(1, 2)
	e.Init(48000)
	e.ProcessEvent(rtevent.NewFloatParameterChange(1, eqGainParamID, 0, 12))
	e.ProcessEvent(rtevent.NewFloatParameterChange(1, eqFrequencyParamID, 0, 500))

	in := buffer.New(2)
	out := buffer.New(2)
	for i := range in.Channel(0) {
		in.Channel(0)[i] = float32(math.Sin(float64(i) * 0.3))
	}

	for i := 0; i < 20; i++ {
		e.ProcessAudio(in, out)
		for _, v := range out.Channel(0) {
			assert.False(t, math.IsNaN(float64(v)))
			assert.False(t, math.IsInf(float64(v), 0))
		}
	}
}
