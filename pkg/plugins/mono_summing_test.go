package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestMonoSummingSumsAllInputChannels(t *testing.T) {
	m := NewMonoSumming(1, 4)
	m.Init(48000)

	in := buffer.New(4)
	for ch := 0; ch < 4; ch++ {
		in.Channel(ch)[0] = 0.1
	}
	out := buffer.New(1)
	m.ProcessAudio(in, out)

	assert.InDelta(t, 0.4, out.Channel(0)[0], 0.001)
}

func TestMonoSummingAppliesGain(t *testing.T) {
	m := NewMonoSumming(1, 2)
	m.Init(48000)
	m.ProcessEvent(rtevent.NewFloatParameterChange(1, monoGainParamID, 0, -6))

	in := buffer.New(2)
	in.Channel(0)[0] = 1.0
	in.Channel(1)[0] = 0
	out := buffer.New(1)

	for i := 0; i < 1000; i++ {
		m.ProcessAudio(in, out)
	}

	assert.InDelta(t, 0.501, out.Channel(0)[0], 0.01)
}

func TestMonoSummingBypassedIsTransparent(t *testing.T) {
	m := NewMonoSumming(1, 2)
	m.Init(48000)
	m.SetBypassed(true)

	in := buffer.New(2)
	in.Channel(0)[0] = 0.6
	out := buffer.New(1)
	m.ProcessAudio(in, out)

	assert.Equal(t, float32(0.6), out.Channel(0)[0])
}
