package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func TestPeakMeterPassesAudioThroughUnchanged(t *testing.T) {
	m := NewPeakMeter(1)
	m.Init(48000)

	in := buffer.New(2)
	in.Channel(0)[0] = 0.3
	out := buffer.New(2)
	m.ProcessAudio(in, out)

	assert.Equal(t, float32(0.3), out.Channel(0)[0])
}

func TestPeakMeterReportsLevelAfterRefreshInterval(t *testing.T) {
	m := NewPeakMeter(1)
	m.Init(48000)

	in := buffer.New(2)
	for i := range in.Channel(0) {
		in.Channel(0)[i] = 1.0
	}
	out := buffer.New(2)

	for i := 0; i < 40; i++ {
		m.ProcessAudio(in, out)
	}

	level, ok := m.ParameterValueInDomain(meterLevel0ParamID)
	assert.True(t, ok)
	assert.InDelta(t, 0.833, level, 0.01)
}

func TestPeakMeterLatchesAndHoldsClip(t *testing.T) {
	m := NewPeakMeter(1)
	m.Init(48000)

	in := buffer.New(2)
	in.Channel(0)[0] = 1.5
	out := buffer.New(2)
	m.ProcessAudio(in, out)

	clip, _ := m.ParameterValue(meterClip0ParamID)
	assert.Equal(t, 1.0, clip)

	in.Channel(0)[0] = 0
	for i := 0; i < 5; i++ {
		m.ProcessAudio(in, out)
	}
	clipStillHeld, _ := m.ParameterValue(meterClip0ParamID)
	assert.Equal(t, 1.0, clipStillHeld)
}

func TestPeakMeterLinkChannelsSharesPeak(t *testing.T) {
	m := NewPeakMeter(1)
	m.Init(48000)
	m.ProcessEvent(rtevent.NewBoolParameterChange(1, meterLinkChannelsParamID, 0, true))

	in := buffer.New(2)
	in.Channel(0)[0] = 1.5
	in.Channel(1)[0] = 0
	out := buffer.New(2)
	m.ProcessAudio(in, out)

	clip0, _ := m.ParameterValue(meterClip0ParamID)
	clip1, _ := m.ParameterValue(meterClip1ParamID)
	assert.Equal(t, 1.0, clip0)
	assert.Equal(t, clip0, clip1)
}
