package plugins

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/dsp/gain"
)

// GainUID is the stable internal UID for the single-parameter gain plugin.
const GainUID = "sushi.testing.gain"

const gainParamID uint32 = 0

// Gain applies a single smoothed dB gain parameter to every channel,
// grounded on original_source/src/plugins/gain_plugin.cpp: the parameter
// stores dB (0 default, -120..24 range) but process_audio multiplies by the
// linear-domain smoothed value, `out = out.clear() + in * gain_db_to_lin`.
type Gain struct {
	base
	gainDB   float64
	smoother *processor.ValueSmoother
}

// NewGain builds a Gain plugin for a track with the given channel count.
func NewGain(id uint32, channels int) *Gain {
	return &Gain{
		base:     newBase(id, GainUID, "Gain", channels, channels),
		smoother: processor.NewValueSmoother(48000, 0.05),
	}
}

func (g *Gain) Init(sampleRate float64) processor.InitStatus {
	g.Configure(sampleRate)
	return processor.StatusOK
}

func (g *Gain) Configure(sampleRate float64) {
	g.smoother = processor.NewValueSmoother(sampleRate, 0.05)
	g.smoother.SetDirect(gain.DbToLinear(g.gainDB))
}

func (g *Gain) ProcessAudio(in, out *buffer.SampleBuffer) {
	if g.bypassed {
		out.Replace(in)
		return
	}
	before := g.smoother.Value()
	g.smoother.Set(gain.DbToLinear(g.gainDB))
	out.Clear()
	if g.smoother.Stationary() {
		out.AddWithGain(in, float32(g.smoother.Value()))
		return
	}
	out.AddWithRamp(in, float32(before), float32(g.smoother.Value()))
}

func (g *Gain) ProcessEvent(e rtevent.RtEvent) {
	if e.Tag == rtevent.FloatParameterChange {
		if id, value := e.FloatParameterData(); id == gainParamID {
			g.gainDB = clamp(value, -120, 24)
		}
	}
}

func (g *Gain) ParameterValue(id uint32) (float64, bool) {
	if id != gainParamID {
		return 0, false
	}
	return (g.gainDB + 120) / 144, true
}

func (g *Gain) ParameterValueInDomain(id uint32) (float64, bool) {
	if id != gainParamID {
		return 0, false
	}
	return g.gainDB, true
}

func (g *Gain) ParameterValueFormatted(id uint32) (string, bool) {
	if id != gainParamID {
		return "", false
	}
	return formatDB(g.gainDB), true
}
