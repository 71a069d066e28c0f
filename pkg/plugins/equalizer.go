package plugins

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/dsp/filter"
)

// EqualizerUID is the stable internal UID for the single-band peaking EQ.
const EqualizerUID = "sushi.testing.equalizer"

const (
	eqFrequencyParamID uint32 = iota
	eqGainParamID
	eqQParamID
)

// Equalizer is a single-band peaking filter, grounded on
// original_source/src/plugins/equalizer_plugin.cpp: frequency (1000 Hz
// default, 20-20000 Hz), gain (0 dB default, -24..24 dB) and Q (1.0 default,
// 0.1..10) recompute the filter's target coefficients once per chunk rather
// than per sample, matching the original's predictable per-chunk CPU cost.
type Equalizer struct {
	base
	sampleRate float64
	frequency  float64
	gainDB     float64
	q          float64
	filt       *filter.SmoothedBiquad
}

// NewEqualizer builds an Equalizer for a track with the given channel count.
func NewEqualizer(id uint32, channels int) *Equalizer {
	return &Equalizer{
		base:      newBase(id, EqualizerUID, "Equalizer", channels, channels),
		frequency: 1000,
		gainDB:    0,
		q:         1.0,
	}
}

func (e *Equalizer) Init(sampleRate float64) processor.InitStatus {
	e.Configure(sampleRate)
	return processor.StatusOK
}

func (e *Equalizer) Configure(sampleRate float64) {
	e.sampleRate = sampleRate
	e.filt = filter.NewSmoothedBiquad(e.maxIn, sampleRate)
	e.filt.SetPeakingEQ(sampleRate, e.frequency, e.q, e.gainDB)
}

func (e *Equalizer) ProcessAudio(in, out *buffer.SampleBuffer) {
	out.Replace(in)
	if e.bypassed {
		return
	}
	e.filt.SetPeakingEQ(e.sampleRate, e.frequency, e.q, e.gainDB)
	for ch := 0; ch < out.Channels(); ch++ {
		e.filt.Process(out.Channel(ch), ch)
	}
}

func (e *Equalizer) ProcessEvent(ev rtevent.RtEvent) {
	if ev.Tag != rtevent.FloatParameterChange {
		return
	}
	id, value := ev.FloatParameterData()
	switch id {
	case eqFrequencyParamID:
		e.frequency = clamp(value, 20, 20000)
	case eqGainParamID:
		e.gainDB = clamp(value, -24, 24)
	case eqQParamID:
		e.q = clamp(value, 0.1, 10)
	}
}

func (e *Equalizer) ParameterValueInDomain(id uint32) (float64, bool) {
	switch id {
	case eqFrequencyParamID:
		return e.frequency, true
	case eqGainParamID:
		return e.gainDB, true
	case eqQParamID:
		return e.q, true
	default:
		return 0, false
	}
}

func (e *Equalizer) ParameterValue(id uint32) (float64, bool) {
	switch id {
	case eqFrequencyParamID:
		return clamp((e.frequency-20)/(20000-20), 0, 1), true
	case eqGainParamID:
		return (e.gainDB + 24) / 48, true
	case eqQParamID:
		return e.q / 10, true
	default:
		return 0, false
	}
}

func (e *Equalizer) ParameterValueFormatted(id uint32) (string, bool) {
	switch id {
	case eqFrequencyParamID:
		return formatHz(e.frequency), true
	case eqGainParamID:
		return formatDB(e.gainDB), true
	case eqQParamID:
		return formatPlain(e.q), true
	default:
		return "", false
	}
}
