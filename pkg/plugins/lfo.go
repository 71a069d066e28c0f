package plugins

import (
	"math"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// LFOUID is the stable internal UID for the event-output example plugin.
const LFOUID = "sushi.testing.lfo"

const (
	lfoFreqParamID uint32 = iota
	lfoOutParamID
)

// LFO passes audio through unchanged and advances a sine phase once per
// chunk (not per sample), notifying its "out" OUTPUT parameter with the new
// value every chunk, grounded on original_source/src/plugins/lfo_plugin.cpp.
// It is one of the two internal plugins in this set (with WavWriter) that
// implement processor.EventEmitter: set_parameter_and_notify's outbound notification
// is modeled as a FloatParameterChange RtEvent pushed through the sink the
// hosting Track wires in via SetEventSink.
type LFO struct {
	base
	freqHz          float64
	phase           float64
	buffersPerBeat  float64
	outValue        float64
	sink            func(rtevent.RtEvent)
}

// NewLFO builds an LFO plugin for a track with the given channel count.
func NewLFO(id uint32, channels int) *LFO {
	return &LFO{
		base:     newBase(id, LFOUID, "LFO", channels, channels),
		freqHz:   1.0,
		outValue: 0.5,
	}
}

// SetEventSink implements processor.EventEmitter.
func (l *LFO) SetEventSink(sink func(rtevent.RtEvent)) { l.sink = sink }

func (l *LFO) Init(sampleRate float64) processor.InitStatus {
	l.Configure(sampleRate)
	return processor.StatusOK
}

func (l *LFO) Configure(sampleRate float64) {
	l.buffersPerBeat = sampleRate / float64(constants.ChunkSize)
}

func (l *LFO) ProcessAudio(in, out *buffer.SampleBuffer) {
	out.Replace(in)
	if l.buffersPerBeat <= 0 {
		return
	}
	l.phase += l.freqHz * math.Pi / l.buffersPerBeat
	if l.phase > 2*math.Pi {
		l.phase -= 2 * math.Pi
	}
	l.outValue = (math.Sin(l.phase) + 1) * 0.5
	if l.sink != nil {
		l.sink(rtevent.NewFloatParameterChange(l.id, lfoOutParamID, 0, l.outValue))
	}
}

func (l *LFO) ProcessEvent(ev rtevent.RtEvent) {
	if ev.Tag != rtevent.FloatParameterChange {
		return
	}
	if id, value := ev.FloatParameterData(); id == lfoFreqParamID {
		l.freqHz = clamp(value, 0.001, 10)
	}
}

func (l *LFO) ParameterValueInDomain(id uint32) (float64, bool) {
	switch id {
	case lfoFreqParamID:
		return l.freqHz, true
	case lfoOutParamID:
		return l.outValue, true
	default:
		return 0, false
	}
}

func (l *LFO) ParameterValue(id uint32) (float64, bool) {
	switch id {
	case lfoFreqParamID:
		return (l.freqHz - 0.001) / (10 - 0.001), true
	case lfoOutParamID:
		return l.outValue, true
	default:
		return 0, false
	}
}

func (l *LFO) ParameterValueFormatted(id uint32) (string, bool) {
	switch id {
	case lfoFreqParamID:
		return formatHz(l.freqHz), true
	case lfoOutParamID:
		return formatPlain(l.outValue), true
	default:
		return "", false
	}
}
