package plugins

import (
	"math"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/dsp/distortion"
)

// SaturationUID is the stable internal UID for the Brickworks-derived
// saturation plugin.
const SaturationUID = "sushi.brickworks.saturation"

const (
	saturationBiasParamID uint32 = iota
	saturationGainParamID
)

// Saturation drives its input through a per-channel tube-style nonlinearity,
// grounded on original_source/src/plugins/brickworks/saturation_plugin.h/.cpp:
// that plugin wraps Brickworks' bw_satur with 2x oversampling and exposes
// "bias" (-2.5..2.5) and "gain" (0.1..10, warped cubically from a 0..1 host
// parameter) controls. No Brickworks binding exists in this port, so the
// equivalent shape is built on dsp/distortion.TubeSaturator, which exposes
// the same bias/drive pair and its own internal anti-aliasing pole.
type Saturation struct {
	base
	biasValue float64
	gainParam float64
	stages    []*distortion.TubeSaturator
}

// NewSaturation builds a Saturation plugin for a track with the given channel count.
func NewSaturation(id uint32, channels int) *Saturation {
	return &Saturation{
		base:      newBase(id, SaturationUID, "Saturation", channels, channels),
		gainParam: 0.5,
	}
}

func (s *Saturation) Init(sampleRate float64) processor.InitStatus {
	s.Configure(sampleRate)
	return processor.StatusOK
}

func (s *Saturation) Configure(sampleRate float64) {
	s.stages = make([]*distortion.TubeSaturator, s.maxIn)
	for i := range s.stages {
		st := distortion.NewTubeSaturator(sampleRate)
		st.SetMix(1.0)
		s.stages[i] = st
	}
	s.applyParams()
}

// applyParams converts bias/gain into the TubeSaturator's drive/bias knobs,
// mirroring the original's cubic warp of the "gain" host parameter into the
// 0.1..10 range bw_satur expects.
func (s *Saturation) applyParams() {
	gain := 0.1 + 9.9*s.gainParam*s.gainParam*s.gainParam
	for _, st := range s.stages {
		st.SetDrive(gain)
		st.SetBias(s.biasValue / 2.5)
	}
}

func (s *Saturation) ProcessAudio(in, out *buffer.SampleBuffer) {
	if s.bypassed {
		out.Replace(in)
		return
	}
	s.applyParams()
	n := minInt(in.Channels(), minInt(out.Channels(), len(s.stages)))
	for ch := 0; ch < n; ch++ {
		src := in.Channel(ch)
		dst := out.Channel(ch)
		st := s.stages[ch]
		for i := range src {
			dst[i] = float32(st.Process(float64(src[i])))
		}
	}
}

func (s *Saturation) ProcessEvent(ev rtevent.RtEvent) {
	if ev.Tag != rtevent.FloatParameterChange {
		return
	}
	id, value := ev.FloatParameterData()
	switch id {
	case saturationBiasParamID:
		s.biasValue = clamp(value, -2.5, 2.5)
	case saturationGainParamID:
		s.gainParam = clamp(value, 0, 1)
	}
}

func (s *Saturation) ParameterValueInDomain(id uint32) (float64, bool) {
	switch id {
	case saturationBiasParamID:
		return s.biasValue, true
	case saturationGainParamID:
		return 0.1 + 9.9*s.gainParam*s.gainParam*s.gainParam, true
	default:
		return 0, false
	}
}

func (s *Saturation) ParameterValue(id uint32) (float64, bool) {
	switch id {
	case saturationBiasParamID:
		return (s.biasValue + 2.5) / 5, true
	case saturationGainParamID:
		return s.gainParam, true
	default:
		return 0, false
	}
}

func (s *Saturation) ParameterValueFormatted(id uint32) (string, bool) {
	switch id {
	case saturationBiasParamID:
		return formatPlain(s.biasValue), true
	case saturationGainParamID:
		v, _ := s.ParameterValueInDomain(id)
		return formatPlain(math.Round(v*100) / 100), true
	default:
		return "", false
	}
}
