package plugins

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/dsp/gain"
)

// StereoMixerUID is the stable internal UID for the 2-in/2-out pan mixer.
const StereoMixerUID = "sushi.testing.stereo_mixer"

const (
	mixCh1PanParamID uint32 = iota
	mixCh1GainParamID
	mixCh1InvertParamID
	mixCh2PanParamID
	mixCh2GainParamID
	mixCh2InvertParamID
)

// mixerPanGain3dB mirrors track.panGain3dB: the same constant-power pan-law
// compensation, divided out here (as original_source does) so that a
// hard-panned channel keeps unity gain and a centered one is 3 dB down on
// each side.
const mixerPanGain3dB = 1.412537

func mixerCalcLRGain(g, pan float32) (left, right float32) {
	if pan < 0 {
		return (g * (1 + pan - mixerPanGain3dB*pan)) / mixerPanGain3dB, (g * (1 + pan)) / mixerPanGain3dB
	}
	return (g * (1 - pan)) / mixerPanGain3dB, (g * (1 - pan + mixerPanGain3dB*pan)) / mixerPanGain3dB
}

type mixerChannel struct {
	pan          float64
	gainDB       float64
	invertPhase  bool
	leftSmoother *processor.ValueSmoother
	rightSmoother *processor.ValueSmoother
}

// StereoMixer routes two input channels onto a stereo output, each with its
// own pan/gain/phase-invert, grounded on
// original_source/src/plugins/stereo_mixer_plugin.cpp. A mono input is
// summed straight through instead of panned, matching the original's
// single-channel fallback.
type StereoMixer struct {
	base
	ch1, ch2 mixerChannel
}

// NewStereoMixer builds a StereoMixer. Channel 1 defaults hard left, channel
// 2 hard right, as in the original's constructor-time smoother defaults.
func NewStereoMixer(id uint32) *StereoMixer {
	m := &StereoMixer{base: newBase(id, StereoMixerUID, "Stereo Mixer", 2, 2)}
	m.ch1 = mixerChannel{pan: -1.0, leftSmoother: directSmoother(1.0), rightSmoother: directSmoother(0.0)}
	m.ch2 = mixerChannel{pan: 1.0, leftSmoother: directSmoother(0.0), rightSmoother: directSmoother(1.0)}
	return m
}

func directSmoother(v float64) *processor.ValueSmoother {
	s := processor.NewValueSmoother(48000, 0.05)
	s.SetDirect(v)
	return s
}

func (m *StereoMixer) Init(sampleRate float64) processor.InitStatus {
	m.Configure(sampleRate)
	return processor.StatusOK
}

func (m *StereoMixer) Configure(sampleRate float64) {
	m.ch1.leftSmoother, m.ch1.rightSmoother = configuredPanSmoothers(sampleRate, m.ch1)
	m.ch2.leftSmoother, m.ch2.rightSmoother = configuredPanSmoothers(sampleRate, m.ch2)
}

// configuredPanSmoothers builds a channel's L/R smoothers already snapped to
// its current pan/gain/invert so that reconfiguring at a new sample rate (or
// the initial Init call) doesn't ramp audibly from silence up to the
// channel's actual starting gain.
func configuredPanSmoothers(sampleRate float64, ch mixerChannel) (left, right *processor.ValueSmoother) {
	invert := float32(1)
	if ch.invertPhase {
		invert = -1
	}
	l, r := mixerCalcLRGain(float32(gain.DbToLinear(ch.gainDB))*invert, float32(ch.pan))
	left = processor.NewValueSmoother(sampleRate, 0.05)
	right = processor.NewValueSmoother(sampleRate, 0.05)
	left.SetDirect(float64(l))
	right.SetDirect(float64(r))
	return left, right
}

func (m *StereoMixer) ProcessAudio(in, out *buffer.SampleBuffer) {
	out.Clear()

	invert1 := float32(1)
	if m.ch1.invertPhase {
		invert1 = -1
	}
	l1, r1 := mixerCalcLRGain(float32(gain.DbToLinear(m.ch1.gainDB))*invert1, float32(m.ch1.pan))
	m.ch1.leftSmoother.Set(float64(l1))
	m.ch1.rightSmoother.Set(float64(r1))

	invert2 := float32(1)
	if m.ch2.invertPhase {
		invert2 = -1
	}
	l2, r2 := mixerCalcLRGain(float32(gain.DbToLinear(m.ch2.gainDB))*invert2, float32(m.ch2.pan))
	m.ch2.leftSmoother.Set(float64(l2))
	m.ch2.rightSmoother.Set(float64(r2))

	if m.bypassed {
		out.Replace(in)
		return
	}

	if in.Channels() == 2 {
		addChannelWithGain(out, 0, in, 0, float32(m.ch1.leftSmoother.Value()))
		addChannelWithGain(out, 1, in, 0, float32(m.ch1.rightSmoother.Value()))
		addChannelWithGain(out, 0, in, 1, float32(m.ch2.leftSmoother.Value()))
		addChannelWithGain(out, 1, in, 1, float32(m.ch2.rightSmoother.Value()))
	} else {
		out.Add(in)
	}
}

func addChannelWithGain(out *buffer.SampleBuffer, outCh int, in *buffer.SampleBuffer, inCh int, g float32) {
	dst := out.Channel(outCh)
	src := in.Channel(inCh)
	for i := range dst {
		dst[i] += src[i] * g
	}
}

func (m *StereoMixer) ProcessEvent(ev rtevent.RtEvent) {
	switch ev.Tag {
	case rtevent.FloatParameterChange:
		id, value := ev.FloatParameterData()
		switch id {
		case mixCh1PanParamID:
			m.ch1.pan = clamp(value, -1, 1)
		case mixCh1GainParamID:
			m.ch1.gainDB = clamp(value, -120, 24)
		case mixCh2PanParamID:
			m.ch2.pan = clamp(value, -1, 1)
		case mixCh2GainParamID:
			m.ch2.gainDB = clamp(value, -120, 24)
		}
	case rtevent.BoolParameterChange:
		id, value := ev.BoolParameterData()
		switch id {
		case mixCh1InvertParamID:
			m.ch1.invertPhase = value
		case mixCh2InvertParamID:
			m.ch2.invertPhase = value
		}
	}
}

func (m *StereoMixer) ParameterValueInDomain(id uint32) (float64, bool) {
	switch id {
	case mixCh1PanParamID:
		return m.ch1.pan, true
	case mixCh1GainParamID:
		return m.ch1.gainDB, true
	case mixCh2PanParamID:
		return m.ch2.pan, true
	case mixCh2GainParamID:
		return m.ch2.gainDB, true
	default:
		return 0, false
	}
}

func (m *StereoMixer) ParameterValue(id uint32) (float64, bool) {
	switch id {
	case mixCh1PanParamID:
		return (m.ch1.pan + 1) / 2, true
	case mixCh1GainParamID:
		return (m.ch1.gainDB + 120) / 144, true
	case mixCh1InvertParamID:
		return boolToFloat(m.ch1.invertPhase), true
	case mixCh2PanParamID:
		return (m.ch2.pan + 1) / 2, true
	case mixCh2GainParamID:
		return (m.ch2.gainDB + 120) / 144, true
	case mixCh2InvertParamID:
		return boolToFloat(m.ch2.invertPhase), true
	default:
		return 0, false
	}
}

func (m *StereoMixer) ParameterValueFormatted(id uint32) (string, bool) {
	switch id {
	case mixCh1PanParamID, mixCh2PanParamID:
		v, _ := m.ParameterValueInDomain(id)
		return formatPlain(v), true
	case mixCh1GainParamID, mixCh2GainParamID:
		v, _ := m.ParameterValueInDomain(id)
		return formatDB(v), true
	default:
		return "", false
	}
}
