package plugins

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/dsp/gain"
	"github.com/sushi-audio/sushi-go/pkg/dsp/mix"
)

// MonoSummingUID is the stable internal UID for the N-to-1 channel summing plugin.
const MonoSummingUID = "sushi.testing.mono_summing"

const monoGainParamID uint32 = 0

// MonoSumming sums every input channel onto a single output channel with a
// smoothed output gain stage. No original_source file for this UID survived
// distillation (the filtered pack carries stereo_mixer_plugin.cpp but not a
// dedicated mono-summing source), so this plugin is synthesized from
// stereo_mixer_plugin.cpp's conventions: a single smoothed gain parameter,
// bypass falling back to bypass_process, and mix.Sum for the N-to-1
// downmix that dsp/mix already provides.
type MonoSumming struct {
	base
	gainDB   float64
	smoother *processor.ValueSmoother
	planes   [][]float32
}

// NewMonoSumming builds a MonoSumming plugin accepting up to maxChannels inputs.
func NewMonoSumming(id uint32, maxChannels int) *MonoSumming {
	return &MonoSumming{base: newBase(id, MonoSummingUID, "Mono Summing", maxChannels, 1)}
}

func (m *MonoSumming) Init(sampleRate float64) processor.InitStatus {
	m.Configure(sampleRate)
	return processor.StatusOK
}

func (m *MonoSumming) Configure(sampleRate float64) {
	m.smoother = processor.NewValueSmoother(sampleRate, 0.05)
	m.smoother.SetDirect(gain.DbToLinear(m.gainDB))
	m.planes = make([][]float32, m.maxIn)
}

func (m *MonoSumming) ProcessAudio(in, out *buffer.SampleBuffer) {
	if m.bypassed {
		out.Replace(in)
		return
	}
	n := minInt(in.Channels(), len(m.planes))
	for ch := 0; ch < n; ch++ {
		m.planes[ch] = in.Channel(ch)
	}
	dst := out.Channel(0)
	mix.Sum(m.planes[:n], dst)

	before := m.smoother.Value()
	m.smoother.Set(gain.DbToLinear(m.gainDB))
	if m.smoother.Stationary() {
		gain.ApplyBuffer(dst, float32(m.smoother.Value()))
	} else {
		gain.Fade(dst, float32(before), float32(m.smoother.Value()))
	}
}

func (m *MonoSumming) ProcessEvent(ev rtevent.RtEvent) {
	if ev.Tag == rtevent.FloatParameterChange {
		if id, value := ev.FloatParameterData(); id == monoGainParamID {
			m.gainDB = clamp(value, -120, 24)
		}
	}
}

func (m *MonoSumming) ParameterValueInDomain(id uint32) (float64, bool) {
	if id != monoGainParamID {
		return 0, false
	}
	return m.gainDB, true
}

func (m *MonoSumming) ParameterValue(id uint32) (float64, bool) {
	if id != monoGainParamID {
		return 0, false
	}
	return (m.gainDB + 120) / 144, true
}

func (m *MonoSumming) ParameterValueFormatted(id uint32) (string, bool) {
	if id != monoGainParamID {
		return "", false
	}
	return formatDB(m.gainDB), true
}
