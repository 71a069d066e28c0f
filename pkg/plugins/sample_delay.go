package plugins

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/dsp/delay"
)

// SampleDelayUID is the stable internal UID for the integer sample-delay plugin.
const SampleDelayUID = "sushi.testing.sample_delay"

const sampleDelayParamID uint32 = 0

// maxDelaySamples bounds the "sample_delay" integer parameter, matching the
// original's MAX_DELAY circular buffer capacity.
const maxDelaySamples = 2 * 48000

// SampleDelay applies an integer-sample delay per channel, grounded on
// original_source/src/plugins/sample_delay_plugin.cpp. Each channel owns an
// independent delay line so it can be fed and read back a fixed number of
// whole samples without crossfading, unlike the smoothed effects plugins.
type SampleDelay struct {
	base
	delaySamples int32
	lines        []*delay.Line
}

// NewSampleDelay builds a SampleDelay for a track with the given channel count.
func NewSampleDelay(id uint32, channels int) *SampleDelay {
	return &SampleDelay{base: newBase(id, SampleDelayUID, "Sample delay", channels, channels)}
}

func (s *SampleDelay) Init(sampleRate float64) processor.InitStatus {
	s.Configure(sampleRate)
	return processor.StatusOK
}

func (s *SampleDelay) Configure(sampleRate float64) {
	s.lines = make([]*delay.Line, s.maxIn)
	for i := range s.lines {
		s.lines[i] = delay.New(float64(maxDelaySamples)/sampleRate, sampleRate)
	}
}

func (s *SampleDelay) ProcessAudio(in, out *buffer.SampleBuffer) {
	if s.bypassed {
		out.Replace(in)
		return
	}
	n := minInt(in.Channels(), minInt(out.Channels(), len(s.lines)))
	for ch := 0; ch < n; ch++ {
		line := s.lines[ch]
		src := in.Channel(ch)
		dst := out.Channel(ch)
		for i := range src {
			dst[i] = line.Process(src[i], float64(s.delaySamples))
		}
	}
}

func (s *SampleDelay) ProcessEvent(ev rtevent.RtEvent) {
	if ev.Tag != rtevent.IntParameterChange {
		return
	}
	if id, value := ev.IntParameterData(); id == sampleDelayParamID {
		if value < 0 {
			value = 0
		}
		if value > maxDelaySamples-1 {
			value = maxDelaySamples - 1
		}
		s.delaySamples = value
	}
}

func (s *SampleDelay) ParameterValueInDomain(id uint32) (float64, bool) {
	if id != sampleDelayParamID {
		return 0, false
	}
	return float64(s.delaySamples), true
}

func (s *SampleDelay) ParameterValue(id uint32) (float64, bool) {
	if id != sampleDelayParamID {
		return 0, false
	}
	return float64(s.delaySamples) / float64(maxDelaySamples-1), true
}

func (s *SampleDelay) ParameterValueFormatted(id uint32) (string, bool) {
	if id != sampleDelayParamID {
		return "", false
	}
	return formatSamples(s.delaySamples), true
}
