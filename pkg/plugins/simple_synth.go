package plugins

import (
	"math"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/dsp/envelope"
	"github.com/sushi-audio/sushi-go/pkg/dsp/oscillator"
)

// SimpleSynthUID is the stable internal UID for the monophonic test synth.
const SimpleSynthUID = "sushi.brickworks.simple_synth"

const (
	synthAttackParamID uint32 = iota
	synthDecayParamID
	synthSustainParamID
	synthReleaseParamID
	synthVolumeParamID
)

// SimpleSynth is a no-input, monophonic sine generator driven by keyboard
// events through an ADSR envelope. No original_source file for this UID
// survived distillation (only test/unittests/plugins/brickworks_simple_synth_test.cpp
// remains, which exercises note on/off plus attack/decay/sustain/release
// parameters and asserts silence once the envelope has fully released), so
// this plugin is synthesized from that test's observed behavior on top of
// dsp/oscillator.Oscillator and dsp/envelope.ADSR, the two building blocks
// the rest of this package already uses for periodic and time-based signals.
type SimpleSynth struct {
	base
	osc *oscillator.Oscillator
	env *envelope.ADSR

	attack, decay, sustain, release float64
	volume                          float64

	currentNote int32
	noteActive  bool
}

// NewSimpleSynth builds a SimpleSynth producing the given number of
// (identical) output channels and accepting no audio input.
func NewSimpleSynth(id uint32, outputChannels int) *SimpleSynth {
	return &SimpleSynth{
		base:        newBase(id, SimpleSynthUID, "Simple Synth", 0, outputChannels),
		attack:      0.01,
		decay:       0.1,
		sustain:     0.7,
		release:     0.3,
		volume:      0.8,
		currentNote: -1,
	}
}

func (s *SimpleSynth) Init(sampleRate float64) processor.InitStatus {
	s.Configure(sampleRate)
	return processor.StatusOK
}

func (s *SimpleSynth) Configure(sampleRate float64) {
	s.osc = oscillator.New(sampleRate)
	s.env = envelope.New(sampleRate)
	s.env.SetADSR(s.attack, s.decay, s.sustain, s.release)
}

func noteToFrequency(note uint8) float64 {
	return 440.0 * math.Pow(2, (float64(note)-69)/12)
}

func (s *SimpleSynth) ProcessAudio(_, out *buffer.SampleBuffer) {
	out.Clear()
	if s.bypassed || !s.env.IsActive() {
		return
	}
	channels := out.Channels()
	dst0 := out.Channel(0)
	for i := range dst0 {
		sample := s.osc.Sine() * s.env.Next() * float32(s.volume)
		dst0[i] = sample
		for ch := 1; ch < channels; ch++ {
			out.Channel(ch)[i] = sample
		}
	}
}

func (s *SimpleSynth) ProcessEvent(ev rtevent.RtEvent) {
	switch ev.Tag {
	case rtevent.NoteOn:
		_, note, _ := ev.KeyboardData()
		s.currentNote = int32(note)
		s.noteActive = true
		s.osc.SetFrequency(noteToFrequency(note))
		s.env.Trigger()
	case rtevent.NoteOff:
		_, note, _ := ev.KeyboardData()
		if s.noteActive && int32(note) == s.currentNote {
			s.noteActive = false
			s.env.Release()
		}
	case rtevent.FloatParameterChange:
		id, value := ev.FloatParameterData()
		switch id {
		case synthAttackParamID:
			s.attack = clamp(value, 0.001, 10)
			s.env.SetAttack(s.attack)
		case synthDecayParamID:
			s.decay = clamp(value, 0.001, 10)
			s.env.SetDecay(s.decay)
		case synthSustainParamID:
			s.sustain = clamp(value, 0, 1)
			s.env.SetSustain(s.sustain)
		case synthReleaseParamID:
			s.release = clamp(value, 0.001, 10)
			s.env.SetRelease(s.release)
		case synthVolumeParamID:
			s.volume = clamp(value, 0, 1)
		}
	}
}

func (s *SimpleSynth) ParameterValueInDomain(id uint32) (float64, bool) {
	switch id {
	case synthAttackParamID:
		return s.attack, true
	case synthDecayParamID:
		return s.decay, true
	case synthSustainParamID:
		return s.sustain, true
	case synthReleaseParamID:
		return s.release, true
	case synthVolumeParamID:
		return s.volume, true
	default:
		return 0, false
	}
}

func (s *SimpleSynth) ParameterValue(id uint32) (float64, bool) {
	switch id {
	case synthAttackParamID, synthDecayParamID, synthReleaseParamID:
		v, _ := s.ParameterValueInDomain(id)
		return v / 10, true
	case synthSustainParamID, synthVolumeParamID:
		return s.ParameterValueInDomain(id)
	default:
		return 0, false
	}
}

func (s *SimpleSynth) ParameterValueFormatted(id uint32) (string, bool) {
	v, ok := s.ParameterValueInDomain(id)
	if !ok {
		return "", false
	}
	switch id {
	case synthAttackParamID, synthDecayParamID, synthReleaseParamID:
		return formatPlain(v) + " s", true
	default:
		return formatPlain(v), true
	}
}
