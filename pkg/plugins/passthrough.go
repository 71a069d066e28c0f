package plugins

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// PassthroughUID is the stable internal UID for the no-op test plugin.
const PassthroughUID = "sushi.testing.passthrough"

// Passthrough copies its input to its output unchanged, grounded on
// original_source/src/plugins/passthrough_plugin.cpp. Used by tests and as a
// placeholder slot when composing a track's processor chain.
type Passthrough struct {
	base
}

// NewPassthrough builds a Passthrough plugin with the given track channel count.
func NewPassthrough(id uint32, channels int) *Passthrough {
	return &Passthrough{base: newBase(id, PassthroughUID, "Passthrough", channels, channels)}
}

func (p *Passthrough) Init(float64) processor.InitStatus { return processor.StatusOK }
func (p *Passthrough) Configure(float64)                 {}

func (p *Passthrough) ProcessAudio(in, out *buffer.SampleBuffer) { out.Replace(in) }
func (p *Passthrough) ProcessEvent(rtevent.RtEvent)              {}

func (p *Passthrough) ParameterValue(uint32) (float64, bool)         { return 0, false }
func (p *Passthrough) ParameterValueInDomain(uint32) (float64, bool) { return 0, false }
func (p *Passthrough) ParameterValueFormatted(uint32) (string, bool) { return "", false }
