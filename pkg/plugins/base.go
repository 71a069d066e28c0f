// Package plugins implements the stable-UID internal processors every host
// using this engine can instantiate without loading a real VST3 binary:
// simple testing utilities (passthrough, gain, equalizer, ...) and the
// Brickworks-derived DSP plugins, mirroring original_source/src/plugins.
package plugins

import (
	"fmt"

	"github.com/sushi-audio/sushi-go/pkg/core/processor"
)

// base carries the bookkeeping every internal plugin needs and that the
// original's InternalPlugin base class provides for free: identity, channel
// negotiation, bypass/enabled flags, and the parts of the Processor contract
// (programs, properties, state) no internal plugin in this set uses.
type base struct {
	id    uint32
	name  string
	label string

	maxIn, maxOut int
	inCh, outCh   int

	bypassed bool
	enabled  bool
}

func newBase(id uint32, name, label string, maxIn, maxOut int) base {
	return base{id: id, name: name, label: label, maxIn: maxIn, maxOut: maxOut, inCh: maxIn, outCh: maxOut, enabled: true}
}

func (b *base) ID() uint32            { return b.id }
func (b *base) Name() string          { return b.name }
func (b *base) MaxInputChannels() int { return b.maxIn }
func (b *base) MaxOutputChannels() int { return b.maxOut }

func (b *base) SetInputChannels(n int) int {
	if n > b.maxIn {
		n = b.maxIn
	}
	b.inCh = n
	return n
}

func (b *base) SetOutputChannels(n int) int {
	if n > b.maxOut {
		n = b.maxOut
	}
	b.outCh = n
	return n
}

func (b *base) SetBypassed(bypassed bool) { b.bypassed = bypassed }
func (b *base) Bypassed() bool            { return b.bypassed }
func (b *base) SetEnabled(enabled bool)   { b.enabled = enabled }
func (b *base) Enabled() bool             { return b.enabled }

func (b *base) SupportsPrograms() bool { return false }
func (b *base) ProgramCount() int      { return 0 }
func (b *base) CurrentProgram() int    { return 0 }
func (b *base) SetProgram(int) bool    { return false }

func (b *base) SetPropertyValue(uint32, string)       {}
func (b *base) PropertyValue(uint32) (string, bool)   { return "", false }

func (b *base) SetState(processor.ProcessorState, bool) {}
func (b *base) SaveState() processor.ProcessorState      { return processor.ProcessorState{} }

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// formatDB renders a dB value the way a host's parameter display would.
func formatDB(db float64) string {
	return fmt.Sprintf("%.1f dB", db)
}

func formatHz(hz float64) string {
	return fmt.Sprintf("%.0f Hz", hz)
}

func formatPlain(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatSamples(n int32) string {
	return fmt.Sprintf("%d samples", n)
}
