// Package processor defines the Processor contract every node in a Track's
// chain implements, plus the ValueSmoother used for per-parameter gain
// smoothing (§4.e).
package processor

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// InitStatus is the result of Processor.Init.
type InitStatus int

const (
	StatusOK InitStatus = iota
	StatusError
	StatusParameterError
	StatusMemoryError
	StatusPluginLoadError
)

// ProcessorState is the opaque, processor-defined snapshot round-tripped by
// SaveState/SetState. ParamValues holds every smoothed/plain parameter's
// plain-domain value by id; Blob carries any processor-specific extra data
// (filter delay lines, custom tables) the processor chooses to persist.
type ProcessorState struct {
	ProgramID   int
	ParamValues map[uint32]float64
	Blob        []byte
}

// Processor is implemented by every audio-processing node hosted in a Track
// chain: a plugin or a built-in effect. Track itself does not implement it.
type Processor interface {
	ID() uint32
	Name() string

	Init(sampleRate float64) InitStatus
	Configure(sampleRate float64)

	SetInputChannels(n int) int
	SetOutputChannels(n int) int
	MaxInputChannels() int
	MaxOutputChannels() int

	ProcessAudio(in, out *buffer.SampleBuffer)
	ProcessEvent(e rtevent.RtEvent)

	SetBypassed(bypassed bool)
	Bypassed() bool
	SetEnabled(enabled bool)
	Enabled() bool

	ParameterValue(id uint32) (float64, bool)
	ParameterValueInDomain(id uint32) (float64, bool)
	ParameterValueFormatted(id uint32) (string, bool)

	SetPropertyValue(id uint32, value string)
	PropertyValue(id uint32) (string, bool)

	SetState(state ProcessorState, realtimeRunning bool)
	SaveState() ProcessorState

	SupportsPrograms() bool
	ProgramCount() int
	CurrentProgram() int
	SetProgram(i int) bool
}

// EventEmitter is an optional interface for processors that need to push new
// events (bubbled keyboard events, output-parameter change notifications)
// onto the chain hosting them, mirroring the original engine's
// HostControl::post_event escape hatch from inside a plugin. A Track wires
// this to its own SendEvent when adding a processor that implements it.
type EventEmitter interface {
	SetEventSink(sink func(e rtevent.RtEvent))
}
