// Package track implements Track, the mixer channel hosting a chain of
// Processors, its ping-pong buffering, keyboard event bubbling, and the
// three pan/gain modes (§4.g). The pan law and per-chunk chain-processing
// shape are carried over unchanged from the original engine's
// Track::_process_plugins / Track::_apply_pan_and_gain family.
package track

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// panGain3dB is the 3 dB constant-power pan-law compensation constant.
const panGain3dB = 1.412537

// PanMode selects how a Track turns its gain/pan parameters into per-sample
// left/right gains.
type PanMode int

const (
	PanGainOnly PanMode = iota
	PanAndGain
	PanAndGainPerBus
)

func calcLRGain(gain, pan float32) (left, right float32) {
	if pan < 0 {
		return gain * (1 + pan - panGain3dB*pan), gain * (1 + pan)
	}
	return gain * (1 - pan), gain * (1 - pan + panGain3dB*pan)
}

type busSmoothers struct {
	left, right *processor.ValueSmoother
}

// Track hosts an ordered chain of child Processors and mixes their combined
// output down through gain/pan onto its own output buffer.
type Track struct {
	id      uint32
	name    string
	buses   int
	panMode PanMode

	processors []processor.Processor

	inputBuffer  *buffer.SampleBuffer
	outputBuffer *buffer.SampleBuffer

	gain    []float32
	pan     []float32
	mute    bool
	bypass  bool
	enabled bool

	smoothers []busSmoothers

	// keyboard event bubbling queue: Processor A can push new keyboard
	// events onto the same queue that Processor A+1 will drain, emulating
	// an event bus across the chain. Single-threaded within one render
	// call; head/tail indices into a reused backing array keep this
	// allocation-free once warmed up, unlike a reslice-from-the-front queue.
	kbQueue []rtevent.RtEvent
	kbHead  int

	eventOutput func(rtevent.RtEvent)
}

// New creates a Track with the given channel count. panControls enables
// PAN_AND_GAIN when channels <= 2; otherwise the track is GAIN_ONLY.
func New(id uint32, name string, channels int, panControls bool) *Track {
	mode := PanGainOnly
	if panControls && channels <= 2 {
		mode = PanAndGain
	}
	return newTrack(id, name, max(channels, 2), 1, mode)
}

// NewMultibus creates a multi-bus Track (2 channels per bus) using
// PAN_AND_GAIN_PER_BUS.
func NewMultibus(id uint32, name string, buses int) *Track {
	return newTrack(id, name, buses*2, buses, PanAndGainPerBus)
}

func newTrack(id uint32, name string, channels, buses int, mode PanMode) *Track {
	t := &Track{
		id:           id,
		name:         name,
		buses:        buses,
		panMode:      mode,
		inputBuffer:  buffer.New(channels),
		outputBuffer: buffer.New(channels),
		gain:         make([]float32, buses),
		pan:          make([]float32, buses),
		smoothers:    make([]busSmoothers, buses),
		processors:   make([]processor.Processor, 0, constants.MaxTrackProcessors),
		enabled:      true,
		kbQueue:      make([]rtevent.RtEvent, 0, 64),
	}
	for i := range t.gain {
		t.gain[i] = 1.0
	}
	for i := range t.smoothers {
		t.smoothers[i] = busSmoothers{
			left:  newDirectSmoother(1.0),
			right: newDirectSmoother(1.0),
		}
	}
	return t
}

func newDirectSmoother(v float64) *processor.ValueSmoother {
	s := processor.NewValueSmoother(48000, 0.05)
	s.SetDirect(v)
	return s
}

// ID returns the track's unique object id.
func (t *Track) ID() uint32 { return t.id }

// Name returns the track's display name.
func (t *Track) Name() string { return t.name }

// InputBuffer exposes the track's owned input plane for the engine to copy
// connected audio into before calling Render.
func (t *Track) InputBuffer() *buffer.SampleBuffer { return t.inputBuffer }

// OutputBuffer exposes the track's owned output plane after Render.
func (t *Track) OutputBuffer() *buffer.SampleBuffer { return t.outputBuffer }

// SetEventOutput wires where unconsumed keyboard events are forwarded,
// typically the owning AudioEngine.
func (t *Track) SetEventOutput(fn func(rtevent.RtEvent)) { t.eventOutput = fn }

// SetGain sets the target gain (linear) for the given bus (0 for single-bus
// tracks).
func (t *Track) SetGain(bus int, gain float32) { t.gain[bus] = gain }

// SetPan sets the target pan (-1..1) for the given bus.
func (t *Track) SetPan(bus int, pan float32) { t.pan[bus] = pan }

// SetMute zero-gains the track's output while true.
func (t *Track) SetMute(muted bool) { t.mute = muted }

// Add inserts processor before the given id, or appends if before is absent.
// Returns false if the track is at capacity.
func (t *Track) Add(p processor.Processor, before ...uint32) bool {
	if len(t.processors) >= constants.MaxTrackProcessors {
		return false
	}
	if emitter, ok := p.(processor.EventEmitter); ok {
		emitter.SetEventSink(t.SendEvent)
	}
	if len(before) > 0 {
		for i, existing := range t.processors {
			if existing.ID() == before[0] {
				t.processors = append(t.processors, nil)
				copy(t.processors[i+1:], t.processors[i:])
				t.processors[i] = p
				return true
			}
		}
	}
	t.processors = append(t.processors, p)
	return true
}

// Remove drops the processor with the given id and clears its event-output
// wiring. Returns false if not found.
func (t *Track) Remove(id uint32) bool {
	for i, p := range t.processors {
		if p.ID() == id {
			if emitter, ok := p.(processor.EventEmitter); ok {
				emitter.SetEventSink(nil)
			}
			t.processors = append(t.processors[:i], t.processors[i+1:]...)
			return true
		}
	}
	return false
}

// SetBypassed cascades to every child processor and then the track itself.
func (t *Track) SetBypassed(bypassed bool) {
	for _, p := range t.processors {
		p.SetBypassed(bypassed)
	}
	t.bypass = bypassed
}

// Bypassed reports the track's own bypass flag.
func (t *Track) Bypassed() bool { return t.bypass }

// SetEnabled toggles whether the track participates in rendering.
func (t *Track) SetEnabled(enabled bool) { t.enabled = enabled }

// Enabled reports whether the track participates in rendering.
func (t *Track) Enabled() bool { return t.enabled }

// Render runs process_audio against the track's own buffers, then clears
// the input buffer so it is ready for the next chunk's accumulation.
func (t *Track) Render() {
	t.ProcessAudio(t.inputBuffer, t.outputBuffer)
	t.inputBuffer.Clear()
}

// ProcessAudio runs the processor chain with ping-pong buffering: the
// output of processor n aliases the input of processor n+1 with no copy,
// except for empty/single-processor chains which pass the buffer straight
// through without aliasing at all.
func (t *Track) ProcessAudio(in, out *buffer.SampleBuffer) {
	t.processChain(in, out)
	t.drainUnconsumedKeyboardEvents()

	muted := t.mute
	switch t.panMode {
	case PanGainOnly:
		t.applyGain(out, muted)
	case PanAndGain:
		t.applyPanAndGain(out, 0, 0, muted)
	case PanAndGainPerBus:
		for bus := 0; bus < t.buses; bus++ {
			t.applyPanAndGain(out, bus, bus*2, muted)
		}
	}
}

func (t *Track) processChain(in, out *buffer.SampleBuffer) {
	if len(t.processors) == 0 {
		out.Replace(in)
		return
	}
	if len(t.processors) == 1 {
		t.drainKeyboardEventsTo(t.processors[0])
		t.processors[0].ProcessAudio(in, out)
		return
	}

	aliasedIn := in
	aliasedOut := out
	for _, p := range t.processors {
		t.drainKeyboardEventsTo(p)
		p.ProcessAudio(aliasedIn, aliasedOut)
		aliasedIn, aliasedOut = aliasedOut, aliasedIn
	}
	if aliasedIn != out {
		out.Replace(aliasedIn)
	}
}

// kbPop removes and returns the event at the front of the bubbling queue,
// resetting the backing array to the start once it drains so later pushes
// never grow the slice during steady-state operation.
func (t *Track) kbPop() rtevent.RtEvent {
	e := t.kbQueue[t.kbHead]
	t.kbHead++
	if t.kbHead == len(t.kbQueue) {
		t.kbQueue = t.kbQueue[:0]
		t.kbHead = 0
	}
	return e
}

// drainKeyboardEventsTo hands every currently-queued keyboard event to p;
// events p pushes back during its own ProcessEvent are appended and will be
// seen by the next processor in the chain, emulating an event bus.
func (t *Track) drainKeyboardEventsTo(p processor.Processor) {
	pending := len(t.kbQueue) - t.kbHead
	for i := 0; i < pending; i++ {
		p.ProcessEvent(t.kbPop())
	}
}

func (t *Track) drainUnconsumedKeyboardEvents() {
	for len(t.kbQueue)-t.kbHead > 0 {
		e := t.kbPop()
		if t.eventOutput != nil {
			t.eventOutput(e)
		}
	}
}

// ProcessEvent caches keyboard events on the bubbling queue; everything
// else is dropped at this layer (a Track has no automatable parameters;
// gain/pan/mute are set directly through SetGain/SetPan/SetMute).
func (t *Track) ProcessEvent(e rtevent.RtEvent) {
	if isKeyboardEvent(e.Tag) {
		t.kbQueue = append(t.kbQueue, e)
	}
}

// SendEvent is the entry point processors in this chain use to emit new
// keyboard events that should flow to subsequent processors (or out to the
// engine if this is the last processor).
func (t *Track) SendEvent(e rtevent.RtEvent) {
	if isKeyboardEvent(e.Tag) {
		t.kbQueue = append(t.kbQueue, e)
		return
	}
	if t.eventOutput != nil {
		t.eventOutput(e)
	}
}

func isKeyboardEvent(tag rtevent.Tag) bool {
	switch tag {
	case rtevent.NoteOn, rtevent.NoteOff, rtevent.NoteAftertouch,
		rtevent.ChannelAftertouch, rtevent.PitchBend, rtevent.Modulation,
		rtevent.WrappedMIDI:
		return true
	default:
		return false
	}
}

func (t *Track) applyGain(out *buffer.SampleBuffer, muted bool) {
	gain := t.gain[0]
	if muted {
		gain = 0
	}
	sm := t.smoothers[0].left
	before := sm.Value()
	sm.Set(float64(gain))
	applyChannelGain(out, 0, out.Channels(), float32(before), float32(sm.Value()), sm.Stationary())
}

func (t *Track) applyPanAndGain(out *buffer.SampleBuffer, bus, startCh int, muted bool) {
	gain := t.gain[bus]
	if muted {
		gain = 0
	}
	pan := t.pan[bus]
	leftGain, rightGain := calcLRGain(gain, pan)

	sm := t.smoothers[bus]
	leftBefore, rightBefore := sm.left.Value(), sm.right.Value()
	sm.left.Set(float64(leftGain))
	sm.right.Set(float64(rightGain))

	applyChannelGain(out, startCh, 1, float32(leftBefore), float32(sm.left.Value()), sm.left.Stationary())
	applyChannelGain(out, startCh+1, 1, float32(rightBefore), float32(sm.right.Value()), sm.right.Stationary())
}

// applyChannelGain applies a constant gain if the smoother has settled, or
// a ramp from its current to next value otherwise. startCh/numCh select a
// channel window within out.
func applyChannelGain(out *buffer.SampleBuffer, startCh, numCh int, current, target float32, stationary bool) {
	view := buffer.NewNonOwning(out, startCh, numCh)
	if stationary {
		view.ApplyGain(target)
		return
	}
	view.Ramp(current, target)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
