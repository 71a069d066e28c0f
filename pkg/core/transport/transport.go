// Package transport implements the engine's musical clock: tempo, time
// signature, playing state and the beat-counting arithmetic driving
// sample-accurate musical timing (§4.f). The per-chunk bookkeeping in
// set_time and the beats_per_chunk/beats_per_bar formulas are carried over
// unchanged from the original C++ engine's Transport::set_time and
// Transport::_update_internals.
package transport

import (
	"math"

	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// PlayingMode mirrors the transport's run state.
type PlayingMode int

const (
	ModeStopped PlayingMode = iota
	ModePlaying
	ModeRecording
)

// SyncMode selects the source Transport's tempo/beat clock follows.
type SyncMode int

const (
	SyncInternal SyncMode = iota
	SyncMIDI
	SyncLink
	SyncGate
)

// StateChange reports a playing-state transition latched for one chunk so
// downstream processors observe exactly one STARTING/STOPPING frame.
type StateChange int

const (
	StateUnchanged StateChange = iota
	StateStarting
	StateStopping
)

// TimeSignature is numerator/denominator, e.g. {4, 4}.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// Transport tracks tempo, time signature, and the running beat clock.
// set_time is expected to be called exactly once per chunk by the engine;
// the tempo/time-signature/mode setters enqueue an RtEvent for realtime
// application at the next chunk boundary when realtimeRunning is true.
type Transport struct {
	sampleRate float64

	tempo         float64
	timeSignature TimeSignature

	beatsPerChunk float64
	beatsPerBar   float64

	sampleCount        int64
	beatCount          float64
	barStartBeatCount  float64
	currentBarBeatCount float64

	mode     PlayingMode
	syncMode SyncMode

	prevMode    PlayingMode
	stateChange StateChange

	pending []rtevent.RtEvent
}

// New creates a Transport at 120 BPM, 4/4, stopped.
func New(sampleRate float64) *Transport {
	t := &Transport{
		sampleRate:    sampleRate,
		tempo:         120.0,
		timeSignature: TimeSignature{4, 4},
	}
	t.updateInternals()
	return t
}

func (t *Transport) updateInternals() {
	t.beatsPerChunk = t.tempo / 60.0 * float64(constants.ChunkSize) / t.sampleRate
	t.beatsPerBar = 4.0 * float64(t.timeSignature.Numerator) / float64(t.timeSignature.Denominator)
}

// SetTime advances the beat clock by the number of chunks elapsed since the
// previous call, exactly as Transport::set_time does in the original engine.
func (t *Transport) SetTime(samples int64) {
	prevSamples := t.sampleCount
	t.applyPendingRtChanges()

	chunksPassed := float64(samples-prevSamples) / float64(constants.ChunkSize)
	t.sampleCount = samples

	t.currentBarBeatCount += chunksPassed * t.beatsPerChunk
	if t.currentBarBeatCount > t.beatsPerBar {
		t.currentBarBeatCount = math.Mod(t.currentBarBeatCount, t.beatsPerBar)
		t.barStartBeatCount += t.beatsPerBar
	}
	t.beatCount += chunksPassed * t.beatsPerChunk

	t.latchStateChange()
}

func (t *Transport) latchStateChange() {
	switch {
	case t.mode != ModeStopped && t.prevMode == ModeStopped:
		t.stateChange = StateStarting
	case t.mode == ModeStopped && t.prevMode != ModeStopped:
		t.stateChange = StateStopping
	default:
		t.stateChange = StateUnchanged
	}
	t.prevMode = t.mode
}

// applyPendingRtChanges drains RT-queued setter changes at the top of the
// chunk; called once per SetTime so tempo/TS/mode changes apply exactly at
// a chunk boundary, never mid-chunk.
func (t *Transport) applyPendingRtChanges() {
	for _, e := range t.pending {
		switch e.Tag {
		case rtevent.Tempo:
			t.applyTempo(e.TempoData())
		case rtevent.TimeSignature:
			num, denom := e.TimeSignatureData()
			t.applyTimeSignature(int(num), int(denom))
		case rtevent.PlayingMode:
			t.mode = PlayingMode(e.PlayingModeData())
		case rtevent.SyncMode:
			t.syncMode = SyncMode(e.SyncModeData())
		}
	}
	t.pending = t.pending[:0]
}

// SetTempo clamps to [MinTempo, MaxTempo]. If realtimeRunning, the change is
// queued for application at the next chunk boundary; otherwise it applies
// immediately.
func (t *Transport) SetTempo(bpm float64, realtimeRunning bool) {
	if realtimeRunning {
		t.pending = append(t.pending, rtevent.NewTempo(bpm))
		return
	}
	t.applyTempo(bpm)
}

func (t *Transport) applyTempo(bpm float64) {
	if bpm < constants.MinTempo {
		bpm = constants.MinTempo
	} else if bpm > constants.MaxTempo {
		bpm = constants.MaxTempo
	}
	t.tempo = bpm
	t.updateInternals()
}

// SetTimeSignature rejects non-positive numerator/denominator silently.
func (t *Transport) SetTimeSignature(ts TimeSignature, realtimeRunning bool) {
	if ts.Numerator <= 0 || ts.Denominator <= 0 {
		return
	}
	if realtimeRunning {
		t.pending = append(t.pending, rtevent.NewTimeSignature(int32(ts.Numerator), int32(ts.Denominator)))
		return
	}
	t.applyTimeSignature(ts.Numerator, ts.Denominator)
}

func (t *Transport) applyTimeSignature(numerator, denominator int) {
	if numerator <= 0 || denominator <= 0 {
		return
	}
	t.timeSignature = TimeSignature{numerator, denominator}
	t.updateInternals()
}

// SetPlayingMode queues or applies a playing-mode change.
func (t *Transport) SetPlayingMode(mode PlayingMode, realtimeRunning bool) {
	if realtimeRunning {
		t.pending = append(t.pending, rtevent.NewPlayingMode(int32(mode)))
		return
	}
	t.mode = mode
}

// SetSyncMode queues or applies a sync-mode change.
func (t *Transport) SetSyncMode(mode SyncMode, realtimeRunning bool) {
	if realtimeRunning {
		t.pending = append(t.pending, rtevent.NewSyncMode(int32(mode)))
		return
	}
	t.syncMode = mode
}

// CurrentSamples returns the sample count set by the last SetTime call.
func (t *Transport) CurrentSamples() int64 { return t.sampleCount }

// CurrentBeats returns the beat count at the given sample offset within
// the current chunk.
func (t *Transport) CurrentBeats(sampleOffset int) float64 {
	return t.beatCount + t.beatsPerChunk*float64(sampleOffset)/float64(constants.ChunkSize)
}

// CurrentBarBeats returns the position within the current bar, in beats, at
// the given sample offset.
func (t *Transport) CurrentBarBeats(sampleOffset int) float64 {
	offset := t.beatsPerChunk * float64(sampleOffset) / float64(constants.ChunkSize)
	return math.Mod(t.currentBarBeatCount+offset, t.beatsPerBar)
}

// CurrentBarStartBeats returns the beat count at which the current bar began.
func (t *Transport) CurrentBarStartBeats() float64 { return t.barStartBeatCount }

// CurrentTempo returns the applied (not pending) tempo.
func (t *Transport) CurrentTempo() float64 { return t.tempo }

// Playing reports whether the transport is in a running mode.
func (t *Transport) Playing() bool { return t.mode != ModeStopped }

// CurrentStateChange returns the latched transition observed at the last
// SetTime call.
func (t *Transport) CurrentStateChange() StateChange { return t.stateChange }

// CurrentMode returns the active playing mode.
func (t *Transport) CurrentMode() PlayingMode { return t.mode }

// CurrentSyncMode returns the active sync mode.
func (t *Transport) CurrentSyncMode() SyncMode { return t.syncMode }
