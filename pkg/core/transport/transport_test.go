package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
)

func TestTempoClamping(t *testing.T) {
	tr := New(48000)
	tr.SetTempo(130, false)
	assert.Equal(t, 130.0, tr.CurrentTempo())

	tr.SetTempo(130000, false)
	assert.Equal(t, constants.MaxTempo, tr.CurrentTempo())

	tr.SetTempo(-100, false)
	assert.Equal(t, constants.MinTempo, tr.CurrentTempo())
}

func TestInvalidTimeSignatureRejectedSilently(t *testing.T) {
	tr := New(48000)
	tr.SetTimeSignature(TimeSignature{5, 8}, false)
	assert.Equal(t, TimeSignature{5, 8}, tr.timeSignature)

	tr.SetTimeSignature(TimeSignature{-1, 100}, false)
	assert.Equal(t, TimeSignature{5, 8}, tr.timeSignature)

	tr.SetTimeSignature(TimeSignature{1, 0}, false)
	assert.Equal(t, TimeSignature{5, 8}, tr.timeSignature)
}

func TestTimeline44AdvancesAndWrapsBars(t *testing.T) {
	const sr = 32768
	tr := New(sr)
	tr.SetTimeSignature(TimeSignature{4, 4}, false)
	tr.SetTempo(120, false)
	tr.SetPlayingMode(ModePlaying, false)
	tr.SetTime(0)

	assert.Equal(t, 0.0, tr.CurrentBarBeats(0))
	assert.Equal(t, 0.0, tr.CurrentBeats(0))
	assert.Equal(t, 0.0, tr.CurrentBarStartBeats())

	tr.SetTime(sr)
	assert.InDelta(t, 2.0, tr.CurrentBarBeats(0), 1e-9)
	assert.InDelta(t, 2.0, tr.CurrentBeats(0), 1e-9)
	assert.InDelta(t, 0.0, tr.CurrentBarStartBeats(), 1e-9)
	assert.InDelta(t, 3.0, tr.CurrentBarBeats(sr/2), 1e-9)
	assert.InDelta(t, 4.0, tr.CurrentBeats(sr), 1e-9)

	tr.SetTime(5 * sr / 2)
	assert.InDelta(t, 1.0, tr.CurrentBarBeats(0), 1e-9)
	assert.InDelta(t, 5.0, tr.CurrentBeats(0), 1e-9)
	assert.InDelta(t, 4.0, tr.CurrentBarStartBeats(), 1e-9)
}

func TestPlayStateChangeLatchesOneFrame(t *testing.T) {
	tr := New(48000)
	tr.SetTimeSignature(TimeSignature{4, 4}, false)
	tr.SetTempo(120, false)
	tr.SetPlayingMode(ModeStopped, false)
	tr.SetSyncMode(SyncInternal, false)
	tr.SetTime(0)
	assert.False(t, tr.Playing())
	assert.Equal(t, StateUnchanged, tr.CurrentStateChange())

	tr.SetTime(44000)
	assert.False(t, tr.Playing())
	assert.Equal(t, StateUnchanged, tr.CurrentStateChange())

	tr.SetPlayingMode(ModePlaying, false)
	tr.SetTime(88000)
	assert.True(t, tr.Playing())
	assert.Equal(t, StateStarting, tr.CurrentStateChange())

	tr.SetTime(132000)
	assert.True(t, tr.Playing())
	assert.Equal(t, StateUnchanged, tr.CurrentStateChange())
}

func TestRealtimeChangesApplyAtNextChunkBoundary(t *testing.T) {
	tr := New(48000)
	tr.SetTimeSignature(TimeSignature{4, 4}, false)
	tr.SetPlayingMode(ModeStopped, false)

	tr.SetTempo(123, true)
	assert.NotEqual(t, 123.0, tr.CurrentTempo(), "must not apply before the next chunk boundary")
	tr.SetTime(0)
	assert.Equal(t, 123.0, tr.CurrentTempo())

	tr.SetTimeSignature(TimeSignature{6, 8}, true)
	tr.SetTime(constants.ChunkSize)
	assert.Equal(t, TimeSignature{6, 8}, tr.timeSignature)

	tr.SetSyncMode(SyncMIDI, true)
	tr.SetTime(2 * constants.ChunkSize)
	assert.Equal(t, SyncMIDI, tr.CurrentSyncMode())

	tr.SetPlayingMode(ModePlaying, true)
	tr.SetTime(3 * constants.ChunkSize)
	assert.Equal(t, ModePlaying, tr.CurrentMode())
}
