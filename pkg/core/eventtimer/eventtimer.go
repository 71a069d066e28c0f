// Package eventtimer maps wall-clock timestamps to and from a sample offset
// within the chunk currently in flight (§4.m), grounded on
// original_source/src/engine/event_timer.cpp. The audio thread writes the
// incoming/outgoing chunk timestamps once per chunk; the non-RT dispatcher
// reads them concurrently to schedule outgoing events with sub-chunk
// precision, so both are held in atomics rather than behind a lock.
package eventtimer

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/sushi-audio/sushi-go/pkg/core/constants"
)

// Timer converts between a device callback's wall-clock timestamp and a
// 0..ChunkSize sample offset within the chunk it delivered.
type Timer struct {
	chunkTime atomic.Int64 // time.Duration, recomputed on SetSampleRate

	// incoming/outgoing are stored one chunk time ahead of the timestamp
	// passed to SetIncomingTime/SetOutgoingTime: by the time a chunk's
	// output reaches the device it is one full chunk later than when the
	// callback that produced it ran.
	incoming atomic.Int64 // time.Duration since an arbitrary zero epoch
	outgoing atomic.Int64
}

// New constructs a Timer for the given sample rate.
func New(sampleRate float64) *Timer {
	t := &Timer{}
	t.chunkTime.Store(int64(calcChunkTime(sampleRate)))
	return t
}

func calcChunkTime(sampleRate float64) time.Duration {
	return time.Duration(math.Round(1e6*constants.ChunkSize/sampleRate)) * time.Microsecond
}

// SetSampleRate recomputes the chunk duration used to interpret offsets.
func (t *Timer) SetSampleRate(sampleRate float64) {
	t.chunkTime.Store(int64(calcChunkTime(sampleRate)))
}

// SetIncomingTime records the device callback's delivery timestamp for the
// chunk about to be processed.
func (t *Timer) SetIncomingTime(timestamp time.Duration) {
	t.incoming.Store(int64(timestamp + time.Duration(t.chunkTime.Load())))
}

// SetOutgoingTime records the real time the just-computed chunk was handed
// back to the device.
func (t *Timer) SetOutgoingTime(timestamp time.Duration) {
	t.outgoing.Store(int64(timestamp + time.Duration(t.chunkTime.Load())))
}

// SampleOffsetFromRealtime returns (true, offset) if timestamp falls within
// the chunk currently in flight, else (false, 0). A timestamp at or before
// the start of the current chunk clamps to offset 0.
func (t *Timer) SampleOffsetFromRealtime(timestamp time.Duration) (bool, int) {
	chunkTime := time.Duration(t.chunkTime.Load())
	diff := timestamp - time.Duration(t.incoming.Load())
	if diff >= chunkTime {
		return false, 0
	}
	offset := int64(constants.ChunkSize) * int64(diff) / int64(chunkTime)
	if offset < 0 {
		offset = 0
	}
	return true, int(offset)
}

// RealtimeFromSampleOffset maps a within-chunk sample offset to the
// wall-clock timestamp the outgoing chunk will reach the device at.
func (t *Timer) RealtimeFromSampleOffset(offset int) time.Duration {
	chunkTime := time.Duration(t.chunkTime.Load())
	return time.Duration(t.outgoing.Load()) + time.Duration(offset)*chunkTime/constants.ChunkSize
}
