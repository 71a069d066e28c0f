package eventtimer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
)

const testSampleRate = 44000.0

func TestCalcChunkTime(t *testing.T) {
	sampleRate := testSampleRate
	want := time.Duration(int64((1000000.0*constants.ChunkSize/sampleRate)+0.5) * int64(time.Microsecond))
	assert.Equal(t, want, calcChunkTime(testSampleRate))
}

func TestSampleOffsetFromRealtime(t *testing.T) {
	timer := New(testSampleRate)
	timer.SetIncomingTime(time.Second)

	// Far in the future: not part of the current chunk.
	sendNow, _ := timer.SampleOffsetFromRealtime(3 * time.Second)
	assert.False(t, sendNow)

	// In the past: clamps to offset 0.
	sendNow, offset := timer.SampleOffsetFromRealtime(0)
	assert.True(t, sendNow)
	assert.Equal(t, 0, offset)

	// Middle of the chunk: offset lands near ChunkSize/2, allowing for
	// integer-division rounding toward zero.
	chunkTime := calcChunkTime(testSampleRate)
	timestamp := time.Second + chunkTime + chunkTime/2
	sendNow, offset = timer.SampleOffsetFromRealtime(timestamp)
	assert.True(t, sendNow)
	assert.GreaterOrEqual(t, offset, constants.ChunkSize/2-1)
	assert.LessOrEqual(t, offset, constants.ChunkSize/2)
}

func TestRealtimeFromSampleOffset(t *testing.T) {
	timer := New(testSampleRate)
	chunkTime := calcChunkTime(testSampleRate)
	timer.SetOutgoingTime(time.Second)

	assert.Equal(t, time.Second+chunkTime, timer.RealtimeFromSampleOffset(0))
	assert.Equal(t, time.Second+chunkTime+chunkTime/2, timer.RealtimeFromSampleOffset(constants.ChunkSize/2))
}

func TestSetSampleRateRecomputesChunkTime(t *testing.T) {
	timer := New(testSampleRate)
	before := timer.chunkTime.Load()
	timer.SetSampleRate(testSampleRate * 2)
	assert.NotEqual(t, before, timer.chunkTime.Load())
}
