package meter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
)

func TestPeakMeterRisingPeakSnapsImmediately(t *testing.T) {
	m := NewPeakMeter(48000)
	buf := buffer.New(1)
	buf.Channel(0)[0] = 0.5

	level, clipped := m.Process(buf, 0)
	assert.False(t, clipped)
	assert.InDelta(t, NormalizeDB(0.5), level, 1e-9)
}

func TestPeakMeterFallingPeakIsRateLimited(t *testing.T) {
	m := NewPeakMeter(48000)
	loud := buffer.New(1)
	loud.Channel(0)[0] = 1.0
	m.Process(loud, 0)

	quiet := buffer.New(1)
	quiet.Channel(0)[0] = 0.0
	levelAfterOneChunk, _ := m.Process(quiet, 0)

	assert.Greater(t, levelAfterOneChunk, NormalizeDB(0.0))
}

func TestPeakMeterClipLatchHoldsThenReleases(t *testing.T) {
	m := NewPeakMeter(48000)
	clipBuf := buffer.New(1)
	clipBuf.Channel(0)[0] = 1.5
	_, clipped := m.Process(clipBuf, 0)
	assert.True(t, clipped)

	safeBuf := buffer.New(1)
	safeBuf.Channel(0)[0] = 0.1

	holdChunks := int(48000*constants.ClipHoldSeconds/constants.ChunkSize) + 2
	for i := 0; i < holdChunks; i++ {
		_, clipped = m.Process(safeBuf, 0)
		if i < holdChunks-2 {
			assert.True(t, clipped, "clip latch released too early at chunk %d", i)
		}
	}
	assert.False(t, clipped)
}

func TestNormalizeDBClampsToUnitRange(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeDB(0.0))
	assert.InDelta(t, 1.0, NormalizeDB(1000.0), 1e-9)
}
