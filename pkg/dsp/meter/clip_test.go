package meter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

type fakeQueue struct {
	pushed []rtevent.RtEvent
}

func (f *fakeQueue) Push(e rtevent.RtEvent) bool {
	f.pushed = append(f.pushed, e)
	return true
}

func clippedBuffer() *buffer.SampleBuffer {
	b := buffer.New(2)
	b.Channel(0)[0] = 1.5
	return b
}

func TestClipDetectorEmitsOneNotificationThenCoolsDown(t *testing.T) {
	c := NewClipDetector()
	c.SetSampleRate(48000)
	c.SetInputChannels(2)

	q := &fakeQueue{}
	buf := clippedBuffer()

	c.DetectClippedSamples(buf, q, true)
	assert.Len(t, q.pushed, 1)
	ch, isInput := q.pushed[0].ClipNotificationData()
	assert.EqualValues(t, 0, ch)
	assert.True(t, isInput)

	// Immediately clipping again should not fire again this interval.
	c.DetectClippedSamples(buf, q, true)
	assert.Len(t, q.pushed, 1)
}

func TestClipDetectorFiresAgainAfterIntervalElapses(t *testing.T) {
	c := NewClipDetector()
	c.SetSampleRate(48000)
	c.SetInputChannels(1)
	q := &fakeQueue{}
	buf := clippedBuffer()

	intervalChunks := int(48000*float64(constants.ClippingDetectionIntervalMS)/1000.0/constants.ChunkSize) + 2
	for i := 0; i < intervalChunks; i++ {
		c.DetectClippedSamples(buf, q, true)
	}
	assert.GreaterOrEqual(t, len(q.pushed), 2)
}

func TestClipDetectorIgnoresCleanBuffer(t *testing.T) {
	c := NewClipDetector()
	c.SetSampleRate(48000)
	c.SetOutputChannels(2)
	q := &fakeQueue{}
	buf := buffer.New(2)

	c.DetectClippedSamples(buf, q, false)
	assert.Empty(t, q.pushed)
}
