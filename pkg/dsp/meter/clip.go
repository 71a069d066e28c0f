// Package meter implements the engine-level clip detector and the
// per-processor peak meter building block (§4.l).
package meter

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// Queue is the outbound RT FIFO a ClipDetector pushes CLIP_NOTIFICATION
// events onto.
type Queue interface {
	Push(rtevent.RtEvent) bool
}

// ClipDetector watches an input or output buffer for samples exceeding
// full scale and emits at most one CLIP_NOTIFICATION per channel per
// ClippingDetectionIntervalMS, per the engine's process_chunk steps 7 and
// 14 (§4.k).
type ClipDetector struct {
	interval uint32

	inputCounts  []uint32
	outputCounts []uint32
}

// NewClipDetector creates a detector; SetSampleRate must be called before
// use to size the cool-down interval.
func NewClipDetector() *ClipDetector {
	return &ClipDetector{}
}

// SetSampleRate recomputes the cool-down interval in samples, one chunk
// short of ClippingDetectionIntervalMS: a channel's counter is not advanced
// on the chunk in which it fires, so a channel that just fired can fire
// again ClippingDetectionIntervalMS later, not one interval plus one chunk.
func (c *ClipDetector) SetSampleRate(sampleRate float64) {
	c.interval = uint32(sampleRate*float64(constants.ClippingDetectionIntervalMS)/1000.0) - constants.ChunkSize
}

// SetInputChannels (re)sizes the input cool-down counters, all starting
// already expired so the first clip on a newly added channel fires
// immediately.
func (c *ClipDetector) SetInputChannels(channels int) {
	c.inputCounts = newExpiredCounters(channels, c.interval)
}

// SetOutputChannels (re)sizes the output cool-down counters.
func (c *ClipDetector) SetOutputChannels(channels int) {
	c.outputCounts = newExpiredCounters(channels, c.interval)
}

func newExpiredCounters(channels int, interval uint32) []uint32 {
	counts := make([]uint32, channels)
	for i := range counts {
		counts[i] = interval
	}
	return counts
}

// DetectClippedSamples scans buf and pushes a CLIP_NOTIFICATION onto queue
// for each channel that clipped and whose cool-down has expired.
func (c *ClipDetector) DetectClippedSamples(buf *buffer.SampleBuffer, queue Queue, isInput bool) {
	counts := c.outputCounts
	if isInput {
		counts = c.inputCounts
	}
	for i := 0; i < buf.Channels() && i < len(counts); i++ {
		if buf.CountClippedSamples(i) > 0 && counts[i] >= c.interval {
			queue.Push(rtevent.NewClipNotification(0, int32(i), isInput))
			counts[i] = 0
		} else {
			counts[i] += constants.ChunkSize
		}
	}
}
