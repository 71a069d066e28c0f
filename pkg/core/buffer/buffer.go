// Package buffer implements the planar, fixed-chunk audio sample buffer
// shared by Track, Processor and the engine (§4.b).
package buffer

import (
	"math"

	"github.com/sushi-audio/sushi-go/pkg/core/constants"
)

// SampleBuffer owns channels x ChunkSize planar float32 data, or borrows an
// existing plane in non-owning mode. Non-owning buffers never free; their
// lifetime is bounded by the owning buffer they view.
type SampleBuffer struct {
	channels [][]float32
	owning   bool
}

// New allocates an owning buffer for the given channel count.
func New(numChannels int) *SampleBuffer {
	channels := make([][]float32, numChannels)
	for i := range channels {
		channels[i] = make([]float32, constants.ChunkSize)
	}
	return &SampleBuffer{channels: channels, owning: true}
}

// NewNonOwning creates a non-owning view over n channels of base starting at
// startChannel. The view must not outlive base.
func NewNonOwning(base *SampleBuffer, startChannel, numChannels int) *SampleBuffer {
	view := make([][]float32, numChannels)
	for i := 0; i < numChannels; i++ {
		view[i] = base.channels[startChannel+i]
	}
	return &SampleBuffer{channels: view, owning: false}
}

// Channels returns the number of planes in this buffer.
func (b *SampleBuffer) Channels() int { return len(b.channels) }

// Channel returns the raw plane for direct read/write access.
func (b *SampleBuffer) Channel(ch int) []float32 { return b.channels[ch] }

// Clear zeroes every sample in every channel.
func (b *SampleBuffer) Clear() {
	for _, ch := range b.channels {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// Replace overwrites this buffer's content with src's, channel for channel.
func (b *SampleBuffer) Replace(src *SampleBuffer) {
	n := min(len(b.channels), len(src.channels))
	for c := 0; c < n; c++ {
		copy(b.channels[c], src.channels[c])
	}
}

// Add accumulates src into this buffer, channel for channel.
func (b *SampleBuffer) Add(src *SampleBuffer) {
	n := min(len(b.channels), len(src.channels))
	for c := 0; c < n; c++ {
		dst := b.channels[c]
		s := src.channels[c]
		for i := range dst {
			dst[i] += s[i]
		}
	}
}

// AddWithGain accumulates src * gain into this buffer.
func (b *SampleBuffer) AddWithGain(src *SampleBuffer, gain float32) {
	n := min(len(b.channels), len(src.channels))
	for c := 0; c < n; c++ {
		dst := b.channels[c]
		s := src.channels[c]
		for i := range dst {
			dst[i] += s[i] * gain
		}
	}
}

// AddWithRamp accumulates src into this buffer with a linear gain ramp from
// g0 to g1 across the chunk: sample n receives src[n] * (g0 + (g1-g0)*n/(N-1)).
func (b *SampleBuffer) AddWithRamp(src *SampleBuffer, g0, g1 float32) {
	n := min(len(b.channels), len(src.channels))
	length := constants.ChunkSize
	for c := 0; c < n; c++ {
		dst := b.channels[c]
		s := src.channels[c]
		for i := 0; i < length; i++ {
			t := float32(0)
			if length > 1 {
				t = float32(i) / float32(length-1)
			}
			gain := g0 + (g1-g0)*t
			dst[i] += s[i] * gain
		}
	}
}

// ApplyGain scales every channel by a constant gain.
func (b *SampleBuffer) ApplyGain(gain float32) {
	for _, ch := range b.channels {
		for i := range ch {
			ch[i] *= gain
		}
	}
}

// Ramp scales every channel with a linear ramp from g0 to g1 across the chunk.
func (b *SampleBuffer) Ramp(g0, g1 float32) {
	length := constants.ChunkSize
	for _, ch := range b.channels {
		for i := 0; i < length; i++ {
			t := float32(0)
			if length > 1 {
				t = float32(i) / float32(length-1)
			}
			ch[i] *= g0 + (g1-g0)*t
		}
	}
}

// CountClippedSamples counts samples with |x| > 1.0 in one channel.
func (b *SampleBuffer) CountClippedSamples(ch int) int {
	count := 0
	for _, x := range b.channels[ch] {
		if x > 1.0 || x < -1.0 {
			count++
		}
	}
	return count
}

// CalcPeakValue returns the maximum absolute sample value across all channels.
func (b *SampleBuffer) CalcPeakValue() float32 {
	peak := float32(0)
	for _, ch := range b.channels {
		for _, x := range ch {
			a := float32(math.Abs(float64(x)))
			if a > peak {
				peak = a
			}
		}
	}
	return peak
}

// CalcPeakValueChannel returns the maximum absolute sample value in one channel.
func (b *SampleBuffer) CalcPeakValueChannel(ch int) float32 {
	peak := float32(0)
	for _, x := range b.channels[ch] {
		a := float32(math.Abs(float64(x)))
		if a > peak {
			peak = a
		}
	}
	return peak
}

// ToInterleaved writes this buffer's content interleaved into dst, which
// must have capacity >= Channels() * ChunkSize.
func (b *SampleBuffer) ToInterleaved(dst []float32) {
	numCh := len(b.channels)
	for i := 0; i < constants.ChunkSize; i++ {
		for c := 0; c < numCh; c++ {
			dst[i*numCh+c] = b.channels[c][i]
		}
	}
}

// FromInterleaved fills this buffer's planes from an interleaved source.
func (b *SampleBuffer) FromInterleaved(src []float32) {
	numCh := len(b.channels)
	for i := 0; i < constants.ChunkSize; i++ {
		for c := 0; c < numCh; c++ {
			b.channels[c][i] = src[i*numCh+c]
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
