package filter

import (
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
)

// SmoothedBiquad wraps a Biquad so that changing its design frequency/Q/gain
// ramps the five live coefficients (b0, b1, b2, a1, a2) toward the new
// target one chunk at a time through independent one-pole filters, instead
// of snapping instantly and producing a zipper click (§4.l). The smoothing
// lag is TimeConstantsInSmoothingFilter chunk durations
// (TimeConstantsInSmoothingFilter * ChunkSize / sampleRate seconds).
type SmoothedBiquad struct {
	filt *Biquad

	targetB0, targetB1, targetB2, targetA1, targetA2 float64

	b0, b1, b2, a1, a2 *processor.ValueSmoother
}

// NewSmoothedBiquad builds a SmoothedBiquad for channels channels at
// sampleRate, with both the live and target coefficients at the identity
// passthrough (b0=1, all others 0).
func NewSmoothedBiquad(channels int, sampleRate float64) *SmoothedBiquad {
	lag := constants.TimeConstantsInSmoothingFilter * float64(constants.ChunkSize) / sampleRate
	sb := &SmoothedBiquad{
		filt:     NewBiquad(channels),
		targetB0: 1,
		b0:       processor.NewValueSmoother(sampleRate, lag),
		b1:       processor.NewValueSmoother(sampleRate, lag),
		b2:       processor.NewValueSmoother(sampleRate, lag),
		a1:       processor.NewValueSmoother(sampleRate, lag),
		a2:       processor.NewValueSmoother(sampleRate, lag),
	}
	sb.b0.SetDirect(1)
	return sb
}

// SetTargetCoefficients sets the design coefficients (already a0-normalized)
// the filter ramps toward over subsequent chunks.
func (s *SmoothedBiquad) SetTargetCoefficients(b0, b1, b2, a1, a2 float64) {
	s.targetB0, s.targetB1, s.targetB2, s.targetA1, s.targetA2 = b0, b1, b2, a1, a2
}

// SetLowpass sets a lowpass design target to ramp toward.
func (s *SmoothedBiquad) SetLowpass(sampleRate, frequency, q float64) {
	s.setNormalizedTarget(LowpassCoefficients(sampleRate, frequency, q))
}

// SetPeakingEQ sets a peaking-EQ design target to ramp toward.
func (s *SmoothedBiquad) SetPeakingEQ(sampleRate, frequency, q, gainDB float64) {
	s.setNormalizedTarget(PeakCoefficients(sampleRate, frequency, q, gainDB))
}

func (s *SmoothedBiquad) setNormalizedTarget(b0, b1, b2, a0, a1, a2 float64) {
	invA0 := 1.0 / a0
	s.SetTargetCoefficients(b0*invA0, b1*invA0, b2*invA0, a1*invA0, a2*invA0)
}

// Process advances each coefficient one chunk toward its target, applies
// them to the underlying Biquad, and filters buffer on channel.
func (s *SmoothedBiquad) Process(buffer []float32, channel int) {
	s.filt.SetCoefficients(
		float32(s.b0.Set(s.targetB0)),
		float32(s.b1.Set(s.targetB1)),
		float32(s.b2.Set(s.targetB2)),
		1.0,
		float32(s.a1.Set(s.targetA1)),
		float32(s.a2.Set(s.targetA2)),
	)
	s.filt.Process(buffer, channel)
}

// Reset zeroes the delay lines and snaps every coefficient to its current
// target immediately, skipping the ramp.
func (s *SmoothedBiquad) Reset() {
	s.filt.Reset()
	s.b0.SetDirect(s.targetB0)
	s.b1.SetDirect(s.targetB1)
	s.b2.SetDirect(s.targetB2)
	s.a1.SetDirect(s.targetA1)
	s.a2.SetDirect(s.targetA2)
}
