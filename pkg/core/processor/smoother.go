package processor

import (
	"math"

	"github.com/sushi-audio/sushi-go/pkg/core/constants"
)

// ValueSmoother is a one-pole filter ramping a parameter's plain-domain
// value toward a target once per chunk, avoiding the zipper noise a direct
// jump would cause (§4.e). Lag time is expressed in seconds and converted
// to a per-chunk coefficient using the engine's fixed chunk size.
type ValueSmoother struct {
	current float64
	target  float64
	coeff   float64
}

// snapEpsilon is the distance below which current is considered to have
// reached target, matching the one-pole filter's asymptotic approach.
const snapEpsilon = 1e-6

// NewValueSmoother builds a smoother whose Set() calls converge with time
// constant lagTimeSeconds, given the engine's sample rate.
func NewValueSmoother(sampleRate, lagTimeSeconds float64) *ValueSmoother {
	chunksPerLag := lagTimeSeconds * sampleRate / float64(constants.ChunkSize)
	coeff := 0.0
	if chunksPerLag > 0 {
		coeff = math.Exp(-1.0 / chunksPerLag)
	}
	return &ValueSmoother{coeff: coeff}
}

// Set advances current one chunk toward target and returns the new current.
func (s *ValueSmoother) Set(target float64) float64 {
	s.target = target
	s.current += (s.target - s.current) * (1.0 - s.coeff)
	if math.Abs(s.current-s.target) < snapEpsilon {
		s.current = s.target
	}
	return s.current
}

// SetDirect jumps current and target to v immediately, skipping the ramp.
func (s *ValueSmoother) SetDirect(v float64) {
	s.current = v
	s.target = v
}

// Value returns the current smoothed value without advancing it.
func (s *ValueSmoother) Value() float64 { return s.current }

// Target returns the value Set last converged towards.
func (s *ValueSmoother) Target() float64 { return s.target }

// Stationary reports whether current has reached target.
func (s *ValueSmoother) Stationary() bool { return s.current == s.target }
