package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueSmootherConvergesToTarget(t *testing.T) {
	s := NewValueSmoother(48000, 0.02)
	assert.True(t, s.Stationary())
	for i := 0; i < 10000; i++ {
		s.Set(1.0)
		if s.Stationary() {
			break
		}
	}
	assert.True(t, s.Stationary())
	assert.InDelta(t, 1.0, s.Value(), 1e-6)
}

func TestValueSmootherSetDirectJumps(t *testing.T) {
	s := NewValueSmoother(48000, 0.1)
	s.SetDirect(0.5)
	assert.True(t, s.Stationary())
	assert.Equal(t, 0.5, s.Value())
}

func TestValueSmootherMonotonicApproach(t *testing.T) {
	s := NewValueSmoother(48000, 0.05)
	prev := s.Value()
	for i := 0; i < 5; i++ {
		cur := s.Set(1.0)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}
