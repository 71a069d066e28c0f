// Package envelope provides envelope generators for audio synthesis
package envelope

import "math"

// Stage represents the current envelope stage
type Stage int

const (
	// StageIdle represents envelope idle state
	StageIdle Stage = iota
	// StageAttack represents envelope attack phase
	StageAttack
	// StageDecay represents envelope decay phase
	StageDecay
	// StageSustain represents envelope sustain phase
	StageSustain
	// StageRelease represents envelope release phase
	StageRelease
)

// MinEnvelopeTime is the shortest attack/decay/release time accepted by
// ADSR, chosen to avoid a divide-by-zero in the per-sample slope
// calculation rather than to represent any audible duration (§4.l).
const MinEnvelopeTime = 10e-6

// ADSR implements a linear-slope Attack-Decay-Sustain-Release envelope
// generator. Each stage advances by a constant per-sample amount rather
// than an exponential approach, matching a classic analog envelope's ramp
// shape.
type ADSR struct {
	sampleRate float64

	// Parameters (in seconds for A,D,R and 0-1 for S)
	attack  float64
	decay   float64
	sustain float64
	release float64

	// Per-sample linear increments, recalculated whenever a parameter or
	// the sample rate changes.
	attackFactor  float64
	decayFactor   float64
	releaseFactor float64

	// State
	stage Stage
	value float64
}

// New creates a new ADSR envelope
func New(sampleRate float64) *ADSR {
	env := &ADSR{
		sampleRate: sampleRate,
		attack:     0.01,
		decay:      0.1,
		sustain:    0.7,
		release:    0.3,
		stage:      StageIdle,
		value:      0.0,
	}
	env.updateCoefficients()
	return env
}

// SetAttack sets the attack time in seconds
func (e *ADSR) SetAttack(seconds float64) {
	e.attack = math.Max(MinEnvelopeTime, seconds)
	e.updateCoefficients()
}

// SetDecay sets the decay time in seconds
func (e *ADSR) SetDecay(seconds float64) {
	e.decay = math.Max(MinEnvelopeTime, seconds)
	e.updateCoefficients()
}

// SetSustain sets the sustain level (0-1)
func (e *ADSR) SetSustain(level float64) {
	e.sustain = math.Max(0.0, math.Min(1.0, level))
	e.updateCoefficients()
}

// SetRelease sets the release time in seconds
func (e *ADSR) SetRelease(seconds float64) {
	e.release = math.Max(MinEnvelopeTime, seconds)
	e.updateCoefficients()
}

// SetADSR sets all parameters at once
func (e *ADSR) SetADSR(attack, decay, sustain, release float64) {
	e.attack = math.Max(MinEnvelopeTime, attack)
	e.decay = math.Max(MinEnvelopeTime, decay)
	e.sustain = math.Max(0.0, math.Min(1.0, sustain))
	e.release = math.Max(MinEnvelopeTime, release)
	e.updateCoefficients()
}

// updateCoefficients recalculates the per-sample linear slope factors.
// decayFactor and releaseFactor both scale with the sustain level since
// they cover the full 1-to-sustain and sustain-to-0 spans respectively.
func (e *ADSR) updateCoefficients() {
	e.attackFactor = 1.0 / (e.sampleRate * e.attack)
	e.decayFactor = (1.0 - e.sustain) / (e.sampleRate * e.decay)
	e.releaseFactor = e.sustain / (e.sampleRate * e.release)
}

// Gate is the envelope's note-on/note-off trigger. Gate(true) restarts the
// envelope at ATTACK from level 0, even if it was already running.
// Gate(false) moves to RELEASE; if the gate closes before reaching SUSTAIN,
// the release factor is rescaled by current-level/sustain-level so the
// release still reaches 0 in the configured release time rather than just
// using the remaining slope from a level that was never the sustain level.
func (e *ADSR) Gate(gate bool) {
	if gate {
		e.stage = StageAttack
		e.value = 0.0
		return
	}
	e.releaseFactor = e.sustain / (e.sampleRate * e.release)
	if e.stage != StageSustain && e.sustain > 0 {
		e.releaseFactor *= e.value / e.sustain
	}
	e.stage = StageRelease
}

// Trigger starts the envelope (note on). Equivalent to Gate(true).
func (e *ADSR) Trigger() {
	e.Gate(true)
}

// Release starts the release stage (note off). Equivalent to Gate(false).
func (e *ADSR) Release() {
	e.Gate(false)
}

// Reset immediately returns the envelope to idle, bypassing any release.
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.value = 0.0
}

// IsActive returns true if the envelope is generating output
func (e *ADSR) IsActive() bool {
	return e.stage != StageIdle
}

// GetStage returns the current envelope stage
func (e *ADSR) GetStage() Stage {
	return e.stage
}

// Next generates the next envelope value
func (e *ADSR) Next() float32 {
	switch e.stage {
	case StageAttack:
		e.value += e.attackFactor
		if e.value >= 1.0 {
			e.value = 1.0
			e.stage = StageDecay
		}

	case StageDecay:
		e.value -= e.decayFactor
		if e.value <= e.sustain {
			e.value = e.sustain
			e.stage = StageSustain
		}

	case StageSustain:
		e.value = e.sustain

	case StageRelease:
		e.value -= e.releaseFactor
		if e.value < 0.0 {
			e.value = 0.0
			e.stage = StageIdle
		}

	case StageIdle:
		e.value = 0.0
	}

	return float32(e.value)
}

// Process fills buffer with envelope values - no allocations
func (e *ADSR) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = e.Next()
	}
}

// ProcessMultiply multiplies buffer by envelope - no allocations
func (e *ADSR) ProcessMultiply(buffer []float32) {
	for i := range buffer {
		buffer[i] *= e.Next()
	}
}

// calcCoef calculates an exponential one-pole coefficient for a given time
// constant, used by AR and Follower (which approach their targets
// exponentially rather than with ADSR's linear slope).
func calcCoef(timeSeconds, sampleRate float64) float64 {
	if timeSeconds <= 0.0 {
		return 0.0
	}
	return math.Exp(-1.0 / (timeSeconds * sampleRate))
}

// AR implements a simple Attack-Release envelope
type AR struct {
	sampleRate float64

	// Parameters
	attack  float64
	release float64

	// Coefficients
	attackCoef  float64
	releaseCoef float64

	// State
	active bool
	value  float64
	target float64
}

// NewAR creates a new AR envelope
func NewAR(sampleRate float64) *AR {
	env := &AR{
		sampleRate: sampleRate,
		attack:     0.01,
		release:    0.1,
	}
	env.updateCoefficients()
	return env
}

// SetAttack sets the attack time in seconds
func (e *AR) SetAttack(seconds float64) {
	e.attack = math.Max(0.001, seconds)
	e.updateCoefficients()
}

// SetRelease sets the release time in seconds
func (e *AR) SetRelease(seconds float64) {
	e.release = math.Max(0.001, seconds)
	e.updateCoefficients()
}

// updateCoefficients recalculates the exponential coefficients
func (e *AR) updateCoefficients() {
	e.attackCoef = calcCoef(e.attack, e.sampleRate)
	e.releaseCoef = calcCoef(e.release, e.sampleRate)
}

// Trigger starts the attack phase
func (e *AR) Trigger() {
	e.active = true
	e.target = 1.0
}

// Release starts the release phase
func (e *AR) Release() {
	e.active = false
	e.target = 0.0
}

// Next generates the next envelope value
func (e *AR) Next() float32 {
	if e.active {
		e.value = e.target + (e.value-e.target)*e.attackCoef
	} else {
		e.value = e.target + (e.value-e.target)*e.releaseCoef
	}
	return float32(e.value)
}

// Process fills buffer with envelope values - no allocations
func (e *AR) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = e.Next()
	}
}

// ProcessMultiply multiplies buffer by envelope - no allocations
func (e *AR) ProcessMultiply(buffer []float32) {
	for i := range buffer {
		buffer[i] *= e.Next()
	}
}

// Follower implements an envelope follower for dynamics processing
type Follower struct {
	sampleRate  float64
	attack      float64
	release     float64
	attackCoef  float64
	releaseCoef float64
	envelope    float64
}

// NewFollower creates a new envelope follower
func NewFollower(sampleRate float64) *Follower {
	f := &Follower{
		sampleRate: sampleRate,
		attack:     0.01,
		release:    0.1,
	}
	f.updateCoefficients()
	return f
}

// SetAttack sets the attack time
func (f *Follower) SetAttack(seconds float64) {
	f.attack = math.Max(0.0001, seconds)
	f.updateCoefficients()
}

// SetRelease sets the release time
func (f *Follower) SetRelease(seconds float64) {
	f.release = math.Max(0.0001, seconds)
	f.updateCoefficients()
}

// updateCoefficients recalculates coefficients
func (f *Follower) updateCoefficients() {
	f.attackCoef = calcCoef(f.attack, f.sampleRate)
	f.releaseCoef = calcCoef(f.release, f.sampleRate)
}

// Process extracts the envelope from a signal - no allocations
func (f *Follower) Process(input, output []float32) {
	for i := range input {
		// Get absolute value of input
		absInput := float64(input[i])
		if absInput < 0 {
			absInput = -absInput
		}

		// Apply attack or release
		if absInput > f.envelope {
			f.envelope = absInput + (f.envelope-absInput)*f.attackCoef
		} else {
			f.envelope = absInput + (f.envelope-absInput)*f.releaseCoef
		}

		output[i] = float32(f.envelope)
	}
}

// Follow processes a single sample
func (f *Follower) Follow(input float32) float32 {
	absInput := float64(input)
	if absInput < 0 {
		absInput = -absInput
	}

	if absInput > f.envelope {
		f.envelope = absInput + (f.envelope-absInput)*f.attackCoef
	} else {
		f.envelope = absInput + (f.envelope-absInput)*f.releaseCoef
	}

	return float32(f.envelope)
}
