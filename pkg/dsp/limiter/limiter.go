// Package limiter implements the true-peak master limiter that the engine
// runs on every output channel after the graph has rendered (§4.k step 13,
// §4.l). It never looks ahead: it estimates true (inter-sample) peak with a 4x
// polyphase upsampler and reacts within the same sample.
package limiter

import "math"

// upsamplingFactor is how many phases the polyphase interpolator produces
// per input sample.
const upsamplingFactor = 4

// attackRatio compensates for the one-pole attack never actually reaching
// its target: the target is set attackRatio times higher than the gain
// reduction actually needed, and the attack is considered "arrived" once it
// has covered 1/attackRatio of that inflated distance.
const attackRatio = 1.6

// thresholdGain is the fixed 0 dB ceiling; true peaks at or below this pass
// through unaffected.
const thresholdGain = 1.0

// filterCoeffs are the four 4-tap FIR sub-filters of a windowed-sinc 4x
// polyphase interpolator. Good enough for true-peak estimation; not
// intended as a listening-quality upsampler.
var filterCoeffs = [4][4]float32{
	{-0.06615947186946869, 0.19239433109760284, 0.9733920693397522, -1.6899518229251953e-08},
	{-0.09243691712617874, 0.4796152412891388, 0.779610812664032, -0.08357855677604675},
	{-0.08357856422662735, 0.779610812664032, 0.4796152114868164, -0.09243690967559814},
	{-1.6899520005608792e-08, 0.973392128944397, 0.19239431619644165, -0.06615947186946869},
}

// upSampler is a 4x polyphase interpolator driven by a 4-sample circular
// delay line.
type upSampler struct {
	delayLine [4]float32
	writeIdx  int
}

func (u *upSampler) reset() {
	u.delayLine = [4]float32{}
	u.writeIdx = 0
}

// process writes sample into the delay line and produces the four
// interpolated phases for it into out.
func (u *upSampler) process(sample float32, out *[upsamplingFactor]float32) {
	u.delayLine[u.writeIdx] = sample
	for phase := 0; phase < upsamplingFactor; phase++ {
		var v float32
		for tap := 0; tap < 4; tap++ {
			readIdx := (u.writeIdx - tap) & 0b11
			v += filterCoeffs[phase][tap] * u.delayLine[readIdx]
		}
		out[phase] = v
	}
	u.writeIdx = (u.writeIdx + 1) & 0b11
}

// Limiter is a brick-wall true-peak limiter for a single channel. It stops
// the signal from ever exceeding 0 dB, attacking instantly by default
// (attack_time_ms == 0) and releasing exponentially.
type Limiter struct {
	sampleRate float64

	releaseTimeMS float64
	attackTimeMS  float64
	releaseCoeff  float32
	attackCoeff   float32

	gainReduction       float32
	gainReductionTarget float32

	upSampler upSampler
}

// NewLimiter creates a limiter with the original's defaults: 100ms release,
// instant (0ms) attack.
func NewLimiter(sampleRate float64) *Limiter {
	l := &Limiter{
		sampleRate:    sampleRate,
		releaseTimeMS: 100.0,
		attackTimeMS:  0.0,
	}
	l.recalcCoefficients()
	return l
}

// SetReleaseTime sets the release time in milliseconds.
func (l *Limiter) SetReleaseTime(ms float64) {
	l.releaseTimeMS = ms
	l.recalcCoefficients()
}

// SetAttackTime sets the attack time in milliseconds; 0 means instant.
func (l *Limiter) SetAttackTime(ms float64) {
	l.attackTimeMS = ms
	l.recalcCoefficients()
}

// SetSampleRate recomputes the attack/release coefficients for a new sample
// rate and resets gain reduction and the upsampler, mirroring init() being
// called whenever the engine's sample rate changes (§5).
func (l *Limiter) SetSampleRate(sampleRate float64) {
	l.sampleRate = sampleRate
	l.recalcCoefficients()
	l.gainReduction = 0
	l.gainReductionTarget = 0
	l.upSampler.reset()
}

func (l *Limiter) recalcCoefficients() {
	if l.releaseTimeMS > 0 {
		l.releaseCoeff = float32(math.Exp(-1.0 / (0.001 * l.sampleRate * l.releaseTimeMS)))
	} else {
		l.releaseCoeff = 0
	}
	if l.attackTimeMS > 0 {
		l.attackCoeff = float32(math.Exp(-1.0 / (0.001 * l.sampleRate * l.attackTimeMS)))
	} else {
		l.attackCoeff = 0
	}
}

// GainReduction returns the gain reduction (0..1, linear) applied to the
// most recently processed sample.
func (l *Limiter) GainReduction() float32 {
	return l.gainReduction
}

// Reset clears gain reduction state and the upsampler's delay line.
func (l *Limiter) Reset() {
	l.gainReduction = 0
	l.gainReductionTarget = 0
	l.upSampler.reset()
}

// Process limits input sample by sample into output; input and output may
// alias the same slice.
func (l *Limiter) Process(input, output []float32) {
	var phases [upsamplingFactor]float32
	for i, in := range input {
		l.upSampler.process(in, &phases)

		truePeak := float32(math.Abs(float64(in)))
		for _, p := range phases {
			if a := float32(math.Abs(float64(p))); a > truePeak {
				truePeak = a
			}
		}

		if truePeak > thresholdGain {
			candidate := (1.0 - 1.0/truePeak) * attackRatio
			if candidate > l.gainReductionTarget {
				l.gainReductionTarget = candidate
			}
		}

		if l.gainReductionTarget > l.gainReduction {
			l.gainReduction = (l.gainReduction-l.gainReductionTarget)*l.attackCoeff + l.gainReductionTarget
			if l.gainReduction >= l.gainReductionTarget/attackRatio {
				l.gainReductionTarget = 0
			}
		} else {
			l.gainReduction *= l.releaseCoeff
		}

		output[i] = in * (1.0 - l.gainReduction)
	}
}
