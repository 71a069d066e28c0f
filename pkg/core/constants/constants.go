// Package constants holds the fixed-size contracts shared across the engine core.
package constants

// ChunkSize is the fixed number of samples the engine processes per callback.
// The engine runs at one sample rate and one block size - changing either
// requires pausing processing (§5).
const ChunkSize = 64

// CacheLineSize is the CPU cache-line size in bytes. Nothing checks
// RtEvent against it, and RtEvent's flattened layout is larger.
const CacheLineSize = 64

// MaxTrackProcessors is the chain capacity of a single Track.
const MaxTrackProcessors = 32

// MaxBuses is the largest number of stereo buses a multibus Track may have.
const MaxBuses = 8

// MinTempo and MaxTempo clamp Transport.SetTempo (§4.f).
const (
	MinTempo = 20.0
	MaxTempo = 999.0
)

// GraphMutationTimeoutMS is the round-trip timeout for control-plane
// mutations applied while the engine is running (§4.k, §5, §7).
const GraphMutationTimeoutMS = 200

// ClippingDetectionIntervalMS bounds how often the engine emits a
// CLIP_NOTIFICATION for a given channel (§4.k step 7, §4.l clip detector).
const ClippingDetectionIntervalMS = 500

// ClipHoldSeconds is how long a PeakMeter's clip-latch output parameter stays
// set after the last clipped sample (§4.l, §8).
const ClipHoldSeconds = 5.0

// TimeConstantsInSmoothingFilter is the analog-prototype time-constant count
// used to derive a Biquad coefficient smoother's one-pole rate from
// (sample rate / chunk size) (§4.l).
const TimeConstantsInSmoothingFilter = 5.0
