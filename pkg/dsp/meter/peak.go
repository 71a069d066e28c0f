package meter

import (
	"math"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
)

// refreshTimeSeconds is the one-pole fall-back time constant: roughly the
// time for the meter to drop ~10 dB.
const refreshTimeSeconds = 0.250

// outputMinDB and outputMaxDB bound the normalised meter output window.
const (
	outputMinDB = -120.0
	outputMaxDB = 24.0
	outputFloor = 1.0e-6 // linear gain equivalent to outputMinDB
)

// NormalizeDB converts a linear gain into the meter's 0..1 normalised
// window spanning outputMinDB..outputMaxDB.
func NormalizeDB(gain float32) float64 {
	dB := 20.0 * math.Log10(math.Max(float64(gain), outputFloor))
	norm := (dB - outputMinDB) / (outputMaxDB - outputMinDB)
	return math.Max(0.0, math.Min(1.0, norm))
}

// PeakMeter tracks one channel's per-chunk peak, smoothed by a one-pole
// filter with a 250ms fall-back time and a hysteresis rule: rising peaks
// snap in immediately, falling ones are rate-limited. A separate clip-hold
// timer latches a boolean clip flag for ClipHoldSeconds after the last
// clipped sample.
type PeakMeter struct {
	smoother *processor.ValueSmoother

	clipHoldSamples float64
	clipHoldCounter float64
	clipped         bool
}

// NewPeakMeter creates a peak meter for one channel at sampleRate.
func NewPeakMeter(sampleRate float64) *PeakMeter {
	return &PeakMeter{
		smoother:        processor.NewValueSmoother(sampleRate, refreshTimeSeconds),
		clipHoldSamples: sampleRate * constants.ClipHoldSeconds,
	}
}

// Process scans one chunk of buf's channel ch, advances the smoothed peak
// and the clip latch, and returns the normalised (0..1) level and whether
// the clip-hold output should currently read true.
func (m *PeakMeter) Process(buf *buffer.SampleBuffer, ch int) (level float64, clipped bool) {
	peak := buf.CalcPeakValueChannel(ch)

	if float64(peak) > m.smoother.Value() {
		m.smoother.SetDirect(float64(peak))
	} else {
		m.smoother.Set(float64(peak))
	}

	if buf.CountClippedSamples(ch) > 0 {
		m.clipHoldCounter = 0
		m.clipped = true
	} else if m.clipped && m.clipHoldCounter > m.clipHoldSamples {
		m.clipped = false
	}
	m.clipHoldCounter += constants.ChunkSize

	return NormalizeDB(float32(m.smoother.Value())), m.clipped
}

// Reset clears smoothing and clip-latch state.
func (m *PeakMeter) Reset() {
	m.smoother.SetDirect(0)
	m.clipHoldCounter = 0
	m.clipped = false
}
