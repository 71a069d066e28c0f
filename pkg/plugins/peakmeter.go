package plugins

import (
	"math"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// PeakMeterUID is the stable internal UID for the two-channel peak/clip meter.
const PeakMeterUID = "sushi.testing.peakmeter"

const maxMeteredChannels = 2

const (
	meterLinkChannelsParamID uint32 = iota
	meterPeaksOnlyParamID
	meterUpdateRateParamID
	meterLevel0ParamID
	meterLevel1ParamID
	meterClip0ParamID
	meterClip1ParamID
)

const (
	meterOutputMinDB   = -120.0
	meterOutputMaxDB   = 24.0
	meterDefaultRateHz = 25.0
	meterClipHoldSecs  = constants.ClipHoldSeconds
)

// PeakMeter reports per-channel peak level and clip-latch state as OUTPUT
// parameters instead of touching the audio it passes through unchanged,
// grounded on original_source/src/plugins/peak_meter_plugin.cpp. The host
// polls ParameterValue for level_N/clip_N between chunks; process_audio
// itself never emits events, matching the original's direct parameter
// write (no RT event needed since these are read back, not pushed).
type PeakMeter struct {
	base
	sampleRate float64

	linkChannels bool
	peaksOnly    bool
	updateRateHz float64

	refreshInterval int
	sampleCount     int
	peakHysteresis  bool

	smoothed [maxMeteredChannels]float64
	level    [maxMeteredChannels]float64

	clipped        [maxMeteredChannels]bool
	clipHoldCount  [maxMeteredChannels]int
	clipHoldLimit  int
}

// NewPeakMeter builds a PeakMeter metering up to two channels.
func NewPeakMeter(id uint32) *PeakMeter {
	return &PeakMeter{
		base:         newBase(id, PeakMeterUID, "Peak Meter", maxMeteredChannels, maxMeteredChannels),
		updateRateHz: meterDefaultRateHz,
	}
}

func (m *PeakMeter) Init(sampleRate float64) processor.InitStatus {
	m.Configure(sampleRate)
	return processor.StatusOK
}

func (m *PeakMeter) Configure(sampleRate float64) {
	m.sampleRate = sampleRate
	m.refreshInterval = int(math.Round(sampleRate / m.updateRateHz))
	m.clipHoldLimit = int(sampleRate * meterClipHoldSecs)
}

func (m *PeakMeter) ProcessAudio(in, out *buffer.SampleBuffer) {
	out.Replace(in)

	channels := minInt(maxMeteredChannels, in.Channels())
	var peak [maxMeteredChannels]float32
	for ch := 0; ch < channels; ch++ {
		peak[ch] = in.CalcPeakValueChannel(ch)
	}
	if m.linkChannels && channels > 1 {
		maxPeak := peak[0]
		if peak[1] > maxPeak {
			maxPeak = peak[1]
		}
		peak[0], peak[1] = maxPeak, maxPeak
	}

	update := false
	m.sampleCount += constants.ChunkSize
	if m.sampleCount > m.refreshInterval {
		m.sampleCount -= m.refreshInterval
		update = true
		if m.peaksOnly {
			update = m.peakHysteresis
		}
	}

	for ch := 0; ch < channels; ch++ {
		value := float64(peak[ch])
		if value > m.smoothed[ch] {
			m.smoothed[ch] = value
			m.peakHysteresis = true
		} else {
			m.smoothed[ch] += (value - m.smoothed[ch]) * 0.2
		}
		if update {
			m.level[ch] = toNormalizedDB(m.smoothed[ch])
			m.peakHysteresis = false
		}
	}

	var clippedCh [maxMeteredChannels]bool
	for ch := 0; ch < channels; ch++ {
		clippedCh[ch] = in.CountClippedSamples(ch) > 0
	}
	if m.linkChannels && channels > 1 {
		clippedCh[0] = clippedCh[0] || clippedCh[1]
		clippedCh[1] = clippedCh[0]
	}
	for ch := 0; ch < channels; ch++ {
		if clippedCh[ch] {
			m.clipHoldCount[ch] = 0
			m.clipped[ch] = true
		} else if m.clipped[ch] && m.clipHoldCount[ch] > m.clipHoldLimit {
			m.clipped[ch] = false
		}
		m.clipHoldCount[ch] += constants.ChunkSize
	}
}

// toNormalizedDB maps a linear peak to the 0..1 range the level_N parameter
// reports, covering meterOutputMinDB..meterOutputMaxDB.
func toNormalizedDB(linearPeak float64) float64 {
	dbGain := 20 * math.Log10(math.Max(linearPeak, 1e-6))
	norm := (dbGain - meterOutputMinDB) / (meterOutputMaxDB - meterOutputMinDB)
	return clamp(norm, 0, 1)
}

func (m *PeakMeter) ProcessEvent(ev rtevent.RtEvent) {
	switch ev.Tag {
	case rtevent.BoolParameterChange:
		id, value := ev.BoolParameterData()
		switch id {
		case meterLinkChannelsParamID:
			m.linkChannels = value
		case meterPeaksOnlyParamID:
			m.peaksOnly = value
		}
	case rtevent.FloatParameterChange:
		id, value := ev.FloatParameterData()
		if id == meterUpdateRateParamID {
			m.updateRateHz = clamp(value, 0.1, 25)
			m.Configure(m.sampleRate)
		}
	}
}

func (m *PeakMeter) ParameterValueInDomain(id uint32) (float64, bool) {
	switch id {
	case meterUpdateRateParamID:
		return m.updateRateHz, true
	case meterLevel0ParamID:
		return m.level[0], true
	case meterLevel1ParamID:
		return m.level[1], true
	default:
		return 0, false
	}
}

func (m *PeakMeter) ParameterValue(id uint32) (float64, bool) {
	switch id {
	case meterLinkChannelsParamID:
		return boolToFloat(m.linkChannels), true
	case meterPeaksOnlyParamID:
		return boolToFloat(m.peaksOnly), true
	case meterUpdateRateParamID:
		return (m.updateRateHz - 0.1) / (25 - 0.1), true
	case meterLevel0ParamID:
		return m.level[0], true
	case meterLevel1ParamID:
		return m.level[1], true
	case meterClip0ParamID:
		return boolToFloat(m.clipped[0]), true
	case meterClip1ParamID:
		return boolToFloat(m.clipped[1]), true
	default:
		return 0, false
	}
}

func (m *PeakMeter) ParameterValueFormatted(id uint32) (string, bool) {
	switch id {
	case meterLevel0ParamID, meterLevel1ParamID:
		return formatDB(meterOutputMinDB + m.level[id-meterLevel0ParamID]*(meterOutputMaxDB-meterOutputMinDB)), true
	default:
		return "", false
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
