// Package rtevent implements the tagged, trivially-copyable RtEvent variant
// carried across the RT / non-RT boundary (§4.c).
//
// The original source models this as a union-of-structs with a runtime type
// tag (§9 design note). Go has no unchecked unions, so RtEvent instead
// flattens every variant's fields into one fixed-layout struct, which is
// larger than one cache line (constants.CacheLineSize), and a single `Payload any`
// slot carries the handful of variants that must move a heap pointer (a
// string, a blob, a ProcessorState, an async work closure) across the
// boundary for non-RT deletion. Access is through typed accessors that
// assert the tag; factories build every variant.
package rtevent

import "fmt"

// Tag discriminates the RtEvent variant.
type Tag uint8

const (
	NoteOn Tag = iota
	NoteOff
	NoteAftertouch
	ChannelAftertouch
	PitchBend
	Modulation
	WrappedMIDI
	FloatParameterChange
	IntParameterChange
	BoolParameterChange
	StringPropertyChange
	DataPropertyChange
	SetBypass
	Tempo
	TimeSignature
	PlayingMode
	SyncMode
	InsertProcessor
	RemoveProcessor
	AddProcessorToTrack
	RemoveProcessorFromTrack
	AddTrack
	RemoveTrack
	AddAudioConnection
	RemoveAudioConnection
	ClipNotification
	CVEvent
	GateEvent
	Synchronisation
	TimingTick
	AsyncWork
	Delete
	SetState
)

func (t Tag) String() string {
	switch t {
	case NoteOn:
		return "NOTE_ON"
	case NoteOff:
		return "NOTE_OFF"
	case NoteAftertouch:
		return "NOTE_AFTERTOUCH"
	case ChannelAftertouch:
		return "CHANNEL_AFTERTOUCH"
	case PitchBend:
		return "PITCH_BEND"
	case Modulation:
		return "MODULATION"
	case WrappedMIDI:
		return "WRAPPED_MIDI"
	case FloatParameterChange:
		return "FLOAT_PARAMETER_CHANGE"
	case IntParameterChange:
		return "INT_PARAMETER_CHANGE"
	case BoolParameterChange:
		return "BOOL_PARAMETER_CHANGE"
	case StringPropertyChange:
		return "STRING_PROPERTY_CHANGE"
	case DataPropertyChange:
		return "DATA_PROPERTY_CHANGE"
	case SetBypass:
		return "SET_BYPASS"
	case Tempo:
		return "TEMPO"
	case TimeSignature:
		return "TIME_SIGNATURE"
	case PlayingMode:
		return "PLAYING_MODE"
	case SyncMode:
		return "SYNC_MODE"
	case InsertProcessor:
		return "INSERT_PROCESSOR"
	case RemoveProcessor:
		return "REMOVE_PROCESSOR"
	case AddProcessorToTrack:
		return "ADD_PROCESSOR_TO_TRACK"
	case RemoveProcessorFromTrack:
		return "REMOVE_PROCESSOR_FROM_TRACK"
	case AddTrack:
		return "ADD_TRACK"
	case RemoveTrack:
		return "REMOVE_TRACK"
	case AddAudioConnection:
		return "ADD_AUDIO_CONNECTION"
	case RemoveAudioConnection:
		return "REMOVE_AUDIO_CONNECTION"
	case ClipNotification:
		return "CLIP_NOTIFICATION"
	case CVEvent:
		return "CV_EVENT"
	case GateEvent:
		return "GATE_EVENT"
	case Synchronisation:
		return "SYNCHRONISATION"
	case TimingTick:
		return "TIMING_TICK"
	case AsyncWork:
		return "ASYNC_WORK"
	case Delete:
		return "DELETE"
	case SetState:
		return "SET_STATE"
	default:
		return "UNKNOWN"
	}
}

// RtEvent is the fixed-layout, trivially-copyable record carried by the FIFOs
// in pkg/core/fifo. Only the fields relevant to Tag are meaningful; factory
// functions populate exactly the fields a variant needs.
type RtEvent struct {
	Tag         Tag
	processorID uint32
	EventID     uint64
	Handled     bool

	SampleOffset int32

	// Keyboard / CV / gate fields.
	Channel  uint8
	Note     uint8
	Velocity float32
	CVID     int32

	// Parameter / property fields.
	ParamID    uint32
	FloatValue float64
	IntValue   int32
	BoolValue  bool

	// Transport fields.
	Tempo         float64
	TSNumerator   int32
	TSDenominator int32
	PlayState     int32
	SyncModeValue int32

	// Graph mutation fields.
	TrackID   uint32
	BeforeID  uint32
	HasBefore bool

	// Audio connection fields.
	EngineChannel int32
	TrackChannel  int32

	// WrappedMIDI carries up to 4 raw bytes in-band, no heap payload.
	MIDIBytes [4]byte

	// Payload carries the handful of variants that must move a heap
	// pointer across the boundary: *string (StringPropertyChange), []byte
	// (DataPropertyChange), the processor state (SetState), the deletable
	// object (Delete) or an AsyncWorkFunc+argument pair (AsyncWork).
	Payload any
}

// ProcessorID returns the routing target, accessible for every variant.
func (e RtEvent) ProcessorID() uint32 { return e.processorID }

func assertTag(e RtEvent, want Tag) {
	if e.Tag != want {
		panic(fmt.Sprintf("rtevent: accessed %s view on a %s event", want, e.Tag))
	}
}

// KeyboardData returns the channel/note/velocity for NOTE_ON/OFF/NOTE_AFTERTOUCH.
func (e RtEvent) KeyboardData() (channel, note uint8, velocity float32) {
	if e.Tag != NoteOn && e.Tag != NoteOff && e.Tag != NoteAftertouch {
		panic("rtevent: not a keyboard event")
	}
	return e.Channel, e.Note, e.Velocity
}

// ChannelAftertouchData returns the channel and pressure value.
func (e RtEvent) ChannelAftertouchData() (channel uint8, value float32) {
	assertTag(e, ChannelAftertouch)
	return e.Channel, e.Velocity
}

// PitchBendData returns the channel and normalized bend value.
func (e RtEvent) PitchBendData() (channel uint8, value float64) {
	assertTag(e, PitchBend)
	return e.Channel, e.FloatValue
}

// ModulationData returns the channel and normalized modulation value.
func (e RtEvent) ModulationData() (channel uint8, value float64) {
	assertTag(e, Modulation)
	return e.Channel, e.FloatValue
}

// WrappedMIDIData returns the 4 raw MIDI bytes.
func (e RtEvent) WrappedMIDIData() [4]byte {
	assertTag(e, WrappedMIDI)
	return e.MIDIBytes
}

// FloatParameterData returns the parameter id and normalized value.
func (e RtEvent) FloatParameterData() (paramID uint32, value float64) {
	assertTag(e, FloatParameterChange)
	return e.ParamID, e.FloatValue
}

// IntParameterData returns the parameter id and integer value.
func (e RtEvent) IntParameterData() (paramID uint32, value int32) {
	assertTag(e, IntParameterChange)
	return e.ParamID, e.IntValue
}

// BoolParameterData returns the parameter id and boolean value.
func (e RtEvent) BoolParameterData() (paramID uint32, value bool) {
	assertTag(e, BoolParameterChange)
	return e.ParamID, e.BoolValue
}

// StringPropertyData returns the property id and the heap string pointer.
// Ownership transfers to the RT side; the RT side must return it via a
// Delete event for non-RT destruction (§4.d, §5).
func (e RtEvent) StringPropertyData() (propertyID uint32, str *string) {
	assertTag(e, StringPropertyChange)
	return e.ParamID, e.Payload.(*string)
}

// DataPropertyData returns the property id and opaque blob.
func (e RtEvent) DataPropertyData() (propertyID uint32, blob []byte) {
	assertTag(e, DataPropertyChange)
	return e.ParamID, e.Payload.([]byte)
}

// SetBypassData returns the bypass flag.
func (e RtEvent) SetBypassData() bool {
	assertTag(e, SetBypass)
	return e.BoolValue
}

// TempoData returns the requested BPM.
func (e RtEvent) TempoData() float64 {
	assertTag(e, Tempo)
	return e.Tempo
}

// TimeSignatureData returns numerator/denominator.
func (e RtEvent) TimeSignatureData() (numerator, denominator int32) {
	assertTag(e, TimeSignature)
	return e.TSNumerator, e.TSDenominator
}

// PlayingModeData returns the requested playing mode.
func (e RtEvent) PlayingModeData() int32 {
	assertTag(e, PlayingMode)
	return e.PlayState
}

// SyncModeData returns the requested sync mode.
func (e RtEvent) SyncModeData() int32 {
	assertTag(e, SyncMode)
	return e.SyncModeValue
}

// ProcessorSlotData returns the target processor id for
// INSERT_PROCESSOR / REMOVE_PROCESSOR events addressed by processorID.
func (e RtEvent) ProcessorSlotData() uint32 {
	if e.Tag != InsertProcessor && e.Tag != RemoveProcessor {
		panic("rtevent: not a processor-slot event")
	}
	return e.processorID
}

// TrackMembershipData returns processor id, track id, and optional
// before-id for ADD/REMOVE_PROCESSOR_TO/FROM_TRACK.
func (e RtEvent) TrackMembershipData() (processorID, trackID, beforeID uint32, hasBefore bool) {
	if e.Tag != AddProcessorToTrack && e.Tag != RemoveProcessorFromTrack {
		panic("rtevent: not a track-membership event")
	}
	return e.processorID, e.TrackID, e.BeforeID, e.HasBefore
}

// TrackData returns the track id for ADD_TRACK / REMOVE_TRACK.
func (e RtEvent) TrackData() uint32 {
	if e.Tag != AddTrack && e.Tag != RemoveTrack {
		panic("rtevent: not a track event")
	}
	return e.TrackID
}

// AudioConnectionData returns the connection triple and whether it binds
// an engine input channel to a track (true) or a track to an engine output
// channel (false), for ADD/REMOVE_AUDIO_CONNECTION.
func (e RtEvent) AudioConnectionData() (engineChannel, trackChannel int32, trackID uint32, isInput bool) {
	if e.Tag != AddAudioConnection && e.Tag != RemoveAudioConnection {
		panic("rtevent: not an audio-connection event")
	}
	return e.EngineChannel, e.TrackChannel, e.TrackID, e.BoolValue
}

// ClipNotificationData returns the channel that clipped and whether it was
// an input (true) or output (false) channel.
func (e RtEvent) ClipNotificationData() (channel int32, isInput bool) {
	assertTag(e, ClipNotification)
	return e.IntValue, e.BoolValue
}

// CVEventData returns the CV id and value.
func (e RtEvent) CVEventData() (cvID int32, value float32) {
	assertTag(e, CVEvent)
	return e.CVID, e.Velocity
}

// GateEventData returns the gate id, note and channel, and whether it
// represents a rising (note on) or falling (note off) edge.
func (e RtEvent) GateEventData() (gateID int32, note, channel uint8, rising bool) {
	assertTag(e, GateEvent)
	return e.CVID, e.Note, e.Channel, e.BoolValue
}

// SynchronisationData returns the process time in samples at emission.
func (e RtEvent) SynchronisationData() int64 {
	assertTag(e, Synchronisation)
	return int64(e.FloatValue)
}

// AsyncWorkFunc is the function pointer carried by an AsyncWork event.
type AsyncWorkFunc func(arg any) error

// AsyncWorkPayload bundles the closure and argument forwarded to the
// non-RT worker thread for out-of-band execution.
type AsyncWorkPayload struct {
	Fn  AsyncWorkFunc
	Arg any
}

// AsyncWorkData returns the work payload.
func (e RtEvent) AsyncWorkData() AsyncWorkPayload {
	assertTag(e, AsyncWork)
	return e.Payload.(AsyncWorkPayload)
}

// DeleteData returns the object the RT side observed and forwards back for
// non-RT destruction (§5 allocation rule).
func (e RtEvent) DeleteData() any {
	assertTag(e, Delete)
	return e.Payload
}

// SetStateData returns the RT-applicable state payload.
func (e RtEvent) SetStateData() any {
	assertTag(e, SetState)
	return e.Payload
}
