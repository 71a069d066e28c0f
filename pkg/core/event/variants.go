package event

import "github.com/sushi-audio/sushi-go/pkg/core/rtevent"

// --- Keyboard ---------------------------------------------------------

type KeyboardEventKind uint8

const (
	KeyNoteOn KeyboardEventKind = iota
	KeyNoteOff
	KeyNoteAftertouch
)

type KeyboardEvent struct {
	base
	Kind     KeyboardEventKind
	Channel  uint8
	Note     uint8
	Velocity float32
}

func NewKeyboardEvent(timestamp int64, receiverID uint32, eventID uint64, kind KeyboardEventKind, channel, note uint8, velocity float32) *KeyboardEvent {
	return &KeyboardEvent{base: newBase(timestamp, receiverID, eventID, nil), Kind: kind, Channel: channel, Note: note, Velocity: velocity}
}

func (e *KeyboardEvent) ToRtEvent(sampleOffset int32) rtevent.RtEvent {
	switch e.Kind {
	case KeyNoteOn:
		return rtevent.NewNoteOn(e.receiverID, sampleOffset, e.Channel, e.Note, e.Velocity)
	case KeyNoteOff:
		return rtevent.NewNoteOff(e.receiverID, sampleOffset, e.Channel, e.Note, e.Velocity)
	default:
		return rtevent.NewNoteAftertouch(e.receiverID, sampleOffset, e.Channel, e.Note, e.Velocity)
	}
}

// --- Parameter changes --------------------------------------------------

type FloatParameterChangeEvent struct {
	base
	ParamID uint32
	Value   float64
}

func NewFloatParameterChangeEvent(timestamp int64, receiverID, paramID uint32, eventID uint64, value float64) *FloatParameterChangeEvent {
	return &FloatParameterChangeEvent{base: newBase(timestamp, receiverID, eventID, nil), ParamID: paramID, Value: value}
}

func (e *FloatParameterChangeEvent) ToRtEvent(sampleOffset int32) rtevent.RtEvent {
	return rtevent.NewFloatParameterChange(e.receiverID, e.ParamID, sampleOffset, e.Value)
}

type IntParameterChangeEvent struct {
	base
	ParamID uint32
	Value   int32
}

func NewIntParameterChangeEvent(timestamp int64, receiverID, paramID uint32, eventID uint64, value int32) *IntParameterChangeEvent {
	return &IntParameterChangeEvent{base: newBase(timestamp, receiverID, eventID, nil), ParamID: paramID, Value: value}
}

func (e *IntParameterChangeEvent) ToRtEvent(sampleOffset int32) rtevent.RtEvent {
	return rtevent.NewIntParameterChange(e.receiverID, e.ParamID, sampleOffset, e.Value)
}

type BoolParameterChangeEvent struct {
	base
	ParamID uint32
	Value   bool
}

func NewBoolParameterChangeEvent(timestamp int64, receiverID, paramID uint32, eventID uint64, value bool) *BoolParameterChangeEvent {
	return &BoolParameterChangeEvent{base: newBase(timestamp, receiverID, eventID, nil), ParamID: paramID, Value: value}
}

func (e *BoolParameterChangeEvent) ToRtEvent(sampleOffset int32) rtevent.RtEvent {
	return rtevent.NewBoolParameterChange(e.receiverID, e.ParamID, sampleOffset, e.Value)
}

// --- Properties ----------------------------------------------------------

type StringPropertyEvent struct {
	base
	PropertyID uint32
	Value      string
}

func NewStringPropertyEvent(timestamp int64, receiverID, propertyID uint32, eventID uint64, value string) *StringPropertyEvent {
	return &StringPropertyEvent{base: newBase(timestamp, receiverID, eventID, nil), PropertyID: propertyID, Value: value}
}

func (e *StringPropertyEvent) ToRtEvent(sampleOffset int32) rtevent.RtEvent {
	s := e.Value
	return rtevent.NewStringPropertyChange(e.receiverID, e.PropertyID, &s)
}

type DataPropertyEvent struct {
	base
	PropertyID uint32
	Value      []byte
}

func NewDataPropertyEvent(timestamp int64, receiverID, propertyID uint32, eventID uint64, value []byte) *DataPropertyEvent {
	return &DataPropertyEvent{base: newBase(timestamp, receiverID, eventID, nil), PropertyID: propertyID, Value: value}
}

func (e *DataPropertyEvent) ToRtEvent(sampleOffset int32) rtevent.RtEvent {
	return rtevent.NewDataPropertyChange(e.receiverID, e.PropertyID, e.Value)
}

// --- Bypass / state --------------------------------------------------------

type SetProcessorBypassEvent struct {
	base
	Bypassed bool
}

func NewSetProcessorBypassEvent(timestamp int64, receiverID uint32, eventID uint64, bypassed bool) *SetProcessorBypassEvent {
	return &SetProcessorBypassEvent{base: newBase(timestamp, receiverID, eventID, nil), Bypassed: bypassed}
}

func (e *SetProcessorBypassEvent) ToRtEvent(sampleOffset int32) rtevent.RtEvent {
	return rtevent.NewSetBypass(e.receiverID, e.Bypassed)
}

type SetProcessorStateEvent struct {
	base
	State any
}

func NewSetProcessorStateEvent(timestamp int64, receiverID uint32, eventID uint64, state any) *SetProcessorStateEvent {
	return &SetProcessorStateEvent{base: newBase(timestamp, receiverID, eventID, nil), State: state}
}

func (e *SetProcessorStateEvent) ToRtEvent(sampleOffset int32) rtevent.RtEvent {
	return rtevent.NewSetState(e.receiverID, e.State)
}

// --- Engine transport ---------------------------------------------------

type SetEngineTempoEvent struct {
	base
	BPM float64
}

func NewSetEngineTempoEvent(timestamp int64, eventID uint64, bpm float64) *SetEngineTempoEvent {
	return &SetEngineTempoEvent{base: newBase(timestamp, 0, eventID, nil), BPM: bpm}
}

func (e *SetEngineTempoEvent) ToRtEvent(int32) rtevent.RtEvent { return rtevent.NewTempo(e.BPM) }

type SetEngineTimeSignatureEvent struct {
	base
	Numerator, Denominator int32
}

func NewSetEngineTimeSignatureEvent(timestamp int64, eventID uint64, num, denom int32) *SetEngineTimeSignatureEvent {
	return &SetEngineTimeSignatureEvent{base: newBase(timestamp, 0, eventID, nil), Numerator: num, Denominator: denom}
}

func (e *SetEngineTimeSignatureEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewTimeSignature(e.Numerator, e.Denominator)
}

type SetEnginePlayingModeEvent struct {
	base
	Mode int32
}

func NewSetEnginePlayingModeEvent(timestamp int64, eventID uint64, mode int32) *SetEnginePlayingModeEvent {
	return &SetEnginePlayingModeEvent{base: newBase(timestamp, 0, eventID, nil), Mode: mode}
}

func (e *SetEnginePlayingModeEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewPlayingMode(e.Mode)
}

type SetEngineSyncModeEvent struct {
	base
	Mode int32
}

func NewSetEngineSyncModeEvent(timestamp int64, eventID uint64, mode int32) *SetEngineSyncModeEvent {
	return &SetEngineSyncModeEvent{base: newBase(timestamp, 0, eventID, nil), Mode: mode}
}

func (e *SetEngineSyncModeEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewSyncMode(e.Mode)
}

// --- Graph mutation -------------------------------------------------------

type InsertProcessorEvent struct{ base }

func NewInsertProcessorEvent(timestamp int64, processorID uint32, eventID uint64) *InsertProcessorEvent {
	return &InsertProcessorEvent{base: newBase(timestamp, processorID, eventID, nil)}
}
func (e *InsertProcessorEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewInsertProcessor(e.receiverID)
}

type RemoveProcessorEvent struct{ base }

func NewRemoveProcessorEvent(timestamp int64, processorID uint32, eventID uint64) *RemoveProcessorEvent {
	return &RemoveProcessorEvent{base: newBase(timestamp, processorID, eventID, nil)}
}
func (e *RemoveProcessorEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewRemoveProcessor(e.receiverID)
}

type AddProcessorToTrackEvent struct {
	base
	TrackID   uint32
	BeforeID  uint32
	HasBefore bool
}

func NewAddProcessorToTrackEvent(timestamp int64, processorID, trackID uint32, eventID uint64) *AddProcessorToTrackEvent {
	return &AddProcessorToTrackEvent{base: newBase(timestamp, processorID, eventID, nil), TrackID: trackID}
}

func NewAddProcessorToTrackBeforeEvent(timestamp int64, processorID, trackID, beforeID uint32, eventID uint64) *AddProcessorToTrackEvent {
	return &AddProcessorToTrackEvent{base: newBase(timestamp, processorID, eventID, nil), TrackID: trackID, BeforeID: beforeID, HasBefore: true}
}

func (e *AddProcessorToTrackEvent) ToRtEvent(int32) rtevent.RtEvent {
	if e.HasBefore {
		return rtevent.NewAddProcessorToTrackBefore(e.receiverID, e.TrackID, e.BeforeID)
	}
	return rtevent.NewAddProcessorToTrack(e.receiverID, e.TrackID)
}

type RemoveProcessorFromTrackEvent struct {
	base
	TrackID uint32
}

func NewRemoveProcessorFromTrackEvent(timestamp int64, processorID, trackID uint32, eventID uint64) *RemoveProcessorFromTrackEvent {
	return &RemoveProcessorFromTrackEvent{base: newBase(timestamp, processorID, eventID, nil), TrackID: trackID}
}

func (e *RemoveProcessorFromTrackEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewRemoveProcessorFromTrack(e.receiverID, e.TrackID)
}

type AddTrackEvent struct {
	base
	TrackID uint32
}

func NewAddTrackEvent(timestamp int64, trackID uint32, eventID uint64) *AddTrackEvent {
	return &AddTrackEvent{base: newBase(timestamp, 0, eventID, nil), TrackID: trackID}
}
func (e *AddTrackEvent) ToRtEvent(int32) rtevent.RtEvent { return rtevent.NewAddTrack(e.TrackID) }

type RemoveTrackEvent struct {
	base
	TrackID uint32
}

func NewRemoveTrackEvent(timestamp int64, trackID uint32, eventID uint64) *RemoveTrackEvent {
	return &RemoveTrackEvent{base: newBase(timestamp, 0, eventID, nil), TrackID: trackID}
}
func (e *RemoveTrackEvent) ToRtEvent(int32) rtevent.RtEvent { return rtevent.NewRemoveTrack(e.TrackID) }

type AddAudioConnectionEvent struct {
	base
	EngineChannel, TrackChannel int32
	TrackID                     uint32
	IsInput                     bool
}

func NewAddAudioConnectionEvent(timestamp int64, eventID uint64, engineCh, trackCh int32, trackID uint32, isInput bool) *AddAudioConnectionEvent {
	return &AddAudioConnectionEvent{base: newBase(timestamp, 0, eventID, nil), EngineChannel: engineCh, TrackChannel: trackCh, TrackID: trackID, IsInput: isInput}
}

func (e *AddAudioConnectionEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewAddAudioConnection(e.EngineChannel, e.TrackChannel, e.TrackID, e.IsInput)
}

type RemoveAudioConnectionEvent struct {
	base
	EngineChannel, TrackChannel int32
	TrackID                     uint32
	IsInput                     bool
}

func NewRemoveAudioConnectionEvent(timestamp int64, eventID uint64, engineCh, trackCh int32, trackID uint32, isInput bool) *RemoveAudioConnectionEvent {
	return &RemoveAudioConnectionEvent{base: newBase(timestamp, 0, eventID, nil), EngineChannel: engineCh, TrackChannel: trackCh, TrackID: trackID, IsInput: isInput}
}

func (e *RemoveAudioConnectionEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewRemoveAudioConnection(e.EngineChannel, e.TrackChannel, e.TrackID, e.IsInput)
}

// --- Async work -----------------------------------------------------------

type AsyncWorkEvent struct {
	base
	Fn  rtevent.AsyncWorkFunc
	Arg any
}

func NewAsyncWorkEvent(timestamp int64, receiverID uint32, eventID uint64, fn rtevent.AsyncWorkFunc, arg any) *AsyncWorkEvent {
	return &AsyncWorkEvent{base: newBase(timestamp, receiverID, eventID, nil), Fn: fn, Arg: arg}
}

func (e *AsyncWorkEvent) ToRtEvent(int32) rtevent.RtEvent {
	return rtevent.NewAsyncWork(e.receiverID, e.eventID, e.Fn, e.Arg)
}

// --- Notifications (RT -> non-RT) -----------------------------------------

// AudioGraphNotificationEvent echoes back the outcome of a graph-mutating
// control event so the originating caller (via AsyncReceiver) can commit or
// roll back.
type AudioGraphNotificationEvent struct {
	base
	Tag       rtevent.Tag
	HandledOK bool
}

func (e *AudioGraphNotificationEvent) ToRtEvent(int32) rtevent.RtEvent {
	panic("event: notification events are not re-serialisable to RtEvent")
}

// ParameterChangeNotificationEvent reports that a tracked parameter's value
// changed, for delivery to whatever is listening for engine-wide parameter
// updates (§4.j). Minted by paramman.Manager, never by a processor directly.
type ParameterChangeNotificationEvent struct {
	base
	ParameterID     uint32
	NormalizedValue float64
	DomainValue     float64
	FormattedValue  string
}

func NewParameterChangeNotificationEvent(timestamp int64, processorID, parameterID uint32, normalizedValue, domainValue float64, formattedValue string) *ParameterChangeNotificationEvent {
	return &ParameterChangeNotificationEvent{
		base:            newBase(timestamp, processorID, 0, nil),
		ParameterID:     parameterID,
		NormalizedValue: normalizedValue,
		DomainValue:     domainValue,
		FormattedValue:  formattedValue,
	}
}

func (e *ParameterChangeNotificationEvent) ToRtEvent(int32) rtevent.RtEvent {
	panic("event: notification events are not re-serialisable to RtEvent")
}

// ClippingNotificationEvent reports a channel where input/output clipped.
type ClippingNotificationEvent struct {
	base
	Channel int32
	IsInput bool
}

func (e *ClippingNotificationEvent) ToRtEvent(int32) rtevent.RtEvent {
	panic("event: notification events are not re-serialisable to RtEvent")
}

// EngineTimingNotificationEvent reports the process time of a completed
// chunk, derived from a SYNCHRONISATION RtEvent.
type EngineTimingNotificationEvent struct {
	base
	ProcessTimeSamples int64
}

func (e *EngineTimingNotificationEvent) ToRtEvent(int32) rtevent.RtEvent {
	panic("event: notification events are not re-serialisable to RtEvent")
}

// FromRtEvent allocates the owned non-RT Event mirroring an RtEvent
// observed coming off a control/main output FIFO (§4.d).
func FromRtEvent(rt rtevent.RtEvent, timestamp int64) Event {
	b := newBase(timestamp, rt.ProcessorID(), rt.EventID, nil)
	switch rt.Tag {
	case rtevent.NoteOn, rtevent.NoteOff, rtevent.NoteAftertouch:
		ch, note, vel := rt.KeyboardData()
		kind := KeyNoteOn
		switch rt.Tag {
		case rtevent.NoteOff:
			kind = KeyNoteOff
		case rtevent.NoteAftertouch:
			kind = KeyNoteAftertouch
		}
		return &KeyboardEvent{base: b, Kind: kind, Channel: ch, Note: note, Velocity: vel}
	case rtevent.ClipNotification:
		ch, isInput := rt.ClipNotificationData()
		return &ClippingNotificationEvent{base: b, Channel: ch, IsInput: isInput}
	case rtevent.Synchronisation:
		return &EngineTimingNotificationEvent{base: b, ProcessTimeSamples: rt.SynchronisationData()}
	case rtevent.InsertProcessor, rtevent.RemoveProcessor,
		rtevent.AddProcessorToTrack, rtevent.RemoveProcessorFromTrack,
		rtevent.AddTrack, rtevent.RemoveTrack,
		rtevent.AddAudioConnection, rtevent.RemoveAudioConnection:
		return &AudioGraphNotificationEvent{base: b, Tag: rt.Tag, HandledOK: rt.Handled}
	default:
		return &AudioGraphNotificationEvent{base: b, Tag: rt.Tag, HandledOK: rt.Handled}
	}
}
