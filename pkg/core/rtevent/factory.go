package rtevent

// Factory functions build each RtEvent variant with exactly the fields it
// needs populated. processorID addresses the owning Processor/Track; most
// non-keyboard variants route by processorID alone.

func NewNoteOn(processorID uint32, sampleOffset int32, channel, note uint8, velocity float32) RtEvent {
	return RtEvent{Tag: NoteOn, processorID: processorID, SampleOffset: sampleOffset, Channel: channel, Note: note, Velocity: velocity}
}

func NewNoteOff(processorID uint32, sampleOffset int32, channel, note uint8, velocity float32) RtEvent {
	return RtEvent{Tag: NoteOff, processorID: processorID, SampleOffset: sampleOffset, Channel: channel, Note: note, Velocity: velocity}
}

func NewNoteAftertouch(processorID uint32, sampleOffset int32, channel, note uint8, value float32) RtEvent {
	return RtEvent{Tag: NoteAftertouch, processorID: processorID, SampleOffset: sampleOffset, Channel: channel, Note: note, Velocity: value}
}

func NewChannelAftertouch(processorID uint32, sampleOffset int32, channel uint8, value float32) RtEvent {
	return RtEvent{Tag: ChannelAftertouch, processorID: processorID, SampleOffset: sampleOffset, Channel: channel, Velocity: value}
}

func NewPitchBend(processorID uint32, sampleOffset int32, channel uint8, value float64) RtEvent {
	return RtEvent{Tag: PitchBend, processorID: processorID, SampleOffset: sampleOffset, Channel: channel, FloatValue: value}
}

func NewModulation(processorID uint32, sampleOffset int32, channel uint8, value float64) RtEvent {
	return RtEvent{Tag: Modulation, processorID: processorID, SampleOffset: sampleOffset, Channel: channel, FloatValue: value}
}

func NewWrappedMIDI(processorID uint32, sampleOffset int32, bytes [4]byte) RtEvent {
	return RtEvent{Tag: WrappedMIDI, processorID: processorID, SampleOffset: sampleOffset, MIDIBytes: bytes}
}

func NewFloatParameterChange(processorID, paramID uint32, sampleOffset int32, value float64) RtEvent {
	return RtEvent{Tag: FloatParameterChange, processorID: processorID, SampleOffset: sampleOffset, ParamID: paramID, FloatValue: value}
}

func NewIntParameterChange(processorID, paramID uint32, sampleOffset int32, value int32) RtEvent {
	return RtEvent{Tag: IntParameterChange, processorID: processorID, SampleOffset: sampleOffset, ParamID: paramID, IntValue: value}
}

func NewBoolParameterChange(processorID, paramID uint32, sampleOffset int32, value bool) RtEvent {
	return RtEvent{Tag: BoolParameterChange, processorID: processorID, SampleOffset: sampleOffset, ParamID: paramID, BoolValue: value}
}

// NewStringPropertyChange takes ownership of str; the processor must echo it
// back via NewDelete once consumed so the non-RT side can free it.
func NewStringPropertyChange(processorID, propertyID uint32, str *string) RtEvent {
	return RtEvent{Tag: StringPropertyChange, processorID: processorID, ParamID: propertyID, Payload: str}
}

func NewDataPropertyChange(processorID, propertyID uint32, blob []byte) RtEvent {
	return RtEvent{Tag: DataPropertyChange, processorID: processorID, ParamID: propertyID, Payload: blob}
}

func NewSetBypass(processorID uint32, bypassed bool) RtEvent {
	return RtEvent{Tag: SetBypass, processorID: processorID, BoolValue: bypassed}
}

func NewTempo(bpm float64) RtEvent {
	return RtEvent{Tag: Tempo, Tempo: bpm}
}

func NewTimeSignature(numerator, denominator int32) RtEvent {
	return RtEvent{Tag: TimeSignature, TSNumerator: numerator, TSDenominator: denominator}
}

func NewPlayingMode(mode int32) RtEvent {
	return RtEvent{Tag: PlayingMode, PlayState: mode}
}

func NewSyncMode(mode int32) RtEvent {
	return RtEvent{Tag: SyncMode, SyncModeValue: mode}
}

func NewInsertProcessor(processorID uint32) RtEvent {
	return RtEvent{Tag: InsertProcessor, processorID: processorID}
}

func NewRemoveProcessor(processorID uint32) RtEvent {
	return RtEvent{Tag: RemoveProcessor, processorID: processorID}
}

func NewAddProcessorToTrack(processorID, trackID uint32) RtEvent {
	return RtEvent{Tag: AddProcessorToTrack, processorID: processorID, TrackID: trackID}
}

func NewAddProcessorToTrackBefore(processorID, trackID, beforeID uint32) RtEvent {
	return RtEvent{Tag: AddProcessorToTrack, processorID: processorID, TrackID: trackID, BeforeID: beforeID, HasBefore: true}
}

func NewRemoveProcessorFromTrack(processorID, trackID uint32) RtEvent {
	return RtEvent{Tag: RemoveProcessorFromTrack, processorID: processorID, TrackID: trackID}
}

func NewAddTrack(trackID uint32) RtEvent {
	return RtEvent{Tag: AddTrack, TrackID: trackID}
}

func NewRemoveTrack(trackID uint32) RtEvent {
	return RtEvent{Tag: RemoveTrack, TrackID: trackID}
}

// isInput distinguishes the input-channel-to-track-channel connections
// committed by connect_audio_input_channel from the track-channel-to-
// output-channel connections committed by connect_audio_output_channel;
// both share the same (engine_channel, track_channel, track_id) triple.
func NewAddAudioConnection(engineChannel, trackChannel int32, trackID uint32, isInput bool) RtEvent {
	return RtEvent{Tag: AddAudioConnection, EngineChannel: engineChannel, TrackChannel: trackChannel, TrackID: trackID, BoolValue: isInput}
}

func NewRemoveAudioConnection(engineChannel, trackChannel int32, trackID uint32, isInput bool) RtEvent {
	return RtEvent{Tag: RemoveAudioConnection, EngineChannel: engineChannel, TrackChannel: trackChannel, TrackID: trackID, BoolValue: isInput}
}

func NewClipNotification(processorID uint32, channel int32, isInput bool) RtEvent {
	return RtEvent{Tag: ClipNotification, processorID: processorID, IntValue: channel, BoolValue: isInput}
}

func NewCVEvent(processorID uint32, sampleOffset, cvID int32, value float32) RtEvent {
	return RtEvent{Tag: CVEvent, processorID: processorID, SampleOffset: sampleOffset, CVID: cvID, Velocity: value}
}

func NewGateEvent(processorID uint32, sampleOffset, gateID int32, note, channel uint8, rising bool) RtEvent {
	return RtEvent{Tag: GateEvent, processorID: processorID, SampleOffset: sampleOffset, CVID: gateID, Note: note, Channel: channel, BoolValue: rising}
}

func NewSynchronisation(processTimeSamples int64) RtEvent {
	return RtEvent{Tag: Synchronisation, FloatValue: float64(processTimeSamples)}
}

func NewTimingTick(sampleOffset int32) RtEvent {
	return RtEvent{Tag: TimingTick, SampleOffset: sampleOffset}
}

func NewAsyncWork(processorID uint32, eventID uint64, fn AsyncWorkFunc, arg any) RtEvent {
	return RtEvent{Tag: AsyncWork, processorID: processorID, EventID: eventID, Payload: AsyncWorkPayload{Fn: fn, Arg: arg}}
}

// NewDelete wraps obj for non-RT destruction. The RT side never calls this
// directly on heap-owning state; it forwards a RtEvent it received back out
// once no longer needed (§5).
func NewDelete(obj any) RtEvent {
	return RtEvent{Tag: Delete, Payload: obj}
}

func NewSetState(processorID uint32, state any) RtEvent {
	return RtEvent{Tag: SetState, processorID: processorID, Payload: state}
}
