// Package engine implements AudioEngine, the composition root that drives
// one process_chunk per audio callback: draining the RT event FIFOs,
// advancing Transport, routing audio to and from the Track graph, and
// running the master limiter and clip detectors on the way out (§4.k).
package engine

import (
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/fifo"
	"github.com/sushi-audio/sushi-go/pkg/core/graph"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/core/track"
	"github.com/sushi-audio/sushi-go/pkg/core/transport"
	"github.com/sushi-audio/sushi-go/pkg/dsp/limiter"
	"github.com/sushi-audio/sushi-go/pkg/dsp/meter"
)

// engineTimingID identifies the engine's own node in the performance timer,
// distinct from any per-track or per-processor id.
const engineTimingID = -1

// Config bundles AudioEngine's construction parameters.
type Config struct {
	SampleRate        float64
	NumInputChannels  int
	NumOutputChannels int
	RTCPUCores        int
	MaxTracksPerCore  int
}

// AudioEngine is the top-level composition root: owns the Track graph, the
// Transport clock, the RT event FIFOs, the audio connection maps, and the
// output-stage master limiter and clip detectors.
type AudioEngine struct {
	sampleRate float64

	transport *transport.Transport
	graph     *graph.AudioGraph
	perfTimer *PerformanceTimer

	// realtime-processor lookup, populated by INSERT_PROCESSOR/
	// REMOVE_PROCESSOR control events draining on the RT thread. A map
	// substitutes for the original's fixed-capacity vector indexed by
	// ObjectId (documented in DESIGN.md, same rationale as the registry's
	// single-mutex simplification); lookup and mutation both happen only
	// from ProcessChunk so no synchronization is needed here.
	processors map[uint32]processor.Processor

	// pendingProcessors holds processors the non-RT side has already
	// constructed and wants inserted on the next INSERT_PROCESSOR control
	// event, mirroring a ProcessorContainer registration that precedes the
	// RT-side notification.
	pendingProcessors map[uint32]processor.Processor

	// tracks are registered directly (RegisterTrack), since Track does not
	// implement Processor in this port (§9 design note); ADD_TRACK /
	// REMOVE_TRACK RT events only add/remove an already-registered track
	// to/from the AudioGraph scheduler.
	tracks map[uint32]*track.Track

	preTrack  *track.Track
	postTrack *track.Track

	controlQueueIn  *fifo.FIFO[rtevent.RtEvent]
	controlQueueOut *fifo.FIFO[rtevent.RtEvent]
	mainInQueue     *fifo.FIFO[rtevent.RtEvent]
	mainOutQueue    *fifo.FIFO[rtevent.RtEvent]

	// eventCollector gathers every event a Track bubbles out past its last
	// processor (CV/gate events a plugin emits, unconsumed keyboard
	// events); every registered Track's event output is wired to push here.
	eventCollector *fifo.FIFO[rtevent.RtEvent]

	inputConnections  *connectionMap
	outputConnections *connectionMap

	cvConnections   []CvConnection
	gateConnections []GateConnection
	prevGateBits    uint64

	inputSwapBuffer  *buffer.SampleBuffer
	outputSwapBuffer *buffer.SampleBuffer

	inputClipDetectionEnabled  bool
	outputClipDetectionEnabled bool
	clipDetector               *meter.ClipDetector

	masterLimiterEnabled bool
	masterLimiters       []*limiter.Limiter
}

// New constructs an AudioEngine. The caller must RegisterTrack every Track
// and drive graph-affecting control events (via ControlQueueIn) before the
// first ProcessChunk.
func New(cfg Config) *AudioEngine {
	e := &AudioEngine{
		sampleRate:           cfg.SampleRate,
		transport:            transport.New(cfg.SampleRate),
		graph:                graph.New(cfg.RTCPUCores, cfg.MaxTracksPerCore),
		perfTimer:            NewPerformanceTimer(),
		processors:           make(map[uint32]processor.Processor),
		pendingProcessors:    make(map[uint32]processor.Processor),
		tracks:               make(map[uint32]*track.Track),
		controlQueueIn:       fifo.New[rtevent.RtEvent](256),
		controlQueueOut:      fifo.New[rtevent.RtEvent](256),
		mainInQueue:          fifo.New[rtevent.RtEvent](1024),
		mainOutQueue:         fifo.New[rtevent.RtEvent](1024),
		eventCollector:       fifo.New[rtevent.RtEvent](1024),
		inputConnections:     newConnectionMap(),
		outputConnections:    newConnectionMap(),
		inputSwapBuffer:      buffer.New(cfg.NumInputChannels),
		outputSwapBuffer:     buffer.New(cfg.NumOutputChannels),
		clipDetector:         meter.NewClipDetector(),
		masterLimiterEnabled: true,
	}
	e.clipDetector.SetSampleRate(cfg.SampleRate)
	e.clipDetector.SetInputChannels(cfg.NumInputChannels)
	e.clipDetector.SetOutputChannels(cfg.NumOutputChannels)

	e.masterLimiters = make([]*limiter.Limiter, cfg.NumOutputChannels)
	for i := range e.masterLimiters {
		e.masterLimiters[i] = limiter.NewLimiter(cfg.SampleRate)
	}

	e.perfTimer.SetTimingPeriod(cfg.SampleRate, constants.ChunkSize)
	return e
}

// Transport exposes the engine's musical clock.
func (e *AudioEngine) Transport() *transport.Transport { return e.transport }

// PerformanceTimer exposes the engine's timing sink.
func (e *AudioEngine) PerformanceTimer() *PerformanceTimer { return e.perfTimer }

// ControlQueueIn is the inbound FIFO for TEMPO/graph-mutation/connection
// control events (non-RT producer, RT consumer).
func (e *AudioEngine) ControlQueueIn() *fifo.FIFO[rtevent.RtEvent] { return e.controlQueueIn }

// ControlQueueOut carries handled control events back to the non-RT side,
// e.g. for an AsyncReceiver to correlate against a pending EventID.
func (e *AudioEngine) ControlQueueOut() *fifo.FIFO[rtevent.RtEvent] { return e.controlQueueOut }

// MainInQueue is the inbound FIFO for parameter/keyboard events addressed
// to a specific processor by id.
func (e *AudioEngine) MainInQueue() *fifo.FIFO[rtevent.RtEvent] { return e.mainInQueue }

// MainOutQueue carries events retrieved from track outputs (bubbled
// keyboard events and other processor output) plus one Synchronisation
// event per chunk. Clip notifications go to ControlQueueOut instead.
func (e *AudioEngine) MainOutQueue() *fifo.FIFO[rtevent.RtEvent] { return e.mainOutQueue }

// RegisterTrack makes t routable by ADD_PROCESSOR_TO_TRACK/ADD_TRACK
// control events and wires its event output into the shared collector.
// Call once per track, before referencing its id in any event.
func (e *AudioEngine) RegisterTrack(t *track.Track) {
	t.SetEventOutput(func(ev rtevent.RtEvent) { e.eventCollector.Push(ev) })
	e.tracks[t.ID()] = t
}

// UnregisterTrack drops t from the routing table. The caller must have
// already removed it from the graph via a REMOVE_TRACK control event.
func (e *AudioEngine) UnregisterTrack(id uint32) {
	delete(e.tracks, id)
}

// SetPreTrack / SetPostTrack install the optional pre/post processing
// track, already registered via RegisterTrack.
func (e *AudioEngine) SetPreTrack(id uint32)  { e.preTrack = e.tracks[id] }
func (e *AudioEngine) SetPostTrack(id uint32) { e.postTrack = e.tracks[id] }

// RegisterProcessor makes p available to a later INSERT_PROCESSOR control
// event, mirroring the non-RT side committing a processor to a
// ProcessorContainer before notifying the RT thread.
func (e *AudioEngine) RegisterProcessor(p processor.Processor) {
	e.pendingProcessors[p.ID()] = p
}

// SetCvConnections / SetGateConnections configure the CV/gate input
// routing table used in step 6 of ProcessChunk.
func (e *AudioEngine) SetCvConnections(conns []CvConnection)     { e.cvConnections = conns }
func (e *AudioEngine) SetGateConnections(conns []GateConnection) { e.gateConnections = conns }

// AddOutputConnection / RemoveOutputConnection commit a track-output ->
// engine-output routing entry directly, without going through the control
// queue. ADD/REMOVE_AUDIO_CONNECTION control events, handled in
// handleControlEvent, change input and output entries on the RT side.
func (e *AudioEngine) AddOutputConnection(c AudioConnection)    { e.outputConnections.Add(c) }
func (e *AudioEngine) RemoveOutputConnection(c AudioConnection) { e.outputConnections.Remove(c) }

// SetInputClipDetection / SetOutputClipDetection / SetMasterLimiterEnabled
// toggle the optional output-stage processing (§4.k steps 7, 13, 14).
func (e *AudioEngine) SetInputClipDetection(enabled bool)   { e.inputClipDetectionEnabled = enabled }
func (e *AudioEngine) SetOutputClipDetection(enabled bool)  { e.outputClipDetectionEnabled = enabled }
func (e *AudioEngine) SetMasterLimiterEnabled(enabled bool) { e.masterLimiterEnabled = enabled }

// ProcessChunk runs one fixed-size audio callback end to end (§4.k). The
// mark-RT-thread hook from the original is a platform/thread-affinity
// assertion with no Go equivalent and is omitted.
func (e *AudioEngine) ProcessChunk(in, out *buffer.SampleBuffer, cvIn, cvOut []float32, gateInBits uint64, sampleCount int64) {
	start := e.perfTimer.StartTimer()

	e.transport.SetTime(sampleCount)

	e.drainControlQueue()
	e.drainMainInQueue()
	e.routeCvAndGateInputs(cvIn, gateInBits)

	if e.inputClipDetectionEnabled {
		e.clipDetector.DetectClippedSamples(in, e.controlQueueOut, true)
	}

	if e.preTrack != nil {
		e.preTrack.ProcessAudio(in, e.inputSwapBuffer)
		e.copyAudioToTracks(e.inputSwapBuffer)
	} else {
		e.copyAudioToTracks(in)
	}

	e.graph.Render()

	e.retrieveEventsFromTracks(cvOut)

	e.mainOutQueue.Push(rtevent.NewSynchronisation(sampleCount))

	if e.postTrack != nil {
		e.copyAudioFromTracks(e.outputSwapBuffer)
		e.postTrack.ProcessAudio(e.outputSwapBuffer, out)
	} else {
		e.copyAudioFromTracks(out)
	}

	if e.masterLimiterEnabled {
		for ch := 0; ch < out.Channels() && ch < len(e.masterLimiters); ch++ {
			e.masterLimiters[ch].Process(out.Channel(ch), out.Channel(ch))
		}
	}

	if e.outputClipDetectionEnabled {
		e.clipDetector.DetectClippedSamples(out, e.controlQueueOut, false)
	}

	e.perfTimer.StopTimer(start, engineTimingID)
}

// drainControlQueue implements §4.k step 4.
func (e *AudioEngine) drainControlQueue() {
	for {
		ev, ok := e.controlQueueIn.Pop()
		if !ok {
			return
		}
		ev.Handled = e.handleControlEvent(ev)
		e.controlQueueOut.Push(ev)
	}
}

func (e *AudioEngine) handleControlEvent(ev rtevent.RtEvent) bool {
	switch ev.Tag {
	case rtevent.Tempo:
		e.transport.SetTempo(ev.TempoData(), true)
		return true

	case rtevent.TimeSignature:
		num, den := ev.TimeSignatureData()
		e.transport.SetTimeSignature(transport.TimeSignature{Numerator: int(num), Denominator: int(den)}, true)
		return true

	case rtevent.PlayingMode:
		e.transport.SetPlayingMode(transport.PlayingMode(ev.PlayingModeData()), true)
		return true

	case rtevent.SyncMode:
		e.transport.SetSyncMode(transport.SyncMode(ev.SyncModeData()), true)
		return true

	case rtevent.InsertProcessor:
		id := ev.ProcessorSlotData()
		p, ok := e.pendingProcessors[id]
		if !ok {
			return false
		}
		e.processors[id] = p
		delete(e.pendingProcessors, id)
		return true

	case rtevent.RemoveProcessor:
		id := ev.ProcessorSlotData()
		if _, ok := e.processors[id]; !ok {
			return false
		}
		delete(e.processors, id)
		return true

	case rtevent.AddProcessorToTrack:
		procID, trackID, beforeID, hasBefore := ev.TrackMembershipData()
		t, tok := e.tracks[trackID]
		p, pok := e.processors[procID]
		if !tok || !pok {
			return false
		}
		if hasBefore {
			return t.Add(p, beforeID)
		}
		return t.Add(p)

	case rtevent.RemoveProcessorFromTrack:
		procID, trackID, _, _ := ev.TrackMembershipData()
		t, ok := e.tracks[trackID]
		if !ok {
			return false
		}
		return t.Remove(procID)

	case rtevent.AddTrack:
		t, ok := e.tracks[ev.TrackData()]
		if !ok {
			return false
		}
		return e.graph.Add(t)

	case rtevent.RemoveTrack:
		t, ok := e.tracks[ev.TrackData()]
		if !ok {
			return false
		}
		return e.graph.Remove(t)

	case rtevent.AddAudioConnection:
		engineCh, trackCh, trackID, isInput := ev.AudioConnectionData()
		conn := AudioConnection{EngineChannel: engineCh, TrackChannel: trackCh, TrackID: trackID}
		if isInput {
			e.inputConnections.Add(conn)
		} else {
			e.outputConnections.Add(conn)
		}
		return true

	case rtevent.RemoveAudioConnection:
		engineCh, trackCh, trackID, isInput := ev.AudioConnectionData()
		conn := AudioConnection{EngineChannel: engineCh, TrackChannel: trackCh, TrackID: trackID}
		if isInput {
			e.inputConnections.Remove(conn)
		} else {
			e.outputConnections.Remove(conn)
		}
		return true

	default:
		return false
	}
}

// drainMainInQueue implements §4.k step 5: route each event to its target
// processor or track by id, dropping silently if unknown.
func (e *AudioEngine) drainMainInQueue() {
	for {
		ev, ok := e.mainInQueue.Pop()
		if !ok {
			return
		}
		if p, ok := e.processors[ev.ProcessorID()]; ok {
			p.ProcessEvent(ev)
			continue
		}
		if t, ok := e.tracks[ev.ProcessorID()]; ok {
			t.ProcessEvent(ev)
		}
	}
}

// routeCvAndGateInputs implements §4.k step 6: each configured CV input is
// turned into a float parameter change every chunk; each gate bit's rising
// or falling edge since the previous chunk becomes a note on/off.
func (e *AudioEngine) routeCvAndGateInputs(cvIn []float32, gateInBits uint64) {
	for _, c := range e.cvConnections {
		if int(c.CVID) >= len(cvIn) {
			continue
		}
		if p, ok := e.processors[c.ProcessorID]; ok {
			p.ProcessEvent(rtevent.NewFloatParameterChange(c.ProcessorID, c.ParameterID, 0, float64(cvIn[c.CVID])))
		}
	}

	changed := gateInBits ^ e.prevGateBits
	e.prevGateBits = gateInBits
	if changed == 0 {
		return
	}
	for _, c := range e.gateConnections {
		bit := uint64(1) << uint(c.GateID)
		if changed&bit == 0 {
			continue
		}
		p, ok := e.processors[c.ProcessorID]
		if !ok {
			continue
		}
		if gateInBits&bit != 0 {
			p.ProcessEvent(rtevent.NewNoteOn(c.ProcessorID, 0, c.Channel, c.Note, 1.0))
		} else {
			p.ProcessEvent(rtevent.NewNoteOff(c.ProcessorID, 0, c.Channel, c.Note, 0.0))
		}
	}
}

// copyAudioToTracks implements §4.k step 8's connection-map half: replace
// each connected track input channel with the corresponding engine input
// channel (a straight copy, not a mix - at most one connection should feed
// a given track channel).
func (e *AudioEngine) copyAudioToTracks(in *buffer.SampleBuffer) {
	for _, c := range e.inputConnections.View() {
		t, ok := e.tracks[c.TrackID]
		if !ok {
			continue
		}
		copy(t.InputBuffer().Channel(int(c.TrackChannel)), in.Channel(int(c.EngineChannel)))
	}
}

// copyAudioFromTracks implements §4.k step 12's connection-map half: clear
// the destination then mix (add) every connected track output channel
// into it, since more than one track may route to the same engine channel.
func (e *AudioEngine) copyAudioFromTracks(out *buffer.SampleBuffer) {
	out.Clear()
	for _, c := range e.outputConnections.View() {
		t, ok := e.tracks[c.TrackID]
		if !ok {
			continue
		}
		src := t.OutputBuffer().Channel(int(c.TrackChannel))
		dst := out.Channel(int(c.EngineChannel))
		for i := range dst {
			dst[i] += src[i]
		}
	}
}

// retrieveEventsFromTracks implements §4.k step 10: drain the shared event
// collector every registered Track feeds, routing CV_EVENT onto cvOut and
// everything else (bubbled keyboard events, gate events a plugin emitted)
// onto mainOutQueue.
func (e *AudioEngine) retrieveEventsFromTracks(cvOut []float32) {
	for {
		ev, ok := e.eventCollector.Pop()
		if !ok {
			return
		}
		if ev.Tag == rtevent.CVEvent {
			cvID, value := ev.CVEventData()
			if int(cvID) < len(cvOut) {
				cvOut[cvID] = value
			}
			continue
		}
		e.mainOutQueue.Push(ev)
	}
}
