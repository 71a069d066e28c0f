package plugins

import (
	"sync"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/dsp/gain"
)

// SendUID / ReturnUID are the stable internal UIDs for the aux bus pair,
// grounded on original_source/src/plugins/send_plugin.cpp,
// return_plugin.cpp and send_return_factory.cpp.
const (
	SendUID   = "sushi.testing.send"
	ReturnUID = "sushi.testing.return"
)

const (
	sendGainParamID uint32 = iota
	sendChannelCountParamID
	sendStartChannelParamID
	sendDestChannelParamID
)

const sendDestinationPropertyID uint32 = 0

// maxSendChannels bounds how many channels a Send/Return pair carries,
// mirroring the original's MAX_SEND_CHANNELS.
const maxSendChannels = 8

// SendReturnRegistry is the non-RT-owned directory Send plugins use to find
// the Return plugin named by their "destination_name" property, grounded on
// send_return_factory.cpp's SendReturnFactory (here reduced to the lookup
// table it keeps; instance creation itself stays the host's job, matching
// how this port creates every plugin through its own constructors rather
// than a shared factory interface).
type SendReturnRegistry struct {
	mu      sync.Mutex
	returns map[string]*Return
}

// NewSendReturnRegistry creates an empty registry.
func NewSendReturnRegistry() *SendReturnRegistry {
	return &SendReturnRegistry{returns: make(map[string]*Return)}
}

// Register makes ret reachable under name for Send plugins to look up.
func (r *SendReturnRegistry) Register(name string, ret *Return) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.returns[name] = ret
}

// Unregister removes name, e.g. when its Return plugin is deleted.
func (r *SendReturnRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.returns, name)
}

// Lookup resolves name to its Return plugin, or nil if none is registered.
func (r *SendReturnRegistry) Lookup(name string) *Return {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.returns[name]
}

// Return accumulates audio sent to it by any number of Send plugins over the
// course of one chunk and adds the result into its own track's signal path,
// grounded on return_plugin.cpp's ReturnPlugin::send_audio /
// ReturnPlugin::process_audio. The accumulation buffer is guarded by a mutex
// because Send and Return can live on different AudioGraph cores rendered
// concurrently, mirroring the original's scoped_lock<SpinLock>.
type Return struct {
	base
	registry *SendReturnRegistry
	name     string

	mu      sync.Mutex
	pending *buffer.SampleBuffer
}

// NewReturn builds a Return plugin and registers it under name.
func NewReturn(id uint32, registry *SendReturnRegistry, name string, channels int) *Return {
	r := &Return{
		base:     newBase(id, ReturnUID, "Return", channels, channels),
		registry: registry,
		name:     name,
		pending:  buffer.New(channels),
	}
	registry.Register(name, r)
	return r
}

// Close unregisters the Return from its registry, mirroring
// ReturnPlugin::~ReturnPlugin's manager->on_return_destruction call.
func (r *Return) Close() { r.registry.Unregister(r.name) }

// ReceiveAudio is the entry point Send plugins call during their own
// process_audio to deposit gained audio starting at startChannel.
func (r *Return) ReceiveAudio(src *buffer.SampleBuffer, startChannel int, gainLinear float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := minInt(src.Channels(), r.pending.Channels()-startChannel)
	for c := 0; c < n; c++ {
		dst := r.pending.Channel(startChannel + c)
		s := src.Channel(c)
		for i := range dst {
			dst[i] += s[i] * gainLinear
		}
	}
}

func (r *Return) Init(float64) processor.InitStatus { return processor.StatusOK }
func (r *Return) Configure(float64)                 {}

func (r *Return) ProcessAudio(in, out *buffer.SampleBuffer) {
	out.Replace(in)
	r.mu.Lock()
	out.Add(r.pending)
	r.pending.Clear()
	r.mu.Unlock()
}

func (r *Return) ProcessEvent(rtevent.RtEvent) {}

func (r *Return) ParameterValue(uint32) (float64, bool)         { return 0, false }
func (r *Return) ParameterValueInDomain(uint32) (float64, bool) { return 0, false }
func (r *Return) ParameterValueFormatted(uint32) (string, bool) { return "", false }

// Send mirrors the input it's bypassed-through and, every chunk, pushes a
// gained copy of its input to the Return plugin named by destinationName,
// grounded on send_plugin.cpp's SendPlugin::process_audio /
// SendPlugin::_set_destination.
type Send struct {
	base
	registry        *SendReturnRegistry
	destinationName string
	gainDB          float64
	channelCount    int32
	startChannel    int32
	destChannel     int32
}

// NewSend builds a Send plugin routing through registry.
func NewSend(id uint32, registry *SendReturnRegistry, channels int) *Send {
	return &Send{
		base:         newBase(id, SendUID, "Send", channels, channels),
		registry:     registry,
		channelCount: int32(channels),
	}
}

func (s *Send) Init(float64) processor.InitStatus { return processor.StatusOK }
func (s *Send) Configure(float64)                 {}

func (s *Send) ProcessAudio(in, out *buffer.SampleBuffer) {
	out.Replace(in)
	if s.destinationName == "" {
		return
	}
	dest := s.registry.Lookup(s.destinationName)
	if dest == nil {
		return
	}
	dest.ReceiveAudio(in, int(s.destChannel), gain.DbToLinear32(float32(s.gainDB)))
}

func (s *Send) ProcessEvent(ev rtevent.RtEvent) {
	switch ev.Tag {
	case rtevent.FloatParameterChange:
		id, value := ev.FloatParameterData()
		if id == sendGainParamID {
			s.gainDB = clamp(value, -120, 24)
		}
	case rtevent.IntParameterChange:
		id, value := ev.IntParameterData()
		switch id {
		case sendChannelCountParamID:
			s.channelCount = clampInt32(value, 0, maxSendChannels)
		case sendStartChannelParamID:
			s.startChannel = clampInt32(value, 0, maxSendChannels)
		case sendDestChannelParamID:
			s.destChannel = clampInt32(value, 0, maxSendChannels)
		}
	case rtevent.StringPropertyChange:
		id, str := ev.StringPropertyData()
		if id == sendDestinationPropertyID {
			s.destinationName = *str
		}
	}
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Send) ParameterValueInDomain(id uint32) (float64, bool) {
	switch id {
	case sendGainParamID:
		return s.gainDB, true
	case sendChannelCountParamID:
		return float64(s.channelCount), true
	case sendStartChannelParamID:
		return float64(s.startChannel), true
	case sendDestChannelParamID:
		return float64(s.destChannel), true
	default:
		return 0, false
	}
}

func (s *Send) ParameterValue(id uint32) (float64, bool) {
	if id == sendGainParamID {
		return (s.gainDB + 120) / 144, true
	}
	v, ok := s.ParameterValueInDomain(id)
	if !ok {
		return 0, false
	}
	return v / maxSendChannels, true
}

func (s *Send) ParameterValueFormatted(id uint32) (string, bool) {
	if id == sendGainParamID {
		return formatDB(s.gainDB), true
	}
	return "", false
}

func (s *Send) PropertyValue(id uint32) (string, bool) {
	if id != sendDestinationPropertyID {
		return "", false
	}
	if s.destinationName == "" {
		return "No destination", true
	}
	return s.destinationName, true
}
