// Command sushihost is the external demo composition wiring the engine's
// audio-callback interface to a real device (portaudio) and a CLI
// (pflag) — glue that lives outside the core's scope (§6), grounded on
// the blocking-stream pattern used by the pack's portaudio consumers
// (a fixed-size []float32 buffer handed to OpenStream, Start, then a loop
// of Write calls) rather than portaudio's callback-driven variant, since
// the engine already produces audio one fixed ChunkSize-sample block at a
// time and a blocking Write fits that shape directly.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/constants"
	"github.com/sushi-audio/sushi-go/pkg/core/dispatcher"
	"github.com/sushi-audio/sushi-go/pkg/core/engine"
	"github.com/sushi-audio/sushi-go/pkg/core/event"
	"github.com/sushi-audio/sushi-go/pkg/core/enginelog"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
	"github.com/sushi-audio/sushi-go/pkg/core/track"
	"github.com/sushi-audio/sushi-go/pkg/framework/debug"
	"github.com/sushi-audio/sushi-go/pkg/plugins"
)

const (
	trackID  uint32 = 1
	synthID  uint32 = 2
	gainID   uint32 = 3
	wavID    uint32 = 4
)

func main() {
	sampleRate := pflag.Float64P("sample-rate", "r", 48000, "audio device sample rate")
	channels := pflag.IntP("channels", "c", 2, "number of output channels")
	outputDevice := pflag.IntP("output-device", "o", -1, "portaudio output device index (-1 = system default)")
	cores := pflag.IntP("cores", "j", 1, "number of RT worker cores for the track graph")
	gainDB := pflag.Float64P("gain", "g", -6, "demo gain stage level in dB")
	note := pflag.Uint8P("note", "n", 60, "MIDI note the demo synth plays on startup")
	record := pflag.StringP("record", "", "", "if set, also record the output to this WAV path")
	sentryDSN := pflag.String("sentry-dsn", "", "if set, forward async-work errors to this Sentry DSN")
	profile := pflag.Bool("profile", false, "profile the host loop and print a report on shutdown")
	checkAudio := pflag.Bool("debug-audio", false, "run NaN/clipping/silence checks on every output chunk")
	help := pflag.BoolP("help", "h", false, "display help text")
	pflag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "sushihost: headless audio-host demo binary")
		pflag.PrintDefaults()
		return
	}

	log := enginelog.Default()

	if err := portaudio.Initialize(); err != nil {
		log.Error("portaudio init failed", "err", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	outDev, err := resolveOutputDevice(*outputDevice)
	if err != nil {
		log.Error("no usable output device", "err", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Config{
		SampleRate:        *sampleRate,
		NumInputChannels:  0,
		NumOutputChannels: *channels,
		RTCPUCores:        *cores,
		MaxTracksPerCore:  4,
	})

	t := track.New(trackID, "main", *channels, true)
	eng.RegisterTrack(t)

	synth := plugins.NewSimpleSynth(synthID, *channels)
	synth.Init(*sampleRate)
	gain := plugins.NewGain(gainID, *channels)
	gain.Init(*sampleRate)
	eng.RegisterProcessor(synth)
	eng.RegisterProcessor(gain)

	eng.ControlQueueIn().Push(rtevent.NewInsertProcessor(synthID))
	eng.ControlQueueIn().Push(rtevent.NewInsertProcessor(gainID))
	eng.ControlQueueIn().Push(rtevent.NewAddProcessorToTrack(synthID, trackID))
	eng.ControlQueueIn().Push(rtevent.NewAddProcessorToTrack(gainID, trackID))

	if *record != "" {
		wav := plugins.NewWavWriter(wavID, *channels)
		wav.Init(*sampleRate)
		eng.RegisterProcessor(wav)
		eng.ControlQueueIn().Push(rtevent.NewInsertProcessor(wavID))
		eng.ControlQueueIn().Push(rtevent.NewAddProcessorToTrack(wavID, trackID))
		dest := *record
		eng.MainInQueue().Push(rtevent.NewStringPropertyChange(wavID, 0, &dest))
		eng.MainInQueue().Push(rtevent.NewBoolParameterChange(wavID, 0, 0, true))
	}

	eng.ControlQueueIn().Push(rtevent.NewAddTrack(trackID))

	for ch := 0; ch < *channels; ch++ {
		eng.AddOutputConnection(engine.AudioConnection{
			EngineChannel: int32(ch),
			TrackChannel:  int32(ch),
			TrackID:       trackID,
		})
	}

	eng.MainInQueue().Push(rtevent.NewFloatParameterChange(gainID, 0, 0, *gainDB))
	eng.MainInQueue().Push(rtevent.NewNoteOn(synthID, 0, 0, *note, 0.9))

	disp := dispatcher.New(log, eng.ControlQueueOut(), eng.MainOutQueue())
	if *sentryDSN != "" {
		if err := disp.EnableSentry(*sentryDSN); err != nil {
			log.Error("sentry init failed", "err", err)
		}
	}
	disp.SubscribeToEngineNotifications(func(ev event.Event) {
		log.Debug("engine notification", "event_id", ev.EventID())
	})
	disp.Run(10 * time.Millisecond)
	defer disp.Stop()

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   outDev,
			Channels: *channels,
			Latency:  outDev.DefaultLowOutputLatency,
		},
		SampleRate:      *sampleRate,
		FramesPerBuffer: constants.ChunkSize,
	}

	interleaved := make([]float32, constants.ChunkSize*(*channels))
	stream, err := portaudio.OpenStream(params, interleaved)
	if err != nil {
		log.Error("failed to open output stream", "err", err)
		os.Exit(1)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		log.Error("failed to start output stream", "err", err)
		os.Exit(1)
	}
	defer stream.Stop()

	log.Info("sushihost running", "device", outDev.Name, "sample_rate", *sampleRate, "channels", *channels)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	hostProfiler := debug.NewAudioProcessProfiler(*sampleRate, constants.ChunkSize)
	hostProfiler.SetEnabled(*profile)
	if *profile {
		defer func() { log.Info("host loop profile\n" + hostProfiler.AudioReport()) }()
	}

	in := buffer.New(0)
	out := buffer.New(*channels)
	var cvIn, cvOut []float32
	var sampleCount int64

	for {
		select {
		case <-sigCh:
			log.Info("shutting down")
			return
		default:
		}

		hostProfiler.Time("ProcessAudio", func() {
			eng.ProcessChunk(in, out, cvIn, cvOut, 0, sampleCount)
		})
		hostProfiler.UpdateCPULoad()
		out.ToInterleaved(interleaved)
		if *checkAudio {
			debug.CheckAudioBuffer(interleaved, "output")
		}
		if err := stream.Write(); err != nil {
			log.Error("stream write failed", "err", err)
			return
		}
		sampleCount += constants.ChunkSize
	}
}

func resolveOutputDevice(index int) (*portaudio.DeviceInfo, error) {
	if index < 0 {
		return portaudio.DefaultOutputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if index >= len(devices) {
		return nil, fmt.Errorf("output device index %d out of range (found %d devices)", index, len(devices))
	}
	return devices[index], nil
}
