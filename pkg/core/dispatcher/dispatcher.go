// Package dispatcher drains the engine's non-RT output queues and runs
// whatever a Track or plugin pushed onto them off the audio thread: AsyncWork
// closures, bubbled keyboard events, parameter-change notifications, and
// audio-graph/clip/timing notifications. Grounded on
// original_source/src/library/event.h's "friend class EventDispatcher" and
// the shape exercised by test/unittests/test_utils/mock_event_dispatcher.h
// (run/stop lifecycle, post_event, subscribe_to_keyboard_events/
// subscribe_to_parameter_change_notifications/subscribe_to_engine_
// notifications) — the full EventDispatcher implementation itself wasn't
// part of the filtered original_source tree, so this package is built from
// that interface shape rather than a line-for-line port.
package dispatcher

import (
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/sushi-audio/sushi-go/pkg/core/enginelog"
	"github.com/sushi-audio/sushi-go/pkg/core/event"
	"github.com/sushi-audio/sushi-go/pkg/core/fifo"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

// KeyboardListener receives a keyboard event bubbled past the last processor
// on some track.
type KeyboardListener func(*event.KeyboardEvent)

// ParameterListener receives a rate-limited parameter-change notification,
// whether it came from paramman's direct Dispatch call or round-tripped
// through an RtEvent.
type ParameterListener func(*event.ParameterChangeNotificationEvent)

// EngineListener receives any other non-RT notification: audio-graph
// mutation acknowledgements, clip notifications, and per-chunk timing.
type EngineListener func(event.Event)

// Dispatcher is the non-RT side of the engine's event boundary (§4.k step
// 10's mainOutQueue drain, and the analogous controlQueueOut). It owns no
// RT-reachable state: every field below is only ever touched from Run's
// goroutine or from a Subscribe*/Dispatch call made by non-RT callers.
type Dispatcher struct {
	queues []*fifo.FIFO[rtevent.RtEvent]
	log    *enginelog.Logger

	mu                 sync.Mutex
	keyboardListeners  []KeyboardListener
	parameterListeners []ParameterListener
	engineListeners    []EngineListener
	correlations       map[uint64]uuid.UUID

	sentryEnabled bool

	stop chan struct{}
	wg   sync.WaitGroup
}

// New builds a Dispatcher draining every given RtEvent queue (typically the
// engine's ControlQueueOut and MainOutQueue) once Run is called.
func New(log *enginelog.Logger, queues ...*fifo.FIFO[rtevent.RtEvent]) *Dispatcher {
	if log == nil {
		log = enginelog.Default()
	}
	return &Dispatcher{
		queues:       queues,
		log:          log,
		correlations: make(map[uint64]uuid.UUID),
	}
}

// EnableSentry wires error reporting to a Sentry project, the way
// Conceptual-Machines-magda-api wires getsentry/sentry-go into its
// middleware: initialized once, non-blocking from the caller's perspective,
// and only ever invoked from this package's own goroutine, never from the
// audio thread.
func (d *Dispatcher) EnableSentry(dsn string) error {
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		return err
	}
	d.sentryEnabled = true
	return nil
}

func (d *Dispatcher) SubscribeToKeyboardEvents(l KeyboardListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keyboardListeners = append(d.keyboardListeners, l)
}

func (d *Dispatcher) SubscribeToParameterChangeNotifications(l ParameterListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.parameterListeners = append(d.parameterListeners, l)
}

func (d *Dispatcher) SubscribeToEngineNotifications(l EngineListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engineListeners = append(d.engineListeners, l)
}

// Dispatch implements paramman.Dispatcher: parameter/processor-change
// notifications minted by paramman.Manager never round-trip through an
// RtEvent (they're already non-RT), so they're fanned out to subscribers
// directly instead of being queued.
func (d *Dispatcher) Dispatch(ev event.Event) {
	if pe, ok := ev.(*event.ParameterChangeNotificationEvent); ok {
		d.mu.Lock()
		listeners := append([]ParameterListener(nil), d.parameterListeners...)
		d.mu.Unlock()
		for _, l := range listeners {
			l(pe)
		}
		return
	}
	d.mu.Lock()
	listeners := append([]EngineListener(nil), d.engineListeners...)
	d.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
}

// PostEvent mints a uuid.UUID correlation handle for an outgoing non-RT
// Event and pushes its RtEvent form onto in (typically the engine's
// ControlQueueIn). The mapping from the RtEvent's compact uint64 EventID to
// this handle is what lets a caller later resolve the RT-side acknowledgement
// back to the request it made, without growing RtEvent's own id past a
// uint64 (§4.c's cache-line budget).
func (d *Dispatcher) PostEvent(ev event.Event, in *fifo.FIFO[rtevent.RtEvent], sampleOffset int32) uuid.UUID {
	id := uuid.New()
	d.mu.Lock()
	d.correlations[ev.EventID()] = id
	d.mu.Unlock()
	rt := ev.ToRtEvent(sampleOffset)
	rt.EventID = ev.EventID()
	in.Push(rt)
	return id
}

// Correlation resolves a previously minted uuid for an RtEvent's EventID, if
// one was registered through PostEvent.
func (d *Dispatcher) Correlation(rtEventID uint64) (uuid.UUID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.correlations[rtEventID]
	return id, ok
}

// Run starts the drain loop, polling every queue at pollInterval until Stop
// is called.
func (d *Dispatcher) Run(pollInterval time.Duration) {
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-d.stop:
				d.drainOnce()
				return
			case <-ticker.C:
				d.drainOnce()
			}
		}
	}()
}

// Stop halts the drain loop after one final drain pass.
func (d *Dispatcher) Stop() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	d.wg.Wait()
}

func (d *Dispatcher) drainOnce() {
	for _, q := range d.queues {
		for {
			rt, ok := q.Pop()
			if !ok {
				break
			}
			d.process(rt)
		}
	}
}

func (d *Dispatcher) process(rt rtevent.RtEvent) {
	if rt.Tag == rtevent.AsyncWork {
		work := rt.AsyncWorkData()
		if err := work.Fn(work.Arg); err != nil {
			d.reportError("async work failed", err)
		}
		return
	}

	d.mu.Lock()
	delete(d.correlations, rt.EventID)
	d.mu.Unlock()

	ev := event.FromRtEvent(rt, time.Now().UnixNano())
	switch e := ev.(type) {
	case *event.KeyboardEvent:
		d.mu.Lock()
		listeners := append([]KeyboardListener(nil), d.keyboardListeners...)
		d.mu.Unlock()
		for _, l := range listeners {
			l(e)
		}
	default:
		d.mu.Lock()
		listeners := append([]EngineListener(nil), d.engineListeners...)
		d.mu.Unlock()
		for _, l := range listeners {
			l(ev)
		}
	}
}

func (d *Dispatcher) reportError(context string, err error) {
	d.log.Error(context, "err", err)
	if d.sentryEnabled {
		sentry.CaptureException(err)
	}
}
