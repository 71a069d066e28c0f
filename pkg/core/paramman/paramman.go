// Package paramman implements ParameterManager: rate-limited coalescing of
// parameter-change notifications bound for the non-RT side (§4.j), grounded
// on original_source/src/engine/parameter_manager.cpp. Only ever touched
// from the event-loop/dispatcher goroutine, so no internal locking.
package paramman

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/sushi-audio/sushi-go/pkg/core/event"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
)

// ProcessorLookup resolves a processor by id, the narrow slice of
// registry.Container that ParameterManager needs.
type ProcessorLookup interface {
	ByID(id uint32) (processor.Processor, bool)
}

// Dispatcher accepts outbound non-RT events. Implemented by the engine's
// event dispatcher.
type Dispatcher interface {
	Dispatch(event.Event)
}

type parameterEntry struct {
	value float64

	// limiter replaces the original's hand-rolled "last_update + update_rate
	// <= timestamp" arithmetic with a one-token bucket: at most one
	// notification admitted per update-rate interval.
	limiter *rate.Limiter

	// lastSentAt records the timestamp a notification last actually went
	// out for this parameter, so a queue entry processed in the same round
	// it was already satisfied by isn't needlessly requeued.
	lastSentAt time.Duration
	everSentAt bool
}

type parameterUpdate struct {
	processorID uint32
	parameterID uint32
	updateTime  time.Duration
}

type processorUpdate struct {
	processorID uint32
	updateTime  time.Duration
}

// Manager tracks a set of processors' parameters and coalesces a stream of
// mark-changed calls into rate-limited notification events.
type Manager struct {
	processors ProcessorLookup
	updateRate time.Duration

	// parameters[processorID][parameterID] holds the last-notified value
	// and rate gate for that tracked parameter.
	parameters map[uint32]map[uint32]*parameterEntry

	parameterQueue []parameterUpdate
	processorQueue []processorUpdate
}

// New constructs a Manager. updateRate is the minimum time between two
// consecutive notifications for the same parameter.
func New(updateRate time.Duration, processors ProcessorLookup) *Manager {
	return &Manager{
		processors: processors,
		updateRate: updateRate,
		parameters: make(map[uint32]map[uint32]*parameterEntry),
	}
}

// TrackParameters registers processorID's parameters (parameterIDs, as
// enumerated by the caller at registration time) for notification tracking,
// seeding each with its current value.
func (m *Manager) TrackParameters(processorID uint32, parameterIDs []uint32) {
	p, ok := m.processors.ByID(processorID)
	if !ok {
		return
	}
	entries := make(map[uint32]*parameterEntry, len(parameterIDs))
	for _, id := range parameterIDs {
		value, _ := p.ParameterValue(id)
		entries[id] = &parameterEntry{
			value:   value,
			limiter: rate.NewLimiter(rate.Every(m.updateRate), 1),
		}
	}
	m.parameters[processorID] = entries
}

// UntrackParameters drops every tracked parameter of processorID.
func (m *Manager) UntrackParameters(processorID uint32) {
	delete(m.parameters, processorID)
}

// MarkParameterChanged queues a value-update check for one parameter, to be
// resolved the next time OutputParameterNotifications runs with a target
// time at or past timestamp. timestamp may be in the future.
func (m *Manager) MarkParameterChanged(processorID, parameterID uint32, timestamp time.Duration) {
	m.parameterQueue = append(m.parameterQueue, parameterUpdate{processorID, parameterID, timestamp})
}

// MarkProcessorChanged queues a "notify every tracked parameter of this
// processor" check, ignoring each parameter's individual rate gate.
// Re-marking the same processor before it's been output just bumps its
// timestamp rather than queuing a duplicate entry.
func (m *Manager) MarkProcessorChanged(processorID uint32, timestamp time.Duration) {
	for i := range m.processorQueue {
		if m.processorQueue[i].processorID == processorID {
			m.processorQueue[i].updateTime = timestamp
			return
		}
	}
	m.processorQueue = append(m.processorQueue, processorUpdate{processorID, timestamp})
}

// OutputParameterNotifications dispatches a ParameterChangeNotificationEvent
// for every queued change whose update time is at or before targetTime and
// whose rate gate admits it, dropping duplicates and requeuing entries that
// aren't ready yet.
func (m *Manager) OutputParameterNotifications(dispatcher Dispatcher, targetTime time.Duration) {
	m.outputProcessorNotifications(dispatcher, targetTime)
	m.outputParameterNotifications(dispatcher, targetTime)
}

func (m *Manager) outputParameterNotifications(dispatcher Dispatcher, timestamp time.Duration) {
	survivors := m.parameterQueue[:0]
	now := toRateTime(timestamp)

	for _, u := range m.parameterQueue {
		procEntries, tracked := m.parameters[u.processorID]
		if !tracked {
			continue
		}
		entry, ok := procEntries[u.parameterID]
		if !ok {
			continue
		}

		ready := u.updateTime <= timestamp && entry.limiter.AllowN(now, 1)
		if ready {
			if p, ok := m.processors.ByID(u.processorID); ok {
				value, _ := p.ParameterValue(u.parameterID)
				if value != entry.value {
					domain, _ := p.ParameterValueInDomain(u.parameterID)
					formatted, _ := p.ParameterValueFormatted(u.parameterID)
					dispatcher.Dispatch(event.NewParameterChangeNotificationEvent(
						0, u.processorID, u.parameterID, value, domain, formatted))
					entry.value = value
					entry.lastSentAt = timestamp
					entry.everSentAt = true
				}
			}
			continue
		}

		// Not ready (either queued for the future, or the rate gate denied
		// it): keep it unless this parameter was already resolved this
		// round, matching the original's "don't requeue a duplicate".
		if !entry.everSentAt || entry.lastSentAt != timestamp {
			survivors = append(survivors, u)
		}
	}
	m.parameterQueue = survivors
}

func (m *Manager) outputProcessorNotifications(dispatcher Dispatcher, timestamp time.Duration) {
	survivors := m.processorQueue[:0]

	for _, u := range m.processorQueue {
		if u.updateTime > timestamp {
			survivors = append(survivors, u)
			continue
		}
		p, ok := m.processors.ByID(u.processorID)
		if !ok {
			continue
		}
		// Notifying every parameter of a processor ignores each
		// parameter's individual rate gate: a bulk refresh (e.g. after a
		// program change) must reach every listener regardless of how
		// recently a notification went out.
		for id, entry := range m.parameters[u.processorID] {
			value, _ := p.ParameterValue(id)
			if value != entry.value {
				domain, _ := p.ParameterValueInDomain(id)
				formatted, _ := p.ParameterValueFormatted(id)
				dispatcher.Dispatch(event.NewParameterChangeNotificationEvent(
					0, u.processorID, id, value, domain, formatted))
				entry.value = value
				entry.lastSentAt = timestamp
				entry.everSentAt = true
			}
		}
	}
	m.processorQueue = survivors
}

// toRateTime maps an engine-relative duration onto a concrete time.Time so
// it can be passed to rate.Limiter.AllowN, which requires one — the
// transport's logical clock, not wall time, drives the gate.
func toRateTime(d time.Duration) time.Time {
	return time.Unix(0, 0).Add(d)
}
