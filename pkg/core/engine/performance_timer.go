package engine

import (
	"math"
	"sync"
	"time"

	"github.com/sushi-audio/sushi-go/pkg/core/fifo"
)

// evaluationInterval is how often the background worker folds queued
// samples into each node's running timings.
const evaluationInterval = 1 * time.Second

// averagingFactor is the exponential-moving-average weight given to each
// new batch of samples when merging into a node's running average.
const averagingFactor = 0.5

// maxLogEntries bounds the lock-free queue feeding the background worker;
// once full, new samples are dropped rather than blocking the RT caller.
const maxLogEntries = 20000

// ProcessTimings summarises a timing node's process-time-as-a-fraction-of-
// chunk-budget distribution.
type ProcessTimings struct {
	AvgCase float64
	MinCase float64
	MaxCase float64
}

type timingLogPoint struct {
	id    int
	delta time.Duration
}

// PerformanceTimer samples process_audio/process_chunk wall-clock duration
// into a lock-free ring, drained once per second by a background goroutine
// into per-node avg/min/max fractions of the chunk budget (ported from
// original_source/src/library/performance_timer.cpp).
type PerformanceTimer struct {
	period float64 // nanoseconds per chunk

	enabledFlag bool
	stopCh      chan struct{}
	wg          sync.WaitGroup

	queue *fifo.SpinlockFIFO[timingLogPoint]

	mu      sync.Mutex
	timings map[int]ProcessTimings
}

// NewPerformanceTimer creates a disabled timer; call Enable(true) to start
// the background evaluation goroutine.
func NewPerformanceTimer() *PerformanceTimer {
	return &PerformanceTimer{
		queue:   fifo.NewSpinlockFIFO[timingLogPoint](maxLogEntries),
		timings: make(map[int]ProcessTimings),
	}
}

// SetTimingPeriod derives the nanosecond chunk budget from sample rate and
// chunk size.
func (t *PerformanceTimer) SetTimingPeriod(sampleRate float64, chunkSize int) {
	t.period = float64(chunkSize) / sampleRate * 1e9
}

// StartTimer returns the current time if enabled, or the zero time
// otherwise - callers pass the result straight to StopTimer.
func (t *PerformanceTimer) StartTimer() time.Time {
	if t.enabledFlag {
		return time.Now()
	}
	return time.Time{}
}

// StopTimer records the elapsed time since start for nodeID. Safe to call
// concurrently from several threads (the worker-pool render path).
func (t *PerformanceTimer) StopTimer(start time.Time, nodeID int) {
	if !t.enabledFlag {
		return
	}
	t.queue.Push(timingLogPoint{id: nodeID, delta: time.Since(start)})
}

// Enable starts or stops the background evaluation goroutine. Disabling
// runs one last evaluation pass to flush any queued samples.
func (t *PerformanceTimer) Enable(enabled bool) {
	if enabled && !t.enabledFlag {
		t.enabledFlag = true
		t.stopCh = make(chan struct{})
		t.wg.Add(1)
		go t.worker()
	} else if !enabled && t.enabledFlag {
		t.enabledFlag = false
		close(t.stopCh)
		t.wg.Wait()
		t.updateTimings()
	}
}

// Enabled reports whether timing collection is currently active.
func (t *PerformanceTimer) Enabled() bool { return t.enabledFlag }

// TimingsForNode returns the accumulated timings for id, if any.
func (t *PerformanceTimer) TimingsForNode(id int) (ProcessTimings, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pt, ok := t.timings[id]
	return pt, ok
}

// ClearTimingsForNode resets id's accumulated timings. Returns false if the
// node has no recorded timings.
func (t *PerformanceTimer) ClearTimingsForNode(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.timings[id]; !ok {
		return false
	}
	t.timings[id] = ProcessTimings{}
	return true
}

// ClearAllTimings resets every node's accumulated timings.
func (t *PerformanceTimer) ClearAllTimings() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.timings {
		t.timings[id] = ProcessTimings{}
	}
}

func (t *PerformanceTimer) worker() {
	defer t.wg.Done()
	ticker := time.NewTicker(evaluationInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.updateTimings()
		}
	}
}

func (t *PerformanceTimer) updateTimings() {
	sortedData := make(map[int][]timingLogPoint)
	for {
		lp, ok := t.queue.Pop()
		if !ok {
			break
		}
		sortedData[lp.id] = append(sortedData[lp.id], lp)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for id, entries := range sortedData {
		newTimings := t.calculateTimings(entries)
		t.timings[id] = mergeTimings(t.timings[id], newTimings)
	}
}

func (t *PerformanceTimer) calculateTimings(entries []timingLogPoint) ProcessTimings {
	minValue := 100.0
	maxValue := 0.0
	sum := 0.0
	for _, e := range entries {
		fraction := float64(e.delta.Nanoseconds()) / t.period
		sum += fraction
		minValue = math.Min(minValue, fraction)
		maxValue = math.Max(maxValue, fraction)
	}
	return ProcessTimings{AvgCase: sum / float64(len(entries)), MinCase: minValue, MaxCase: maxValue}
}

func mergeTimings(prev, next ProcessTimings) ProcessTimings {
	if prev.AvgCase == 0.0 {
		prev.AvgCase = next.AvgCase
	} else {
		prev.AvgCase = (1.0-averagingFactor)*prev.AvgCase + averagingFactor*next.AvgCase
	}
	prev.MinCase = math.Min(prev.MinCase, next.MinCase)
	prev.MaxCase = math.Max(prev.MaxCase, next.MaxCase)
	return prev
}
