package fifo

import "sync/atomic"

// SpinLock is a test-and-test-and-set spinlock, safe for the rare case of
// several producer threads sending parameter changes into one FIFO (§4.a).
// Relaxed spin, acquire/release on acquisition - grounded on the original
// engine's rt-safe spinlock (src/library/spinlock.h).
type SpinLock struct {
	flag atomic.Bool
}

// Lock spins until the lock is acquired.
func (s *SpinLock) Lock() {
	for s.flag.Load() {
		// Spin on a plain load first - fewer cache invalidations than
		// hammering the exchange.
	}
	for s.flag.Swap(true) {
	}
}

// Unlock releases the lock.
func (s *SpinLock) Unlock() {
	s.flag.Store(false)
}

// SpinlockFIFO wraps a FIFO's producer side with a SpinLock so multiple
// non-RT threads can push concurrently while a single RT thread consumes.
type SpinlockFIFO[T any] struct {
	inner FIFO[T]
	lock  SpinLock
}

// NewSpinlockFIFO creates a multi-producer / single-consumer FIFO.
func NewSpinlockFIFO[T any](capacity int) *SpinlockFIFO[T] {
	return &SpinlockFIFO[T]{inner: *New[T](capacity)}
}

// Push is safe to call concurrently from multiple producer threads.
func (q *SpinlockFIFO[T]) Push(v T) bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.inner.Push(v)
}

// Pop is only safe from the single consumer thread.
func (q *SpinlockFIFO[T]) Pop() (T, bool) {
	return q.inner.Pop()
}

// Empty reports whether the queue currently holds no elements.
func (q *SpinlockFIFO[T]) Empty() bool {
	return q.inner.Empty()
}
