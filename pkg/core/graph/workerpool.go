package graph

import "sync"

// workerPool runs one long-lived goroutine per core slot, parked on a
// per-worker wake channel between chunks. wakeupAndWait wakes every worker,
// each renders its own slot, then the caller blocks on a completion
// WaitGroup — the Go equivalent of twine::WorkerPool's wakeup_and_wait
// barrier, with goroutines standing in for the original's real-time-
// priority OS threads.
type workerPool struct {
	// slots is the same backing array as the owning AudioGraph's slots
	// field: Add/AddToCore mutate it in place (append within the reserved
	// capacity never reallocates), so workers always observe the current
	// membership without needing to be restarted.
	slots [][]Renderer
	wake  []chan struct{}
	done  sync.WaitGroup
	quit  chan struct{}
}

func newWorkerPool(slots [][]Renderer) *workerPool {
	p := &workerPool{
		slots: slots,
		wake:  make([]chan struct{}, len(slots)),
		quit:  make(chan struct{}),
	}
	for i := range slots {
		p.wake[i] = make(chan struct{}, 1)
		go p.runWorker(i)
	}
	return p
}

func (p *workerPool) runWorker(idx int) {
	for {
		select {
		case <-p.wake[idx]:
			for _, t := range p.slots[idx] {
				t.Render()
			}
			p.done.Done()
		case <-p.quit:
			return
		}
	}
}

// wakeupAndWait wakes every worker for one chunk and blocks until all have
// finished rendering their slot.
func (p *workerPool) wakeupAndWait() {
	p.done.Add(len(p.wake))
	for _, w := range p.wake {
		w <- struct{}{}
	}
	p.done.Wait()
}

// stop terminates every worker goroutine. Not part of the per-chunk RT
// path; used only for clean shutdown/tests.
func (p *workerPool) stop() {
	close(p.quit)
}
