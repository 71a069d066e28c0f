// Package graph implements AudioGraph: the multicore Track scheduler that
// renders every Track slot either sequentially on the calling audio thread
// (single core) or in parallel across a fixed pool of RT worker goroutines
// woken once per chunk (§4.h). The core-slot layout and single-core/
// multi-core render split are carried over from
// original_source/src/engine/audio_graph.cpp's AudioGraph::render and
// external_render_callback.
package graph

// Renderer is satisfied by *track.Track; kept as a narrow interface so
// tests can exercise scheduling without a full Track.
type Renderer interface {
	Render()
}

// AudioGraph owns cpuCores reserved-capacity slots of Tracks and schedules
// their per-chunk render.
type AudioGraph struct {
	cores       int
	maxPerCore  int
	slots       [][]Renderer
	currentCore int

	pool *workerPool
}

// New constructs an AudioGraph. cpuCores must be >= 1. maxTracksPerCore
// bounds each slot's reserved capacity so add/remove never allocates on the
// RT path.
func New(cpuCores, maxTracksPerCore int) *AudioGraph {
	if cpuCores < 1 {
		cpuCores = 1
	}
	g := &AudioGraph{cores: cpuCores, maxPerCore: maxTracksPerCore}
	g.slots = make([][]Renderer, cpuCores)
	for i := range g.slots {
		g.slots[i] = make([]Renderer, 0, maxTracksPerCore)
	}
	if cpuCores > 1 {
		g.pool = newWorkerPool(g.slots)
	}
	return g
}

// Add assigns t round-robin to the next core slot. Returns false if that
// slot is at capacity.
func (g *AudioGraph) Add(t Renderer) bool {
	slot := g.slots[g.currentCore]
	if len(slot) >= cap(slot) {
		return false
	}
	g.slots[g.currentCore] = append(slot, t)
	g.currentCore = (g.currentCore + 1) % g.cores
	return true
}

// AddToCore pins t to a specific core slot. Returns false if that slot is
// at capacity or core is out of range.
func (g *AudioGraph) AddToCore(t Renderer, core int) bool {
	if core < 0 || core >= g.cores {
		return false
	}
	slot := g.slots[core]
	if len(slot) >= cap(slot) {
		return false
	}
	g.slots[core] = append(slot, t)
	return true
}

// Remove scans every slot and erases the first matching Track. Returns
// false if not found.
func (g *AudioGraph) Remove(t Renderer) bool {
	for i, slot := range g.slots {
		for j, existing := range slot {
			if existing == t {
				g.slots[i] = append(slot[:j], slot[j+1:]...)
				return true
			}
		}
	}
	return false
}

// Render runs every Track's render for this chunk: sequentially on the
// calling thread for a single core, or via the worker-pool wake/wait
// barrier for multiple cores.
func (g *AudioGraph) Render() {
	if g.cores == 1 {
		for _, t := range g.slots[0] {
			t.Render()
		}
		return
	}
	g.pool.wakeupAndWait()
}

// Cores reports the configured core count.
func (g *AudioGraph) Cores() int { return g.cores }

// Slot returns a read-only view of the Tracks assigned to a core, for
// diagnostics and tests.
func (g *AudioGraph) Slot(core int) []Renderer { return g.slots[core] }
