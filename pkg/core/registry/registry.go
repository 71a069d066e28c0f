// Package registry implements ProcessorContainer: the three lookup maps
// (by-name, by-id, by-track) the non-RT side uses to locate processors
// (§4.i). All three maps share one sync.RWMutex, so a writer to any map
// blocks readers of every map.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sushi-audio/sushi-go/pkg/core/processor"
)

// Container owns every live processor and its track membership. All
// mutation happens from the non-RT thread; reads return value copies so
// callers never observe a map mutated out from under them.
type Container struct {
	mu sync.RWMutex

	byName map[string]processor.Processor
	byID   map[uint32]processor.Processor
	byTrack map[uint32][]processor.Processor
}

// New creates an empty Container.
func New() *Container {
	return &Container{
		byName:  make(map[string]processor.Processor),
		byID:    make(map[uint32]processor.Processor),
		byTrack: make(map[uint32][]processor.Processor),
	}
}

// AddProcessor registers p globally. Rejects a duplicate name.
func (c *Container) AddProcessor(p processor.Processor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byName[p.Name()]; exists {
		return fmt.Errorf("registry: processor name %q already registered", p.Name())
	}
	c.byName[p.Name()] = p
	c.byID[p.ID()] = p
	return nil
}

// RemoveProcessor drops p from the by-name/by-id maps and every track
// mirror vector it appears in.
func (c *Container) RemoveProcessor(id uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.byID[id]
	if !ok {
		return false
	}
	delete(c.byID, id)
	delete(c.byName, p.Name())
	for trackID, procs := range c.byTrack {
		for i, existing := range procs {
			if existing.ID() == id {
				c.byTrack[trackID] = append(procs[:i], procs[i+1:]...)
				break
			}
		}
	}
	return true
}

// AddToTrack inserts proc into trackID's ordered mirror vector, before
// beforeID if given, else appended.
func (c *Container) AddToTrack(procID, trackID uint32, beforeID uint32, hasBefore bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.byID[procID]
	if !ok {
		return false
	}
	procs := c.byTrack[trackID]
	if hasBefore {
		for i, existing := range procs {
			if existing.ID() == beforeID {
				procs = append(procs, nil)
				copy(procs[i+1:], procs[i:])
				procs[i] = p
				c.byTrack[trackID] = procs
				return true
			}
		}
	}
	c.byTrack[trackID] = append(procs, p)
	return true
}

// RemoveFromTrack removes procID from trackID's mirror vector. O(chain
// length), matching the original's linear scan-and-erase.
func (c *Container) RemoveFromTrack(procID, trackID uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	procs := c.byTrack[trackID]
	for i, existing := range procs {
		if existing.ID() == procID {
			c.byTrack[trackID] = append(procs[:i], procs[i+1:]...)
			return true
		}
	}
	return false
}

// ByID looks up a processor by id.
func (c *Container) ByID(id uint32) (processor.Processor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// ByName looks up a processor by name.
func (c *Container) ByName(name string) (processor.Processor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byName[name]
	return p, ok
}

// ProcessorsOnTrack returns a value-copied snapshot of trackID's chain,
// decoupled from subsequent mutation.
func (c *Container) ProcessorsOnTrack(trackID uint32) []processor.Processor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	procs := c.byTrack[trackID]
	out := make([]processor.Processor, len(procs))
	copy(out, procs)
	return out
}

// AllTracks returns every track id with at least one registered mirror
// vector, sorted ascending so creation order is preserved.
func (c *Container) AllTracks() []uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]uint32, 0, len(c.byTrack))
	for id := range c.byTrack {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
