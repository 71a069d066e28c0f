package graph

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingRenderer struct {
	count atomic.Int64
}

func (c *countingRenderer) Render() { c.count.Add(1) }

func TestSingleCoreRendersSequentially(t *testing.T) {
	g := New(1, 4)
	a := &countingRenderer{}
	b := &countingRenderer{}
	assert.True(t, g.Add(a))
	assert.True(t, g.Add(b))

	g.Render()
	assert.EqualValues(t, 1, a.count.Load())
	assert.EqualValues(t, 1, b.count.Load())
}

func TestAddRoundRobinsAcrossCores(t *testing.T) {
	g := New(2, 4)
	a := &countingRenderer{}
	b := &countingRenderer{}
	g.Add(a)
	g.Add(b)
	assert.Len(t, g.Slot(0), 1)
	assert.Len(t, g.Slot(1), 1)
}

func TestAddFailsAtCapacity(t *testing.T) {
	g := New(1, 1)
	assert.True(t, g.Add(&countingRenderer{}))
	assert.False(t, g.Add(&countingRenderer{}))
}

func TestRemoveErasesTrack(t *testing.T) {
	g := New(1, 4)
	a := &countingRenderer{}
	g.Add(a)
	assert.True(t, g.Remove(a))
	assert.False(t, g.Remove(a))
}

func TestMultiCoreRenderWakesAllWorkers(t *testing.T) {
	g := New(2, 4)
	a := &countingRenderer{}
	b := &countingRenderer{}
	g.AddToCore(a, 0)
	g.AddToCore(b, 1)

	for i := 0; i < 10; i++ {
		g.Render()
	}
	assert.EqualValues(t, 10, a.count.Load())
	assert.EqualValues(t, 10, b.count.Load())
}

func TestMultiCoreAddAfterConstructionIsObservedByWorkers(t *testing.T) {
	g := New(2, 4)
	a := &countingRenderer{}
	g.AddToCore(a, 1)

	g.Render()
	assert.EqualValues(t, 1, a.count.Load())

	b := &countingRenderer{}
	g.AddToCore(b, 1)
	g.Render()
	assert.EqualValues(t, 2, a.count.Load())
	assert.EqualValues(t, 1, b.count.Load())

	time.Sleep(time.Millisecond) // let any stray goroutine settle before test exit
}
