package fifo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOPushPopOrder(t *testing.T) {
	q := New[int](4)
	for i := 0; i < 4; i++ {
		require.True(t, q.Push(i))
	}
	assert.False(t, q.Push(99), "capacity+1 push must fail")

	for i := 0; i < 4; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestFIFOEmptyAndSize(t *testing.T) {
	q := New[int](8)
	assert.True(t, q.Empty())
	q.Push(1)
	q.Push(2)
	assert.Equal(t, 2, q.Size())
	assert.False(t, q.Empty())
}

func TestFIFOConcurrentProducerConsumer(t *testing.T) {
	q := New[int](1024)
	const n = 100000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !q.Push(i) {
			}
		}
	}()

	received := make([]int, 0, n)
	for len(received) < n {
		if v, ok := q.Pop(); ok {
			received = append(received, v)
		}
	}
	wg.Wait()

	for i, v := range received {
		require.Equal(t, i, v)
	}
}

func TestSpinlockFIFOMultiProducer(t *testing.T) {
	q := NewSpinlockFIFO[int](32768)
	const producers = 4
	const perProducer = 5000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				for !q.Push(i) {
				}
			}
		}()
	}
	wg.Wait()

	count := 0
	for {
		if _, ok := q.Pop(); ok {
			count++
		} else {
			break
		}
	}
	assert.Equal(t, producers*perProducer, count)
}

func TestContiguousReadFIFOOverwritesOnOverflow(t *testing.T) {
	q := NewContiguousReadFIFO[int](3)
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	assert.Equal(t, []int{2, 3, 4}, q.Flush())
	assert.Nil(t, q.Flush(), "flush empties the queue")
}
