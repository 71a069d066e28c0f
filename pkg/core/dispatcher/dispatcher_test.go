package dispatcher

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushi-audio/sushi-go/pkg/core/enginelog"
	"github.com/sushi-audio/sushi-go/pkg/core/event"
	"github.com/sushi-audio/sushi-go/pkg/core/fifo"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

func newTestDispatcher() (*Dispatcher, *fifo.FIFO[rtevent.RtEvent]) {
	var buf bytes.Buffer
	log := enginelog.New(&buf, "test")
	q := fifo.New[rtevent.RtEvent](16)
	return New(log, q), q
}

func TestDispatcherRunsQueuedAsyncWork(t *testing.T) {
	d, q := newTestDispatcher()
	done := make(chan struct{})
	q.Push(rtevent.NewAsyncWork(1, 1, func(arg any) error {
		close(done)
		return nil
	}, nil))

	d.Run(5 * time.Millisecond)
	defer d.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async work never ran")
	}
}

func TestDispatcherReportsAsyncWorkErrorsThroughLog(t *testing.T) {
	var buf bytes.Buffer
	log := enginelog.New(&buf, "")
	q := fifo.New[rtevent.RtEvent](16)
	d := New(log, q)

	q.Push(rtevent.NewAsyncWork(1, 1, func(arg any) error {
		return errors.New("disk full")
	}, nil))

	d.Run(5 * time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	d.Stop()

	assert.Contains(t, buf.String(), "async work failed")
}

func TestDispatcherFansOutKeyboardEvents(t *testing.T) {
	d, q := newTestDispatcher()
	received := make(chan *event.KeyboardEvent, 1)
	d.SubscribeToKeyboardEvents(func(e *event.KeyboardEvent) {
		received <- e
	})

	q.Push(rtevent.NewNoteOn(3, 0, 0, 60, 1.0))
	d.Run(5 * time.Millisecond)
	defer d.Stop()

	select {
	case e := <-received:
		assert.Equal(t, uint8(60), e.Note)
	case <-time.After(time.Second):
		t.Fatal("keyboard event never delivered")
	}
}

func TestDispatcherDispatchRoutesParameterNotificationsDirectly(t *testing.T) {
	d, _ := newTestDispatcher()
	received := make(chan *event.ParameterChangeNotificationEvent, 1)
	d.SubscribeToParameterChangeNotifications(func(e *event.ParameterChangeNotificationEvent) {
		received <- e
	})

	d.Dispatch(event.NewParameterChangeNotificationEvent(0, 5, 2, 0.5, 12.0, "12.0 dB"))

	select {
	case e := <-received:
		assert.Equal(t, uint32(2), e.ParameterID)
	default:
		t.Fatal("parameter notification not delivered synchronously")
	}
}

func TestPostEventMintsCorrelationID(t *testing.T) {
	d, _ := newTestDispatcher()
	q := fifo.New[rtevent.RtEvent](4)
	ev := event.NewAddTrackEvent(0, 7, 42)

	id := d.PostEvent(ev, q, 0)
	require.NotEqual(t, id.String(), "")

	got, ok := d.Correlation(42)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	posted, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, rtevent.AddTrack, posted.Tag)
}
