package paramman

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/event"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

type fakeProcessor struct {
	id     uint32
	values map[uint32]float64
}

func (f *fakeProcessor) ID() uint32                                    { return f.id }
func (f *fakeProcessor) Name() string                                  { return "fake" }
func (f *fakeProcessor) Init(float64) processor.InitStatus             { return processor.StatusOK }
func (f *fakeProcessor) Configure(float64)                             {}
func (f *fakeProcessor) SetInputChannels(n int) int                    { return n }
func (f *fakeProcessor) SetOutputChannels(n int) int                   { return n }
func (f *fakeProcessor) MaxInputChannels() int                         { return 2 }
func (f *fakeProcessor) MaxOutputChannels() int                        { return 2 }
func (f *fakeProcessor) ProcessAudio(in, out *buffer.SampleBuffer)     { out.Replace(in) }
func (f *fakeProcessor) ProcessEvent(rtevent.RtEvent)                  {}
func (f *fakeProcessor) SetBypassed(bool)                              {}
func (f *fakeProcessor) Bypassed() bool                                { return false }
func (f *fakeProcessor) SetEnabled(bool)                               {}
func (f *fakeProcessor) Enabled() bool                                 { return true }
func (f *fakeProcessor) ParameterValue(id uint32) (float64, bool) {
	v, ok := f.values[id]
	return v, ok
}
func (f *fakeProcessor) ParameterValueInDomain(id uint32) (float64, bool) { return f.values[id], true }
func (f *fakeProcessor) ParameterValueFormatted(id uint32) (string, bool) { return "", true }
func (f *fakeProcessor) SetPropertyValue(uint32, string)                  {}
func (f *fakeProcessor) PropertyValue(uint32) (string, bool)               { return "", false }
func (f *fakeProcessor) SetState(processor.ProcessorState, bool)           {}
func (f *fakeProcessor) SaveState() processor.ProcessorState               { return processor.ProcessorState{} }
func (f *fakeProcessor) SupportsPrograms() bool                           { return false }
func (f *fakeProcessor) ProgramCount() int                                { return 0 }
func (f *fakeProcessor) CurrentProgram() int                              { return 0 }
func (f *fakeProcessor) SetProgram(int) bool                              { return false }

type fakeLookup struct {
	procs map[uint32]processor.Processor
}

func (l *fakeLookup) ByID(id uint32) (processor.Processor, bool) {
	p, ok := l.procs[id]
	return p, ok
}

type recordingDispatcher struct {
	events []*event.ParameterChangeNotificationEvent
}

func (d *recordingDispatcher) Dispatch(e event.Event) {
	d.events = append(d.events, e.(*event.ParameterChangeNotificationEvent))
}

func TestUnchangedValueProducesNoNotification(t *testing.T) {
	p := &fakeProcessor{id: 1, values: map[uint32]float64{10: 0.5}}
	m := New(10*time.Millisecond, &fakeLookup{procs: map[uint32]processor.Processor{1: p}})
	m.TrackParameters(1, []uint32{10})

	m.MarkParameterChanged(1, 10, 0)
	d := &recordingDispatcher{}
	m.OutputParameterNotifications(d, 0)

	assert.Empty(t, d.events)
}

func TestChangedValueProducesNotification(t *testing.T) {
	p := &fakeProcessor{id: 1, values: map[uint32]float64{10: 0.5}}
	m := New(10*time.Millisecond, &fakeLookup{procs: map[uint32]processor.Processor{1: p}})
	m.TrackParameters(1, []uint32{10})

	p.values[10] = 0.75
	m.MarkParameterChanged(1, 10, 0)
	d := &recordingDispatcher{}
	m.OutputParameterNotifications(d, 0)

	assert.Len(t, d.events, 1)
	assert.Equal(t, uint32(10), d.events[0].ParameterID)
	assert.Equal(t, 0.75, d.events[0].NormalizedValue)
}

func TestFutureUpdateTimeIsNotYetSent(t *testing.T) {
	p := &fakeProcessor{id: 1, values: map[uint32]float64{10: 0.5}}
	m := New(10*time.Millisecond, &fakeLookup{procs: map[uint32]processor.Processor{1: p}})
	m.TrackParameters(1, []uint32{10})

	p.values[10] = 0.9
	m.MarkParameterChanged(1, 10, 50*time.Millisecond)
	d := &recordingDispatcher{}
	m.OutputParameterNotifications(d, 0)
	assert.Empty(t, d.events)
	assert.Len(t, m.parameterQueue, 1)

	m.OutputParameterNotifications(d, 60*time.Millisecond)
	assert.Len(t, d.events, 1)
}

func TestRateLimitSuppressesBurstAndRetriesLater(t *testing.T) {
	p := &fakeProcessor{id: 1, values: map[uint32]float64{10: 0.0}}
	m := New(20*time.Millisecond, &fakeLookup{procs: map[uint32]processor.Processor{1: p}})
	m.TrackParameters(1, []uint32{10})

	p.values[10] = 1.0
	m.MarkParameterChanged(1, 10, 0)
	d := &recordingDispatcher{}
	m.OutputParameterNotifications(d, 0)
	assert.Len(t, d.events, 1)

	p.values[10] = 2.0
	m.MarkParameterChanged(1, 10, 5*time.Millisecond)
	m.OutputParameterNotifications(d, 5*time.Millisecond)
	assert.Len(t, d.events, 1, "rate gate should suppress the second update")
	assert.Len(t, m.parameterQueue, 1, "suppressed update stays queued for retry")

	m.OutputParameterNotifications(d, 25*time.Millisecond)
	assert.Len(t, d.events, 2)
	assert.Equal(t, 2.0, d.events[1].NormalizedValue)
}

func TestMarkProcessorChangedNotifiesAllParametersIgnoringRateGate(t *testing.T) {
	p := &fakeProcessor{id: 1, values: map[uint32]float64{10: 1.0, 20: 2.0}}
	m := New(time.Hour, &fakeLookup{procs: map[uint32]processor.Processor{1: p}})
	m.TrackParameters(1, []uint32{10, 20})

	m.MarkParameterChanged(1, 10, 0)
	d := &recordingDispatcher{}
	p.values[10] = 1.5
	m.OutputParameterNotifications(d, 0)
	assert.Len(t, d.events, 1)

	p.values[20] = 2.5
	m.MarkProcessorChanged(1, time.Millisecond)
	m.OutputParameterNotifications(d, time.Millisecond)
	assert.Len(t, d.events, 2)
	assert.Equal(t, uint32(20), d.events[1].ParameterID)
}

func TestMarkProcessorChangedRemarkBumpsTimestamp(t *testing.T) {
	p := &fakeProcessor{id: 1, values: map[uint32]float64{10: 1.0}}
	m := New(time.Hour, &fakeLookup{procs: map[uint32]processor.Processor{1: p}})
	m.TrackParameters(1, []uint32{10})

	m.MarkProcessorChanged(1, 100*time.Millisecond)
	m.MarkProcessorChanged(1, 200*time.Millisecond)
	assert.Len(t, m.processorQueue, 1)
	assert.Equal(t, 200*time.Millisecond, m.processorQueue[0].updateTime)
}

func TestUntrackParametersDropsQueuedEntries(t *testing.T) {
	p := &fakeProcessor{id: 1, values: map[uint32]float64{10: 1.0}}
	m := New(time.Millisecond, &fakeLookup{procs: map[uint32]processor.Processor{1: p}})
	m.TrackParameters(1, []uint32{10})
	m.UntrackParameters(1)

	p.values[10] = 2.0
	m.MarkParameterChanged(1, 10, 0)
	d := &recordingDispatcher{}
	m.OutputParameterNotifications(d, 0)
	assert.Empty(t, d.events)
	assert.Empty(t, m.parameterQueue)
}
