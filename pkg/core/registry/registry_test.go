package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
	"github.com/sushi-audio/sushi-go/pkg/core/processor"
	"github.com/sushi-audio/sushi-go/pkg/core/rtevent"
)

type stubProcessor struct {
	id   uint32
	name string
}

func (s *stubProcessor) ID() uint32                                         { return s.id }
func (s *stubProcessor) Name() string                                       { return s.name }
func (s *stubProcessor) Init(float64) processor.InitStatus                  { return processor.StatusOK }
func (s *stubProcessor) Configure(float64)                                  {}
func (s *stubProcessor) SetInputChannels(n int) int                         { return n }
func (s *stubProcessor) SetOutputChannels(n int) int                       { return n }
func (s *stubProcessor) MaxInputChannels() int                             { return 2 }
func (s *stubProcessor) MaxOutputChannels() int                            { return 2 }
func (s *stubProcessor) ProcessAudio(in, out *buffer.SampleBuffer)         { out.Replace(in) }
func (s *stubProcessor) ProcessEvent(rtevent.RtEvent)                      {}
func (s *stubProcessor) SetBypassed(bool)                                  {}
func (s *stubProcessor) Bypassed() bool                                    { return false }
func (s *stubProcessor) SetEnabled(bool)                                   {}
func (s *stubProcessor) Enabled() bool                                     { return true }
func (s *stubProcessor) ParameterValue(uint32) (float64, bool)             { return 0, false }
func (s *stubProcessor) ParameterValueInDomain(uint32) (float64, bool)     { return 0, false }
func (s *stubProcessor) ParameterValueFormatted(uint32) (string, bool)     { return "", false }
func (s *stubProcessor) SetPropertyValue(uint32, string)                  {}
func (s *stubProcessor) PropertyValue(uint32) (string, bool)               { return "", false }
func (s *stubProcessor) SetState(processor.ProcessorState, bool)           {}
func (s *stubProcessor) SaveState() processor.ProcessorState               { return processor.ProcessorState{} }
func (s *stubProcessor) SupportsPrograms() bool                            { return false }
func (s *stubProcessor) ProgramCount() int                                 { return 0 }
func (s *stubProcessor) CurrentProgram() int                               { return 0 }
func (s *stubProcessor) SetProgram(int) bool                               { return false }

func TestAddProcessorRejectsDuplicateName(t *testing.T) {
	c := New()
	assert.NoError(t, c.AddProcessor(&stubProcessor{id: 1, name: "gain"}))
	err := c.AddProcessor(&stubProcessor{id: 2, name: "gain"})
	assert.Error(t, err)
}

func TestAddToTrackOrdering(t *testing.T) {
	c := New()
	a := &stubProcessor{id: 1, name: "a"}
	b := &stubProcessor{id: 2, name: "b"}
	x := &stubProcessor{id: 3, name: "x"}
	c.AddProcessor(a)
	c.AddProcessor(b)
	c.AddProcessor(x)

	assert.True(t, c.AddToTrack(1, 100, 0, false))
	assert.True(t, c.AddToTrack(2, 100, 0, false))
	assert.True(t, c.AddToTrack(3, 100, 2, true))

	procs := c.ProcessorsOnTrack(100)
	assert.Equal(t, []uint32{1, 3, 2}, idsOf(procs))
}

func TestRemoveProcessorClearsTrackMirror(t *testing.T) {
	c := New()
	a := &stubProcessor{id: 1, name: "a"}
	c.AddProcessor(a)
	c.AddToTrack(1, 100, 0, false)
	assert.True(t, c.RemoveProcessor(1))
	assert.Empty(t, c.ProcessorsOnTrack(100))
	_, ok := c.ByID(1)
	assert.False(t, ok)
}

func TestAllTracksSortedByID(t *testing.T) {
	c := New()
	c.AddProcessor(&stubProcessor{id: 1, name: "a"})
	c.AddToTrack(1, 30, 0, false)
	c.AddProcessor(&stubProcessor{id: 2, name: "b"})
	c.AddToTrack(2, 10, 0, false)
	c.AddProcessor(&stubProcessor{id: 3, name: "c"})
	c.AddToTrack(3, 20, 0, false)

	assert.Equal(t, []uint32{10, 20, 30}, c.AllTracks())
}

func idsOf(procs []processor.Processor) []uint32 {
	ids := make([]uint32, len(procs))
	for i, p := range procs {
		ids[i] = p.ID()
	}
	return ids
}
