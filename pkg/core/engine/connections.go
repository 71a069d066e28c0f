package engine

import "sync/atomic"

// AudioConnection binds one engine I/O channel to one channel of one track,
// the routing entries drained and committed from the control RT FIFO
// (§4.k step 4, "ADD/REMOVE_AUDIO_CONNECTION ... committing the dual-buffer
// swap").
type AudioConnection struct {
	EngineChannel int32
	TrackChannel  int32
	TrackID       uint32
}

// connectionMap holds the committed connection list behind an atomic
// pointer swap: the RT render path reads a stable snapshot via View() while
// Add/Remove build and publish a fresh copy, mirroring the original's
// dual-buffer connection list without needing a lock on the read side.
type connectionMap struct {
	current atomic.Pointer[[]AudioConnection]
}

func newConnectionMap() *connectionMap {
	m := &connectionMap{}
	empty := []AudioConnection{}
	m.current.Store(&empty)
	return m
}

// View returns the currently committed connection list. Safe to call from
// the RT thread; never blocks.
func (m *connectionMap) View() []AudioConnection {
	return *m.current.Load()
}

func (m *connectionMap) Add(c AudioConnection) {
	old := *m.current.Load()
	next := make([]AudioConnection, len(old), len(old)+1)
	copy(next, old)
	next = append(next, c)
	m.current.Store(&next)
}

func (m *connectionMap) Remove(c AudioConnection) {
	old := *m.current.Load()
	next := make([]AudioConnection, 0, len(old))
	for _, e := range old {
		if e != c {
			next = append(next, e)
		}
	}
	m.current.Store(&next)
}

// CvConnection routes one incoming CV input id onto one processor's
// parameter, turned into a FLOAT_PARAMETER_CHANGE event each chunk
// (§4.k step 6).
type CvConnection struct {
	ProcessorID uint32
	ParameterID uint32
	CVID        int32
}

// GateConnection routes one bit of the incoming gate bitset onto a
// NOTE_ON/NOTE_OFF addressed to ProcessorID/Channel/Note, the edge
// (rising/falling) detected by XORing the current bitset against the
// previous chunk's (§4.k step 6).
type GateConnection struct {
	ProcessorID uint32
	Channel     uint8
	Note        uint8
	GateID      int32
}
