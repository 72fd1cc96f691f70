// Package port implements typed, possibly polyphonic Port endpoints: the
// per-voice Buffers a Block reads and writes, the inbound Connection set of
// an input Port, and the scalar "current value" fast path Control/Cv ports
// expose to non-realtime readers.
package port

import (
	"sync/atomic"

	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/sigerr"
)

// Direction is Input or Output.
type Direction int

const (
	Input Direction = iota
	Output
)

// scalarState tracks the Control/Cv half-set transition across periods:
// OK is steady state; setting a scalar mid-period with a nonzero frame
// offset starts HalfSetCycle1 (this period's buffer is half old, half new
// value); the next Prepare finalizes the buffer and advances to
// HalfSetCycle2; the Prepare after that returns to OK.
type scalarState int32

const (
	scalarOK scalarState = iota
	scalarHalfSetCycle1
	scalarHalfSetCycle2
)

// ConnectionRef is the minimal view of a Connection a Port needs, kept
// narrow so this package does not depend on pkg/graph.
type ConnectionRef interface {
	Source() *Port
	Sink() *Port
	PendingDisconnect() bool
}

// Port is one input or output endpoint of a Block.
type Port struct {
	Symbol    string
	Path      path.Path
	Index     int
	Direction Direction
	Kind      buffer.Kind
	Polyphony int
	Min, Max  float64

	Properties map[string]float64

	buffers     []*buffer.Buffer
	connections []ConnectionRef

	scalarBits  atomicFloat64
	state       int32 // scalarState, atomic
	pendingOffs int
}

// New allocates a Port with one Buffer per voice.
func New(symbol string, index int, dir Direction, kind buffer.Kind, polyphony, capacity int) *Port {
	p := &Port{
		Symbol:     symbol,
		Index:      index,
		Direction:  dir,
		Kind:       kind,
		Polyphony:  polyphony,
		Properties: make(map[string]float64),
		buffers:    make([]*buffer.Buffer, polyphony),
	}
	for v := range p.buffers {
		p.buffers[v] = buffer.New(kind, capacity)
	}
	return p
}

// Buffer returns the Buffer for voice v.
func (p *Port) Buffer(voice int) (*buffer.Buffer, error) {
	if voice < 0 || voice >= len(p.buffers) {
		return nil, sigerr.New(sigerr.KindBadPoly, p.Symbol, "voice out of range")
	}
	return p.buffers[voice], nil
}

// ClearBuffers invokes Clear on every voice buffer.
func (p *Port) ClearBuffers() {
	for _, b := range p.buffers {
		b.Clear()
	}
}

// PrepareBuffers invokes Prepare(nframes) on every voice buffer ahead of a
// new period, then finalizes any pending Control/Cv half-set transition.
func (p *Port) PrepareBuffers(nframes int) {
	for _, b := range p.buffers {
		b.Prepare(nframes)
	}
	p.advanceScalarState(nframes)
}

// ConnectInput adds c to this (input) Port's inbound connection set.
// Duplicate source/sink pairs are rejected as idempotent, not an error.
func (p *Port) ConnectInput(c ConnectionRef) error {
	if p.Direction != Input {
		return sigerr.New(sigerr.KindTypeMismatch, p.Symbol, "connections attach to input ports only")
	}
	for _, existing := range p.connections {
		if existing.Source() == c.Source() && existing.Sink() == c.Sink() {
			return nil
		}
	}
	p.connections = append(p.connections, c)
	return nil
}

// DisconnectInput removes c from this Port's inbound connection set.
func (p *Port) DisconnectInput(c ConnectionRef) {
	for i, existing := range p.connections {
		if existing == c {
			p.connections = append(p.connections[:i], p.connections[i+1:]...)
			return
		}
	}
}

// Connections returns the Port's current inbound connection set.
func (p *Port) Connections() []ConnectionRef {
	return p.connections
}

// CurrentValue returns the Control/Cv scalar value, safe to call from any
// thread while the Executor keeps writing it.
func (p *Port) CurrentValue() float64 {
	return p.scalarBits.Load()
}

// SetScalar records a value to take effect at frameOffset within the
// current period, for Control/Cv ports only. Voice 0 is used; Control/Cv
// ports are always mono per spec (polyphonic modulation rides Sequence
// ports instead).
func (p *Port) SetScalar(value float64, frameOffset int) error {
	if p.Kind != buffer.KindControl && p.Kind != buffer.KindCv {
		return sigerr.New(sigerr.KindTypeMismatch, p.Symbol, "set_scalar is only valid on Control/Cv ports")
	}
	b := p.buffers[0]
	old := p.scalarBits.Load()
	cap := b.Capacity()

	if frameOffset <= 0 {
		b.SetBlock(float32(value), 0, cap)
		p.scalarBits.Store(value)
		atomic.StoreInt32(&p.state, int32(scalarOK))
		return nil
	}

	if frameOffset > cap {
		frameOffset = cap
	}
	b.SetBlock(float32(old), 0, frameOffset)
	b.SetBlock(float32(value), frameOffset, cap)
	p.scalarBits.Store(value)
	p.pendingOffs = frameOffset
	atomic.StoreInt32(&p.state, int32(scalarHalfSetCycle1))
	return nil
}

// advanceScalarState finalizes any in-flight half-set transition at the
// start of a period: HalfSetCycle1 -> fill buffer fully, -> HalfSetCycle2 ->
// steady state OK.
func (p *Port) advanceScalarState(nframes int) {
	if p.Kind != buffer.KindControl && p.Kind != buffer.KindCv {
		return
	}
	switch scalarState(atomic.LoadInt32(&p.state)) {
	case scalarHalfSetCycle1:
		p.buffers[0].SetBlock(float32(p.scalarBits.Load()), 0, nframes)
		atomic.StoreInt32(&p.state, int32(scalarHalfSetCycle2))
	case scalarHalfSetCycle2:
		p.buffers[0].SetBlock(float32(p.scalarBits.Load()), 0, nframes)
		atomic.StoreInt32(&p.state, int32(scalarOK))
	case scalarOK:
		p.buffers[0].SetBlock(float32(p.scalarBits.Load()), 0, nframes)
	}
}
