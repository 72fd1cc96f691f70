package event

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pool hands out zeroed events of each concrete type without allocating on
// the hot path once warmed up: PreProcessor calls Get, fills in fields, hands
// the event to the Executor; PostProcessor (or the Executor itself, for
// events it fully consumes within the period) calls Put once the event is no
// longer referenced.
type Pool struct {
	paramValuePool     sync.Pool
	paramModPool       sync.Pool
	paramGesturePool   sync.Pool
	noteEventPool      sync.Pool
	noteExpressionPool sync.Pool
	transportPool      sync.Pool
	midiPool           sync.Pool
	midiSysexPool      sync.Pool
	midi2Pool          sync.Pool

	allocations uint64
	hits        uint64

	logger *zap.Logger
}

// NewPool builds a Pool. logger may be nil; diagnostics are then skipped.
func NewPool(logger *zap.Logger) *Pool {
	p := &Pool{logger: logger}
	p.paramValuePool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &ParamValueEvent{} }
	p.paramModPool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &ParamModEvent{} }
	p.paramGesturePool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &ParamGestureEvent{} }
	p.noteEventPool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &NoteEvent{} }
	p.noteExpressionPool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &NoteExpressionEvent{} }
	p.transportPool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &TransportEvent{} }
	p.midiPool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &MIDIEvent{} }
	p.midiSysexPool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &MIDISysexEvent{} }
	p.midi2Pool.New = func() any { atomic.AddUint64(&p.allocations, 1); return &MIDI2Event{} }
	return p
}

func (p *Pool) GetParamValueEvent() *ParamValueEvent {
	atomic.AddUint64(&p.hits, 1)
	return p.paramValuePool.Get().(*ParamValueEvent)
}

func (p *Pool) PutParamValueEvent(e *ParamValueEvent) {
	*e = ParamValueEvent{}
	p.paramValuePool.Put(e)
}

func (p *Pool) GetParamModEvent() *ParamModEvent {
	atomic.AddUint64(&p.hits, 1)
	return p.paramModPool.Get().(*ParamModEvent)
}

func (p *Pool) PutParamModEvent(e *ParamModEvent) {
	*e = ParamModEvent{}
	p.paramModPool.Put(e)
}

func (p *Pool) GetParamGestureEvent() *ParamGestureEvent {
	atomic.AddUint64(&p.hits, 1)
	return p.paramGesturePool.Get().(*ParamGestureEvent)
}

func (p *Pool) PutParamGestureEvent(e *ParamGestureEvent) {
	*e = ParamGestureEvent{}
	p.paramGesturePool.Put(e)
}

func (p *Pool) GetNoteEvent() *NoteEvent {
	atomic.AddUint64(&p.hits, 1)
	return p.noteEventPool.Get().(*NoteEvent)
}

func (p *Pool) PutNoteEvent(e *NoteEvent) {
	*e = NoteEvent{}
	p.noteEventPool.Put(e)
}

func (p *Pool) GetNoteExpressionEvent() *NoteExpressionEvent {
	atomic.AddUint64(&p.hits, 1)
	return p.noteExpressionPool.Get().(*NoteExpressionEvent)
}

func (p *Pool) PutNoteExpressionEvent(e *NoteExpressionEvent) {
	*e = NoteExpressionEvent{}
	p.noteExpressionPool.Put(e)
}

func (p *Pool) GetTransportEvent() *TransportEvent {
	atomic.AddUint64(&p.hits, 1)
	return p.transportPool.Get().(*TransportEvent)
}

func (p *Pool) PutTransportEvent(e *TransportEvent) {
	*e = TransportEvent{}
	p.transportPool.Put(e)
}

func (p *Pool) GetMIDIEvent() *MIDIEvent {
	atomic.AddUint64(&p.hits, 1)
	return p.midiPool.Get().(*MIDIEvent)
}

func (p *Pool) PutMIDIEvent(e *MIDIEvent) {
	*e = MIDIEvent{}
	p.midiPool.Put(e)
}

func (p *Pool) GetMIDISysexEvent() *MIDISysexEvent {
	atomic.AddUint64(&p.hits, 1)
	return p.midiSysexPool.Get().(*MIDISysexEvent)
}

func (p *Pool) PutMIDISysexEvent(e *MIDISysexEvent) {
	*e = MIDISysexEvent{}
	p.midiSysexPool.Put(e)
}

func (p *Pool) GetMIDI2Event() *MIDI2Event {
	atomic.AddUint64(&p.hits, 1)
	return p.midi2Pool.Get().(*MIDI2Event)
}

func (p *Pool) PutMIDI2Event(e *MIDI2Event) {
	*e = MIDI2Event{}
	p.midi2Pool.Put(e)
}

// Diagnostics returns the running allocation and reuse counters.
func (p *Pool) Diagnostics() (allocations, hits uint64) {
	return atomic.LoadUint64(&p.allocations), atomic.LoadUint64(&p.hits)
}

// LogDiagnostics emits the current counters at debug level, if a logger was
// configured. Called from the PostProcessor, never from the audio thread.
func (p *Pool) LogDiagnostics() {
	if p.logger == nil {
		return
	}
	allocations, hits := p.Diagnostics()
	p.logger.Debug("event pool diagnostics",
		zap.Uint64("allocations", allocations),
		zap.Uint64("hits", hits))
}
