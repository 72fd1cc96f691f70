package event

import (
	"errors"
	"fmt"
)

// Builder provides a fluent interface for constructing a single event.
type Builder struct {
	header Header
	err    error
}

// NewBuilder starts building an event of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{header: Header{Kind: kind}}
}

func (b *Builder) Time(time uint32) *Builder {
	if b.err == nil {
		b.header.Time = time
	}
	return b
}

func (b *Builder) Flags(flags uint32) *Builder {
	if b.err == nil {
		b.header.Flags = flags
	}
	return b
}

func (b *Builder) AddFlags(flags uint32) *Builder {
	if b.err == nil {
		b.header.Flags |= flags
	}
	return b
}

func (b *Builder) Live() *Builder       { return b.AddFlags(FlagIsLive) }
func (b *Builder) DontRecord() *Builder { return b.AddFlags(FlagDontRecord) }

// ParamValueBuilder extends Builder for ParamValueEvent.
type ParamValueBuilder struct {
	*Builder
	event ParamValueEvent
}

// NewParamValueEvent starts a global (NoteID -1) parameter value change.
func NewParamValueEvent(paramID uint32, value float64) *ParamValueBuilder {
	b := NewBuilder(KindParamValue)
	return &ParamValueBuilder{
		Builder: b,
		event: ParamValueEvent{
			NoteID: -1, Port: -1, Channel: -1, Key: -1,
			ParamID: paramID, Value: value,
		},
	}
}

func (b *ParamValueBuilder) Cookie(cookie uint64) *ParamValueBuilder {
	if b.err == nil {
		b.event.Cookie = cookie
	}
	return b
}

func (b *ParamValueBuilder) NoteID(noteID int32) *ParamValueBuilder {
	if b.err == nil {
		b.event.NoteID = noteID
	}
	return b
}

func (b *ParamValueBuilder) Channel(channel int16) *ParamValueBuilder {
	if b.err != nil {
		return b
	}
	if channel < -1 || channel > 15 {
		b.err = errors.New("channel must be -1 (none) or 0-15")
		return b
	}
	b.event.Channel = channel
	return b
}

func (b *ParamValueBuilder) Key(key int16) *ParamValueBuilder {
	if b.err != nil {
		return b
	}
	if key < -1 || key > 127 {
		b.err = errors.New("key must be -1 (none) or 0-127")
		return b
	}
	b.event.Key = key
	return b
}

func (b *ParamValueBuilder) Build() (ParamValueEvent, error) {
	if b.err != nil {
		return ParamValueEvent{}, b.err
	}
	b.event.Header = b.header
	return b.event, nil
}

func (b *ParamValueBuilder) MustBuild() ParamValueEvent {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}

// NoteBuilder extends Builder for NoteEvent.
type NoteBuilder struct {
	*Builder
	event NoteEvent
}

func newNoteBuilder(kind Kind, noteID int32, port, channel, key int16, velocity float64) *NoteBuilder {
	return &NoteBuilder{
		Builder: NewBuilder(kind),
		event: NoteEvent{
			NoteID: noteID, Port: port, Channel: channel, Key: key, Velocity: velocity,
		},
	}
}

func NewNoteOn(noteID int32, port, channel, key int16, velocity float64) *NoteBuilder {
	return newNoteBuilder(KindNoteOn, noteID, port, channel, key, velocity)
}

func NewNoteOff(noteID int32, port, channel, key int16, velocity float64) *NoteBuilder {
	return newNoteBuilder(KindNoteOff, noteID, port, channel, key, velocity)
}

func NewNoteChoke(noteID int32, port, channel, key int16) *NoteBuilder {
	return newNoteBuilder(KindNoteChoke, noteID, port, channel, key, 0)
}

func NewNoteEnd(noteID int32, port, channel, key int16) *NoteBuilder {
	return newNoteBuilder(KindNoteEnd, noteID, port, channel, key, 0)
}

func (b *NoteBuilder) Velocity(velocity float64) *NoteBuilder {
	if b.err != nil {
		return b
	}
	if velocity < 0 || velocity > 1 {
		b.err = errors.New("velocity must be between 0.0 and 1.0")
		return b
	}
	b.event.Velocity = velocity
	return b
}

func (b *NoteBuilder) Build() (NoteEvent, error) {
	if b.err != nil {
		return NoteEvent{}, b.err
	}
	if b.event.Channel < 0 || b.event.Channel > 15 {
		return NoteEvent{}, errors.New("channel must be 0-15")
	}
	if b.event.Key < 0 || b.event.Key > 127 {
		return NoteEvent{}, errors.New("key must be 0-127")
	}
	if b.event.Velocity < 0 || b.event.Velocity > 1 {
		return NoteEvent{}, errors.New("velocity must be between 0.0 and 1.0")
	}
	b.event.Header = b.header
	return b.event, nil
}

func (b *NoteBuilder) MustBuild() NoteEvent {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}

// SequenceBuilder accumulates events for a Sequence buffer in frame order.
type SequenceBuilder struct {
	events []Event
	err    error
}

func NewSequence() *SequenceBuilder {
	return &SequenceBuilder{}
}

func (b *SequenceBuilder) AddEvent(e Event) *SequenceBuilder {
	if b.err == nil {
		b.events = append(b.events, e)
	}
	return b
}

func (b *SequenceBuilder) AddParamChange(time uint32, paramID uint32, value float64) *SequenceBuilder {
	if b.err != nil {
		return b
	}
	e, err := NewParamValueEvent(paramID, value).Time(time).Build()
	if err != nil {
		b.err = fmt.Errorf("param change: %w", err)
		return b
	}
	return b.AddEvent(&e)
}

func (b *SequenceBuilder) AddNoteOn(time uint32, noteID int32, channel, key int16, velocity float64) *SequenceBuilder {
	if b.err != nil {
		return b
	}
	e, err := NewNoteOn(noteID, 0, channel, key, velocity).Time(time).Build()
	if err != nil {
		b.err = fmt.Errorf("note on: %w", err)
		return b
	}
	return b.AddEvent(&e)
}

func (b *SequenceBuilder) AddNoteOff(time uint32, noteID int32, channel, key int16, velocity float64) *SequenceBuilder {
	if b.err != nil {
		return b
	}
	e, err := NewNoteOff(noteID, 0, channel, key, velocity).Time(time).Build()
	if err != nil {
		b.err = fmt.Errorf("note off: %w", err)
		return b
	}
	return b.AddEvent(&e)
}

func (b *SequenceBuilder) Build() ([]Event, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.events, nil
}

func (b *SequenceBuilder) MustBuild() []Event {
	events, err := b.Build()
	if err != nil {
		panic(err)
	}
	return events
}
