// Package event defines the closed set of event kinds that travel through a
// Sequence port: notes, parameter changes, transport state and raw MIDI.
// Every concrete type carries a Header with the frame-accurate time the
// event takes effect within the current period.
package event

// Kind is the closed set of event payload types.
type Kind uint16

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindNoteChoke
	KindNoteEnd
	KindNoteExpression
	KindParamValue
	KindParamMod
	KindParamGestureBegin
	KindParamGestureEnd
	KindTransport
	KindMIDI
	KindMIDISysex
	KindMIDI2
)

// Flags for individual events.
const (
	FlagIsLive     uint32 = 1 << 0
	FlagDontRecord uint32 = 1 << 1
)

// Header carries metadata common to every event: Time is the sample offset
// within the current period the event takes effect at.
type Header struct {
	Time  uint32
	Kind  Kind
	Flags uint32
}

// Event is the base interface implemented by every concrete event type.
type Event interface {
	GetHeader() *Header
}

// ParamValueEvent represents a parameter value change. NoteID/Port/Channel/Key
// of -1 mean "global", matching the polyphonic-modulation addressing scheme.
type ParamValueEvent struct {
	Header  Header
	ParamID uint32
	Cookie  uint64
	NoteID  int32
	Port    int16
	Channel int16
	Key     int16
	Value   float64
}

func (e *ParamValueEvent) GetHeader() *Header { return &e.Header }

// ParamModEvent represents a parameter modulation relative to its base value.
type ParamModEvent struct {
	Header  Header
	ParamID uint32
	Cookie  uint64
	NoteID  int32
	Port    int16
	Channel int16
	Key     int16
	Amount  float64
}

func (e *ParamModEvent) GetHeader() *Header { return &e.Header }

// ParamGestureEvent brackets a run of ParamMod/ParamValue events from one
// continuous user gesture (e.g. a mouse drag on a knob).
type ParamGestureEvent struct {
	Header  Header
	ParamID uint32
}

func (e *ParamGestureEvent) GetHeader() *Header { return &e.Header }

// NoteEvent represents a note on/off/choke/end event.
type NoteEvent struct {
	Header   Header
	NoteID   int32
	Port     int16
	Channel  int16
	Key      int16
	Velocity float64
}

func (e *NoteEvent) GetHeader() *Header { return &e.Header }

// NoteExpressionEvent represents a per-note continuous expression change.
type NoteExpressionEvent struct {
	Header       Header
	ExpressionID uint32
	NoteID       int32
	Port         int16
	Channel      int16
	Key          int16
	Value        float64
}

func (e *NoteExpressionEvent) GetHeader() *Header { return &e.Header }

// Note expression IDs.
const (
	ExpressionVolume     uint32 = 0
	ExpressionPan        uint32 = 1
	ExpressionTuning     uint32 = 2
	ExpressionVibrato    uint32 = 3
	ExpressionExpression uint32 = 4
	ExpressionBrightness uint32 = 5
	ExpressionPressure   uint32 = 6
)

// TransportEvent carries host transport state.
type TransportEvent struct {
	Header             Header
	Flags              uint32
	SongPosBeats       float64
	SongPosSeconds     float64
	Tempo              float64
	TempoInc           float64
	LoopStartBeats     float64
	LoopEndBeats       float64
	LoopStartSeconds   float64
	LoopEndSeconds     float64
	BarStart           float64
	BarNumber          int32
	TimeSignatureNum   uint16
	TimeSignatureDenom uint16
}

func (e *TransportEvent) GetHeader() *Header { return &e.Header }

// Transport flags.
const (
	TransportHasTempo         uint32 = 1 << 0
	TransportHasBeatsTime     uint32 = 1 << 1
	TransportHasSecondsTime   uint32 = 1 << 2
	TransportHasTimeSignature uint32 = 1 << 3
	TransportIsPlaying        uint32 = 1 << 4
	TransportIsRecording      uint32 = 1 << 5
	TransportIsLooping        uint32 = 1 << 6
	TransportIsWithinPreRoll  uint32 = 1 << 7
)

// MIDIEvent represents a raw MIDI 1.0 message.
type MIDIEvent struct {
	Header Header
	Port   uint16
	Data   [3]byte
}

func (e *MIDIEvent) GetHeader() *Header { return &e.Header }

// MIDISysexEvent represents a MIDI system-exclusive message. Buffer is owned
// by the event; events carrying one must come from the Pool so Put can clear it.
type MIDISysexEvent struct {
	Header Header
	Port   uint16
	Buffer []byte
}

func (e *MIDISysexEvent) GetHeader() *Header { return &e.Header }

// MIDI2Event represents a raw MIDI 2.0 universal-packet message.
type MIDI2Event struct {
	Header Header
	Port   uint16
	Data   [4]uint32
}

func (e *MIDI2Event) GetHeader() *Header { return &e.Header }

// Handler dispatches events with type-specific methods, avoiding a type
// switch at every call site that processes a Sequence buffer.
type Handler interface {
	HandleParamValue(event *ParamValueEvent)
	HandleParamMod(event *ParamModEvent)
	HandleParamGestureBegin(event *ParamGestureEvent)
	HandleParamGestureEnd(event *ParamGestureEvent)

	HandleNoteOn(event *NoteEvent)
	HandleNoteOff(event *NoteEvent)
	HandleNoteChoke(event *NoteEvent)
	HandleNoteEnd(event *NoteEvent)
	HandleNoteExpression(event *NoteExpressionEvent)

	HandleTransport(event *TransportEvent)

	HandleMIDI(event *MIDIEvent)
	HandleMIDI2(event *MIDI2Event)
	HandleMIDISysex(event *MIDISysexEvent)
}

// NoOpHandler implements Handler with no-ops. Embed it to avoid writing out
// every method when only a few event kinds matter.
type NoOpHandler struct{}

func (h *NoOpHandler) HandleParamValue(event *ParamValueEvent)             {}
func (h *NoOpHandler) HandleParamMod(event *ParamModEvent)                 {}
func (h *NoOpHandler) HandleParamGestureBegin(event *ParamGestureEvent)    {}
func (h *NoOpHandler) HandleParamGestureEnd(event *ParamGestureEvent)      {}
func (h *NoOpHandler) HandleNoteOn(event *NoteEvent)                      {}
func (h *NoOpHandler) HandleNoteOff(event *NoteEvent)                     {}
func (h *NoOpHandler) HandleNoteChoke(event *NoteEvent)                   {}
func (h *NoOpHandler) HandleNoteEnd(event *NoteEvent)                     {}
func (h *NoOpHandler) HandleNoteExpression(event *NoteExpressionEvent)    {}
func (h *NoOpHandler) HandleTransport(event *TransportEvent)              {}
func (h *NoOpHandler) HandleMIDI(event *MIDIEvent)                        {}
func (h *NoOpHandler) HandleMIDI2(event *MIDI2Event)                      {}
func (h *NoOpHandler) HandleMIDISysex(event *MIDISysexEvent)              {}

// Dispatch routes event to the matching Handler method by its Kind.
func Dispatch(h Handler, e Event) {
	switch ev := e.(type) {
	case *ParamValueEvent:
		h.HandleParamValue(ev)
	case *ParamModEvent:
		h.HandleParamMod(ev)
	case *ParamGestureEvent:
		switch ev.Header.Kind {
		case KindParamGestureBegin:
			h.HandleParamGestureBegin(ev)
		case KindParamGestureEnd:
			h.HandleParamGestureEnd(ev)
		}
	case *NoteEvent:
		switch ev.Header.Kind {
		case KindNoteOn:
			h.HandleNoteOn(ev)
		case KindNoteOff:
			h.HandleNoteOff(ev)
		case KindNoteChoke:
			h.HandleNoteChoke(ev)
		case KindNoteEnd:
			h.HandleNoteEnd(ev)
		}
	case *NoteExpressionEvent:
		h.HandleNoteExpression(ev)
	case *TransportEvent:
		h.HandleTransport(ev)
	case *MIDIEvent:
		h.HandleMIDI(ev)
	case *MIDI2Event:
		h.HandleMIDI2(ev)
	case *MIDISysexEvent:
		h.HandleMIDISysex(ev)
	}
}
