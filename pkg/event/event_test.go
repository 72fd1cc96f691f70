package event

import "testing"

func TestPoolRoundTrip(t *testing.T) {
	p := NewPool(nil)
	e := p.GetNoteEvent()
	e.Key = 60
	e.Velocity = 0.8
	p.PutNoteEvent(e)

	e2 := p.GetNoteEvent()
	if e2.Key != 0 || e2.Velocity != 0 {
		t.Fatalf("expected cleared event from pool, got %+v", e2)
	}
	if _, hits := p.Diagnostics(); hits != 2 {
		t.Fatalf("expected 2 hits, got %d", hits)
	}
}

func TestNoteBuilderValidation(t *testing.T) {
	if _, err := NewNoteOn(1, 0, 0, 60, 1.5).Build(); err == nil {
		t.Fatal("expected velocity out of range to fail")
	}
	if _, err := NewNoteOn(1, 0, 16, 60, 0.5).Build(); err == nil {
		t.Fatal("expected channel out of range to fail")
	}
	e, err := NewNoteOn(1, 0, 0, 60, 0.5).Time(10).Build()
	if err != nil {
		t.Fatal(err)
	}
	if e.Header.Time != 10 || e.Header.Kind != KindNoteOn {
		t.Fatalf("unexpected header %+v", e.Header)
	}
}

func TestMIDIRoundTrip(t *testing.T) {
	on := MIDIToNoteOn([3]byte{0x90, 60, 100}, 0, 0)
	if on == nil || on.Key != 60 {
		t.Fatalf("expected note on, got %+v", on)
	}
	off := MIDIToNoteOff([3]byte{0x90, 60, 0}, 0, 0)
	if off == nil {
		t.Fatal("expected velocity-0 note-on to decode as note-off")
	}
}

type countingHandler struct {
	NoOpHandler
	notesOn int
}

func (h *countingHandler) HandleNoteOn(e *NoteEvent) { h.notesOn++ }

func TestProcessStandardMIDI(t *testing.T) {
	h := &countingHandler{}
	ProcessStandardMIDI(&MIDIEvent{Data: [3]byte{0x90, 64, 90}}, h)
	if h.notesOn != 1 {
		t.Fatalf("expected 1 note on, got %d", h.notesOn)
	}
}
