package event

// MIDI 1.0 status bytes.
const (
	MIDINoteOff         byte = 0x80
	MIDINoteOn          byte = 0x90
	MIDIPolyPressure    byte = 0xA0
	MIDIControlChange   byte = 0xB0
	MIDIProgramChange   byte = 0xC0
	MIDIChannelPressure byte = 0xD0
	MIDIPitchBend       byte = 0xE0
	MIDISystemExclusive byte = 0xF0
)

// MIDIToNoteOn converts a MIDI 1.0 note-on message to a NoteEvent, or nil if
// data does not encode a note-on (velocity 0 is a note-off, per the spec).
func MIDIToNoteOn(data [3]byte, port, channel int16) *NoteEvent {
	if data[0]&0xF0 != MIDINoteOn || data[2] == 0 {
		return nil
	}
	return &NoteEvent{
		Header:   Header{Kind: KindNoteOn},
		NoteID:   -1,
		Port:     port,
		Channel:  channel,
		Key:      int16(data[1]),
		Velocity: float64(data[2]) / 127.0,
	}
}

// MIDIToNoteOff converts a MIDI 1.0 note-off (or zero-velocity note-on)
// message to a NoteEvent, or nil if data encodes neither.
func MIDIToNoteOff(data [3]byte, port, channel int16) *NoteEvent {
	status := data[0] & 0xF0
	if status == MIDINoteOff || (status == MIDINoteOn && data[2] == 0) {
		return &NoteEvent{
			Header:   Header{Kind: KindNoteOff},
			NoteID:   -1,
			Port:     port,
			Channel:  channel,
			Key:      int16(data[1]),
			Velocity: float64(data[2]) / 127.0,
		}
	}
	return nil
}

// NoteToMIDI converts a NoteEvent back to a MIDI 1.0 message.
func NoteToMIDI(e *NoteEvent) (data [3]byte, ok bool) {
	if e.Key < 0 || e.Key > 127 {
		return data, false
	}
	channel := byte(e.Channel & 0x0F)
	velocity := byte(e.Velocity * 127.0)

	switch e.Header.Kind {
	case KindNoteOn:
		data[0] = MIDINoteOn | channel
		data[1] = byte(e.Key)
		data[2] = velocity
		ok = true
	case KindNoteOff:
		data[0] = MIDINoteOff | channel
		data[1] = byte(e.Key)
		data[2] = velocity
		ok = true
	}
	return
}

// MIDIControlChangeToParamValue converts a MIDI CC message to a parameter
// value event, or nil if data is not a CC message.
func MIDIControlChangeToParamValue(data [3]byte, paramID uint32, port, channel int16) *ParamValueEvent {
	if data[0]&0xF0 != MIDIControlChange {
		return nil
	}
	return &ParamValueEvent{
		Header:  Header{Kind: KindParamValue},
		ParamID: paramID,
		Port:    port,
		Channel: channel,
		NoteID:  -1,
		Key:     -1,
		Value:   float64(data[2]) / 127.0,
	}
}

// MIDIPitchBendToParamMod converts a MIDI pitch-bend message to a parameter
// modulation event in [-1, 1], or nil if data is not a pitch-bend message.
func MIDIPitchBendToParamMod(data [3]byte, paramID uint32, port, channel int16) *ParamModEvent {
	if data[0]&0xF0 != MIDIPitchBend {
		return nil
	}
	pitchBend := int(data[1]) | (int(data[2]) << 7)
	amount := (float64(pitchBend) - 8192.0) / 8192.0
	return &ParamModEvent{
		Header:  Header{Kind: KindParamMod},
		ParamID: paramID,
		Port:    port,
		Channel: channel,
		NoteID:  -1,
		Key:     -1,
		Amount:  amount,
	}
}
