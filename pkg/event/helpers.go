package event

// ProcessStandardMIDI decodes a raw MIDI 1.0 message and dispatches the
// higher-level note event it represents, if any.
func ProcessStandardMIDI(e *MIDIEvent, handler Handler) {
	status := e.Data[0] & 0xF0
	channel := int16(e.Data[0] & 0x0F)

	switch status {
	case MIDINoteOn:
		if e.Data[2] > 0 {
			if noteOn := MIDIToNoteOn(e.Data, int16(e.Port), channel); noteOn != nil {
				noteOn.Header.Time = e.Header.Time
				handler.HandleNoteOn(noteOn)
			}
		} else if noteOff := MIDIToNoteOff(e.Data, int16(e.Port), channel); noteOff != nil {
			noteOff.Header.Time = e.Header.Time
			handler.HandleNoteOff(noteOff)
		}
	case MIDINoteOff:
		if noteOff := MIDIToNoteOff(e.Data, int16(e.Port), channel); noteOff != nil {
			noteOff.Header.Time = e.Header.Time
			handler.HandleNoteOff(noteOff)
		}
	case MIDIControlChange, MIDIPitchBend:
		// left to callers that need CC/pitch-bend-to-parameter mapping;
		// see MIDIControlChangeToParamValue / MIDIPitchBendToParamMod.
	}
}

// CreateParamValue creates a global parameter value change event.
func CreateParamValue(time uint32, paramID uint32, value float64) *ParamValueEvent {
	return &ParamValueEvent{
		Header:  Header{Time: time, Kind: KindParamValue},
		ParamID: paramID,
		NoteID:  -1, Port: -1, Channel: -1, Key: -1,
		Value: value,
	}
}

// CreatePolyParamValue creates a per-voice parameter value change event.
func CreatePolyParamValue(time uint32, paramID uint32, noteID int32, port, channel, key int16, value float64) *ParamValueEvent {
	return &ParamValueEvent{
		Header:  Header{Time: time, Kind: KindParamValue},
		ParamID: paramID,
		NoteID:  noteID, Port: port, Channel: channel, Key: key,
		Value: value,
	}
}

// CreateNoteOn creates a note on event with the host assigning the note ID.
func CreateNoteOn(time uint32, port, channel, key int16, velocity float64) *NoteEvent {
	return &NoteEvent{
		Header:   Header{Time: time, Kind: KindNoteOn},
		NoteID:   -1,
		Port:     port,
		Channel:  channel,
		Key:      key,
		Velocity: velocity,
	}
}

// CreateNoteOff creates a note off event matching any note at this key.
func CreateNoteOff(time uint32, port, channel, key int16, velocity float64) *NoteEvent {
	return &NoteEvent{
		Header:   Header{Time: time, Kind: KindNoteOff},
		NoteID:   -1,
		Port:     port,
		Channel:  channel,
		Key:      key,
		Velocity: velocity,
	}
}

// CreateNoteEnd creates a note end event, sent once a voice fully releases.
func CreateNoteEnd(time uint32, noteID int32, port, channel, key int16) *NoteEvent {
	return &NoteEvent{
		Header:  Header{Time: time, Kind: KindNoteEnd},
		NoteID:  noteID,
		Port:    port,
		Channel: channel,
		Key:     key,
	}
}

// CreateMIDI creates a raw MIDI 1.0 event.
func CreateMIDI(time uint32, port uint16, data [3]byte) *MIDIEvent {
	return &MIDIEvent{Header: Header{Time: time, Kind: KindMIDI}, Port: port, Data: data}
}

// CreateMIDISysex creates a raw MIDI sysex event. buf is retained, not copied.
func CreateMIDISysex(time uint32, port uint16, buf []byte) *MIDISysexEvent {
	return &MIDISysexEvent{Header: Header{Time: time, Kind: KindMIDISysex}, Port: port, Buffer: buf}
}

// CreateMIDI2 creates a raw MIDI 2.0 universal-packet event.
func CreateMIDI2(time uint32, port uint16, data [4]uint32) *MIDI2Event {
	return &MIDI2Event{Header: Header{Time: time, Kind: KindMIDI2}, Port: port, Data: data}
}
