// Package buffer implements the four typed, fixed-capacity buffer kinds a
// Port can own: Audio and Cv hold per-frame float32 samples, Control holds
// the same but is normally touched only through whole-buffer writes, and
// Sequence holds a frame-ordered list of typed events.
package buffer

import "github.com/sigflow/engine/pkg/event"

// Kind is the closed set of buffer payload types.
type Kind int

const (
	KindAudio Kind = iota
	KindControl
	KindCv
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "Audio"
	case KindControl:
		return "Control"
	case KindCv:
		return "Cv"
	case KindSequence:
		return "Sequence"
	default:
		return "Unknown"
	}
}

// Buffer is the fixed-capacity storage behind one voice of one Port.
// samples backs Audio/Control/Cv; events backs Sequence. Capacity frames is
// fixed at construction and never reallocated by clear/copy/mix — only
// Prepare, called once per period, changes it: it resets a Sequence
// buffer's event slice to zero length, and grows an Audio/Control/Cv buffer
// whose capacity is below that period's frame count.
type Buffer struct {
	kind     Kind
	samples  []float32
	events   []event.Event
	capacity int
}

// New allocates a Buffer of the given kind and frame capacity. capacity is
// ignored for Sequence buffers, which grow up to an implementation-defined
// per-period budget instead of a fixed sample count.
func New(kind Kind, capacity int) *Buffer {
	b := &Buffer{kind: kind, capacity: capacity}
	switch kind {
	case KindSequence:
		b.events = make([]event.Event, 0, 64)
	default:
		b.samples = make([]float32, capacity)
	}
	return b
}

// Kind reports the buffer's payload type.
func (b *Buffer) Kind() Kind { return b.kind }

// Capacity reports the frame capacity for Audio/Control/Cv buffers.
func (b *Buffer) Capacity() int { return b.capacity }

// Samples exposes the raw per-frame storage for Audio/Control/Cv buffers.
// Callers must not retain the slice past the buffer's next Prepare.
func (b *Buffer) Samples() []float32 { return b.samples }

// Events exposes the current period's event list for a Sequence buffer, in
// frame order.
func (b *Buffer) Events() []event.Event { return b.events }

// Clear fills the buffer with its type's silence: zeros for Audio/Control/Cv,
// an empty event list for Sequence.
func (b *Buffer) Clear() {
	if b.kind == KindSequence {
		b.events = b.events[:0]
		return
	}
	for i := range b.samples {
		b.samples[i] = 0
	}
}

// ClearRange fills [start, end) with zero. Valid for Audio/Control/Cv only.
func (b *Buffer) ClearRange(start, end int) {
	for i := start; i < end; i++ {
		b.samples[i] = 0
	}
}

// SetBlock fills frames [start, end) with value. Valid for Audio/Control/Cv
// only.
func (b *Buffer) SetBlock(value float32, start, end int) {
	for i := start; i < end; i++ {
		b.samples[i] = value
	}
}

// Copy replaces frames [start, end) of b with the corresponding frames of
// src (Audio/Control/Cv), or replaces b's entire event list with src's
// (Sequence, start/end ignored).
func (b *Buffer) Copy(src *Buffer, start, end int) {
	if b.kind == KindSequence {
		b.events = append(b.events[:0], src.events...)
		return
	}
	copy(b.samples[start:end], src.samples[start:end])
}

// Mix accumulates src into b over [start, end): sample-wise addition for
// Audio/Control/Cv, merge-by-timestamp for Sequence.
func (b *Buffer) Mix(src *Buffer, start, end int) {
	if b.kind == KindSequence {
		b.events = mergeByTime(b.events, src.events)
		return
	}
	for i := start; i < end; i++ {
		b.samples[i] += src.samples[i]
	}
}

// mergeByTime merges two already-time-ordered event slices into one
// time-ordered slice.
func mergeByTime(a, b []event.Event) []event.Event {
	out := make([]event.Event, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].GetHeader().Time <= b[j].GetHeader().Time {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Prepare is called once per period before any reader or writer touches the
// buffer. Sequence buffers reset their event list; Audio/Control/Cv buffers
// are left as-is (the Executor/Port decide whether to clear or hold state),
// except that one with fewer than nframes frames is reallocated, zeroed, at
// nframes.
func (b *Buffer) Prepare(nframes int) {
	if b.kind == KindSequence {
		b.events = b.events[:0]
		return
	}
	if nframes > b.capacity {
		b.samples = make([]float32, nframes)
		b.capacity = nframes
	}
}

// PushEvent appends an event to a Sequence buffer, preserving frame order.
// Callers are responsible for appending in non-decreasing Header.Time order;
// PreProcessor-prepared events already satisfy this.
func (b *Buffer) PushEvent(e event.Event) {
	b.events = append(b.events, e)
}

// ApplyGain scales every sample of an Audio/Cv buffer by gain, in place.
func (b *Buffer) ApplyGain(gain float32) {
	for i := range b.samples {
		b.samples[i] *= gain
	}
}

// Peak returns the maximum absolute sample value in the buffer.
func (b *Buffer) Peak() float32 {
	var peak float32
	for _, s := range b.samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// IsSilent reports whether every sample is exactly zero.
func (b *Buffer) IsSilent() bool {
	for _, s := range b.samples {
		if s != 0 {
			return false
		}
	}
	return true
}
