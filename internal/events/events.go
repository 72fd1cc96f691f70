// Package events implements the closed set of EventTypes: one struct per
// client operation, each exposing Prepare (non-RT: Store lookups,
// allocation, compilation), Execute (RT: install/swap only), and
// PostProcess (non-RT: notify + reclaim), plus a Blocking flag.
//
// This mirrors the teacher's one-struct-per-event-Kind shape in
// pkg/event/event.go, generalized from a MIDI/parameter vocabulary to the
// engine's object-graph mutation vocabulary.
package events

import (
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/internal/store"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/proto"
)

// PrepareContext is everything an Event's Prepare step may consult. All of
// it is safe to read/write off the audio thread only.
type PrepareContext struct {
	Store       *store.Store
	Catalog     *plugin.Catalog
	SampleRate  float64
	BlockLength int
}

// Event is the interface every EventType implements.
type Event interface {
	// RequestID correlates Status/AsyncError notifications back to the
	// originating command.
	RequestID() string

	// Time returns the event's scheduled frame time, stamped by the
	// PreProcessor after a successful Prepare.
	Time() uint32
	SetTime(t uint32)

	// Blocking reports the event's Blocking flag. Neither the PreProcessor
	// nor the Executor consults it: the next event's Prepare is never held
	// back until this one has cleared Execute and PostProcess.
	Blocking() bool

	// Prepare performs all allocating/lookup work off the audio thread. An
	// error here completes the event locally: it never reaches Execute.
	Prepare(ctx *PrepareContext) error

	// Execute runs on the Executor thread at the given intra-period sample
	// offset. Must not allocate, lock, or block.
	Execute(offset int)

	// PostProcess runs on the PostProcessor thread: emit notifications and
	// hand detached structures to the Reclaimer.
	PostProcess(n proto.Notifier, r *reclaim.Reclaimer)
}

// Base carries the fields common to every Event: request correlation,
// scheduled time, and the blocking flag. Embedded by every concrete event.
type Base struct {
	ReqID       string
	Target      path.Path
	ScheduledAt uint32
	IsBlocking  bool
}

func (b *Base) RequestID() string   { return b.ReqID }
func (b *Base) Time() uint32        { return b.ScheduledAt }
func (b *Base) SetTime(t uint32)    { b.ScheduledAt = t }
func (b *Base) Blocking() bool      { return b.IsBlocking }

// statusPostProcess emits a Status notification reflecting err (nil for
// success), the shared tail of every event's PostProcess.
func statusPostProcess(n proto.Notifier, reqID string, err error) {
	if n == nil {
		return
	}
	if err == nil {
		n.Status(proto.Status{RequestID: reqID, OK: true})
		return
	}
	n.Status(proto.Status{RequestID: reqID, OK: false, Message: err.Error()})
}
