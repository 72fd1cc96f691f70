// Package eventqueue implements the single-producer (PreProcessor),
// single-consumer (Executor) ring of prepared events described in the
// engine's concurrency model: an Event's prepare() has already run by the
// time it reaches the ring, so the Executor's pop is allocation-free. The
// same type also serves as the Executor -> PostProcessor outbox.
package eventqueue

import (
	"github.com/hayabusa-cloud/lfq"

	"github.com/sigflow/engine/internal/events"
)

// Queue is an SPSC ring of events: the PreProcessor -> Executor inbox, or
// the Executor -> PostProcessor outbox. Insertion order is monotonic
// in scheduled time for the single producer, matching the spec's ordering
// requirement.
type Queue struct {
	ring *lfq.SPSC[events.Event]
}

// New allocates a Queue with the given capacity (rounded up to a power of
// two by lfq).
func New(capacity int) *Queue {
	return &Queue{ring: lfq.NewSPSC[events.Event](capacity)}
}

// Push enqueues a prepared Event. Returns false if the ring is full; the
// caller (PreProcessor) is responsible for the bounded spin-retry and
// eventual back-pressure report described in the spec.
func (q *Queue) Push(e events.Event) bool {
	return q.ring.Enqueue(&e) == nil
}

// Pop dequeues the next prepared Event in scheduled-time order. Called only
// from the ring's single consumer (the Executor for the inbox, the
// PostProcessor for the outbox); never blocks.
func (q *Queue) Pop() (events.Event, bool) {
	e, err := q.ring.Dequeue()
	if err != nil {
		return nil, false
	}
	return *e, true
}
