// Package reclaim implements the "maid": a lock-free SPSC ring of detached
// structures that an event's PostProcess hands off (on the PostProcessor
// thread; the Executor does not push to it) and a drain loop on the
// PostProcessor side destructs. The Executor must never itself run a
// destructor, since doing so could block on an allocator lock.
package reclaim

import (
	"go.uber.org/zap"

	"github.com/hayabusa-cloud/lfq"
)

// Deletable is anything detached from a live Graph and handed off for
// non-realtime teardown.
type Deletable interface {
	// Release runs any non-realtime-safe teardown (freeing large buffers,
	// closing file descriptors a Plugin opened, etc). Called exactly once,
	// from the PostProcessor/MainLoop thread, never from the Executor.
	Release()
}

// Reclaimer is the single-producer (an event's PostProcess), single-consumer
// (PostProcessor/MainLoop) ring of pending Deletables.
type Reclaimer struct {
	ring   *lfq.SPSC[Deletable]
	logger *zap.Logger
}

// New allocates a Reclaimer with the given ring capacity (rounded up to a
// power of two by lfq).
func New(capacity int, logger *zap.Logger) *Reclaimer {
	return &Reclaimer{ring: lfq.NewSPSC[Deletable](capacity), logger: logger}
}

// Func adapts a plain closure to Deletable, for the common case of
// reclaiming a detached slice/struct with no teardown beyond letting the GC
// collect it once unreferenced.
type Func func()

// Release implements Deletable.
func (f Func) Release() { f() }

// Push hands d off for later destruction. Called from an event's
// PostProcess; never blocks. Returns false if the ring is full, in which
// case d is not queued and its Release is never run.
func (r *Reclaimer) Push(d Deletable) bool {
	return r.ring.Enqueue(&d) == nil
}

// Drain destructs every Deletable currently queued. Called from the
// PostProcessor after each period and from MainLoop periodically as a
// backstop.
func (r *Reclaimer) Drain() {
	for {
		d, err := r.ring.Dequeue()
		if err != nil {
			return
		}
		(*d).Release()
	}
}

// DrainAll is Drain plus a log line, used once at engine shutdown to flush
// anything left queued.
func (r *Reclaimer) DrainAll() {
	n := 0
	for {
		d, err := r.ring.Dequeue()
		if err != nil {
			break
		}
		(*d).Release()
		n++
	}
	if n > 0 && r.logger != nil {
		r.logger.Debug("reclaimer drained on shutdown", zap.Int("count", n))
	}
}
