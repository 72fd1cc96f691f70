// Package executor implements the Executor: the single realtime thread
// driven by the AudioBackend's period callback. It drains prepared events,
// pulls input samples, walks the installed CompiledGraph, pushes output
// samples, and wakes the PostProcessor — in that order, once per period.
// Nothing in this package allocates, blocks on a lock, performs I/O, or
// invokes a destructor; that discipline is the entire point of having
// already done the slow work in Prepare.
package executor

import (
	"go.uber.org/zap"

	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/internal/eventqueue"
	"github.com/sigflow/engine/pkg/audiobackend"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/thread"
)

// Config bounds the Executor's per-period event drain.
type Config struct {
	// MinEventFrames caps events processed per period to nframes /
	// MinEventFrames, bounding worst-case drain work. Zero selects a
	// reasonable default.
	MinEventFrames int
}

const defaultMinEventFrames = 64

// Executor owns the root Graph, the AudioBackend collaborator, the
// PreProcessor->Executor inbox, the Executor->PostProcessor outbox, and the
// wake semaphore. One Executor drives one AudioBackend.
type Executor struct {
	root    *graph.Graph
	backend audiobackend.AudioBackend
	inbox   *eventqueue.Queue
	outbox  *eventqueue.Queue
	wake    chan struct{}
	cfg     Config
	logger  *zap.Logger

	pending events.Event // an event popped but not yet due this period
}

// New builds an Executor. wake is a buffered (capacity >= 1) channel the
// PostProcessor reads from.
func New(root *graph.Graph, backend audiobackend.AudioBackend, inbox, outbox *eventqueue.Queue, wake chan struct{}, cfg Config, logger *zap.Logger) *Executor {
	if cfg.MinEventFrames <= 0 {
		cfg.MinEventFrames = defaultMinEventFrames
	}
	return &Executor{root: root, backend: backend, inbox: inbox, outbox: outbox, wake: wake, cfg: cfg, logger: logger}
}

// Process runs one period: drain, input pull, graph traversal, output push,
// signal. nframes is this period's frame count; periodStart is the
// AudioBackend frame counter at the start of the period.
func (e *Executor) Process(nframes int, periodStart uint64) {
	thread.MarkAudioThread()
	defer thread.UnmarkAudioThread()
	thread.AssertAudioThread("executor.Process")
	e.drain(nframes, periodStart)
	e.pullInputs(nframes)
	e.traverse(nframes)
	e.pushOutputs(nframes)
	e.signal()
}

// drain pops prepared events due by periodStart+nframes, executes each at
// its intra-period offset (clamped to 0 for late events), and hands it to
// the outbox. The ring has no peek, so an event popped but not yet due is
// held in e.pending for the next call rather than re-enqueued.
func (e *Executor) drain(nframes int, periodStart uint64) {
	budget := nframes / e.cfg.MinEventFrames
	if budget < 1 {
		budget = 1
	}
	deadline := periodStart + uint64(nframes)

	for processed := 0; processed < budget; processed++ {
		ev := e.pending
		e.pending = nil
		if ev == nil {
			var ok bool
			ev, ok = e.inbox.Pop()
			if !ok {
				return
			}
		}

		t := uint64(ev.Time())
		if t > deadline {
			e.pending = ev
			return
		}

		offset := 0
		if t > periodStart {
			offset = int(t - periodStart)
		}
		ev.Execute(offset)

		if !e.outbox.Push(ev) {
			// PostProcessor outbox full: the notification/reclaim for this
			// event is dropped rather than stalling the audio thread.
			if e.logger != nil {
				e.logger.Warn("postprocessor outbox full, dropping event notification")
			}
		}
	}
}

// pullInputs copies the AudioBackend's period input buffers into the root
// Graph's external input ports, voice 0.
func (e *Executor) pullInputs(nframes int) {
	ins := e.backend.Inputs()
	idx := 0
	for _, p := range e.root.Block.Ports {
		if p.Direction != port.Input {
			continue
		}
		if idx >= len(ins) {
			return
		}
		if dst, err := p.Buffer(0); err == nil {
			dst.Copy(ins[idx], 0, nframes)
		}
		idx++
	}
}

// traverse prepares the root Graph's own bridge Ports (fed by pullInputs,
// not by any parent entry loop, since the root has no parent) then
// delegates to the root's RunEntries, which recurses into any nested
// Kind-Graph Block's own installed schedule.
func (e *Executor) traverse(nframes int) {
	if !e.root.Enabled() {
		return
	}
	for _, p := range e.root.Block.Ports {
		p.PrepareBuffers(nframes)
	}
	e.root.RunEntries(nframes)
}

// pushOutputs copies the root Graph's external output ports, voice 0, into
// the AudioBackend's period output buffers.
func (e *Executor) pushOutputs(nframes int) {
	outs := e.backend.Outputs()
	idx := 0
	for _, p := range e.root.Block.Ports {
		if p.Direction != port.Output {
			continue
		}
		if idx >= len(outs) {
			return
		}
		if src, err := p.Buffer(0); err == nil {
			outs[idx].Copy(src, 0, nframes)
		}
		idx++
	}
}

// signal releases the capacity-1 semaphore the PostProcessor waits on,
// without blocking if a previous signal is still pending.
func (e *Executor) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}
