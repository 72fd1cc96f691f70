// Package postprocessor implements the PostProcessor: the thread the
// Executor's wake semaphore releases once per period. It drains the
// Executor's outbox of executed events, runs each one's post_process
// (client notification, Reclaimer hand-off), and periodically flushes the
// Reclaimer as a backstop.
package postprocessor

import (
	"github.com/sigflow/engine/internal/eventqueue"
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/pkg/proto"
	"github.com/sigflow/engine/pkg/thread"
)

// PostProcessor drains outbox and runs each event's post_process.
type PostProcessor struct {
	outbox    *eventqueue.Queue
	notifier  proto.Notifier
	reclaimer *reclaim.Reclaimer
}

// New builds a PostProcessor over the Executor's outbox.
func New(outbox *eventqueue.Queue, notifier proto.Notifier, reclaimer *reclaim.Reclaimer) *PostProcessor {
	return &PostProcessor{outbox: outbox, notifier: notifier, reclaimer: reclaimer}
}

// Drain runs post_process for every event currently queued in the outbox,
// then drains the Reclaimer. Called once per wake-semaphore release; the
// Engine's periodic backstop drains the Reclaimer directly, not through
// this method.
func (pp *PostProcessor) Drain() {
	thread.AssertNotAudioThread("postprocessor.Drain")
	for {
		ev, ok := pp.outbox.Pop()
		if !ok {
			break
		}
		ev.PostProcess(pp.notifier, pp.reclaimer)
	}
	pp.reclaimer.Drain()
}

// Run blocks, calling Drain every time wake fires, until wake is closed.
func (pp *PostProcessor) Run(wake <-chan struct{}) {
	for range wake {
		pp.Drain()
	}
}
