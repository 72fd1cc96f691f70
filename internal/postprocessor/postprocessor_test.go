package postprocessor

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/sigflow/engine/internal/eventqueue"
	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/pkg/proto"
)

type recordingEvent struct {
	events.Base
	ranPostProcess bool
}

func (e *recordingEvent) Execute(offset int) {}
func (e *recordingEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	e.ranPostProcess = true
}

func TestDrainRunsEveryQueuedEvent(t *testing.T) {
	outbox := eventqueue.New(4)
	a, b := &recordingEvent{}, &recordingEvent{}
	outbox.Push(a)
	outbox.Push(b)

	pp := New(outbox, nil, reclaim.New(4, nil))
	pp.Drain()

	if !a.ranPostProcess || !b.ranPostProcess {
		t.Fatal("expected both queued events to have PostProcess called")
	}
}

func TestDrainFlushesReclaimer(t *testing.T) {
	outbox := eventqueue.New(4)
	r := reclaim.New(4, nil)
	released := false
	r.Push(reclaim.Func(func() { released = true }))

	pp := New(outbox, nil, r)
	pp.Drain()

	if !released {
		t.Fatal("expected reclaimer to be drained alongside the outbox")
	}
}

func TestRunDrainsOnEachWake(t *testing.T) {
	defer goleak.VerifyNone(t)

	outbox := eventqueue.New(4)
	ev := &recordingEvent{}
	outbox.Push(ev)

	wake := make(chan struct{}, 1)
	pp := New(outbox, nil, reclaim.New(4, nil))

	done := make(chan struct{})
	go func() {
		pp.Run(wake)
		close(done)
	}()

	wake <- struct{}{}
	time.Sleep(10 * time.Millisecond) // let the drain goroutine process the wake
	close(wake)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after wake was closed")
	}

	if !ev.ranPostProcess {
		t.Fatal("expected the queued event to be post-processed after a wake")
	}
}
