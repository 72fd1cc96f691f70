package eventqueue

import (
	"testing"

	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/pkg/proto"
)

// fakeEvent is a minimal Event used only to exercise the ring; none of its
// methods beyond Time/SetTime (ordering) and identity matter here.
type fakeEvent struct {
	events.Base
	tag int
}

func (e *fakeEvent) Execute(offset int) {}
func (e *fakeEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {}

func TestPushPopFIFOOrder(t *testing.T) {
	q := New(8)
	for i := 0; i < 5; i++ {
		ev := &fakeEvent{tag: i}
		ev.SetTime(uint32(i))
		if !q.Push(ev) {
			t.Fatalf("push %d failed", i)
		}
	}
	for i := 0; i < 5; i++ {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("pop %d: ring empty early", i)
		}
		fe, ok := got.(*fakeEvent)
		if !ok || fe.tag != i {
			t.Fatalf("pop %d: got %+v, want tag %d", i, got, i)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected empty ring after draining all pushes")
	}
}

func TestPopEmptyReturnsFalse(t *testing.T) {
	q := New(4)
	if _, ok := q.Pop(); ok {
		t.Fatal("expected false from Pop on empty queue")
	}
}
