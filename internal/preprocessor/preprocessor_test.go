package preprocessor

import (
	"testing"

	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/internal/eventqueue"
	"github.com/sigflow/engine/internal/store"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/proto"
)

type fakeClock struct{ frame uint64 }

func (c *fakeClock) CurrentFrame() uint64 { return c.frame }

type fakeNotifier struct {
	statuses []proto.Status
	puts     []proto.Put
}

func (n *fakeNotifier) Put(p proto.Put) { n.puts = append(n.puts, p) }
func (n *fakeNotifier) Delta(proto.Delta) {}
func (n *fakeNotifier) Connect(proto.Connect) {}
func (n *fakeNotifier) Disconnect(proto.Disconnect) {}
func (n *fakeNotifier) Delete(proto.Delete) {}
func (n *fakeNotifier) Move(proto.Move) {}
func (n *fakeNotifier) Activity(proto.Activity) {}
func (n *fakeNotifier) Error(proto.AsyncError) {}
func (n *fakeNotifier) Status(s proto.Status) { n.statuses = append(n.statuses, s) }

func newTestContext(t *testing.T) (*events.PrepareContext, *store.Store) {
	t.Helper()
	st := store.New()
	root := graph.New("root", path.Root, 1)
	if err := st.Add(path.Root, store.ObjectRef{Graph: root}); err != nil {
		t.Fatal(err)
	}
	return &events.PrepareContext{
		Store:       st,
		Catalog:     plugin.NewCatalog(),
		SampleRate:  48000,
		BlockLength: 64,
	}, st
}

func TestHandleValidCommandReachesQueue(t *testing.T) {
	ctx, _ := newTestContext(t)
	queue := eventqueue.New(4)
	notifier := &fakeNotifier{}
	pp := New(ctx, queue, &fakeClock{frame: 100}, notifier, Config{}, nil)

	pp.Handle(proto.Command{
		RequestID: "r1",
		Op:        "create_graph",
		Path:      "/",
		Args:      map[string]any{"symbol": "fx"},
	})

	ev, ok := queue.Pop()
	if !ok {
		t.Fatal("expected prepared event on the queue")
	}
	if ev.Time() != 100+defaultDeliveryMargin {
		t.Fatalf("Time() = %d, want %d", ev.Time(), 100+defaultDeliveryMargin)
	}
	if len(notifier.statuses) != 0 {
		t.Fatalf("expected no Status yet (that's PostProcess's job), got %+v", notifier.statuses)
	}
}

func TestHandleBadCommandReportsFailureNotQueued(t *testing.T) {
	ctx, _ := newTestContext(t)
	queue := eventqueue.New(4)
	notifier := &fakeNotifier{}
	pp := New(ctx, queue, &fakeClock{}, notifier, Config{}, nil)

	pp.Handle(proto.Command{RequestID: "bad", Op: "create_graph", Path: "/", Args: map[string]any{}})

	if _, ok := queue.Pop(); ok {
		t.Fatal("expected nothing queued for a command missing a required argument")
	}
	if len(notifier.statuses) != 1 || notifier.statuses[0].OK {
		t.Fatalf("expected one failing Status, got %+v", notifier.statuses)
	}
}

func TestHandleUnknownOpReportsFailure(t *testing.T) {
	ctx, _ := newTestContext(t)
	queue := eventqueue.New(4)
	notifier := &fakeNotifier{}
	pp := New(ctx, queue, &fakeClock{}, notifier, Config{}, nil)

	pp.Handle(proto.Command{RequestID: "r2", Op: "not_a_real_op", Path: "/"})

	if len(notifier.statuses) != 1 || notifier.statuses[0].OK {
		t.Fatalf("expected one failing Status for unknown op, got %+v", notifier.statuses)
	}
}

func TestHandleBackPressureReportsQueueFull(t *testing.T) {
	ctx, _ := newTestContext(t)
	queue := eventqueue.New(1) // capacity rounds to a small power of two
	notifier := &fakeNotifier{}
	pp := New(ctx, queue, &fakeClock{}, notifier, Config{PushRetries: 2}, nil)

	// Fill the ring first.
	pp.Handle(proto.Command{RequestID: "a", Op: "create_graph", Path: "/", Args: map[string]any{"symbol": "a"}})
	pp.Handle(proto.Command{RequestID: "b", Op: "create_graph", Path: "/", Args: map[string]any{"symbol": "b"}})

	found := false
	for _, s := range notifier.statuses {
		if s.RequestID == "b" && !s.OK {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a failing Status for the command dropped under back-pressure, got %+v", notifier.statuses)
	}
}
