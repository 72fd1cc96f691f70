package events_test

import (
	"testing"

	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/internal/store"
	"github.com/sigflow/engine/pkg/demoplugins"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/plugin"
)

func newMoveTestContext(t *testing.T) (*events.PrepareContext, *store.Store) {
	t.Helper()
	st := store.New()
	root := graph.New("root", path.Root, 1)
	if err := st.Add(path.Root, store.ObjectRef{Graph: root}); err != nil {
		t.Fatal(err)
	}
	catalog := plugin.NewCatalog()
	demoplugins.RegisterAll(catalog)
	return &events.PrepareContext{Store: st, Catalog: catalog, SampleRate: 48000, BlockLength: 64}, st
}

func createGain(t *testing.T, ctx *events.PrepareContext, symbol string) {
	t.Helper()
	ev := &events.CreateBlockEvent{
		ParentPath: path.Root,
		Symbol:     symbol,
		PluginID:   "sigflow.gain",
		Polyphony:  1,
	}
	if err := ev.Prepare(ctx); err != nil {
		t.Fatalf("create %s: %v", symbol, err)
	}
	ev.Execute(0)
}

// TestMoveUpdatesConnectionEndpoints exercises spec scenario 6 verbatim:
// Move(/a, /a2) must leave a live Connection reporting its new endpoint
// path, not the stale pre-rename one.
func TestMoveUpdatesConnectionEndpoints(t *testing.T) {
	ctx, st := newMoveTestContext(t)
	createGain(t, ctx, "a")
	createGain(t, ctx, "b")

	connect := &events.ConnectEvent{SrcPath: path.MustParse("/a/out"), DstPath: path.MustParse("/b/in")}
	if err := connect.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	connect.Execute(0)

	move := &events.MoveEvent{NewPath: path.MustParse("/a2")}
	move.Target = path.MustParse("/a")
	if err := move.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	move.Execute(0)

	rootRef, err := st.Find(path.Root)
	if err != nil {
		t.Fatal(err)
	}
	var conn *graph.Connection
	for _, c := range rootRef.Graph.Connections {
		conn = c
	}
	if conn == nil {
		t.Fatal("expected the a->b connection to still be installed after the move")
	}
	if got := conn.Source().Path.String(); got != "/a2/out" {
		t.Fatalf("Source().Path = %q, want /a2/out", got)
	}

	if _, err := st.Find(path.MustParse("/a2/out")); err != nil {
		t.Fatalf("expected /a2/out to resolve in the Store after the move: %v", err)
	}
	if _, err := st.Find(path.MustParse("/a/out")); err == nil {
		t.Fatal("expected /a/out to no longer resolve after the move")
	}

	// A subsequent Disconnect against the moved block's new path must still
	// resolve it as a member of root (ownerBlock compares Paths, so this
	// exercises that the Port.Path rewrite actually landed rather than
	// leaving ownerBlock unable to find the renamed block's Ports).
	disconnect := &events.DisconnectEvent{SrcPath: path.MustParse("/a2/out"), DstPath: path.MustParse("/b/in")}
	if err := disconnect.Prepare(ctx); err != nil {
		t.Fatalf("disconnect after move: %v", err)
	}
}

// TestMoveUpdatesGraphSubtree exercises Move on a Graph target: every
// child's (and its Ports') Path must be re-rooted under the new prefix.
func TestMoveUpdatesGraphSubtree(t *testing.T) {
	ctx, st := newMoveTestContext(t)

	createGraph := &events.CreateGraphEvent{ParentPath: path.Root, Symbol: "fx"}
	if err := createGraph.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	createGraph.Execute(0)

	createGainInFx := &events.CreateBlockEvent{
		ParentPath: path.MustParse("/fx"),
		Symbol:     "a",
		PluginID:   "sigflow.gain",
		Polyphony:  1,
	}
	if err := createGainInFx.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	createGainInFx.Execute(0)

	move := &events.MoveEvent{NewPath: path.MustParse("/fx2")}
	move.Target = path.MustParse("/fx")
	if err := move.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	move.Execute(0)

	ref, err := st.Find(path.MustParse("/fx2/a/out"))
	if err != nil {
		t.Fatalf("expected /fx2/a/out to resolve in the Store: %v", err)
	}
	if got := ref.Port.Path.String(); got != "/fx2/a/out" {
		t.Fatalf("Port.Path = %q, want /fx2/a/out", got)
	}
}
