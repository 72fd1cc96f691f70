package events

import (
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/pkg/block"
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/proto"
	"github.com/sigflow/engine/pkg/sigerr"
)

// CreateBlockEvent resolves and instantiates a Plugin, registers the
// resulting Block, and recompiles the parent Graph's schedule to include
// it.
type CreateBlockEvent struct {
	Base
	ParentPath path.Path
	Symbol     string
	PluginID   string
	Polyphony  int

	parent  *graph.Graph
	created *block.Block
	newCG   *graph.CompiledGraph
}

func (e *CreateBlockEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.ParentPath)
	if err != nil {
		return err
	}
	if ref.Graph == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.ParentPath.String(), "parent is not a graph")
	}
	plug := ctx.Catalog.Lookup(e.PluginID)
	if plug == nil {
		return sigerr.New(sigerr.KindPluginUnavailable, e.PluginID, "plugin not registered")
	}
	if e.Polyphony < 1 {
		return sigerr.New(sigerr.KindBadPoly, e.ParentPath.String(), "polyphony must be >= 1")
	}
	childPath, err := e.ParentPath.Child(e.Symbol)
	if err != nil {
		return err
	}
	b, err := block.NewPlugin(e.Symbol, childPath, plug, e.Polyphony, ctx.SampleRate, ctx.BlockLength)
	if err != nil {
		return err
	}
	for _, spec := range plug.Ports() {
		dir := port.Input
		if !spec.Input {
			dir = port.Output
		}
		p := port.New(spec.Symbol, spec.Index, dir, spec.Kind, e.Polyphony, ctx.BlockLength)
		p.Min, p.Max = spec.Min, spec.Max
		b.AddPort(p)
		for v := 0; v < e.Polyphony; v++ {
			if buf, err := p.Buffer(v); err == nil {
				b.SetPortBuffer(v, p.Index, buf)
			}
		}
		if spec.Input && (spec.Kind == buffer.KindControl || spec.Kind == buffer.KindCv) {
			_ = p.SetScalar(spec.Default, 0)
		}
	}
	if err := b.Activate(ctx.SampleRate, ctx.BlockLength, ctx.BlockLength); err != nil {
		return err
	}
	if err := ctx.Store.Add(childPath, storeBlockRef(b)); err != nil {
		return err
	}
	for _, p := range b.Ports {
		if err := ctx.Store.Add(p.Path, storePortRef(p)); err != nil {
			return err
		}
	}
	e.Target = childPath
	e.parent = ref.Graph
	e.created = b
	// AddBlock runs here rather than in Execute: Children is plain
	// PreProcessor-thread bookkeeping (the Executor only ever reads the
	// installed CompiledGraph, never Children directly), and a command
	// that immediately wires this Block (e.g. Connect) has its own
	// Prepare run on the same thread before this Block's Execute ever
	// fires, so isMember must already see it.
	e.parent.AddBlock(e.created)
	cg, err := e.parent.Compile()
	if err != nil {
		return err
	}
	e.newCG = cg
	return nil
}

func (e *CreateBlockEvent) Execute(offset int) {
	e.parent.Install(e.newCG)
}

func (e *CreateBlockEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Put(proto.Put{Path: e.Target.String()})
	}
	statusPostProcess(n, e.ReqID, nil)
}

// DeleteEvent detaches an object (Block or Graph) from its parent,
// disconnecting every Connection that touches one of its Ports and
// recompiling the parent's schedule without it, then hands the detached
// structure to the Reclaimer.
type DeleteEvent struct {
	Base

	parent   *graph.Graph
	oldBlock *block.Block
	oldGraph *graph.Graph
	newCG    *graph.CompiledGraph
}

func (e *DeleteEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.Target)
	if err != nil {
		return err
	}
	parentPath, ok := e.Target.Parent()
	if !ok {
		return sigerr.New(sigerr.KindBadPath, e.Target.String(), "cannot delete the root")
	}
	parentRef, err := ctx.Store.Find(parentPath)
	if err != nil {
		return err
	}
	if parentRef.Graph == nil {
		return sigerr.New(sigerr.KindTypeMismatch, parentPath.String(), "parent is not a graph")
	}
	e.parent = parentRef.Graph
	e.oldBlock = ref.Block
	e.oldGraph = ref.Graph

	var removed *block.Block
	switch {
	case e.oldBlock != nil:
		removed = e.oldBlock
	case e.oldGraph != nil:
		removed = e.oldGraph.Block
	default:
		return sigerr.New(sigerr.KindTypeMismatch, e.Target.String(), "target is not a block or graph")
	}

	owned := make(map[*port.Port]bool, len(removed.Ports))
	for _, p := range removed.Ports {
		owned[p] = true
	}
	for _, conn := range append([]*graph.Connection{}, e.parent.Connections...) {
		if owned[conn.Source()] || owned[conn.Sink()] {
			conn.MarkPendingDisconnect()
			e.parent.Disconnect(conn)
		}
	}

	// RemoveBlock runs here rather than in Execute, matching AddBlock:
	// Children is PreProcessor-thread bookkeeping, not something the
	// Executor reads directly.
	e.parent.RemoveBlock(removed)
	cg, err := e.parent.Compile()
	if err != nil {
		return err
	}
	e.newCG = cg

	ctx.Store.RemoveSubtree(e.Target)
	return nil
}

func (e *DeleteEvent) Execute(offset int) {
	e.parent.Install(e.newCG)
}

func (e *DeleteEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if r != nil {
		switch {
		case e.oldBlock != nil:
			b := e.oldBlock
			r.Push(reclaim.Func(func() { b.Deactivate() }))
		case e.oldGraph != nil:
			b := e.oldGraph.Block
			r.Push(reclaim.Func(func() { b.Deactivate() }))
		}
	}
	if n != nil {
		n.Delete(proto.Delete{Path: e.Target.String()})
	}
	statusPostProcess(n, e.ReqID, nil)
}
