package events

import (
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/proto"
	"github.com/sigflow/engine/pkg/sigerr"
)

// CreateGraphEvent installs a new, empty, disabled Graph as a child of an
// existing Graph.
type CreateGraphEvent struct {
	Base
	ParentPath   path.Path
	Symbol       string
	InternalPoly int

	parent  *graph.Graph
	created *graph.Graph
	newCG   *graph.CompiledGraph
}

func (e *CreateGraphEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.ParentPath)
	if err != nil {
		return err
	}
	if ref.Graph == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.ParentPath.String(), "parent is not a graph")
	}
	childPath, err := e.ParentPath.Child(e.Symbol)
	if err != nil {
		return err
	}
	e.Target = childPath
	e.created = graph.New(e.Symbol, childPath, e.InternalPoly)
	if err := ctx.Store.Add(childPath, storeGraphRef(e.created)); err != nil {
		return err
	}
	e.parent = ref.Graph
	// AddBlock runs here rather than in Execute, matching CreateBlockEvent:
	// Children is PreProcessor-thread bookkeeping only, and a subsequent
	// command targeting this Graph (e.g. CreateBlock inside it, or a
	// Connect against its bridge ports) has its own Prepare run on the
	// same thread immediately after this one, with no Execute in between.
	e.parent.AddBlock(e.created.Block)
	cg, err := e.parent.Compile()
	if err != nil {
		return err
	}
	e.newCG = cg
	return nil
}

func (e *CreateGraphEvent) Execute(offset int) {
	e.parent.Install(e.newCG)
}

func (e *CreateGraphEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Put(proto.Put{Path: e.Target.String()})
	}
	statusPostProcess(n, e.ReqID, nil)
}

// EnableGraphEvent flips a Graph's enabled flag on and installs its current
// CompiledGraph (compiling first if one hasn't been installed yet).
type EnableGraphEvent struct {
	Base
	target *graph.Graph
	fresh  *graph.CompiledGraph
}

func (e *EnableGraphEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.Target)
	if err != nil {
		return err
	}
	if ref.Graph == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.Target.String(), "target is not a graph")
	}
	e.target = ref.Graph
	if ref.Graph.Compiled() == nil {
		cg, err := ref.Graph.Compile()
		if err != nil {
			return err
		}
		e.fresh = cg
	}
	return nil
}

func (e *EnableGraphEvent) Execute(offset int) {
	if e.fresh != nil {
		e.target.Install(e.fresh)
	}
	e.target.Enable()
}

func (e *EnableGraphEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Delta(proto.Delta{Path: e.Target.String(), Added: map[string]any{"enabled": true}})
	}
	statusPostProcess(n, e.ReqID, nil)
}

// DisableGraphEvent flips a Graph's enabled flag off. Its Execute also
// clears every one of the Graph's own bridge Port buffers (inputs as well as
// outputs) once, on the period the flag transitions, so downstream consumers
// see silence rather than a stale buffer.
type DisableGraphEvent struct {
	Base
	target *graph.Graph
}

func (e *DisableGraphEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.Target)
	if err != nil {
		return err
	}
	if ref.Graph == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.Target.String(), "target is not a graph")
	}
	e.target = ref.Graph
	return nil
}

func (e *DisableGraphEvent) Execute(offset int) {
	e.target.Disable()
	for _, p := range e.target.Ports {
		p.ClearBuffers()
	}
}

func (e *DisableGraphEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Delta(proto.Delta{Path: e.Target.String(), Added: map[string]any{"enabled": false}})
	}
	statusPostProcess(n, e.ReqID, nil)
}
