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

// CreatePortEvent adds a new Port to an existing Block (or to a Graph's own
// bridge Block, for a graph port), swapping in a
// lengthened Ports slice so the Executor's Execute step never allocates.
type CreatePortEvent struct {
	Base
	BlockPath path.Path
	Symbol    string
	Direction port.Direction
	Kind      buffer.Kind
	Polyphony int
	Capacity  int

	target     *block.Block
	created    *port.Port
	newPorts   []*port.Port
}

func (e *CreatePortEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.BlockPath)
	if err != nil {
		return err
	}
	target := ref.Block
	if target == nil && ref.Graph != nil {
		target = ref.Graph.Block
	}
	if target == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.BlockPath.String(), "target is not a block or graph")
	}
	e.target = target
	e.created = port.New(e.Symbol, len(target.Ports), e.Direction, e.Kind, e.Polyphony, e.Capacity)
	e.newPorts = append(append([]*port.Port{}, target.Ports...), e.created)
	for v := 0; v < e.Polyphony; v++ {
		if buf, err := e.created.Buffer(v); err == nil {
			target.SetPortBuffer(v, e.created.Index, buf)
		}
	}

	portPath, err := e.BlockPath.Child(e.Symbol)
	if err != nil {
		return err
	}
	e.created.Path = portPath
	if err := ctx.Store.Add(portPath, storePortRef(e.created)); err != nil {
		return err
	}
	e.Target = portPath
	return nil
}

func (e *CreatePortEvent) Execute(offset int) {
	e.target.Ports = e.newPorts
}

func (e *CreatePortEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Put(proto.Put{Path: e.Target.String()})
	}
	statusPostProcess(n, e.ReqID, nil)
}

// SetPortValueEvent writes a Control/Cv scalar at a given intra-period
// offset.
type SetPortValueEvent struct {
	Base
	Value float64

	target *port.Port
}

func (e *SetPortValueEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.Target)
	if err != nil {
		return err
	}
	if ref.Port == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.Target.String(), "target is not a port")
	}
	e.target = ref.Port
	return nil
}

func (e *SetPortValueEvent) Execute(offset int) {
	_ = e.target.SetScalar(e.Value, offset)
}

func (e *SetPortValueEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Delta(proto.Delta{Path: e.Target.String(), Added: map[string]any{"value": e.Value}})
	}
	statusPostProcess(n, e.ReqID, nil)
}

// SetPropertyEvent sets one named entry of a Port's Properties map; any
// other target kind is rejected, Min and Max are never written, and a Port
// with a nil Properties map is left unchanged. Polyphony or enable-state
// changes on a Block/Graph are intentionally out of scope for this event;
// those go through dedicated EnableGraph/DisableGraph or a future
// SetPolyphony event.
type SetPropertyEvent struct {
	Base
	Name  string
	Value float64

	target *port.Port
}

func (e *SetPropertyEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.Target)
	if err != nil {
		return err
	}
	if ref.Port == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.Target.String(), "property target must be a port")
	}
	e.target = ref.Port
	return nil
}

func (e *SetPropertyEvent) Execute(offset int) {
	if e.target.Properties == nil {
		return
	}
	e.target.Properties[e.Name] = e.Value
}

func (e *SetPropertyEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Delta(proto.Delta{Path: e.Target.String(), Added: map[string]any{e.Name: e.Value}})
	}
	statusPostProcess(n, e.ReqID, nil)
}

// MoveEvent renames a Path, preserving every Connection since Connections
// reference live *port.Port values, not paths. The Store rename itself runs
// in Prepare (the Store is never touched from the Executor thread, per
// this engine's concurrency model) and already relocates every descendant
// entry's map key; Execute updates the moved object's own cached Path
// fields (and, for a Block or Graph, every Port's and child's Path) to
// match, so a live Connection's Source()/Sink() report the new location
// immediately.
type MoveEvent struct {
	Base
	NewPath path.Path

	renamedBlock *block.Block
	renamedGraph *graph.Graph
	renamedPort  *port.Port
}

func (e *MoveEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.Target)
	if err != nil {
		return err
	}
	if _, err := ctx.Store.Find(e.NewPath); err == nil {
		return sigerr.New(sigerr.KindExists, e.NewPath.String(), "move target already in use")
	}
	if err := ctx.Store.Rename(e.Target, e.NewPath); err != nil {
		return err
	}
	switch {
	case ref.Graph != nil:
		e.renamedGraph = ref.Graph
	case ref.Block != nil:
		e.renamedBlock = ref.Block
	case ref.Port != nil:
		e.renamedPort = ref.Port
	}
	return nil
}

func (e *MoveEvent) Execute(offset int) {
	switch {
	case e.renamedGraph != nil:
		rewriteGraphPath(e.renamedGraph, e.NewPath)
	case e.renamedBlock != nil:
		rewriteBlockPath(e.renamedBlock, e.NewPath)
	case e.renamedPort != nil:
		e.renamedPort.Path = e.NewPath
	}
}

// rewriteBlockPath stamps newPath onto b and re-derives every one of its
// Ports' Path from it, mirroring the stamping Block.AddPort does at
// construction time.
func rewriteBlockPath(b *block.Block, newPath path.Path) {
	b.Path = newPath
	for _, p := range b.Ports {
		if pp, err := newPath.Child(p.Symbol); err == nil {
			p.Path = pp
		}
	}
}

// rewriteGraphPath stamps newPath onto g's own bridge Block (and its Ports)
// then recurses into every child, following ChildGraph for nested
// Kind-Graph children so their own Children get re-rooted too.
func rewriteGraphPath(g *graph.Graph, newPath path.Path) {
	rewriteBlockPath(g.Block, newPath)
	for _, child := range g.Children {
		childPath, err := newPath.Child(child.Symbol)
		if err != nil {
			continue
		}
		if child.Kind == block.KindGraph {
			if childGraph, ok := child.ChildGraph.(*graph.Graph); ok {
				rewriteGraphPath(childGraph, childPath)
				continue
			}
		}
		rewriteBlockPath(child, childPath)
	}
}

func (e *MoveEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Move(proto.Move{Old: e.Target.String(), New: e.NewPath.String()})
	}
	statusPostProcess(n, e.ReqID, nil)
}
