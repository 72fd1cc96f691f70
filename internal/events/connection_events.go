package events

import (
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/pkg/block"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/proto"
	"github.com/sigflow/engine/pkg/sigerr"
)

// ConnectEvent wires an output Port to an input Port within a common parent
// Graph, recompiling that Graph's schedule in Prepare so Execute only
// installs a Connection plus the new CompiledGraph.
type ConnectEvent struct {
	Base
	SrcPath path.Path
	DstPath path.Path

	parent      *graph.Graph
	conn        *graph.Connection
	newCG       *graph.CompiledGraph
	blockLength int
}

func (e *ConnectEvent) Prepare(ctx *PrepareContext) error {
	srcRef, err := ctx.Store.Find(e.SrcPath)
	if err != nil {
		return err
	}
	dstRef, err := ctx.Store.Find(e.DstPath)
	if err != nil {
		return err
	}
	if srcRef.Port == nil || dstRef.Port == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.DstPath.String(), "connect requires two ports")
	}
	parent, err := findParentGraph(ctx, e.SrcPath, e.DstPath)
	if err != nil {
		return err
	}
	e.parent = parent

	srcOwner := ownerBlock(e.parent, srcRef.Port)
	dstOwner := ownerBlock(e.parent, dstRef.Port)
	if srcOwner == nil || dstOwner == nil {
		return sigerr.New(sigerr.KindParentDiffers, e.DstPath.String(), "connection endpoints belong to different parents")
	}
	conn, err := e.parent.Connect(srcOwner, dstOwner, srcRef.Port, dstRef.Port)
	if err != nil {
		return err
	}
	cg, err := e.parent.Compile()
	if err != nil {
		e.parent.Disconnect(conn)
		return err
	}
	e.conn = conn
	e.newCG = cg
	e.blockLength = ctx.BlockLength
	return nil
}

func (e *ConnectEvent) Execute(offset int) {
	e.conn.Prepare(e.blockLength)
	e.parent.Install(e.newCG)
}

func (e *ConnectEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Connect(proto.Connect{Src: e.SrcPath.String(), Dst: e.DstPath.String()})
	}
	statusPostProcess(n, e.ReqID, nil)
}

// DisconnectEvent tears down a single Connection.
type DisconnectEvent struct {
	Base
	SrcPath path.Path
	DstPath path.Path

	parent *graph.Graph
	conn   *graph.Connection
	newCG  *graph.CompiledGraph
}

func (e *DisconnectEvent) Prepare(ctx *PrepareContext) error {
	srcRef, err := ctx.Store.Find(e.SrcPath)
	if err != nil {
		return err
	}
	dstRef, err := ctx.Store.Find(e.DstPath)
	if err != nil {
		return err
	}
	parent, err := findParentGraph(ctx, e.SrcPath, e.DstPath)
	if err != nil {
		return err
	}
	e.parent = parent

	conn := findConnection(e.parent, srcRef.Port, dstRef.Port)
	if conn == nil {
		return sigerr.New(sigerr.KindNotFound, e.DstPath.String(), "no such connection")
	}
	conn.MarkPendingDisconnect()
	e.parent.Disconnect(conn)
	e.conn = conn
	cg, err := e.parent.Compile()
	if err != nil {
		return err
	}
	e.newCG = cg
	return nil
}

func (e *DisconnectEvent) Execute(offset int) {
	e.parent.Install(e.newCG)
}

func (e *DisconnectEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	if n != nil {
		n.Disconnect(proto.Disconnect{Src: e.SrcPath.String(), Dst: e.DstPath.String()})
	}
	statusPostProcess(n, e.ReqID, nil)
}

// DisconnectAllEvent tears down every Connection touching a Port, expressed
// as the table prescribes: a list of per-connection disconnects executed in
// order. For a Graph's own bridge port, only the Connections inside that
// Graph are found.
type DisconnectAllEvent struct {
	Base
	children []*DisconnectEvent
}

func (e *DisconnectAllEvent) Prepare(ctx *PrepareContext) error {
	ref, err := ctx.Store.Find(e.Target)
	if err != nil {
		return err
	}
	if ref.Port == nil {
		return sigerr.New(sigerr.KindTypeMismatch, e.Target.String(), "target is not a port")
	}
	parentPath, ok := e.Target.Parent()
	if !ok {
		return sigerr.New(sigerr.KindBadPath, e.Target.String(), "port has no parent")
	}
	parentRef, err := ctx.Store.Find(parentPath)
	if err != nil {
		return err
	}
	parent := parentRef.Graph
	if parent == nil {
		// A child Block's port: its Connections live in that Block's parent Graph.
		if gp, ok := parentPath.Parent(); ok {
			if gpRef, err := ctx.Store.Find(gp); err == nil {
				parent = gpRef.Graph
			}
		}
	}
	if parent == nil {
		return sigerr.New(sigerr.KindTypeMismatch, parentPath.String(), "parent is not a graph")
	}

	for _, conn := range parent.Connections {
		if conn.Source() != ref.Port && conn.Sink() != ref.Port {
			continue
		}
		conn.MarkPendingDisconnect()
		child := &DisconnectEvent{parent: parent, conn: conn}
		child.SrcPath = conn.Source().Path
		child.DstPath = conn.Sink().Path
		e.children = append(e.children, child)
	}
	for _, child := range e.children {
		parent.Disconnect(child.conn)
	}
	if len(e.children) > 0 {
		cg, err := parent.Compile()
		if err != nil {
			return err
		}
		for _, child := range e.children {
			child.newCG = cg
		}
	}
	return nil
}

func (e *DisconnectAllEvent) Execute(offset int) {
	for _, c := range e.children {
		if c.parent != nil && c.newCG != nil {
			c.parent.Install(c.newCG)
		}
	}
}

func (e *DisconnectAllEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	for _, c := range e.children {
		c.PostProcess(n, r)
	}
	statusPostProcess(n, e.ReqID, nil)
}

// findParentGraph locates the Graph that owns both srcPath and dstPath as
// either its own bridge ports or ports of one of its direct children. A
// port's path parent is its owning Block's path, or (for a bridge port)
// the owning Graph's own path directly — so the candidate search walks up
// one or two levels from each path rather than assuming both ports share
// an identical path parent, which only sibling bridge ports would.
func findParentGraph(ctx *PrepareContext, a, b path.Path) (*graph.Graph, error) {
	var candidates []path.Path
	candidates = appendCandidate(candidates, path.Root)
	for _, p := range []path.Path{a, b} {
		if owner, ok := p.Parent(); ok {
			candidates = appendCandidate(candidates, owner)
			if grandparent, ok := owner.Parent(); ok {
				candidates = appendCandidate(candidates, grandparent)
			}
		}
	}

	srcRef, err := ctx.Store.Find(a)
	if err != nil {
		return nil, err
	}
	dstRef, err := ctx.Store.Find(b)
	if err != nil {
		return nil, err
	}
	if srcRef.Port == nil || dstRef.Port == nil {
		return nil, sigerr.New(sigerr.KindTypeMismatch, b.String(), "endpoints must be ports")
	}

	for _, cp := range candidates {
		ref, err := ctx.Store.Find(cp)
		if err != nil || ref.Graph == nil {
			continue
		}
		if ownerBlock(ref.Graph, srcRef.Port) != nil && ownerBlock(ref.Graph, dstRef.Port) != nil {
			return ref.Graph, nil
		}
	}
	return nil, sigerr.New(sigerr.KindParentDiffers, b.String(), "ports have no common parent graph")
}

func appendCandidate(list []path.Path, p path.Path) []path.Path {
	for _, existing := range list {
		if existing.Equal(p) {
			return list
		}
	}
	return append(list, p)
}

// ownerBlock finds which Block (possibly the Graph's own bridge Block) owns
// p, by comparing p's Path to each candidate's own Path rather than
// scanning Ports slices. A newly created Port's Path is stamped
// synchronously in Prepare (AddPort/CreatePortEvent), while the Ports
// slice itself is only swapped in during Execute to avoid racing the
// Executor's unconditional per-period read of a live Block's Ports — so a
// Ports-slice scan would miss a port its own command just created.
func ownerBlock(g *graph.Graph, p *port.Port) *block.Block {
	owner, ok := p.Path.Parent()
	if !ok {
		return nil
	}
	if owner.Equal(g.Path) {
		return g.Block
	}
	for _, child := range g.Children {
		if owner.Equal(child.Path) {
			return child
		}
	}
	return nil
}

// findConnection locates the live Connection from src to dst among g's own
// Connections.
func findConnection(g *graph.Graph, src, dst *port.Port) *graph.Connection {
	for _, c := range g.Connections {
		if c.Source() == src && c.Sink() == dst {
			return c
		}
	}
	return nil
}
