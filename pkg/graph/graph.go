package graph

import (
	"sync/atomic"

	"github.com/sigflow/engine/pkg/block"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/sigerr"
)

// Graph is a Block whose children are Blocks wired by Connections. It
// carries its own external Ports (inherited from the embedded Block, used
// as bridge endpoints by the child Blocks inside it) and an installed,
// atomically-swapped CompiledGraph.
type Graph struct {
	*block.Block

	InternalPoly int
	Children     []*block.Block
	Connections  []*Connection

	enabled  int32 // atomic bool
	compiled atomic.Pointer[CompiledGraph]
}

// New builds an empty, disabled Graph at p with the given internal
// polyphony (fanout for its polyphonic children).
func New(symbol string, p path.Path, internalPoly int) *Graph {
	g := &Graph{
		Block:        block.NewGraphHost(symbol, p, 1),
		InternalPoly: internalPoly,
	}
	g.Block.ChildGraph = g
	return g
}

// AddBlock appends b to the child list, preserving insertion order.
func (g *Graph) AddBlock(b *block.Block) {
	g.Children = append(g.Children, b)
}

// RemoveBlock detaches b from the child list, preserving the relative
// order of the remaining children.
func (g *Graph) RemoveBlock(b *block.Block) {
	for i, c := range g.Children {
		if c == b {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			return
		}
	}
}

// isMember reports whether b is this graph itself (a bridge endpoint) or
// one of its direct children.
func (g *Graph) isMember(b *block.Block) bool {
	if b == g.Block {
		return true
	}
	for _, c := range g.Children {
		if c == b {
			return true
		}
	}
	return false
}

// Connect wires srcPort (an output of srcBlock) to dstPort (an input of
// dstBlock). Both blocks must be this graph or a direct child of it. A port
// of this graph itself is a bridge port, and its declared direction is not
// checked.
func (g *Graph) Connect(srcBlock, dstBlock *block.Block, srcPort, dstPort *port.Port) (*Connection, error) {
	if !g.isMember(srcBlock) || !g.isMember(dstBlock) {
		return nil, sigerr.New(sigerr.KindParentDiffers, dstPort.Symbol, "connection endpoints belong to different parents")
	}
	var conn *Connection
	if srcBlock == g.Block || dstBlock == g.Block {
		// Seen from inside, an input bridge port is a source and an output
		// bridge port a sink, so only the child side's direction is checked.
		if (srcBlock != g.Block && srcPort.Direction != port.Output) ||
			(dstBlock != g.Block && dstPort.Direction != port.Input) ||
			srcPort.Kind != dstPort.Kind ||
			(srcPort.Polyphony != dstPort.Polyphony && srcPort.Polyphony != 1 && dstPort.Polyphony != 1) {
			return nil, sigerr.New(sigerr.KindTypeMismatch, dstPort.Symbol, "incompatible bridge connection endpoints")
		}
		conn = &Connection{from: srcPort, to: dstPort}
	} else {
		var err error
		if conn, err = NewConnection(srcPort, dstPort); err != nil {
			return nil, err
		}
	}
	if dstPort.Direction == port.Input {
		if err := dstPort.ConnectInput(conn); err != nil {
			return nil, err
		}
	}
	appendUnique(&dstBlock.Providers, srcBlock)
	appendUnique(&srcBlock.Dependants, dstBlock)
	g.Connections = append(g.Connections, conn)
	return conn, nil
}

// Disconnect removes conn from the graph and rebuilds adjacency from the
// remaining connections.
func (g *Graph) Disconnect(conn *Connection) {
	for i, c := range g.Connections {
		if c == conn {
			g.Connections = append(g.Connections[:i], g.Connections[i+1:]...)
			break
		}
	}
	conn.Sink().DisconnectInput(conn)
	g.rebuildAdjacency()
}

func (g *Graph) rebuildAdjacency() {
	owner := g.portOwners()
	for _, b := range g.Children {
		b.Providers = nil
		b.Dependants = nil
	}
	g.Block.Providers = nil
	g.Block.Dependants = nil
	for _, c := range g.Connections {
		srcBlock := owner[c.Source()]
		dstBlock := owner[c.Sink()]
		if srcBlock == nil || dstBlock == nil {
			continue
		}
		appendUnique(&dstBlock.Providers, srcBlock)
		appendUnique(&srcBlock.Dependants, dstBlock)
	}
}

func (g *Graph) portOwners() map[*port.Port]*block.Block {
	owners := make(map[*port.Port]*block.Block)
	for _, p := range g.Block.Ports {
		owners[p] = g.Block
	}
	for _, b := range g.Children {
		for _, p := range b.Ports {
			owners[p] = b
		}
	}
	return owners
}

func appendUnique(list *[]*block.Block, b *block.Block) {
	for _, existing := range *list {
		if existing == b {
			return
		}
	}
	*list = append(*list, b)
}

// Enabled reports whether the Executor should run this graph's schedule.
func (g *Graph) Enabled() bool { return atomic.LoadInt32(&g.enabled) != 0 }

// Enable turns execution on.
func (g *Graph) Enable() { atomic.StoreInt32(&g.enabled, 1) }

// Disable turns execution off. The caller (DisableGraphEvent.Execute, on the
// Executor thread) clears the port buffers once before subsequent periods
// skip this graph.
func (g *Graph) Disable() { atomic.StoreInt32(&g.enabled, 0) }

// Compiled returns the currently installed CompiledGraph, or nil if none
// has been installed yet.
func (g *Graph) Compiled() *CompiledGraph { return g.compiled.Load() }

// Install atomically swaps in a new CompiledGraph, returning the previous
// one (nil if none) so the caller can hand it to the Reclaimer.
func (g *Graph) Install(cg *CompiledGraph) *CompiledGraph {
	return g.compiled.Swap(cg)
}

// Compile produces a new CompiledGraph via topological sort without
// installing it; the caller installs it in the audio thread via Install.
func (g *Graph) Compile() (*CompiledGraph, error) {
	return compile(g)
}
