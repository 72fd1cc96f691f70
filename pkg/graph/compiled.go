package graph

import "github.com/sigflow/engine/pkg/block"

// Entry is one step of a CompiledGraph's schedule: a Block and the
// Connections that feed its input ports, in the order they must be
// processed before the Block runs.
type Entry struct {
	Block    *block.Block
	Incoming []*Connection
}

// CompiledGraph is the immutable, topologically ordered schedule the
// Executor walks once per period. Entry k may safely read the outputs of
// any entry k' < k that feeds it.
// CompiledGraph is the installed schedule: one Entry per child, in
// topological order, plus BridgeOut — the Connections feeding the Graph's
// own bridge Block from its children, processed once after every Entry has
// run since no child Entry exists for the Graph's own Block.
type CompiledGraph struct {
	Entries   []Entry
	BridgeOut []*Connection
}
