package graph

// RunEntries walks this Graph's installed CompiledGraph, if enabled and
// present: each child Entry's own Ports are prepared and its incoming
// Connections processed before/after — before, since those Connections are
// exactly what feeds a child's (or, recursively, a nested Graph's own)
// input ports; after, since BridgeOut — the Connections whose sink is this
// Graph's own bridge Block, fed by a child once every child has run — has
// no Entry of its own to run them from. It does not touch g.Block.Ports:
// those are this Graph's own bridge endpoints, prepared exactly once by
// whichever caller treats this Graph as an ordinary entry — the Executor
// for the root Graph, or the parent's own entry loop for a nested one.
func (g *Graph) RunEntries(nframes int) {
	if !g.Enabled() {
		return
	}
	cg := g.Compiled()
	if cg == nil {
		return
	}
	for _, entry := range cg.Entries {
		for _, p := range entry.Block.Ports {
			p.PrepareBuffers(nframes)
		}
		processEntry(entry, nframes)
	}
	processIncoming(cg.BridgeOut, nframes)
}

// processEntry runs one CompiledGraph entry: its incoming Connections write
// into its sink, then the Block runs (recursing into a nested Graph's own
// RunEntries when the entry is itself a Kind-Graph Block).
func processEntry(entry Entry, nframes int) {
	processIncoming(entry.Incoming, nframes)
	entry.Block.Run(0, nframes)
}

// processIncoming writes every Connection's contribution into its sink,
// clearing the sink once before the first of several connections on the
// same sink sums into it.
func processIncoming(incoming []*Connection, nframes int) {
	n := len(incoming)
	for i := 0; i < n; i++ {
		c := incoming[i]
		sink := c.Sink()

		count, first := 0, i
		for j := 0; j < n; j++ {
			if incoming[j].Sink() == sink {
				count++
				if j < first {
					first = j
				}
			}
		}
		accumulate := count > 1
		if accumulate && i == first {
			sink.ClearBuffers()
		}

		c.Prepare(nframes)
		_ = c.Process(nframes, accumulate)
	}
}
