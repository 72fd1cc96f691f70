package graph

import (
	"github.com/sigflow/engine/pkg/block"
	"github.com/sigflow/engine/pkg/sigerr"
)

// compile runs Kahn's algorithm over g's providers relation, breaking ties
// by child-insertion order, and returns CycleDetected if any child remains
// unvisited. It never mutates g; the caller installs the result.
func compile(g *Graph) (*CompiledGraph, error) {
	n := len(g.Children)
	index := make(map[*block.Block]int, n)
	for i, b := range g.Children {
		index[b] = i
	}

	indegree := make([]int, n)
	for i, b := range g.Children {
		indegree[i] = countWithinGraph(b.Providers, index)
	}

	ready := make([]bool, n)
	visited := make([]bool, n)
	for i := range g.Children {
		if indegree[i] == 0 {
			ready[i] = true
		}
	}

	owner := g.portOwners()
	incomingByBlock := make(map[*block.Block][]*Connection, n)
	for _, c := range g.Connections {
		dstBlock := owner[c.Sink()]
		if dstBlock == nil {
			// A port not yet swapped into its Block's Ports (its CreatePortEvent
			// has not executed) is resolved by its Path instead.
			if parent, ok := c.Sink().Path.Parent(); ok {
				if parent.Equal(g.Path) {
					dstBlock = g.Block
				}
				for _, b := range g.Children {
					if parent.Equal(b.Path) {
						dstBlock = b
					}
				}
			}
		}
		incomingByBlock[dstBlock] = append(incomingByBlock[dstBlock], c)
	}

	entries := make([]Entry, 0, n)
	processed := 0

	for {
		progressed := false
		for i, b := range g.Children {
			if visited[i] || !ready[i] {
				continue
			}
			visited[i] = true
			processed++
			progressed = true
			entries = append(entries, Entry{Block: b, Incoming: incomingByBlock[b]})

			for _, d := range b.Dependants {
				j, ok := index[d]
				if !ok {
					continue
				}
				indegree[j]--
				if indegree[j] == 0 {
					ready[j] = true
				}
			}
		}
		if !progressed {
			break
		}
	}

	if processed != n {
		return nil, sigerr.New(sigerr.KindCycleDetected, g.Path.String(), "graph contains a cycle")
	}
	return &CompiledGraph{Entries: entries, BridgeOut: incomingByBlock[g.Block]}, nil
}

// countWithinGraph counts how many of providers are children of the graph
// being compiled. A provider that is the graph's own bridge Block doesn't
// gate compile order: the Executor always pulls external inputs before
// walking the schedule.
func countWithinGraph(providers []*block.Block, index map[*block.Block]int) int {
	count := 0
	for _, p := range providers {
		if _, ok := index[p]; ok {
			count++
		}
	}
	return count
}
