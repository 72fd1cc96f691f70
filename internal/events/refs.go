package events

import (
	"github.com/sigflow/engine/internal/store"
	"github.com/sigflow/engine/pkg/block"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/port"
)

func storeGraphRef(g *graph.Graph) store.ObjectRef { return store.ObjectRef{Graph: g} }
func storeBlockRef(b *block.Block) store.ObjectRef { return store.ObjectRef{Block: b} }
func storePortRef(p *port.Port) store.ObjectRef    { return store.ObjectRef{Port: p} }
