// Package block implements Block, the unit of computation in a Graph: a
// wrapper around either an external Plugin, a built-in Internal primitive,
// or a nested Graph, exposing a uniform Ports list and per-voice Instances.
package block

import (
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/sigerr"
)

// Kind is the closed set of Block variants.
type Kind int

const (
	KindPlugin Kind = iota
	KindInternal
	KindGraph
)

// InternalKind enumerates the built-in primitives a Block of Kind Internal
// can be. Each bridges one external (parent-facing) Port to one internal
// (subgraph-facing) Port, copying buffer contents every period.
type InternalKind int

const (
	InternalNoteIn InternalKind = iota
	InternalControlIn
	InternalTriggerIn
	InternalAudioIn
	InternalAudioOut
	InternalControllerIn
)

// GraphHost is the minimal view of a nested Graph a Kind-Graph Block needs
// to recurse into its own installed schedule, kept narrow so this package
// does not depend on pkg/graph (which itself embeds *Block).
type GraphHost interface {
	RunEntries(nframes int)
}

// Block is a node in a Graph's child list: symbol, its own Path, the
// Plugin it wraps (nil for Internal/Graph blocks), one Instance per voice,
// its Ports (inputs then outputs, stable by index), and the two adjacency
// lists the Compiler maintains.
type Block struct {
	Symbol    string
	Path      path.Path
	Kind      Kind
	Internal  InternalKind
	Plugin    plugin.Plugin
	Instances []plugin.Instance
	Ports     []*port.Port
	Polyphony int

	// ChildGraph is set only for Kind == KindGraph, by the Graph that wraps
	// this Block as its own bridge Block. Run dispatches into it rather
	// than running an Instance.
	ChildGraph GraphHost

	Providers  []*Block
	Dependants []*Block

	activated bool
}

// NewPlugin wraps plug into a Block with one Instance per voice.
func NewPlugin(symbol string, p path.Path, plug plugin.Plugin, polyphony int, sampleRate float64, blockLength int) (*Block, error) {
	instances := make([]plugin.Instance, polyphony)
	for i := range instances {
		inst, err := plug.Instantiate(sampleRate, blockLength)
		if err != nil {
			return nil, sigerr.Wrap(sigerr.KindPluginUnavailable, p.String(), err)
		}
		instances[i] = inst
	}
	return &Block{
		Symbol:    symbol,
		Path:      p,
		Kind:      KindPlugin,
		Plugin:    plug,
		Instances: instances,
		Polyphony: polyphony,
	}, nil
}

// NewInternal builds a built-in primitive Block.
func NewInternal(symbol string, p path.Path, kind InternalKind, polyphony int) *Block {
	return &Block{
		Symbol:    symbol,
		Path:      p,
		Kind:      KindInternal,
		Internal:  kind,
		Polyphony: polyphony,
	}
}

// NewGraphHost builds the Block half of a nested Graph: its Ports serve as
// the bridge endpoints the parent Graph connects to. Run dispatches to
// ChildGraph, which the owning Graph sets on itself after construction.
func NewGraphHost(symbol string, p path.Path, polyphony int) *Block {
	return &Block{
		Symbol:    symbol,
		Path:      p,
		Kind:      KindGraph,
		Polyphony: polyphony,
	}
}

// AddPort appends a Port, preserving input-then-output, stable-by-index
// ordering; callers are responsible for adding inputs before outputs. The
// port's Path is stamped from the Block's own Path so Ports carry their
// canonical location without a reverse Store lookup.
func (b *Block) AddPort(p *port.Port) {
	p.Index = len(b.Ports)
	if childPath, err := b.Path.Child(p.Symbol); err == nil {
		p.Path = childPath
	}
	b.Ports = append(b.Ports, p)
}

// Port returns the Port at index i.
func (b *Block) Port(i int) (*port.Port, error) {
	if i < 0 || i >= len(b.Ports) {
		return nil, sigerr.New(sigerr.KindNotFound, b.Path.String(), "port index out of range")
	}
	return b.Ports[i], nil
}

// SetPortBuffer rewires voice v's Instance to read/write a different Buffer
// for port index i. Used when a Port is created (CreateBlockEvent,
// CreatePortEvent) to bind each voice's Buffer.
func (b *Block) SetPortBuffer(voice, portIndex int, buf *buffer.Buffer) {
	// Internal/Graph blocks don't own Instances to rewire; Plugin blocks do.
	if b.Kind != KindPlugin || voice < 0 || voice >= len(b.Instances) {
		return
	}
	b.Instances[voice].ConnectPort(portIndex, buf)
}

// Activate brings every voice's Instance up for the given format. Not
// realtime-safe; called from the PreProcessor or during installation.
func (b *Block) Activate(sampleRate float64, minFrames, maxFrames int) error {
	if b.Kind != KindPlugin {
		b.activated = true
		return nil
	}
	for _, inst := range b.Instances {
		if err := b.Plugin.Activate(inst, sampleRate, minFrames, maxFrames); err != nil {
			return sigerr.Wrap(sigerr.KindPluginUnavailable, b.Path.String(), err)
		}
	}
	b.activated = true
	return nil
}

// Deactivate tears every voice's Instance down.
func (b *Block) Deactivate() {
	if b.Kind == KindPlugin {
		for _, inst := range b.Instances {
			b.Plugin.Deactivate(inst)
		}
	}
	b.activated = false
}

// Activated reports whether Activate has run since the last Deactivate.
func (b *Block) Activated() bool { return b.activated }

// Run processes frames [start, end) for every voice. Preconditions: input
// Ports already hold this period's data (the Executor, or the parent
// Graph's own entry loop, populates them before calling Run); postcondition:
// output Ports hold this period's result. A Kind-Graph Block recurses into
// its ChildGraph's own installed schedule rather than running an Instance.
func (b *Block) Run(start, end int) {
	switch b.Kind {
	case KindPlugin:
		for _, inst := range b.Instances {
			inst.Run(start, end)
		}
	case KindInternal:
		b.runInternal(start, end)
	case KindGraph:
		if b.ChildGraph != nil {
			b.ChildGraph.RunEntries(end - start)
		}
	}
}

// runInternal bridges the external-facing port (index 0) to the
// internal-facing port (index 1) every period: *In primitives copy
// external -> internal, *Out primitives copy internal -> external.
func (b *Block) runInternal(start, end int) {
	if len(b.Ports) < 2 {
		return
	}
	external, internal := b.Ports[0], b.Ports[1]
	var src, dst *port.Port
	switch b.Internal {
	case InternalAudioOut:
		src, dst = internal, external
	default:
		src, dst = external, internal
	}
	for v := 0; v < b.Polyphony; v++ {
		sb, err1 := src.Buffer(v)
		db, err2 := dst.Buffer(v)
		if err1 != nil || err2 != nil {
			continue
		}
		db.Copy(sb, start, end)
	}
}
