package executor

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/sigflow/engine/internal/eventqueue"
	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/pkg/block"
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/proto"
)

// fakeBackend hands back fixed-size buffers and a monotonic frame counter,
// grounded on pkg/demoplugins.TickerBackend but kept local to avoid a
// demoplugins import from an internal package.
type fakeBackend struct {
	sampleRate float64
	blockLen   int
	frame      uint64
	ins, outs  []*buffer.Buffer
}

func newFakeBackend(blockLen int) *fakeBackend {
	in := buffer.New(buffer.KindAudio, blockLen)
	out := buffer.New(buffer.KindAudio, blockLen)
	return &fakeBackend{sampleRate: 48000, blockLen: blockLen, ins: []*buffer.Buffer{in}, outs: []*buffer.Buffer{out}}
}

func (b *fakeBackend) SampleRate() float64 { return b.sampleRate }
func (b *fakeBackend) BlockLength() int { return b.blockLen }
func (b *fakeBackend) CurrentFrame() uint64 { return b.frame }
func (b *fakeBackend) Inputs() []*buffer.Buffer { return b.ins }
func (b *fakeBackend) Outputs() []*buffer.Buffer { return b.outs }

// recordingEvent records the offset it was executed at.
type recordingEvent struct {
	events.Base
	gotOffset int
	ran       bool
}

func (e *recordingEvent) Execute(offset int) { e.ran = true; e.gotOffset = offset }
func (e *recordingEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {}

func newRootGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New("root", path.Root, 1)
	in := port.New("in", 0, port.Input, buffer.KindAudio, 1, 64)
	out := port.New("out", 1, port.Output, buffer.KindAudio, 1, 64)
	g.AddPort(in)
	g.AddPort(out)
	return g
}

func TestDrainExecutesDueEventInOffset(t *testing.T) {
	g := newRootGraph(t)
	inbox, outbox := eventqueue.New(8), eventqueue.New(8)
	e := New(g, newFakeBackend(64), inbox, outbox, make(chan struct{}, 1), Config{}, nil)

	ev := &recordingEvent{}
	ev.SetTime(40)
	inbox.Push(ev)

	e.Process(64, 0)

	if !ev.ran {
		t.Fatal("expected due event to run")
	}
	if ev.gotOffset != 40 {
		t.Fatalf("offset = %d, want 40", ev.gotOffset)
	}
	if _, ok := outbox.Pop(); !ok {
		t.Fatal("expected executed event forwarded to outbox")
	}
}

func TestDrainHoldsNotYetDueEvent(t *testing.T) {
	g := newRootGraph(t)
	inbox, outbox := eventqueue.New(8), eventqueue.New(8)
	e := New(g, newFakeBackend(64), inbox, outbox, make(chan struct{}, 1), Config{}, nil)

	ev := &recordingEvent{}
	ev.SetTime(1000)
	inbox.Push(ev)

	e.Process(64, 0)
	if ev.ran {
		t.Fatal("expected far-future event to be held, not run")
	}
	if _, ok := outbox.Pop(); ok {
		t.Fatal("expected nothing forwarded to outbox yet")
	}

	e.Process(64, 64*15) // periodStart+nframes now covers frame 1000
	if !ev.ran {
		t.Fatal("expected held event to run once its deadline is reached")
	}
}

func TestSignalNonBlockingWhenWakeFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newRootGraph(t)
	inbox, outbox := eventqueue.New(8), eventqueue.New(8)
	wake := make(chan struct{}, 1)
	wake <- struct{}{} // pre-fill
	e := New(g, newFakeBackend(64), inbox, outbox, wake, Config{}, nil)

	done := make(chan struct{})
	go func() {
		e.Process(64, 0)
		close(done)
	}()
	select {
	case <-done:
	default:
	}
	<-done // Process must return even though wake is already full
}

// copyPlugin copies its single input to its single output, grounded on
// pkg/graph's own test plugin.
type copyPlugin struct{}

func (copyPlugin) Info() plugin.Info { return plugin.Info{ID: "copy"} }
func (copyPlugin) Ports() []plugin.PortSpec {
	return []plugin.PortSpec{
		{Symbol: "in", Index: 0, Input: true, Kind: buffer.KindAudio},
		{Symbol: "out", Index: 1, Input: false, Kind: buffer.KindAudio},
	}
}
func (copyPlugin) Instantiate(sampleRate float64, blockLength int) (plugin.Instance, error) {
	return &copyInstance{}, nil
}
func (copyPlugin) Activate(inst plugin.Instance, sampleRate float64, minFrames, maxFrames int) error {
	return nil
}
func (copyPlugin) Deactivate(inst plugin.Instance) {}

type copyInstance struct{ in, out *buffer.Buffer }

func (c *copyInstance) ConnectPort(index int, b *buffer.Buffer) {
	if index == 0 {
		c.in = b
	} else {
		c.out = b
	}
}
func (c *copyInstance) Run(start, end int) { c.out.Copy(c.in, start, end) }

func TestProcessPullTraversePush(t *testing.T) {
	g := newRootGraph(t)
	child, err := block.NewPlugin("a", path.MustParse("/a"), copyPlugin{}, 1, 48000, 64)
	if err != nil {
		t.Fatal(err)
	}
	cin := port.New("in", 0, port.Input, buffer.KindAudio, 1, 64)
	cout := port.New("out", 1, port.Output, buffer.KindAudio, 1, 64)
	child.AddPort(cin)
	child.AddPort(cout)
	child.SetPortBuffer(0, 0, samplesOf(cin))
	child.SetPortBuffer(0, 1, samplesOf(cout))
	g.AddBlock(child)

	gin, _ := g.Block.Port(0)
	gout, _ := g.Block.Port(1)
	if _, err := g.Connect(g.Block, child, gin, cin); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect(child, g.Block, cout, gout); err != nil {
		t.Fatal(err)
	}
	cg, err := g.Compile()
	if err != nil {
		t.Fatal(err)
	}
	g.Install(cg)
	g.Enable()

	backend := newFakeBackend(4)
	copy(backend.ins[0].Samples(), []float32{1, 2, 3, 4})

	inbox, outbox := eventqueue.New(4), eventqueue.New(4)
	e := New(g, backend, inbox, outbox, make(chan struct{}, 1), Config{}, nil)
	e.Process(4, 0)

	want := []float32{1, 2, 3, 4}
	for i, s := range backend.outs[0].Samples() {
		if s != want[i] {
			t.Fatalf("output sample %d = %v, want %v", i, s, want[i])
		}
	}
}

func samplesOf(p *port.Port) *buffer.Buffer {
	b, _ := p.Buffer(0)
	return b
}
