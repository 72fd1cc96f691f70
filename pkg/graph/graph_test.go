package graph

import (
	"testing"

	"github.com/sigflow/engine/pkg/block"
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/port"
)

// copyInstance is a test-only Instance that copies its single input buffer
// to its single output buffer every period.
type copyInstance struct {
	in, out *buffer.Buffer
}

func (c *copyInstance) ConnectPort(index int, b *buffer.Buffer) {
	if index == 0 {
		c.in = b
	} else {
		c.out = b
	}
}

func (c *copyInstance) Run(start, end int) {
	c.out.Copy(c.in, start, end)
}

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

func newCopyBlock(t *testing.T, symbol string, p path.Path) *block.Block {
	t.Helper()
	b, err := block.NewPlugin(symbol, p, copyPlugin{}, 1, 48000, 128)
	if err != nil {
		t.Fatal(err)
	}
	in := port.New("in", 0, port.Input, buffer.KindAudio, 1, 4)
	out := port.New("out", 1, port.Output, buffer.KindAudio, 1, 4)
	b.AddPort(in)
	b.AddPort(out)
	b.SetPortBuffer(0, 0, samplesOf(in))
	b.SetPortBuffer(0, 1, samplesOf(out))
	return b
}

func samplesOf(p *port.Port) *buffer.Buffer {
	b, _ := p.Buffer(0)
	return b
}

func runGraph(t *testing.T, cg *CompiledGraph, nframes int) {
	t.Helper()
	for _, entry := range cg.Entries {
		accumulate := len(entry.Incoming) > 1
		if accumulate {
			for v := 0; v < entry.Block.Polyphony; v++ {
				for _, p := range entry.Block.Ports {
					if p.Direction == port.Input {
						if b, err := p.Buffer(v); err == nil {
							b.Clear()
						}
					}
				}
			}
		}
		for _, c := range entry.Incoming {
			c.Prepare(nframes)
			if err := c.Process(nframes, accumulate); err != nil {
				t.Fatal(err)
			}
		}
		entry.Block.Run(0, nframes)
	}
}

func TestIdentityGraph(t *testing.T) {
	g := New("g", path.MustParse("/g"), 1)
	in := port.New("in", 0, port.Input, buffer.KindAudio, 1, 4)
	out := port.New("out", 1, port.Output, buffer.KindAudio, 1, 4)
	g.AddPort(in)
	g.AddPort(out)

	// A Graph's own Ports are declared from the external caller's view (in
	// is Input, out is Output). This test copies the input buffer straight
	// into the output buffer by hand; it builds no Connection and runs
	// neither RunEntries nor the Executor.
	inBuf, _ := in.Buffer(0)
	inBuf.SetBlock(0, 0, 4)
	copy(inBuf.Samples(), []float32{1, 2, 3, 4})

	outBuf, _ := out.Buffer(0)
	outBuf.Copy(inBuf, 0, 4)

	want := []float32{1, 2, 3, 4}
	for i, s := range outBuf.Samples() {
		if s != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, s, want[i])
		}
	}
}

func TestSummingGraph(t *testing.T) {
	g := New("g", path.MustParse("/g"), 1)
	a := newCopyBlock(t, "a", path.MustParse("/g/a"))
	b := newCopyBlock(t, "b", path.MustParse("/g/b"))
	g.AddBlock(a)
	g.AddBlock(b)

	gin := port.New("in", 0, port.Output, buffer.KindAudio, 1, 4)
	gout := port.New("out", 1, port.Input, buffer.KindAudio, 1, 4)
	g.AddPort(gin)
	g.AddPort(gout)

	ginBuf, _ := gin.Buffer(0)
	copy(ginBuf.Samples(), []float32{1, 1, 1, 1})

	aIn, _ := a.Port(0)
	bIn, _ := b.Port(0)
	aOut, _ := a.Port(1)
	bOut, _ := b.Port(1)

	if _, err := g.Connect(g.Block, a, gin, aIn); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect(g.Block, b, gin, bIn); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect(a, g.Block, aOut, gout); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect(b, g.Block, bOut, gout); err != nil {
		t.Fatal(err)
	}

	cg, err := g.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if len(cg.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(cg.Entries))
	}

	runGraph(t, cg, 4)

	goutBuf, _ := gout.Buffer(0)
	goutBuf.Clear()
	for _, conn := range gout.Connections() {
		if err := conn.(*Connection).Process(4, true); err != nil {
			t.Fatal(err)
		}
	}
	want := []float32{2, 2, 2, 2}
	for i, s := range goutBuf.Samples() {
		if s != want[i] {
			t.Fatalf("summed sample %d = %v, want %v", i, s, want[i])
		}
	}
}

func TestCycleDetected(t *testing.T) {
	g := New("g", path.MustParse("/g"), 1)
	a := newCopyBlock(t, "a", path.MustParse("/g/a"))
	b := newCopyBlock(t, "b", path.MustParse("/g/b"))
	g.AddBlock(a)
	g.AddBlock(b)

	aIn, _ := a.Port(0)
	aOut, _ := a.Port(1)
	bIn, _ := b.Port(0)
	bOut, _ := b.Port(1)

	if _, err := g.Connect(a, b, aOut, bIn); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Compile(); err != nil {
		t.Fatal(err)
	}

	if _, err := g.Connect(b, a, bOut, aIn); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Compile(); err == nil {
		t.Fatal("expected CycleDetected")
	}
}

// TestNestedGraphExecutes builds a root Graph containing a child Graph
// (wired in as an ordinary KindGraph Block) which itself contains a copy
// Block, and checks that a single RunEntries on the root drives data all
// the way through both levels: root.in -> sub.in -> sub/a -> sub.out ->
// root.out.
func TestNestedGraphExecutes(t *testing.T) {
	root := New("root", path.MustParse("/"), 1)
	rin := port.New("in", 0, port.Output, buffer.KindAudio, 1, 4)
	rout := port.New("out", 1, port.Input, buffer.KindAudio, 1, 4)
	root.AddPort(rin)
	root.AddPort(rout)

	sub := New("sub", path.MustParse("/sub"), 1)
	sin := port.New("in", 0, port.Input, buffer.KindAudio, 1, 4)
	sout := port.New("out", 1, port.Output, buffer.KindAudio, 1, 4)
	sub.AddPort(sin)
	sub.AddPort(sout)
	root.AddBlock(sub.Block)

	a := newCopyBlock(t, "a", path.MustParse("/sub/a"))
	sub.AddBlock(a)
	aIn, _ := a.Port(0)
	aOut, _ := a.Port(1)
	if _, err := sub.Connect(sub.Block, a, sin, aIn); err != nil {
		t.Fatal(err)
	}
	if _, err := sub.Connect(a, sub.Block, aOut, sout); err != nil {
		t.Fatal(err)
	}
	subCG, err := sub.Compile()
	if err != nil {
		t.Fatal(err)
	}
	sub.Install(subCG)
	sub.Enable()

	if _, err := root.Connect(root.Block, sub.Block, rin, sin); err != nil {
		t.Fatal(err)
	}
	if _, err := root.Connect(sub.Block, root.Block, sout, rout); err != nil {
		t.Fatal(err)
	}
	rootCG, err := root.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if len(rootCG.Entries) != 1 || rootCG.Entries[0].Block != sub.Block {
		t.Fatalf("expected exactly one entry for the child Graph, got %+v", rootCG.Entries)
	}
	root.Install(rootCG)
	root.Enable()

	rinBuf, _ := rin.Buffer(0)
	copy(rinBuf.Samples(), []float32{1, 2, 3, 4})

	root.RunEntries(4)

	want := []float32{1, 2, 3, 4}
	routBuf, _ := rout.Buffer(0)
	for i, s := range routBuf.Samples() {
		if s != want[i] {
			t.Fatalf("sample %d = %v, want %v — nested Graph execution did not propagate", i, s, want[i])
		}
	}
}

func TestPolyphonicMonoMixdown(t *testing.T) {
	v := port.New("o", 0, port.Output, buffer.KindAudio, 4, 4)
	s := port.New("i", 0, port.Input, buffer.KindAudio, 1, 4)

	for voice := 0; voice < 4; voice++ {
		b, _ := v.Buffer(voice)
		b.SetBlock(float32(voice+1), 0, 4)
	}

	conn, err := NewConnection(v, s)
	if err != nil {
		t.Fatal(err)
	}
	conn.Prepare(4)
	if err := conn.Process(4, false); err != nil {
		t.Fatal(err)
	}

	sb, _ := s.Buffer(0)
	for i, sample := range sb.Samples() {
		if sample != 10 {
			t.Fatalf("sample %d = %v, want 10", i, sample)
		}
	}
}
