package port

import (
	"testing"

	"github.com/sigflow/engine/pkg/buffer"
)

func TestControlLatchScenario(t *testing.T) {
	p := New("p", 0, Input, buffer.KindControl, 1, 4)

	if err := p.SetScalar(0.5, 0); err != nil {
		t.Fatal(err)
	}
	if err := p.SetScalar(0.75, 2); err != nil {
		t.Fatal(err)
	}

	b, _ := p.Buffer(0)
	want := []float32{0.5, 0.5, 0.75, 0.75}
	for i, s := range b.Samples() {
		if s != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, s, want[i])
		}
	}
	if p.CurrentValue() != 0.75 {
		t.Fatalf("CurrentValue() = %v, want 0.75", p.CurrentValue())
	}

	p.PrepareBuffers(4)
	for i, s := range b.Samples() {
		if s != 0.75 {
			t.Fatalf("next-period sample %d = %v, want 0.75", i, s)
		}
	}
}

func TestSetScalarRejectsAudioKind(t *testing.T) {
	p := New("p", 0, Input, buffer.KindAudio, 1, 4)
	if err := p.SetScalar(1, 0); err == nil {
		t.Fatal("expected error setting scalar on an Audio port")
	}
}

type fakeConn struct {
	src, sink *Port
}

func (c *fakeConn) Source() *Port           { return c.src }
func (c *fakeConn) Sink() *Port             { return c.sink }
func (c *fakeConn) PendingDisconnect() bool { return false }

func TestConnectInputIdempotent(t *testing.T) {
	src := New("out", 0, Output, buffer.KindAudio, 1, 4)
	sink := New("in", 0, Input, buffer.KindAudio, 1, 4)
	c := &fakeConn{src: src, sink: sink}

	if err := sink.ConnectInput(c); err != nil {
		t.Fatal(err)
	}
	if err := sink.ConnectInput(c); err != nil {
		t.Fatal(err)
	}
	if len(sink.Connections()) != 1 {
		t.Fatalf("expected 1 connection after duplicate add, got %d", len(sink.Connections()))
	}

	sink.DisconnectInput(c)
	if len(sink.Connections()) != 0 {
		t.Fatal("expected 0 connections after disconnect")
	}
}
