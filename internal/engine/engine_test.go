package engine

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/pkg/demoplugins"
	"github.com/sigflow/engine/pkg/proto"
)

const testBlockLength = 64

// buildDemoCommands mirrors cmd/sigflowd's own graph-building sequence:
// osc --out--> amp --out--> / (external out), gain and frequency fixed,
// finishing with an EnableGraph. Command 5 connects to the port command 3
// just created and command 4 connects to a block command 1 just created —
// both depend on Prepare-time visibility rather than waiting for Execute.
func buildDemoCommands() []proto.Command {
	return []proto.Command{
		{RequestID: "1", Op: events.OpCreateBlock, Path: "/", Args: map[string]any{
			"symbol": "osc", "plugin": "sigflow.oscillator", "polyphony": 1,
		}},
		{RequestID: "2", Op: events.OpCreateBlock, Path: "/", Args: map[string]any{
			"symbol": "amp", "plugin": "sigflow.gain", "polyphony": 1,
		}},
		{RequestID: "3", Op: events.OpCreatePort, Path: "/", Args: map[string]any{
			"symbol": "out", "direction": "output", "kind": "audio", "polyphony": 1, "capacity": testBlockLength,
		}},
		{RequestID: "4", Op: events.OpConnect, Path: "/osc/out", Args: map[string]any{"dst": "/amp/in"}},
		{RequestID: "5", Op: events.OpConnect, Path: "/amp/out", Args: map[string]any{"dst": "/out"}},
		{RequestID: "6", Op: events.OpSetPortValue, Path: "/amp/gain_db", Args: map[string]any{"value": -6.0}},
		{RequestID: "7", Op: events.OpSetPortValue, Path: "/osc/freq", Args: map[string]any{"value": 440.0}},
		{RequestID: "8", Op: events.OpEnableGraph, Path: "/"},
	}
}

type fakeNotifier struct {
	statuses []proto.Status
}

func (n *fakeNotifier) Put(proto.Put) {}
func (n *fakeNotifier) Delta(proto.Delta) {}
func (n *fakeNotifier) Connect(proto.Connect) {}
func (n *fakeNotifier) Disconnect(proto.Disconnect) {}
func (n *fakeNotifier) Delete(proto.Delete) {}
func (n *fakeNotifier) Move(proto.Move) {}
func (n *fakeNotifier) Activity(proto.Activity) {}
func (n *fakeNotifier) Error(proto.AsyncError) {}
func (n *fakeNotifier) Status(s proto.Status) { n.statuses = append(n.statuses, s) }

func TestBuildGraphAndProcessProducesOutput(t *testing.T) {
	backend := demoplugins.NewTickerBackend(48000, testBlockLength, 0, 1)
	notifier := &fakeNotifier{}
	eng := New(Config{SampleRate: 48000, BlockLength: testBlockLength}, backend, notifier, nil)
	demoplugins.RegisterAll(eng.Catalog)

	for _, cmd := range buildDemoCommands() {
		eng.Handle(cmd)
	}
	for _, s := range notifier.statuses {
		if !s.OK {
			t.Fatalf("command %s failed: %s", s.RequestID, s.Message)
		}
	}

	eng.Start()
	defer eng.Close()

	var peak float32
	for i := 0; i < 50; i++ {
		eng.Process(testBlockLength, backend.CurrentFrame())
		backend.Tick()
		if p := backend.OutputPeak(0); p > peak {
			peak = p
		}
	}

	if peak <= 0 {
		t.Fatalf("expected nonzero output peak once osc->amp->out is live, got %v", peak)
	}
}

func TestCloseIsIdempotentAndLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := demoplugins.NewTickerBackend(48000, testBlockLength, 0, 1)
	eng := New(Config{SampleRate: 48000, BlockLength: testBlockLength, ReclaimInterval: time.Millisecond}, backend, nil, nil)
	eng.Start()
	eng.Close()
	eng.Close() // must not panic on double close
}
