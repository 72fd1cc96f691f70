package main

import (
	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/pkg/proto"
)

// buildGraphCommands returns the command sequence that wires:
//
//	osc (sigflow.oscillator) --out--> amp (sigflow.gain) --out--> / (external out)
//
// with amp's gain fixed at -6 dB and osc's frequency fixed at 440 Hz, then
// enables the root graph.
func buildGraphCommands() []proto.Command {
	return []proto.Command{
		{RequestID: "1", Op: events.OpCreateBlock, Path: "/", Args: map[string]any{
			"symbol": "osc", "plugin": "sigflow.oscillator", "polyphony": 1,
		}},
		{RequestID: "2", Op: events.OpCreateBlock, Path: "/", Args: map[string]any{
			"symbol": "amp", "plugin": "sigflow.gain", "polyphony": 1,
		}},
		{RequestID: "3", Op: events.OpCreatePort, Path: "/", Args: map[string]any{
			"symbol": "out", "direction": "output", "kind": "audio", "polyphony": 1, "capacity": blockLength,
		}},
		{RequestID: "4", Op: events.OpConnect, Path: "/osc/out", Args: map[string]any{
			"dst": "/amp/in",
		}},
		{RequestID: "5", Op: events.OpConnect, Path: "/amp/out", Args: map[string]any{
			"dst": "/out",
		}},
		{RequestID: "6", Op: events.OpSetPortValue, Path: "/amp/gain_db", Args: map[string]any{
			"value": -6.0,
		}},
		{RequestID: "7", Op: events.OpSetPortValue, Path: "/osc/freq", Args: map[string]any{
			"value": 440.0,
		}},
		{RequestID: "8", Op: events.OpEnableGraph, Path: "/"},
	}
}
