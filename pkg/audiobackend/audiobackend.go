// Package audiobackend defines the AudioBackend collaborator: the
// realtime I/O provider the Executor pulls format and sample data from and
// pushes results back to, once per period.
package audiobackend

import "github.com/sigflow/engine/pkg/buffer"

// AudioBackend is implemented by whatever drives the engine's period
// callback: a sound server client, a file renderer, or (in tests) a fake
// that hands back canned buffers.
type AudioBackend interface {
	SampleRate() float64
	BlockLength() int
	CurrentFrame() uint64

	// Inputs/Outputs return the backend's external port buffers for the
	// period currently being processed. Index order matches the root
	// Graph's external port order. The Executor only reads Inputs and only
	// writes Outputs; it never resizes or retains either past the call.
	Inputs() []*buffer.Buffer
	Outputs() []*buffer.Buffer
}
