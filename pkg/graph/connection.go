// Package graph implements Graph (a Block composed of child Blocks wired by
// Connections), the Compiler that produces a CompiledGraph schedule from
// it, and the Connection type itself.
package graph

import (
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/sigerr"
)

// Connection directs samples/events from one output Port to one input Port,
// applying the mono/poly mixdown rules of the port types involved.
type Connection struct {
	from, to          *port.Port
	pendingDisconnect bool
	mixVoice          *buffer.Buffer // only used for the poly-source/mono-sink reduction
}

// NewConnection validates and builds a Connection from an output port to an
// input port.
func NewConnection(from, to *port.Port) (*Connection, error) {
	if from.Direction != port.Output {
		return nil, sigerr.New(sigerr.KindTypeMismatch, from.Symbol, "connection source must be an output port")
	}
	if to.Direction != port.Input {
		return nil, sigerr.New(sigerr.KindTypeMismatch, to.Symbol, "connection sink must be an input port")
	}
	if from.Kind != to.Kind {
		return nil, sigerr.New(sigerr.KindTypeMismatch, to.Symbol, "port type mismatch")
	}
	if from.Polyphony != to.Polyphony && from.Polyphony != 1 && to.Polyphony != 1 {
		return nil, sigerr.New(sigerr.KindBadPoly, to.Symbol, "incompatible polyphony between source and sink")
	}
	return &Connection{from: from, to: to}, nil
}

// Source returns the output port this Connection reads from.
func (c *Connection) Source() *port.Port { return c.from }

// Sink returns the input port this Connection writes to.
func (c *Connection) Sink() *port.Port { return c.to }

// PendingDisconnect reports whether a Disconnect event has already been
// queued for this Connection, so a cascading DisconnectAll doesn't process
// it twice.
func (c *Connection) PendingDisconnect() bool { return c.pendingDisconnect }

// MarkPendingDisconnect flags the Connection as queued for removal.
func (c *Connection) MarkPendingDisconnect() { c.pendingDisconnect = true }

// Prepare ensures the poly-to-mono reduction buffer, if needed, is sized
// for the coming period.
func (c *Connection) Prepare(nframes int) {
	if c.from.Polyphony > 1 && c.to.Polyphony == 1 {
		if c.mixVoice == nil || c.mixVoice.Capacity() != nframes {
			c.mixVoice = buffer.New(c.to.Kind, nframes)
		}
	}
}

// Process writes this Connection's contribution into the sink port's
// buffers for [0, nframes). accumulate selects copy (sole connection on the
// sink) vs. sum-in-place (sink fed by more than one Connection).
func (c *Connection) Process(nframes int, accumulate bool) error {
	switch {
	case c.from.Polyphony == c.to.Polyphony:
		for v := 0; v < c.to.Polyphony; v++ {
			if err := c.writeVoice(v, v, nframes, accumulate); err != nil {
				return err
			}
		}
	case c.from.Polyphony == 1:
		for v := 0; v < c.to.Polyphony; v++ {
			if err := c.writeVoice(0, v, nframes, accumulate); err != nil {
				return err
			}
		}
	case c.to.Polyphony == 1:
		c.mixVoice.Clear()
		for i := 0; i < c.from.Polyphony; i++ {
			src, err := c.from.Buffer(i)
			if err != nil {
				return err
			}
			c.mixVoice.Mix(src, 0, nframes)
		}
		dst, err := c.to.Buffer(0)
		if err != nil {
			return err
		}
		if accumulate {
			dst.Mix(c.mixVoice, 0, nframes)
		} else {
			dst.Copy(c.mixVoice, 0, nframes)
		}
	default:
		return sigerr.New(sigerr.KindBadPoly, c.to.Symbol, "unsupported polyphony combination")
	}
	return nil
}

func (c *Connection) writeVoice(srcVoice, dstVoice, nframes int, accumulate bool) error {
	src, err := c.from.Buffer(srcVoice)
	if err != nil {
		return err
	}
	dst, err := c.to.Buffer(dstVoice)
	if err != nil {
		return err
	}
	if accumulate {
		dst.Mix(src, 0, nframes)
	} else {
		dst.Copy(src, 0, nframes)
	}
	return nil
}
