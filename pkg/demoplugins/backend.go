package demoplugins

import (
	"sync/atomic"

	"github.com/sigflow/engine/pkg/buffer"
)

// TickerBackend is a fake AudioBackend that produces silence on its inputs
// and discards its outputs, advancing its frame counter by BlockLength
// every call to Tick. It exists so cmd/sigflowd can drive the Engine
// without a real audio/MIDI I/O binding, which is out of scope per the
// engine's own non-goals.
type TickerBackend struct {
	sampleRate  float64
	blockLength int
	frame       uint64

	inputs  []*buffer.Buffer
	outputs []*buffer.Buffer
}

// NewTickerBackend builds a TickerBackend with numIn external input ports
// and numOut external output ports, all Audio.
func NewTickerBackend(sampleRate float64, blockLength, numIn, numOut int) *TickerBackend {
	b := &TickerBackend{sampleRate: sampleRate, blockLength: blockLength}
	for i := 0; i < numIn; i++ {
		b.inputs = append(b.inputs, buffer.New(buffer.KindAudio, blockLength))
	}
	for i := 0; i < numOut; i++ {
		b.outputs = append(b.outputs, buffer.New(buffer.KindAudio, blockLength))
	}
	return b
}

func (b *TickerBackend) SampleRate() float64 { return b.sampleRate }
func (b *TickerBackend) BlockLength() int    { return b.blockLength }
func (b *TickerBackend) CurrentFrame() uint64 {
	return atomic.LoadUint64(&b.frame)
}

func (b *TickerBackend) Inputs() []*buffer.Buffer  { return b.inputs }
func (b *TickerBackend) Outputs() []*buffer.Buffer { return b.outputs }

// Tick advances the frame counter by one period's worth of frames. Called
// after each Engine.Process.
func (b *TickerBackend) Tick() {
	atomic.AddUint64(&b.frame, uint64(b.blockLength))
}

// OutputPeak reports the peak absolute sample value currently held in
// output port idx, useful for the demo driver's progress output.
func (b *TickerBackend) OutputPeak(idx int) float32 {
	if idx < 0 || idx >= len(b.outputs) {
		return 0
	}
	return b.outputs[idx].Peak()
}
