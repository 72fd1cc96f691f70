package demoplugins

import (
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/plugin"
)

const maxDelaySeconds = 2.0

// Delay is a simple feedback delay line: a Control port sets delay time in
// seconds (clamped to maxDelaySeconds), another sets feedback gain.
type Delay struct{}

func (Delay) Info() plugin.Info {
	return plugin.Info{
		ID:       "sigflow.delay",
		Name:     "Delay",
		Vendor:   "sigflow",
		Version:  "1.0.0",
		Features: []string{plugin.FeatureDelay, plugin.FeatureAudioEffect},
	}
}

func (Delay) Ports() []plugin.PortSpec {
	return []plugin.PortSpec{
		{Symbol: "in", Index: 0, Input: true, Kind: buffer.KindAudio},
		{Symbol: "time_s", Index: 1, Input: true, Kind: buffer.KindControl, Default: 0.25, Min: 0, Max: maxDelaySeconds},
		{Symbol: "feedback", Index: 2, Input: true, Kind: buffer.KindControl, Default: 0.3, Min: 0, Max: 0.95},
		{Symbol: "out", Index: 3, Input: false, Kind: buffer.KindAudio},
	}
}

func (Delay) Instantiate(sampleRate float64, blockLength int) (plugin.Instance, error) {
	return &delayInstance{
		sampleRate: sampleRate,
		line:       make([]float32, int(maxDelaySeconds*sampleRate)+1),
	}, nil
}

func (Delay) Activate(inst plugin.Instance, sampleRate float64, minFrames, maxFrames int) error {
	if d, ok := inst.(*delayInstance); ok {
		d.sampleRate = sampleRate
		needed := int(maxDelaySeconds*sampleRate) + 1
		if len(d.line) != needed {
			d.line = make([]float32, needed)
		}
		d.writePos = 0
	}
	return nil
}

func (Delay) Deactivate(inst plugin.Instance) {}

type delayInstance struct {
	in, timeS, feedback, out *buffer.Buffer
	sampleRate               float64
	line                     []float32
	writePos                 int
}

func (d *delayInstance) ConnectPort(index int, buf *buffer.Buffer) {
	switch index {
	case 0:
		d.in = buf
	case 1:
		d.timeS = buf
	case 2:
		d.feedback = buf
	case 3:
		d.out = buf
	}
}

func (d *delayInstance) Run(start, end int) {
	if d.in == nil || d.out == nil || d.timeS == nil || d.feedback == nil || len(d.line) == 0 {
		return
	}
	in, timeS, fb, out := d.in.Samples(), d.timeS.Samples(), d.feedback.Samples(), d.out.Samples()
	n := len(d.line)
	for i := start; i < end; i++ {
		delayFrames := int(float64(timeS[i]) * d.sampleRate)
		if delayFrames < 0 {
			delayFrames = 0
		}
		if delayFrames >= n {
			delayFrames = n - 1
		}
		readPos := d.writePos - delayFrames
		if readPos < 0 {
			readPos += n
		}
		delayed := d.line[readPos]
		out[i] = in[i] + delayed
		d.line[d.writePos] = in[i] + delayed*fb[i]
		d.writePos++
		if d.writePos >= n {
			d.writePos = 0
		}
	}
}
