package demoplugins

import (
	"math"

	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/plugin"
)

// waveform mirrors the teacher's WaveformType/GenerateWaveformSample pair,
// narrowed to the two shapes the demo harness exercises.
type waveform int

const (
	waveSine waveform = iota
	waveSaw
)

func generateSample(phase float64, w waveform) float64 {
	switch w {
	case waveSaw:
		return 2.0*phase - 1.0
	default:
		return math.Sin(2.0 * math.Pi * phase)
	}
}

func advancePhase(phase, freq, sampleRate float64) float64 {
	phase += freq / sampleRate
	if phase >= 1.0 {
		phase -= math.Floor(phase)
	}
	return phase
}

// Oscillator generates a Control-driven-frequency tone on its Audio output.
type Oscillator struct {
	Waveform waveform
}

func (o Oscillator) Info() plugin.Info {
	return plugin.Info{
		ID:       "sigflow.oscillator",
		Name:     "Oscillator",
		Vendor:   "sigflow",
		Version:  "1.0.0",
		Features: []string{plugin.FeatureInstrument},
	}
}

func (Oscillator) Ports() []plugin.PortSpec {
	return []plugin.PortSpec{
		{Symbol: "freq", Index: 0, Input: true, Kind: buffer.KindControl, Default: 440, Min: 0.1, Max: 20000},
		{Symbol: "out", Index: 1, Input: false, Kind: buffer.KindAudio},
	}
}

func (o Oscillator) Instantiate(sampleRate float64, blockLength int) (plugin.Instance, error) {
	return &oscillatorInstance{sampleRate: sampleRate, waveform: o.Waveform}, nil
}

func (Oscillator) Activate(inst plugin.Instance, sampleRate float64, minFrames, maxFrames int) error {
	if osc, ok := inst.(*oscillatorInstance); ok {
		osc.sampleRate = sampleRate
		osc.phase = 0
	}
	return nil
}

func (Oscillator) Deactivate(inst plugin.Instance) {}

type oscillatorInstance struct {
	freq, out  *buffer.Buffer
	sampleRate float64
	waveform   waveform
	phase      float64
}

func (o *oscillatorInstance) ConnectPort(index int, buf *buffer.Buffer) {
	switch index {
	case 0:
		o.freq = buf
	case 1:
		o.out = buf
	}
}

func (o *oscillatorInstance) Run(start, end int) {
	if o.freq == nil || o.out == nil {
		return
	}
	freq, out := o.freq.Samples(), o.out.Samples()
	for i := start; i < end; i++ {
		out[i] = float32(generateSample(o.phase, o.waveform))
		o.phase = advancePhase(o.phase, float64(freq[i]), o.sampleRate)
	}
}
