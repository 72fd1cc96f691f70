package demoplugins

import (
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/util"
)

// Mixer sums two Audio inputs, each scaled by its own Control-driven gain
// in dB, grounded on the teacher's LinearToDb/DbToLinear pair generalized
// from a stereo pan law to a two-channel level mix.
type Mixer struct{}

func (Mixer) Info() plugin.Info {
	return plugin.Info{
		ID:       "sigflow.mixer2",
		Name:     "2-Channel Mixer",
		Vendor:   "sigflow",
		Version:  "1.0.0",
		Features: []string{plugin.FeatureMixing},
	}
}

func (Mixer) Ports() []plugin.PortSpec {
	return []plugin.PortSpec{
		{Symbol: "in1", Index: 0, Input: true, Kind: buffer.KindAudio},
		{Symbol: "gain1_db", Index: 1, Input: true, Kind: buffer.KindControl, Default: 0, Min: -96, Max: 24},
		{Symbol: "in2", Index: 2, Input: true, Kind: buffer.KindAudio},
		{Symbol: "gain2_db", Index: 3, Input: true, Kind: buffer.KindControl, Default: 0, Min: -96, Max: 24},
		{Symbol: "out", Index: 4, Input: false, Kind: buffer.KindAudio},
	}
}

func (Mixer) Instantiate(sampleRate float64, blockLength int) (plugin.Instance, error) {
	return &mixerInstance{}, nil
}

func (Mixer) Activate(inst plugin.Instance, sampleRate float64, minFrames, maxFrames int) error {
	return nil
}

func (Mixer) Deactivate(inst plugin.Instance) {}

type mixerInstance struct {
	in1, gain1, in2, gain2, out *buffer.Buffer
}

func (m *mixerInstance) ConnectPort(index int, buf *buffer.Buffer) {
	switch index {
	case 0:
		m.in1 = buf
	case 1:
		m.gain1 = buf
	case 2:
		m.in2 = buf
	case 3:
		m.gain2 = buf
	case 4:
		m.out = buf
	}
}

func (m *mixerInstance) Run(start, end int) {
	if m.in1 == nil || m.in2 == nil || m.out == nil || m.gain1 == nil || m.gain2 == nil {
		return
	}
	in1, g1, in2, g2, out := m.in1.Samples(), m.gain1.Samples(), m.in2.Samples(), m.gain2.Samples(), m.out.Samples()
	for i := start; i < end; i++ {
		out[i] = in1[i]*float32(util.DbToLinear(float64(g1[i]))) + in2[i]*float32(util.DbToLinear(float64(g2[i])))
	}
}
