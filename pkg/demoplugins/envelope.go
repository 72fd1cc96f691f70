package demoplugins

import (
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/util"
)

// Envelope applies an ADSR gain envelope to an Audio signal, triggered and
// released by a Control gate port crossing 0.5.
type Envelope struct{}

func (Envelope) Info() plugin.Info {
	return plugin.Info{
		ID:       "sigflow.envelope",
		Name:     "Envelope",
		Vendor:   "sigflow",
		Version:  "1.0.0",
		Features: []string{plugin.FeatureAudioEffect, plugin.FeatureUtility},
	}
}

func (Envelope) Ports() []plugin.PortSpec {
	return []plugin.PortSpec{
		{Symbol: "in", Index: 0, Input: true, Kind: buffer.KindAudio},
		{Symbol: "gate", Index: 1, Input: true, Kind: buffer.KindControl, Default: 0, Min: 0, Max: 1},
		{Symbol: "attack", Index: 2, Input: true, Kind: buffer.KindControl, Default: 0.01, Min: 0, Max: 10},
		{Symbol: "decay", Index: 3, Input: true, Kind: buffer.KindControl, Default: 0.1, Min: 0, Max: 10},
		{Symbol: "sustain", Index: 4, Input: true, Kind: buffer.KindControl, Default: 0.7, Min: 0, Max: 1},
		{Symbol: "release", Index: 5, Input: true, Kind: buffer.KindControl, Default: 0.3, Min: 0, Max: 10},
		{Symbol: "out", Index: 6, Input: false, Kind: buffer.KindAudio},
	}
}

func (Envelope) Instantiate(sampleRate float64, blockLength int) (plugin.Instance, error) {
	return &envelopeInstance{env: util.NewADSREnvelope(sampleRate)}, nil
}

func (Envelope) Activate(inst plugin.Instance, sampleRate float64, minFrames, maxFrames int) error {
	if e, ok := inst.(*envelopeInstance); ok {
		e.env.SampleRate = sampleRate
		e.env.Reset()
		e.gateOpen = false
	}
	return nil
}

func (Envelope) Deactivate(inst plugin.Instance) {}

type envelopeInstance struct {
	in, gate, attack, decay, sustain, release, out *buffer.Buffer
	env                                             *util.ADSREnvelope
	gateOpen                                        bool
}

func (e *envelopeInstance) ConnectPort(index int, buf *buffer.Buffer) {
	switch index {
	case 0:
		e.in = buf
	case 1:
		e.gate = buf
	case 2:
		e.attack = buf
	case 3:
		e.decay = buf
	case 4:
		e.sustain = buf
	case 5:
		e.release = buf
	case 6:
		e.out = buf
	}
}

func (e *envelopeInstance) Run(start, end int) {
	if e.in == nil || e.out == nil || e.gate == nil || e.attack == nil || e.decay == nil || e.sustain == nil || e.release == nil {
		return
	}
	in, gate, out := e.in.Samples(), e.gate.Samples(), e.out.Samples()
	attack, decay, sustain, release := e.attack.Samples(), e.decay.Samples(), e.sustain.Samples(), e.release.Samples()
	for i := start; i < end; i++ {
		e.env.SetADSR(float64(attack[i]), float64(decay[i]), float64(sustain[i]), float64(release[i]))

		open := gate[i] >= 0.5
		if open && !e.gateOpen {
			e.env.Trigger()
		} else if !open && e.gateOpen {
			e.env.Release()
		}
		e.gateOpen = open

		out[i] = in[i] * float32(e.env.Process())
	}
}
