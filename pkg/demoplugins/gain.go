// Package demoplugins implements a handful of self-contained Plugins
// (Gain, Oscillator, Mixer, Delay, Envelope) used by cmd/sigflowd to
// exercise the engine without any real DSP host binding. The DSP math
// itself is grounded on the teacher's pkg/util helpers (audio.go,
// envelope.go), generalized to the plugin.Plugin/Instance shape.
package demoplugins

import (
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/util"
)

// Gain applies a Control-driven gain (in dB) to an Audio signal.
type Gain struct{}

func (Gain) Info() plugin.Info {
	return plugin.Info{
		ID:       "sigflow.gain",
		Name:     "Gain",
		Vendor:   "sigflow",
		Version:  "1.0.0",
		Features: []string{plugin.FeatureAudioEffect, plugin.FeatureUtility},
	}
}

func (Gain) Ports() []plugin.PortSpec {
	return []plugin.PortSpec{
		{Symbol: "in", Index: 0, Input: true, Kind: buffer.KindAudio},
		{Symbol: "gain_db", Index: 1, Input: true, Kind: buffer.KindControl, Default: 0, Min: -96, Max: 24},
		{Symbol: "out", Index: 2, Input: false, Kind: buffer.KindAudio},
	}
}

func (Gain) Instantiate(sampleRate float64, blockLength int) (plugin.Instance, error) {
	return &gainInstance{}, nil
}

func (Gain) Activate(inst plugin.Instance, sampleRate float64, minFrames, maxFrames int) error {
	return nil
}

func (Gain) Deactivate(inst plugin.Instance) {}

type gainInstance struct {
	in, gainDB, out *buffer.Buffer
}

func (g *gainInstance) ConnectPort(index int, buf *buffer.Buffer) {
	switch index {
	case 0:
		g.in = buf
	case 1:
		g.gainDB = buf
	case 2:
		g.out = buf
	}
}

func (g *gainInstance) Run(start, end int) {
	if g.in == nil || g.out == nil || g.gainDB == nil {
		return
	}
	in, db, out := g.in.Samples(), g.gainDB.Samples(), g.out.Samples()
	for i := start; i < end; i++ {
		out[i] = in[i] * float32(util.DbToLinear(float64(db[i])))
	}
}
