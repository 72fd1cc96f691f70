package demoplugins

import "github.com/sigflow/engine/pkg/plugin"

// RegisterAll installs every demo Plugin into cat, for use by cmd/sigflowd
// and by tests that need a populated Catalog without a real host binding.
func RegisterAll(cat *plugin.Catalog) {
	cat.Register(Gain{})
	cat.Register(Oscillator{Waveform: waveSine})
	cat.Register(Mixer{})
	cat.Register(Delay{})
	cat.Register(Envelope{})
}
