// Package plugin declares the abstract collaborator a Block wraps: a
// Plugin describes a unit of DSP and can be instantiated into per-voice
// Instances, without committing to any particular plugin ABI or host
// binding (that wiring is explicitly external to this module).
package plugin

import (
	"github.com/sigflow/engine/pkg/buffer"
)

// PortSpec describes one port a Plugin exposes, independent of any Instance.
type PortSpec struct {
	Symbol    string
	Index     int
	Input     bool
	Kind      buffer.Kind
	Default   float64
	Min, Max  float64
}

// Info is plugin metadata surfaced to clients via notifications.
type Info struct {
	ID          string
	Name        string
	Vendor      string
	Version     string
	Description string
	Features    []string
}

// Instance is one polyphony voice of a Plugin, produced by Instantiate.
// Implementations hold whatever per-voice DSP state the plugin needs.
type Instance interface {
	// ConnectPort binds the Buffer for port index to this Instance. Called
	// during compile/mutation, off or on the audio thread depending on
	// whether the bind predates or follows installation; implementations
	// must not allocate here since it may run from the Executor.
	ConnectPort(index int, buf *buffer.Buffer)

	// Run processes frames [start, end) of the period using the buffers
	// most recently bound via ConnectPort.
	Run(start, end int)
}

// Plugin is the abstract factory a Block wraps. Instantiate and the
// activate/deactivate lifecycle run off the audio thread; ConnectPort/Run
// on an Instance run on the audio thread and must be realtime-safe.
type Plugin interface {
	Info() Info
	Ports() []PortSpec

	// Instantiate creates one voice of this plugin. Not realtime-safe.
	Instantiate(sampleRate float64, blockLength int) (Instance, error)

	// Activate/Deactivate bracket a run of periods for one Instance. Not
	// realtime-safe.
	Activate(inst Instance, sampleRate float64, minFrames, maxFrames int) error
	Deactivate(inst Instance)
}

// Feature tags, surfaced in Info.Features for client display/filtering.
const (
	FeatureInstrument  = "instrument"
	FeatureAudioEffect = "audio-effect"
	FeatureNoteEffect  = "note-effect"
	FeatureAnalyzer    = "analyzer"
	FeatureFilter      = "filter"
	FeatureDelay       = "delay"
	FeatureMixing      = "mixing"
	FeatureUtility     = "utility"
)
