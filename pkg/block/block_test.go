package block

import (
	"testing"

	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/port"
)

func TestInternalAudioInBridges(t *testing.T) {
	b := NewInternal("in", path.MustParse("/g/in"), InternalAudioIn, 1)
	external := port.New("external", 0, port.Input, buffer.KindAudio, 1, 4)
	internal := port.New("internal", 1, port.Output, buffer.KindAudio, 1, 4)
	b.AddPort(external)
	b.AddPort(internal)

	eb, _ := external.Buffer(0)
	eb.SetBlock(1, 0, 4)

	b.Run(0, 4)

	ib, _ := internal.Buffer(0)
	for i, s := range ib.Samples() {
		if s != 1 {
			t.Fatalf("sample %d = %v, want 1", i, s)
		}
	}
}
