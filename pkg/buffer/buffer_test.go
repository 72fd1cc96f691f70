package buffer

import (
	"testing"

	"github.com/sigflow/engine/pkg/event"
)

func TestAudioSetBlockAndCopy(t *testing.T) {
	b := New(KindAudio, 4)
	b.SetBlock(2, 0, 4)
	dst := New(KindAudio, 4)
	dst.Copy(b, 0, 4)
	for i, s := range dst.Samples() {
		if s != 2 {
			t.Fatalf("sample %d = %v, want 2", i, s)
		}
	}
}

func TestMixSums(t *testing.T) {
	a := New(KindAudio, 4)
	a.SetBlock(1, 0, 4)
	bufB := New(KindAudio, 4)
	bufB.SetBlock(1, 0, 4)

	dst := New(KindAudio, 4)
	dst.Clear()
	dst.Mix(a, 0, 4)
	dst.Mix(bufB, 0, 4)
	for i, s := range dst.Samples() {
		if s != 2 {
			t.Fatalf("mixed sample %d = %v, want 2", i, s)
		}
	}
}

func TestClearRange(t *testing.T) {
	b := New(KindAudio, 4)
	b.SetBlock(5, 0, 4)
	b.ClearRange(1, 3)
	want := []float32{5, 0, 0, 5}
	for i, s := range b.Samples() {
		if s != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, s, want[i])
		}
	}
}

func TestSequenceClearAndPrepare(t *testing.T) {
	b := New(KindSequence, 0)
	e := event.CreateNoteOn(0, 0, 0, 60, 0.5)
	b.PushEvent(e)
	if len(b.Events()) != 1 {
		t.Fatal("expected one event")
	}
	b.Prepare(128)
	if len(b.Events()) != 0 {
		t.Fatal("expected Prepare to reset event list")
	}
}

func TestSequenceMergeByTime(t *testing.T) {
	a := New(KindSequence, 0)
	a.PushEvent(event.CreateNoteOn(10, 0, 0, 60, 0.5))
	a.PushEvent(event.CreateNoteOn(30, 0, 0, 62, 0.5))

	b := New(KindSequence, 0)
	b.PushEvent(event.CreateNoteOn(20, 0, 0, 64, 0.5))

	a.Mix(b, 0, 0)
	times := make([]uint32, 0, 3)
	for _, e := range a.Events() {
		times = append(times, e.GetHeader().Time)
	}
	want := []uint32{10, 20, 30}
	for i, tm := range times {
		if tm != want[i] {
			t.Fatalf("merged order = %v, want %v", times, want)
		}
	}
}
