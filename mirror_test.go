package main

import (
	"testing"

	"SketchBoard/internal/engine"
	boardnet "SketchBoard/internal/net"
	"SketchBoard/internal/state"
)

func TestPublishFramesOnRevision(t *testing.T) {
	e, err := engine.New(40, 30)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	hub := boardnet.NewHub(e.Session())

	cancel := publishFrames(e, hub)
	defer cancel()

	f, ok := hub.Latest()
	if !ok || f.Revision != 0 || f.Width != 40 || len(f.PNG) == 0 {
		t.Fatalf("initial frame = %+v, %v", f, ok)
	}
	if f.Session != e.Session() {
		t.Errorf("session = %q, want %q", f.Session, e.Session())
	}

	_ = e.SetStrokeWidth(5)
	if f, _ := hub.Latest(); f.Revision != 0 {
		t.Error("style change produced a frame")
	}

	_ = e.BeginGesture(state.Pt(1, 1), state.Modifiers{})
	if _, err := e.CommitGesture(state.Pt(20, 20), state.Modifiers{}); err != nil {
		t.Fatal(err)
	}
	if f, _ := hub.Latest(); f.Revision != 1 {
		t.Errorf("frame revision after commit = %d, want 1", f.Revision)
	}
}
