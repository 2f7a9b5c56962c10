package engine

import (
	"testing"
	"time"
)

func TestResizerLastRequestWins(t *testing.T) {
	type size struct{ w, h int }
	got := make(chan size, 4)
	r := NewResizer(20*time.Millisecond, func(w, h int) { got <- size{w, h} }, nil)
	defer r.Stop()

	r.Request(100, 100)
	r.Request(200, 150)
	r.Request(300, 250)

	select {
	case s := <-got:
		if s != (size{300, 250}) {
			t.Errorf("applied %v, want 300x250", s)
		}
	case <-time.After(time.Second):
		t.Fatal("resize never applied")
	}
	select {
	case s := <-got:
		t.Errorf("unexpected extra resize %v", s)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestResizerFlushAndStop(t *testing.T) {
	calls := 0
	r := NewResizer(time.Hour, func(w, h int) { calls++ }, nil)
	r.Request(10, 10)
	r.Flush()
	if calls != 1 {
		t.Fatalf("Flush applied %d times, want 1", calls)
	}
	r.Flush()
	if calls != 1 {
		t.Error("Flush without a pending size should do nothing")
	}
	r.Request(20, 20)
	r.Stop()
	r.Flush()
	if calls != 1 {
		t.Error("Stop should drop the pending size")
	}
}

func TestResizerAppliesThroughEngine(t *testing.T) {
	e := newTestEngine(t)
	r := NewResizer(time.Hour, func(w, h int) {
		if err := e.Resize(w, h); err != nil {
			t.Errorf("Resize: %v", err)
		}
	}, nil)
	r.Request(SurfaceSize(64.2, 31.9))
	r.Flush()
	if st := e.State(); st.Width != 65 || st.Height != 32 {
		t.Errorf("surface %dx%d, want 65x32", st.Width, st.Height)
	}
	if w, h := e.Overlay().Size(); w != 65 || h != 32 {
		t.Errorf("overlay %dx%d, want 65x32", w, h)
	}
}
