package state

import "testing"

func pushAll(h *History[string], items ...string) {
	for _, s := range items {
		h.Push(s)
	}
}

func TestHistoryPushResetsCursor(t *testing.T) {
	h := NewHistory[string](0)
	pushAll(h, "A", "B")
	h.Undo()
	if h.Cursor() != 1 {
		t.Fatalf("Cursor() = %d after undo, want 1", h.Cursor())
	}
	h.Push("C")
	if h.Cursor() != 0 {
		t.Errorf("Cursor() = %d after push, want 0", h.Cursor())
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHistoryTruncateOnPush(t *testing.T) {
	h := NewHistory[string](0)
	pushAll(h, "A", "B", "C")

	if s, ok := h.Undo(); !ok || s != "B" {
		t.Fatalf("Undo() = %q, %v; want B, true", s, ok)
	}
	h.Push("D")

	want := []string{"A", "B", "D"}
	if h.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", h.Len(), len(want))
	}
	for i := len(want) - 1; i >= 0; i-- {
		cur, _ := h.Current()
		if cur != want[i] {
			t.Errorf("state %d = %q, want %q", i, cur, want[i])
		}
		h.Undo()
	}
	if !h.CanRedo() {
		t.Error("expected redo to be available after undoing")
	}
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory[string](0)
	pushAll(h, "A", "B", "C", "D")

	for k := 1; k <= h.Len(); k++ {
		before, _ := h.Current()
		for i := 0; i < k; i++ {
			if _, ok := h.Undo(); !ok {
				t.Fatalf("k=%d: undo %d rejected", k, i)
			}
		}
		var got string
		for i := 0; i < k; i++ {
			s, ok := h.Redo()
			if !ok {
				t.Fatalf("k=%d: redo %d rejected", k, i)
			}
			got = s
		}
		if got != before {
			t.Errorf("k=%d: round trip ended at %q, want %q", k, got, before)
		}
		if h.Cursor() != 0 {
			t.Errorf("k=%d: Cursor() = %d, want 0", k, h.Cursor())
		}
	}
}

func TestHistoryBoundaries(t *testing.T) {
	h := NewHistory[string](0)
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("empty history should have undo and redo disabled")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo() on empty history should be a no-op")
	}

	pushAll(h, "A", "B")
	if _, ok := h.Redo(); ok {
		t.Error("Redo() at cursor 0 should be a no-op")
	}
	if h.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", h.Cursor())
	}

	h.Undo()
	s, ok := h.Undo()
	if !ok || s != "" {
		t.Fatalf("Undo() to blank = %q, %v; want zero value, true", s, ok)
	}
	if h.Cursor() != h.Len() {
		t.Fatalf("Cursor() = %d, want %d", h.Cursor(), h.Len())
	}
	if h.CanUndo() {
		t.Error("CanUndo() should be false at cursor == len")
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() at cursor == len should be a no-op")
	}
	if h.Cursor() != h.Len() {
		t.Errorf("Cursor() moved to %d on rejected undo", h.Cursor())
	}
	if _, ok := h.Current(); ok {
		t.Error("Current() should report the blank state")
	}
}

func TestHistoryLimitMakesOldestTheFloor(t *testing.T) {
	h := NewHistory[string](3)
	pushAll(h, "A", "B", "C", "D")

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	h.Undo()
	s, ok := h.Undo()
	if !ok || s != "B" {
		t.Fatalf("Undo() = %q, %v; want B, true", s, ok)
	}
	if h.CanUndo() {
		t.Error("oldest retained snapshot should be the floor")
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() past the floor should be rejected")
	}
}
