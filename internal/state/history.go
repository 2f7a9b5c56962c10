package state

// History is an ordered list of snapshots (oldest first) plus a cursor
// counting back from the newest entry. The visible state is
// snapshots[len-1-cursor]; cursor == len means the blank state that precedes
// the first snapshot.
//
// Invariant: 0 <= cursor <= len(snapshots). A bounded history evicts its
// oldest entries, and from then on the oldest retained snapshot is the floor:
// the cursor never goes past len-1.
type History[S any] struct {
	snapshots []S
	cursor    int
	limit     int
	evicted   bool
}

// NewHistory creates a history keeping at most limit snapshots. A limit of
// zero or less keeps everything for the session.
func NewHistory[S any](limit int) *History[S] {
	if limit < 0 {
		limit = 0
	}
	return &History[S]{limit: limit}
}

func (h *History[S]) Len() int    { return len(h.snapshots) }
func (h *History[S]) Cursor() int { return h.cursor }

// floor is the largest reachable cursor value.
func (h *History[S]) floor() int {
	if h.evicted {
		return len(h.snapshots) - 1
	}
	return len(h.snapshots)
}

// Push appends s as the newest state. Snapshots beyond the current undo
// position are discarded first, so drawing after undo erases the redo branch.
func (h *History[S]) Push(s S) {
	if h.cursor > 0 {
		keep := len(h.snapshots) - h.cursor
		clear(h.snapshots[keep:])
		h.snapshots = h.snapshots[:keep]
		h.cursor = 0
	}
	h.snapshots = append(h.snapshots, s)
	if h.limit > 0 && len(h.snapshots) > h.limit {
		n := len(h.snapshots) - h.limit
		clear(h.snapshots[:n])
		h.snapshots = h.snapshots[n:]
		h.evicted = true
	}
}

// Undo steps one state back and returns the state to display. Reaching the
// blank state yields the zero S. ok is false at the floor, where nothing
// changes.
func (h *History[S]) Undo() (s S, ok bool) {
	if h.cursor >= h.floor() {
		return s, false
	}
	h.cursor++
	return h.at(h.cursor), true
}

// Redo steps one state forward. ok is false when already at the newest state.
func (h *History[S]) Redo() (s S, ok bool) {
	if h.cursor == 0 {
		return s, false
	}
	h.cursor--
	return h.at(h.cursor), true
}

// Current returns the state the cursor points at. ok is false while the
// blank state is shown.
func (h *History[S]) Current() (s S, ok bool) {
	i := len(h.snapshots) - 1 - h.cursor
	if i < 0 {
		return s, false
	}
	return h.snapshots[i], true
}

func (h *History[S]) CanUndo() bool { return h.cursor < h.floor() }
func (h *History[S]) CanRedo() bool { return h.cursor > 0 }

func (h *History[S]) at(cursor int) S {
	i := len(h.snapshots) - 1 - cursor
	if i < 0 {
		var zero S
		return zero
	}
	return h.snapshots[i]
}
