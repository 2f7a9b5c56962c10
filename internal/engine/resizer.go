package engine

import (
	"math"
	"sync"
	"time"
)

// DefaultResizeDelay is the trailing-edge debounce used by hosts.
const DefaultResizeDelay = 100 * time.Millisecond

// SurfaceSize converts a viewport size to whole surface pixels, never less
// than one in either direction.
func SurfaceSize(width, height float32) (int, int) {
	w := int(math.Ceil(float64(width)))
	h := int(math.Ceil(float64(height)))
	return max(w, 1), max(h, 1)
}

// Resizer debounces viewport size changes. Only the last size requested
// within the delay is applied. The timer fires on its own goroutine, so
// dispatch must hand the call back to the event loop that owns the engine
// (fyne.Do in the UI, a direct call in tests).
type Resizer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	width    int
	height   int
	apply    func(width, height int)
	dispatch func(func())
}

// NewResizer creates a debouncer calling apply through dispatch. A nil
// dispatch calls apply directly from the timer goroutine.
func NewResizer(delay time.Duration, apply func(width, height int), dispatch func(func())) *Resizer {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Resizer{delay: delay, apply: apply, dispatch: dispatch}
}

// Request records a new viewport size and restarts the delay.
func (r *Resizer) Request(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	r.pending = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.fire)
}

func (r *Resizer) fire() {
	w, h, ok := r.take()
	if !ok {
		return
	}
	r.dispatch(func() { r.apply(w, h) })
}

func (r *Resizer) take() (int, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pending {
		return 0, 0, false
	}
	r.pending = false
	return r.width, r.height, true
}

// Flush applies a pending size immediately on the caller's goroutine.
func (r *Resizer) Flush() {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()

	if w, h, ok := r.take(); ok {
		r.apply(w, h)
	}
}

// Stop drops any pending size.
func (r *Resizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.pending = false
}
