package engine

import (
	"fmt"

	"SketchBoard/internal/state"
)

// PointerKind is the phase of a raw pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	}
	return fmt.Sprintf("pointer(%d)", int(k))
}

// PointerEvent is a raw event from the host, in host coordinates.
type PointerEvent struct {
	Kind  PointerKind
	X, Y  float64
	Shift bool
}

// Controller turns raw pointer events into engine gesture calls. Origin is
// the surface's top-left corner in host coordinates (scroll or pan offset)
// and is subtracted from every event.
type Controller struct {
	engine *Engine
	origin state.Point
}

func NewController(e *Engine) *Controller {
	return &Controller{engine: e}
}

// SetOrigin updates the offset between host and surface coordinates.
func (c *Controller) SetOrigin(p state.Point) { c.origin = p }

func (c *Controller) normalize(ev PointerEvent) (state.Point, state.Modifiers) {
	return state.Pt(ev.X-c.origin.X, ev.Y-c.origin.Y), state.Modifiers{Constrain: ev.Shift}
}

// Handle forwards one event. Move and up events without an open gesture are
// dropped by the engine. A down event during a gesture returns
// ErrGestureActive; an up event returns the commit.
func (c *Controller) Handle(ev PointerEvent) (Commit, error) {
	p, mods := c.normalize(ev)
	switch ev.Kind {
	case PointerDown:
		return Commit{}, c.engine.BeginGesture(p, mods)
	case PointerMove:
		c.engine.UpdateGesture(p, mods)
		return Commit{}, nil
	case PointerUp:
		return c.engine.CommitGesture(p, mods)
	}
	return Commit{}, fmt.Errorf("unknown pointer event %v", ev.Kind)
}
