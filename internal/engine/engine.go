// Package engine is the drawing core of the board: the gesture state machine,
// shape geometry, the live vector preview, the raster surface and its undo
// history.
//
// An Engine is not safe for concurrent use. Every call must come from the
// single event loop that delivers pointer and resize events.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/google/uuid"

	"SketchBoard/internal/state"
)

// ErrGestureActive is returned by BeginGesture while another gesture is open.
var ErrGestureActive = errors.New("gesture already in progress")

// Background selects how the host paints behind the surface. It is never
// part of the raster content.
type Background int

const (
	BackgroundTransparent Background = iota
	BackgroundGrid
)

func (b Background) String() string {
	if b == BackgroundGrid {
		return "grid"
	}
	return "transparent"
}

// ParseBackground accepts "grid" and "transparent".
func ParseBackground(name string) (Background, error) {
	switch name {
	case "grid":
		return BackgroundGrid, nil
	case "transparent", "none", "":
		return BackgroundTransparent, nil
	}
	return 0, fmt.Errorf("unknown background %q", name)
}

// State is the read-only view hosts bind their controls to.
type State struct {
	Tool       state.ToolKind
	Style      state.Style
	CanUndo    bool
	CanRedo    bool
	Drawing    bool
	Background Background
	// Revision increases on every committed surface change.
	Revision uint64
	Width    int
	Height   int
}

// Commit describes a finished gesture or board clear.
type Commit struct {
	Snapshot uuid.UUID
	Revision uint64
	Damage   state.Bounds
}

// gesture exists only between BeginGesture and CommitGesture.
type gesture struct {
	anchor      state.Point
	tool        state.ToolKind
	points      []state.Point
	shape       Shape
	damage      state.Bounds
	last        state.Point
	constrained bool
}

type Engine struct {
	tools      *state.Toolbox
	history    *state.History[Snapshot]
	surface    *Compositor
	overlay    *Overlay
	clock      *state.Clock
	background Background

	gesture *gesture
	version uint64

	listeners map[int]func(State)
	nextID    int
}

// Option configures an Engine at construction.
type Option func(*options)

type options struct {
	historyLimit int
	style        *state.Style
	tool         state.ToolKind
	background   Background
}

// WithHistoryLimit bounds the number of snapshots kept. Zero keeps all.
func WithHistoryLimit(n int) Option { return func(o *options) { o.historyLimit = n } }

// WithStyle sets the initial style.
func WithStyle(s state.Style) Option { return func(o *options) { o.style = &s } }

// WithTool sets the initially selected tool.
func WithTool(k state.ToolKind) Option { return func(o *options) { o.tool = k } }

// WithBackground sets the initial background mode.
func WithBackground(b Background) Option { return func(o *options) { o.background = b } }

// New creates an engine with a blank surface of the given size.
func New(width, height int, opts ...Option) (*Engine, error) {
	o := options{tool: state.ToolPen}
	for _, opt := range opts {
		opt(&o)
	}

	surface, err := NewCompositor(width, height)
	if err != nil {
		return nil, err
	}
	tools := state.NewToolbox()
	if err := tools.SelectTool(o.tool); err != nil {
		return nil, err
	}
	if o.style != nil {
		if err := tools.SetStyle(*o.style); err != nil {
			return nil, err
		}
	}
	return &Engine{
		tools:      tools,
		history:    state.NewHistory[Snapshot](o.historyLimit),
		surface:    surface,
		overlay:    NewOverlay(width, height),
		clock:      state.NewClock(),
		background: o.background,
		listeners:  make(map[int]func(State)),
	}, nil
}

// State returns the current read-only state.
func (e *Engine) State() State {
	w, h := e.surface.Size()
	return State{
		Tool:       e.tools.Tool(),
		Style:      e.tools.Style(),
		CanUndo:    e.gesture == nil && e.history.CanUndo(),
		CanRedo:    e.gesture == nil && e.history.CanRedo(),
		Drawing:    e.gesture != nil,
		Background: e.background,
		Revision:   e.clock.Revision(),
		Width:      w,
		Height:     h,
	}
}

// Subscribe registers fn to receive the state after every change. The
// returned function removes the subscription.
func (e *Engine) Subscribe(fn func(State)) (cancel func()) {
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *Engine) notify() {
	if len(e.listeners) == 0 {
		return
	}
	s := e.State()
	for _, fn := range e.listeners {
		fn(s)
	}
}

// Session identifies this engine instance.
func (e *Engine) Session() string { return e.clock.Session() }

// SurfaceVersion increases on every raster mutation, including live erasing,
// so hosts know when to re-upload the surface image.
func (e *Engine) SurfaceVersion() uint64 { return e.version }

// Image returns a copy of the raster surface.
func (e *Engine) Image() *image.RGBA { return e.surface.Image() }

// Preview returns the live preview, or nil when nothing should be drawn over
// the surface.
func (e *Engine) Preview() Preview { return e.overlay.Current() }

// Overlay exposes the preview overlay for hosts that render every family.
func (e *Engine) Overlay() *Overlay { return e.overlay }

func (e *Engine) SelectTool(kind state.ToolKind) error {
	if err := e.tools.SelectTool(kind); err != nil {
		return err
	}
	Logger().Debug("tool selected", "tool", kind, "drawing", e.gesture != nil)
	e.notify()
	return nil
}

// SetColor changes the stroke color used by the next commit. An open gesture
// commits with the new color.
func (e *Engine) SetColor(c color.Color) error {
	return e.setStyle("color", func() error { return e.tools.SetColor(c) })
}

func (e *Engine) SetHexColor(s string) error {
	return e.setStyle("color", func() error { return e.tools.SetHexColor(s) })
}

func (e *Engine) SetStrokeWidth(w float64) error {
	return e.setStyle("width", func() error { return e.tools.SetStrokeWidth(w) })
}

func (e *Engine) SetLineCap(c state.LineCap) error {
	return e.setStyle("cap", func() error { return e.tools.SetLineCap(c) })
}

func (e *Engine) SetLineJoin(j state.LineJoin) error {
	return e.setStyle("join", func() error { return e.tools.SetLineJoin(j) })
}

func (e *Engine) setStyle(field string, apply func() error) error {
	if err := apply(); err != nil {
		Logger().Warn("style rejected", "field", field, "err", err)
		return err
	}
	e.notify()
	return nil
}

// SetBackgroundMode is cosmetic: it only changes what the host paints behind
// the surface.
func (e *Engine) SetBackgroundMode(b Background) {
	if b != BackgroundGrid {
		b = BackgroundTransparent
	}
	e.background = b
	e.notify()
}

// BeginGesture opens a gesture at p with the currently selected tool. The tool
// is latched: selecting another tool mid-gesture affects the next gesture
// only. A second BeginGesture before CommitGesture is rejected.
func (e *Engine) BeginGesture(p state.Point, mods state.Modifiers) error {
	if e.gesture != nil {
		Logger().Debug("begin rejected", "err", ErrGestureActive)
		return ErrGestureActive
	}
	g := &gesture{anchor: p, tool: e.tools.Tool(), last: p, constrained: mods.Constrain}
	switch g.tool {
	case state.ToolPen:
		g.points = []state.Point{p}
		g.shape = PathShape{Points: g.points}
		e.overlay.Update(g.shape)
	case state.ToolEraser:
		// erasing starts with the first move
	default:
		g.shape = ComputeGeometry(g.tool, p, p, mods.Constrain, nil)
		e.overlay.Update(g.shape)
	}
	e.gesture = g
	e.notify()
	return nil
}

// UpdateGesture follows the pointer. Moves without an open gesture are stale
// and ignored.
func (e *Engine) UpdateGesture(p state.Point, mods state.Modifiers) {
	g := e.gesture
	if g == nil {
		Logger().Debug("stale move ignored", "x", p.X, "y", p.Y)
		return
	}
	g.last, g.constrained = p, mods.Constrain
	shape := ComputeGeometry(g.tool, g.anchor, p, mods.Constrain, g.points)
	switch s := shape.(type) {
	case EraseShape:
		e.surface.EraseArea(s.X, s.Y, s.Width, s.Height)
		g.damage = g.damage.Union(s.Bounds(0))
		e.version++
		return
	case PathShape:
		g.points = s.Points
	}
	g.shape = shape
	e.overlay.Update(shape)
}

// CommitGesture finishes the gesture at p, strokes the final geometry onto
// the surface with the style active now, pushes exactly one snapshot and
// hides the preview. Without an open gesture the call is ignored and the
// returned Commit is zero. Only surface failures are reported.
func (e *Engine) CommitGesture(p state.Point, mods state.Modifiers) (Commit, error) {
	g := e.gesture
	if g == nil {
		Logger().Debug("stale commit ignored", "x", p.X, "y", p.Y)
		return Commit{}, nil
	}
	e.gesture = nil
	defer e.notify()

	style := e.tools.Style()
	damage := g.damage
	if g.tool != state.ToolEraser {
		shape := g.shape
		if shape == nil || p != g.last || mods.Constrain != g.constrained {
			shape = ComputeGeometry(g.tool, g.anchor, p, mods.Constrain, g.points)
		}
		e.overlay.Update(shape)
		e.surface.ApplyStyle(style)
		if err := e.surface.Draw(shape); err != nil {
			e.overlay.Hide()
			return Commit{}, fmt.Errorf("commit %s: %w", g.tool, err)
		}
		damage = damage.Union(shape.Bounds(style.StrokeWidth))
	}
	e.overlay.Hide()

	c, err := e.pushSnapshot(damage)
	if err != nil {
		return Commit{}, err
	}
	Logger().Info("gesture committed", "tool", g.tool, "snapshot", c.Snapshot, "revision", c.Revision)
	return c, nil
}

func (e *Engine) pushSnapshot(damage state.Bounds) (Commit, error) {
	snap, err := e.surface.Snapshot()
	if err != nil {
		return Commit{}, err
	}
	e.history.Push(snap)
	e.version++
	w, h := e.surface.Size()
	return Commit{Snapshot: snap.ID(), Revision: e.clock.Tick(), Damage: damage.Clip(w, h)}, nil
}

// Undo restores the previous state. It returns false when nothing was
// undone: at the oldest reachable state or while a gesture is open.
func (e *Engine) Undo() (bool, error) {
	if e.gesture != nil {
		Logger().Debug("undo ignored while drawing")
		return false, nil
	}
	snap, ok := e.history.Undo()
	if !ok {
		Logger().Debug("undo at floor", "cursor", e.history.Cursor())
		return false, nil
	}
	return true, e.restore("undo", snap)
}

// Redo re-applies the next state. It returns false at the newest state or
// while a gesture is open.
func (e *Engine) Redo() (bool, error) {
	if e.gesture != nil {
		Logger().Debug("redo ignored while drawing")
		return false, nil
	}
	snap, ok := e.history.Redo()
	if !ok {
		Logger().Debug("redo at newest state")
		return false, nil
	}
	return true, e.restore("redo", snap)
}

func (e *Engine) restore(op string, snap Snapshot) error {
	defer e.notify()
	if err := e.surface.Restore(snap); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	e.version++
	e.clock.Tick()
	Logger().Info(op, "snapshot", snap.ID(), "cursor", e.history.Cursor(), "blank", snap.Blank())
	return nil
}

// ClearBoard wipes the surface and commits the empty surface as a normal
// history entry so it can be undone. Ignored while a gesture is open.
func (e *Engine) ClearBoard() (Commit, error) {
	if e.gesture != nil {
		Logger().Debug("clear ignored while drawing")
		return Commit{}, nil
	}
	defer e.notify()
	e.surface.Clear()
	w, h := e.surface.Size()
	c, err := e.pushSnapshot(state.Bounds{Width: float64(w), Height: float64(h)})
	if err != nil {
		return Commit{}, fmt.Errorf("clear board: %w", err)
	}
	Logger().Info("board cleared", "snapshot", c.Snapshot)
	return c, nil
}

// ExportSurfaceAsImage encodes the current surface as PNG.
func (e *Engine) ExportSurfaceAsImage() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.surface.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("export surface: %w", err)
	}
	return buf.Bytes(), nil
}

// Resize changes the surface and overlay dimensions. Raster content is
// discarded; history is kept, and older snapshots restore at the top-left
// corner of the new surface.
func (e *Engine) Resize(width, height int) error {
	if w, h := e.surface.Size(); w == width && h == height {
		return nil
	}
	if err := e.surface.Resize(width, height); err != nil {
		return err
	}
	e.overlay.Resize(width, height)
	e.version++
	e.clock.Tick()
	Logger().Info("surface resized", "width", width, "height", height)
	e.notify()
	return nil
}

// Close releases the raster surface.
func (e *Engine) Close() error {
	return e.surface.Close()
}
