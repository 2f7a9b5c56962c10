package ui

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/state"
)

const gridSize = 50

var (
	paperColor = color.NRGBA{R: 245, G: 246, B: 248, A: 255}
	gridColor  = color.NRGBA{R: 220, G: 220, B: 220, A: 100}
)

// BoardWidget hosts an engine: it forwards pointer input, follows its own
// size with a debounced surface resize and renders the raster surface with
// the live preview on top.
type BoardWidget struct {
	widget.BaseWidget

	engine  *engine.Engine
	ctrl    *engine.Controller
	resizer *engine.Resizer

	shift   bool
	last    fyne.Position
	pressed bool

	statusBar *widget.Label
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(e *engine.Engine) *BoardWidget {
	b := &BoardWidget{
		engine:    e,
		ctrl:      engine.NewController(e),
		statusBar: widget.NewLabel("Ready"),
	}
	b.resizer = engine.NewResizer(engine.DefaultResizeDelay, b.applySize, fyne.Do)
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) Engine() *engine.Engine { return b.engine }

func (b *BoardWidget) StatusBar() *widget.Label { return b.statusBar }

// SetStatus is safe to call from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() { b.statusBar.SetText(text) })
}

// SetShift records the state of the constraint key between pointer events.
func (b *BoardWidget) SetShift(down bool) { b.shift = down }

func (b *BoardWidget) applySize(w, h int) {
	if err := b.engine.Resize(w, h); err != nil {
		log.Printf("[UI] Resize to %dx%d failed: %v", w, h, err)
		return
	}
	b.Refresh()
}

func (b *BoardWidget) handle(kind engine.PointerKind, pos fyne.Position) {
	b.last = pos
	_, err := b.ctrl.Handle(engine.PointerEvent{
		Kind:  kind,
		X:     float64(pos.X),
		Y:     float64(pos.Y),
		Shift: b.shift,
	})
	if err != nil {
		log.Printf("[UI] Pointer %v at %v: %v", kind, pos, err)
		b.SetStatus(err.Error())
	}
	b.Refresh()
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.shift = e.Modifier&fyne.KeyModifierShift != 0
	b.pressed = true
	b.handle(engine.PointerDown, e.Position)
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.pressed {
		return
	}
	b.handle(engine.PointerMove, e.Position)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.pressed {
		return
	}
	b.shift = e.Modifier&fyne.KeyModifierShift != 0
	b.pressed = false
	b.handle(engine.PointerUp, e.Position)
}

// DragEnd commits at the last drag position when the release was not seen
// as a mouse up.
func (b *BoardWidget) DragEnd() {
	if !b.pressed {
		return
	}
	b.pressed = false
	b.handle(engine.PointerUp, b.last)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseOut()                      {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (b *BoardWidget) Undo() {
	if _, err := b.engine.Undo(); err != nil {
		log.Printf("[UI] Undo failed: %v", err)
	}
	b.Refresh()
}

func (b *BoardWidget) Redo() {
	if _, err := b.engine.Redo(); err != nil {
		log.Printf("[UI] Redo failed: %v", err)
	}
	b.Refresh()
}

func (b *BoardWidget) ClearBoard() {
	if _, err := b.engine.ClearBoard(); err != nil {
		log.Printf("[UI] Clear failed: %v", err)
		b.SetStatus("Could not clear the board")
	}
	b.Refresh()
}

func (b *BoardWidget) ToggleGrid() {
	if b.engine.State().Background == engine.BackgroundGrid {
		b.engine.SetBackgroundMode(engine.BackgroundTransparent)
	} else {
		b.engine.SetBackgroundMode(engine.BackgroundGrid)
	}
	b.Refresh()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{
		board:      b,
		background: canvas.NewRectangle(paperColor),
		raster:     canvas.NewImageFromImage(b.engine.Image()),
		rect:       canvas.NewRectangle(color.Transparent),
		ellipse:    canvas.NewCircle(color.Transparent),
	}
	r.raster.FillMode = canvas.ImageFillStretch
	r.raster.ScaleMode = canvas.ImageScalePixels
	r.version = b.engine.SurfaceVersion()
	r.rect.Hide()
	r.ellipse.Hide()
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	grid       []fyne.CanvasObject
	raster     *canvas.Image
	version    uint64

	path    []fyne.CanvasObject
	rect    *canvas.Rectangle
	ellipse *canvas.Circle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	objects := []fyne.CanvasObject{r.background}
	if r.board.engine.State().Background == engine.BackgroundGrid {
		objects = append(objects, r.grid...)
	}
	objects = append(objects, r.raster)
	objects = append(objects, r.path...)
	return append(objects, r.rect, r.ellipse)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.grid = createGrid(size)
	r.layoutRaster()
	r.board.resizer.Request(engine.SurfaceSize(size.Width, size.Height))
}

func (r *boardWidgetRenderer) layoutRaster() {
	st := r.board.engine.State()
	r.raster.Move(fyne.NewPos(0, 0))
	r.raster.Resize(fyne.NewSize(float32(st.Width), float32(st.Height)))
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	e := r.board.engine
	if v := e.SurfaceVersion(); v != r.version {
		r.version = v
		r.raster.Image = e.Image()
		r.layoutRaster()
		r.raster.Refresh()
	}
	r.refreshPreview(e.Preview(), e.State().Style)
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) refreshPreview(p engine.Preview, style state.Style) {
	r.path = nil
	r.rect.Hide()
	r.ellipse.Hide()

	width := float32(style.StrokeWidth)
	switch p := p.(type) {
	case engine.PathPreview:
		for i := 1; i < len(p.Points); i++ {
			segment := canvas.NewLine(style.Color)
			segment.StrokeWidth = width
			segment.Position1 = toPos(p.Points[i-1])
			segment.Position2 = toPos(p.Points[i])
			r.path = append(r.path, segment)
		}
	case engine.RectPreview:
		r.rect.StrokeColor = style.Color
		r.rect.StrokeWidth = width
		r.rect.Move(fyne.NewPos(float32(p.X), float32(p.Y)))
		r.rect.Resize(fyne.NewSize(float32(p.Width), float32(p.Height)))
		r.rect.Show()
		r.rect.Refresh()
	case engine.EllipsePreview:
		r.ellipse.StrokeColor = style.Color
		r.ellipse.StrokeWidth = width
		r.ellipse.Move(fyne.NewPos(float32(p.CX-p.RX), float32(p.CY-p.RY)))
		r.ellipse.Resize(fyne.NewSize(float32(2*p.RX), float32(2*p.RY)))
		r.ellipse.Show()
		r.ellipse.Refresh()
	}
}

func (r *boardWidgetRenderer) Destroy() {
	r.board.resizer.Stop()
}

func toPos(p state.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

func createGrid(size fyne.Size) []fyne.CanvasObject {
	var lines []fyne.CanvasObject
	for x := float32(0); x < size.Width; x += gridSize {
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(x, 0)
		line.Position2 = fyne.NewPos(x, size.Height)
		line.StrokeWidth = 0.5
		lines = append(lines, line)
	}
	for y := float32(0); y < size.Height; y += gridSize {
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(0, y)
		line.Position2 = fyne.NewPos(size.Width, y)
		line.StrokeWidth = 0.5
		lines = append(lines, line)
	}
	return lines
}
