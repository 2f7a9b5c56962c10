package engine

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"SketchBoard/internal/state"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(120, 80, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func draw(t *testing.T, e *Engine, tool state.ToolKind, from, to state.Point, shift bool) Commit {
	t.Helper()
	if err := e.SelectTool(tool); err != nil {
		t.Fatalf("SelectTool: %v", err)
	}
	mods := state.Modifiers{Constrain: shift}
	if err := e.BeginGesture(from, mods); err != nil {
		t.Fatalf("BeginGesture: %v", err)
	}
	mid := state.Pt((from.X+to.X)/2, (from.Y+to.Y)/2)
	e.UpdateGesture(mid, mods)
	e.UpdateGesture(to, mods)
	c, err := e.CommitGesture(to, mods)
	if err != nil {
		t.Fatalf("CommitGesture: %v", err)
	}
	return c
}

func pixels(e *Engine) []byte {
	return e.Image().Pix
}

func alphaAt(e *Engine, x, y int) uint8 {
	return e.Image().RGBAAt(x, y).A
}

func TestCommitPushesOneSnapshot(t *testing.T) {
	e := newTestEngine(t)
	for i, tool := range []state.ToolKind{state.ToolPen, state.ToolRectangle, state.ToolEllipse, state.ToolEraser} {
		before := e.history.Len()
		draw(t, e, tool, state.Pt(10, 10), state.Pt(50, 30), i%2 == 0)
		if got := e.history.Len(); got != before+1 {
			t.Errorf("%v: history length %d, want %d", tool, got, before+1)
		}
		if e.history.Cursor() != 0 {
			t.Errorf("%v: cursor %d, want 0", tool, e.history.Cursor())
		}
	}
}

func TestZeroMovementGestureStillCommits(t *testing.T) {
	e := newTestEngine(t)
	for _, tool := range []state.ToolKind{state.ToolPen, state.ToolRectangle, state.ToolEllipse} {
		_ = e.SelectTool(tool)
		before := e.history.Len()
		p := state.Pt(20, 20)
		if err := e.BeginGesture(p, state.Modifiers{}); err != nil {
			t.Fatal(err)
		}
		if _, err := e.CommitGesture(p, state.Modifiers{}); err != nil {
			t.Fatal(err)
		}
		if e.history.Len() != before+1 {
			t.Errorf("%v: zero-size gesture did not add a snapshot", tool)
		}
	}
}

func TestPenStrokeReachesSurface(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetColor(color.NRGBA{R: 255, A: 255}); err != nil {
		t.Fatal(err)
	}
	if err := e.SetStrokeWidth(6); err != nil {
		t.Fatal(err)
	}
	if alphaAt(e, 35, 20) != 0 {
		t.Fatal("surface should start transparent")
	}
	draw(t, e, state.ToolPen, state.Pt(10, 20), state.Pt(60, 20), false)

	c := e.Image().RGBAAt(35, 20)
	if c.A < 200 || c.R < 200 || c.G > 50 || c.B > 50 {
		t.Errorf("pixel on stroke = %+v, want opaque red", c)
	}
	if e.Preview() != nil {
		t.Error("preview should be hidden after commit")
	}
	if p := e.Overlay().Path(); len(p.Points) == 0 {
		t.Error("committed path geometry should stay addressable")
	}
}

func TestStyleIsReadAtCommit(t *testing.T) {
	e := newTestEngine(t)
	_ = e.SetStrokeWidth(6)
	_ = e.SelectTool(state.ToolPen)
	_ = e.BeginGesture(state.Pt(10, 40), state.Modifiers{})
	e.UpdateGesture(state.Pt(60, 40), state.Modifiers{})

	if err := e.SetColor(color.NRGBA{B: 255, A: 255}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.CommitGesture(state.Pt(60, 40), state.Modifiers{}); err != nil {
		t.Fatal(err)
	}
	c := e.Image().RGBAAt(35, 40)
	if c.B < 200 || c.R > 50 {
		t.Errorf("pixel = %+v, want the color set mid-gesture", c)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	_ = e.SetStrokeWidth(4)
	draw(t, e, state.ToolPen, state.Pt(5, 5), state.Pt(100, 5), false)
	draw(t, e, state.ToolRectangle, state.Pt(10, 10), state.Pt(50, 30), false)
	draw(t, e, state.ToolEllipse, state.Pt(60, 40), state.Pt(110, 70), true)

	want := pixels(e)
	for k := 1; k <= 3; k++ {
		for i := 0; i < k; i++ {
			if ok, err := e.Undo(); !ok || err != nil {
				t.Fatalf("k=%d undo %d: %v %v", k, i, ok, err)
			}
		}
		for i := 0; i < k; i++ {
			if ok, err := e.Redo(); !ok || err != nil {
				t.Fatalf("k=%d redo %d: %v %v", k, i, ok, err)
			}
		}
		if !bytes.Equal(pixels(e), want) {
			t.Errorf("k=%d: surface differs after undo/redo round trip", k)
		}
	}
}

func TestUndoToBlankAndBoundaries(t *testing.T) {
	e := newTestEngine(t)
	if ok, _ := e.Undo(); ok {
		t.Error("undo on empty history should be a no-op")
	}
	_ = e.SetStrokeWidth(6)
	draw(t, e, state.ToolPen, state.Pt(10, 20), state.Pt(60, 20), false)

	if ok, _ := e.Redo(); ok {
		t.Error("redo at cursor 0 should be a no-op")
	}
	if ok, err := e.Undo(); !ok || err != nil {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if alphaAt(e, 35, 20) != 0 {
		t.Error("undoing the only stroke should leave a blank surface")
	}
	st := e.State()
	if st.CanUndo || !st.CanRedo {
		t.Errorf("state after undo = %+v", st)
	}
	cursor := e.history.Cursor()
	if ok, _ := e.Undo(); ok || e.history.Cursor() != cursor {
		t.Error("undo at the floor should leave the cursor unchanged")
	}
}

func TestDrawAfterUndoTruncatesRedo(t *testing.T) {
	e := newTestEngine(t)
	draw(t, e, state.ToolPen, state.Pt(5, 5), state.Pt(50, 5), false)
	draw(t, e, state.ToolPen, state.Pt(5, 15), state.Pt(50, 15), false)
	c := draw(t, e, state.ToolPen, state.Pt(5, 25), state.Pt(50, 25), false)

	_, _ = e.Undo()
	d := draw(t, e, state.ToolRectangle, state.Pt(60, 40), state.Pt(100, 70), false)

	if e.history.Len() != 3 {
		t.Fatalf("history length %d, want 3", e.history.Len())
	}
	if cur, _ := e.history.Current(); cur.ID() != d.Snapshot {
		t.Error("newest snapshot should be the rectangle")
	}
	if e.State().CanRedo {
		t.Error("redo branch should be discarded")
	}
	if c.Snapshot == d.Snapshot {
		t.Error("snapshot ids must be unique")
	}
}

func TestGestureStateMachine(t *testing.T) {
	e := newTestEngine(t)

	e.UpdateGesture(state.Pt(1, 1), state.Modifiers{})
	if c, err := e.CommitGesture(state.Pt(1, 1), state.Modifiers{}); err != nil || c.Snapshot != uuid.Nil {
		t.Fatalf("stale commit = %+v, %v; want ignored", c, err)
	}
	if e.history.Len() != 0 {
		t.Fatal("stale commit pushed a snapshot")
	}

	_ = e.SelectTool(state.ToolRectangle)
	if err := e.BeginGesture(state.Pt(10, 10), state.Modifiers{}); err != nil {
		t.Fatal(err)
	}
	if err := e.BeginGesture(state.Pt(20, 20), state.Modifiers{}); !errors.Is(err, ErrGestureActive) {
		t.Errorf("second BeginGesture error = %v, want ErrGestureActive", err)
	}
	if !e.State().Drawing {
		t.Error("State().Drawing should be true during a gesture")
	}

	// the tool is latched at BeginGesture
	_ = e.SelectTool(state.ToolEllipse)
	e.UpdateGesture(state.Pt(50, 30), state.Modifiers{})
	if _, ok := e.Preview().(RectPreview); !ok {
		t.Errorf("Preview() = %T, want RectPreview", e.Preview())
	}
	if ok, _ := e.Undo(); ok {
		t.Error("undo should be ignored while drawing")
	}
	if _, err := e.CommitGesture(state.Pt(50, 30), state.Modifiers{Constrain: true}); err != nil {
		t.Fatal(err)
	}
	if r := e.Overlay().Rect(); r.Height != 40 || r.Visible {
		t.Errorf("committed rect = %+v, want constrained square, hidden", r)
	}
	if e.State().Tool != state.ToolEllipse {
		t.Error("tool selection during the gesture was lost")
	}
}

func TestEraserClearsImmediately(t *testing.T) {
	e := newTestEngine(t)
	_ = e.SetStrokeWidth(12)
	draw(t, e, state.ToolPen, state.Pt(10, 20), state.Pt(80, 20), false)
	if alphaAt(e, 35, 20) == 0 {
		t.Fatal("stroke missing")
	}

	_ = e.SelectTool(state.ToolEraser)
	_ = e.BeginGesture(state.Pt(30, 15), state.Modifiers{})
	v := e.SurfaceVersion()
	e.UpdateGesture(state.Pt(30, 15), state.Modifiers{})
	if alphaAt(e, 35, 20) != 0 {
		t.Error("eraser move should clear pixels before commit")
	}
	if e.SurfaceVersion() == v {
		t.Error("erasing should bump the surface version")
	}
	if e.Preview() != nil && e.Overlay().Path().Visible {
		t.Error("eraser must not drive the preview")
	}
	c, err := e.CommitGesture(state.Pt(30, 15), state.Modifiers{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Damage.Empty() {
		t.Error("erase commit should report damage")
	}

	_, _ = e.Undo()
	if alphaAt(e, 35, 20) == 0 {
		t.Error("undo should bring back erased pixels")
	}
}

func TestClearBoardIsUndoable(t *testing.T) {
	e := newTestEngine(t)
	_ = e.SetStrokeWidth(6)
	draw(t, e, state.ToolPen, state.Pt(10, 20), state.Pt(60, 20), false)
	before := e.history.Len()

	if _, err := e.ClearBoard(); err != nil {
		t.Fatal(err)
	}
	if e.history.Len() != before+1 {
		t.Error("clear should push a snapshot")
	}
	if alphaAt(e, 35, 20) != 0 {
		t.Error("clear left pixels behind")
	}
	_, _ = e.Undo()
	if alphaAt(e, 35, 20) == 0 {
		t.Error("undoing clear should restore the stroke")
	}
}

func TestResizeClearsSurfaceKeepsHistory(t *testing.T) {
	e := newTestEngine(t)
	_ = e.SetStrokeWidth(6)
	draw(t, e, state.ToolPen, state.Pt(10, 20), state.Pt(60, 20), false)
	draw(t, e, state.ToolPen, state.Pt(10, 60), state.Pt(60, 60), false)

	if err := e.Resize(40, 40); err != nil {
		t.Fatal(err)
	}
	if st := e.State(); st.Width != 40 || st.Height != 40 {
		t.Fatalf("size = %dx%d", st.Width, st.Height)
	}
	if alphaAt(e, 30, 20) != 0 {
		t.Error("resize should discard raster content")
	}
	if e.history.Len() != 2 || !e.State().CanUndo {
		t.Error("resize must keep history")
	}

	// the first snapshot is 120x80; restored it is cropped to 40x40
	if ok, err := e.Undo(); !ok || err != nil {
		t.Fatalf("Undo after resize = %v, %v", ok, err)
	}
	if alphaAt(e, 30, 20) == 0 {
		t.Error("restored snapshot should show the first stroke")
	}
	if w, h := e.Image().Bounds().Dx(), e.Image().Bounds().Dy(); w != 40 || h != 40 {
		t.Errorf("restore changed the surface size to %dx%d", w, h)
	}

	if err := e.Resize(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize(0, 10) error = %v", err)
	}
}

func TestExportSurfaceAsImage(t *testing.T) {
	e := newTestEngine(t)
	draw(t, e, state.ToolRectangle, state.Pt(10, 10), state.Pt(50, 30), false)
	data, err := e.ExportSurfaceAsImage()
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported data is not PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("exported size %v", b)
	}
}

func TestSubscribeAndStyleValidation(t *testing.T) {
	e := newTestEngine(t)
	var got []State
	cancel := e.Subscribe(func(s State) { got = append(got, s) })

	if err := e.SetStrokeWidth(-2); !errors.Is(err, state.ErrInvalidWidth) {
		t.Fatalf("SetStrokeWidth(-2) error = %v", err)
	}
	if len(got) != 0 {
		t.Error("rejected style change should not notify")
	}
	_ = e.SetHexColor("#00ff00")
	e.SetBackgroundMode(BackgroundGrid)
	draw(t, e, state.ToolPen, state.Pt(1, 1), state.Pt(9, 9), false)

	last := got[len(got)-1]
	if last.Style.Color != (color.NRGBA{G: 255, A: 255}) || last.Background != BackgroundGrid {
		t.Errorf("last state = %+v", last)
	}
	if !last.CanUndo || last.Revision == 0 {
		t.Errorf("commit not reflected: %+v", last)
	}

	cancel()
	n := len(got)
	e.SetBackgroundMode(BackgroundTransparent)
	if len(got) != n {
		t.Error("cancelled subscription still notified")
	}
}

func TestHistoryLimitOption(t *testing.T) {
	e := newTestEngine(t, WithHistoryLimit(2))
	for i := 0; i < 4; i++ {
		draw(t, e, state.ToolPen, state.Pt(5, float64(5+10*i)), state.Pt(50, float64(5+10*i)), false)
	}
	if e.history.Len() != 2 {
		t.Fatalf("history length %d, want 2", e.history.Len())
	}
	_, _ = e.Undo()
	if e.State().CanUndo {
		t.Error("oldest kept snapshot should be the floor")
	}
}
