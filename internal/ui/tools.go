package ui

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/export"
	"SketchBoard/internal/state"
)

var palette = []color.NRGBA{
	{A: 255},                        // Black
	{R: 229, G: 57, B: 53, A: 255},  // Red
	{R: 67, G: 160, B: 71, A: 255},  // Green
	{R: 30, G: 136, B: 229, A: 255}, // Blue
	{R: 253, G: 216, B: 53, A: 255}, // Yellow
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.NRGBA
	OnTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the controls bound to a board's engine state.
type Toolbar struct {
	board *BoardWidget
	win   fyne.Window

	tools  map[state.ToolKind]*widget.Button
	undo   *widget.Button
	redo   *widget.Button
	grid   *widget.Check
	slider *widget.Slider

	cancel func()
}

// NewToolbar builds the controls and subscribes them to engine state.
func NewToolbar(board *BoardWidget, win fyne.Window) *Toolbar {
	t := &Toolbar{board: board, win: win, tools: make(map[state.ToolKind]*widget.Button)}
	e := board.Engine()

	toolIcons := []struct {
		kind  state.ToolKind
		label string
		icon  fyne.Resource
	}{
		{state.ToolPen, "Pen", theme.DocumentCreateIcon()},
		{state.ToolRectangle, "Rect", theme.CheckButtonIcon()},
		{state.ToolEllipse, "Ellipse", theme.RadioButtonIcon()},
		{state.ToolEraser, "Eraser", theme.ContentClearIcon()},
	}
	for _, ti := range toolIcons {
		kind := ti.kind
		t.tools[kind] = widget.NewButtonWithIcon(ti.label, ti.icon, func() {
			if err := e.SelectTool(kind); err != nil {
				log.Printf("[UI] Select %v: %v", kind, err)
			}
		})
	}

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), board.Undo)
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), board.Redo)
	t.grid = widget.NewCheck("Grid", func(on bool) {
		if on != (e.State().Background == engine.BackgroundGrid) {
			board.ToggleGrid()
		}
	})

	t.slider = widget.NewSlider(1.0, 50.0)
	t.slider.SetValue(e.State().Style.StrokeWidth)
	t.slider.OnChanged = func(val float64) {
		if err := e.SetStrokeWidth(val); err != nil {
			log.Printf("[UI] Stroke width %v: %v", val, err)
		}
	}

	t.cancel = e.Subscribe(t.sync)
	t.sync(e.State())
	return t
}

// sync mirrors engine state into the controls.
func (t *Toolbar) sync(s engine.State) {
	for kind, btn := range t.tools {
		if kind == s.Tool {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
	setEnabled(t.undo, s.CanUndo)
	setEnabled(t.redo, s.CanRedo)
	if on := s.Background == engine.BackgroundGrid; t.grid.Checked != on {
		t.grid.SetChecked(on)
	}
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}

// Close detaches the toolbar from engine state.
func (t *Toolbar) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}

// CanvasObject assembles the toolbar row.
func (t *Toolbar) CanvasObject() fyne.CanvasObject {
	e := t.board.Engine()
	onColorTapped := func(c color.NRGBA) {
		if err := e.SetColor(c); err != nil {
			log.Printf("[UI] Color %v: %v", c, err)
		}
	}
	colorBox := container.NewHBox()
	for _, c := range palette {
		colorBox.Add(newColorSwatch(c, onColorTapped))
	}

	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.slider)
	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), t.board.ClearBoard)
	save := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), t.showExport)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		t.tools[state.ToolPen], t.tools[state.ToolRectangle], t.tools[state.ToolEllipse], t.tools[state.ToolEraser],
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		t.undo, t.redo, clearBtn, t.grid,
		layout.NewSpacer(),
		save,
	)
}

func (t *Toolbar) showExport() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[UI] Error closing export: %v", err)
			}
		}()
		if err := exportBoard(writer, writer.URI().Extension(), t.board.Engine()); err != nil {
			log.Printf("[UI] Export failed: %v", err)
			dialog.ShowError(err, t.win)
			return
		}
		t.board.SetStatus("Exported " + writer.URI().Name())
	}, t.win)
	d.SetFileName("board.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf"}))
	d.Show()
}

// exportBoard writes the surface as PNG or, for ".pdf", as a one-page PDF.
func exportBoard(w io.Writer, ext string, e *engine.Engine) error {
	data, err := e.ExportSurfaceAsImage()
	if err != nil {
		return err
	}
	switch strings.ToLower(ext) {
	case ".pdf":
		st := e.State()
		return export.WritePDF(w, data, st.Width, st.Height)
	case ".png", "":
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", export.ErrUnknownFormat, ext)
}
