package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/engine"
)

const AppID = "io.sketchboard.app"

// Options configures the main window.
type Options struct {
	Title     string
	ShareLink string
	Width     float32
	Height    float32
}

// RunApp opens the board window for e and blocks until it is closed.
func RunApp(e *engine.Engine, opts Options) {
	myApp := app.NewWithID(AppID)
	if opts.Title == "" {
		opts.Title = "SketchBoard"
	}
	myWindow := myApp.NewWindow(opts.Title)
	myWindow.Resize(fyne.NewSize(max(opts.Width, 400), max(opts.Height, 300)+80))

	restorePreferences(myApp.Preferences(), e)
	cancelPrefs := persistPreferences(myApp.Preferences(), e)
	defer cancelPrefs()

	board := NewBoardWidget(e)
	toolbar := NewToolbar(board, myWindow)
	defer toolbar.Close()

	myWindow.SetContent(newLayout(board, toolbar, opts.ShareLink))
	installShortcuts(myWindow.Canvas(), board)

	log.Println("[UI] Board window ready")
	myWindow.ShowAndRun()
}

func newLayout(board *BoardWidget, toolbar *Toolbar, shareLink string) fyne.CanvasObject {
	status := container.NewHBox(board.StatusBar(), layout.NewSpacer())
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		link.Disable()
		status.Add(widget.NewLabel("Share:"))
		status.Add(link)
	}
	return container.NewBorder(toolbar.CanvasObject(), status, nil, nil, board)
}

// installShortcuts binds undo/redo keys and tracks shift for constrained
// shapes.
func installShortcuts(c fyne.Canvas, board *BoardWidget) {
	undo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redo := &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}
	redoShift := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}

	c.AddShortcut(undo, func(fyne.Shortcut) { board.Undo() })
	c.AddShortcut(redo, func(fyne.Shortcut) { board.Redo() })
	c.AddShortcut(redoShift, func(fyne.Shortcut) { board.Redo() })

	dc, ok := c.(desktop.Canvas)
	if !ok {
		return
	}
	dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
		if isShift(ev.Name) {
			board.SetShift(true)
		}
	})
	dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
		if isShift(ev.Name) {
			board.SetShift(false)
		}
	})
}

func isShift(k fyne.KeyName) bool {
	return k == desktop.KeyShiftLeft || k == desktop.KeyShiftRight
}
