package ui

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	boardnet "SketchBoard/internal/net"
)

// Viewer shows frames received from a host mirror. It never draws.
type Viewer struct {
	image  *canvas.Image
	status *widget.Label
	last   uint64
}

func NewViewer() *Viewer {
	v := &Viewer{
		image:  canvas.NewImageFromImage(nil),
		status: widget.NewLabel("Connecting..."),
	}
	v.image.FillMode = canvas.ImageFillContain
	return v
}

func (v *Viewer) CanvasObject() fyne.CanvasObject {
	return container.NewBorder(nil, v.status, nil, nil, v.image)
}

// ShowFrame decodes f and displays it. Frames older than the one shown are
// dropped. Must run on the UI goroutine.
func (v *Viewer) ShowFrame(f boardnet.Frame) error {
	if f.Revision != 0 && f.Revision < v.last {
		return nil
	}
	img, err := png.Decode(bytes.NewReader(f.PNG))
	if err != nil {
		return fmt.Errorf("decode frame %d: %w", f.Revision, err)
	}
	v.last = f.Revision
	v.image.Image = img
	v.image.Refresh()
	v.status.SetText(fmt.Sprintf("Revision %d, %dx%d", f.Revision, f.Width, f.Height))
	return nil
}

func (v *Viewer) SetStatus(text string) {
	fyne.Do(func() { v.status.SetText(text) })
}

// RunViewer opens a read-only window mirroring the board at addr and blocks
// until it is closed.
func RunViewer(addr string) {
	myApp := app.NewWithID(AppID + ".viewer")
	myWindow := myApp.NewWindow("SketchBoard - " + addr)
	myWindow.Resize(fyne.NewSize(800, 600))

	v := NewViewer()
	myWindow.SetContent(v.CanvasObject())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := boardnet.Watch(ctx, addr, func(f boardnet.Frame) {
			fyne.Do(func() {
				if err := v.ShowFrame(f); err != nil {
					log.Printf("[UI] %v", err)
				}
			})
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("[UI] Mirror connection ended: %v", err)
			v.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
			return
		}
		v.SetStatus("Host closed the board")
	}()

	myWindow.ShowAndRun()
}
