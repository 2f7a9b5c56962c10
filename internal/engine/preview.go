package engine

import "SketchBoard/internal/state"

// Preview is the live vector shape shown over the raster surface. It is one
// of PathPreview, RectPreview or EllipsePreview; a nil Preview means nothing
// is shown.
type Preview interface {
	isPreview()
}

type PathPreview struct {
	Points  []state.Point
	Visible bool
}

type RectPreview struct {
	X, Y, Width, Height float64
	Visible             bool
}

type EllipsePreview struct {
	CX, CY, RX, RY float64
	Visible        bool
}

func (PathPreview) isPreview()    {}
func (RectPreview) isPreview()    {}
func (EllipsePreview) isPreview() {}

type family int

const (
	familyNone family = iota
	familyPath
	familyRect
	familyEllipse
)

// Overlay keeps the last preview of each shape family. Update replaces the
// geometry of one family and makes it the live one; Hide only clears the
// visible flag so the last geometry stays addressable until the next gesture
// overwrites it. The overlay is never rasterized.
type Overlay struct {
	path    PathPreview
	rect    RectPreview
	ellipse EllipsePreview
	live    family

	width, height int
}

func NewOverlay(width, height int) *Overlay {
	return &Overlay{width: width, height: height}
}

// Update shows s. Erase shapes are ignored: erasing bypasses the overlay.
func (o *Overlay) Update(s Shape) {
	switch s := s.(type) {
	case PathShape:
		pts := make([]state.Point, len(s.Points))
		copy(pts, s.Points)
		o.path = PathPreview{Points: pts, Visible: true}
		o.live = familyPath
	case RectShape:
		o.rect = RectPreview{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height, Visible: true}
		o.live = familyRect
	case EllipseShape:
		o.ellipse = EllipsePreview{CX: s.CX, CY: s.CY, RX: s.RX, RY: s.RY, Visible: true}
		o.live = familyEllipse
	}
}

// Hide suppresses rendering of the live preview without discarding it.
func (o *Overlay) Hide() {
	switch o.live {
	case familyPath:
		o.path.Visible = false
	case familyRect:
		o.rect.Visible = false
	case familyEllipse:
		o.ellipse.Visible = false
	}
}

// Show makes the last live preview visible again.
func (o *Overlay) Show() {
	switch o.live {
	case familyPath:
		o.path.Visible = true
	case familyRect:
		o.rect.Visible = true
	case familyEllipse:
		o.ellipse.Visible = true
	}
}

// Current returns the live preview, or nil when none is visible.
func (o *Overlay) Current() Preview {
	switch o.live {
	case familyPath:
		if o.path.Visible {
			return o.path
		}
	case familyRect:
		if o.rect.Visible {
			return o.rect
		}
	case familyEllipse:
		if o.ellipse.Visible {
			return o.ellipse
		}
	}
	return nil
}

// Path, Rect and Ellipse return the last geometry of each family whether or
// not it is visible.
func (o *Overlay) Path() PathPreview       { return o.path }
func (o *Overlay) Rect() RectPreview       { return o.rect }
func (o *Overlay) Ellipse() EllipsePreview { return o.ellipse }

// Resize sets the overlay coordinate space to match the raster surface.
func (o *Overlay) Resize(width, height int) {
	o.width, o.height = width, height
}

func (o *Overlay) Size() (int, int) { return o.width, o.height }
