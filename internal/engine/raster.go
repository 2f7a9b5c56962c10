package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"SketchBoard/internal/state"
)

var ErrInvalidSize = errors.New("surface dimensions must be positive")

// Snapshot is an immutable copy of the surface pixels. The zero Snapshot is
// the blank surface.
type Snapshot struct {
	id            uuid.UUID
	width, height int
	pix           []byte
}

func (s Snapshot) ID() uuid.UUID    { return s.id }
func (s Snapshot) Size() (int, int) { return s.width, s.height }
func (s Snapshot) Blank() bool      { return s.pix == nil }

// Image returns a copy of the captured pixels.
func (s Snapshot) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.pix)
	return img
}

// Compositor owns the persistent pixel surface. Committed shapes are stroked
// onto it with the style applied right before the stroke.
type Compositor struct {
	dc *gg.Context
}

func NewCompositor(width, height int) (*Compositor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Compositor{dc: gg.NewContext(width, height)}, nil
}

func (c *Compositor) Size() (int, int) { return c.dc.Width(), c.dc.Height() }

// ApplyStyle must run immediately before a stroke operation.
func (c *Compositor) ApplyStyle(s state.Style) {
	c.dc.SetColor(s.Color)
	c.dc.SetLineWidth(s.StrokeWidth)
	switch s.Cap {
	case state.CapButt:
		c.dc.SetLineCap(gg.LineCapButt)
	case state.CapSquare:
		c.dc.SetLineCap(gg.LineCapSquare)
	default:
		c.dc.SetLineCap(gg.LineCapRound)
	}
	switch s.Join {
	case state.JoinMiter:
		c.dc.SetLineJoin(gg.LineJoinMiter)
	case state.JoinBevel:
		c.dc.SetLineJoin(gg.LineJoinBevel)
	default:
		c.dc.SetLineJoin(gg.LineJoinRound)
	}
}

func (c *Compositor) BeginStroke(p state.Point)    { c.dc.MoveTo(p.X, p.Y) }
func (c *Compositor) ContinueStroke(p state.Point) { c.dc.LineTo(p.X, p.Y) }

// FinishStroke paints the path built by BeginStroke/ContinueStroke.
func (c *Compositor) FinishStroke() error {
	if err := c.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke path: %w", err)
	}
	return nil
}

func (c *Compositor) StrokeRect(x, y, w, h float64) error {
	c.dc.DrawRectangle(x, y, w, h)
	if err := c.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke rect: %w", err)
	}
	return nil
}

func (c *Compositor) StrokeEllipse(cx, cy, rx, ry float64) error {
	c.dc.DrawEllipse(cx, cy, rx, ry)
	if err := c.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke ellipse: %w", err)
	}
	return nil
}

// EraseArea resets the pixels of the rectangle to transparent.
func (c *Compositor) EraseArea(x, y, w, h float64) {
	r := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
	pm := c.dc.ResizeTarget()
	r = r.Intersect(pm.Bounds())
	if r.Empty() {
		return
	}
	data := pm.Data()
	stride := pm.Width() * 4
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := data[py*stride+r.Min.X*4 : py*stride+r.Max.X*4]
		clear(row)
	}
}

// Draw rasterizes a committed shape. Degenerate rectangles and ellipses, and
// paths with a single point, leave the surface untouched.
func (c *Compositor) Draw(s Shape) error {
	switch s := s.(type) {
	case PathShape:
		if len(s.Points) < 2 {
			return nil
		}
		c.BeginStroke(s.Points[0])
		for _, p := range s.Points[1:] {
			c.ContinueStroke(p)
		}
		return c.FinishStroke()
	case RectShape:
		if s.Width == 0 && s.Height == 0 {
			return nil
		}
		return c.StrokeRect(s.X, s.Y, s.Width, s.Height)
	case EllipseShape:
		if s.RX == 0 && s.RY == 0 {
			return nil
		}
		return c.StrokeEllipse(s.CX, s.CY, s.RX, s.RY)
	case EraseShape:
		c.EraseArea(s.X, s.Y, s.Width, s.Height)
		return nil
	}
	return fmt.Errorf("draw: unsupported shape %T", s)
}

// Clear resets the whole surface to transparent.
func (c *Compositor) Clear() {
	c.dc.ClearPath()
	c.dc.Clear()
}

// Snapshot captures the current surface. Every call is a fresh copy.
func (c *Compositor) Snapshot() (Snapshot, error) {
	if err := c.dc.FlushGPU(); err != nil {
		return Snapshot{}, fmt.Errorf("capture surface: %w", err)
	}
	pm := c.dc.ResizeTarget()
	pix := make([]byte, len(pm.Data()))
	copy(pix, pm.Data())
	return Snapshot{id: uuid.New(), width: pm.Width(), height: pm.Height(), pix: pix}, nil
}

// Restore replaces the surface content with s. The surface is cleared first,
// then the overlapping region is copied, so a snapshot taken before a resize
// lands at the top-left corner and is cropped or padded with transparency.
func (c *Compositor) Restore(s Snapshot) error {
	c.Clear()
	if s.Blank() {
		return nil
	}
	if len(s.pix) != s.width*s.height*4 {
		return fmt.Errorf("restore snapshot %s: %d bytes for %dx%d", s.id, len(s.pix), s.width, s.height)
	}
	pm := c.dc.ResizeTarget()
	data := pm.Data()
	w := min(s.width, pm.Width())
	h := min(s.height, pm.Height())
	dstStride, srcStride := pm.Width()*4, s.width*4
	for y := 0; y < h; y++ {
		copy(data[y*dstStride:y*dstStride+w*4], s.pix[y*srcStride:y*srcStride+w*4])
	}
	return nil
}

// Resize reallocates the surface; existing pixels are discarded.
func (c *Compositor) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if err := c.dc.Resize(width, height); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	return nil
}

// Image returns a copy of the surface.
func (c *Compositor) Image() *image.RGBA {
	return c.dc.ResizeTarget().ToImage()
}

// EncodePNG writes the surface as PNG.
func (c *Compositor) EncodePNG(w io.Writer) error {
	if err := c.dc.FlushGPU(); err != nil {
		return fmt.Errorf("capture surface: %w", err)
	}
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (c *Compositor) Close() error {
	return c.dc.Close()
}
