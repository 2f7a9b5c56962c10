package engine

import (
	"math"

	"SketchBoard/internal/state"
)

// EraserSize is the side of the square cleared by each eraser move.
const EraserSize = 10

// Shape is the geometry produced for one frame of a gesture. It is one of
// PathShape, RectShape, EllipseShape or EraseShape.
type Shape interface {
	// Bounds is the area touched when the shape is stroked with the given
	// width.
	Bounds(strokeWidth float64) state.Bounds
	isShape()
}

// PathShape is a freehand polyline.
type PathShape struct {
	Points []state.Point
}

// RectShape is an axis-aligned rectangle with a top-left origin and
// non-negative size.
type RectShape struct {
	X, Y, Width, Height float64
}

// EllipseShape is an axis-aligned ellipse.
type EllipseShape struct {
	CX, CY, RX, RY float64
}

// EraseShape is an area to clear immediately. It never reaches the overlay.
type EraseShape struct {
	X, Y, Width, Height float64
}

func (PathShape) isShape()    {}
func (RectShape) isShape()    {}
func (EllipseShape) isShape() {}
func (EraseShape) isShape()   {}

func (s PathShape) Bounds(w float64) state.Bounds {
	return state.BoundsOf(s.Points, w/2)
}

func (s RectShape) Bounds(w float64) state.Bounds {
	return state.Bounds{X: s.X - w/2, Y: s.Y - w/2, Width: s.Width + w, Height: s.Height + w}
}

func (s EllipseShape) Bounds(w float64) state.Bounds {
	return state.Bounds{
		X:      s.CX - s.RX - w/2,
		Y:      s.CY - s.RY - w/2,
		Width:  2*s.RX + w,
		Height: 2*s.RY + w,
	}
}

func (s EraseShape) Bounds(float64) state.Bounds {
	return state.Bounds{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// SnapPenPoint returns the next pen point. When constrained, the segment from
// prev is forced horizontal or vertical, following the axis with the larger
// absolute delta.
func SnapPenPoint(prev, current state.Point, constrained bool) state.Point {
	if !constrained {
		return current
	}
	d := current.Sub(prev)
	if math.Abs(d.X) >= math.Abs(d.Y) {
		return state.Pt(current.X, prev.Y)
	}
	return state.Pt(prev.X, current.Y)
}

// ComputeRect spans anchor to current. Constrained, the rectangle becomes a
// square whose side is the horizontal extent; the sign of the vertical delta
// still picks whether it grows up or down.
func ComputeRect(anchor, current state.Point, constrained bool) RectShape {
	w := current.X - anchor.X
	h := current.Y - anchor.Y
	if constrained {
		side := math.Abs(w)
		if h < 0 {
			h = -side
		} else {
			h = side
		}
	}
	r := RectShape{X: anchor.X, Y: anchor.Y, Width: w, Height: h}
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// ComputeEllipse centres the ellipse between anchor and current. Constrained,
// it becomes a circle with the horizontal radius.
func ComputeEllipse(anchor, current state.Point, constrained bool) EllipseShape {
	w := current.X - anchor.X
	h := current.Y - anchor.Y
	e := EllipseShape{
		CX: anchor.X + w/2,
		CY: anchor.Y + h/2,
		RX: math.Abs(w) / 2,
		RY: math.Abs(h) / 2,
	}
	if constrained {
		e.RY = e.RX
	}
	return e
}

// ComputeErase returns the eraser square with its top-left corner at current.
func ComputeErase(current state.Point) EraseShape {
	return EraseShape{X: current.X, Y: current.Y, Width: EraserSize, Height: EraserSize}
}

// ComputeGeometry produces the shape for the given tool. For the pen, path is
// the running point list; the (possibly snapped) current point is appended to
// a copy and the full list is returned, since a path is replayed whole on
// every frame.
func ComputeGeometry(tool state.ToolKind, anchor, current state.Point, constrained bool, path []state.Point) Shape {
	switch tool {
	case state.ToolRectangle:
		return ComputeRect(anchor, current, constrained)
	case state.ToolEllipse:
		return ComputeEllipse(anchor, current, constrained)
	case state.ToolEraser:
		return ComputeErase(current)
	default:
		prev := anchor
		if len(path) > 0 {
			prev = path[len(path)-1]
		}
		pts := make([]state.Point, len(path), len(path)+1)
		copy(pts, path)
		return PathShape{Points: append(pts, SnapPenPoint(prev, current, constrained))}
	}
}
