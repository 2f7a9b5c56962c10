package state

import "math"

// Bounds is an axis-aligned rectangle on the surface.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Empty reports whether b covers no area.
func (b Bounds) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// BoundsOf returns the bounding box of points grown by padding on every side.
// The padding covers half the stroke width so the box includes the painted
// pixels and not only the centre line.
func BoundsOf(points []Point, padding float64) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Bounds{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}
}

// Union returns the smallest rectangle containing both a and b. An empty
// operand is ignored.
func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	minX := math.Min(b.X, o.X)
	minY := math.Min(b.Y, o.Y)
	maxX := math.Max(b.X+b.Width, o.X+o.Width)
	maxY := math.Max(b.Y+b.Height, o.Y+o.Height)
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Overlaps reports whether the two rectangles share any area.
func (b Bounds) Overlaps(o Bounds) bool {
	return !(b.X+b.Width < o.X || o.X+o.Width < b.X ||
		b.Y+b.Height < o.Y || o.Y+o.Height < b.Y)
}

// Contains reports whether p lies inside b (edges included).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Clip intersects b with the surface rectangle [0,w)x[0,h).
func (b Bounds) Clip(w, h int) Bounds {
	minX := math.Max(b.X, 0)
	minY := math.Max(b.Y, 0)
	maxX := math.Min(b.X+b.Width, float64(w))
	maxY := math.Min(b.Y+b.Height, float64(h))
	if maxX <= minX || maxY <= minY {
		return Bounds{}
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
