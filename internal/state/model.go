package state

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Point is a position in surface-local coordinates.
type Point struct{ X, Y float64 }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Modifiers is the modifier-key state carried by a pointer event.
type Modifiers struct {
	// Constrain is true while the constraint key (shift) is held.
	Constrain bool
}

// ToolKind identifies the active drawing tool.
type ToolKind int

const (
	ToolPen ToolKind = iota
	ToolRectangle
	ToolEllipse
	ToolEraser
)

var toolNames = map[ToolKind]string{
	ToolPen:       "pen",
	ToolRectangle: "rect",
	ToolEllipse:   "ellipse",
	ToolEraser:    "eraser",
}

func (k ToolKind) String() string {
	if n, ok := toolNames[k]; ok {
		return n
	}
	return fmt.Sprintf("tool(%d)", int(k))
}

// Valid reports whether k names a known tool.
func (k ToolKind) Valid() bool {
	_, ok := toolNames[k]
	return ok
}

// ParseTool maps a tool name (as produced by String) back to its kind.
// "square" and "circle" are accepted as aliases.
func ParseTool(name string) (ToolKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pen", "pencil":
		return ToolPen, nil
	case "rect", "rectangle", "square":
		return ToolRectangle, nil
	case "ellipse", "circle":
		return ToolEllipse, nil
	case "eraser":
		return ToolEraser, nil
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// LineCap is the shape of stroke endpoints.
type LineCap int

const (
	CapRound LineCap = iota
	CapButt
	CapSquare
)

// LineJoin is the shape of stroke corners.
type LineJoin int

const (
	JoinRound LineJoin = iota
	JoinMiter
	JoinBevel
)

// ParseLineCap accepts "round", "butt" and "square".
func ParseLineCap(name string) (LineCap, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "round":
		return CapRound, nil
	case "butt":
		return CapButt, nil
	case "square":
		return CapSquare, nil
	}
	return 0, fmt.Errorf("unknown line cap %q", name)
}

// ParseLineJoin accepts "round", "miter" and "bevel".
func ParseLineJoin(name string) (LineJoin, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "round":
		return JoinRound, nil
	case "miter":
		return JoinMiter, nil
	case "bevel":
		return JoinBevel, nil
	}
	return 0, fmt.Errorf("unknown line join %q", name)
}

var (
	ErrInvalidWidth = errors.New("stroke width must be a positive finite number")
	ErrInvalidColor = errors.New("malformed color")
)

// Style is applied to every committed stroke.
type Style struct {
	Color       color.NRGBA
	StrokeWidth float64
	Cap         LineCap
	Join        LineJoin
}

// DefaultStyle is black, 3 units wide, with round caps and joins.
func DefaultStyle() Style {
	return Style{
		Color:       color.NRGBA{A: 255},
		StrokeWidth: 3,
		Cap:         CapRound,
		Join:        JoinRound,
	}
}

// ValidateWidth checks a stroke width before it is applied.
func ValidateWidth(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidWidth, w)
	}
	return nil
}

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (leading '#' optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// HexColor formats c as "#RRGGBB", or "#RRGGBBAA" when not opaque.
func HexColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
