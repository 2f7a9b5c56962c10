package state

import (
	"fmt"
	"image/color"
)

// Toolbox holds the selected tool and the active style. It carries no
// geometry; values are validated before they replace the current ones so a
// rejected update leaves the previous style in effect.
type Toolbox struct {
	tool  ToolKind
	style Style
}

// NewToolbox starts with the pen and DefaultStyle.
func NewToolbox() *Toolbox {
	return &Toolbox{tool: ToolPen, style: DefaultStyle()}
}

func (t *Toolbox) Tool() ToolKind { return t.tool }
func (t *Toolbox) Style() Style   { return t.style }

// SelectTool is always legal and takes effect immediately.
func (t *Toolbox) SelectTool(kind ToolKind) error {
	if !kind.Valid() {
		return fmt.Errorf("select tool: %v", kind)
	}
	t.tool = kind
	return nil
}

// SetColor replaces the stroke color. A nil color is malformed.
func (t *Toolbox) SetColor(c color.Color) error {
	if c == nil {
		return fmt.Errorf("%w: nil", ErrInvalidColor)
	}
	t.style.Color = color.NRGBAModel.Convert(c).(color.NRGBA)
	return nil
}

// SetHexColor parses and applies a hex color string.
func (t *Toolbox) SetHexColor(s string) error {
	c, err := ParseHexColor(s)
	if err != nil {
		return err
	}
	t.style.Color = c
	return nil
}

func (t *Toolbox) SetStrokeWidth(w float64) error {
	if err := ValidateWidth(w); err != nil {
		return err
	}
	t.style.StrokeWidth = w
	return nil
}

func (t *Toolbox) SetLineCap(c LineCap) error {
	if c < CapRound || c > CapSquare {
		return fmt.Errorf("unknown line cap %d", c)
	}
	t.style.Cap = c
	return nil
}

func (t *Toolbox) SetLineJoin(j LineJoin) error {
	if j < JoinRound || j > JoinBevel {
		return fmt.Errorf("unknown line join %d", j)
	}
	t.style.Join = j
	return nil
}

// SetStyle replaces the whole style after validating it.
func (t *Toolbox) SetStyle(s Style) error {
	if err := ValidateWidth(s.StrokeWidth); err != nil {
		return err
	}
	if s.Cap < CapRound || s.Cap > CapSquare || s.Join < JoinRound || s.Join > JoinBevel {
		return fmt.Errorf("invalid cap/join %d/%d", s.Cap, s.Join)
	}
	t.style = s
	return nil
}
