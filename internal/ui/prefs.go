package ui

import (
	"log"

	"fyne.io/fyne/v2"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/state"
)

const (
	prefStrokeColor = "strokeColor"
	prefStrokeWidth = "strokeWidth"
	prefBackground  = "background"
)

// restorePreferences applies the saved style. Bad stored values are logged
// and skipped.
func restorePreferences(p fyne.Preferences, e *engine.Engine) {
	if hex := p.String(prefStrokeColor); hex != "" {
		if err := e.SetHexColor(hex); err != nil {
			log.Printf("[UI] Ignoring saved color %q: %v", hex, err)
		}
	}
	if w := p.Float(prefStrokeWidth); w != 0 {
		if err := e.SetStrokeWidth(w); err != nil {
			log.Printf("[UI] Ignoring saved width %v: %v", w, err)
		}
	}
	if b, err := engine.ParseBackground(p.String(prefBackground)); err == nil {
		e.SetBackgroundMode(b)
	}
}

// persistPreferences saves the style whenever it changes.
func persistPreferences(p fyne.Preferences, e *engine.Engine) (cancel func()) {
	return e.Subscribe(func(s engine.State) {
		if hex := state.HexColor(s.Style.Color); p.String(prefStrokeColor) != hex {
			p.SetString(prefStrokeColor, hex)
		}
		if p.Float(prefStrokeWidth) != s.Style.StrokeWidth {
			p.SetFloat(prefStrokeWidth, s.Style.StrokeWidth)
		}
		if bg := s.Background.String(); p.String(prefBackground) != bg {
			p.SetString(prefBackground, bg)
		}
	})
}
