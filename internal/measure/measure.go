// Package measure provides the text measurement service used by layout and
// viewport geometry.
//
// A Measurer is a pure function of (text, style): identical inputs always
// produce identical metrics. Three implementations are provided:
//
//   - Font measures proportional advances with the Go font family
//   - Cell measures terminal cells (East Asian wide runes take two)
//   - Monospace uses a fixed advance per unit and is meant for tests
//
// Cache wraps any Measurer with a bounded LRU.
package measure

import (
	"github.com/dshills/loom/internal/content"
)

// Metrics is the result of measuring a run of text.
type Metrics struct {
	Width  float64
	Height float64
}

// Measurer measures text in a given style.
type Measurer interface {
	Measure(text string, style content.Style) Metrics
}

// Func adapts a function to the Measurer interface.
type Func func(text string, style content.Style) Metrics

// Measure implements Measurer.
func (f Func) Measure(text string, style content.Style) Metrics {
	return f(text, style)
}

// Monospace gives every unit the same advance.
type Monospace struct {
	// Advance is the width of one unit.
	Advance float64
}

// Measure implements Measurer. Height is the style's line height, or 1
// when the style carries none.
func (m Monospace) Measure(text string, style content.Style) Metrics {
	n := float64(content.UnitCount(text))
	width := n*m.Advance + n*style.LetterSpacing
	height := style.LineHeight
	if height <= 0 {
		height = 1
	}
	return Metrics{Width: width, Height: height}
}
