package content

import "fmt"

// Default text style values.
const (
	DefaultFontFamily    = "Arial"
	DefaultFontSize      = 18
	DefaultFontWeight    = 400
	DefaultLineHeight    = 36
	DefaultLetterSpacing = 0
)

// Style describes how a run of text is measured.
type Style struct {
	FontFamily    string
	FontSize      float64
	FontWeight    int
	LineHeight    float64
	LetterSpacing float64
}

// DefaultStyle returns the placeholder style used when none is configured.
func DefaultStyle() Style {
	return Style{
		FontFamily:    DefaultFontFamily,
		FontSize:      DefaultFontSize,
		FontWeight:    DefaultFontWeight,
		LineHeight:    DefaultLineHeight,
		LetterSpacing: DefaultLetterSpacing,
	}
}

// Bold reports whether the weight should be rendered with a bold face.
func (s Style) Bold() bool {
	return s.FontWeight >= 600
}

// Key returns a stable string key for the style, suitable for cache keys.
func (s Style) Key() string {
	return fmt.Sprintf("%s/%g/%d/%g/%g", s.FontFamily, s.FontSize, s.FontWeight, s.LineHeight, s.LetterSpacing)
}
