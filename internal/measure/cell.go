package measure

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/loom/internal/content"
)

// Cell measures text in terminal cells. Every line is one cell tall and
// style is ignored apart from letter spacing, which is added per unit.
type Cell struct{}

// Measure implements Measurer.
func (Cell) Measure(text string, style content.Style) Metrics {
	width := float64(runewidth.StringWidth(text))
	if style.LetterSpacing != 0 {
		width += float64(content.UnitCount(text)) * style.LetterSpacing
	}
	return Metrics{Width: width, Height: 1}
}
