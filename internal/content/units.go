package content

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Units splits text into its selectable units (grapheme clusters).
func Units(text string) []string {
	if text == "" {
		return nil
	}
	units := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		units = append(units, g.Str())
	}
	return units
}

// UnitCount returns the number of selectable units in text.
func UnitCount(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// unitByteOffset returns the byte offset of the unit with index u.
// u may equal the unit count, in which case len(text) is returned.
func unitByteOffset(text string, u int) int {
	if u <= 0 {
		return 0
	}
	pos := 0
	n := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if n == u {
			return pos
		}
		_, to := g.Positions()
		pos = to
		n++
	}
	return len(text)
}

// Words splits paragraph text into layout words. A word is a run of
// non-space units followed by the run of spaces after it, so joining the
// words reproduces the text exactly.
func Words(text string) []string {
	if text == "" {
		return nil
	}
	var words []string
	var b strings.Builder
	inSpace := false
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		unit := g.Str()
		space := isSpace(unit)
		if !space && inSpace {
			words = append(words, b.String())
			b.Reset()
			inSpace = false
		}
		if space {
			inSpace = true
		}
		b.WriteString(unit)
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}

func isSpace(unit string) bool {
	for _, r := range unit {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return unit != ""
}
