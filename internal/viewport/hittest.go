package viewport

import (
	"fmt"

	"github.com/dshills/loom/internal/layout"
)

// XToOffset returns the local offset in box nearest to the viewport x
// coordinate. Box must be a word or a line.
//
// For a word, positions are scanned left to right and the scan stops at
// the first one whose cumulative width exceeds x. If x is strictly closer
// to the previous position that one is returned, otherwise the current one.
// An x past the word's content returns the word's unit count.
//
// For a line, the word under x answers and the result is clamped to the
// line's last offset; an x past the line's content returns that offset.
func (m *Mapper) XToOffset(box layout.Box, x float64) (int, error) {
	if err := m.check(box); err != nil {
		return 0, err
	}
	g, err := m.place()
	if err != nil {
		return 0, err
	}

	switch box.Kind() {
	case layout.KindWord:
		w, _ := box.AsWord()
		return m.wordOffset(w, x-g.wordX[box.ID()]), nil
	case layout.KindLine:
		line, _ := box.AsLine()
		return m.lineOffset(g, line, x), nil
	default:
		return 0, fmt.Errorf("%w: hit test on %s box", layout.ErrUnexpectedKind, box.Kind())
	}
}

// PointToOffset returns the flat offset under the viewport point. Points
// above the first line hit the first line; points below a page's last line
// hit that line.
func (m *Mapper) PointToOffset(x, y float64) (int, error) {
	g, err := m.place()
	if err != nil {
		return 0, err
	}
	hit := g.lines[0]
	for _, lg := range g.lines[1:] {
		if lg.top > y {
			break
		}
		hit = lg
	}
	return hit.box.Start() + m.lineOffset(g, hit.box, x), nil
}

// lineOffset walks the line's words accumulating width and delegates to
// the word under x.
func (m *Mapper) lineOffset(g *geometry, line layout.LineBox, x float64) int {
	last := line.SelectableSize() - 1
	start := 0
	for _, w := range line.Words() {
		left := g.wordX[w.ID()]
		if x < left+m.widths(w).width() {
			return min(start+m.wordOffset(w, x-left), last)
		}
		start += w.SelectableSize()
	}
	return last
}

// wordOffset hit-tests a word at x relative to the word's left edge.
func (m *Mapper) wordOffset(w layout.WordBox, x float64) int {
	prefix := m.widths(w).prefix
	if m.opts.TailCompat {
		return tailCompatOffset(prefix, x)
	}
	return nearestOffset(prefix, x)
}

// nearestOffset scans prefix widths for the first position past x. Distance
// ties go to the later position. Positions sharing an x, as around a
// zero-width unit, resolve to the earliest of them.
func nearestOffset(prefix []float64, x float64) int {
	n := len(prefix) - 1
	for k := 1; k <= n; k++ {
		if prefix[k] > x {
			if x-prefix[k-1] >= prefix[k]-x {
				return k
			}
			j := k - 1
			for j > 0 && prefix[j-1] == prefix[j] {
				j--
			}
			return j
		}
	}
	return n
}

// tailCompatOffset reproduces the legacy scan: ties go to the earlier
// position, the final position is never compared by distance, and an x
// exactly on the last unit's left edge returns that unit.
func tailCompatOffset(prefix []float64, x float64) int {
	n := len(prefix) - 1
	last := 0.0
	for k := 1; k < n; k++ {
		w := prefix[k]
		if w > x {
			if x-last > w-x {
				return k
			}
			return k - 1
		}
		last = w
	}
	if n > 0 && x == prefix[n-1] {
		return n - 1
	}
	return n
}
