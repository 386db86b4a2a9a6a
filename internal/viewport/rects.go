package viewport

import (
	"fmt"

	"github.com/dshills/loom/internal/layout"
)

// OffsetRangeToRects returns the rectangles covering the local range
// [from, to) of box. An empty range yields a zero-width rectangle at from.
//
// Words and lines yield one rectangle. Pages and documents yield one per
// line the range touches, since a range spanning lines wraps visually.
// Callers needing a single x coordinate use the first rectangle's Left.
func (m *Mapper) OffsetRangeToRects(box layout.Box, from, to int) ([]Rect, error) {
	if err := m.check(box); err != nil {
		return nil, err
	}
	size := box.SelectableSize()
	if from < 0 || to < from || to > size {
		return nil, fmt.Errorf("%w: range [%d, %d) in %s", layout.ErrInvalidOffset, from, to, box)
	}
	g, err := m.place()
	if err != nil {
		return nil, err
	}

	switch box.Kind() {
	case layout.KindWord:
		w, _ := box.AsWord()
		lg := g.lineOf(box)
		e := m.widths(w)
		x := g.wordX[box.ID()]
		return []Rect{{
			Left:   x + e.prefix[from],
			Top:    lg.top,
			Width:  e.prefix[to] - e.prefix[from],
			Height: lg.height,
		}}, nil

	case layout.KindLine:
		line, _ := box.AsLine()
		return []Rect{m.lineRect(g, line, from, to)}, nil

	default:
		start := box.Start()
		var rects []Rect
		for _, lg := range g.lines {
			ls := lg.box.Start() - start
			le := ls + lg.box.SelectableSize()
			if le <= 0 || ls >= size {
				continue
			}
			if from == to {
				if from >= ls && (from < le || (from == size && le == size)) {
					p := from - ls
					return []Rect{m.lineRect(g, lg.box, p, p)}, nil
				}
				continue
			}
			lo, hi := max(from, ls), min(to, le)
			if lo >= hi {
				continue
			}
			rects = append(rects, m.lineRect(g, lg.box, lo-ls, hi-ls))
		}
		return rects, nil
	}
}

// lineRect returns the rectangle for the local range [from, to) of line.
func (m *Mapper) lineRect(g *geometry, line layout.LineBox, from, to int) Rect {
	lg := g.lineOf(line.Box)
	left := m.lineX(g, line, from)
	right := left
	if to > from {
		right = m.lineX(g, line, to)
	}
	return Rect{Left: left, Top: lg.top, Width: right - left, Height: lg.height}
}

// lineX returns the x coordinate of the left edge of the line's local
// offset. An offset equal to the line's size maps to its right edge.
func (m *Mapper) lineX(g *geometry, line layout.LineBox, local int) float64 {
	for _, w := range line.Words() {
		n := w.SelectableSize()
		if local < n {
			return g.wordX[w.ID()] + m.widths(w).prefix[local]
		}
		local -= n
	}
	return m.opts.Padding + g.lineOf(line.Box).width
}
