// Package viewport maps between layout offsets and viewport coordinates.
//
// Pages are stacked vertically, separated by the page gap. Lines sit inside
// a page's padding, one below the other; a line is as tall as its tallest
// word. Words are placed left to right at their measured widths.
//
// The two directions are only approximately inverse. Mapping a single-unit
// range to its rectangle and hit-testing that rectangle's left edge returns
// the original offset.
package viewport

import (
	"fmt"
	"strings"

	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/layout"
	"github.com/dshills/loom/internal/measure"
)

// Mapper answers geometry queries against one layout tree. Geometry and
// word widths are computed on first use and kept until the tree changes.
// A Mapper is not safe for concurrent use.
type Mapper struct {
	tree     *layout.Tree
	measurer measure.Measurer
	opts     Options

	geom  *geometry
	words map[layout.BoxID]*wordWidths
}

// geometry holds per-line placement for one tree version.
type geometry struct {
	version uint64
	lines   []lineGeom
	index   map[layout.BoxID]int // line box -> lines index
	wordX   map[layout.BoxID]float64
}

type lineGeom struct {
	box    layout.LineBox
	top    float64
	height float64
	width  float64
}

// wordWidths memoizes the width of every unit prefix of a word:
// prefix[k] is the width of the first k units.
type wordWidths struct {
	version uint64
	text    string
	style   content.Style
	prefix  []float64
	height  float64
}

// New creates a mapper over tree.
func New(tree *layout.Tree, m measure.Measurer, opts ...Option) *Mapper {
	mp := &Mapper{
		tree:     tree,
		measurer: m,
		words:    make(map[layout.BoxID]*wordWidths),
	}
	for _, opt := range opts {
		opt(&mp.opts)
	}
	return mp
}

// Tree returns the tree the mapper answers for.
func (m *Mapper) Tree() *layout.Tree {
	return m.tree
}

// SetTree switches to a rebuilt tree. Cached geometry is dropped.
func (m *Mapper) SetTree(tree *layout.Tree) {
	m.tree = tree
	m.geom = nil
	m.words = make(map[layout.BoxID]*wordWidths)
}

// Options returns the mapper options.
func (m *Mapper) Options() Options {
	return m.opts
}

// SetOptions replaces the options and drops cached geometry.
func (m *Mapper) SetOptions(opts Options) {
	m.opts = opts
	m.geom = nil
}

// SetMeasurer replaces the measurer and drops every cached width.
func (m *Mapper) SetMeasurer(ms measure.Measurer) {
	m.measurer = ms
	m.geom = nil
	m.words = make(map[layout.BoxID]*wordWidths)
}

// widths returns the memoized prefix widths of w, measuring on first use.
// The memo is keyed by box handle and checked against the tree version and
// the word's text so a reused handle can never return stale widths.
func (m *Mapper) widths(w layout.WordBox) *wordWidths {
	version := m.tree.Version()
	if e, ok := m.words[w.ID()]; ok && e.version == version && e.text == w.Text() && e.style == w.Style() {
		return e
	}

	e := &wordWidths{version: version, text: w.Text(), style: w.Style()}
	if w.Break() {
		e.prefix = make([]float64, w.Units()+1)
		e.height = m.measurer.Measure("", w.Style()).Height
	} else {
		units := content.Units(w.Text())
		e.prefix = make([]float64, len(units)+1)
		var b strings.Builder
		for k, u := range units {
			b.WriteString(u)
			met := m.measurer.Measure(b.String(), w.Style())
			e.prefix[k+1] = met.Width
			e.height = max(e.height, met.Height)
		}
	}
	m.words[w.ID()] = e
	return e
}

// width returns the full width of the word.
func (e *wordWidths) width() float64 {
	return e.prefix[len(e.prefix)-1]
}

// place returns placement for the current tree, computing it if the
// tree changed since the last query.
func (m *Mapper) place() (*geometry, error) {
	if m.tree == nil || m.tree.Size() == 0 {
		return nil, ErrNoTree
	}
	if m.geom != nil && m.geom.version == m.tree.Version() {
		return m.geom, nil
	}

	g := &geometry{
		version: m.tree.Version(),
		index:   make(map[layout.BoxID]int),
		wordX:   make(map[layout.BoxID]float64),
	}
	pad := m.opts.Padding
	top := 0.0
	for i, page := range m.tree.Root().Children() {
		if i > 0 {
			top += m.opts.PageGap
		}
		top += pad
		for _, child := range page.Children() {
			line, err := child.AsLine()
			if err != nil {
				return nil, err
			}
			x, height := pad, 0.0
			for _, w := range line.Words() {
				e := m.widths(w)
				g.wordX[w.ID()] = x
				x += e.width()
				height = max(height, e.height)
			}
			g.index[line.ID()] = len(g.lines)
			g.lines = append(g.lines, lineGeom{box: line, top: top, height: height, width: x - pad})
			top += height
		}
		top += pad
	}
	m.geom = g
	return g, nil
}

// check verifies that box belongs to the mapper's tree.
func (m *Mapper) check(box layout.Box) error {
	if !box.Valid() {
		return fmt.Errorf("%w: invalid box handle", layout.ErrUnexpectedKind)
	}
	if box.Tree() != m.tree {
		return ErrForeignBox
	}
	return nil
}

// lineOf returns the geometry of the line holding box, which must be a
// line or a word.
func (g *geometry) lineOf(box layout.Box) lineGeom {
	if box.Kind() == layout.KindWord {
		box, _ = box.Parent()
	}
	return g.lines[g.index[box.ID()]]
}

// LineRect returns the rectangle covering a line's content.
func (m *Mapper) LineRect(line layout.LineBox) (Rect, error) {
	if err := m.check(line.Box); err != nil {
		return Rect{}, err
	}
	g, err := m.place()
	if err != nil {
		return Rect{}, err
	}
	lg := g.lineOf(line.Box)
	return Rect{Left: m.opts.Padding, Top: lg.top, Width: lg.width, Height: lg.height}, nil
}

// Height returns the total height of all pages.
func (m *Mapper) Height() (float64, error) {
	g, err := m.place()
	if err != nil {
		return 0, err
	}
	last := g.lines[len(g.lines)-1]
	return last.top + last.height + m.opts.Padding, nil
}
