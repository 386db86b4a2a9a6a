// Package flow builds layout trees from content.
//
// Paragraphs are split into words, words are packed greedily into lines no
// wider than the page's content width, and lines are packed into pages no
// taller than the page's content height. Each paragraph's last line ends
// with a break unit, so a paragraph of n text units spans n+1 offsets.
//
// Line breaking is cached per paragraph version; a relayout after a
// one-paragraph edit only re-measures that paragraph.
package flow

import (
	"errors"
	"fmt"
	"math"

	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/layout"
	"github.com/dshills/loom/internal/measure"
)

// Options controls page geometry. Zero or negative sizes disable wrapping
// or pagination respectively.
type Options struct {
	PageWidth  float64
	PageHeight float64
	Padding    float64
}

// ErrInvalidOptions is returned for page geometry that is NaN or infinite.
var ErrInvalidOptions = errors.New("flow: invalid options")

// Validate reports geometry that cannot be laid out.
func (o Options) Validate() error {
	for _, v := range []float64{o.PageWidth, o.PageHeight, o.Padding} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidOptions, o)
		}
	}
	return nil
}

// ContentWidth returns the width available to a line.
func (o Options) ContentWidth() float64 {
	return o.PageWidth - 2*o.Padding
}

// ContentHeight returns the height available to a page's lines.
func (o Options) ContentHeight() float64 {
	return o.PageHeight - 2*o.Padding
}

// Stats describes the most recent layout pass.
type Stats struct {
	Paragraphs int // paragraphs laid out
	Reused     int // paragraphs served from the cache
	Lines      int
	Pages      int
}

// Engine lays out documents. It is not safe for concurrent use.
type Engine struct {
	measurer measure.Measurer
	opts     Options
	cache    map[uint64]*paragraphLayout
	version  uint64
	stats    Stats
}

type paragraphLayout struct {
	text  string
	style content.Style
	lines []lineLayout
}

type lineLayout struct {
	words  []string
	brk    bool
	height float64
}

// NewEngine creates a layout engine measuring with m.
func NewEngine(m measure.Measurer, opts Options) *Engine {
	return &Engine{
		measurer: m,
		opts:     opts,
		cache:    make(map[uint64]*paragraphLayout),
	}
}

// Options returns the current page geometry.
func (e *Engine) Options() Options {
	return e.opts
}

// SetOptions changes page geometry and drops every cached paragraph.
func (e *Engine) SetOptions(opts Options) {
	e.opts = opts
	e.Invalidate()
}

// SetMeasurer changes the measurer and drops every cached paragraph.
func (e *Engine) SetMeasurer(m measure.Measurer) {
	e.measurer = m
	e.Invalidate()
}

// Measurer returns the measurer in use.
func (e *Engine) Measurer() measure.Measurer {
	return e.measurer
}

// Invalidate drops every cached paragraph.
func (e *Engine) Invalidate() {
	e.cache = make(map[uint64]*paragraphLayout)
}

// Stats returns statistics for the most recent pass.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Version returns the version of the most recently built tree.
func (e *Engine) Version() uint64 {
	return e.version
}

// Layout builds a tree for doc. Every call produces a tree with a new
// version.
func (e *Engine) Layout(doc *content.Document) (*layout.Tree, error) {
	if err := e.opts.Validate(); err != nil {
		return nil, err
	}
	style := doc.Style()
	stats := Stats{}
	used := make(map[uint64]*paragraphLayout, doc.ParagraphCount())

	var lines []lineLayout
	for _, p := range doc.Paragraphs() {
		pl, ok := e.cache[p.Version()]
		if ok && pl.text == p.Text() && pl.style == style {
			stats.Reused++
		} else {
			pl = e.breakParagraph(p.Text(), style)
		}
		used[p.Version()] = pl
		lines = append(lines, pl.lines...)
		stats.Paragraphs++
	}
	e.cache = used

	b := layout.NewBuilder()
	limit := e.opts.ContentHeight()
	fill := 0.0
	for i, l := range lines {
		if i == 0 || (limit > 0 && fill+l.height > limit) {
			b.Page()
			stats.Pages++
			fill = 0
		}
		b.Line()
		for _, w := range l.words {
			b.Word(w, style)
		}
		if l.brk {
			b.Break(style)
		}
		fill += l.height
		stats.Lines++
	}

	e.version++
	tree, err := b.Build(e.version)
	if err != nil {
		return nil, err
	}
	e.stats = stats
	return tree, nil
}

// breakParagraph packs a paragraph's words into lines.
func (e *Engine) breakParagraph(text string, style content.Style) *paragraphLayout {
	pl := &paragraphLayout{text: text, style: style}
	limit := e.opts.ContentWidth()

	var cur lineLayout
	width := 0.0
	for _, w := range content.Words(text) {
		m := e.measurer.Measure(w, style)
		if limit > 0 && len(cur.words) > 0 && width+m.Width > limit {
			pl.lines = append(pl.lines, cur)
			cur = lineLayout{}
			width = 0
		}
		cur.words = append(cur.words, w)
		width += m.Width
		cur.height = max(cur.height, m.Height)
	}

	cur.brk = true
	cur.height = max(cur.height, e.measurer.Measure("", style).Height)
	pl.lines = append(pl.lines, cur)
	return pl
}
