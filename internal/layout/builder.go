package layout

import (
	"errors"
	"fmt"

	"github.com/dshills/loom/internal/content"
)

// Builder assembles a Tree top-down in document order. Parent sizes are
// derived from children in Build, so the size invariant holds by
// construction.
//
// Line opens a page when none is open, and Word opens a line when none is
// open, so a single-page tree can be written as a chain:
//
//	tree, err := layout.NewBuilder().
//		Line().Word("ab ", s).Break(s).
//		Line().Word("xy", s).Break(s).
//		Build(1)
//
// A Builder must not be reused after Build.
type Builder struct {
	nodes []node
	page  BoxID
	line  BoxID
	err   error
	built bool
}

// NewBuilder returns a builder holding an empty document box.
func NewBuilder() *Builder {
	b := &Builder{page: NoBox, line: NoBox}
	b.add(KindDocument, NoBox, 0, nil)
	return b
}

// Page starts a new page.
func (b *Builder) Page() *Builder {
	b.page = b.add(KindPage, 0, 0, nil)
	b.line = NoBox
	return b
}

// Line starts a new line on the current page.
func (b *Builder) Line() *Builder {
	if b.page == NoBox {
		b.Page()
	}
	b.line = b.add(KindLine, b.page, 0, nil)
	return b
}

// Word appends a text word to the current line. Its selectable size is its
// grapheme cluster count.
func (b *Builder) Word(text string, style content.Style) *Builder {
	units := content.UnitCount(text)
	if units == 0 {
		b.fail(fmt.Errorf("%w: empty word", ErrInconsistentTree))
		return b
	}
	b.leaf(&wordData{text: text, style: style, units: units})
	return b
}

// Break appends a paragraph break unit to the current line.
func (b *Builder) Break(style content.Style) *Builder {
	b.leaf(&wordData{style: style, units: 1, brk: true})
	return b
}

func (b *Builder) leaf(w *wordData) {
	if b.line == NoBox {
		b.Line()
	}
	b.add(KindWord, b.line, w.units, w)
}

func (b *Builder) add(kind Kind, parent BoxID, size int, w *wordData) BoxID {
	id := BoxID(len(b.nodes))
	n := node{kind: kind, size: size, parent: parent, word: w}
	if parent != NoBox {
		p := &b.nodes[parent]
		n.index = len(p.children)
		p.children = append(p.children, id)
	}
	b.nodes = append(b.nodes, n)
	return id
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build finalizes the tree. Sizes are summed bottom-up and prefix tables
// are computed for wide nodes.
func (b *Builder) Build(version uint64) (*Tree, error) {
	if b.built {
		return nil, errors.New("layout: builder already used")
	}
	b.built = true
	if b.err != nil {
		return nil, b.err
	}

	// Children always follow their parent in the arena, so a reverse
	// sweep sees every child before its parent.
	for i := len(b.nodes) - 1; i > 0; i-- {
		n := &b.nodes[i]
		b.nodes[n.parent].size += n.size
	}

	for i := range b.nodes {
		n := &b.nodes[i]
		if len(n.children) <= prefixThreshold {
			continue
		}
		n.prefix = make([]int, len(n.children)+1)
		for j, c := range n.children {
			n.prefix[j+1] = n.prefix[j] + b.nodes[c].size
		}
	}

	t := &Tree{nodes: b.nodes, root: 0, version: version}
	b.nodes = nil
	if t.Size() == 0 {
		return nil, ErrEmptyTree
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
