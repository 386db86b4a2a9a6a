package layout

import (
	"fmt"

	"github.com/dshills/loom/internal/content"
)

// Box is a value handle to a node of a Tree.
// The zero Box is invalid.
type Box struct {
	tree *Tree
	id   BoxID
}

// Valid reports whether the handle refers to a node.
func (b Box) Valid() bool {
	return b.tree != nil && b.id >= 0 && int(b.id) < len(b.tree.nodes)
}

// ID returns the arena handle.
func (b Box) ID() BoxID {
	if !b.Valid() {
		return NoBox
	}
	return b.id
}

// Tree returns the tree the box belongs to.
func (b Box) Tree() *Tree {
	return b.tree
}

func (b Box) node() *node {
	return &b.tree.nodes[b.id]
}

// Kind returns the box level.
func (b Box) Kind() Kind {
	return b.node().kind
}

// SelectableSize returns the number of offsets the box spans.
func (b Box) SelectableSize() int {
	if !b.Valid() {
		return 0
	}
	return b.node().size
}

// Parent returns the enclosing box. The document box has none.
func (b Box) Parent() (Box, bool) {
	if !b.Valid() {
		return Box{}, false
	}
	p := b.node().parent
	if p == NoBox {
		return Box{}, false
	}
	return Box{tree: b.tree, id: p}, true
}

// Index returns the box's position within its parent's children.
func (b Box) Index() int {
	return b.node().index
}

// ChildCount returns the number of children.
func (b Box) ChildCount() int {
	if !b.Valid() {
		return 0
	}
	return len(b.node().children)
}

// Child returns the i'th child.
func (b Box) Child(i int) Box {
	return Box{tree: b.tree, id: b.node().children[i]}
}

// Children returns the children in offset order.
func (b Box) Children() []Box {
	if !b.Valid() {
		return nil
	}
	ids := b.node().children
	out := make([]Box, len(ids))
	for i, id := range ids {
		out[i] = Box{tree: b.tree, id: id}
	}
	return out
}

// NextSibling returns the following child of the same parent.
func (b Box) NextSibling() (Box, bool) {
	p, ok := b.Parent()
	if !ok {
		return Box{}, false
	}
	i := b.node().index + 1
	if i >= p.ChildCount() {
		return Box{}, false
	}
	return p.Child(i), true
}

// PreviousSibling returns the preceding child of the same parent.
func (b Box) PreviousSibling() (Box, bool) {
	p, ok := b.Parent()
	if !ok {
		return Box{}, false
	}
	i := b.node().index - 1
	if i < 0 {
		return Box{}, false
	}
	return p.Child(i), true
}

// NextInLevel returns the following box of the same kind in document
// order, crossing parent boundaries.
func (b Box) NextInLevel() (Box, bool) {
	if s, ok := b.NextSibling(); ok {
		return s, true
	}
	p, ok := b.Parent()
	for ok {
		p, ok = p.NextInLevel()
		if ok && p.ChildCount() > 0 {
			return p.Child(0), true
		}
	}
	return Box{}, false
}

// PreviousInLevel returns the preceding box of the same kind in document
// order, crossing parent boundaries.
func (b Box) PreviousInLevel() (Box, bool) {
	if s, ok := b.PreviousSibling(); ok {
		return s, true
	}
	p, ok := b.Parent()
	for ok {
		p, ok = p.PreviousInLevel()
		if ok && p.ChildCount() > 0 {
			return p.Child(p.ChildCount() - 1), true
		}
	}
	return Box{}, false
}

// Start returns the flat offset of the box's first position.
func (b Box) Start() int {
	if !b.Valid() {
		return 0
	}
	start := 0
	for cur := b; ; {
		p, ok := cur.Parent()
		if !ok {
			return start
		}
		start += b.tree.childStart(p.node(), cur.node().index)
		cur = p
	}
}

// End returns the flat offset of the box's last position.
func (b Box) End() int {
	return b.Start() + b.SelectableSize() - 1
}

// AsLine returns the line-level capability of b.
func (b Box) AsLine() (LineBox, error) {
	if err := b.expect(KindLine); err != nil {
		return LineBox{}, err
	}
	return LineBox{b}, nil
}

// AsWord returns the word-level capability of b.
func (b Box) AsWord() (WordBox, error) {
	if err := b.expect(KindWord); err != nil {
		return WordBox{}, err
	}
	return WordBox{b}, nil
}

func (b Box) expect(k Kind) error {
	if !b.Valid() {
		return fmt.Errorf("%w: invalid box handle", ErrUnexpectedKind)
	}
	if got := b.Kind(); got != k {
		return &KindError{Want: k, Got: got}
	}
	return nil
}

// String returns a short description for debugging.
func (b Box) String() string {
	if !b.Valid() {
		return "box(invalid)"
	}
	return fmt.Sprintf("%s#%d[%d]", b.Kind(), b.id, b.SelectableSize())
}

// LineBox is a line-flow box. Lines support vertical traversal.
type LineBox struct {
	Box
}

// Next returns the following line in document order, on the same page or
// the first line of the next page.
func (l LineBox) Next() (LineBox, bool) {
	n, ok := l.NextInLevel()
	return LineBox{n}, ok
}

// Previous returns the preceding line in document order.
func (l LineBox) Previous() (LineBox, bool) {
	p, ok := l.PreviousInLevel()
	return LineBox{p}, ok
}

// Page returns the page holding the line.
func (l LineBox) Page() Box {
	p, _ := l.Parent()
	return p
}

// Words returns the line's word boxes in offset order.
func (l LineBox) Words() []WordBox {
	children := l.Children()
	out := make([]WordBox, len(children))
	for i, c := range children {
		out[i] = WordBox{c}
	}
	return out
}

// WordBox is a leaf: a run of text units or a paragraph break.
type WordBox struct {
	Box
}

// Text returns the word's text. A break has none.
func (w WordBox) Text() string {
	return w.node().word.text
}

// Style returns the style the word is measured with.
func (w WordBox) Style() content.Style {
	return w.node().word.style
}

// Units returns the number of grapheme clusters in the word.
func (w WordBox) Units() int {
	return w.node().word.units
}

// Break reports whether the word is a paragraph break unit.
func (w WordBox) Break() bool {
	return w.node().word.brk
}
