package layout

import (
	"fmt"
	"sort"

	"github.com/dshills/loom/internal/content"
)

// prefixThreshold is the child count above which a node carries a
// prefix-sum table and child search switches to binary search.
const prefixThreshold = 32

// BoxID is a non-owning handle to a node in a Tree.
type BoxID int32

// NoBox is the handle of no node.
const NoBox BoxID = -1

// node is an arena slot. Relations are indices into the arena.
type node struct {
	kind     Kind
	size     int
	parent   BoxID
	index    int // position within the parent's children
	children []BoxID

	// prefix[i] is the sum of the sizes of children[:i]; nil when the
	// node has prefixThreshold children or fewer.
	prefix []int

	word *wordData
}

type wordData struct {
	text  string
	style content.Style
	units int
	brk   bool
}

// Tree is an arena owning every box of one layout pass.
// A Tree is never mutated after Build returns.
type Tree struct {
	nodes   []node
	root    BoxID
	version uint64
}

// Root returns the document box.
func (t *Tree) Root() Box {
	if t == nil || t.root == NoBox {
		return Box{}
	}
	return Box{tree: t, id: t.root}
}

// Size returns the total selectable size of the document.
func (t *Tree) Size() int {
	if t == nil || t.root == NoBox {
		return 0
	}
	return t.nodes[t.root].size
}

// Version returns the layout version the tree was built for.
func (t *Tree) Version() uint64 {
	if t == nil {
		return 0
	}
	return t.version
}

// Len returns the number of boxes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Box returns the box for id, or an invalid Box when id is out of range.
func (t *Tree) Box(id BoxID) Box {
	if t == nil || id < 0 || int(id) >= len(t.nodes) {
		return Box{}
	}
	return Box{tree: t, id: id}
}

// Lines returns every line box in document order.
func (t *Tree) Lines() []LineBox {
	var lines []LineBox
	for i := range t.nodes {
		if t.nodes[i].kind == KindLine {
			lines = append(lines, LineBox{Box{tree: t, id: BoxID(i)}})
		}
	}
	return lines
}

// Validate re-checks the structural invariants: child kinds nest one level
// down, containers are non-empty, every parent's size is the sum of its
// children's sizes, and back-references agree with child lists.
func (t *Tree) Validate() error {
	if t == nil || t.root == NoBox {
		return ErrEmptyTree
	}
	if t.nodes[t.root].kind != KindDocument {
		return &KindError{Want: KindDocument, Got: t.nodes[t.root].kind}
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.kind == KindWord {
			if n.word == nil || n.size != n.word.units || n.size <= 0 {
				return fmt.Errorf("%w: word %d has size %d", ErrInconsistentTree, i, n.size)
			}
			continue
		}
		if len(n.children) == 0 {
			return fmt.Errorf("%w: %s %d has no children", ErrInconsistentTree, n.kind, i)
		}
		want, _ := n.kind.Child()
		sum := 0
		for j, c := range n.children {
			cn := &t.nodes[c]
			if cn.kind != want {
				return fmt.Errorf("%w: %s %d: %v", ErrInconsistentTree, n.kind, i, &KindError{Want: want, Got: cn.kind})
			}
			if cn.parent != BoxID(i) || cn.index != j {
				return fmt.Errorf("%w: box %d has a stale parent reference", ErrInconsistentTree, c)
			}
			if n.prefix != nil && n.prefix[j] != sum {
				return fmt.Errorf("%w: %s %d prefix table is stale", ErrInconsistentTree, n.kind, i)
			}
			sum += cn.size
		}
		if sum != n.size {
			return fmt.Errorf("%w: %s %d has size %d, children sum to %d", ErrInconsistentTree, n.kind, i, n.size, sum)
		}
	}
	return nil
}

// locate finds the child of n containing the local offset. It returns the
// child's index and the local offset at which that child starts, or -1 when
// no child covers offset.
func (t *Tree) locate(n *node, offset int) (int, int) {
	if n.prefix != nil {
		i := sort.Search(len(n.children), func(i int) bool {
			return n.prefix[i+1] > offset
		})
		if i == len(n.children) {
			return -1, n.size
		}
		return i, n.prefix[i]
	}

	start := 0
	for i, c := range n.children {
		size := t.nodes[c].size
		if offset < size {
			return i, start
		}
		offset -= size
		start += size
	}
	return -1, start
}

// childStart returns the local offset at which the i'th child of n starts.
func (t *Tree) childStart(n *node, i int) int {
	if n.prefix != nil {
		return n.prefix[i]
	}
	start := 0
	for _, c := range n.children[:i] {
		start += t.nodes[c].size
	}
	return start
}
