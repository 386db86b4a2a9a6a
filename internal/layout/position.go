package layout

import "fmt"

// Level is one step of a resolved position: a box and the offset local
// to it.
type Level struct {
	box    Box
	offset int
	start  int
}

// Box returns the box at this level.
func (l Level) Box() Box { return l.box }

// Offset returns the offset local to the box, in [0, size).
func (l Level) Offset() int { return l.offset }

// Start returns the flat offset where the box begins.
func (l Level) Start() int { return l.start }

// End returns the flat offset of the box's last position.
func (l Level) End() int { return l.start + l.box.SelectableSize() - 1 }

// HasNext reports whether another box of the same kind follows this one.
func (l Level) HasNext() bool {
	_, ok := l.box.NextInLevel()
	return ok
}

// HasPrevious reports whether another box of the same kind precedes this one.
func (l Level) HasPrevious() bool {
	_, ok := l.box.PreviousInLevel()
	return ok
}

// Position is the result of resolving one flat offset: one Level per tree
// depth, from the document box down to the word containing the offset.
// A Position is transient and holds only handles into its tree.
type Position struct {
	offset int
	levels []Level
}

// Offset returns the flat offset that was resolved.
func (p Position) Offset() int { return p.offset }

// Depth returns the number of levels.
func (p Position) Depth() int { return len(p.levels) }

// Levels returns a copy of the levels, outermost first.
func (p Position) Levels() []Level {
	out := make([]Level, len(p.levels))
	copy(out, p.levels)
	return out
}

// At returns the level for kind k.
func (p Position) At(k Kind) (Level, error) {
	d := k.Depth()
	if d >= len(p.levels) {
		return Level{}, fmt.Errorf("%w: position has no %s level", ErrUnexpectedKind, k)
	}
	l := p.levels[d]
	if got := l.box.Kind(); got != k {
		return Level{}, &KindError{Want: k, Got: got}
	}
	return l, nil
}

// Document returns the root level.
func (p Position) Document() Level { return p.level(KindDocument) }

// Page returns the page level.
func (p Position) Page() Level { return p.level(KindPage) }

// Line returns the line level.
func (p Position) Line() Level { return p.level(KindLine) }

// Word returns the word level.
func (p Position) Word() Level { return p.level(KindWord) }

func (p Position) level(k Kind) Level {
	if d := k.Depth(); d < len(p.levels) {
		return p.levels[d]
	}
	return Level{}
}

// ResolvePosition descends from the document box to the word containing
// offset, recording the local offset at every level. Offsets outside
// [0, Size()) fail with an *OffsetError matching ErrInvalidOffset.
func (t *Tree) ResolvePosition(offset int) (Position, error) {
	size := t.Size()
	if size == 0 {
		return Position{}, ErrEmptyTree
	}
	if offset < 0 || offset >= size {
		return Position{}, &OffsetError{Offset: offset, Size: size}
	}

	levels := make([]Level, 0, KindWord.Depth()+1)
	id, local, start := t.root, offset, 0
	for {
		n := &t.nodes[id]
		levels = append(levels, Level{box: Box{tree: t, id: id}, offset: local, start: start})
		if len(n.children) == 0 {
			break
		}
		i, childStart := t.locate(n, local)
		if i < 0 {
			return Position{}, fmt.Errorf("%w: %s %d does not cover local offset %d",
				ErrInconsistentTree, n.kind, id, local)
		}
		id = n.children[i]
		local -= childStart
		start += childStart
	}
	return Position{offset: offset, levels: levels}, nil
}
