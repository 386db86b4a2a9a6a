package cursor

import (
	"fmt"

	"github.com/dshills/loom/internal/layout"
)

// Range is a half-open offset range. Start <= End.
type Range struct {
	Start int
	End   int
}

// Len returns the number of offsets in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range holds no offsets.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if offset lies in [Start, End).
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Cursor is an anchor/head pair plus the remembered left anchor.
// Cursor is an immutable value type.
type Cursor struct {
	anchor int
	head   int

	leftAnchor float64
	hasLeft    bool
}

// New creates a cursor selecting from anchor to head.
func New(anchor, head int) Cursor {
	return Cursor{anchor: anchor, head: head}
}

// Collapsed creates a cursor with no extent.
func Collapsed(offset int) Cursor {
	return Cursor{anchor: offset, head: offset}
}

// Anchor returns where the selection started.
func (c Cursor) Anchor() int {
	return c.anchor
}

// Head returns the moving end of the selection.
func (c Cursor) Head() int {
	return c.head
}

// Range returns the selection as an ordered range.
func (c Cursor) Range() Range {
	return Range{Start: c.Start(), End: c.End()}
}

// Start returns the lower of anchor and head.
func (c Cursor) Start() int {
	return min(c.anchor, c.head)
}

// End returns the higher of anchor and head.
func (c Cursor) End() int {
	return max(c.anchor, c.head)
}

// Len returns the selection length.
func (c Cursor) Len() int {
	return c.End() - c.Start()
}

// IsCollapsed returns true if anchor == head.
func (c Cursor) IsCollapsed() bool {
	return c.anchor == c.head
}

// IsBackward returns true if the head precedes the anchor.
func (c Cursor) IsBackward() bool {
	return c.head < c.anchor
}

// LeftAnchor returns the remembered x coordinate, if any.
func (c Cursor) LeftAnchor() (float64, bool) {
	return c.leftAnchor, c.hasLeft
}

// MoveTo returns a collapsed cursor at offset. The left anchor is kept.
func (c Cursor) MoveTo(offset int) Cursor {
	c.anchor, c.head = offset, offset
	return c
}

// WithHead returns a cursor with the head moved and the anchor fixed.
func (c Cursor) WithHead(offset int) Cursor {
	c.head = offset
	return c
}

// WithLeftAnchor returns a cursor remembering x.
func (c Cursor) WithLeftAnchor(x float64) Cursor {
	c.leftAnchor, c.hasLeft = x, true
	return c
}

// ClearLeftAnchor returns a cursor with no remembered x.
func (c Cursor) ClearLeftAnchor() Cursor {
	c.leftAnchor, c.hasLeft = 0, false
	return c
}

// Flip returns a cursor with anchor and head swapped.
func (c Cursor) Flip() Cursor {
	c.anchor, c.head = c.head, c.anchor
	return c
}

// Validate checks that both ends are offsets of a document of the given
// size.
func (c Cursor) Validate(size int) error {
	for _, o := range [2]int{c.anchor, c.head} {
		if o < 0 || o >= size {
			return &layout.OffsetError{Offset: o, Size: size}
		}
	}
	return nil
}

// Clamp returns a cursor with both ends clamped to [0, size-1].
func (c Cursor) Clamp(size int) Cursor {
	c.anchor = clamp(c.anchor, size)
	c.head = clamp(c.head, size)
	return c
}

func clamp(o, size int) int {
	if o >= size {
		o = size - 1
	}
	return max(o, 0)
}

// Equals returns true if both cursors have the same ends and left anchor.
func (c Cursor) Equals(other Cursor) bool {
	return c == other
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	if c.hasLeft {
		return fmt.Sprintf("Cursor(%d..%d @%g)", c.anchor, c.head, c.leftAnchor)
	}
	return fmt.Sprintf("Cursor(%d..%d)", c.anchor, c.head)
}
