package cursor

// Edit describes a document change in flat offsets: the units in Range
// were replaced by NewLen units.
type Edit struct {
	Range  Range
	NewLen int
}

// Insertion returns the edit for inserting n units at offset.
func Insertion(offset, n int) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewLen: n}
}

// Deletion returns the edit for removing [from, to).
func Deletion(from, to int) Edit {
	return Edit{Range: Range{Start: from, End: to}}
}

// Delta returns the change in document size.
func (e Edit) Delta() int {
	return e.NewLen - e.Range.Len()
}

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - If edit is entirely before offset: adjust offset by the edit's delta
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset int, edit Edit) int {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + edit.NewLen
}

// TransformOffsetSticky is like TransformOffset but decides how an offset
// behaves when an insertion lands exactly on it. A sticky offset stays put;
// a non-sticky one moves to the end of the inserted text.
func TransformOffsetSticky(offset int, edit Edit, sticky bool) int {
	if edit.Range.IsEmpty() && edit.Range.Start == offset {
		if sticky {
			return offset
		}
		return offset + edit.NewLen
	}
	return TransformOffset(offset, edit)
}

// AdjustForEdit updates a cursor after an edit. A collapsed cursor moves
// with text inserted at it; for a selection the anchor sticks and the head
// moves. The left anchor is dropped since the geometry under it changed.
func AdjustForEdit(c Cursor, edit Edit) Cursor {
	if c.IsCollapsed() {
		o := TransformOffsetSticky(c.head, edit, false)
		return Collapsed(o)
	}
	return New(
		TransformOffsetSticky(c.anchor, edit, true),
		TransformOffsetSticky(c.head, edit, false),
	)
}

// AdjustForEdits applies edits in the order they were made, each expressed
// in the offsets left by the one before it.
func AdjustForEdits(c Cursor, edits []Edit) Cursor {
	for _, e := range edits {
		c = AdjustForEdit(c, e)
	}
	return c
}
