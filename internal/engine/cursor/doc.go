// Package cursor provides the cursor value used by the engine.
//
// A cursor is an anchor/head pair in flat selectable offsets. When
// Anchor == Head the cursor is collapsed; otherwise it is a selection, which
// may be backward (head < anchor) to preserve the direction it was drawn in.
//
// A cursor also carries the left anchor: the viewport x coordinate that
// consecutive vertical moves keep returning to. It is set and cleared only
// by cursor operations; no derivation drops it implicitly.
//
// Basic usage:
//
//	c := cursor.Collapsed(10)
//	c = c.WithHead(20)          // select 10..20
//	c = c.WithLeftAnchor(84.5)  // remember the column
//
//	// After a document edit
//	c = cursor.AdjustForEdit(c, cursor.Edit{Range: cursor.Range{Start: 0, End: 5}, NewLen: 2})
//
// Cursor is an immutable value type and safe for concurrent use.
package cursor
