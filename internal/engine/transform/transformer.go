package transform

import (
	"fmt"

	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/layout"
)

// CursorTransformer applies cursor transformations.
type CursorTransformer struct{}

// Apply applies t to c for a document of the given size. Every operation
// must succeed; otherwise c is returned unchanged with the error.
func (CursorTransformer) Apply(c cursor.Cursor, size int, t CursorTransformation) (cursor.Cursor, error) {
	next := c
	for i, op := range t.ops {
		var err error
		next, err = applyCursorOp(next, size, op)
		if err != nil {
			return c, fmt.Errorf("transform: operation %d %s: %w", i, op, err)
		}
	}
	return next, nil
}

func applyCursorOp(c cursor.Cursor, size int, op CursorOp) (cursor.Cursor, error) {
	switch op := op.(type) {
	case MoveTo:
		if err := checkOffset(op.Offset, size); err != nil {
			return c, err
		}
		return c.MoveTo(op.Offset), nil
	case MoveHeadTo:
		if err := checkOffset(op.Offset, size); err != nil {
			return c, err
		}
		return c.WithHead(op.Offset), nil
	case SetLeftAnchor:
		return c.WithLeftAnchor(op.X), nil
	case ClearLeftAnchor:
		return c.ClearLeftAnchor(), nil
	default:
		return c, fmt.Errorf("%w: %T", ErrUnknownOperation, op)
	}
}

func checkOffset(o, size int) error {
	if o < 0 || o >= size {
		return &layout.OffsetError{Offset: o, Size: size}
	}
	return nil
}

// DocumentResult describes an applied document transformation.
type DocumentResult struct {
	// Inverse undoes the transformation when applied to the new document.
	Inverse DocumentTransformation

	// Edits lists the changes in application order, for adjusting offsets
	// held elsewhere.
	Edits []cursor.Edit
}

// DocumentTransformer applies document transformations.
type DocumentTransformer struct{}

// Apply applies t to a clone of doc and returns the clone. Every operation
// must succeed; otherwise doc is returned untouched with the error.
func (DocumentTransformer) Apply(doc *content.Document, t DocumentTransformation) (*content.Document, DocumentResult, error) {
	if t.IsEmpty() {
		return doc, DocumentResult{}, nil
	}

	next := doc.Clone()
	edits := make([]cursor.Edit, 0, len(t.ops))
	inverse := make([]DocumentOp, len(t.ops))
	for i, op := range t.ops {
		var err error
		var edit cursor.Edit
		edit, inverse[len(t.ops)-1-i], err = applyDocumentOp(next, op)
		if err != nil {
			return doc, DocumentResult{}, fmt.Errorf("transform: operation %d %s: %w", i, op, err)
		}
		edits = append(edits, edit)
	}
	return next, DocumentResult{Inverse: NewDocument(inverse...), Edits: edits}, nil
}

func applyDocumentOp(doc *content.Document, op DocumentOp) (cursor.Edit, DocumentOp, error) {
	var c content.Change
	var err error
	switch op := op.(type) {
	case Insert:
		c, err = doc.Replace(op.At, op.At, op.Text)
	case Delete:
		c, err = doc.Replace(op.From, op.To, "")
	case Replace:
		c, err = doc.Replace(op.From, op.To, op.Text)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownOperation, op)
	}
	if err != nil {
		return cursor.Edit{}, nil, err
	}
	edit := cursor.Edit{Range: cursor.Range{Start: c.From, End: c.From + c.OldLen}, NewLen: c.NewLen}
	return edit, inverseOf(c), nil
}

// inverseOf returns the operation restoring the text c replaced. Clusters
// joined by the edit are replaced whole, so the restored text splits back
// into its original units.
func inverseOf(c content.Change) DocumentOp {
	switch {
	case c.OldLen == 0:
		return Delete{From: c.From, To: c.From + c.NewLen}
	case c.NewLen == 0:
		return Insert{At: c.From, Text: c.OldText}
	default:
		return Replace{From: c.From, To: c.From + c.NewLen, Text: c.OldText}
	}
}
