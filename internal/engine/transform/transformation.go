package transform

import (
	"strings"

	"github.com/google/uuid"
)

// CursorTransformation is an ordered list of cursor operations.
// The zero value is an empty transformation.
type CursorTransformation struct {
	id  uuid.UUID
	ops []CursorOp
}

// NewCursor creates a cursor transformation with a fresh ID.
func NewCursor(ops ...CursorOp) CursorTransformation {
	return CursorTransformation{id: uuid.New(), ops: append([]CursorOp(nil), ops...)}
}

// ID identifies the transformation. Empty zero values have uuid.Nil.
func (t CursorTransformation) ID() uuid.UUID { return t.id }

// With returns a copy with ops appended.
func (t CursorTransformation) With(ops ...CursorOp) CursorTransformation {
	if t.id == uuid.Nil {
		t.id = uuid.New()
	}
	out := make([]CursorOp, 0, len(t.ops)+len(ops))
	out = append(out, t.ops...)
	t.ops = append(out, ops...)
	return t
}

// Operations returns a copy of the operations.
func (t CursorTransformation) Operations() []CursorOp {
	return append([]CursorOp(nil), t.ops...)
}

// Len returns the number of operations.
func (t CursorTransformation) Len() int { return len(t.ops) }

// IsEmpty returns true if there are no operations.
func (t CursorTransformation) IsEmpty() bool { return len(t.ops) == 0 }

func (t CursorTransformation) String() string {
	return describe(t.ops)
}

// DocumentTransformation is an ordered list of document operations.
// Each operation is expressed in the offsets left by the one before it.
// The zero value is an empty transformation.
type DocumentTransformation struct {
	id  uuid.UUID
	ops []DocumentOp
}

// NewDocument creates a document transformation with a fresh ID.
func NewDocument(ops ...DocumentOp) DocumentTransformation {
	return DocumentTransformation{id: uuid.New(), ops: append([]DocumentOp(nil), ops...)}
}

// ID identifies the transformation. Empty zero values have uuid.Nil.
func (t DocumentTransformation) ID() uuid.UUID { return t.id }

// With returns a copy with ops appended.
func (t DocumentTransformation) With(ops ...DocumentOp) DocumentTransformation {
	if t.id == uuid.Nil {
		t.id = uuid.New()
	}
	out := make([]DocumentOp, 0, len(t.ops)+len(ops))
	out = append(out, t.ops...)
	t.ops = append(out, ops...)
	return t
}

// Operations returns a copy of the operations.
func (t DocumentTransformation) Operations() []DocumentOp {
	return append([]DocumentOp(nil), t.ops...)
}

// Len returns the number of operations.
func (t DocumentTransformation) Len() int { return len(t.ops) }

// IsEmpty returns true if there are no operations.
func (t DocumentTransformation) IsEmpty() bool { return len(t.ops) == 0 }

func (t DocumentTransformation) String() string {
	return describe(t.ops)
}

func describe[T interface{ String() string }](ops []T) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
