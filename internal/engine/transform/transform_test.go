package transform

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/layout"
)

func TestCursorTransformationImmutable(t *testing.T) {
	base := NewCursor(SetLeftAnchor{X: 10})
	extended := base.With(MoveTo{Offset: 3})

	if base.Len() != 1 || extended.Len() != 2 {
		t.Errorf("expected lengths 1 and 2, got %d and %d", base.Len(), extended.Len())
	}
	if base.ID() != extended.ID() {
		t.Error("With should keep the transformation ID")
	}

	ops := extended.Operations()
	ops[0] = ClearLeftAnchor{}
	if _, ok := extended.Operations()[0].(SetLeftAnchor); !ok {
		t.Error("Operations should return a copy")
	}
	if got := extended.String(); got != "[setLeftAnchor(10) moveTo(3)]" {
		t.Errorf("unexpected description %q", got)
	}
}

func TestEmptyTransformation(t *testing.T) {
	var ct CursorTransformation
	if !ct.IsEmpty() || ct.ID() != uuid.Nil {
		t.Error("zero cursor transformation should be empty with a nil ID")
	}
	if ct.With(MoveTo{}).ID() == uuid.Nil {
		t.Error("extending an empty transformation should assign an ID")
	}
	var dt DocumentTransformation
	if !dt.IsEmpty() {
		t.Error("zero document transformation should be empty")
	}
}

func TestCursorTransformerApply(t *testing.T) {
	var tr CursorTransformer
	c := cursor.Collapsed(2)

	got, err := tr.Apply(c, 10, NewCursor(
		SetLeftAnchor{X: 40},
		MoveTo{Offset: 7},
		MoveHeadTo{Offset: 9},
	))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Anchor() != 7 || got.Head() != 9 {
		t.Errorf("expected 7..9, got %v", got)
	}
	if x, ok := got.LeftAnchor(); !ok || x != 40 {
		t.Errorf("expected left anchor 40, got %v", got)
	}

	got, err = tr.Apply(got, 10, NewCursor(ClearLeftAnchor{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.LeftAnchor(); ok {
		t.Error("expected left anchor cleared")
	}
}

func TestCursorTransformerAtomic(t *testing.T) {
	var tr CursorTransformer
	c := cursor.Collapsed(2)

	got, err := tr.Apply(c, 10, NewCursor(
		SetLeftAnchor{X: 40},
		MoveTo{Offset: 5},
		MoveHeadTo{Offset: 10},
	))
	if !errors.Is(err, layout.ErrInvalidOffset) {
		t.Fatalf("expected ErrInvalidOffset, got %v", err)
	}
	if got != c {
		t.Errorf("expected the original cursor back, got %v", got)
	}
}

type bogusOp struct{}

func (bogusOp) cursorOp()      {}
func (bogusOp) String() string { return "bogus" }

func TestCursorTransformerUnknownOperation(t *testing.T) {
	var tr CursorTransformer
	_, err := tr.Apply(cursor.Collapsed(0), 1, NewCursor(bogusOp{}))
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestDocumentTransformerApply(t *testing.T) {
	var tr DocumentTransformer
	doc := content.FromText("abcd\nxy", content.DefaultStyle())

	next, res, err := tr.Apply(doc, NewDocument(
		Insert{At: 2, Text: "ZZ"},
		Delete{From: 6, To: 7},
	))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := next.Text(); got != "abZZcdxy" {
		t.Errorf("expected merged text, got %q", got)
	}
	if got := doc.Text(); got != "abcd\nxy" {
		t.Errorf("original document changed: %q", got)
	}
	if len(res.Edits) != 2 || res.Edits[0] != cursor.Insertion(2, 2) || res.Edits[1] != cursor.Deletion(6, 7) {
		t.Errorf("unexpected edits %v", res.Edits)
	}

	restored, _, err := tr.Apply(next, res.Inverse)
	if err != nil {
		t.Fatalf("Apply inverse: %v", err)
	}
	if got := restored.Text(); got != doc.Text() {
		t.Errorf("inverse produced %q, want %q", got, doc.Text())
	}
}

func TestDocumentTransformerJoinedClusters(t *testing.T) {
	var tr DocumentTransformer
	doc := content.FromText("\U0001F468\U0001F469", content.DefaultStyle())

	next, res, err := tr.Apply(doc, NewDocument(Insert{At: 1, Text: "\u200d"}))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.Size() != 2 {
		t.Errorf("expected one joined cluster, size %d", next.Size())
	}
	want := cursor.Edit{Range: cursor.Range{Start: 0, End: 2}, NewLen: 1}
	if len(res.Edits) != 1 || res.Edits[0] != want {
		t.Errorf("unexpected edits %v", res.Edits)
	}
	ops := res.Inverse.Operations()
	if len(ops) != 1 || ops[0] != (Replace{From: 0, To: 1, Text: "\U0001F468\U0001F469"}) {
		t.Errorf("unexpected inverse %s", res.Inverse)
	}

	restored, _, err := tr.Apply(next, res.Inverse)
	if err != nil {
		t.Fatalf("Apply inverse: %v", err)
	}
	if restored.Text() != doc.Text() || restored.Size() != 3 {
		t.Errorf("inverse produced %q (size %d)", restored.Text(), restored.Size())
	}
}

func TestDocumentTransformerAtomic(t *testing.T) {
	var tr DocumentTransformer
	doc := content.FromText("abc", content.DefaultStyle())

	got, _, err := tr.Apply(doc, NewDocument(
		Insert{At: 0, Text: "x"},
		Delete{From: 2, To: 50},
	))
	if !errors.Is(err, content.ErrOffsetOutOfRange) {
		t.Fatalf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if got != doc || doc.Text() != "abc" {
		t.Errorf("expected the untouched original, got %q", got.Text())
	}
}
