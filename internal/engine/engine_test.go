package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/event"
	"github.com/dshills/loom/internal/event/topic"
	"github.com/dshills/loom/internal/layout"
	"github.com/dshills/loom/internal/layout/flow"
	"github.com/dshills/loom/internal/measure"
)

func newEngine(t *testing.T, text string, opts ...Option) *Engine {
	t.Helper()
	e, err := New(append([]Option{WithText(text)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func attach(t *testing.T, e *Engine, c cursor.Cursor) {
	t.Helper()
	if err := e.AttachCursor(c); err != nil {
		t.Fatalf("AttachCursor: %v", err)
	}
}

func TestNew(t *testing.T) {
	e := newEngine(t, "hello\nworld")

	if e.Size() != 12 {
		t.Errorf("expected size 12, got %d", e.Size())
	}
	if e.Text() != "hello\nworld" {
		t.Errorf("unexpected text %q", e.Text())
	}
	if _, ok := e.Cursor(); ok {
		t.Error("expected no cursor after New")
	}
	if e.Tree() == nil || e.Document() == nil {
		t.Fatal("expected a document and a tree")
	}
	if got := len(e.Tree().Lines()); got != 2 {
		t.Errorf("expected 2 lines, got %d", got)
	}
}

func TestApplyCursorWithoutCursor(t *testing.T) {
	e := newEngine(t, "hello")
	err := e.ApplyCursor(transform.NewCursor(transform.MoveTo{Offset: 1}))
	if !errors.Is(err, ErrNoCursor) {
		t.Errorf("expected ErrNoCursor, got %v", err)
	}
}

func TestAttachCursorValidates(t *testing.T) {
	e := newEngine(t, "hello")
	err := e.AttachCursor(cursor.Collapsed(6))
	if !errors.Is(err, layout.ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
	if _, ok := e.Cursor(); ok {
		t.Error("expected no cursor after failed attach")
	}
}

func TestApplyCursor(t *testing.T) {
	e := newEngine(t, "hello\nworld")
	attach(t, e, cursor.Collapsed(0))

	err := e.ApplyCursor(transform.NewCursor(
		transform.MoveTo{Offset: 2},
		transform.MoveHeadTo{Offset: 8},
		transform.SetLeftAnchor{X: 12},
	))
	if err != nil {
		t.Fatalf("ApplyCursor: %v", err)
	}
	c, _ := e.Cursor()
	if c.Anchor() != 2 || c.Head() != 8 {
		t.Errorf("expected 2..8, got %s", c)
	}
	if x, ok := c.LeftAnchor(); !ok || x != 12 {
		t.Errorf("expected left anchor 12, got %v %v", x, ok)
	}
	if e.UndoCount() != 0 {
		t.Error("cursor-only transformations should not be recorded")
	}
}

func TestApplyIsAtomic(t *testing.T) {
	e := newEngine(t, "hello")
	attach(t, e, cursor.Collapsed(2))
	tree := e.Tree()

	err := e.Apply("bad",
		transform.NewDocument(transform.Insert{At: 0, Text: "ab"}),
		transform.NewCursor(transform.MoveTo{Offset: 99}),
	)
	if !errors.Is(err, layout.ErrInvalidOffset) {
		t.Fatalf("expected ErrInvalidOffset, got %v", err)
	}
	if e.Text() != "hello" {
		t.Errorf("document changed on failure: %q", e.Text())
	}
	if e.Tree() != tree {
		t.Error("tree changed on failure")
	}
	if c, _ := e.Cursor(); !c.Equals(cursor.Collapsed(2)) {
		t.Errorf("cursor changed on failure: %s", c)
	}
	if e.CanUndo() {
		t.Error("failed transformation was recorded")
	}

	err = e.ApplyDocument(transform.NewDocument(
		transform.Insert{At: 0, Text: "x"},
		transform.Delete{From: 3, To: 40},
	))
	if err == nil {
		t.Fatal("expected an error for an out-of-range delete")
	}
	if e.Text() != "hello" {
		t.Errorf("partial document transformation applied: %q", e.Text())
	}
}

func TestInsertCarriesCursor(t *testing.T) {
	e := newEngine(t, "hello\nworld")
	attach(t, e, cursor.Collapsed(3))

	if err := e.ApplyDocument(transform.NewDocument(transform.Insert{At: 0, Text: "xx"})); err != nil {
		t.Fatal(err)
	}
	if c, _ := e.Cursor(); c.Head() != 5 {
		t.Errorf("expected cursor at 5, got %s", c)
	}

	if err := e.ApplyDocument(transform.NewDocument(transform.Delete{From: 0, To: 4})); err != nil {
		t.Fatal(err)
	}
	if c, _ := e.Cursor(); c.Head() != 1 {
		t.Errorf("expected cursor at 1, got %s", c)
	}
	if e.Text() != "llo\nworld" {
		t.Errorf("unexpected text %q", e.Text())
	}
}

func TestUndoRedo(t *testing.T) {
	e := newEngine(t, "hello\nworld")
	attach(t, e, cursor.Collapsed(5))

	err := e.Apply("type",
		transform.NewDocument(transform.Insert{At: 5, Text: "!"}),
		transform.NewCursor(transform.MoveTo{Offset: 6}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello!\nworld" {
		t.Fatalf("unexpected text %q", e.Text())
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if e.Text() != "hello\nworld" {
		t.Errorf("expected original text after undo, got %q", e.Text())
	}
	if c, _ := e.Cursor(); !c.Equals(cursor.Collapsed(5)) {
		t.Errorf("expected cursor restored to 5, got %s", c)
	}
	if !e.CanRedo() || e.CanUndo() {
		t.Error("expected one redo entry and no undo entries")
	}

	if err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if e.Text() != "hello!\nworld" {
		t.Errorf("expected edited text after redo, got %q", e.Text())
	}
	if c, _ := e.Cursor(); !c.Equals(cursor.Collapsed(6)) {
		t.Errorf("expected cursor at 6 after redo, got %s", c)
	}

	if err := e.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestUndoAcrossParagraphs(t *testing.T) {
	e := newEngine(t, "ab\ncd")
	if err := e.ApplyDocument(transform.NewDocument(transform.Delete{From: 1, To: 4})); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ad" {
		t.Fatalf("unexpected text %q", e.Text())
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ab\ncd" {
		t.Errorf("expected paragraphs restored, got %q", e.Text())
	}
	if e.Size() != 6 {
		t.Errorf("expected size 6, got %d", e.Size())
	}
}

func TestUndoJoinedClusters(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		op       transform.DocumentOp
		wantText string
		wantSize int
	}{
		{"combining mark", "ex", transform.Insert{At: 1, Text: "\u0301"}, "e\u0301x", 3},
		{"joiner", "\U0001F468\U0001F469", transform.Insert{At: 1, Text: "\u200d"}, "\U0001F468\u200d\U0001F469", 2},
		{"flags meet", "\U0001F1FAx\U0001F1F8", transform.Delete{From: 1, To: 2}, "\U0001F1FA\U0001F1F8", 2},
		{"mark between flags", "\U0001F1FAx\U0001F1F8", transform.Insert{At: 2, Text: "\u0301"}, "\U0001F1FAx\u0301\U0001F1F8", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.text)
			attach(t, e, cursor.Collapsed(1))
			before := e.Size()

			if err := e.ApplyDocument(transform.NewDocument(tt.op)); err != nil {
				t.Fatalf("ApplyDocument: %v", err)
			}
			if e.Text() != tt.wantText || e.Size() != tt.wantSize {
				t.Fatalf("after edit: %q (size %d)", e.Text(), e.Size())
			}
			if c, _ := e.Cursor(); c.Head() >= e.Size() {
				t.Errorf("cursor %s outside size %d", c, e.Size())
			}

			if err := e.Undo(); err != nil {
				t.Fatalf("Undo: %v", err)
			}
			if e.Text() != tt.text || e.Size() != before {
				t.Errorf("after undo: %q (size %d), want %q (size %d)", e.Text(), e.Size(), tt.text, before)
			}
			if c, _ := e.Cursor(); !c.Equals(cursor.Collapsed(1)) {
				t.Errorf("cursor after undo = %s", c)
			}

			if err := e.Redo(); err != nil {
				t.Fatalf("Redo: %v", err)
			}
			if e.Text() != tt.wantText {
				t.Errorf("after redo: %q", e.Text())
			}
		})
	}
}

func TestTransaction(t *testing.T) {
	e := newEngine(t, "")
	err := e.Transaction("typing", func() error {
		for i, s := range []string{"a", "b", "c"} {
			d := transform.NewDocument(transform.Insert{At: i, Text: s})
			if err := e.ApplyDocument(d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.UndoCount() != 1 {
		t.Fatalf("expected one grouped entry, got %d", e.UndoCount())
	}
	if info := e.UndoInfo(); info[0].Name != "typing" || info[0].Operations != 3 {
		t.Errorf("unexpected entry info %+v", info[0])
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "" {
		t.Errorf("expected empty document after undo, got %q", e.Text())
	}
}

func TestUndoInfoOrder(t *testing.T) {
	e := newEngine(t, "")
	for i, name := range []string{"first", "second"} {
		d := transform.NewDocument(transform.Insert{At: i, Text: "x"})
		if err := e.Apply(name, d, transform.CursorTransformation{}); err != nil {
			t.Fatal(err)
		}
	}
	info := e.UndoInfo()
	if len(info) != 2 || info[0].Name != "first" || info[1].Name != "second" {
		t.Errorf("expected oldest first, got %+v", info)
	}
}

func TestNestedTransaction(t *testing.T) {
	e := newEngine(t, "")
	insert := func(at int, s string) error {
		return e.ApplyDocument(transform.NewDocument(transform.Insert{At: at, Text: s}))
	}
	abort := errors.New("abort")

	err := e.Transaction("outer", func() error {
		if err := insert(0, "a"); err != nil {
			return err
		}
		return e.Transaction("inner", func() error {
			if err := insert(1, "b"); err != nil {
				return err
			}
			return abort
		})
	})
	if !errors.Is(err, abort) {
		t.Fatalf("expected the inner error, got %v", err)
	}
	info := e.UndoInfo()
	if len(info) != 1 || info[0].Name != "outer" || info[0].Operations != 2 {
		t.Fatalf("unexpected undo info %+v", info)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "" {
		t.Errorf("expected one undo to revert both inserts, got %q", e.Text())
	}
}

func TestUnload(t *testing.T) {
	e := newEngine(t, "hello")
	attach(t, e, cursor.Collapsed(1))
	if err := e.Unload(); err != nil {
		t.Fatal(err)
	}

	if _, ok := e.Cursor(); ok {
		t.Error("expected cursor dropped on unload")
	}
	if err := e.ApplyDocument(transform.NewDocument(transform.Insert{At: 0, Text: "x"})); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}
	if err := e.AttachCursor(cursor.Collapsed(0)); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument from AttachCursor, got %v", err)
	}
	if _, err := e.ResolvePosition(0); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument from ResolvePosition, got %v", err)
	}

	if err := e.LoadText("again"); err != nil {
		t.Fatal(err)
	}
	if e.Size() != 6 {
		t.Errorf("expected size 6 after reload, got %d", e.Size())
	}
}

func TestLoadClampsCursor(t *testing.T) {
	e := newEngine(t, "hello world")
	attach(t, e, cursor.New(2, 10))
	if err := e.Load(content.FromText("hi", content.DefaultStyle())); err != nil {
		t.Fatal(err)
	}
	if c, _ := e.Cursor(); !c.Equals(cursor.New(2, 2)) {
		t.Errorf("expected cursor clamped to 2..2, got %s", c)
	}
	if e.CanUndo() {
		t.Error("expected history cleared on load")
	}
}

func TestEvents(t *testing.T) {
	bus := event.NewBus()
	var got []topic.Topic
	_, err := bus.Subscribe("engine.**", func(_ context.Context, ev event.Event) error {
		got = append(got, ev.Topic)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	e := newEngine(t, "hello", WithBus(bus))
	got = nil
	attach(t, e, cursor.Collapsed(3))
	if err := e.ApplyDocument(transform.NewDocument(transform.Insert{At: 0, Text: "x"})); err != nil {
		t.Fatal(err)
	}

	want := []topic.Topic{
		TopicCursorChanged,
		TopicTransformationApplied,
		TopicDocumentChanged,
		TopicLayoutRebuilt,
		TopicCursorChanged,
	}
	if len(got) != len(want) {
		t.Fatalf("expected topics %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("topic %d = %s, want %s", i, got[i], want[i])
		}
	}

	got = nil
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if last := got[len(got)-1]; last != TopicHistoryUndone {
		t.Errorf("expected history event last, got %s", last)
	}
}

func TestHandlerErrorAfterCommit(t *testing.T) {
	bus := event.NewBus()
	boom := errors.New("boom")
	_, err := bus.Subscribe(TopicDocumentChanged, func(context.Context, event.Event) error {
		return boom
	})
	if err != nil {
		t.Fatal(err)
	}
	e := newEngine(t, "hello", WithBus(bus))

	err = e.ApplyDocument(transform.NewDocument(transform.Insert{At: 0, Text: "x"}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if e.Text() != "xhello" {
		t.Errorf("expected state committed despite handler error, got %q", e.Text())
	}
}

func TestHandlersMayCallEngine(t *testing.T) {
	bus := event.NewBus()
	var e *Engine
	var seen int
	_, err := bus.Subscribe(TopicDocumentChanged, func(context.Context, event.Event) error {
		seen = e.Size()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	e = newEngine(t, "hello", WithBus(bus))
	if err := e.ApplyDocument(transform.NewDocument(transform.Insert{At: 0, Text: "ab"})); err != nil {
		t.Fatal(err)
	}
	if seen != 8 {
		t.Errorf("expected handler to observe size 8, got %d", seen)
	}
}

func TestReconfigure(t *testing.T) {
	e := newEngine(t, "hello world")
	if st := e.LayoutStats(); st.Lines != 1 {
		t.Fatalf("expected one unwrapped line, got %d", st.Lines)
	}
	attach(t, e, cursor.Collapsed(7))

	if err := e.Reconfigure(WithFlow(flow.Options{PageWidth: 8})); err != nil {
		t.Fatal(err)
	}
	if got := len(e.Tree().Lines()); got != 2 {
		t.Errorf("expected 2 wrapped lines, got %d", got)
	}
	if c, _ := e.Cursor(); c.Head() != 7 {
		t.Errorf("expected cursor unchanged, got %s", c)
	}

	style := content.DefaultStyle()
	style.FontWeight = 700
	if err := e.Reconfigure(WithStyle(style)); err != nil {
		t.Fatal(err)
	}
	if e.Document().Style() != style {
		t.Error("expected document restyled")
	}
}

func TestReconfigureFailureKeepsConfiguration(t *testing.T) {
	e := newEngine(t, "hello world", WithFlow(flow.Options{PageWidth: 8}))
	tree := e.Tree()

	err := e.Reconfigure(WithMeasurer(measure.Monospace{Advance: 3}), WithFlow(flow.Options{PageWidth: math.NaN()}))
	if !errors.Is(err, flow.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
	if e.Tree() != tree {
		t.Error("failed reconfigure replaced the tree")
	}

	line := e.Tree().Lines()[0]
	rects, err := e.OffsetRangeToRects(line.Box, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if w := rects[0].Width; w != 1 {
		t.Errorf("expected the old measurer's width 1, got %g", w)
	}

	if err := e.ApplyDocument(transform.NewDocument(transform.Insert{At: 0, Text: "x"})); err != nil {
		t.Fatalf("edit after a failed reconfigure: %v", err)
	}
	if got := len(e.Tree().Lines()); got != 2 {
		t.Errorf("expected the old page width to keep wrapping, got %d lines", got)
	}
}

func TestLayoutQueries(t *testing.T) {
	e := newEngine(t, "ab\ncd")
	pos, err := e.ResolvePosition(4)
	if err != nil {
		t.Fatal(err)
	}
	line, err := pos.Line().Box().AsLine()
	if err != nil {
		t.Fatal(err)
	}
	rects, err := e.OffsetRangeToRects(line.Box, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if rects[0].Left != 1 || rects[0].Top != 1 {
		t.Errorf("expected caret at (1,1), got %v", rects[0])
	}
	off, err := e.XToOffset(line.Box, rects[0].Left)
	if err != nil {
		t.Fatal(err)
	}
	if off != 1 {
		t.Errorf("expected local offset 1, got %d", off)
	}
	flat, err := e.PointToOffset(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if flat != 4 {
		t.Errorf("expected flat offset 4, got %d", flat)
	}
}
