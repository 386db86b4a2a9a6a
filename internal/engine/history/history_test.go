package history

import (
	"errors"
	"testing"

	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/transform"
)

func entry(name string, at int, text string) *Entry {
	return &Entry{
		Name:            name,
		Forward:         transform.NewDocument(transform.Insert{At: at, Text: text}),
		Inverse:         transform.NewDocument(transform.Delete{From: at, To: at + len(text)}),
		CursorBefore:    cursor.Collapsed(at),
		HasCursorBefore: true,
		CursorAfter:     cursor.Collapsed(at + len(text)),
		HasCursorAfter:  true,
	}
}

func TestHistoryPushAndUndo(t *testing.T) {
	h := New(10)
	h.Push(entry("a", 0, "x"))

	var got *Entry
	if err := h.Undo(func(e *Entry) error { got = e; return nil }); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got == nil || got.Name != "a" {
		t.Errorf("expected entry a, got %v", got)
	}
	if h.CanUndo() || !h.CanRedo() {
		t.Error("expected the entry to move to the redo stack")
	}
}

func TestHistoryRedo(t *testing.T) {
	h := New(10)
	h.Push(entry("a", 0, "x"))
	_ = h.Undo(func(*Entry) error { return nil })

	if err := h.Redo(func(*Entry) error { return nil }); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("expected 1/0, got %d/%d", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryRedoClearedOnPush(t *testing.T) {
	h := New(10)
	h.Push(entry("a", 0, "x"))
	_ = h.Undo(func(*Entry) error { return nil })
	h.Push(entry("b", 0, "y"))

	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

func TestHistoryFailedApplyKeepsEntry(t *testing.T) {
	h := New(10)
	h.Push(entry("a", 0, "x"))
	boom := errors.New("boom")

	if err := h.Undo(func(*Entry) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("failed undo should leave the stacks alone, got %d/%d", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Push(entry("e", i, "x"))
	}
	if h.UndoCount() != 3 {
		t.Errorf("expected 3 entries, got %d", h.UndoCount())
	}
}

func TestHistoryErrors(t *testing.T) {
	h := New(0)
	noop := func(*Entry) error { return nil }
	if err := h.Undo(noop); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if err := h.Redo(noop); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestHistoryGrouping(t *testing.T) {
	h := New(10)
	h.BeginGroup("typing")
	h.Push(entry("a", 0, "x"))
	h.Push(entry("b", 1, "y"))
	if h.UndoCount() != 0 {
		t.Error("grouped entries should be held until EndGroup")
	}
	h.EndGroup()

	if h.UndoCount() != 1 {
		t.Fatalf("expected one merged entry, got %d", h.UndoCount())
	}
	var merged *Entry
	_ = h.Undo(func(e *Entry) error { merged = e; return nil })

	if merged.Name != "typing" || merged.Forward.Len() != 2 {
		t.Errorf("unexpected merged entry %+v", merged)
	}
	inv := merged.Inverse.Operations()
	if d, ok := inv[0].(transform.Delete); !ok || d.From != 1 {
		t.Errorf("expected the last edit to be undone first, got %v", inv)
	}
	if merged.CursorBefore.Head() != 0 || merged.CursorAfter.Head() != 2 {
		t.Errorf("expected cursors 0 -> 2, got %v -> %v", merged.CursorBefore, merged.CursorAfter)
	}
}

func TestHistoryCancelGroup(t *testing.T) {
	h := New(10)
	h.BeginGroup("g")
	h.Push(entry("a", 0, "x"))
	h.CancelGroup()

	if h.CanUndo() || h.IsGrouping() {
		t.Error("cancelled group should leave nothing behind")
	}
}

func TestHistoryTransaction(t *testing.T) {
	h := New(10)
	err := h.Transaction("outer", func() error {
		h.Push(entry("a", 0, "x"))
		return h.Transaction("inner", func() error {
			if !h.IsGrouping() {
				t.Error("expected the outer group to stay open")
			}
			h.Push(entry("b", 1, "y"))
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if h.IsGrouping() {
		t.Error("group left open")
	}
	if info, ok := h.PeekUndo(); !ok || info.Name != "outer" || info.Operations != 2 {
		t.Errorf("unexpected peek %+v", info)
	}

	abort := errors.New("abort")
	err = h.Transaction("tx", func() error {
		h.Push(entry("c", 2, "z"))
		return abort
	})
	if !errors.Is(err, abort) {
		t.Errorf("expected the transaction error, got %v", err)
	}
	if got := h.UndoInfo(); len(got) != 2 || got[1].Name != "tx" {
		t.Errorf("a failed transaction should keep what it pushed, got %+v", got)
	}
}
