package history_test

import (
	"errors"
	"testing"

	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/dispatcher/handlers/history"
	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/input"
)

func TestUndoRedo(t *testing.T) {
	e, err := engine.New(engine.WithText("hello"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := history.NewHandler()
	ctx := execctx.New().WithEngine(e)

	result := h.HandleAction(input.NewAction(history.ActionUndo), ctx)
	if result.Status != handler.StatusNoOp {
		t.Errorf("expected no-op with empty history, got %s", result.Status)
	}

	if err := e.ApplyDocument(transform.NewDocument(transform.Insert{At: 0, Text: ">"})); err != nil {
		t.Fatalf("ApplyDocument: %v", err)
	}

	result = h.HandleAction(input.NewAction(history.ActionUndo), ctx)
	if !result.IsOK() {
		t.Fatalf("expected undo to succeed, got %+v", result)
	}
	if e.Text() != "hello" {
		t.Errorf("expected %q after undo, got %q", "hello", e.Text())
	}

	result = h.HandleAction(input.NewAction(history.ActionRedo), ctx)
	if !result.IsOK() {
		t.Fatalf("expected redo to succeed, got %+v", result)
	}
	if e.Text() != ">hello" {
		t.Errorf("expected %q after redo, got %q", ">hello", e.Text())
	}

	result = h.HandleAction(input.NewAction(history.ActionRedo), ctx)
	if result.Status != handler.StatusNoOp {
		t.Errorf("expected no-op with empty redo stack, got %s", result.Status)
	}
}

func TestMissingEngine(t *testing.T) {
	h := history.NewHandler()
	result := h.HandleAction(input.NewAction(history.ActionUndo), execctx.New())
	if !errors.Is(result.Error, execctx.ErrMissingEngine) {
		t.Errorf("expected ErrMissingEngine, got %v", result.Error)
	}
}
