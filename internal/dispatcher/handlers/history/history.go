// Package history provides the undo and redo commands.
//
// Unlike the other handlers these step the engine's history directly,
// since an undo is not a transformation computed from current state.
package history

import (
	"errors"

	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/input"
)

// Action names for history.
const (
	ActionUndo = "history.undo"
	ActionRedo = "history.redo"
)

// Handler routes the history namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates the history handler.
func NewHandler() *Handler {
	h := &Handler{handler.NewBaseNamespaceHandler("history")}
	h.Register(ActionUndo, func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		if err := ctx.Validate(); err != nil {
			return handler.Error(err)
		}
		return step(ctx.Engine.Undo, engine.ErrNothingToUndo, "nothing to undo")
	})
	h.Register(ActionRedo, func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		if err := ctx.Validate(); err != nil {
			return handler.Error(err)
		}
		return step(ctx.Engine.Redo, engine.ErrNothingToRedo, "nothing to redo")
	})
	return h
}

func step(fn func() error, empty error, msg string) handler.Result {
	if err := fn(); err != nil {
		if errors.Is(err, empty) || errors.Is(err, engine.ErrNoDocument) {
			return handler.NoOpWithMessage(msg)
		}
		return handler.Error(err)
	}
	return handler.Success()
}
