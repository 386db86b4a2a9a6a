// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/input"
	"github.com/dshills/loom/internal/layout"
	"github.com/dshills/loom/internal/viewport"
)

// EngineReader provides read-only access to editor state. Commands are
// given only a reader, so building a transformation has no side effects.
type EngineReader interface {
	// Cursor returns the cursor and whether one is attached.
	Cursor() (cursor.Cursor, bool)

	// Document returns the content, or nil when none is loaded.
	Document() *content.Document

	// Tree returns the layout tree, or nil when no document is loaded.
	Tree() *layout.Tree

	// Size returns the document's selectable size.
	Size() int

	// Geometry
	ResolvePosition(offset int) (layout.Position, error)
	OffsetRangeToRects(box layout.Box, from, to int) ([]viewport.Rect, error)
	XToOffset(box layout.Box, x float64) (int, error)
	PointToOffset(x, y float64) (int, error)
}

// EngineInterface abstracts the state container for handlers.
type EngineInterface interface {
	EngineReader

	// Apply applies a document then a cursor transformation atomically.
	Apply(name string, d transform.DocumentTransformation, c transform.CursorTransformation) error

	// Undo and Redo step through history.
	Undo() error
	Redo() error

	// Transaction groups the document transformations applied by fn into
	// one undo entry.
	Transaction(name string, fn func() error) error

	CanUndo() bool
	CanRedo() bool
}

// ExecutionContext provides context for action execution.
type ExecutionContext struct {
	// Engine provides access to editor state.
	Engine EngineInterface

	// Action is the action being executed.
	Action input.Action

	// Count is the repeat count (1 if not specified).
	Count int
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{Count: 1}
}

// WithEngine returns the context with the engine set.
func (ctx *ExecutionContext) WithEngine(engine EngineInterface) *ExecutionContext {
	ctx.Engine = engine
	return ctx
}

// WithCount returns the context with repeat count set.
func (ctx *ExecutionContext) WithCount(count int) *ExecutionContext {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// GetCount returns the repeat count, defaulting to 1.
func (ctx *ExecutionContext) GetCount() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// Validate checks that the context has all required components.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Engine == nil {
		return ErrMissingEngine
	}
	return nil
}
