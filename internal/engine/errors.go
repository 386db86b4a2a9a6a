package engine

import (
	"errors"

	"github.com/dshills/loom/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrNoCursor indicates a cursor transformation with no cursor attached.
	ErrNoCursor = errors.New("engine: no cursor")

	// ErrNoDocument indicates an operation that needs a loaded document.
	ErrNoDocument = errors.New("engine: no document")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)
