// Package edit provides the text editing commands.
//
// Edit commands return document transformations only. The engine carries
// the cursor through the edits: a collapsed cursor moves past inserted text
// and a selection collapses onto the point where it was deleted.
package edit

import (
	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/input"
)

// Action names for editing.
const (
	ActionInsert         = "edit.insert"
	ActionDeleteBackward = "edit.deleteBackward"
	ActionDeleteForward  = "edit.deleteForward"
)

// Handler routes the edit namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates a handler with every edit command registered.
func NewHandler() *Handler {
	h := &Handler{handler.NewBaseNamespaceHandler("edit")}
	h.RegisterCommand(ActionInsert, Insert)
	h.RegisterCommand(ActionDeleteBackward, DeleteBackward)
	h.RegisterCommand(ActionDeleteForward, DeleteForward)
	return h
}

type (
	docT    = transform.DocumentTransformation
	cursorT = transform.CursorTransformation
)

// Insert replaces the selection with the action's text.
func Insert(action input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	c, ok := r.Cursor()
	if !ok || action.Args.Text == "" {
		return docT{}, cursorT{}, nil
	}
	d := deleteSelection(c)
	return d.With(transform.Insert{At: c.Start(), Text: action.Args.Text}), cursorT{}, nil
}

// DeleteBackward deletes the selection, or the unit before the cursor.
// Deleting at a paragraph start joins it to the previous paragraph.
func DeleteBackward(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	c, ok := r.Cursor()
	switch {
	case !ok:
		return docT{}, cursorT{}, nil
	case !c.IsCollapsed():
		return deleteSelection(c), cursorT{}, nil
	case c.Head() == 0:
		return docT{}, cursorT{}, nil
	}
	return transform.NewDocument(transform.Delete{From: c.Head() - 1, To: c.Head()}), cursorT{}, nil
}

// DeleteForward deletes the selection, or the unit after the cursor. The
// document's final break is never deleted.
func DeleteForward(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	c, ok := r.Cursor()
	switch {
	case !ok:
		return docT{}, cursorT{}, nil
	case !c.IsCollapsed():
		return deleteSelection(c), cursorT{}, nil
	case c.Head() >= r.Size()-1:
		return docT{}, cursorT{}, nil
	}
	return transform.NewDocument(transform.Delete{From: c.Head(), To: c.Head() + 1}), cursorT{}, nil
}

func deleteSelection(c cursor.Cursor) docT {
	if c.IsCollapsed() {
		return docT{}
	}
	return transform.NewDocument(transform.Delete{From: c.Start(), To: c.End()})
}
