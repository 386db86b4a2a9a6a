package cursor

import (
	"errors"

	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/input"
	"github.com/dshills/loom/internal/layout"
)

// Action names for cursor movements.
const (
	ActionMoveLineBelow   = "cursor.moveLineBelow"
	ActionMoveLineAbove   = "cursor.moveLineAbove"
	ActionSelectLineBelow = "cursor.selectLineBelow"
	ActionSelectLineAbove = "cursor.selectLineAbove"
	ActionMoveLeft        = "cursor.moveLeft"
	ActionMoveRight       = "cursor.moveRight"
	ActionMoveLineStart   = "cursor.moveLineStart"
	ActionMoveLineEnd     = "cursor.moveLineEnd"
	ActionMoveDocStart    = "cursor.moveDocStart"
	ActionMoveDocEnd      = "cursor.moveDocEnd"
	ActionSelectAll       = "cursor.selectAll"
	ActionMoveToPoint     = "cursor.moveToPoint"
)

// ErrMissingPoint indicates cursor.moveToPoint was dispatched without a
// point argument.
var ErrMissingPoint = errors.New("cursor: action has no point")

// Handler routes the cursor namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates a handler with every cursor command registered.
func NewHandler() *Handler {
	h := &Handler{handler.NewBaseNamespaceHandler("cursor")}
	for name, cmd := range Commands() {
		h.RegisterCommand(name, cmd)
	}
	return h
}

// Commands returns the cursor commands by action name.
func Commands() map[string]handler.Command {
	return map[string]handler.Command{
		ActionMoveLineBelow:   MoveLineBelow,
		ActionMoveLineAbove:   MoveLineAbove,
		ActionSelectLineBelow: SelectLineBelow,
		ActionSelectLineAbove: SelectLineAbove,
		ActionMoveLeft:        MoveLeft,
		ActionMoveRight:       MoveRight,
		ActionMoveLineStart:   MoveLineStart,
		ActionMoveLineEnd:     MoveLineEnd,
		ActionMoveDocStart:    MoveDocStart,
		ActionMoveDocEnd:      MoveDocEnd,
		ActionSelectAll:       SelectAll,
		ActionMoveToPoint:     MoveToPoint,
	}
}

type (
	docT    = transform.DocumentTransformation
	cursorT = transform.CursorTransformation
)

// MoveLineBelow collapses the cursor onto the line below its end.
func MoveLineBelow(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	return vertical(r, true, false)
}

// MoveLineAbove collapses the cursor onto the line above its start.
func MoveLineAbove(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	return vertical(r, false, false)
}

// SelectLineBelow moves the head onto the line below.
func SelectLineBelow(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	return vertical(r, true, true)
}

// SelectLineAbove moves the head onto the line above.
func SelectLineAbove(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	return vertical(r, false, true)
}

func vertical(r execctx.EngineReader, below, extend bool) (docT, cursorT, error) {
	c, ok := r.Cursor()
	if !ok {
		return docT{}, cursorT{}, nil
	}

	offset := c.Start()
	switch {
	case extend:
		offset = c.Head()
	case below:
		offset = c.End()
	}

	pos, err := r.ResolvePosition(offset)
	if err != nil {
		return docT{}, cursorT{}, err
	}
	lvl := pos.Line()
	line, err := lvl.Box().AsLine()
	if err != nil {
		return docT{}, cursorT{}, err
	}

	move := func(o int) transform.CursorOp {
		if extend {
			return transform.MoveHeadTo{Offset: o}
		}
		return transform.MoveTo{Offset: o}
	}

	var (
		sibling layout.LineBox
		found   bool
	)
	if below {
		sibling, found = line.Next()
	} else {
		sibling, found = line.Previous()
	}
	if !found {
		target := lvl.Start()
		if below {
			target = lvl.End()
		}
		return docT{}, transform.NewCursor(move(target)), nil
	}

	x, ok := c.LeftAnchor()
	if !ok {
		rects, err := r.OffsetRangeToRects(line.Box, lvl.Offset(), lvl.Offset())
		if err != nil {
			return docT{}, cursorT{}, err
		}
		x = rects[0].Left
	}
	local, err := r.XToOffset(sibling.Box, x)
	if err != nil {
		return docT{}, cursorT{}, err
	}
	return docT{}, transform.NewCursor(
		transform.SetLeftAnchor{X: x},
		move(sibling.Start()+local),
	), nil
}

// collapse moves to offset and clears the left anchor.
func collapse(offset int) cursorT {
	return transform.NewCursor(transform.ClearLeftAnchor{}, transform.MoveTo{Offset: offset})
}

// MoveLeft moves one offset left, or collapses a selection to its start.
func MoveLeft(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	c, ok := r.Cursor()
	if !ok {
		return docT{}, cursorT{}, nil
	}
	if !c.IsCollapsed() {
		return docT{}, collapse(c.Start()), nil
	}
	return docT{}, collapse(max(c.Head()-1, 0)), nil
}

// MoveRight moves one offset right, or collapses a selection to its end.
func MoveRight(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	c, ok := r.Cursor()
	if !ok {
		return docT{}, cursorT{}, nil
	}
	if !c.IsCollapsed() {
		return docT{}, collapse(c.End()), nil
	}
	return docT{}, collapse(min(c.Head()+1, r.Size()-1)), nil
}

// MoveLineStart moves to the first offset of the head's line.
func MoveLineStart(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	return lineBoundary(r, false)
}

// MoveLineEnd moves to the last offset of the head's line.
func MoveLineEnd(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	return lineBoundary(r, true)
}

func lineBoundary(r execctx.EngineReader, end bool) (docT, cursorT, error) {
	c, ok := r.Cursor()
	if !ok {
		return docT{}, cursorT{}, nil
	}
	pos, err := r.ResolvePosition(c.Head())
	if err != nil {
		return docT{}, cursorT{}, err
	}
	lvl := pos.Line()
	if end {
		return docT{}, collapse(lvl.End()), nil
	}
	return docT{}, collapse(lvl.Start()), nil
}

// MoveDocStart moves to offset 0.
func MoveDocStart(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	if _, ok := r.Cursor(); !ok {
		return docT{}, cursorT{}, nil
	}
	return docT{}, collapse(0), nil
}

// MoveDocEnd moves to the last offset.
func MoveDocEnd(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	if _, ok := r.Cursor(); !ok {
		return docT{}, cursorT{}, nil
	}
	return docT{}, collapse(r.Size() - 1), nil
}

// SelectAll selects from the first to the last offset.
func SelectAll(_ input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	if _, ok := r.Cursor(); !ok {
		return docT{}, cursorT{}, nil
	}
	return docT{}, transform.NewCursor(
		transform.ClearLeftAnchor{},
		transform.MoveTo{Offset: 0},
		transform.MoveHeadTo{Offset: r.Size() - 1},
	), nil
}

// MoveToPoint collapses the cursor at the offset under the action's point.
func MoveToPoint(action input.Action, r execctx.EngineReader) (docT, cursorT, error) {
	if _, ok := r.Cursor(); !ok {
		return docT{}, cursorT{}, nil
	}
	p := action.Args.Point
	if p == nil {
		return docT{}, cursorT{}, ErrMissingPoint
	}
	offset, err := r.PointToOffset(p.X, p.Y)
	if err != nil {
		return docT{}, cursorT{}, err
	}
	return docT{}, collapse(offset), nil
}
