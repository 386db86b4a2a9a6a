package cursor_test

import (
	"errors"
	"testing"

	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/dispatcher/handlers/cursor"
	"github.com/dshills/loom/internal/engine"
	ecursor "github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/input"
	"github.com/dshills/loom/internal/layout"
)

func newEngine(t *testing.T, text string, c ecursor.Cursor) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.WithText(text))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.AttachCursor(c); err != nil {
		t.Fatalf("AttachCursor: %v", err)
	}
	return e
}

// run executes cmd against e, applies its cursor transformation and
// returns it.
func run(t *testing.T, e *engine.Engine, cmd handler.Command) transform.CursorTransformation {
	t.Helper()
	d, c, err := cmd(input.NewAction("test"), e)
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	if !d.IsEmpty() {
		t.Fatalf("expected no document operations, got %s", d)
	}
	if err := e.Apply("test", d, c); err != nil {
		t.Fatalf("apply: %v", err)
	}
	return c
}

func current(t *testing.T, e *engine.Engine) ecursor.Cursor {
	t.Helper()
	c, ok := e.Cursor()
	if !ok {
		t.Fatal("expected a cursor")
	}
	return c
}

func TestMoveLineBelowComputesLeftAnchor(t *testing.T) {
	// Lines of sizes 5 and 3; the head sits on line 1's last offset.
	e := newEngine(t, "abcd\nxy", ecursor.Collapsed(4))

	pos, err := e.ResolvePosition(4)
	if err != nil {
		t.Fatalf("ResolvePosition: %v", err)
	}
	rects, err := e.OffsetRangeToRects(pos.Line().Box(), 4, 4)
	if err != nil {
		t.Fatalf("OffsetRangeToRects: %v", err)
	}
	wantX := rects[0].Left

	ct := run(t, e, cursor.MoveLineBelow)

	ops := ct.Operations()
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %s", ct)
	}
	if op, ok := ops[0].(transform.SetLeftAnchor); !ok || op.X != wantX {
		t.Errorf("expected setLeftAnchor(%g) first, got %v", wantX, ops[0])
	}
	// x lies past line 2's content, so the target clamps to its last offset.
	if op, ok := ops[1].(transform.MoveTo); !ok || op.Offset != 7 {
		t.Errorf("expected moveTo(7) second, got %v", ops[1])
	}

	c := current(t, e)
	if c.Head() != 7 || !c.IsCollapsed() {
		t.Errorf("expected collapsed cursor at 7, got %s", c)
	}
	if x, ok := c.LeftAnchor(); !ok || x != wantX {
		t.Errorf("expected left anchor %g, got %g (%v)", wantX, x, ok)
	}
}

func TestMoveLineBelowOnLastLine(t *testing.T) {
	e := newEngine(t, "abcd\nxy", ecursor.Collapsed(6))

	ct := run(t, e, cursor.MoveLineBelow)

	ops := ct.Operations()
	if len(ops) != 1 {
		t.Fatalf("expected only a move, got %s", ct)
	}
	// Line 2 starts at 5 and spans 3 offsets.
	if op, ok := ops[0].(transform.MoveTo); !ok || op.Offset != 5+3-1 {
		t.Errorf("expected moveTo(7), got %v", ops[0])
	}
	if _, ok := current(t, e).LeftAnchor(); ok {
		t.Error("expected the left anchor to stay unset")
	}
}

func TestMoveLineAboveOnFirstLine(t *testing.T) {
	e := newEngine(t, "abcd\nxy", ecursor.Collapsed(2).WithLeftAnchor(9))

	run(t, e, cursor.MoveLineAbove)

	c := current(t, e)
	if c.Head() != 0 {
		t.Errorf("expected head 0, got %d", c.Head())
	}
	if x, ok := c.LeftAnchor(); !ok || x != 9 {
		t.Errorf("expected left anchor 9 untouched, got %g (%v)", x, ok)
	}
}

func TestNoCursorIsNoOp(t *testing.T) {
	e, err := engine.New(engine.WithText("abcd\nxy"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for name, cmd := range cursor.Commands() {
		d, c, err := cmd(input.NewAction(name).WithPoint(0, 0), e)
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
		if !d.IsEmpty() || !c.IsEmpty() {
			t.Errorf("%s: expected empty transformations, got %s %s", name, d, c)
		}
	}
}

func TestLeftAnchorSticksAcrossShortLine(t *testing.T) {
	// Line sizes 7, 2 and 7.
	e := newEngine(t, "abcdef\nx\nabcdef", ecursor.Collapsed(4))

	run(t, e, cursor.MoveLineBelow)
	if got := current(t, e).Head(); got != 8 {
		t.Fatalf("expected head 8 on the short line, got %d", got)
	}

	run(t, e, cursor.MoveLineBelow)
	if got := current(t, e).Head(); got != 9+4 {
		t.Errorf("expected head 13 back in column 4, got %d", got)
	}

	run(t, e, cursor.MoveLineAbove)
	run(t, e, cursor.MoveLineAbove)
	if got := current(t, e).Head(); got != 4 {
		t.Errorf("expected head 4 after moving back up, got %d", got)
	}
}

func TestHorizontalMoveClearsLeftAnchor(t *testing.T) {
	e := newEngine(t, "abcdef\nx\nabcdef", ecursor.Collapsed(4))

	run(t, e, cursor.MoveLineBelow)
	run(t, e, cursor.MoveLeft)

	c := current(t, e)
	if c.Head() != 7 {
		t.Errorf("expected head 7, got %d", c.Head())
	}
	if _, ok := c.LeftAnchor(); ok {
		t.Error("expected the left anchor to be cleared")
	}
}

func TestSelectLineBelow(t *testing.T) {
	e := newEngine(t, "abcdef\nabcdef", ecursor.Collapsed(2))

	run(t, e, cursor.SelectLineBelow)

	c := current(t, e)
	if c.Anchor() != 2 || c.Head() != 9 {
		t.Errorf("expected selection 2..9, got %s", c)
	}

	run(t, e, cursor.SelectLineAbove)
	c = current(t, e)
	if c.Anchor() != 2 || c.Head() != 2 {
		t.Errorf("expected selection 2..2, got %s", c)
	}
}

func TestVerticalEndpoints(t *testing.T) {
	// A selection moves below from its end and above from its start.
	e := newEngine(t, "abcdef\nabcdef\nabcdef", ecursor.New(8, 3))

	run(t, e, cursor.MoveLineBelow)
	if got := current(t, e).Head(); got != 14+1 {
		t.Errorf("expected head 15, got %d", got)
	}

	if err := e.ApplyCursor(transform.NewCursor(
		transform.ClearLeftAnchor{},
		transform.MoveTo{Offset: 9},
		transform.MoveHeadTo{Offset: 16},
	)); err != nil {
		t.Fatalf("ApplyCursor: %v", err)
	}
	run(t, e, cursor.MoveLineAbove)
	if got := current(t, e).Head(); got != 2 {
		t.Errorf("expected head 2, got %d", got)
	}
}

func TestHorizontalCommands(t *testing.T) {
	tests := []struct {
		name   string
		start  ecursor.Cursor
		cmd    handler.Command
		anchor int
		head   int
	}{
		{"left", ecursor.Collapsed(3), cursor.MoveLeft, 2, 2},
		{"left at start", ecursor.Collapsed(0), cursor.MoveLeft, 0, 0},
		{"left collapses selection", ecursor.New(5, 2), cursor.MoveLeft, 2, 2},
		{"right", ecursor.Collapsed(3), cursor.MoveRight, 4, 4},
		{"right at end", ecursor.Collapsed(11), cursor.MoveRight, 11, 11},
		{"right collapses selection", ecursor.New(5, 2), cursor.MoveRight, 5, 5},
		{"line start", ecursor.Collapsed(9), cursor.MoveLineStart, 6, 6},
		{"line end", ecursor.Collapsed(1), cursor.MoveLineEnd, 5, 5},
		{"doc start", ecursor.Collapsed(9), cursor.MoveDocStart, 0, 0},
		{"doc end", ecursor.Collapsed(1), cursor.MoveDocEnd, 11, 11},
		{"select all", ecursor.Collapsed(4), cursor.SelectAll, 0, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, "hello\nworld", tt.start.WithLeftAnchor(3))
			run(t, e, tt.cmd)

			c := current(t, e)
			if c.Anchor() != tt.anchor || c.Head() != tt.head {
				t.Errorf("expected %d..%d, got %s", tt.anchor, tt.head, c)
			}
			if _, ok := c.LeftAnchor(); ok {
				t.Error("expected the left anchor to be cleared")
			}
		})
	}
}

func TestMoveToPoint(t *testing.T) {
	e := newEngine(t, "hello\nworld", ecursor.Collapsed(0))

	rect, err := e.OffsetRangeToRects(mustLine(t, e, 6), 0, 0)
	if err != nil {
		t.Fatalf("OffsetRangeToRects: %v", err)
	}
	action := input.NewAction(cursor.ActionMoveToPoint).WithPoint(rect[0].Left+2, rect[0].Top)
	d, c, err := cursor.MoveToPoint(action, e)
	if err != nil {
		t.Fatalf("MoveToPoint: %v", err)
	}
	if err := e.Apply(cursor.ActionMoveToPoint, d, c); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := current(t, e).Head(); got != 8 {
		t.Errorf("expected head 8, got %d", got)
	}

	if _, _, err := cursor.MoveToPoint(input.NewAction(cursor.ActionMoveToPoint), e); !errors.Is(err, cursor.ErrMissingPoint) {
		t.Errorf("expected ErrMissingPoint, got %v", err)
	}
}

func mustLine(t *testing.T, e *engine.Engine, offset int) layout.Box {
	t.Helper()
	pos, err := e.ResolvePosition(offset)
	if err != nil {
		t.Fatalf("ResolvePosition(%d): %v", offset, err)
	}
	return pos.Line().Box()
}

// badReader reports a cursor outside the document or a position with no
// line level.
type badReader struct {
	*engine.Engine
	cursor   ecursor.Cursor
	position bool
}

func (r badReader) Cursor() (ecursor.Cursor, bool) {
	return r.cursor, true
}

func (r badReader) ResolvePosition(offset int) (layout.Position, error) {
	if r.position {
		return layout.Position{}, nil
	}
	return r.Engine.ResolvePosition(offset)
}

var _ execctx.EngineReader = badReader{}

func TestVerticalErrors(t *testing.T) {
	e := newEngine(t, "abcd\nxy", ecursor.Collapsed(0))

	_, c, err := cursor.MoveLineBelow(input.Action{}, badReader{Engine: e, cursor: ecursor.Collapsed(99)})
	if !errors.Is(err, layout.ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
	if !c.IsEmpty() {
		t.Errorf("expected no operations on error, got %s", c)
	}

	_, _, err = cursor.MoveLineAbove(input.Action{}, badReader{Engine: e, cursor: ecursor.Collapsed(1), position: true})
	if !errors.Is(err, layout.ErrUnexpectedKind) {
		t.Errorf("expected ErrUnexpectedKind, got %v", err)
	}
}

func TestHandlerRoutesCommands(t *testing.T) {
	h := cursor.NewHandler()
	if h.Namespace() != "cursor" {
		t.Errorf("expected namespace cursor, got %q", h.Namespace())
	}
	for name := range cursor.Commands() {
		if !h.CanHandle(name) {
			t.Errorf("expected handler to accept %s", name)
		}
	}
	if h.CanHandle("cursor.unknown") {
		t.Error("expected cursor.unknown to be rejected")
	}

	e := newEngine(t, "abcd\nxy", ecursor.Collapsed(1))
	ctx := execctx.New().WithEngine(e)
	result := h.HandleAction(input.NewAction(cursor.ActionMoveLineBelow), ctx)
	if !result.IsOK() || result.Cursor.Len() != 2 {
		t.Errorf("expected a two-op cursor result, got %+v", result)
	}
	if got := current(t, e).Head(); got != 1 {
		t.Errorf("handler must not apply its result, head moved to %d", got)
	}
}
