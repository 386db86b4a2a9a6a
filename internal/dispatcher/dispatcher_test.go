package dispatcher_test

import (
	"errors"
	"testing"

	"github.com/dshills/loom/internal/dispatcher"
	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/dispatcher/handlers/cursor"
	"github.com/dshills/loom/internal/dispatcher/handlers/edit"
	"github.com/dshills/loom/internal/dispatcher/handlers/history"
	"github.com/dshills/loom/internal/engine"
	ecursor "github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/input"
)

func setup(t *testing.T, text string, config dispatcher.Config) (*dispatcher.Dispatcher, *engine.Engine) {
	t.Helper()
	e, err := engine.New(engine.WithText(text))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	if err := e.AttachCursor(ecursor.Collapsed(0)); err != nil {
		t.Fatalf("AttachCursor: %v", err)
	}
	d := dispatcher.New(config)
	d.SetEngine(e)
	d.RegisterNamespace(cursor.NewHandler())
	d.RegisterNamespace(edit.NewHandler())
	d.RegisterNamespace(history.NewHandler())
	return d, e
}

func head(t *testing.T, e *engine.Engine) int {
	t.Helper()
	c, ok := e.Cursor()
	if !ok {
		t.Fatal("expected a cursor")
	}
	return c.Head()
}

func TestDispatchAppliesTransformations(t *testing.T) {
	d, e := setup(t, "hello\nworld", dispatcher.DefaultConfig())

	result := d.Dispatch(input.NewAction(cursor.ActionMoveLineBelow))
	if !result.IsOK() {
		t.Fatalf("expected ok, got %s: %v", result.Status, result.Error)
	}
	if got := head(t, e); got != 6 {
		t.Errorf("expected head 6, got %d", got)
	}

	result = d.Dispatch(input.NewAction(edit.ActionInsert).WithText(">"))
	if !result.IsOK() {
		t.Fatalf("expected ok, got %s: %v", result.Status, result.Error)
	}
	if e.Text() != "hello\n>world" {
		t.Errorf("unexpected text %q", e.Text())
	}
	info := e.UndoInfo()
	if len(info) != 1 || info[0].Name != edit.ActionInsert {
		t.Errorf("expected one undo entry named %s, got %+v", edit.ActionInsert, info)
	}

	result = d.Dispatch(input.NewAction(history.ActionUndo))
	if !result.IsOK() || e.Text() != "hello\nworld" {
		t.Errorf("expected undo to restore the text, got %s %q", result.Status, e.Text())
	}
}

func TestDispatchErrors(t *testing.T) {
	d, _ := setup(t, "hello", dispatcher.DefaultConfig())

	result := d.Dispatch(input.NewAction("nothing.here"))
	if !result.IsError() || !dispatcher.IsNoHandler(result) {
		t.Errorf("expected ErrNoHandler, got %+v", result)
	}

	result = d.Dispatch(input.Action{})
	if !errors.Is(result.Error, dispatcher.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", result.Error)
	}
}

func TestApplyFailureIsReported(t *testing.T) {
	d, e := setup(t, "hello", dispatcher.DefaultConfig())
	d.RegisterCommand("test.bad", func(input.Action, execctx.EngineReader) (transform.DocumentTransformation, transform.CursorTransformation, error) {
		return transform.NewDocument(
			transform.Insert{At: 0, Text: "x"},
			transform.Delete{From: 2, To: 40},
		), transform.CursorTransformation{}, nil
	})

	result := d.Dispatch(input.NewAction("test.bad"))
	if !result.IsError() {
		t.Fatalf("expected an error, got %s", result.Status)
	}
	if e.Text() != "hello" || e.CanUndo() {
		t.Errorf("expected no change, got %q (undo=%v)", e.Text(), e.CanUndo())
	}
}

func TestRepeatCountIsOneUndoEntry(t *testing.T) {
	d, e := setup(t, "hello", dispatcher.DefaultConfig())

	result := d.Dispatch(input.NewAction(edit.ActionInsert).WithText("ab").WithCount(3))
	if !result.IsOK() {
		t.Fatalf("expected ok, got %s: %v", result.Status, result.Error)
	}
	if e.Text() != "abababhello" {
		t.Errorf("unexpected text %q", e.Text())
	}
	if got := head(t, e); got != 6 {
		t.Errorf("expected head 6, got %d", got)
	}
	if e.UndoCount() != 1 {
		t.Errorf("expected 1 undo entry, got %d", e.UndoCount())
	}

	d.Dispatch(input.NewAction(history.ActionUndo))
	if e.Text() != "hello" {
		t.Errorf("expected a single undo to remove every repeat, got %q", e.Text())
	}
}

func TestRepeatStopsAtNoOp(t *testing.T) {
	d, e := setup(t, "abc", dispatcher.DefaultConfig())
	if err := e.AttachCursor(ecursor.Collapsed(2)); err != nil {
		t.Fatalf("AttachCursor: %v", err)
	}

	steps := 0
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(*input.Action, *execctx.ExecutionContext, *handler.Result) {
		steps++
	}))

	result := d.Dispatch(input.NewAction(edit.ActionDeleteBackward).WithCount(5))
	if !result.IsOK() {
		t.Errorf("expected ok after partial repeat, got %s", result.Status)
	}
	if e.Text() != "c" {
		t.Errorf("expected %q, got %q", "c", e.Text())
	}
	if steps != 1 {
		t.Errorf("expected post hooks once per dispatch, got %d", steps)
	}
}

func TestMaxRepeatCount(t *testing.T) {
	d, e := setup(t, "hello", dispatcher.DefaultConfig().WithMaxRepeatCount(2))

	d.Dispatch(input.NewAction(edit.ActionInsert).WithText("x").WithCount(10))
	if e.Text() != "xxhello" {
		t.Errorf("expected the count to be clamped, got %q", e.Text())
	}
}

func TestHooks(t *testing.T) {
	d, e := setup(t, "hello", dispatcher.DefaultConfig())

	var seen []string
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(a *input.Action, _ *execctx.ExecutionContext) bool {
		seen = append(seen, "pre:"+a.Name)
		if a.Name == edit.ActionInsert {
			a.Args.Text = "!"
		}
		return a.Name != cursor.ActionMoveDocEnd
	}))
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(a *input.Action, _ *execctx.ExecutionContext, r *handler.Result) {
		seen = append(seen, "post:"+r.Status.String())
	}))

	result := d.Dispatch(input.NewAction(cursor.ActionMoveDocEnd))
	if result.Status != handler.StatusCancelled {
		t.Errorf("expected cancelled, got %s", result.Status)
	}
	if got := head(t, e); got != 0 {
		t.Errorf("expected a cancelled action to leave the cursor, got %d", got)
	}

	d.Dispatch(input.NewAction(edit.ActionInsert).WithText("?"))
	if e.Text() != "!hello" {
		t.Errorf("expected the hook to rewrite the text, got %q", e.Text())
	}

	want := []string{"pre:" + cursor.ActionMoveDocEnd, "pre:" + edit.ActionInsert, "post:ok"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("hook %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestLoggingHook(t *testing.T) {
	d, _ := setup(t, "hello", dispatcher.DefaultConfig())

	var lines int
	logHook := dispatcher.NewLoggingHook(func(string, ...any) { lines++ })
	d.RegisterPreHook(logHook)
	d.RegisterPostHook(logHook)

	d.Dispatch(input.NewAction(cursor.ActionMoveRight))
	if lines != 2 {
		t.Errorf("expected 2 log lines, got %d", lines)
	}
}

func TestPanicRecovery(t *testing.T) {
	d, _ := setup(t, "hello", dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("test.panic", func(input.Action, *execctx.ExecutionContext) handler.Result {
		panic("boom")
	})

	result := d.Dispatch(input.NewAction("test.panic"))
	if !errors.Is(result.Error, dispatcher.ErrPanic) {
		t.Errorf("expected ErrPanic, got %v", result.Error)
	}
	if d.Metrics().TotalPanics() != 1 {
		t.Errorf("expected 1 panic recorded, got %d", d.Metrics().TotalPanics())
	}
}

func TestMissingEngine(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("test.move", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Transform(transform.DocumentTransformation{}, transform.NewCursor(transform.MoveTo{Offset: 0}))
	})

	result := d.Dispatch(input.NewAction("test.move"))
	if !errors.Is(result.Error, execctx.ErrMissingEngine) {
		t.Errorf("expected ErrMissingEngine, got %v", result.Error)
	}
}

func TestMetrics(t *testing.T) {
	d, _ := setup(t, "hello", dispatcher.DefaultConfig().WithMetrics())

	d.Dispatch(input.NewAction(cursor.ActionMoveRight))
	d.Dispatch(input.NewAction(cursor.ActionMoveRight))
	d.Dispatch(input.NewAction(history.ActionUndo))
	d.Dispatch(input.NewAction("missing"))

	m := d.Metrics()
	snap := m.Snapshot()
	if snap.TotalDispatches != 4 || snap.TotalNoOps != 1 || snap.TotalErrors != 1 {
		t.Errorf("unexpected totals %+v", snap)
	}

	top := m.Top(1)
	if len(top) != 1 || top[0].Name != cursor.ActionMoveRight || top[0].DispatchCount != 2 {
		t.Errorf("unexpected top %+v", top)
	}
	if cm := m.Command(history.ActionUndo); cm == nil || cm.NoOpCount != 1 {
		t.Errorf("expected one no-op undo, got %+v", cm)
	}

	m.Reset()
	if m.TotalDispatches() != 0 || m.Command(cursor.ActionMoveRight) != nil {
		t.Error("expected Reset to clear everything")
	}
}

func TestRegistry(t *testing.T) {
	r := dispatcher.NewRegistry()
	first := handler.NewHandlerFunc(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("first")
	})
	second := handler.NewHandlerFunc(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("second")
	})

	r.Register("a.b", first)
	r.Register("a.b", second)
	r.Register("c", first)

	if got := r.Get("a.b").Handle(input.Action{}, execctx.New()).Message; got != "second" {
		t.Errorf("expected the later registration to win, got %s", got)
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "a.b" || names[1] != "c" {
		t.Errorf("unexpected names %v", names)
	}

	r.Unregister("a.b")
	if r.Has("a.b") || r.Len() != 1 {
		t.Error("expected a.b to be unregistered")
	}
}

func TestRouter(t *testing.T) {
	r := dispatcher.NewRouter()
	r.RegisterNamespace(cursor.NewHandler())
	r.RegisterNamespace(edit.NewHandler())

	if r.Route(cursor.ActionMoveLeft) == nil {
		t.Error("expected cursor actions to route")
	}
	if r.Route("cursor.unknown") != nil {
		t.Error("expected unknown cursor action not to route")
	}
	if ns := r.Namespaces(); len(ns) != 2 || ns[0] != "cursor" || ns[1] != "edit" {
		t.Errorf("unexpected namespaces %v", ns)
	}

	fallback := handler.NewHandlerFunc(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.NoOp()
	})
	r.SetFallback(fallback)
	if r.Route("other") == nil {
		t.Error("expected the fallback for unmatched actions")
	}

	r.UnregisterNamespace("edit")
	if r.Route(edit.ActionInsert) != handler.Handler(fallback) {
		t.Error("expected edit actions to reach the fallback once unregistered")
	}
}

func TestSplitActionName(t *testing.T) {
	tests := []struct {
		in, ns, cmd string
	}{
		{"cursor.moveLeft", "cursor", "moveLeft"},
		{"script.a.b", "script", "a.b"},
		{"plain", "", "plain"},
	}
	for _, tt := range tests {
		ns, cmd := dispatcher.SplitActionName(tt.in)
		if ns != tt.ns || cmd != tt.cmd {
			t.Errorf("SplitActionName(%q) = %q, %q; want %q, %q", tt.in, ns, cmd, tt.ns, tt.cmd)
		}
	}
}
