package dispatcher

import (
	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/input"
)

// PreDispatchHook is called before an action is routed. It may modify the
// action or context. Returning false cancels the dispatch.
type PreDispatchHook interface {
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action completes, whether or not it
// succeeded.
type PostDispatchHook interface {
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// LoggingHook traces dispatches through LogFunc.
type LoggingHook struct {
	LogFunc func(format string, args ...any)
}

// NewLoggingHook creates a logging hook.
func NewLoggingHook(logFunc func(format string, args ...any)) *LoggingHook {
	return &LoggingHook{LogFunc: logFunc}
}

// PreDispatch logs the action being dispatched.
func (h *LoggingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.LogFunc != nil {
		h.LogFunc("dispatch %s (count=%d, source=%s)", action.Name, ctx.GetCount(), action.Source)
	}
	return true
}

// PostDispatch logs the result.
func (h *LoggingHook) PostDispatch(action *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
	if h.LogFunc == nil {
		return
	}
	if result.Error != nil {
		h.LogFunc("dispatch %s -> %s: %v", action.Name, result.Status, result.Error)
		return
	}
	h.LogFunc("dispatch %s -> %s", action.Name, result.Status)
}
