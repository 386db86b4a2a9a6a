// Package handler provides the handler interface and types for action dispatch.
package handler

import (
	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/input"
)

// Handler processes a specific action or set of actions.
type Handler interface {
	// Handle executes the action and returns a result.
	Handle(action input.Action, ctx *execctx.ExecutionContext) Result

	// CanHandle returns true if this handler can process the action.
	CanHandle(actionName string) bool
}

// Command computes transformations from read-only state. Commands that
// cannot proceed return empty transformations and a nil error; errors are
// reserved for programming faults such as an invalid offset.
type Command func(action input.Action, r execctx.EngineReader) (transform.DocumentTransformation, transform.CursorTransformation, error)

// Run executes a command against the context's engine and wraps its output
// in a result. The transformations are not applied.
func Run(cmd Command, action input.Action, ctx *execctx.ExecutionContext) Result {
	if err := ctx.Validate(); err != nil {
		return Error(err)
	}
	d, c, err := cmd(action, ctx.Engine)
	if err != nil {
		return Error(err)
	}
	return Transform(d, c)
}

// HandlerFunc is a function adapter for Handler interface.
type HandlerFunc struct {
	fn func(action input.Action, ctx *execctx.ExecutionContext) Result
}

// NewHandlerFunc creates a HandlerFunc from a function.
func NewHandlerFunc(fn func(action input.Action, ctx *execctx.ExecutionContext) Result) *HandlerFunc {
	return &HandlerFunc{fn: fn}
}

// NewCommandHandler creates a handler running cmd.
func NewCommandHandler(cmd Command) *HandlerFunc {
	return NewHandlerFunc(func(action input.Action, ctx *execctx.ExecutionContext) Result {
		return Run(cmd, action, ctx)
	})
}

// Handle implements Handler.Handle.
func (f *HandlerFunc) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	if f.fn == nil {
		return Errorf("handler function is nil")
	}
	return f.fn(action, ctx)
}

// CanHandle implements Handler.CanHandle.
// HandlerFunc always returns true; caller must ensure correct routing.
func (f *HandlerFunc) CanHandle(string) bool {
	return true
}

// NamespaceHandler handles all actions within a namespace.
// A namespace is the prefix before the first dot (e.g., "cursor" in "cursor.moveLineBelow").
type NamespaceHandler interface {
	// HandleAction handles an action within this namespace.
	HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result

	// CanHandle returns true if this handler can process the action.
	CanHandle(actionName string) bool

	// Namespace returns the namespace prefix (e.g., "cursor", "edit").
	Namespace() string
}

// namespaceAdapter adapts NamespaceHandler to Handler interface.
type namespaceAdapter struct {
	h NamespaceHandler
}

// NewNamespaceAdapter creates a Handler from a NamespaceHandler.
func NewNamespaceAdapter(h NamespaceHandler) Handler {
	return &namespaceAdapter{h: h}
}

func (a *namespaceAdapter) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	return a.h.HandleAction(action, ctx)
}

func (a *namespaceAdapter) CanHandle(actionName string) bool {
	return a.h.CanHandle(actionName)
}

// BaseNamespaceHandler provides a base implementation for namespace handlers.
type BaseNamespaceHandler struct {
	namespace string
	actions   map[string]func(action input.Action, ctx *execctx.ExecutionContext) Result
}

// NewBaseNamespaceHandler creates a new BaseNamespaceHandler.
func NewBaseNamespaceHandler(namespace string) *BaseNamespaceHandler {
	return &BaseNamespaceHandler{
		namespace: namespace,
		actions:   make(map[string]func(action input.Action, ctx *execctx.ExecutionContext) Result),
	}
}

// Register registers a handler function for an action name.
func (h *BaseNamespaceHandler) Register(actionName string, fn func(action input.Action, ctx *execctx.ExecutionContext) Result) {
	h.actions[actionName] = fn
}

// RegisterCommand registers a command for an action name.
func (h *BaseNamespaceHandler) RegisterCommand(actionName string, cmd Command) {
	h.actions[actionName] = func(action input.Action, ctx *execctx.ExecutionContext) Result {
		return Run(cmd, action, ctx)
	}
}

// Namespace implements NamespaceHandler.Namespace.
func (h *BaseNamespaceHandler) Namespace() string {
	return h.namespace
}

// CanHandle implements NamespaceHandler.CanHandle.
func (h *BaseNamespaceHandler) CanHandle(actionName string) bool {
	_, ok := h.actions[actionName]
	return ok
}

// Actions returns the registered action names.
func (h *BaseNamespaceHandler) Actions() []string {
	names := make([]string, 0, len(h.actions))
	for name := range h.actions {
		names = append(names, name)
	}
	return names
}

// HandleAction implements NamespaceHandler.HandleAction.
func (h *BaseNamespaceHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result {
	fn, ok := h.actions[action.Name]
	if !ok {
		return Errorf("unknown action in namespace %s: %s", h.namespace, action.Name)
	}
	return fn(action, ctx)
}
