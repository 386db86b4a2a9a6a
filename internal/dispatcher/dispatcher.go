package dispatcher

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/input"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router

	engine execctx.EngineInterface

	config  Config
	metrics *Metrics

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		config:   config,
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetEngine sets the engine actions run against.
func (d *Dispatcher) SetEngine(engine execctx.EngineInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine = engine
}

// Engine returns the engine.
func (d *Dispatcher) Engine() execctx.EngineInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine
}

// Dispatch executes an action synchronously. The transformations a handler
// returns are applied to the engine under the action's name. An action
// with a count above one repeats inside a single engine transaction, so
// its edits undo together.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	start := time.Now()

	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	ctx := d.buildContext(action)

	if !d.runPreHooks(&action, ctx) {
		result := handler.CancelledWithMessage("cancelled by hook")
		d.record(action.Name, start, result)
		return result
	}
	ctx.Action = action

	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}

	var result handler.Result
	if h == nil {
		result = handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	} else {
		result = d.run(h, action, ctx)
	}

	d.runPostHooks(&action, ctx, &result)
	d.record(action.Name, start, result)
	return result
}

func (d *Dispatcher) record(name string, start time.Time, result handler.Result) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(name, time.Since(start), result.Status)
	}
}

// run executes h Count times, stopping at the first step that does not
// succeed.
func (d *Dispatcher) run(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	count := ctx.GetCount()
	if count == 1 || ctx.Engine == nil {
		return d.step(h, action, ctx)
	}

	var last handler.Result
	applied := false
	err := ctx.Engine.Transaction(action.Name, func() error {
		for range count {
			last = d.step(h, action, ctx)
			if !last.IsOK() {
				return nil
			}
			applied = true
		}
		return nil
	})
	if err != nil {
		return handler.Error(err)
	}
	if applied && !last.IsError() {
		return handler.SuccessWithMessage(last.Message)
	}
	return last
}

// step executes h once and applies its transformations.
func (d *Dispatcher) step(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	result := d.execute(h, action, ctx)
	if !result.IsOK() || !result.HasTransformations() {
		return result
	}
	if ctx.Engine == nil {
		return handler.Error(execctx.ErrMissingEngine)
	}
	if err := ctx.Engine.Apply(action.Name, result.Document, result.Cursor); err != nil {
		return handler.Error(err)
	}
	return result
}

func (d *Dispatcher) execute(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	if !d.config.RecoverFromPanic {
		return h.Handle(action, ctx)
	}
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			result = handler.Error(fmt.Errorf("%w in %s: %v\n%s", ErrPanic, action.Name, r, stack[:n]))
			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()
	return h.Handle(action, ctx)
}

func (d *Dispatcher) buildContext(action input.Action) *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	count := action.Count
	if d.config.MaxRepeatCount > 0 {
		count = min(count, d.config.MaxRepeatCount)
	}
	return execctx.New().WithEngine(d.engine).WithCount(count)
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(name string, h handler.Handler) {
	d.registry.Register(name, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(name string, fn func(input.Action, *execctx.ExecutionContext) handler.Result) {
	d.registry.Register(name, handler.NewHandlerFunc(fn))
}

// RegisterCommand registers a command for an action name.
func (d *Dispatcher) RegisterCommand(name string, cmd handler.Command) {
	d.registry.Register(name, handler.NewCommandHandler(cmd))
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h)
}

// UnregisterHandler removes the handlers for an action name.
func (d *Dispatcher) UnregisterHandler(name string) {
	d.registry.Unregister(name)
}

// CanDispatch reports whether a handler exists for name.
func (d *Dispatcher) CanDispatch(name string) bool {
	return d.router.Route(name) != nil || d.registry.Has(name)
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := append([]PreDispatchHook(nil), d.preHooks...)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := append([]PostDispatchHook(nil), d.postHooks...)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector, or nil if disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// IsNoHandler reports whether result failed because nothing handles the
// action.
func IsNoHandler(result handler.Result) bool {
	return errors.Is(result.Error, ErrNoHandler)
}
