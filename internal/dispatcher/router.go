package dispatcher

import (
	"slices"
	"strings"
	"sync"

	"github.com/dshills/loom/internal/dispatcher/handler"
)

// Router resolves actions of the form "namespace.command" to the handler
// registered for the namespace.
type Router struct {
	mu         sync.RWMutex
	namespaces map[string]handler.NamespaceHandler
	fallback   handler.Handler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{namespaces: make(map[string]handler.NamespaceHandler)}
}

// RegisterNamespace routes every action in h's namespace to h, replacing
// any previous handler for that namespace.
func (r *Router) RegisterNamespace(h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[h.Namespace()] = h
}

// UnregisterNamespace removes the handler for namespace.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// SetFallback sets the handler used when no namespace matches.
func (r *Router) SetFallback(h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Route returns the handler for name, or nil.
func (r *Router) Route(name string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ns, _ := SplitActionName(name); ns != "" {
		if h, ok := r.namespaces[ns]; ok && h.CanHandle(name) {
			return handler.NewNamespaceAdapter(h)
		}
	}
	return r.fallback
}

// Namespaces returns the registered namespaces, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SplitActionName splits "cursor.moveLineBelow" into "cursor" and
// "moveLineBelow". Names without a dot have an empty namespace.
func SplitActionName(name string) (namespace, command string) {
	ns, cmd, ok := strings.Cut(name, ".")
	if !ok {
		return "", name
	}
	return ns, cmd
}
