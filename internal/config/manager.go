package config

import (
	"sync"
	"time"

	"github.com/dshills/loom/internal/config/loader"
	"github.com/dshills/loom/internal/config/watcher"
)

// Manager holds the current configuration, reloads it when the file
// changes and notifies subscribers. It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	path    string
	sources func() []loader.Loader
	current Config

	subs   map[int]func(Config)
	nextID int

	onError func(error)
	watch   *watcher.Watcher
	closed  bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSources replaces the sources read on every load. The default is the
// TOML file at the manager's path followed by LOOM_ environment variables.
func WithSources(fn func() []loader.Loader) ManagerOption {
	return func(m *Manager) {
		m.sources = fn
	}
}

// WithReloadErrorHandler sets a callback for failed reloads and watcher
// errors. The previous configuration stays active after a failed reload.
func WithReloadErrorHandler(fn func(error)) ManagerOption {
	return func(m *Manager) {
		m.onError = fn
	}
}

// NewManager loads the configuration at path. An empty or missing path
// yields the defaults plus environment overrides.
func NewManager(path string, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		path: path,
		subs: make(map[int]func(Config)),
	}
	m.sources = func() []loader.Loader {
		return []loader.Loader{
			loader.NewTOMLLoader(m.path),
			loader.NewEnvLoader(loader.DefaultEnvPrefix),
		}
	}
	for _, opt := range opts {
		opt(m)
	}

	cfg, err := LoadFrom(m.sources()...)
	if err != nil {
		return nil, err
	}
	m.current = cfg
	return m, nil
}

// Path returns the configuration file path.
func (m *Manager) Path() string {
	return m.path
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Subscribe registers fn to run after every successful reload and returns
// a function that removes it.
func (m *Manager) Subscribe(fn func(Config)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Reload reads every source again. On error the current configuration is
// kept and subscribers are not called.
func (m *Manager) Reload() error {
	cfg, err := LoadFrom(m.sources()...)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.current = cfg
	subs := make([]func(Config), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(cfg.Clone())
	}
	return nil
}

// Watch reloads the configuration whenever the file changes. Bursts of
// changes within debounce are coalesced into one reload.
func (m *Manager) Watch(debounce time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.watch != nil || m.path == "" {
		return nil
	}

	w, err := watcher.New(watcher.WithDebounce(debounce), watcher.WithErrorHandler(m.reportError))
	if err != nil {
		return err
	}
	if err := w.Watch(m.path); err != nil {
		w.Close()
		return err
	}
	w.OnChange(func(watcher.Event) {
		if err := m.Reload(); err != nil {
			m.reportError(err)
		}
	})
	m.watch = w
	return nil
}

func (m *Manager) reportError(err error) {
	if m.onError != nil {
		m.onError(err)
	}
}

// Close stops watching. The last configuration remains readable.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	w := m.watch
	m.watch = nil
	m.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}
