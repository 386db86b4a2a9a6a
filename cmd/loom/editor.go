package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/dispatcher"
	"github.com/dshills/loom/internal/dispatcher/handlers/cursor"
	"github.com/dshills/loom/internal/dispatcher/handlers/edit"
	"github.com/dshills/loom/internal/dispatcher/handlers/history"
	"github.com/dshills/loom/internal/engine"
	ecursor "github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/event"
	"github.com/dshills/loom/internal/input/keymap"
	"github.com/dshills/loom/internal/journal"
	"github.com/dshills/loom/internal/measure"
	"github.com/dshills/loom/internal/plugin/lua"
	"github.com/dshills/loom/internal/view"
)

// editor owns the engine and everything wired around it.
type editor struct {
	cfg      config.Config
	width    int
	measurer measure.Measurer
	engine   *engine.Engine
	bus      *event.Bus
	disp     *dispatcher.Dispatcher
	scripts  *lua.Handler

	closers []func() error
}

func newEditor(cfg config.Config, opts options) (_ *editor, err error) {
	ed := &editor{cfg: cfg}
	defer func() {
		if err != nil {
			ed.Close()
		}
	}()

	m, closeMeasurer, err := cfg.Layout.NewMeasurer()
	if err != nil {
		return nil, fmt.Errorf("measurer: %w", err)
	}
	ed.measurer = m
	ed.closers = append(ed.closers, closeMeasurer)

	text := ""
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		text = string(data)
	}

	ed.bus = event.NewBus()
	engineOpts := append(cfg.EngineOptions(m), engine.WithText(text), engine.WithBus(ed.bus))
	if ed.engine, err = engine.New(engineOpts...); err != nil {
		return nil, err
	}
	if err := ed.engine.AttachCursor(ecursor.Collapsed(0)); err != nil {
		return nil, err
	}

	if cfg.Journal.Path != "" {
		f, err := os.OpenFile(cfg.Journal.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		ed.closers = append(ed.closers, f.Close)
		if _, err := journal.NewWriter(f).Subscribe(ed.bus); err != nil {
			return nil, err
		}
	}

	dcfg := dispatcher.DefaultConfig().WithPanicRecovery(!opts.debug)
	if opts.tracePath != "" {
		dcfg = dcfg.WithMetrics()
	}
	ed.disp = dispatcher.New(dcfg)
	ed.disp.SetEngine(ed.engine)
	ed.disp.RegisterNamespace(cursor.NewHandler())
	ed.disp.RegisterNamespace(edit.NewHandler())
	ed.disp.RegisterNamespace(history.NewHandler())

	if opts.tracePath != "" {
		f, err := os.OpenFile(opts.tracePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		ed.closers = append(ed.closers, f.Close)
		ed.trace(f)
		ed.closers = append(ed.closers, func() error { return ed.summarize(f) })
	}

	if cfg.Script.Dir != "" {
		scripts, err := lua.LoadDir(cfg.Script.Dir, lua.WithExecutionTimeout(cfg.Script.ExecutionTimeout()))
		if err != nil {
			return nil, err
		}
		ed.scripts = lua.NewHandler(scripts)
		ed.closers = append(ed.closers, ed.scripts.Close)
		ed.disp.RegisterNamespace(ed.scripts)
	}

	return ed, nil
}

func (ed *editor) trace(w io.Writer) {
	var mu sync.Mutex
	hook := dispatcher.NewLoggingHook(func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "%s %s\n", time.Now().Format(time.RFC3339Nano), fmt.Sprintf(format, args...))
	})
	ed.disp.RegisterPreHook(hook)
	ed.disp.RegisterPostHook(hook)
}

// summarize writes the most dispatched actions to w.
func (ed *editor) summarize(w io.Writer) error {
	m := ed.disp.Metrics()
	if m == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%d dispatches, %d errors, %d panics\n", m.TotalDispatches(), m.TotalErrors(), m.TotalPanics()); err != nil {
		return err
	}
	for _, cm := range m.Top(10) {
		if _, err := fmt.Fprintf(w, "  %-24s %6d  avg %v\n", cm.Name, cm.DispatchCount, cm.AverageDuration()); err != nil {
			return err
		}
	}
	return nil
}

// attach builds a view on b that follows terminal resizes and
// configuration reloads. Both are applied on the view's goroutine.
func (ed *editor) attach(b view.Backend, manager *config.Manager) (*view.View, error) {
	km, err := ed.cfg.BuildKeymap()
	if err != nil {
		return nil, err
	}
	v := view.New(b, ed.engine, ed.disp, km)

	width, _ := b.Size()
	if err := ed.resize(width); err != nil {
		return nil, err
	}
	v.OnResize(func(w, _ int) {
		if err := ed.resize(w); err != nil {
			v.SetStatus("resize: %v", err)
		}
	})

	manager.Subscribe(func(cfg config.Config) {
		v.Queue(func() {
			km, err := ed.reload(cfg)
			if err != nil {
				v.SetStatus("config: %v", err)
				return
			}
			v.SetKeymap(km)
			v.SetStatus("configuration reloaded")
		})
	})
	return v, nil
}

func (ed *editor) resize(width int) error {
	ed.width = width
	return ed.fit(ed.cfg)
}

// reload applies a reloaded configuration. The measurer and journal are
// fixed for the session.
func (ed *editor) reload(cfg config.Config) (*keymap.Keymap, error) {
	km, err := cfg.BuildKeymap()
	if err != nil {
		return nil, err
	}

	cfg.Layout.Measurer = ed.cfg.Layout.Measurer
	cfg.Journal = ed.cfg.Journal
	if err := ed.fit(cfg); err != nil {
		return nil, err
	}
	ed.cfg = cfg
	return km, nil
}

// fit lays the document out for cfg, wrapping at the terminal width when
// no page width is configured.
func (ed *editor) fit(cfg config.Config) error {
	if cfg.Layout.PageWidth == 0 && ed.width > 0 {
		cfg.Layout.PageWidth = float64(ed.width)
		cfg.Layout.Padding = 0
	}
	return ed.engine.Reconfigure(cfg.EngineOptions(ed.measurer)...)
}

// Close releases files, scripts and font faces in reverse order.
func (ed *editor) Close() error {
	var errs []error
	for i := len(ed.closers) - 1; i >= 0; i-- {
		errs = append(errs, ed.closers[i]())
	}
	ed.closers = nil
	return errors.Join(errs...)
}
