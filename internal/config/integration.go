package config

import (
	"time"

	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/input/keymap"
	"github.com/dshills/loom/internal/layout/flow"
	"github.com/dshills/loom/internal/measure"
	"github.com/dshills/loom/internal/viewport"
)

// NewMeasurer builds the configured measurer, wrapped in a cache when
// CacheSize is positive. The returned close function releases font faces
// and is never nil.
func (c LayoutConfig) NewMeasurer() (measure.Measurer, func() error, error) {
	var (
		m       measure.Measurer
		closeFn = func() error { return nil }
	)
	switch c.Measurer {
	case MeasurerFont:
		f, err := measure.NewFont()
		if err != nil {
			return nil, nil, err
		}
		m, closeFn = f, f.Close
	default:
		m = measure.Cell{}
	}
	if c.CacheSize > 0 {
		m = measure.NewCache(m, c.CacheSize)
	}
	return m, closeFn, nil
}

// Flow returns the page geometry for layout.
func (c LayoutConfig) Flow() flow.Options {
	return flow.Options{
		PageWidth:  c.PageWidth,
		PageHeight: c.PageHeight,
		Padding:    c.Padding,
	}
}

// Viewport returns the geometry options for the viewport mapper.
func (c LayoutConfig) Viewport() viewport.Options {
	return viewport.Options{
		Padding:    c.Padding,
		PageGap:    c.PageGap,
		TailCompat: c.TailCompat,
	}
}

// EngineOptions returns the engine options for c using measurer m. The
// same options serve engine.New and Engine.Reconfigure, except that
// WithMaxUndoEntries only takes effect at creation.
func (c Config) EngineOptions(m measure.Measurer) []engine.Option {
	return []engine.Option{
		engine.WithMeasurer(m),
		engine.WithStyle(c.Text.Style()),
		engine.WithFlow(c.Layout.Flow()),
		engine.WithViewport(c.Layout.Viewport()),
		engine.WithMaxUndoEntries(c.History.MaxEntries),
	}
}

// BuildKeymap returns the default keymap with the configured overrides applied.
func (c Config) BuildKeymap() (*keymap.Keymap, error) {
	km := keymap.Default()
	if err := km.Merge(c.Keymap); err != nil {
		return nil, err
	}
	return km, nil
}

// ExecutionTimeout returns the script timeout as a time.Duration.
func (c ScriptConfig) ExecutionTimeout() time.Duration {
	return time.Duration(c.Timeout)
}
