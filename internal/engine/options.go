package engine

import (
	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/event"
	"github.com/dshills/loom/internal/layout/flow"
	"github.com/dshills/loom/internal/measure"
	"github.com/dshills/loom/internal/viewport"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = 1000
	DefaultSource         = "engine"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithText sets the initial content of the engine.
func WithText(text string) Option {
	return func(e *Engine) {
		e.initText = text
	}
}

// WithStyle sets the document's base style.
func WithStyle(style content.Style) Option {
	return func(e *Engine) {
		e.style = style
	}
}

// WithMeasurer sets the text measurer used for layout and geometry.
func WithMeasurer(m measure.Measurer) Option {
	return func(e *Engine) {
		if m != nil {
			e.measurer = m
		}
	}
}

// WithFlow sets page geometry for layout.
func WithFlow(opts flow.Options) Option {
	return func(e *Engine) {
		e.flowOpts = opts
	}
}

// WithViewport sets viewport mapping options.
func WithViewport(opts viewport.Options) Option {
	return func(e *Engine) {
		e.viewOpts = opts
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithBus attaches an event bus.
func WithBus(bus *event.Bus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithSource sets the source name stamped on published events.
func WithSource(source string) Option {
	return func(e *Engine) {
		if source != "" {
			e.source = source
		}
	}
}
