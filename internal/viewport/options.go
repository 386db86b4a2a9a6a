package viewport

// Options controls geometry derived from a layout tree.
type Options struct {
	// Padding is the inset of lines from the page edges.
	Padding float64

	// PageGap is the vertical space between consecutive pages.
	PageGap float64

	// TailCompat selects the legacy word hit test: distance ties resolve
	// toward the smaller offset and the last unit is only chosen when x
	// lands exactly on its left edge.
	TailCompat bool
}

// Option configures a Mapper during creation.
type Option func(*Options)

// WithPadding sets the page padding.
func WithPadding(p float64) Option {
	return func(o *Options) {
		if p >= 0 {
			o.Padding = p
		}
	}
}

// WithPageGap sets the vertical gap between pages.
func WithPageGap(g float64) Option {
	return func(o *Options) {
		if g >= 0 {
			o.PageGap = g
		}
	}
}

// WithTailCompat enables the legacy word hit test.
func WithTailCompat(on bool) Option {
	return func(o *Options) {
		o.TailCompat = on
	}
}
