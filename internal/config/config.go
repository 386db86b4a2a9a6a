package config

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/loom/internal/config/loader"
	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/engine"
)

// Measurer names accepted by LayoutConfig.Measurer.
const (
	MeasurerCell = "cell"
	MeasurerFont = "font"
)

// Config is the complete editor configuration.
type Config struct {
	Layout  LayoutConfig      `toml:"layout"`
	Text    TextConfig        `toml:"text"`
	History HistoryConfig     `toml:"history"`
	Journal JournalConfig     `toml:"journal"`
	Script  ScriptConfig      `toml:"script"`
	Keymap  map[string]string `toml:"keymap"` // chord -> action; "" unbinds
}

// LayoutConfig controls page geometry and measurement.
type LayoutConfig struct {
	// Measurer selects text measurement: "cell" for terminal cells or
	// "font" for proportional Go fonts.
	Measurer string `toml:"measurer"`

	// PageWidth and PageHeight are the page size. Zero disables wrapping
	// or pagination respectively.
	PageWidth  float64 `toml:"pageWidth"`
	PageHeight float64 `toml:"pageHeight"`

	Padding    float64 `toml:"padding"`
	PageGap    float64 `toml:"pageGap"`
	TailCompat bool    `toml:"tailCompat"`

	// CacheSize is the number of cached measurements. Zero disables the
	// cache.
	CacheSize int `toml:"cacheSize"`
}

// TextConfig is the document's base style.
type TextConfig struct {
	FontFamily    string  `toml:"fontFamily"`
	FontSize      float64 `toml:"fontSize"`
	FontWeight    int     `toml:"fontWeight"`
	LineHeight    float64 `toml:"lineHeight"`
	LetterSpacing float64 `toml:"letterSpacing"`
}

// HistoryConfig controls undo history.
type HistoryConfig struct {
	MaxEntries int `toml:"maxEntries"`
}

// JournalConfig controls the transformation journal. An empty path
// disables journaling.
type JournalConfig struct {
	Path string `toml:"path"`
}

// ScriptConfig controls Lua script commands.
type ScriptConfig struct {
	// Dir holds *.lua scripts. Empty disables scripting.
	Dir     string   `toml:"dir"`
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string such as "1.5s".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty string is
// zero.
func (d *Duration) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	style := content.DefaultStyle()
	return Config{
		Layout: LayoutConfig{
			Measurer:  MeasurerCell,
			CacheSize: 4096,
		},
		Text: TextConfig{
			FontFamily:    style.FontFamily,
			FontSize:      style.FontSize,
			FontWeight:    style.FontWeight,
			LineHeight:    style.LineHeight,
			LetterSpacing: style.LetterSpacing,
		},
		History: HistoryConfig{MaxEntries: engine.DefaultMaxUndoEntries},
		Script:  ScriptConfig{Timeout: Duration(2 * time.Second)},
		Keymap:  map[string]string{},
	}
}

// Clone returns a copy that shares no maps with c.
func (c Config) Clone() Config {
	c.Keymap = maps.Clone(c.Keymap)
	if c.Keymap == nil {
		c.Keymap = map[string]string{}
	}
	return c
}

// Style returns the text settings as a content style.
func (c TextConfig) Style() content.Style {
	return content.Style{
		FontFamily:    c.FontFamily,
		FontSize:      c.FontSize,
		FontWeight:    c.FontWeight,
		LineHeight:    c.LineHeight,
		LetterSpacing: c.LetterSpacing,
	}
}

// Validate checks the configuration. All problems are reported; each one
// matches ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	bad := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	switch c.Layout.Measurer {
	case MeasurerCell, MeasurerFont:
	default:
		bad("layout.measurer", "unknown measurer %q", c.Layout.Measurer)
	}
	if c.Layout.PageWidth < 0 {
		bad("layout.pageWidth", "must not be negative")
	}
	if c.Layout.PageHeight < 0 {
		bad("layout.pageHeight", "must not be negative")
	}
	if c.Layout.Padding < 0 {
		bad("layout.padding", "must not be negative")
	}
	if c.Layout.PageGap < 0 {
		bad("layout.pageGap", "must not be negative")
	}
	if c.Layout.PageWidth > 0 && c.Layout.PageWidth <= 2*c.Layout.Padding {
		bad("layout.padding", "leaves no room on a page %g wide", c.Layout.PageWidth)
	}
	if c.Layout.PageHeight > 0 && c.Layout.PageHeight <= 2*c.Layout.Padding {
		bad("layout.padding", "leaves no room on a page %g tall", c.Layout.PageHeight)
	}
	if c.Layout.CacheSize < 0 {
		bad("layout.cacheSize", "must not be negative")
	}

	if c.Text.FontSize <= 0 {
		bad("text.fontSize", "must be positive")
	}
	if c.Text.LineHeight <= 0 {
		bad("text.lineHeight", "must be positive")
	}
	if c.Text.FontWeight < 1 || c.Text.FontWeight > 1000 {
		bad("text.fontWeight", "must be between 1 and 1000")
	}

	if c.History.MaxEntries <= 0 {
		bad("history.maxEntries", "must be positive")
	}
	if c.Script.Timeout < 0 {
		bad("script.timeout", "must not be negative")
	}

	return errors.Join(errs...)
}

// Load reads the TOML file at path (which may be empty or missing) and
// LOOM_ environment variables on top of Default, then validates the result.
func Load(path string) (Config, error) {
	return LoadFrom(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

// LoadFrom layers the given sources over Default, later sources taking
// precedence, and validates the result.
func LoadFrom(sources ...loader.Loader) (Config, error) {
	merged, err := loader.Chain(sources...)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Decode(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode applies a merged configuration map over Default. Unknown keys are
// an error.
func Decode(m map[string]any) (Config, error) {
	cfg := Default()
	if len(m) == 0 {
		return cfg, nil
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("config: encode: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var missing *toml.StrictMissingError
		if errors.As(err, &missing) {
			keys := make([]string, 0, len(missing.Errors))
			for _, e := range missing.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownSetting, strings.Join(keys, ", "))
		}
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}
