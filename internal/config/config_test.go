package config

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dshills/loom/internal/config/loader"
	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/input/keymap"
	"github.com/dshills/loom/internal/measure"
)

func sources(file string, env ...string) []loader.Loader {
	fsys := loader.ReadFileFS{FS: fstest.MapFS{"loom.toml": {Data: []byte(file)}}}
	return []loader.Loader{
		loader.NewTOMLLoaderWithFS(fsys, "loom.toml"),
		loader.NewEnvLoader("LOOM_").WithEnviron(func() []string { return env }),
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	file := `
[layout]
pageWidth = 600
padding = 10

[text]
fontSize = 12

[script]
dir = "scripts"
timeout = "500ms"

[keymap]
"Ctrl+R" = "history.redo"
`
	cfg, err := LoadFrom(sources(file, "LOOM_LAYOUT_PADDING=4", "LOOM_HISTORY_MAX_ENTRIES=50")...)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Layout.PageWidth != 600 {
		t.Errorf("PageWidth = %g, want 600", cfg.Layout.PageWidth)
	}
	if cfg.Layout.Padding != 4 {
		t.Errorf("Padding = %g, want env override 4", cfg.Layout.Padding)
	}
	if cfg.Layout.Measurer != MeasurerCell {
		t.Errorf("Measurer = %q, want default %q", cfg.Layout.Measurer, MeasurerCell)
	}
	if cfg.Text.FontSize != 12 {
		t.Errorf("FontSize = %g, want 12", cfg.Text.FontSize)
	}
	if cfg.Text.FontFamily != Default().Text.FontFamily {
		t.Errorf("FontFamily = %q, want default kept", cfg.Text.FontFamily)
	}
	if cfg.History.MaxEntries != 50 {
		t.Errorf("MaxEntries = %d, want 50", cfg.History.MaxEntries)
	}
	if cfg.Script.Dir != "scripts" || cfg.Script.ExecutionTimeout() != 500*time.Millisecond {
		t.Errorf("Script = %+v, want dir scripts timeout 500ms", cfg.Script)
	}
	if cfg.Keymap["Ctrl+R"] != "history.redo" {
		t.Errorf("Keymap = %v", cfg.Keymap)
	}
}

func TestLoadFromEmpty(t *testing.T) {
	cfg, err := LoadFrom(sources("")...)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	want := Default()
	if cfg.Layout != want.Layout || cfg.Text != want.Text || cfg.Script != want.Script {
		t.Errorf("empty sources = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  []string
		is   error
	}{
		{"unknown key", "[layout]\nbogus = 1\n", nil, ErrUnknownSetting},
		{"unknown section via env", "", []string{"LOOM_EXTRA_THING=1"}, ErrUnknownSetting},
		{"invalid value", "[history]\nmaxEntries = 0\n", nil, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(sources(tt.file, tt.env...)...)
			if !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}

	_, err := LoadFrom(sources("[layout]\nbogus = 1\n")...)
	if err == nil || !strings.Contains(err.Error(), "layout.bogus") {
		t.Errorf("unknown key error %v does not name layout.bogus", err)
	}

	_, err = LoadFrom(sources("[layout\n")...)
	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("syntax error = %v, want *loader.ParseError", err)
	}

	_, err = LoadFrom(sources("[script]\ntimeout = \"soon\"\n")...)
	if err == nil {
		t.Error("bad duration accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"measurer", func(c *Config) { c.Layout.Measurer = "pixels" }, "layout.measurer"},
		{"negative width", func(c *Config) { c.Layout.PageWidth = -1 }, "layout.pageWidth"},
		{"negative height", func(c *Config) { c.Layout.PageHeight = -1 }, "layout.pageHeight"},
		{"padding too wide", func(c *Config) { c.Layout.PageWidth, c.Layout.Padding = 10, 5 }, "layout.padding"},
		{"padding too tall", func(c *Config) { c.Layout.PageHeight, c.Layout.Padding = 8, 4 }, "layout.padding"},
		{"negative gap", func(c *Config) { c.Layout.PageGap = -2 }, "layout.pageGap"},
		{"cache", func(c *Config) { c.Layout.CacheSize = -1 }, "layout.cacheSize"},
		{"font size", func(c *Config) { c.Text.FontSize = 0 }, "text.fontSize"},
		{"line height", func(c *Config) { c.Text.LineHeight = -1 }, "text.lineHeight"},
		{"weight", func(c *Config) { c.Text.FontWeight = 0 }, "text.fontWeight"},
		{"history", func(c *Config) { c.History.MaxEntries = -5 }, "history.maxEntries"},
		{"timeout", func(c *Config) { c.Script.Timeout = Duration(-time.Second) }, "script.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("Validate() = %v, want a ValidationError for %s", err, tt.path)
			}
		})
	}

	cfg := Default()
	cfg.Text.FontSize = 0
	cfg.History.MaxEntries = 0
	if got := strings.Count(cfg.Validate().Error(), "\n") + 1; got != 2 {
		t.Errorf("Validate reported %d problems, want 2", got)
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	cfg.Keymap["Ctrl+R"] = "history.redo"

	c := cfg.Clone()
	c.Keymap["Ctrl+R"] = "changed"
	if cfg.Keymap["Ctrl+R"] != "history.redo" {
		t.Error("Clone shares the keymap")
	}

	cfg.Keymap = nil
	if cfg.Clone().Keymap == nil {
		t.Error("Clone of a nil keymap is nil")
	}
}

func TestBuildKeymap(t *testing.T) {
	cfg := Default()
	cfg.Keymap = map[string]string{"Ctrl+R": "history.redo", "Tab": ""}

	km, err := cfg.BuildKeymap()
	if err != nil {
		t.Fatalf("BuildKeymap: %v", err)
	}
	if b, ok := km.Lookup(keymap.MustParse("Ctrl+R")); !ok || b.Command != "history.redo" {
		t.Errorf("Ctrl+R = %+v, %v", b, ok)
	}
	if _, ok := km.Lookup(keymap.MustParse("Tab")); ok {
		t.Error("Tab still bound")
	}
	if _, ok := km.Lookup(keymap.MustParse("Ctrl+Z")); !ok {
		t.Error("default Ctrl+Z binding lost")
	}

	cfg.Keymap = map[string]string{"Hyper+Q": "x"}
	if _, err := cfg.BuildKeymap(); err == nil {
		t.Error("invalid chord accepted")
	}
}

func TestNewMeasurer(t *testing.T) {
	lc := Default().Layout

	m, closeFn, err := lc.NewMeasurer()
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	if _, ok := m.(*measure.Cache); !ok {
		t.Errorf("measurer = %T, want *measure.Cache", m)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}

	lc.CacheSize = 0
	m, _, _ = lc.NewMeasurer()
	if _, ok := m.(measure.Cell); !ok {
		t.Errorf("uncached measurer = %T, want measure.Cell", m)
	}

	lc.Measurer = MeasurerFont
	m, closeFn, err = lc.NewMeasurer()
	if err != nil {
		t.Fatalf("font NewMeasurer: %v", err)
	}
	if _, ok := m.(*measure.Font); !ok {
		t.Errorf("font measurer = %T, want *measure.Font", m)
	}
	if err := closeFn(); err != nil {
		t.Errorf("font close: %v", err)
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.Layout.PageWidth = 10

	m, _, err := cfg.Layout.NewMeasurer()
	if err != nil {
		t.Fatal(err)
	}
	e, err := engine.New(append(cfg.EngineOptions(m), engine.WithText("aaa bbb ccc"))...)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	if got := e.LayoutStats().Lines; got != 2 {
		t.Errorf("lines at width 10 = %d, want 2", got)
	}

	cfg.Layout.PageWidth = 0
	if err := e.Reconfigure(cfg.EngineOptions(m)...); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if got := e.LayoutStats().Lines; got != 1 {
		t.Errorf("lines without wrapping = %d, want 1", got)
	}
}
