// Package config provides the editor configuration.
//
// Configuration is layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment (LOOM_*)    │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. TOML file               │  ← loom.toml
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Each source is read into a generic map by the loader sub-package and
// merged with loader.DeepMerge; the merged map is decoded over Default
// with go-toml, rejecting unknown settings, and then validated.
//
// # Sub-packages
//
//   - loader: TOML file and environment variable sources, map merging
//   - watcher: fsnotify-based file watching with debounce
//
// # File format
//
//	[layout]
//	measurer = "cell"      # or "font"
//	pageWidth = 80
//	padding = 1
//
//	[text]
//	fontSize = 14
//
//	[history]
//	maxEntries = 500
//
//	[journal]
//	path = "loom.journal"
//
//	[script]
//	dir = "scripts"
//	timeout = "500ms"
//
//	[keymap]
//	"Ctrl+S" = "script.save"
//	"Tab" = ""              # unbind
//
// # Live reload
//
//	m, err := config.NewManager("loom.toml")
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	m.Subscribe(func(cfg config.Config) {
//	    // reconfigure components
//	})
//	if err := m.Watch(100 * time.Millisecond); err != nil {
//	    return err
//	}
//
// A reload that fails to parse or validate keeps the previous
// configuration.
package config
