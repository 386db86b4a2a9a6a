// Package loader reads configuration sources into generic maps.
//
// Each source yields a map[string]any keyed by section. Sources are layered
// with DeepMerge, later sources overriding earlier ones, and the merged map
// is decoded into a typed configuration by the caller.
package loader

import (
	"io/fs"
	"os"
)

// Loader is the interface for configuration sources.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist.
	Load() (map[string]any, error)
}

// FileSystem is the file access a loader needs. Tests substitute
// fstest.MapFS through ReadFileFS.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadFileFS adapts an fs.FS to FileSystem.
type ReadFileFS struct {
	FS fs.FS
}

// ReadFile reads the entire file at path.
func (r ReadFileFS) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(r.FS, path)
}

// Chain loads each source in order and merges the results, later sources
// taking precedence. Sources that return nil are skipped.
func Chain(loaders ...Loader) (map[string]any, error) {
	out := make(map[string]any)
	for _, l := range loaders {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		out = DeepMerge(out, m)
	}
	return out, nil
}
