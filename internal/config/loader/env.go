package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment variables read by
// NewEnvLoader when none is given.
const DefaultEnvPrefix = "LOOM_"

// EnvLoader loads configuration from environment variables.
//
// LOOM_LAYOUT_PAGE_WIDTH=600 becomes layout.pageWidth = 600: the first
// segment after the prefix names the section and the rest is joined in
// camelCase.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // env var -> config path
	environ func() []string
}

// NewEnvLoader creates an environment variable loader. The prefix should
// include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &EnvLoader{
		prefix:  prefix,
		mapping: make(map[string]string),
		environ: os.Environ,
	}
}

// WithEnviron replaces the environment source, for tests.
func (l *EnvLoader) WithEnviron(fn func() []string) *EnvLoader {
	l.environ = fn
	return l
}

// AddMapping maps an environment variable to an explicit config path,
// bypassing the name conversion.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads prefixed environment variables into a configuration map.
// Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			if !strings.HasPrefix(name, l.prefix) {
				continue
			}
			path = l.envToPath(name)
			if path == "" {
				continue
			}
		}
		SetByPath(config, path, parseValue(value))
	}
	if len(config) == 0 {
		return nil, nil
	}
	return config, nil
}

// envToPath converts LOOM_HISTORY_MAX_ENTRIES to history.maxEntries.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(parts[1]))
	for _, part := range parts[2:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return strings.ToLower(parts[0]) + "." + b.String()
}

// parseValue converts an environment string to a bool, integer or float
// where it parses as one, and leaves it a string otherwise.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
