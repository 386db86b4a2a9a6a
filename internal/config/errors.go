package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidConfig indicates a setting has an unusable value.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnknownSetting indicates a source named a setting that does not
	// exist.
	ErrUnknownSetting = errors.New("config: unknown setting")

	// ErrClosed indicates use of a closed Manager.
	ErrClosed = errors.New("config: manager closed")
)

// ValidationError describes one invalid setting.
type ValidationError struct {
	// Path is the dotted setting path, such as "layout.padding".
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Message)
}

// Unwrap makes every ValidationError match ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}
