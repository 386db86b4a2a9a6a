package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEngine indicates the engine is required but not set.
	ErrMissingEngine = errors.New("execution context: engine is required")
)
