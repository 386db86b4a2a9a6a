package lua

import "errors"

// Errors for Lua script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua: state is closed")

	// ErrNoRun is returned when a script does not define a run function.
	ErrNoRun = errors.New("lua: script defines no run function")

	// ErrExecutionTimeout is returned when a script runs past its timeout.
	ErrExecutionTimeout = errors.New("lua: execution timeout")
)
