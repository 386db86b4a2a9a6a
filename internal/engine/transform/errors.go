package transform

import "errors"

// ErrUnknownOperation indicates an operation type the transformer does not handle.
var ErrUnknownOperation = errors.New("transform: unknown operation")
