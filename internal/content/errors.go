package content

import "errors"

// Errors returned by document operations.
var (
	// ErrOffsetOutOfRange indicates an offset outside the document's unit range.
	ErrOffsetOutOfRange = errors.New("content: offset out of range")

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = errors.New("content: invalid range")

	// ErrFinalBreak indicates an edit that would remove the document's final paragraph break.
	ErrFinalBreak = errors.New("content: final paragraph break cannot be removed")
)
