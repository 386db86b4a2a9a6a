package layout

import (
	"errors"
	"fmt"
)

// Errors returned by tree construction and resolution.
var (
	// ErrInvalidOffset indicates a flat offset outside [0, size).
	ErrInvalidOffset = errors.New("layout: invalid offset")

	// ErrUnexpectedKind indicates a box of a different kind than the caller required.
	ErrUnexpectedKind = errors.New("layout: unexpected box kind")

	// ErrEmptyTree indicates a tree with no root or a root spanning no offsets.
	ErrEmptyTree = errors.New("layout: empty tree")

	// ErrInconsistentTree indicates a violated size or nesting invariant.
	ErrInconsistentTree = errors.New("layout: inconsistent tree")
)

// OffsetError reports an offset that fell outside a box's span.
type OffsetError struct {
	Offset int
	Size   int
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("layout: invalid offset %d (size %d)", e.Offset, e.Size)
}

// Is reports ErrInvalidOffset so callers can use errors.Is.
func (e *OffsetError) Is(target error) bool {
	return target == ErrInvalidOffset
}

// KindError reports a box that was not of the required kind.
type KindError struct {
	Want Kind
	Got  Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("layout: expected %s box, got %s", e.Want, e.Got)
}

// Is reports ErrUnexpectedKind so callers can use errors.Is.
func (e *KindError) Is(target error) bool {
	return target == ErrUnexpectedKind
}
