package viewport

import "errors"

var (
	// ErrForeignBox indicates a box from a tree other than the mapper's.
	ErrForeignBox = errors.New("viewport: box belongs to a different tree")

	// ErrNoTree indicates a mapper with no tree attached.
	ErrNoTree = errors.New("viewport: no layout tree")
)
