// Package layout provides the layout box tree and the position resolver.
//
// The tree has four levels, outer to inner:
//
//	document -> page -> line -> word
//
// Every box owns a contiguous span of the document's flat selectable-offset
// space. Children are ordered and that order is the offset order: the first
// child owns [0, c0.size), the second [c0.size, c0.size+c1.size), and so on.
// A parent's size is always the sum of its children's sizes.
//
// # Ownership
//
// A Tree is an arena that owns every node. Boxes are value handles into the
// arena; parent and sibling relations are resolved by lookup through the
// parent's child list rather than stored as pointers.
//
// # Resolution
//
// ResolvePosition is the single entry point for offset queries:
//
//	pos, err := tree.ResolvePosition(42)
//	line, err := pos.Line()        // Level{Box, Offset}
//	lb, err := line.Box().AsLine() // line-level capability
//	next, ok := lb.Next()
//
// Offsets outside [0, size) fail with ErrInvalidOffset; they are never clamped.
//
// # Concurrency
//
// A Tree is immutable once built. Rebuilding produces a new Tree; callers
// must not rebuild while a resolution against the old tree is in flight.
package layout
