// Package transform provides transformations: ordered lists of operations
// built without side effects and applied later by a transformer.
//
// There are two kinds. A CursorTransformation moves the cursor or changes
// its left anchor; a DocumentTransformation edits content. Commands build
// them speculatively from read-only state:
//
//	t := transform.NewCursor(
//		transform.SetLeftAnchor{X: 84},
//		transform.MoveTo{Offset: 17},
//	)
//
// and the engine applies them one at a time through a transformer. A
// transformer applies every operation to a snapshot; if any operation
// fails nothing is kept and the original state is returned with the error.
//
// Transformations are immutable. With returns an extended copy.
package transform
