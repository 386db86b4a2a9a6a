// Package history provides undo/redo for applied document transformations.
//
// Every entry records a document transformation, the inverse captured when
// it was applied, and the cursor before and after. Undo applies the
// inverse; redo applies the forward transformation again.
//
// # History Stack
//
//	h := history.New(1000) // Max 1000 undo entries
//
//	h.Push(entry)
//
//	// Undo/redo run a caller-supplied apply function; the entry only
//	// changes stacks if it succeeds.
//	h.Undo(func(e *history.Entry) error { ... })
//	h.Redo(func(e *history.Entry) error { ... })
//
// # Grouping
//
// Entries pushed between BeginGroup and EndGroup are merged into one undo
// unit:
//
//	h.BeginGroup("Repeat")
//	// ... several applied transformations ...
//	h.EndGroup()
//
// Transaction does the same around a function. Nested calls join the
// outermost group:
//
//	err := h.Transaction("Repeat", func() error { ... })
//
// History is owned by the engine and is not safe for concurrent use.
package history
