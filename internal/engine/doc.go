// Package engine provides the state container for the layout and cursor
// core.
//
// An Engine owns the content document, the layout tree built from it, the
// viewport mapper over that tree, an optional cursor, and undo history.
// Transformations are the only way to change that state:
//
//	e, err := engine.New(engine.WithText("abcd\nxy"))
//	e.AttachCursor(cursor.Collapsed(4))
//
//	err = e.ApplyCursor(transform.NewCursor(transform.MoveTo{Offset: 7}))
//	err = e.ApplyDocument(transform.NewDocument(transform.Insert{At: 0, Text: "Z"}))
//
// Apply takes the document and cursor transformations a command produced
// and commits them together: the document is edited and laid out again,
// the cursor is carried through the edits, and then the cursor
// transformation runs against the new size. If any step fails nothing
// changes.
//
// # Events
//
// When a bus is attached, the engine publishes after every commit:
//
//	engine.transformation.applied  TransformationApplied
//	engine.document.changed        DocumentChanged
//	engine.layout.rebuilt          LayoutRebuilt
//	engine.cursor.changed          CursorChanged
//	engine.history.undone          HistoryChanged
//	engine.history.redone          HistoryChanged
//
// # Concurrency
//
// Engine methods are safe for concurrent use and commits are applied one
// at a time in submission order. Boxes and positions belong to the tree
// they came from; after a commit, geometry queries need boxes from the new
// Tree.
package engine
