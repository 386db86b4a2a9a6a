// Package journal records applied transformations as JSON lines and replays
// them.
//
// Each line holds one commit:
//
//	{"id":"…","command":"edit.insert","time":"2006-01-02T15:04:05Z",
//	 "document":[{"op":"insert","at":3,"text":"ab"}],
//	 "cursor":[{"op":"setLeftAnchor","x":12.5},{"op":"moveTo","offset":5}]}
//
// Document operations are "insert" (at, text), "delete" (from, to) and
// "replace" (from, to, text).
// Cursor operations are "moveTo" and "moveHeadTo" (offset),
// "setLeftAnchor" (x) and "clearLeftAnchor".
//
// Undo and redo are journaled as the transformations they applied, so
// replaying a journal onto the document it was recorded against
// reproduces the final text and cursor.
package journal
