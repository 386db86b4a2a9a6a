// Package cursor provides the cursor movement commands.
//
// Every command is a handler.Command: it reads the cursor and the layout
// through an execctx.EngineReader and returns a cursor transformation for
// the dispatcher to apply. A command with no cursor to move returns empty
// transformations.
//
// # Vertical movement
//
//   - cursor.moveLineBelow, cursor.moveLineAbove: collapse onto the next or
//     previous line
//   - cursor.selectLineBelow, cursor.selectLineAbove: move the head only
//
// The target column is the cursor's left anchor, an x coordinate kept
// across consecutive vertical moves. When the cursor has none it is taken
// from the caret's rectangle on the current line. Vertical moves always
// set the left anchor so it survives the move. On the first or last line
// the cursor moves to that line's boundary and the left anchor is left
// alone.
//
// # Horizontal movement
//
//   - cursor.moveLeft, cursor.moveRight
//   - cursor.moveLineStart, cursor.moveLineEnd
//   - cursor.moveDocStart, cursor.moveDocEnd
//   - cursor.selectAll
//   - cursor.moveToPoint: hit-test the action's point
//
// These clear the left anchor.
package cursor
