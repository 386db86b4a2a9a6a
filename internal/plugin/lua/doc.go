// Package lua runs scripted commands written in Lua.
//
// Each script file defines a global function run. The file "indent.lua"
// becomes the action "script.indent"; run is called with the action's text
// argument and builds transformations through the loom table:
//
//	loom.cursor()               anchor, head; nil when no cursor
//	loom.size()                 selectable size of the document
//	loom.slice(from, to)        text of [from, to)
//	loom.line_start(offset)     first offset of the line holding offset
//	loom.line_end(offset)       last offset of that line
//	loom.move_to(offset)        collapse the cursor
//	loom.select_to(offset)      move the head only
//	loom.set_left_anchor(x)
//	loom.clear_left_anchor()
//	loom.insert(at, text)
//	loom.delete(from, to)
//	loom.replace(from, to, text)
//
// Scripts only read editor state; the operations they emit are returned to
// the dispatcher and applied as one commit. Only the base, table, string
// and math libraries are opened, and every run is bounded by a timeout.
package lua
