// Package view is the terminal front end.
//
// A View draws an engine's layout on a Backend one layout line per row,
// highlights the selection, places the terminal cursor at the head and
// keeps a status line on the last row. Key presses are looked up in the
// keymap and dispatched; unbound printable characters are inserted;
// primary clicks dispatch cursor.moveToPoint at the clicked cell.
//
// Terminal wraps a tcell screen. NullBackend keeps cells in memory for
// tests. Dump prints the layout as text for non-interactive use.
package view
