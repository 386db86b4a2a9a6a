package keymap

// defaultBindings cover every built-in command.
var defaultBindings = []Binding{
	// Vertical movement
	{Keys: "Down", Command: "cursor.moveLineBelow", Description: "Move to the line below"},
	{Keys: "Up", Command: "cursor.moveLineAbove", Description: "Move to the line above"},
	{Keys: "Shift+Down", Command: "cursor.selectLineBelow", Description: "Extend selection to the line below"},
	{Keys: "Shift+Up", Command: "cursor.selectLineAbove", Description: "Extend selection to the line above"},

	// Horizontal movement
	{Keys: "Left", Command: "cursor.moveLeft", Description: "Move left"},
	{Keys: "Right", Command: "cursor.moveRight", Description: "Move right"},
	{Keys: "Home", Command: "cursor.moveLineStart", Description: "Move to line start"},
	{Keys: "End", Command: "cursor.moveLineEnd", Description: "Move to line end"},
	{Keys: "Ctrl+Home", Command: "cursor.moveDocStart", Description: "Move to document start"},
	{Keys: "Ctrl+End", Command: "cursor.moveDocEnd", Description: "Move to document end"},
	{Keys: "Ctrl+A", Command: "cursor.selectAll", Description: "Select all"},

	// Editing
	{Keys: "Backspace", Command: "edit.deleteBackward", Description: "Delete backward"},
	{Keys: "Delete", Command: "edit.deleteForward", Description: "Delete forward"},
	{Keys: "Enter", Command: "edit.insert", Text: "\n", Description: "Split paragraph"},
	{Keys: "Tab", Command: "edit.insert", Text: "\t", Description: "Insert tab"},

	// History
	{Keys: "Ctrl+Z", Command: "history.undo", Description: "Undo"},
	{Keys: "Ctrl+Y", Command: "history.redo", Description: "Redo"},
}

// Default returns the built-in keymap.
func Default() *Keymap {
	k := New("default")
	for _, b := range defaultBindings {
		if err := k.AddBinding(b); err != nil {
			panic("keymap: invalid default binding " + b.Keys + ": " + err.Error())
		}
	}
	return k
}
