// Package input turns user input into named editor actions.
//
// An Action names a command (for example "cursor.moveLineBelow") and carries
// its arguments: inserted text, a viewport point for mouse commands, and a
// repeat count. Actions are produced by the keymap for key presses, by the
// terminal view for clicks, by scripts and by journal replay, and consumed
// by the dispatcher.
//
// # Keymaps
//
// The keymap subpackage maps key chords such as "Ctrl+Z" or "Shift+Down" to
// action names. A default keymap covers every built-in command and can be
// overridden from configuration:
//
//	km := keymap.Default()
//	if err := km.Merge(map[string]string{"Ctrl+R": "history.redo"}); err != nil {
//	    return err
//	}
//	if b, ok := km.Lookup(chord); ok {
//	    dispatcher.Dispatch(b.Action())
//	}
package input
