package transform

import (
	"fmt"
	"strconv"
)

// CursorOp is an operation on the cursor.
type CursorOp interface {
	cursorOp()
	String() string
}

// MoveTo collapses the cursor at Offset.
type MoveTo struct {
	Offset int
}

// MoveHeadTo moves the head to Offset, keeping the anchor.
type MoveHeadTo struct {
	Offset int
}

// SetLeftAnchor remembers X for subsequent vertical moves.
type SetLeftAnchor struct {
	X float64
}

// ClearLeftAnchor forgets the remembered x.
type ClearLeftAnchor struct{}

func (MoveTo) cursorOp()          {}
func (MoveHeadTo) cursorOp()      {}
func (SetLeftAnchor) cursorOp()   {}
func (ClearLeftAnchor) cursorOp() {}

func (o MoveTo) String() string     { return fmt.Sprintf("moveTo(%d)", o.Offset) }
func (o MoveHeadTo) String() string { return fmt.Sprintf("moveHeadTo(%d)", o.Offset) }
func (o SetLeftAnchor) String() string {
	return "setLeftAnchor(" + strconv.FormatFloat(o.X, 'g', -1, 64) + ")"
}
func (ClearLeftAnchor) String() string { return "clearLeftAnchor()" }

// DocumentOp is an operation on document content.
type DocumentOp interface {
	documentOp()
	String() string
}

// Insert inserts Text before the unit at At.
type Insert struct {
	At   int
	Text string
}

// Delete removes the units in [From, To).
type Delete struct {
	From int
	To   int
}

// Replace swaps the units in [From, To) for Text in one step.
type Replace struct {
	From int
	To   int
	Text string
}

func (Insert) documentOp()  {}
func (Delete) documentOp()  {}
func (Replace) documentOp() {}

func (o Insert) String() string { return fmt.Sprintf("insert(%d, %q)", o.At, o.Text) }
func (o Delete) String() string { return fmt.Sprintf("delete(%d, %d)", o.From, o.To) }
func (o Replace) String() string {
	return fmt.Sprintf("replace(%d, %d, %q)", o.From, o.To, o.Text)
}
