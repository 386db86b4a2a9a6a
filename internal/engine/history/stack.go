package history

import (
	"errors"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when New is given no positive limit.
const DefaultMaxEntries = 1000

// History manages undo/redo stacks.
type History struct {
	undoStack []*Entry
	redoStack []*Entry

	// Grouping state
	grouping     bool
	groupName    string
	groupEntries []*Entry

	maxEntries int
}

// New creates a history keeping at most maxEntries undo entries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push adds an entry to the undo stack and clears the redo stack.
// While grouping, the entry is held until EndGroup.
func (h *History) Push(e *Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if h.grouping {
		h.groupEntries = append(h.groupEntries, e)
		return
	}
	h.push(e)
}

func (h *History) push(e *Entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the latest entry and passes it to apply. The entry moves to
// the redo stack only if apply succeeds.
func (h *History) Undo(apply func(*Entry) error) error {
	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	if err := apply(e); err != nil {
		return err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return nil
}

// Redo pops the latest undone entry and passes it to apply. The entry
// moves back to the undo stack only if apply succeeds.
func (h *History) Redo(apply func(*Entry) error) error {
	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	if err := apply(e); err != nil {
		return err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// BeginGroup starts a group. Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupEntries = nil
}

// EndGroup merges the entries pushed since BeginGroup into one.
func (h *History) EndGroup() {
	if !h.grouping {
		return
	}
	h.grouping = false
	if len(h.groupEntries) > 0 {
		h.push(merge(h.groupName, h.groupEntries))
	}
	h.groupEntries = nil
}

// CancelGroup drops the pending group without adding it to history.
// Transformations already applied still affect the document.
func (h *History) CancelGroup() {
	h.grouping = false
	h.groupEntries = nil
}

// IsGrouping returns true if a group is open.
func (h *History) IsGrouping() bool {
	return h.grouping
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupEntries = nil
}

// PeekUndo describes the next undo entry without removing it.
func (h *History) PeekUndo() (Info, bool) {
	if len(h.undoStack) == 0 {
		return Info{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo describes the next redo entry without removing it.
func (h *History) PeekRedo() (Info, bool) {
	if len(h.redoStack) == 0 {
		return Info{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// UndoInfo describes every undo entry, oldest first.
func (h *History) UndoInfo() []Info {
	out := make([]Info, len(h.undoStack))
	for i, e := range h.undoStack {
		out[i] = e.info()
	}
	return out
}
