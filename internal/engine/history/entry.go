package history

import (
	"time"

	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/transform"
)

// Entry is one undo unit.
type Entry struct {
	Name    string
	Forward transform.DocumentTransformation
	Inverse transform.DocumentTransformation

	// Cursor state for restore. Has* is false when no cursor was attached.
	CursorBefore    cursor.Cursor
	HasCursorBefore bool
	CursorAfter     cursor.Cursor
	HasCursorAfter  bool

	Timestamp time.Time
}

// merge combines entries applied in order into one. The forward list runs
// first to last and the inverse list last to first.
func merge(name string, entries []*Entry) *Entry {
	first, last := entries[0], entries[len(entries)-1]
	var fwd, inv transform.DocumentTransformation
	for _, e := range entries {
		fwd = fwd.With(e.Forward.Operations()...)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		inv = inv.With(entries[i].Inverse.Operations()...)
	}
	return &Entry{
		Name:            name,
		Forward:         fwd,
		Inverse:         inv,
		CursorBefore:    first.CursorBefore,
		HasCursorBefore: first.HasCursorBefore,
		CursorAfter:     last.CursorAfter,
		HasCursorAfter:  last.HasCursorAfter,
		Timestamp:       last.Timestamp,
	}
}

// Info describes an entry for display.
type Info struct {
	Name       string
	Operations int
	Timestamp  time.Time
}

func (e *Entry) info() Info {
	return Info{Name: e.Name, Operations: e.Forward.Len(), Timestamp: e.Timestamp}
}
