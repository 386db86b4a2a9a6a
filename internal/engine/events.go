package engine

import (
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/history"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/event/topic"
)

// Event topics published by the engine.
const (
	TopicTransformationApplied topic.Topic = "engine.transformation.applied"
	TopicDocumentChanged       topic.Topic = "engine.document.changed"
	TopicLayoutRebuilt         topic.Topic = "engine.layout.rebuilt"
	TopicCursorChanged         topic.Topic = "engine.cursor.changed"
	TopicHistoryUndone         topic.Topic = "engine.history.undone"
	TopicHistoryRedone         topic.Topic = "engine.history.redone"
)

// TransformationApplied is published after every successful commit.
type TransformationApplied struct {
	Name     string
	Document transform.DocumentTransformation
	Cursor   transform.CursorTransformation
}

// DocumentChanged is published after document content changes.
type DocumentChanged struct {
	Version uint64
	Size    int
	Edits   []cursor.Edit
}

// LayoutRebuilt is published after a new layout tree is installed.
type LayoutRebuilt struct {
	Version uint64
	Lines   int
	Pages   int
}

// CursorChanged is published when the cursor moves, attaches or detaches.
type CursorChanged struct {
	Cursor  cursor.Cursor
	Present bool
}

// HistoryChanged is published after undo or redo.
type HistoryChanged struct {
	Entry     history.Info
	UndoCount int
	RedoCount int
}
