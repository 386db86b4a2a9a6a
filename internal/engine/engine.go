package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/engine/cursor"
	"github.com/dshills/loom/internal/engine/history"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/event"
	"github.com/dshills/loom/internal/event/topic"
	"github.com/dshills/loom/internal/layout"
	"github.com/dshills/loom/internal/layout/flow"
	"github.com/dshills/loom/internal/measure"
	"github.com/dshills/loom/internal/viewport"
)

// Re-export commonly used types for convenience.
type (
	// Cursor is an anchor/head selection with an optional sticky column.
	Cursor = cursor.Cursor

	// CursorTransformation is an ordered list of cursor operations.
	CursorTransformation = transform.CursorTransformation

	// DocumentTransformation is an ordered list of document operations.
	DocumentTransformation = transform.DocumentTransformation
)

// Engine owns the document, its layout tree and the cursor. State only
// changes through transformations, which are applied atomically: either
// the document, tree and cursor all advance or none of them do.
//
// Engine methods are safe for concurrent use. Events are published after
// the engine's lock is released, so handlers may call back into the engine.
type Engine struct {
	mu sync.Mutex

	doc    *content.Document
	tree   *layout.Tree
	flow   *flow.Engine
	mapper *viewport.Mapper

	cur       cursor.Cursor
	hasCursor bool

	history *history.History
	bus     *event.Bus
	source  string

	cursors transform.CursorTransformer
	docs    transform.DocumentTransformer

	// Configuration
	initText       string
	style          content.Style
	measurer       measure.Measurer
	flowOpts       flow.Options
	viewOpts       viewport.Options
	maxUndoEntries int
}

// New creates an engine holding a document built from the configured text.
// No cursor is attached.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		style:          content.DefaultStyle(),
		measurer:       measure.Cell{},
		maxUndoEntries: DefaultMaxUndoEntries,
		source:         DefaultSource,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.history = history.New(e.maxUndoEntries)
	e.flow = flow.NewEngine(e.measurer, e.flowOpts)
	e.mapper = viewport.New(nil, e.measurer)
	e.mapper.SetOptions(e.viewOpts)

	e.mu.Lock()
	_, err := e.loadLocked(content.FromText(e.initText, e.style))
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ============================================================================
// Read Operations
// ============================================================================

// Document returns the current document, or nil when none is loaded.
// Documents are never modified in place.
func (e *Engine) Document() *content.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Tree returns the current layout tree, or nil when no document is loaded.
// Trees are immutable.
func (e *Engine) Tree() *layout.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree
}

// Text returns the document text.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ""
	}
	return e.doc.Text()
}

// Size returns the document's selectable size.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tree == nil {
		return 0
	}
	return e.tree.Size()
}

// Cursor returns the cursor and whether one is attached.
func (e *Engine) Cursor() (cursor.Cursor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur, e.hasCursor
}

// Bus returns the attached event bus, or nil.
func (e *Engine) Bus() *event.Bus {
	return e.bus
}

// LayoutStats describes the most recent layout pass.
func (e *Engine) LayoutStats() flow.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flow.Stats()
}

// ============================================================================
// Layout Queries
// ============================================================================

// ResolvePosition resolves a flat offset against the current tree.
func (e *Engine) ResolvePosition(offset int) (layout.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tree == nil {
		return layout.Position{}, ErrNoDocument
	}
	return e.tree.ResolvePosition(offset)
}

// OffsetRangeToRects returns the viewport rectangles covering a local range
// of box. See viewport.Mapper.OffsetRangeToRects.
func (e *Engine) OffsetRangeToRects(box layout.Box, from, to int) ([]viewport.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mapper.OffsetRangeToRects(box, from, to)
}

// XToOffset hit-tests a word or line box. See viewport.Mapper.XToOffset.
func (e *Engine) XToOffset(box layout.Box, x float64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mapper.XToOffset(box, x)
}

// PointToOffset returns the flat offset under a viewport point.
func (e *Engine) PointToOffset(x, y float64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mapper.PointToOffset(x, y)
}

// LineRect returns the rectangle covering a line's content.
func (e *Engine) LineRect(line layout.LineBox) (viewport.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mapper.LineRect(line)
}

// ============================================================================
// Document Lifecycle
// ============================================================================

// Load replaces the document, lays it out and clears history. An attached
// cursor is clamped to the new document.
func (e *Engine) Load(doc *content.Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	e.mu.Lock()
	evs, err := e.loadLocked(doc)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	return e.publish(evs)
}

// LoadText replaces the document with one built from text using the
// configured base style.
func (e *Engine) LoadText(text string) error {
	e.mu.Lock()
	style := e.style
	e.mu.Unlock()
	return e.Load(content.FromText(text, style))
}

func (e *Engine) loadLocked(doc *content.Document) ([]event.Event, error) {
	tree, err := e.flow.Layout(doc)
	if err != nil {
		return nil, fmt.Errorf("engine: layout: %w", err)
	}
	e.doc, e.tree = doc, tree
	e.mapper.SetTree(tree)
	e.history.Clear()

	evs := []event.Event{
		e.event(TopicDocumentChanged, DocumentChanged{Version: doc.Version(), Size: tree.Size()}),
		e.layoutEvent(),
	}
	if e.hasCursor {
		if c := e.cur.Clamp(tree.Size()); !c.Equals(e.cur) {
			e.cur = c
			evs = append(evs, e.cursorEvent())
		}
	}
	return evs, nil
}

// Unload drops the document, its tree, the cursor and history. Until the
// next Load, operations needing a document return ErrNoDocument.
func (e *Engine) Unload() error {
	e.mu.Lock()
	hadCursor := e.hasCursor
	e.doc, e.tree = nil, nil
	e.mapper.SetTree(nil)
	e.cur, e.hasCursor = cursor.Cursor{}, false
	e.history.Clear()
	var evs []event.Event
	if hadCursor {
		evs = append(evs, e.cursorEvent())
	}
	e.mu.Unlock()
	return e.publish(evs)
}

// ============================================================================
// Cursor Lifecycle
// ============================================================================

// AttachCursor attaches c, replacing any existing cursor. Both endpoints
// must be valid offsets in the current document.
func (e *Engine) AttachCursor(c cursor.Cursor) error {
	e.mu.Lock()
	if e.tree == nil {
		e.mu.Unlock()
		return ErrNoDocument
	}
	if err := c.Validate(e.tree.Size()); err != nil {
		e.mu.Unlock()
		return err
	}
	e.cur, e.hasCursor = c, true
	evs := []event.Event{e.cursorEvent()}
	e.mu.Unlock()
	return e.publish(evs)
}

// DetachCursor removes the cursor. Cursor transformations fail with
// ErrNoCursor until a new one is attached.
func (e *Engine) DetachCursor() error {
	e.mu.Lock()
	if !e.hasCursor {
		e.mu.Unlock()
		return nil
	}
	e.cur, e.hasCursor = cursor.Cursor{}, false
	evs := []event.Event{e.cursorEvent()}
	e.mu.Unlock()
	return e.publish(evs)
}

// ============================================================================
// Transformations
// ============================================================================

// ApplyCursor applies a cursor transformation.
func (e *Engine) ApplyCursor(t transform.CursorTransformation) error {
	return e.Apply("", transform.DocumentTransformation{}, t)
}

// ApplyDocument applies a document transformation and records it for undo.
// An attached cursor is carried across the edits.
func (e *Engine) ApplyDocument(t transform.DocumentTransformation) error {
	return e.Apply("", t, transform.CursorTransformation{})
}

// Apply applies a document transformation followed by a cursor
// transformation as one atomic step. The cursor transformation sees the
// document after the edits. A non-empty document transformation is
// recorded for undo under name.
//
// If any operation fails nothing changes and the error is returned.
// Errors from event handlers are returned after the state has changed.
func (e *Engine) Apply(name string, d transform.DocumentTransformation, c transform.CursorTransformation) error {
	e.mu.Lock()
	evs, err := e.commitLocked(name, d, c, true)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	return e.publish(evs)
}

// commitLocked stages every change against copies and only swaps state in
// once all of them have succeeded.
func (e *Engine) commitLocked(name string, d transform.DocumentTransformation, c transform.CursorTransformation, record bool) ([]event.Event, error) {
	if d.IsEmpty() && c.IsEmpty() {
		return nil, nil
	}
	if e.doc == nil {
		return nil, ErrNoDocument
	}
	if !c.IsEmpty() && !e.hasCursor {
		return nil, ErrNoCursor
	}

	doc, tree, cur := e.doc, e.tree, e.cur
	var res transform.DocumentResult
	if !d.IsEmpty() {
		var err error
		doc, res, err = e.docs.Apply(e.doc, d)
		if err != nil {
			return nil, err
		}
		tree, err = e.flow.Layout(doc)
		if err != nil {
			return nil, fmt.Errorf("engine: layout: %w", err)
		}
		if e.hasCursor {
			cur = cursor.AdjustForEdits(cur, res.Edits).Clamp(tree.Size())
		}
	}
	if !c.IsEmpty() {
		var err error
		cur, err = e.cursors.Apply(cur, tree.Size(), c)
		if err != nil {
			return nil, err
		}
	}

	before := e.cur
	cursorChanged := e.hasCursor && !cur.Equals(before)
	e.doc, e.tree, e.cur = doc, tree, cur
	if !d.IsEmpty() {
		e.mapper.SetTree(tree)
		if record {
			e.history.Push(&history.Entry{
				Name:            name,
				Forward:         d,
				Inverse:         res.Inverse,
				CursorBefore:    before,
				HasCursorBefore: e.hasCursor,
				CursorAfter:     cur,
				HasCursorAfter:  e.hasCursor,
			})
		}
	}

	evs := []event.Event{
		e.event(TopicTransformationApplied, TransformationApplied{Name: name, Document: d, Cursor: c}),
	}
	if !d.IsEmpty() {
		evs = append(evs,
			e.event(TopicDocumentChanged, DocumentChanged{Version: doc.Version(), Size: tree.Size(), Edits: res.Edits}),
			e.layoutEvent(),
		)
	}
	if cursorChanged {
		evs = append(evs, e.cursorEvent())
	}
	return evs, nil
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the most recent history entry and restores the cursor it
// was recorded with.
func (e *Engine) Undo() error {
	return e.step(TopicHistoryUndone, "history.undo", e.history.PeekUndo, func(apply func(*history.Entry) error) error {
		return e.history.Undo(apply)
	}, func(h *history.Entry) (transform.DocumentTransformation, cursor.Cursor, bool) {
		return h.Inverse, h.CursorBefore, h.HasCursorBefore
	})
}

// Redo reapplies the most recently undone entry.
func (e *Engine) Redo() error {
	return e.step(TopicHistoryRedone, "history.redo", e.history.PeekRedo, func(apply func(*history.Entry) error) error {
		return e.history.Redo(apply)
	}, func(h *history.Entry) (transform.DocumentTransformation, cursor.Cursor, bool) {
		return h.Forward, h.CursorAfter, h.HasCursorAfter
	})
}

func (e *Engine) step(
	t topic.Topic,
	name string,
	peek func() (history.Info, bool),
	run func(func(*history.Entry) error) error,
	pick func(*history.Entry) (transform.DocumentTransformation, cursor.Cursor, bool),
) error {
	e.mu.Lock()
	if e.doc == nil {
		e.mu.Unlock()
		return ErrNoDocument
	}
	info, _ := peek()
	var evs []event.Event
	err := run(func(h *history.Entry) error {
		d, c, ok := pick(h)
		var restore transform.CursorTransformation
		if ok && e.hasCursor {
			restore = restoreCursor(c)
		}
		var err error
		evs, err = e.commitLocked(name, d, restore, false)
		return err
	})
	if err != nil {
		e.mu.Unlock()
		return err
	}
	evs = append(evs, e.event(t, HistoryChanged{
		Entry:     info,
		UndoCount: e.history.UndoCount(),
		RedoCount: e.history.RedoCount(),
	}))
	e.mu.Unlock()
	return e.publish(evs)
}

func restoreCursor(c cursor.Cursor) transform.CursorTransformation {
	return transform.NewCursor(
		transform.MoveTo{Offset: c.Anchor()},
		transform.MoveHeadTo{Offset: c.Head()},
		transform.ClearLeftAnchor{},
	)
}

// CanUndo reports whether undo is possible.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether redo is possible.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.UndoCount()
}

// RedoCount returns the number of redo entries.
func (e *Engine) RedoCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.RedoCount()
}

// UndoInfo describes the undo stack, oldest first.
func (e *Engine) UndoInfo() []history.Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.UndoInfo()
}

// Transaction runs fn with history grouping on, so every document
// transformation applied inside it undoes as one entry named name. Nested
// transactions join the outermost one. If fn fails, whatever it applied
// before failing is still recorded so it can be undone, and fn's error is
// returned.
func (e *Engine) Transaction(name string, fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Transaction(name, func() error {
		e.mu.Unlock()
		defer e.mu.Lock()
		return fn()
	})
}

// ClearHistory drops all undo and redo entries.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Clear()
}

// ============================================================================
// Configuration
// ============================================================================

// Reconfigure applies layout-related options and lays the document out
// again. WithStyle restyles the current document; WithMeasurer, WithFlow
// and WithViewport change geometry. Offsets are unaffected, so the cursor
// stays where it is. If the new layout fails the previous configuration
// stays in effect.
func (e *Engine) Reconfigure(opts ...Option) error {
	e.mu.Lock()
	prevStyle, prevMeasurer := e.style, e.measurer
	prevFlow, prevView := e.flowOpts, e.viewOpts
	for _, opt := range opts {
		opt(e)
	}

	tree, err := e.relayoutLocked(prevStyle)
	if err != nil {
		e.style, e.measurer = prevStyle, prevMeasurer
		e.flowOpts, e.viewOpts = prevFlow, prevView
		e.flow.SetMeasurer(prevMeasurer)
		e.flow.SetOptions(prevFlow)
		e.mu.Unlock()
		return fmt.Errorf("engine: layout: %w", err)
	}
	e.mapper.SetMeasurer(e.measurer)
	e.mapper.SetOptions(e.viewOpts)
	if tree == nil {
		e.mu.Unlock()
		return nil
	}
	e.tree = tree
	e.mapper.SetTree(tree)
	evs := []event.Event{e.layoutEvent()}
	e.mu.Unlock()
	return e.publish(evs)
}

// relayoutLocked lays the document out with the configured measurer and
// flow options. It returns a nil tree when no document is loaded.
func (e *Engine) relayoutLocked(prevStyle content.Style) (*layout.Tree, error) {
	if err := e.flowOpts.Validate(); err != nil {
		return nil, err
	}
	e.flow.SetMeasurer(e.measurer)
	e.flow.SetOptions(e.flowOpts)
	if e.doc == nil {
		return nil, nil
	}
	doc := e.doc
	if e.style != prevStyle {
		doc = doc.WithStyle(e.style)
	}
	tree, err := e.flow.Layout(doc)
	if err != nil {
		return nil, err
	}
	e.doc = doc
	return tree, nil
}

// ============================================================================
// Events
// ============================================================================

func (e *Engine) event(t topic.Topic, payload any) event.Event {
	return event.New(t, payload, e.source)
}

func (e *Engine) layoutEvent() event.Event {
	st := e.flow.Stats()
	return e.event(TopicLayoutRebuilt, LayoutRebuilt{
		Version: e.tree.Version(),
		Lines:   st.Lines,
		Pages:   st.Pages,
	})
}

func (e *Engine) cursorEvent() event.Event {
	return e.event(TopicCursorChanged, CursorChanged{Cursor: e.cur, Present: e.hasCursor})
}

// publish delivers events in order. Delivery continues past failures.
func (e *Engine) publish(evs []event.Event) error {
	if e.bus == nil || len(evs) == 0 {
		return nil
	}
	var errs []error
	for _, ev := range evs {
		if err := e.bus.Publish(context.Background(), ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
