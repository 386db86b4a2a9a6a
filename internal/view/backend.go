package view

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/loom/internal/input/keymap"
)

// Style selects how a cell is drawn.
type Style uint8

const (
	StyleNormal Style = iota
	StyleSelected
	StyleStatus
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Chord is set for key events.
	Chord keymap.Chord

	// X and Y are the cell of a mouse event.
	X, Y int

	// Primary reports a primary button press for mouse events.
	Primary bool

	// Width and Height are set for resize events.
	Width, Height int
}

// Backend is the terminal surface a View draws on.
type Backend interface {
	Init() error
	Fini()
	Size() (width, height int)

	// SetContent draws one text unit at a cell. Wide units occupy the
	// following cell as well.
	SetContent(x, y int, unit string, style Style)
	Clear()
	Show()
	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks for the next event.
	PollEvent() Event

	// Interrupt wakes PollEvent with an EventInterrupt.
	Interrupt()
}

type cell struct {
	unit  string
	style Style
}

// NullBackend is an in-memory backend for tests.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	events        chan Event
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{events: make(chan Event, 100)}
	b.resize(width, height)
	return b
}

func (b *NullBackend) resize(width, height int) {
	b.width, b.height = width, height
	b.cells = make([][]cell, height)
	for i := range b.cells {
		b.cells[i] = make([]cell, width)
	}
}

func (b *NullBackend) Init() error { return nil }
func (b *NullBackend) Fini()       {}
func (b *NullBackend) Show()       {}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetContent(x, y int, unit string, style Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell{unit: unit, style: style}
	}
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := range b.cells {
		clear(b.cells[y])
	}
}

func (b *NullBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY, b.cursorVisible = x, y, true
}

func (b *NullBackend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = false
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) Interrupt() {
	b.PostEvent(Event{Type: EventInterrupt})
}

// PostEvent queues an event for PollEvent. Events are dropped when the
// queue is full.
func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	default:
	}
}

// Resize simulates a terminal resize: the surface is cleared and an
// EventResize is queued.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.resize(width, height)
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// Row returns the text drawn on row y with trailing blanks trimmed.
// Wide units are written once.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; {
		c := b.cells[y][x]
		if c.unit == "" {
			sb.WriteByte(' ')
			x++
			continue
		}
		sb.WriteString(c.unit)
		x += max(1, runewidth.StringWidth(c.unit))
	}
	return strings.TrimRight(sb.String(), " ")
}

// StyleAt returns the style of the cell at x, y.
func (b *NullBackend) StyleAt(x, y int) Style {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return StyleNormal
	}
	return b.cells[y][x].style
}

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}
