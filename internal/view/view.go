package view

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/loom/internal/content"
	"github.com/dshills/loom/internal/dispatcher"
	"github.com/dshills/loom/internal/dispatcher/handlers/cursor"
	"github.com/dshills/loom/internal/dispatcher/handlers/edit"
	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/input"
	"github.com/dshills/loom/internal/input/keymap"
	"github.com/dshills/loom/internal/layout"
)

// QuitChord exits the view.
var QuitChord = keymap.NewRuneChord('q', keymap.ModCtrl)

// View draws an engine's document on a Backend and turns terminal events
// into dispatched actions. Geometry comes from the engine, so the engine
// should measure in terminal cells.
type View struct {
	mu      sync.Mutex
	backend Backend
	engine  *engine.Engine
	disp    *dispatcher.Dispatcher
	keymap  *keymap.Keymap

	name   string
	status string
	top    int // index of the first visible line

	onResize func(width, height int)
	pending  []func()
	stopped  atomic.Bool
}

// New creates a view. The dispatcher must be bound to e.
func New(b Backend, e *engine.Engine, d *dispatcher.Dispatcher, km *keymap.Keymap) *View {
	return &View{backend: b, engine: e, disp: d, keymap: km}
}

// SetName sets the document name shown in the status line.
func (v *View) SetName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.name = name
}

// SetKeymap replaces the keymap.
func (v *View) SetKeymap(km *keymap.Keymap) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keymap = km
}

// SetStatus sets the status message shown until the next action.
func (v *View) SetStatus(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = fmt.Sprintf(format, args...)
}

// Status returns the current status message.
func (v *View) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// OnResize registers a callback run for resize events before redrawing.
// The height passed excludes the status line.
func (v *View) OnResize(fn func(width, height int)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onResize = fn
}

// Run draws and handles events until the quit chord is pressed or Stop
// is called.
func (v *View) Run() error {
	for !v.stopped.Load() {
		v.runPending()
		if err := v.Render(); err != nil {
			return err
		}
		ev := v.backend.PollEvent()
		if v.stopped.Load() || v.HandleEvent(ev) {
			return nil
		}
	}
	return nil
}

// Stop makes Run return. It is safe to call from another goroutine.
func (v *View) Stop() {
	v.stopped.Store(true)
	v.backend.Interrupt()
}

// Queue schedules fn to run on the goroutine handling events, before the
// next redraw. It is safe to call from any goroutine.
func (v *View) Queue(fn func()) {
	v.mu.Lock()
	v.pending = append(v.pending, fn)
	v.mu.Unlock()
	v.backend.Interrupt()
}

func (v *View) runPending() {
	v.mu.Lock()
	fns := v.pending
	v.pending = nil
	v.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// HandleEvent processes one event and reports whether the view should quit.
func (v *View) HandleEvent(ev Event) bool {
	switch ev.Type {
	case EventKey:
		if ev.Chord == QuitChord {
			return true
		}
		v.handleKey(ev.Chord)
	case EventMouse:
		if ev.Primary {
			v.handleClick(ev.X, ev.Y)
		}
	case EventResize:
		v.mu.Lock()
		fn := v.onResize
		v.mu.Unlock()
		if fn != nil {
			fn(ev.Width, max(ev.Height-1, 0))
		}
	case EventInterrupt:
		v.runPending()
	}
	return false
}

func (v *View) handleKey(c keymap.Chord) {
	v.mu.Lock()
	km := v.keymap
	v.mu.Unlock()

	if km != nil {
		if b, ok := km.Lookup(c); ok {
			v.dispatch(b.Action())
			return
		}
	}
	if c.IsChar() {
		v.dispatch(input.NewAction(edit.ActionInsert).WithText(string(c.Rune)).WithSource(input.SourceKeyboard))
		return
	}
	v.SetStatus("%s is not bound", c)
}

func (v *View) handleClick(x, y int) {
	lines := v.lines()
	v.mu.Lock()
	i := v.top + y
	v.mu.Unlock()
	if y < 0 || i >= len(lines) {
		return
	}
	rect, err := v.engine.LineRect(lines[i])
	if err != nil {
		v.SetStatus("%v", err)
		return
	}
	act := input.NewAction(cursor.ActionMoveToPoint).
		WithPoint(float64(x), rect.Top+rect.Height/2).
		WithSource(input.SourceMouse)
	v.dispatch(act)
}

func (v *View) dispatch(act input.Action) {
	result := v.disp.Dispatch(act)
	switch {
	case result.Error != nil:
		v.SetStatus("%s: %v", act.Name, result.Error)
	case result.Message != "":
		v.SetStatus("%s", result.Message)
	default:
		v.SetStatus("")
	}
}

// Render draws the visible lines, the selection, the cursor and the
// status line.
func (v *View) Render() error {
	width, height := v.backend.Size()
	rows := height - 1
	lines := v.lines()
	c, hasCursor := v.engine.Cursor()
	hasCursor = hasCursor && len(lines) > 0

	headLine := 0
	if hasCursor {
		headLine = lineIndex(lines, c.Head())
	}

	v.mu.Lock()
	if rows > 0 {
		if headLine < v.top {
			v.top = headLine
		} else if headLine >= v.top+rows {
			v.top = headLine - rows + 1
		}
	}
	top := v.top
	name, status := v.name, v.status
	v.mu.Unlock()

	v.backend.Clear()
	v.backend.HideCursor()

	for row := 0; row < rows && top+row < len(lines); row++ {
		line := lines[top+row]
		rect, err := v.engine.LineRect(line)
		if err != nil {
			return err
		}
		col := int(math.Round(rect.Left))
		off := line.Start()
		for _, w := range line.Words() {
			for _, unit := range content.Units(w.Text()) {
				style := StyleNormal
				if hasCursor && off >= c.Start() && off < c.End() {
					style = StyleSelected
				}
				cells := runewidth.StringWidth(unit)
				if unit == "\t" || cells == 0 {
					unit, cells = " ", 1
				}
				v.backend.SetContent(col, row, unit, style)
				col += cells
				off++
			}
			if w.Break() && hasCursor && off >= c.Start() && off < c.End() {
				v.backend.SetContent(col, row, " ", StyleSelected)
			}
		}
	}

	if hasCursor && rows > 0 {
		x, err := v.cursorColumn(lines[headLine], c.Head())
		if err != nil {
			return err
		}
		v.backend.ShowCursor(x, headLine-top)
	}

	v.drawStatus(width, height-1, name, status, lines, headLine, c.Head(), c.Len(), hasCursor)
	v.backend.Show()
	return nil
}

func (v *View) cursorColumn(line layout.LineBox, head int) (int, error) {
	local := head - line.Start()
	rects, err := v.engine.OffsetRangeToRects(line.Box, local, local)
	if err != nil {
		return 0, err
	}
	if len(rects) == 0 {
		return 0, nil
	}
	return int(math.Round(rects[0].Left)), nil
}

func (v *View) drawStatus(width, row int, name, status string, lines []layout.LineBox, headLine, head, selected int, hasCursor bool) {
	if row < 0 {
		return
	}
	if name == "" {
		name = "[scratch]"
	}
	text := " " + name
	if hasCursor {
		text += fmt.Sprintf("  Ln %d, Col %d", headLine+1, head-lines[headLine].Start()+1)
		if selected > 0 {
			text += fmt.Sprintf(" (%d selected)", selected)
		}
	}
	if status != "" {
		text += "  " + status
	}

	col := 0
	for _, unit := range content.Units(text) {
		if col >= width {
			break
		}
		v.backend.SetContent(col, row, unit, StyleStatus)
		col += max(1, runewidth.StringWidth(unit))
	}
	for ; col < width; col++ {
		v.backend.SetContent(col, row, " ", StyleStatus)
	}
}

func (v *View) lines() []layout.LineBox {
	tree := v.engine.Tree()
	if tree == nil {
		return nil
	}
	return tree.Lines()
}

// lineIndex returns the index of the line containing offset.
func lineIndex(lines []layout.LineBox, offset int) int {
	i := sort.Search(len(lines), func(i int) bool {
		return lines[i].Start() > offset
	})
	return max(i-1, 0)
}
