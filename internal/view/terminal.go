package view

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/loom/internal/input/keymap"
)

// Terminal implements Backend using tcell.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal creates a terminal backend. Init must be called before use.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	return nil
}

func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

func (t *Terminal) SetContent(x, y int, unit string, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	runes := []rune(unit)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], convertStyle(style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventInterrupt}
		}
		if out, ok := convertEvent(ev); ok {
			return out
		}
	}
}

func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
}

func convertStyle(s Style) tcell.Style {
	switch s {
	case StyleSelected:
		return tcell.StyleDefault.Reverse(true)
	case StyleStatus:
		return tcell.StyleDefault.Reverse(true).Bold(true)
	default:
		return tcell.StyleDefault
	}
}

// convertEvent converts tcell events to our Event type. Events the view
// has no use for are dropped.
func convertEvent(ev tcell.Event) (Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		c, ok := convertKey(e)
		return Event{Type: EventKey, Chord: c}, ok

	case *tcell.EventMouse:
		if e.Buttons()&tcell.Button1 == 0 {
			return Event{}, false
		}
		x, y := e.Position()
		return Event{Type: EventMouse, X: x, Y: y, Primary: true}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}, true

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}, true
	}
	return Event{}, false
}

var specialKeys = map[tcell.Key]keymap.Key{
	tcell.KeyEscape:     keymap.KeyEscape,
	tcell.KeyEnter:      keymap.KeyEnter,
	tcell.KeyTab:        keymap.KeyTab,
	tcell.KeyBacktab:    keymap.KeyTab,
	tcell.KeyBackspace:  keymap.KeyBackspace,
	tcell.KeyBackspace2: keymap.KeyBackspace,
	tcell.KeyDelete:     keymap.KeyDelete,
	tcell.KeyHome:       keymap.KeyHome,
	tcell.KeyEnd:        keymap.KeyEnd,
	tcell.KeyPgUp:       keymap.KeyPageUp,
	tcell.KeyPgDn:       keymap.KeyPageDown,
	tcell.KeyUp:         keymap.KeyUp,
	tcell.KeyDown:       keymap.KeyDown,
	tcell.KeyLeft:       keymap.KeyLeft,
	tcell.KeyRight:      keymap.KeyRight,
}

func convertKey(e *tcell.EventKey) (keymap.Chord, bool) {
	mods := convertMod(e.Modifiers())
	k := e.Key()

	if k == tcell.KeyBacktab {
		mods |= keymap.ModShift
	}
	if mk, ok := specialKeys[k]; ok {
		return keymap.NewChord(mk, mods), true
	}
	switch {
	case k == tcell.KeyRune:
		return keymap.NewRuneChord(e.Rune(), mods), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return keymap.NewRuneChord(rune('a'+(k-tcell.KeyCtrlA)), mods|keymap.ModCtrl), true
	}
	return keymap.Chord{}, false
}

func convertMod(m tcell.ModMask) keymap.Modifier {
	var out keymap.Modifier
	if m&tcell.ModShift != 0 {
		out |= keymap.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= keymap.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= keymap.ModAlt
	}
	return out
}
