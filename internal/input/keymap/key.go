package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Key represents a keyboard key. Character keys use KeyRune with the
// character in Chord.Rune.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// KeyRune is used for character keys.
	KeyRune
)

var keyNames = map[Key]string{
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

// keyByName maps lowercase names and common aliases to keys.
var keyByName = map[string]Key{
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"cr":        KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pgup":      KeyPageUp,
	"pagedown":  KeyPageDown,
	"pgdn":      KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	switch k {
	case KeyNone:
		return "None"
	case KeyRune:
		return "Rune"
	default:
		return fmt.Sprintf("Key(%d)", k)
	}
}

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt
)

var modifierByName = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// String returns a representation like "Ctrl+Shift".
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// Chord is one key press with its modifiers. Chords are comparable and
// used as map keys.
type Chord struct {
	Key  Key
	Rune rune
	Mods Modifier
}

// NewChord creates a chord for a special key.
func NewChord(k Key, mods Modifier) Chord {
	return Chord{Key: k, Mods: mods}
}

// NewRuneChord creates a chord for a character key. Letters combined with
// Ctrl or Alt are folded to lower case.
func NewRuneChord(r rune, mods Modifier) Chord {
	if mods.Has(ModCtrl) || mods.Has(ModAlt) {
		r = unicode.ToLower(r)
	}
	return Chord{Key: KeyRune, Rune: r, Mods: mods}
}

// IsChar returns true for an unmodified printable character, which the
// editor inserts rather than looks up.
func (c Chord) IsChar() bool {
	return c.Key == KeyRune && unicode.IsPrint(c.Rune) && !c.Mods.Has(ModCtrl) && !c.Mods.Has(ModAlt)
}

// String returns the canonical specification, which Parse accepts.
func (c Chord) String() string {
	var k string
	switch c.Key {
	case KeyRune:
		if c.Rune == ' ' {
			k = "Space"
		} else {
			k = string(c.Rune)
		}
	default:
		k = c.Key.String()
	}
	if mods := c.Mods.String(); mods != "" {
		return mods + "+" + k
	}
	return k
}

// Parse parses a chord specification.
//
// Supported formats:
//   - Single character: "a", "1", "@"
//   - Key names: "Enter", "Esc", "Up", "PageDown", "Space"
//   - With modifiers: "Ctrl+Z", "Shift+Down", "Ctrl+Shift+End"
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	parts := strings.Split(spec, "+")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		// "Ctrl++" binds the plus key.
		keyPart = "+"
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		mod, ok := modifierByName[p]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
		}
		mods |= mod
	}

	keyPart = strings.TrimSpace(keyPart)
	lower := strings.ToLower(keyPart)
	if lower == "space" {
		return NewRuneChord(' ', mods), nil
	}
	if k, ok := keyByName[lower]; ok {
		return NewChord(k, mods), nil
	}
	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	r := runes[0]
	if mods == ModNone && unicode.IsUpper(r) {
		mods = ModShift
	}
	return NewRuneChord(r, mods), nil
}

// MustParse parses a chord specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Chord {
	c, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return c
}
