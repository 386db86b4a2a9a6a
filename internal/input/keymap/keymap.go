// Package keymap maps key chords to editor actions.
package keymap

import (
	"fmt"
	"sort"

	"github.com/dshills/loom/internal/input"
)

// Binding represents a single chord-to-action mapping.
type Binding struct {
	// Keys is the chord specification, e.g. "Ctrl+Z" or "Shift+Down".
	Keys string

	// Command is the action name to dispatch.
	Command string

	// Text is an optional text argument for the action.
	Text string

	// Description provides documentation for the binding.
	Description string
}

// Action returns the keyboard action this binding dispatches.
func (b Binding) Action() input.Action {
	return input.NewAction(b.Command).WithText(b.Text).WithSource(input.SourceKeyboard)
}

// Keymap holds chord bindings. A chord maps to at most one binding; a
// later Add for the same chord replaces the earlier one.
type Keymap struct {
	Name     string
	bindings map[Chord]Binding
}

// New creates an empty keymap.
func New(name string) *Keymap {
	return &Keymap{Name: name, bindings: make(map[Chord]Binding)}
}

// Add binds keys to an action name.
func (k *Keymap) Add(keys, command string) error {
	return k.AddBinding(Binding{Keys: keys, Command: command})
}

// AddBinding adds a binding, parsing its chord.
func (k *Keymap) AddBinding(b Binding) error {
	c, err := Parse(b.Keys)
	if err != nil {
		return err
	}
	if b.Command == "" {
		return fmt.Errorf("%w: binding for %q has no command", ErrInvalidSpec, b.Keys)
	}
	b.Keys = c.String()
	k.bindings[c] = b
	return nil
}

// Remove unbinds a chord. It is not an error if the chord is unbound.
func (k *Keymap) Remove(keys string) error {
	c, err := Parse(keys)
	if err != nil {
		return err
	}
	delete(k.bindings, c)
	return nil
}

// Lookup returns the binding for a chord.
func (k *Keymap) Lookup(c Chord) (Binding, bool) {
	b, ok := k.bindings[c]
	return b, ok
}

// Merge applies overrides mapping chord specs to action names. An empty
// action name removes the binding. Nothing is applied if any spec fails to
// parse.
func (k *Keymap) Merge(overrides map[string]string) error {
	parsed := make(map[Chord]string, len(overrides))
	for keys, command := range overrides {
		c, err := Parse(keys)
		if err != nil {
			return err
		}
		parsed[c] = command
	}
	for c, command := range parsed {
		if command == "" {
			delete(k.bindings, c)
			continue
		}
		k.bindings[c] = Binding{Keys: c.String(), Command: command}
	}
	return nil
}

// Bindings returns every binding sorted by chord.
func (k *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(k.bindings))
	for _, b := range k.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Keys < out[j].Keys
	})
	return out
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	return len(k.bindings)
}

// Clone returns an independent copy.
func (k *Keymap) Clone() *Keymap {
	c := New(k.Name)
	for chord, b := range k.bindings {
		c.bindings[chord] = b
	}
	return c
}
