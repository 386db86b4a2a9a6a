package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/loom/internal/dispatcher/execctx"
	"github.com/dshills/loom/internal/dispatcher/handler"
	"github.com/dshills/loom/internal/engine/transform"
	"github.com/dshills/loom/internal/input"
)

// Namespace is the action namespace scripts are registered under.
const Namespace = "script"

// Script is one loaded script file with its own interpreter.
type Script struct {
	name  string
	path  string
	state *State
}

// Load executes the file at path and checks that it defines run.
func Load(path string, opts ...StateOption) (*Script, error) {
	s := &Script{
		name:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		path:  path,
		state: NewState(opts...),
	}
	if err := s.state.DoFile(path); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("lua: load %s: %w", path, err)
	}
	err := s.state.Run(func(L *lua.LState) error {
		if _, ok := L.GetGlobal("run").(*lua.LFunction); !ok {
			return ErrNoRun
		}
		return nil
	})
	if err != nil {
		s.state.Close()
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return s, nil
}

// LoadDir loads every .lua file in dir, in name order. A missing directory
// yields no scripts.
func LoadDir(dir string, opts ...StateOption) ([]*Script, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lua: read %s: %w", dir, err)
	}

	var scripts []*Script
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".lua" {
			continue
		}
		s, err := Load(filepath.Join(dir, ent.Name()), opts...)
		if err != nil {
			for _, loaded := range scripts {
				loaded.Close()
			}
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// Name returns the script's base name.
func (s *Script) Name() string { return s.name }

// Action returns the action name that runs the script.
func (s *Script) Action() string { return Namespace + "." + s.name }

// Close releases the interpreter.
func (s *Script) Close() error { return s.state.Close() }

// Command returns a command that calls run with the action's text and
// collects the operations it emits.
func (s *Script) Command() handler.Command {
	return func(action input.Action, r execctx.EngineReader) (transform.DocumentTransformation, transform.CursorTransformation, error) {
		b := &builder{r: r}
		err := s.state.Run(func(L *lua.LState) error {
			L.SetGlobal("loom", b.table(L))
			return L.CallByParam(lua.P{
				Fn:      L.GetGlobal("run"),
				NRet:    0,
				Protect: true,
			}, lua.LString(action.Args.Text))
		})
		if err != nil {
			return transform.DocumentTransformation{}, transform.CursorTransformation{}, fmt.Errorf("%s: %w", s.Action(), err)
		}
		return b.doc, b.cur, nil
	}
}

// builder backs the loom table for one call.
type builder struct {
	r   execctx.EngineReader
	doc transform.DocumentTransformation
	cur transform.CursorTransformation
}

func (b *builder) table(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"cursor":            b.cursor,
		"size":              b.size,
		"slice":             b.slice,
		"line_start":        b.lineStart,
		"line_end":          b.lineEnd,
		"move_to":           b.moveTo,
		"select_to":         b.selectTo,
		"set_left_anchor":   b.setLeftAnchor,
		"clear_left_anchor": b.clearLeftAnchor,
		"insert":            b.insert,
		"delete":            b.delete,
		"replace":           b.replace,
	})
}

func (b *builder) cursor(L *lua.LState) int {
	c, ok := b.r.Cursor()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(c.Anchor()))
	L.Push(lua.LNumber(c.Head()))
	return 2
}

func (b *builder) size(L *lua.LState) int {
	L.Push(lua.LNumber(b.r.Size()))
	return 1
}

func (b *builder) slice(L *lua.LState) int {
	doc := b.r.Document()
	if doc == nil {
		L.RaiseError("no document")
		return 0
	}
	text, err := doc.Slice(L.CheckInt(1), L.CheckInt(2))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

func (b *builder) lineStart(L *lua.LState) int {
	return b.line(L, false)
}

func (b *builder) lineEnd(L *lua.LState) int {
	return b.line(L, true)
}

func (b *builder) line(L *lua.LState, end bool) int {
	pos, err := b.r.ResolvePosition(L.CheckInt(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	if end {
		L.Push(lua.LNumber(pos.Line().End()))
	} else {
		L.Push(lua.LNumber(pos.Line().Start()))
	}
	return 1
}

func (b *builder) moveTo(L *lua.LState) int {
	b.cur = b.cur.With(transform.MoveTo{Offset: L.CheckInt(1)})
	return 0
}

func (b *builder) selectTo(L *lua.LState) int {
	b.cur = b.cur.With(transform.MoveHeadTo{Offset: L.CheckInt(1)})
	return 0
}

func (b *builder) setLeftAnchor(L *lua.LState) int {
	b.cur = b.cur.With(transform.SetLeftAnchor{X: float64(L.CheckNumber(1))})
	return 0
}

func (b *builder) clearLeftAnchor(*lua.LState) int {
	b.cur = b.cur.With(transform.ClearLeftAnchor{})
	return 0
}

func (b *builder) insert(L *lua.LState) int {
	b.doc = b.doc.With(transform.Insert{At: L.CheckInt(1), Text: L.CheckString(2)})
	return 0
}

func (b *builder) delete(L *lua.LState) int {
	b.doc = b.doc.With(transform.Delete{From: L.CheckInt(1), To: L.CheckInt(2)})
	return 0
}

func (b *builder) replace(L *lua.LState) int {
	b.doc = b.doc.With(transform.Replace{From: L.CheckInt(1), To: L.CheckInt(2), Text: L.CheckString(3)})
	return 0
}

// Handler routes the script namespace to loaded scripts.
type Handler struct {
	*handler.BaseNamespaceHandler
	scripts []*Script
}

// NewHandler registers each script under its action name. Later scripts
// with the same name replace earlier ones.
func NewHandler(scripts []*Script) *Handler {
	h := &Handler{
		BaseNamespaceHandler: handler.NewBaseNamespaceHandler(Namespace),
		scripts:              scripts,
	}
	for _, s := range scripts {
		h.RegisterCommand(s.Action(), s.Command())
	}
	return h
}

// Scripts returns the loaded scripts.
func (h *Handler) Scripts() []*Script {
	return h.scripts
}

// Close closes every script.
func (h *Handler) Close() error {
	var errs []error
	for _, s := range h.scripts {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
