package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/loom/internal/engine/transform"
)

// ErrMalformed indicates a journal line that cannot be decoded.
var ErrMalformed = errors.New("journal: malformed entry")

// maxLine bounds a single journal line; inserted text can be large.
const maxLine = 16 << 20

// Entry is one journaled commit.
type Entry struct {
	ID       string
	Command  string
	Time     time.Time
	Document transform.DocumentTransformation
	Cursor   transform.CursorTransformation
}

// NewEntry creates an entry stamped with a fresh ID and the current time.
func NewEntry(command string, d transform.DocumentTransformation, c transform.CursorTransformation) Entry {
	return Entry{
		ID:       uuid.NewString(),
		Command:  command,
		Time:     time.Now().UTC(),
		Document: d,
		Cursor:   c,
	}
}

// Encode returns the entry as a single JSON line without the trailing
// newline.
func Encode(e Entry) ([]byte, error) {
	line, err := sjson.Set("", "id", e.ID)
	if err != nil {
		return nil, err
	}
	if line, err = sjson.Set(line, "command", e.Command); err != nil {
		return nil, err
	}
	if line, err = sjson.Set(line, "time", e.Time.Format(time.RFC3339Nano)); err != nil {
		return nil, err
	}

	docs := make([]string, 0, e.Document.Len())
	for _, op := range e.Document.Operations() {
		obj, err := encodeDocumentOp(op)
		if err != nil {
			return nil, err
		}
		docs = append(docs, obj)
	}
	if line, err = sjson.SetRaw(line, "document", "["+strings.Join(docs, ",")+"]"); err != nil {
		return nil, err
	}

	curs := make([]string, 0, e.Cursor.Len())
	for _, op := range e.Cursor.Operations() {
		obj, err := encodeCursorOp(op)
		if err != nil {
			return nil, err
		}
		curs = append(curs, obj)
	}
	if line, err = sjson.SetRaw(line, "cursor", "["+strings.Join(curs, ",")+"]"); err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// fields sets each key/value pair on an empty object.
func fields(kv ...any) (string, error) {
	obj := "{}"
	for i := 0; i+1 < len(kv); i += 2 {
		var err error
		if obj, err = sjson.Set(obj, kv[i].(string), kv[i+1]); err != nil {
			return "", err
		}
	}
	return obj, nil
}

func encodeDocumentOp(op transform.DocumentOp) (string, error) {
	switch op := op.(type) {
	case transform.Insert:
		return fields("op", "insert", "at", op.At, "text", op.Text)
	case transform.Delete:
		return fields("op", "delete", "from", op.From, "to", op.To)
	case transform.Replace:
		return fields("op", "replace", "from", op.From, "to", op.To, "text", op.Text)
	default:
		return "", fmt.Errorf("%w: %T", transform.ErrUnknownOperation, op)
	}
}

func encodeCursorOp(op transform.CursorOp) (string, error) {
	switch op := op.(type) {
	case transform.MoveTo:
		return fields("op", "moveTo", "offset", op.Offset)
	case transform.MoveHeadTo:
		return fields("op", "moveHeadTo", "offset", op.Offset)
	case transform.SetLeftAnchor:
		return fields("op", "setLeftAnchor", "x", op.X)
	case transform.ClearLeftAnchor:
		return fields("op", "clearLeftAnchor")
	default:
		return "", fmt.Errorf("%w: %T", transform.ErrUnknownOperation, op)
	}
}

// Decode parses one journal line.
func Decode(line []byte) (Entry, error) {
	if !gjson.ValidBytes(line) {
		return Entry{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	res := gjson.ParseBytes(line)
	if !res.IsObject() {
		return Entry{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	cmd := res.Get("command")
	if !cmd.Exists() {
		return Entry{}, fmt.Errorf("%w: missing command", ErrMalformed)
	}
	e := Entry{ID: res.Get("id").String(), Command: cmd.String()}
	if ts := res.Get("time"); ts.Exists() {
		t, err := time.Parse(time.RFC3339Nano, ts.String())
		if err != nil {
			return Entry{}, fmt.Errorf("%w: time: %v", ErrMalformed, err)
		}
		e.Time = t
	}

	var docOps []transform.DocumentOp
	for _, op := range res.Get("document").Array() {
		d, err := decodeDocumentOp(op)
		if err != nil {
			return Entry{}, err
		}
		docOps = append(docOps, d)
	}
	var curOps []transform.CursorOp
	for _, op := range res.Get("cursor").Array() {
		c, err := decodeCursorOp(op)
		if err != nil {
			return Entry{}, err
		}
		curOps = append(curOps, c)
	}
	if len(docOps) > 0 {
		e.Document = transform.NewDocument(docOps...)
	}
	if len(curOps) > 0 {
		e.Cursor = transform.NewCursor(curOps...)
	}
	return e, nil
}

// ints returns the named integer fields of op, failing if any is absent.
func ints(op gjson.Result, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		v := op.Get(name)
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("%w: %s needs a numeric %q", ErrMalformed, op.Get("op").String(), name)
		}
		out[i] = int(v.Int())
	}
	return out, nil
}

func decodeDocumentOp(op gjson.Result) (transform.DocumentOp, error) {
	switch kind := op.Get("op").String(); kind {
	case "insert":
		v, err := ints(op, "at")
		if err != nil {
			return nil, err
		}
		return transform.Insert{At: v[0], Text: op.Get("text").String()}, nil
	case "delete":
		v, err := ints(op, "from", "to")
		if err != nil {
			return nil, err
		}
		return transform.Delete{From: v[0], To: v[1]}, nil
	case "replace":
		v, err := ints(op, "from", "to")
		if err != nil {
			return nil, err
		}
		return transform.Replace{From: v[0], To: v[1], Text: op.Get("text").String()}, nil
	default:
		return nil, fmt.Errorf("%w: unknown document op %q", ErrMalformed, kind)
	}
}

func decodeCursorOp(op gjson.Result) (transform.CursorOp, error) {
	switch kind := op.Get("op").String(); kind {
	case "moveTo", "moveHeadTo":
		v, err := ints(op, "offset")
		if err != nil {
			return nil, err
		}
		if kind == "moveTo" {
			return transform.MoveTo{Offset: v[0]}, nil
		}
		return transform.MoveHeadTo{Offset: v[0]}, nil
	case "setLeftAnchor":
		x := op.Get("x")
		if x.Type != gjson.Number {
			return nil, fmt.Errorf("%w: setLeftAnchor needs a numeric \"x\"", ErrMalformed)
		}
		return transform.SetLeftAnchor{X: x.Float()}, nil
	case "clearLeftAnchor":
		return transform.ClearLeftAnchor{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown cursor op %q", ErrMalformed, kind)
	}
}

// ApplyFunc applies one replayed commit.
type ApplyFunc func(command string, d transform.DocumentTransformation, c transform.CursorTransformation) error

// Replay decodes r line by line and passes each entry to apply. Blank
// lines are skipped. It stops at the first error and returns the number of
// entries applied before it.
func Replay(r io.Reader, apply ApplyFunc) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	n := 0
	for ln := 1; sc.Scan(); ln++ {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		e, err := Decode(line)
		if err != nil {
			return n, fmt.Errorf("journal: line %d: %w", ln, err)
		}
		if err := apply(e.Command, e.Document, e.Cursor); err != nil {
			return n, fmt.Errorf("journal: line %d (%s): %w", ln, e.Command, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("journal: read: %w", err)
	}
	return n, nil
}
