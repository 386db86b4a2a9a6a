package content

import (
	"fmt"
	"strings"
)

// Paragraph is an immutable run of text terminated by a paragraph break.
type Paragraph struct {
	text    string
	units   int
	version uint64
}

// Text returns the paragraph text without its break.
func (p *Paragraph) Text() string {
	return p.text
}

// Units returns the number of text units, excluding the break.
func (p *Paragraph) Units() int {
	return p.units
}

// Size returns the paragraph's selectable size: its text units plus the break.
func (p *Paragraph) Size() int {
	return p.units + 1
}

// Version identifies this paragraph value. Versions are unique within a
// document's lifetime; an edited paragraph always gets a new one.
func (p *Paragraph) Version() uint64 {
	return p.version
}

// Document is the content model: an ordered list of paragraphs with a
// single base style.
type Document struct {
	paragraphs []*Paragraph
	style      Style
	version    uint64
}

// New creates a document holding one empty paragraph.
func New(style Style) *Document {
	return FromText("", style)
}

// FromText creates a document from plain text. Each "\n" starts a new paragraph.
func FromText(text string, style Style) *Document {
	d := &Document{style: style}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		d.paragraphs = append(d.paragraphs, d.newParagraph(line))
	}
	return d
}

func (d *Document) newParagraph(text string) *Paragraph {
	d.version++
	return &Paragraph{text: text, units: UnitCount(text), version: d.version}
}

// Style returns the document's base style.
func (d *Document) Style() Style {
	return d.style
}

// Version returns the document version. It increases with every edit.
func (d *Document) Version() uint64 {
	return d.version
}

// ParagraphCount returns the number of paragraphs.
func (d *Document) ParagraphCount() int {
	return len(d.paragraphs)
}

// Paragraph returns the paragraph at index i.
func (d *Document) Paragraph(i int) *Paragraph {
	return d.paragraphs[i]
}

// Paragraphs returns a copy of the paragraph list.
func (d *Document) Paragraphs() []*Paragraph {
	out := make([]*Paragraph, len(d.paragraphs))
	copy(out, d.paragraphs)
	return out
}

// Size returns the total number of selectable units in the document.
func (d *Document) Size() int {
	n := 0
	for _, p := range d.paragraphs {
		n += p.Size()
	}
	return n
}

// Text returns the document text with paragraphs joined by "\n".
func (d *Document) Text() string {
	parts := make([]string, len(d.paragraphs))
	for i, p := range d.paragraphs {
		parts[i] = p.text
	}
	return strings.Join(parts, "\n")
}

// Clone returns a shallow copy. Paragraphs are immutable and shared.
func (d *Document) Clone() *Document {
	return &Document{
		paragraphs: d.Paragraphs(),
		style:      d.style,
		version:    d.version,
	}
}

// WithStyle returns a copy of the document using a different base style.
func (d *Document) WithStyle(style Style) *Document {
	c := d.Clone()
	c.style = style
	return c
}

// Locate maps a flat offset to a paragraph index and a unit index within
// that paragraph. A unit index equal to the paragraph's Units() addresses
// its break.
func (d *Document) Locate(offset int) (para, unit int, err error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, offset)
	}
	rem := offset
	for i, p := range d.paragraphs {
		if rem < p.Size() {
			return i, rem, nil
		}
		rem -= p.Size()
	}
	return 0, 0, fmt.Errorf("%w: %d (size %d)", ErrOffsetOutOfRange, offset, d.Size())
}

// Slice returns the text of the half-open unit range [from, to).
// Paragraph breaks inside the range appear as "\n".
func (d *Document) Slice(from, to int) (string, error) {
	if from > to {
		return "", fmt.Errorf("%w: [%d, %d)", ErrRangeInvalid, from, to)
	}
	if from < 0 || to > d.Size() {
		return "", fmt.Errorf("%w: [%d, %d) (size %d)", ErrOffsetOutOfRange, from, to, d.Size())
	}
	var b strings.Builder
	start := 0
	for _, p := range d.paragraphs {
		end := start + p.Size()
		if end <= from {
			start = end
			continue
		}
		if start >= to {
			break
		}
		lo := max(from-start, 0)
		hi := min(to-start, p.Size())
		textHi := min(hi, p.units)
		if lo < textHi {
			b.WriteString(p.text[unitByteOffset(p.text, lo):unitByteOffset(p.text, textHi)])
		}
		if hi > p.units {
			b.WriteByte('\n')
		}
		start = end
	}
	return b.String(), nil
}

// Change describes an applied edit in whole units: the units
// [From, From+OldLen) of the old document, whose text was OldText, became
// the units [From, From+NewLen) of the new one. The span can be wider than
// the edited range when the edit joins or splits grapheme clusters.
type Change struct {
	From    int
	OldLen  int
	NewLen  int
	OldText string
}

// Delta returns the change in document size.
func (c Change) Delta() int {
	return c.NewLen - c.OldLen
}

// Insert inserts text before the unit at offset and returns the number of
// units the document grew by. "\n" in text splits the paragraph.
func (d *Document) Insert(offset int, text string) (int, error) {
	if offset < 0 || offset >= d.Size() {
		return 0, fmt.Errorf("%w: insert at %d (size %d)", ErrOffsetOutOfRange, offset, d.Size())
	}
	c, err := d.Replace(offset, offset, text)
	if err != nil {
		return 0, err
	}
	return c.Delta(), nil
}

// Delete removes the half-open unit range [from, to) and returns the
// removed text. Deleting a paragraph break merges two paragraphs; the
// document's final break cannot be removed.
func (d *Document) Delete(from, to int) (string, error) {
	removed, err := d.Slice(from, to)
	if err != nil {
		return "", err
	}
	if _, err := d.Replace(from, to, ""); err != nil {
		return "", err
	}
	return removed, nil
}

// Replace swaps the units in [from, to) for text and reports the change.
// An empty range inserts; empty text deletes.
func (d *Document) Replace(from, to int, text string) (Change, error) {
	if from > to {
		return Change{}, fmt.Errorf("%w: [%d, %d)", ErrRangeInvalid, from, to)
	}
	size := d.Size()
	if from < 0 || to > size || (from == to && to == size) {
		return Change{}, fmt.Errorf("%w: replace [%d, %d) (size %d)", ErrOffsetOutOfRange, from, to, size)
	}
	if to == size {
		return Change{}, fmt.Errorf("%w: delete [%d, %d)", ErrFinalBreak, from, to)
	}
	if from == to && text == "" {
		return Change{From: from}, nil
	}

	i, u, err := d.Locate(from)
	if err != nil {
		return Change{}, err
	}
	j, v, err := d.Locate(to)
	if err != nil {
		return Change{}, err
	}
	first, last := d.paragraphs[i], d.paragraphs[j]

	texts := make([]string, 0, j-i+1)
	for _, p := range d.paragraphs[i : j+1] {
		texts = append(texts, p.text)
	}
	old := strings.Join(texts, "\n")
	next := first.text[:unitByteOffset(first.text, u)] +
		strings.ReplaceAll(text, "\r\n", "\n") +
		last.text[unitByteOffset(last.text, v):]

	lines := strings.Split(next, "\n")
	repl := make([]*Paragraph, len(lines))
	for k, line := range lines {
		repl[k] = d.newParagraph(line)
	}
	d.replace(i, j+1, repl)

	before := flatUnits(old)
	c := diffUnits(before, flatUnits(next), u, len(before)-u-(to-from))
	c.From += from - u
	return c, nil
}

// flatUnits splits text holding paragraph breaks into units, with each
// break as a "\n" unit.
func flatUnits(text string) []string {
	var out []string
	for k, line := range strings.Split(text, "\n") {
		if k > 0 {
			out = append(out, "\n")
		}
		out = append(out, Units(line)...)
	}
	return out
}

// diffUnits trims the units a and b share at both ends, at most head units
// from the front and tail from the back, so the span stays around the edit
// when its text repeats a neighbour. From is relative to the start of a.
func diffUnits(a, b []string, head, tail int) Change {
	p := 0
	for p < head && p < len(a) && p < len(b) && a[p] == b[p] {
		p++
	}
	q := 0
	for q < tail && q < len(a)-p && q < len(b)-p && a[len(a)-1-q] == b[len(b)-1-q] {
		q++
	}
	return Change{
		From:    p,
		OldLen:  len(a) - p - q,
		NewLen:  len(b) - p - q,
		OldText: strings.Join(a[p:len(a)-q], ""),
	}
}

// replace swaps paragraphs [i, j) for repl.
func (d *Document) replace(i, j int, repl []*Paragraph) {
	out := make([]*Paragraph, 0, len(d.paragraphs)-(j-i)+len(repl))
	out = append(out, d.paragraphs[:i]...)
	out = append(out, repl...)
	out = append(out, d.paragraphs[j:]...)
	d.paragraphs = out
}
