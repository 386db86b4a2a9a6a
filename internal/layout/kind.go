package layout

// Kind identifies a tree level.
type Kind uint8

const (
	// KindDocument is the root.
	KindDocument Kind = iota
	// KindPage is a page inside the document.
	KindPage
	// KindLine is a line-flow box inside a page.
	KindLine
	// KindWord is a leaf: a text word or a paragraph break.
	KindWord
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindPage:
		return "page"
	case KindLine:
		return "line"
	case KindWord:
		return "word"
	default:
		return "unknown"
	}
}

// Depth returns the level's depth below the root.
func (k Kind) Depth() int {
	return int(k)
}

// Child returns the kind of this kind's children. Words have none.
func (k Kind) Child() (Kind, bool) {
	if k >= KindWord {
		return 0, false
	}
	return k + 1, true
}
