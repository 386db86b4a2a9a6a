// Package content provides the document content model that the layout tree
// is built from.
//
// A Document is an ordered list of paragraphs. Every paragraph contributes
// its grapheme clusters plus one trailing paragraph-break unit to the
// document's flat selectable-offset space, so a document always spans at
// least one unit:
//
//	"ab\ncd"  ->  a b ¶ c d ¶   (size 6)
//
// Paragraph values are immutable. Edits replace the affected paragraphs
// with fresh values stamped with a new version, which lets the layout
// engine reuse work for paragraphs that did not change.
package content
