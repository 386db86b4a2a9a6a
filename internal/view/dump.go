package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/loom/internal/engine"
)

// Dump writes the layout of e as text: one row per line with its page,
// offset range, rectangle and content, followed by the cursor when one is
// attached. It serves non-interactive use where no terminal is available.
func Dump(w io.Writer, e *engine.Engine) error {
	tree := e.Tree()
	if tree == nil {
		_, err := fmt.Fprintln(w, "no document")
		return err
	}

	stats := e.LayoutStats()
	if _, err := fmt.Fprintf(w, "size %d, %d pages, %d lines\n", tree.Size(), stats.Pages, stats.Lines); err != nil {
		return err
	}
	for i, line := range tree.Lines() {
		rect, err := e.LineRect(line)
		if err != nil {
			return err
		}
		var text strings.Builder
		for _, word := range line.Words() {
			if word.Break() {
				text.WriteString("¶")
				continue
			}
			text.WriteString(word.Text())
		}
		_, err = fmt.Fprintf(w, "p%d l%d [%d..%d] %s %q\n",
			line.Page().Index(), i, line.Start(), line.End(), rect, text.String())
		if err != nil {
			return err
		}
	}

	if c, ok := e.Cursor(); ok {
		if _, err := fmt.Fprintf(w, "cursor %s\n", c); err != nil {
			return err
		}
	}
	return nil
}
