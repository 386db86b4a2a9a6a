package journal

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/event"
)

// Writer appends entries to an io.Writer, one line each. It is safe for
// concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

// NewWriter creates a writer over w. The caller owns w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Record appends e.
func (w *Writer) Record(e Entry) error {
	line, err := Encode(e)
	if err != nil {
		return fmt.Errorf("journal: encode %s: %w", e.Command, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(line); err != nil {
		return fmt.Errorf("journal: write: %w", err)
	}
	w.n++
	return nil
}

// Count returns the number of entries written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Subscribe records every transformation the engine publishes on bus.
// Entries take the event's ID and timestamp.
func (w *Writer) Subscribe(bus *event.Bus) (event.Subscription, error) {
	return bus.Subscribe(engine.TopicTransformationApplied, func(_ context.Context, ev event.Event) error {
		applied, ok := ev.Payload.(engine.TransformationApplied)
		if !ok {
			return fmt.Errorf("journal: unexpected payload %T", ev.Payload)
		}
		return w.Record(Entry{
			ID:       ev.ID,
			Command:  applied.Name,
			Time:     ev.Timestamp.UTC(),
			Document: applied.Document,
			Cursor:   applied.Cursor,
		})
	})
}
