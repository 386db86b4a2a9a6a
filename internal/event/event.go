package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/loom/internal/event/topic"
)

// Event is a published notification. Events are immutable once created.
type Event struct {
	// ID uniquely identifies this event instance.
	ID string

	// Topic is the hierarchical event type.
	Topic topic.Topic

	// Payload carries the event-specific data.
	Payload any

	// Source identifies the publisher.
	Source string

	// Timestamp is when the event was created.
	Timestamp time.Time
}

// New creates an event with a fresh ID.
func New(t topic.Topic, payload any, source string) Event {
	return Event{
		ID:        uuid.NewString(),
		Topic:     t,
		Payload:   payload,
		Source:    source,
		Timestamp: time.Now(),
	}
}
