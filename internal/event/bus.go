package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/loom/internal/event/topic"
)

// Handler processes an event.
type Handler func(ctx context.Context, e Event) error

// PanicHandler is called when a handler panics, after recovery.
type PanicHandler func(e Event, recovered any)

// Subscription identifies a registered handler.
type Subscription struct {
	id      string
	pattern topic.Topic
}

// ID returns the subscription identifier.
func (s Subscription) ID() string { return s.id }

// Topic returns the subscribed pattern.
func (s Subscription) Topic() topic.Topic { return s.pattern }

type subscriber struct {
	Subscription
	handler Handler
}

// Stats holds bus statistics.
type Stats struct {
	Subscriptions int
	Published     uint64
	Delivered     uint64
	Errors        uint64
	Panics        uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets a function notified of recovered handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.onPanic = h
	}
}

// Bus delivers events synchronously to matching subscribers.
// Subscribe and Unsubscribe are safe to call from handlers.
type Bus struct {
	mu          sync.RWMutex
	subscribers []subscriber
	onPanic     PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
	errors    atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates a bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for events whose topic matches pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler) (Subscription, error) {
	if !pattern.IsValid() {
		return Subscription{}, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if handler == nil {
		return Subscription{}, ErrNilHandler
	}
	sub := Subscription{id: uuid.NewString(), pattern: pattern}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscriber{Subscription: sub, handler: handler})
	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subscribers {
		if s.id == sub.id {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers e to every matching subscriber in subscription order and
// returns the joined handler errors.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if !e.Topic.IsValid() || e.Topic.IsWildcard() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, e.Topic)
	}
	b.published.Add(1)

	b.mu.RLock()
	subs := make([]subscriber, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		if e.Topic.Matches(s.pattern) {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := b.deliver(ctx, s, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, s subscriber, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			if b.onPanic != nil {
				b.onPanic(e, r)
			}
			err = &PanicError{SubscriptionID: s.id, Topic: e.Topic, Value: r}
		}
	}()

	b.delivered.Add(1)
	if herr := s.handler(ctx, e); herr != nil {
		b.errors.Add(1)
		return &HandlerError{SubscriptionID: s.id, Topic: e.Topic, Err: herr}
	}
	return nil
}

// Stats returns bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subscribers)
	b.mu.RUnlock()
	return Stats{
		Subscriptions: n,
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		Errors:        b.errors.Load(),
		Panics:        b.panics.Load(),
	}
}
