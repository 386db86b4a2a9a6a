// Package event provides a synchronous publish/subscribe bus.
//
// Handlers subscribe to topic patterns and run on the publisher's
// goroutine, in subscription order, before Publish returns:
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("engine.cursor.*", func(ctx context.Context, e event.Event) error {
//		c := e.Payload.(engine.CursorChanged)
//		...
//		return nil
//	})
//	defer bus.Unsubscribe(sub)
//
// Handler errors are collected and returned from Publish. A panicking
// handler is recovered and reported as a *PanicError.
package event
