// Package outbox declares the in-process event fan-out the use cases publish to.
package outbox

import "context"

// Event names the fact it carries, e.g. "request.resolved".
type Event interface {
	EventName() string
}

type Handler func(ctx context.Context, e Event) error

// Middleware decorates a handler before it is subscribed.
type Middleware func(Handler) Handler

// Apply wraps h so the first middleware runs outermost. Nil entries are skipped.
func Apply(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber registers a handler under an event name. Several handlers may share a name.
type Subscriber interface {
	Subscribe(eventName string, h Handler)
}
