package eventbus

import (
	"context"

	"github.com/google/uuid"

	"github.com/chatflowhq/chatflow/pkg/events"
)

// Dispatcher is the in-process event bus the workspace runs on. Publish
// invokes every current subscriber for the event's type, in subscription
// order, before returning. Publishing with zero subscribers is a no-op.
// It is built for the single-threaded UI event loop and does no locking.
type Dispatcher struct {
	handlers map[events.EventType][]EventHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[events.EventType][]EventHandler),
	}
}

func (d *Dispatcher) GenerateID() string {
	return uuid.New().String()
}

// Publish delivers the event synchronously. Handler errors do not stop
// delivery to later subscribers; there is no acknowledgement.
func (d *Dispatcher) Publish(ctx context.Context, _ string, event Event) error {
	for _, handler := range d.handlers[event.GetType()] {
		_ = handler(ctx, event)
	}

	return nil
}

// Handle appends a subscriber for the given event type.
func (d *Dispatcher) Handle(eventType events.EventType, handler EventHandler) error {
	d.handlers[eventType] = append(d.handlers[eventType], handler)

	return nil
}

// Subscribe is a no-op: dispatch happens inline on Publish.
func (d *Dispatcher) Subscribe(_ context.Context) error {
	return nil
}

func (d *Dispatcher) Close() error {
	d.handlers = make(map[events.EventType][]EventHandler)

	return nil
}
