// Package eventbus decouples the configuration panel from the canvas through
// tagged-message publish/subscribe.
package eventbus

import (
	"context"

	"github.com/chatflowhq/chatflow/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

// EventHandler consumes one event. Delivery is fire-and-forget; the returned
// error only drives redelivery on brokered transports and is ignored by the
// in-process dispatcher.
type EventHandler func(ctx context.Context, event any) error

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
