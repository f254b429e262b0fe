package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/chatflowhq/chatflow/pkg/channels/gochannel"
	"github.com/chatflowhq/chatflow/pkg/channels/kafka"
	"github.com/chatflowhq/chatflow/pkg/eventbus"
)

// NewEventBus creates the canvas event bus for the given provider. The
// in-process dispatcher is the default; gochannel and kafka carry events
// across workspace sessions.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventBus {
	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "chatflow")
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	case "gochannel":
		pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create GoChannel pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	case "", "dispatcher":
		return eventbus.NewDispatcher()
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
