package eventbus

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatflowhq/chatflow/pkg/events"
	"github.com/chatflowhq/chatflow/pkg/otelhelper"
)

// WatermillEventBus carries canvas events across process boundaries, so a
// builder API instance can mirror panel actions to other workspace sessions.
// The in-process Dispatcher remains the bus the open panel itself runs on.
type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	tracer        trace.Tracer
	subscriptions map[events.EventType][]EventHandler
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		tracer:        otel.Tracer("chatflow.eventbus"),
		subscriptions: make(map[events.EventType][]EventHandler),
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	propagator := otel.GetTextMapPropagator()
	carrier := propagation.MapCarrier{}
	propagator.Inject(ctx, carrier)

	for headerKey, value := range carrier {
		msg.Metadata.Set(headerKey, value)
	}

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eb.consume(ctx, msg)
		}
	}()

	return nil
}

func (eb *WatermillEventBus) consume(ctx context.Context, msg *message.Message) {
	eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

	handlers, exists := eb.subscriptions[eventType]
	if !exists {
		msg.Ack()

		return
	}

	carrier := propagation.MapCarrier{}
	for headerKey, value := range msg.Metadata {
		carrier[headerKey] = value
	}

	propagator := otel.GetTextMapPropagator()
	msgCtx := propagator.Extract(ctx, carrier)

	traceCtx, span := otelhelper.StartSpan(msgCtx, eb.tracer, "eventbus.consume",
		attribute.String(otelhelper.EventIDKey, msg.UUID),
		attribute.String("chatflow.event.type", string(eventType)),
	)
	defer span.End()

	event, ok := decodeEvent(eventType)
	if !ok {
		otelhelper.SetError(span, errors.New("unknown event type"))
		msg.Nack()

		return
	}

	err := json.Unmarshal(msg.Payload, event)
	if err != nil {
		otelhelper.SetError(span, err)
		msg.Nack()

		return
	}

	failed := false

	for _, handler := range handlers {
		if err := handler(context.WithoutCancel(traceCtx), event); err != nil {
			otelhelper.SetError(span, err)

			failed = true
		}
	}

	if failed {
		msg.Nack()

		return
	}

	span.AddEvent("event_handled")
	msg.Ack()
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	eb.subscriptions[eventType] = append(eb.subscriptions[eventType], handler)

	return nil
}

func (eb *WatermillEventBus) Close() error {
	err := eb.publisher.Close()
	if err != nil {
		return err
	}

	return eb.subscriber.Close()
}

func decodeEvent(eventType events.EventType) (any, bool) {
	switch eventType {
	case events.NodeDeleteEvent:
		return &events.DeleteNode{}, true
	case events.NodeDuplicateEvent:
		return &events.DuplicateNode{}, true
	case events.NodeMinimizeToggleEvent:
		return &events.ToggleNodeMinimize{}, true
	case events.NodeEditEvent:
		return &events.EditNode{}, true
	case events.NodeLabelUpdateEvent:
		return &events.UpdateNodeLabel{}, true
	default:
		return nil, false
	}
}
