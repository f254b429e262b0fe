package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflowhq/chatflow/pkg/events"
)

func TestDispatcher_DeliversSynchronouslyInSubscriptionOrder(t *testing.T) {
	dispatcher := NewDispatcher()

	var order []string

	require.NoError(t, dispatcher.Handle(events.NodeDeleteEvent, func(_ context.Context, _ any) error {
		order = append(order, "first")

		return nil
	}))
	require.NoError(t, dispatcher.Handle(events.NodeDeleteEvent, func(_ context.Context, _ any) error {
		order = append(order, "second")

		return nil
	}))

	event := &events.DeleteNode{
		BaseEvent: events.NewBaseEvent(events.NodeDeleteEvent, "flow-1"),
		NodeID:    "node-1",
	}

	err := dispatcher.Publish(context.Background(), "node-1", event)
	require.NoError(t, err)

	// Publish returns only after every handler ran, in subscription order.
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcher_ZeroSubscribersIsNoOp(t *testing.T) {
	dispatcher := NewDispatcher()

	event := &events.DuplicateNode{
		BaseEvent: events.NewBaseEvent(events.NodeDuplicateEvent, "flow-1"),
		NodeID:    "node-1",
	}

	assert.NoError(t, dispatcher.Publish(context.Background(), "node-1", event))
}

func TestDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewDispatcher()

	secondRan := false

	require.NoError(t, dispatcher.Handle(events.NodeLabelUpdateEvent, func(_ context.Context, _ any) error {
		return errors.New("handler failure")
	}))
	require.NoError(t, dispatcher.Handle(events.NodeLabelUpdateEvent, func(_ context.Context, _ any) error {
		secondRan = true

		return nil
	}))

	event := &events.UpdateNodeLabel{
		BaseEvent: events.NewBaseEvent(events.NodeLabelUpdateEvent, "flow-1"),
		NodeID:    "node-1",
		Label:     "Renamed",
	}

	err := dispatcher.Publish(context.Background(), "node-1", event)
	require.NoError(t, err)
	assert.True(t, secondRan)
}

func TestDispatcher_RoutesByEventType(t *testing.T) {
	dispatcher := NewDispatcher()

	var received []events.EventType

	require.NoError(t, dispatcher.Handle(events.NodeDeleteEvent, func(_ context.Context, event any) error {
		received = append(received, event.(Event).GetType())

		return nil
	}))

	deleteEvent := &events.DeleteNode{
		BaseEvent: events.NewBaseEvent(events.NodeDeleteEvent, "flow-1"),
		NodeID:    "node-1",
	}
	toggleEvent := &events.ToggleNodeMinimize{
		BaseEvent:   events.NewBaseEvent(events.NodeMinimizeToggleEvent, "flow-1"),
		NodeID:      "node-1",
		IsMinimized: true,
	}

	require.NoError(t, dispatcher.Publish(context.Background(), "node-1", deleteEvent))
	require.NoError(t, dispatcher.Publish(context.Background(), "node-1", toggleEvent))

	assert.Equal(t, []events.EventType{events.NodeDeleteEvent}, received)
}

func TestDispatcher_CloseDropsSubscribers(t *testing.T) {
	dispatcher := NewDispatcher()

	called := false

	require.NoError(t, dispatcher.Handle(events.NodeEditEvent, func(_ context.Context, _ any) error {
		called = true

		return nil
	}))
	require.NoError(t, dispatcher.Close())

	event := &events.EditNode{
		BaseEvent: events.NewBaseEvent(events.NodeEditEvent, "flow-1"),
		NodeID:    "node-1",
	}

	require.NoError(t, dispatcher.Publish(context.Background(), "node-1", event))
	assert.False(t, called)
}

func TestDispatcher_GenerateID(t *testing.T) {
	dispatcher := NewDispatcher()

	first := dispatcher.GenerateID()
	second := dispatcher.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
