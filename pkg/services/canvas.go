package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chatflowhq/chatflow/pkg/eventbus"
	"github.com/chatflowhq/chatflow/pkg/events"
)

// Canvas applies panel-originated events to flow documents. It is the
// subscriber side of the canvas event bus; the configuration panel publishes
// and never touches node placement directly.
type Canvas struct {
	nodes  *Node
	logger *slog.Logger
}

// NewCanvas creates the canvas event consumer.
func NewCanvas(nodes *Node, logger *slog.Logger) *Canvas {
	return &Canvas{
		nodes:  nodes,
		logger: logger,
	}
}

// RegisterHandlers subscribes the canvas operations to their event types.
func (c *Canvas) RegisterHandlers(bus eventbus.EventSubscriber) error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.NodeDeleteEvent:         c.handleDeleteNode,
		events.NodeDuplicateEvent:      c.handleDuplicateNode,
		events.NodeMinimizeToggleEvent: c.handleToggleMinimize,
		events.NodeLabelUpdateEvent:    c.handleUpdateLabel,
	}

	for eventType, handler := range handlers {
		err := bus.Handle(eventType, handler)
		if err != nil {
			return fmt.Errorf("failed to register handler for %s: %w", eventType, err)
		}
	}

	return nil
}

func (c *Canvas) handleDeleteNode(ctx context.Context, event any) error {
	deleteNode, ok := event.(*events.DeleteNode)
	if !ok {
		return fmt.Errorf("unexpected event payload %T for %s", event, events.NodeDeleteEvent)
	}

	err := c.nodes.DeleteNode(ctx, deleteNode.FlowID, deleteNode.NodeID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to delete node",
			"flow_id", deleteNode.FlowID, "node_id", deleteNode.NodeID, "error", err)

		return err
	}

	return nil
}

func (c *Canvas) handleDuplicateNode(ctx context.Context, event any) error {
	duplicateNode, ok := event.(*events.DuplicateNode)
	if !ok {
		return fmt.Errorf("unexpected event payload %T for %s", event, events.NodeDuplicateEvent)
	}

	_, err := c.nodes.DuplicateNode(ctx, duplicateNode.FlowID, duplicateNode.NodeID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to duplicate node",
			"flow_id", duplicateNode.FlowID, "node_id", duplicateNode.NodeID, "error", err)

		return err
	}

	return nil
}

func (c *Canvas) handleToggleMinimize(ctx context.Context, event any) error {
	toggle, ok := event.(*events.ToggleNodeMinimize)
	if !ok {
		return fmt.Errorf("unexpected event payload %T for %s", event, events.NodeMinimizeToggleEvent)
	}

	err := c.nodes.ToggleMinimize(ctx, toggle.FlowID, toggle.NodeID, toggle.IsMinimized)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to toggle node minimize",
			"flow_id", toggle.FlowID, "node_id", toggle.NodeID, "error", err)

		return err
	}

	return nil
}

func (c *Canvas) handleUpdateLabel(ctx context.Context, event any) error {
	update, ok := event.(*events.UpdateNodeLabel)
	if !ok {
		return fmt.Errorf("unexpected event payload %T for %s", event, events.NodeLabelUpdateEvent)
	}

	err := c.nodes.UpdateLabel(ctx, update.FlowID, update.NodeID, update.Label)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to update node label",
			"flow_id", update.FlowID, "node_id", update.NodeID, "error", err)

		return err
	}

	return nil
}
