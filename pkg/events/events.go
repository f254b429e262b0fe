// Package events defines the canvas event types exchanged between the
// configuration panel and the canvas that owns node placement.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/chatflowhq/chatflow/pkg/models"
)

type EventType string

// Topic carries canvas events when the bus runs over a broker.
const Topic = "chatflow.canvas"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	NodeDeleteEvent         EventType = "node.delete"
	NodeDuplicateEvent      EventType = "node.duplicate"
	NodeMinimizeToggleEvent EventType = "node.minimize.toggle"
	NodeEditEvent           EventType = "node.edit"
	NodeLabelUpdateEvent    EventType = "node.label.update"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	FlowID    string    `json:"flow_id,omitempty"`
}

// DeleteNode asks the canvas to remove a node and its connections.
type DeleteNode struct {
	BaseEvent

	NodeID string `json:"node_id"`
}

func (e DeleteNode) GetType() EventType {
	return NodeDeleteEvent
}

// DuplicateNode asks the canvas to clone a node next to the original.
type DuplicateNode struct {
	BaseEvent

	NodeID string `json:"node_id"`
}

func (e DuplicateNode) GetType() EventType {
	return NodeDuplicateEvent
}

// ToggleNodeMinimize collapses or expands a node on the canvas.
type ToggleNodeMinimize struct {
	BaseEvent

	NodeID      string `json:"node_id"`
	IsMinimized bool   `json:"is_minimized"`
}

func (e ToggleNodeMinimize) GetType() EventType {
	return NodeMinimizeToggleEvent
}

// EditNode asks the workspace to open the configuration panel for a node.
type EditNode struct {
	BaseEvent

	NodeID string          `json:"node_id"`
	Kind   models.NodeKind `json:"kind"`
}

func (e EditNode) GetType() EventType {
	return NodeEditEvent
}

// UpdateNodeLabel renames a node on the canvas.
type UpdateNodeLabel struct {
	BaseEvent

	NodeID string `json:"node_id"`
	Label  string `json:"label"`
}

func (e UpdateNodeLabel) GetType() EventType {
	return NodeLabelUpdateEvent
}

func NewBaseEvent(eventType EventType, flowID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		FlowID:    flowID,
	}
}
