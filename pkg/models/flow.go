package models

import (
	"strings"
	"time"
)

// FlowStatus represents the lifecycle state of a flow document.
type FlowStatus string

const (
	FlowStatusDraft     FlowStatus = "draft"     // Editable in the builder
	FlowStatusPublished FlowStatus = "published" // Served to the messaging platform
)

// Connection connects two node ports on the canvas.
type Connection struct {
	ID         string `json:"id"`
	SourcePort string `json:"source_port" validate:"required"` // "{node_id}:{port_name}"
	TargetPort string `json:"target_port" validate:"required"` // "{node_id}:{port_name}"
}

// Flow is a conversational flow document: the nodes placed on the canvas and
// the connections between them.
type Flow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Status      FlowStatus     `json:"status"      validate:"required"`
	Nodes       []*Node        `json:"nodes"`
	Connections []*Connection  `json:"connections"`
	Variables   map[string]any `json:"variables,omitempty"`
	Owner       string         `json:"owner"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// ParsePortID splits a "{node_id}:{port_name}" port identifier.
func ParsePortID(portID string) (nodeID, portName string, ok bool) {
	nodeID, portName, ok = strings.Cut(portID, ":")
	if !ok || nodeID == "" || portName == "" {
		return "", "", false
	}

	return nodeID, portName, true
}

// NodeByID returns the node with the given ID, or nil when absent.
func (f *Flow) NodeByID(id string) *Node {
	for _, node := range f.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}
