// Package testutil provides test data builders.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/chatflowhq/chatflow/pkg/models"
)

// CreateTestNode creates a test node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:        uuid.New().String(),
		Kind:      models.NodeKindMessage,
		Label:     "Test Node",
		Data:      map[string]any{"text": "hello"},
		PositionX: 100,
		PositionY: 200,
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithKind sets the node kind and clears the data map, since defaults for one
// kind rarely decode into another.
func WithKind(kind models.NodeKind) func(*models.Node) {
	return func(n *models.Node) {
		n.Kind = kind
		n.Data = map[string]any{}
	}
}

// WithData sets the node's raw configuration.
func WithData(data map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Data = data
	}
}

// WithLabel sets the node label.
func WithLabel(label string) func(*models.Node) {
	return func(n *models.Node) {
		n.Label = label
	}
}

// WithPosition sets the node's canvas position.
func WithPosition(x, y int) func(*models.Node) {
	return func(n *models.Node) {
		n.PositionX = x
		n.PositionY = y
	}
}

// CreateTestFlow creates a draft flow containing the given nodes.
func CreateTestFlow(nodes ...*models.Node) *models.Flow {
	now := time.Now().UTC()

	return &models.Flow{
		ID:          uuid.New().String(),
		Name:        "Test Flow",
		Description: "flow used in tests",
		Status:      models.FlowStatusDraft,
		Nodes:       nodes,
		Connections: []*models.Connection{},
		Owner:       "tester",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
