package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/registry"
)

// Horizontal offset applied to a duplicated node so it does not cover the
// original on the canvas.
const duplicateOffset = 40

// CreateNodeRequest represents the request to create a new canvas node.
type CreateNodeRequest struct {
	Kind      string
	Label     string
	Data      map[string]any
	PositionX int
	PositionY int
}

// UpdateNodeRequest represents the request to update an existing canvas node.
type UpdateNodeRequest struct {
	Label     string
	Data      map[string]any
	PositionX int
	PositionY int
	Minimized bool
}

// Node handles node-related business operations on flow documents.
type Node struct {
	persistence persistence.Persistence
	registry    *registry.Registry
}

// NewNode creates a new node service.
func NewNode(persistence persistence.Persistence, registry *registry.Registry) *Node {
	return &Node{
		persistence: persistence,
		registry:    registry,
	}
}

// CreateNode adds a node to the specified flow.
func (n *Node) CreateNode(ctx context.Context, flowID string, req *CreateNodeRequest) (*models.Node, error) {
	flow, err := n.draftFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}

	kind := models.NodeKind(req.Kind)
	if !kind.Valid() {
		return nil, NewValidationError("CreateNode", "INVALID_NODE_KIND",
			fmt.Sprintf("unknown node kind '%s'", req.Kind), ErrInvalidNodeKind)
	}

	if req.Data == nil {
		req.Data = make(map[string]any)
	}

	err = n.registry.ValidateRawConfig(kind, req.Data)
	if err != nil {
		return nil, NewValidationError("CreateNode", "INVALID_NODE_CONFIG", err.Error(), ErrInvalidRequest)
	}

	node := &models.Node{
		ID:        uuid.New().String(),
		Kind:      kind,
		Label:     req.Label,
		Data:      req.Data,
		PositionX: req.PositionX,
		PositionY: req.PositionY,
	}

	flow.Nodes = append(flow.Nodes, node)

	err = n.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return nil, fmt.Errorf("failed to save node: %w", err)
	}

	return node, nil
}

// GetNode retrieves a specific node from the specified flow.
func (n *Node) GetNode(ctx context.Context, flowID, nodeID string) (*models.Node, error) {
	flow, err := n.persistence.FlowRepository().GetByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	node := flow.NodeByID(nodeID)
	if node == nil {
		return nil, persistence.NewFlowError("GetNode", flowID, persistence.ErrNodeNotFound)
	}

	return node, nil
}

// UpdateNode updates an existing node in the specified flow. Kind is
// preserved; the panel changes configuration, never the node's kind.
func (n *Node) UpdateNode(ctx context.Context, flowID, nodeID string, req *UpdateNodeRequest) (*models.Node, error) {
	flow, err := n.draftFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}

	node := flow.NodeByID(nodeID)
	if node == nil {
		return nil, persistence.NewFlowError("UpdateNode", flowID, persistence.ErrNodeNotFound)
	}

	if req.Data == nil {
		req.Data = make(map[string]any)
	}

	err = n.registry.ValidateRawConfig(node.Kind, req.Data)
	if err != nil {
		return nil, NewValidationError("UpdateNode", "INVALID_NODE_CONFIG", err.Error(), ErrInvalidRequest)
	}

	node.Label = req.Label
	node.Data = req.Data
	node.PositionX = req.PositionX
	node.PositionY = req.PositionY
	node.Minimized = req.Minimized

	err = n.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return nil, fmt.Errorf("failed to update node: %w", err)
	}

	return node, nil
}

// DeleteNode removes a node and every connection touching it.
func (n *Node) DeleteNode(ctx context.Context, flowID, nodeID string) error {
	flow, err := n.draftFlow(ctx, flowID)
	if err != nil {
		return err
	}

	found := false
	kept := make([]*models.Node, 0, len(flow.Nodes))

	for _, node := range flow.Nodes {
		if node.ID == nodeID {
			found = true

			continue
		}

		kept = append(kept, node)
	}

	if !found {
		return persistence.NewFlowError("DeleteNode", flowID, persistence.ErrNodeNotFound)
	}

	flow.Nodes = kept
	flow.Connections = pruneConnections(flow.Connections, nodeID)

	err = n.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	return nil
}

// DuplicateNode copies a node's configuration into a new node placed beside
// the original. Connections are not copied.
func (n *Node) DuplicateNode(ctx context.Context, flowID, nodeID string) (*models.Node, error) {
	flow, err := n.draftFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}

	source := flow.NodeByID(nodeID)
	if source == nil {
		return nil, persistence.NewFlowError("DuplicateNode", flowID, persistence.ErrNodeNotFound)
	}

	// Deep-copy the data map through the typed config
	config, err := models.ExtractConfig(source.Kind, source.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to copy node configuration: %w", err)
	}

	data, err := models.ConfigToMap(config.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to copy node configuration: %w", err)
	}

	duplicate := &models.Node{
		ID:        uuid.New().String(),
		Kind:      source.Kind,
		Label:     source.Label,
		Data:      data,
		PositionX: source.PositionX + duplicateOffset,
		PositionY: source.PositionY + duplicateOffset,
		Minimized: source.Minimized,
	}

	flow.Nodes = append(flow.Nodes, duplicate)

	err = n.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return nil, fmt.Errorf("failed to save duplicated node: %w", err)
	}

	return duplicate, nil
}

// ToggleMinimize flips or sets a node's minimized state on the canvas.
func (n *Node) ToggleMinimize(ctx context.Context, flowID, nodeID string, minimized bool) error {
	flow, err := n.draftFlow(ctx, flowID)
	if err != nil {
		return err
	}

	node := flow.NodeByID(nodeID)
	if node == nil {
		return persistence.NewFlowError("ToggleMinimize", flowID, persistence.ErrNodeNotFound)
	}

	node.Minimized = minimized

	err = n.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return fmt.Errorf("failed to update node: %w", err)
	}

	return nil
}

// UpdateLabel renames a node on the canvas.
func (n *Node) UpdateLabel(ctx context.Context, flowID, nodeID, label string) error {
	flow, err := n.draftFlow(ctx, flowID)
	if err != nil {
		return err
	}

	node := flow.NodeByID(nodeID)
	if node == nil {
		return persistence.NewFlowError("UpdateLabel", flowID, persistence.ErrNodeNotFound)
	}

	node.Label = label

	err = n.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return fmt.Errorf("failed to update node: %w", err)
	}

	return nil
}

// draftFlow loads a flow and refuses modifications when it is published.
func (n *Node) draftFlow(ctx context.Context, flowID string) (*models.Flow, error) {
	flow, err := n.persistence.FlowRepository().GetByID(ctx, flowID)
	if err != nil {
		if persistence.IsFlowNotFound(err) {
			return nil, persistence.ErrFlowNotFound
		}

		return nil, fmt.Errorf("failed to get flow: %w", err)
	}

	if flow == nil {
		return nil, persistence.ErrFlowNotFound
	}

	if flow.Status != models.FlowStatusDraft {
		return nil, ErrCannotModifyPublished
	}

	return flow, nil
}

func pruneConnections(connections []*models.Connection, nodeID string) []*models.Connection {
	kept := make([]*models.Connection, 0, len(connections))

	for _, connection := range connections {
		sourceNode, _, _ := models.ParsePortID(connection.SourcePort)
		targetNode, _, _ := models.ParsePortID(connection.TargetPort)

		if sourceNode == nodeID || targetNode == nodeID {
			continue
		}

		kept = append(kept, connection)
	}

	return kept
}
