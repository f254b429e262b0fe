package services

import (
	"context"
	"fmt"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/validation"
)

// Publishing handles flow publishing. A flow only publishes when every node
// configuration passes content validation.
type Publishing struct {
	persistence persistence.Persistence
}

// NewPublishing creates a new flow publishing service.
func NewPublishing(persistence persistence.Persistence) *Publishing {
	return &Publishing{
		persistence: persistence,
	}
}

// PublishFlow validates every node in the flow and flips its status to
// published. The first invalid node aborts the publish with its full
// violation list.
func (p *Publishing) PublishFlow(ctx context.Context, flowID string) (*models.Flow, error) {
	flow, err := p.persistence.FlowRepository().GetByID(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flow: %w", err)
	}

	if flow == nil {
		return nil, ErrFlowNotFound
	}

	err = p.validateForPublishing(flow)
	if err != nil {
		return nil, err
	}

	flow.Status = models.FlowStatusPublished

	err = p.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return nil, fmt.Errorf("failed to publish flow: %w", err)
	}

	return flow, nil
}

// UnpublishFlow returns a published flow to draft so it can be edited.
func (p *Publishing) UnpublishFlow(ctx context.Context, flowID string) (*models.Flow, error) {
	flow, err := p.persistence.FlowRepository().GetByID(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flow: %w", err)
	}

	if flow == nil {
		return nil, ErrFlowNotFound
	}

	flow.Status = models.FlowStatusDraft

	err = p.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return nil, fmt.Errorf("failed to unpublish flow: %w", err)
	}

	return flow, nil
}

// validateForPublishing ensures a flow is ready to be published.
func (p *Publishing) validateForPublishing(flow *models.Flow) error {
	if flow == nil {
		return ErrFlowNil
	}

	if flow.Name == "" {
		return ErrFlowNameRequired
	}

	if len(flow.Nodes) == 0 {
		return ErrNodesRequired
	}

	for _, node := range flow.Nodes {
		config, err := models.ExtractConfig(node.Kind, node.Data)
		if err != nil {
			return fmt.Errorf("node %s has an unreadable configuration: %w", node.ID, err)
		}

		violations := validation.Validate(config)
		if !violations.OK() {
			return &NodeValidationError{
				NodeID:     node.ID,
				Kind:       node.Kind,
				Violations: violations,
			}
		}
	}

	return nil
}
