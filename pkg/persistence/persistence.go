// Package persistence provides the storage abstraction for flow documents.
package persistence

import (
	"context"

	"github.com/chatflowhq/chatflow/pkg/models"
)

// ListFlowsOptions filters, sorts and pages flow listings.
type ListFlowsOptions struct {
	OwnerID   string
	Status    *models.FlowStatus
	Limit     int
	Offset    int
	SortBy    string // created_at, updated_at, name
	SortOrder string // asc, desc
}

// FlowListResult carries one page of flows plus paging metadata.
type FlowListResult struct {
	Flows       []*models.Flow
	TotalCount  int64
	HasNextPage bool
}

// FlowRepository stores and retrieves flow documents.
type FlowRepository interface {
	ListFlows(ctx context.Context, opts ListFlowsOptions) (*FlowListResult, error)
	GetByID(ctx context.Context, id string) (*models.Flow, error)
	Save(ctx context.Context, flow *models.Flow) error
	Delete(ctx context.Context, id string) error
}

// Persistence is the storage backend the builder runs against.
type Persistence interface {
	FlowRepository() FlowRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
