package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
)

// ErrFlowNotFound is returned when a flow is not found.
var ErrFlowNotFound = persistence.ErrFlowNotFound

type Flow struct {
	persistence persistence.Persistence
}

// NewFlow creates a new flow service.
func NewFlow(persistence persistence.Persistence) *Flow {
	return &Flow{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (f *Flow) HealthCheck(ctx context.Context) (string, bool) {
	if f.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := f.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListFlowsRequest contains options for listing flows.
type ListFlowsRequest struct {
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`

	OwnerID string
	Status  *models.FlowStatus

	SortBy    string `validate:"oneof=created_at updated_at name"`
	SortOrder string `validate:"oneof=asc desc"`
}

// ListFlowsResponse contains the result of listing flows.
type ListFlowsResponse struct {
	Flows       []*models.Flow `json:"flows"`
	TotalCount  int64          `json:"total_count"`
	HasNextPage bool           `json:"has_next_page"`
}

// ListFlows retrieves flows with filtering, sorting, and pagination.
func (f *Flow) ListFlows(ctx context.Context, req ListFlowsRequest) (*ListFlowsResponse, error) {
	err := f.validateListFlowsRequest(&req)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	opts := persistence.ListFlowsOptions{
		Limit:     req.Limit,
		Offset:    req.Offset,
		OwnerID:   req.OwnerID,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	result, err := f.persistence.FlowRepository().ListFlows(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	return &ListFlowsResponse{
		Flows:       result.Flows,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

// validateListFlowsRequest validates and sets defaults for the request.
func (f *Flow) validateListFlowsRequest(req *ListFlowsRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "name"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListFlowsRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListFlowsRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.Status != nil {
		allowedStatuses := []models.FlowStatus{
			models.FlowStatusDraft,
			models.FlowStatusPublished,
		}

		if !slices.Contains(allowedStatuses, *req.Status) {
			return NewValidationError(
				"validateListFlowsRequest",
				"INVALID_STATUS",
				fmt.Sprintf("invalid status '%s'", *req.Status),
				ErrInvalidStatus,
			)
		}
	}

	if req.OwnerID != "" {
		req.OwnerID = strings.TrimSpace(req.OwnerID)
		if req.OwnerID == "" {
			return ErrEmptyOwnerID
		}
	}

	return nil
}

// FetchByID retrieves a flow by its ID.
func (f *Flow) FetchByID(ctx context.Context, id string) (*models.Flow, error) {
	flow, err := f.persistence.FlowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if flow == nil {
		return nil, ErrFlowNotFound
	}

	return flow, nil
}

// Create adds a new flow to the repository.
func (f *Flow) Create(ctx context.Context, flow *models.Flow) (*models.Flow, error) {
	now := time.Now().UTC()
	flow.ID = uuid.New().String()
	flow.CreatedAt = now
	flow.UpdatedAt = now

	if flow.Status == "" {
		flow.Status = models.FlowStatusDraft
	}

	if flow.Nodes == nil {
		flow.Nodes = make([]*models.Node, 0)
	}

	if flow.Connections == nil {
		flow.Connections = make([]*models.Connection, 0)
	}

	err := f.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return nil, fmt.Errorf("failed to create flow: %w", err)
	}

	return flow, nil
}

// Update modifies an existing flow by its ID.
func (f *Flow) Update(ctx context.Context, flowID string, flow *models.Flow) (*models.Flow, error) {
	existing, err := f.persistence.FlowRepository().GetByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrFlowNotFound
	}

	flow.ID = flowID
	flow.CreatedAt = existing.CreatedAt
	flow.UpdatedAt = time.Now().UTC()

	err = f.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return nil, fmt.Errorf("failed to update flow: %w", err)
	}

	return flow, nil
}

// Delete removes a flow by its ID.
func (f *Flow) Delete(ctx context.Context, flowID string) error {
	existing, err := f.persistence.FlowRepository().GetByID(ctx, flowID)
	if err != nil {
		return err
	}

	if existing == nil {
		return ErrFlowNotFound
	}

	err = f.persistence.FlowRepository().Delete(ctx, flowID)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}

	return nil
}
