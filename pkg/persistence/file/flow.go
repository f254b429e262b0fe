package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
)

// FlowRepository handles flow-related file operations.
type FlowRepository struct {
	root string
}

// NewFlowRepository creates a new flow repository.
func NewFlowRepository(root string) *FlowRepository {
	return &FlowRepository{root: root}
}

func (fr *FlowRepository) flowsDir() string {
	return path.Join(fr.root, "flows")
}

func (fr *FlowRepository) flowPath(id string) string {
	return path.Join(fr.flowsDir(), id+".json")
}

// ListFlows returns paginated and filtered flows with in-memory operations.
func (fr *FlowRepository) ListFlows(ctx context.Context, opts persistence.ListFlowsOptions) (*persistence.FlowListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("invalid sort field: %s", opts.SortBy)
	}

	root := os.DirFS(fr.flowsDir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list flow files: %w", err)
	}

	allFlows := make([]*models.Flow, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		flowID := strings.TrimSuffix(file, ".json")

		flow, err := fr.GetByID(ctx, flowID)
		if err != nil {
			return nil, fmt.Errorf("failed to load flow %s: %w", flowID, err)
		}

		if flow != nil {
			allFlows = append(allFlows, flow)
		}
	}

	filtered := make([]*models.Flow, 0, len(allFlows))

	for _, flow := range allFlows {
		if opts.OwnerID != "" && flow.Owner != opts.OwnerID {
			continue
		}

		if opts.Status != nil && flow.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, flow)
	}

	fr.sortFlows(filtered, opts.SortBy, opts.SortOrder)

	totalCount := int64(len(filtered))

	startIdx := opts.Offset
	if startIdx >= len(filtered) {
		return &persistence.FlowListResult{
			Flows:       make([]*models.Flow, 0),
			TotalCount:  totalCount,
			HasNextPage: false,
		}, nil
	}

	endIdx := opts.Offset + opts.Limit
	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	return &persistence.FlowListResult{
		Flows:       filtered[startIdx:endIdx],
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(filtered),
	}, nil
}

// GetByID loads one flow document, or ErrFlowNotFound.
func (fr *FlowRepository) GetByID(_ context.Context, id string) (*models.Flow, error) {
	data, err := os.ReadFile(fr.flowPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewFlowError("GetByID", id, persistence.ErrFlowNotFound)
		}

		return nil, persistence.NewFlowError("GetByID", id, err)
	}

	var flow models.Flow

	err = json.Unmarshal(data, &flow)
	if err != nil {
		return nil, persistence.NewFlowError("GetByID", id, fmt.Errorf("failed to decode flow file: %w", err))
	}

	return &flow, nil
}

// Save writes the flow document, creating the flows directory on first use.
func (fr *FlowRepository) Save(_ context.Context, flow *models.Flow) error {
	err := os.MkdirAll(fr.flowsDir(), 0o755)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	data, err := json.MarshalIndent(flow, "", "  ")
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	err = os.WriteFile(fr.flowPath(flow.ID), data, 0o644)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	return nil
}

// Delete removes the flow document.
func (fr *FlowRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(fr.flowPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewFlowError("Delete", id, persistence.ErrFlowNotFound)
		}

		return persistence.NewFlowError("Delete", id, err)
	}

	return nil
}

func (fr *FlowRepository) sortFlows(flows []*models.Flow, sortBy, sortOrder string) {
	sort.SliceStable(flows, func(i, j int) bool {
		var less bool

		switch sortBy {
		case "name":
			less = flows[i].Name < flows[j].Name
		case "updated_at":
			less = flows[i].UpdatedAt.Before(flows[j].UpdatedAt)
		default:
			less = flows[i].CreatedAt.Before(flows[j].CreatedAt)
		}

		if sortOrder == "desc" {
			return !less
		}

		return less
	})
}
