package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
)

// FlowRepository handles flow-related database operations.
type FlowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewFlowRepository creates a new flow repository.
func NewFlowRepository(db *sql.DB, logger *slog.Logger) *FlowRepository {
	return &FlowRepository{db: db, logger: logger}
}

// ListFlows returns paginated and filtered flows.
func (r *FlowRepository) ListFlows(ctx context.Context, opts persistence.ListFlowsOptions) (*persistence.FlowListResult, error) {
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

	order := "DESC"
	if opts.SortOrder == "asc" {
		order = "ASC"
	}

	where := "WHERE deleted_at IS NULL"
	args := make([]any, 0, 4)

	if opts.OwnerID != "" {
		args = append(args, opts.OwnerID)
		where += fmt.Sprintf(" AND owner = $%d", len(args))
	}

	if opts.Status != nil {
		args = append(args, *opts.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var totalCount int64

	countQuery := "SELECT COUNT(*) FROM flows " + where

	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count flows: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	query := fmt.Sprintf(`
		SELECT id, name, description, status, variables, owner, created_at, updated_at, deleted_at
		FROM flows
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, opts.SortBy, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	flows := make([]*models.Flow, 0)

	for rows.Next() {
		flow, err := r.scanFlowBase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flow: %w", err)
		}

		err = r.loadFlowNodesAndConnections(ctx, flow)
		if err != nil {
			return nil, fmt.Errorf("failed to load flow nodes and connections: %w", err)
		}

		flows = append(flows, flow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating flows: %w", err)
	}

	return &persistence.FlowListResult{
		Flows:       flows,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(flows)) < totalCount,
	}, nil
}

// GetByID returns a flow by its ID, or ErrFlowNotFound.
func (r *FlowRepository) GetByID(ctx context.Context, id string) (*models.Flow, error) {
	query := `
		SELECT id, name, description, status, variables, owner, created_at, updated_at, deleted_at
		FROM flows
		WHERE id = $1 AND deleted_at IS NULL
	`

	row := r.db.QueryRowContext(ctx, query, id)

	flow, err := r.scanFlowBase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewFlowError("GetByID", id, persistence.ErrFlowNotFound)
		}

		return nil, persistence.NewFlowError("GetByID", id, err)
	}

	err = r.loadFlowNodesAndConnections(ctx, flow)
	if err != nil {
		return nil, persistence.NewFlowError("GetByID", id, err)
	}

	return flow, nil
}

// Save upserts a flow and replaces its nodes and connections.
func (r *FlowRepository) Save(ctx context.Context, flow *models.Flow) error {
	now := time.Now().UTC()

	if flow.CreatedAt.IsZero() {
		flow.CreatedAt = now
	}

	flow.UpdatedAt = now

	if flow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewFlowError("Save", flow.ID, err)
		}

		flow.ID = id.String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	variablesJSON, err := json.Marshal(flow.Variables)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to marshal variables: %w", err))
	}

	flowQuery := `
		INSERT INTO flows (id, name, description, status, variables, owner, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			variables = EXCLUDED.variables,
			owner = EXCLUDED.owner,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err = tx.ExecContext(ctx, flowQuery,
		flow.ID,
		flow.Name,
		flow.Description,
		flow.Status,
		variablesJSON,
		flow.Owner,
		flow.CreatedAt,
		flow.UpdatedAt,
		flow.DeletedAt,
	)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to save flow base: %w", err))
	}

	// Replace nodes and connections on every save
	_, err = tx.ExecContext(ctx, "DELETE FROM flow_connections WHERE flow_id = $1", flow.ID)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to delete existing connections: %w", err))
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM flow_nodes WHERE flow_id = $1", flow.ID)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to delete existing nodes: %w", err))
	}

	err = r.saveFlowNodes(ctx, tx, flow)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	err = r.saveFlowConnections(ctx, tx, flow)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	err = tx.Commit()
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

// Delete soft deletes a flow by setting deleted_at.
func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE flows SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return persistence.NewFlowError("Delete", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewFlowError("Delete", id, err)
	}

	if rowsAffected == 0 {
		return persistence.NewFlowError("Delete", id, persistence.ErrFlowNotFound)
	}

	return nil
}

func (r *FlowRepository) loadFlowNodesAndConnections(ctx context.Context, flow *models.Flow) error {
	nodesQuery := `
		SELECT id, kind, label, data, position_x, position_y, minimized
		FROM flow_nodes
		WHERE flow_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, nodesQuery, flow.ID)
	if err != nil {
		return fmt.Errorf("failed to query flow nodes: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	var nodes []*models.Node

	for rows.Next() {
		var (
			node     models.Node
			dataJSON []byte
		)

		err := rows.Scan(
			&node.ID,
			&node.Kind,
			&node.Label,
			&dataJSON,
			&node.PositionX,
			&node.PositionY,
			&node.Minimized,
		)
		if err != nil {
			return fmt.Errorf("failed to scan node: %w", err)
		}

		if dataJSON != nil {
			err := json.Unmarshal(dataJSON, &node.Data)
			if err != nil {
				return fmt.Errorf("failed to unmarshal node data: %w", err)
			}
		}

		nodes = append(nodes, &node)
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("error iterating nodes: %w", err)
	}

	flow.Nodes = nodes

	connectionsQuery := `
		SELECT id, source_port, target_port
		FROM flow_connections
		WHERE flow_id = $1
		ORDER BY created_at
	`

	rows, err = r.db.QueryContext(ctx, connectionsQuery, flow.ID)
	if err != nil {
		return fmt.Errorf("failed to query flow connections: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	var connections []*models.Connection

	for rows.Next() {
		var connection models.Connection

		err := rows.Scan(&connection.ID, &connection.SourcePort, &connection.TargetPort)
		if err != nil {
			return fmt.Errorf("failed to scan connection: %w", err)
		}

		connections = append(connections, &connection)
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("error iterating connections: %w", err)
	}

	flow.Connections = connections

	return nil
}

func (r *FlowRepository) saveFlowNodes(ctx context.Context, tx *sql.Tx, flow *models.Flow) error {
	for _, node := range flow.Nodes {
		dataJSON, err := json.Marshal(node.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal node data: %w", err)
		}

		query := `
			INSERT INTO flow_nodes (id, flow_id, kind, label, data, position_x, position_y, minimized)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		_, err = tx.ExecContext(ctx, query,
			node.ID,
			flow.ID,
			node.Kind,
			node.Label,
			dataJSON,
			node.PositionX,
			node.PositionY,
			node.Minimized,
		)
		if err != nil {
			return fmt.Errorf("failed to save node: %w", err)
		}
	}

	return nil
}

func (r *FlowRepository) saveFlowConnections(ctx context.Context, tx *sql.Tx, flow *models.Flow) error {
	for _, connection := range flow.Connections {
		query := `
			INSERT INTO flow_connections (id, flow_id, source_port, target_port)
			VALUES ($1, $2, $3, $4)
		`

		_, err := tx.ExecContext(ctx, query,
			connection.ID,
			flow.ID,
			connection.SourcePort,
			connection.TargetPort,
		)
		if err != nil {
			return fmt.Errorf("failed to save connection: %w", err)
		}
	}

	return nil
}

func (r *FlowRepository) scanFlowBase(scanner interface {
	Scan(dest ...any) error
}) (*models.Flow, error) {
	var (
		flow          models.Flow
		variablesJSON []byte
	)

	err := scanner.Scan(
		&flow.ID,
		&flow.Name,
		&flow.Description,
		&flow.Status,
		&variablesJSON,
		&flow.Owner,
		&flow.CreatedAt,
		&flow.UpdatedAt,
		&flow.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if variablesJSON != nil {
		err := json.Unmarshal(variablesJSON, &flow.Variables)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}

	return &flow, nil
}
