package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/persistence/postgresql"
	"github.com/chatflowhq/chatflow/pkg/testutil"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Drop tables in reverse dependency order (children first, parents last)
	for _, table := range []string{"flow_connections", "flow_nodes", "flows", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("chatflow_test"),
			postgres.WithUsername("chatflow"),
			postgres.WithPassword("chatflow"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	var exists bool

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'flows')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "flows table should exist")

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'schema_migrations')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "schema_migrations table should exist")

	var version int

	err = db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE version = 1").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	err := p.HealthCheck(ctx)
	assert.NoError(t, err)
}

func TestFlowRepository_SaveAndRetrieve(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	node := testutil.CreateTestNode(
		testutil.WithKind(models.NodeKindInteractiveButtons),
		testutil.WithData(map[string]any{
			"message": "pick one",
			"buttons": []any{map[string]any{"id": "b1", "label": "Yes"}},
		}),
	)
	flow := &models.Flow{
		Name:        "Support Flow",
		Description: "handles support questions",
		Status:      models.FlowStatusDraft,
		Nodes:       []*models.Node{node},
		Connections: []*models.Connection{
			{ID: "c1", SourcePort: node.ID + ":output", TargetPort: "other:input"},
		},
		Variables: map[string]any{"greeting": "hi"},
		Owner:     "tester",
	}

	err := p.FlowRepository().Save(ctx, flow)
	require.NoError(t, err)
	assert.NotEmpty(t, flow.ID)
	assert.False(t, flow.CreatedAt.IsZero())
	assert.False(t, flow.UpdatedAt.IsZero())

	retrieved, err := p.FlowRepository().GetByID(ctx, flow.ID)
	require.NoError(t, err)

	assert.Equal(t, flow.Name, retrieved.Name)
	assert.Equal(t, flow.Status, retrieved.Status)
	assert.Equal(t, flow.Owner, retrieved.Owner)
	assert.Equal(t, "hi", retrieved.Variables["greeting"])

	require.Len(t, retrieved.Nodes, 1)
	assert.Equal(t, node.ID, retrieved.Nodes[0].ID)
	assert.Equal(t, models.NodeKindInteractiveButtons, retrieved.Nodes[0].Kind)
	assert.Equal(t, "pick one", retrieved.Nodes[0].Data["message"])

	require.Len(t, retrieved.Connections, 1)
	assert.Equal(t, node.ID+":output", retrieved.Connections[0].SourcePort)
}

func TestFlowRepository_GetMissing(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	_, err := p.FlowRepository().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, persistence.ErrFlowNotFound)
}

func TestFlowRepository_SaveReplacesNodesAndConnections(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	first := testutil.CreateTestNode()
	second := testutil.CreateTestNode()
	flow := testutil.CreateTestFlow(first, second)
	flow.Connections = []*models.Connection{
		{ID: "c1", SourcePort: first.ID + ":output", TargetPort: second.ID + ":input"},
	}

	require.NoError(t, p.FlowRepository().Save(ctx, flow))

	// Drop one node and its connection, save the whole document again.
	flow.Nodes = []*models.Node{first}
	flow.Connections = []*models.Connection{}

	require.NoError(t, p.FlowRepository().Save(ctx, flow))

	retrieved, err := p.FlowRepository().GetByID(ctx, flow.ID)
	require.NoError(t, err)
	require.Len(t, retrieved.Nodes, 1)
	assert.Equal(t, first.ID, retrieved.Nodes[0].ID)
	assert.Empty(t, retrieved.Connections)
}

func TestFlowRepository_UpdateBumpsUpdatedAt(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	flow := testutil.CreateTestFlow()
	require.NoError(t, p.FlowRepository().Save(ctx, flow))

	initialUpdatedAt := flow.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	flow.Name = "Renamed Flow"
	require.NoError(t, p.FlowRepository().Save(ctx, flow))

	retrieved, err := p.FlowRepository().GetByID(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Flow", retrieved.Name)
	assert.True(t, retrieved.UpdatedAt.After(initialUpdatedAt))
}

func TestFlowRepository_ListFlows(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	for _, spec := range []struct {
		name   string
		owner  string
		status models.FlowStatus
	}{
		{"Alpha", "alice", models.FlowStatusDraft},
		{"Bravo", "alice", models.FlowStatusPublished},
		{"Charlie", "bob", models.FlowStatusDraft},
	} {
		flow := testutil.CreateTestFlow()
		flow.Name = spec.name
		flow.Owner = spec.owner
		flow.Status = spec.status
		require.NoError(t, p.FlowRepository().Save(ctx, flow))
	}

	result, err := p.FlowRepository().ListFlows(ctx, persistence.ListFlowsOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.False(t, result.HasNextPage)

	result, err = p.FlowRepository().ListFlows(ctx, persistence.ListFlowsOptions{OwnerID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)

	status := models.FlowStatusPublished
	result, err = p.FlowRepository().ListFlows(ctx, persistence.ListFlowsOptions{OwnerID: "alice", Status: &status})
	require.NoError(t, err)
	require.Len(t, result.Flows, 1)
	assert.Equal(t, "Bravo", result.Flows[0].Name)

	result, err = p.FlowRepository().ListFlows(ctx, persistence.ListFlowsOptions{SortBy: "name", SortOrder: "asc", Limit: 2})
	require.NoError(t, err)
	require.Len(t, result.Flows, 2)
	assert.Equal(t, "Alpha", result.Flows[0].Name)
	assert.Equal(t, "Bravo", result.Flows[1].Name)
	assert.True(t, result.HasNextPage)
}

func TestFlowRepository_SoftDelete(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	flow := testutil.CreateTestFlow()
	require.NoError(t, p.FlowRepository().Save(ctx, flow))

	require.NoError(t, p.FlowRepository().Delete(ctx, flow.ID))

	_, err := p.FlowRepository().GetByID(ctx, flow.ID)
	assert.ErrorIs(t, err, persistence.ErrFlowNotFound)

	result, err := p.FlowRepository().ListFlows(ctx, persistence.ListFlowsOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalCount)

	// Deleting twice reports not found.
	err = p.FlowRepository().Delete(ctx, flow.ID)
	assert.ErrorIs(t, err, persistence.ErrFlowNotFound)
}
