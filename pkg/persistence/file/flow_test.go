package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/testutil"
)

func newRepo(t *testing.T) *FlowRepository {
	t.Helper()

	return NewFlowRepository(t.TempDir())
}

func TestFlowRepository_SaveAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	node := testutil.CreateTestNode()
	flow := testutil.CreateTestFlow(node)
	flow.Connections = []*models.Connection{
		{ID: "c1", SourcePort: node.ID + ":output", TargetPort: "other:input"},
	}

	require.NoError(t, repo.Save(ctx, flow))

	loaded, err := repo.GetByID(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, flow.ID, loaded.ID)
	assert.Equal(t, flow.Name, loaded.Name)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, node.ID, loaded.Nodes[0].ID)
	require.Len(t, loaded.Connections, 1)
	assert.Equal(t, "c1", loaded.Connections[0].ID)
}

func TestFlowRepository_GetMissing(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, persistence.ErrFlowNotFound)

	var flowErr *persistence.FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, "GetByID", flowErr.Op)
}

func TestFlowRepository_SaveOverwrites(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	flow := testutil.CreateTestFlow()
	require.NoError(t, repo.Save(ctx, flow))

	flow.Name = "Renamed"
	require.NoError(t, repo.Save(ctx, flow))

	loaded, err := repo.GetByID(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Name)
}

func TestFlowRepository_Delete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	flow := testutil.CreateTestFlow()
	require.NoError(t, repo.Save(ctx, flow))
	require.NoError(t, repo.Delete(ctx, flow.ID))

	_, err := repo.GetByID(ctx, flow.ID)
	assert.ErrorIs(t, err, persistence.ErrFlowNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, flow.ID), persistence.ErrFlowNotFound)
}

func TestFlowRepository_ListFlowsEmptyDirectory(t *testing.T) {
	repo := newRepo(t)

	result, err := repo.ListFlows(context.Background(), persistence.ListFlowsOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Flows)
	assert.Equal(t, int64(0), result.TotalCount)
	assert.False(t, result.HasNextPage)
}

func TestFlowRepository_ListFlowsFilters(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	mine := testutil.CreateTestFlow()
	mine.Owner = "alice"
	require.NoError(t, repo.Save(ctx, mine))

	theirs := testutil.CreateTestFlow()
	theirs.Owner = "bob"
	theirs.Status = models.FlowStatusPublished
	require.NoError(t, repo.Save(ctx, theirs))

	result, err := repo.ListFlows(ctx, persistence.ListFlowsOptions{OwnerID: "alice"})
	require.NoError(t, err)
	require.Len(t, result.Flows, 1)
	assert.Equal(t, mine.ID, result.Flows[0].ID)

	status := models.FlowStatusPublished
	result, err = repo.ListFlows(ctx, persistence.ListFlowsOptions{Status: &status})
	require.NoError(t, err)
	require.Len(t, result.Flows, 1)
	assert.Equal(t, theirs.ID, result.Flows[0].ID)
}

func TestFlowRepository_ListFlowsSorting(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	names := []string{"Bravo", "Alpha", "Charlie"}

	for i, name := range names {
		flow := testutil.CreateTestFlow()
		flow.Name = name
		flow.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		flow.UpdatedAt = flow.CreatedAt
		require.NoError(t, repo.Save(ctx, flow))
	}

	result, err := repo.ListFlows(ctx, persistence.ListFlowsOptions{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, result.Flows, 3)
	assert.Equal(t, "Alpha", result.Flows[0].Name)
	assert.Equal(t, "Charlie", result.Flows[2].Name)

	// Default sort is created_at descending.
	result, err = repo.ListFlows(ctx, persistence.ListFlowsOptions{})
	require.NoError(t, err)
	require.Len(t, result.Flows, 3)
	assert.Equal(t, "Charlie", result.Flows[0].Name)
	assert.Equal(t, "Bravo", result.Flows[2].Name)
}

func TestFlowRepository_ListFlowsPaging(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		flow := testutil.CreateTestFlow()
		flow.CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Save(ctx, flow))
	}

	result, err := repo.ListFlows(ctx, persistence.ListFlowsOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Flows, 2)
	assert.Equal(t, int64(5), result.TotalCount)
	assert.True(t, result.HasNextPage)

	result, err = repo.ListFlows(ctx, persistence.ListFlowsOptions{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, result.Flows, 1)
	assert.False(t, result.HasNextPage)

	result, err = repo.ListFlows(ctx, persistence.ListFlowsOptions{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Flows)
	assert.Equal(t, int64(5), result.TotalCount)
}

func TestFlowRepository_ListFlowsRejectsUnknownSortField(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.ListFlows(context.Background(), persistence.ListFlowsOptions{SortBy: "owner"})
	assert.Error(t, err)
}

func TestPersistence_HealthCheck(t *testing.T) {
	dir := t.TempDir()

	store := NewPersistence(dir)
	assert.NoError(t, store.HealthCheck(context.Background()))
	assert.NoError(t, store.Close(context.Background()))

	missing := NewPersistence(dir + "/does-not-exist")
	assert.Error(t, missing.HealthCheck(context.Background()))
}

func TestPersistence_StripsFileScheme(t *testing.T) {
	dir := t.TempDir()

	store := NewPersistence("file://" + dir)
	require.NoError(t, store.HealthCheck(context.Background()))

	flow := testutil.CreateTestFlow()
	require.NoError(t, store.FlowRepository().Save(context.Background(), flow))

	loaded, err := store.FlowRepository().GetByID(context.Background(), flow.ID)
	require.NoError(t, err)
	assert.Equal(t, flow.ID, loaded.ID)
}
