package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/persistence/file"
	"github.com/chatflowhq/chatflow/pkg/testutil"
	"github.com/chatflowhq/chatflow/pkg/validation"
)

func newPublishingService(t *testing.T) (*Publishing, persistence.Persistence) {
	t.Helper()

	store := file.NewPersistence(t.TempDir())

	return NewPublishing(store), store
}

func TestPublishing_PublishValidFlow(t *testing.T) {
	service, store := newPublishingService(t)
	ctx := context.Background()

	flow := testutil.CreateTestFlow(testutil.CreateTestNode())
	require.NoError(t, store.FlowRepository().Save(ctx, flow))

	published, err := service.PublishFlow(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowStatusPublished, published.Status)

	persisted, err := store.FlowRepository().GetByID(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowStatusPublished, persisted.Status)
}

func TestPublishing_PublishRefusesInvalidNode(t *testing.T) {
	service, store := newPublishingService(t)
	ctx := context.Background()

	// Interactive buttons node with no buttons fails the save-time gate.
	invalid := testutil.CreateTestNode(
		testutil.WithKind(models.NodeKindInteractiveButtons),
		testutil.WithData(map[string]any{"message": "pick one"}),
	)
	flow := testutil.CreateTestFlow(testutil.CreateTestNode(), invalid)
	require.NoError(t, store.FlowRepository().Save(ctx, flow))

	_, err := service.PublishFlow(ctx, flow.ID)
	require.Error(t, err)

	var nodeErr *NodeValidationError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, invalid.ID, nodeErr.NodeID)
	assert.Equal(t, models.NodeKindInteractiveButtons, nodeErr.Kind)
	assert.Equal(t, validation.MsgButtonRequired, nodeErr.Violations.Primary())

	// The flow stays in draft.
	persisted, getErr := store.FlowRepository().GetByID(ctx, flow.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.FlowStatusDraft, persisted.Status)
}

func TestPublishing_PublishRequiresNameAndNodes(t *testing.T) {
	service, store := newPublishingService(t)
	ctx := context.Background()

	unnamed := testutil.CreateTestFlow(testutil.CreateTestNode())
	unnamed.Name = ""
	require.NoError(t, store.FlowRepository().Save(ctx, unnamed))

	_, err := service.PublishFlow(ctx, unnamed.ID)
	assert.ErrorIs(t, err, ErrFlowNameRequired)

	empty := testutil.CreateTestFlow()
	require.NoError(t, store.FlowRepository().Save(ctx, empty))

	_, err = service.PublishFlow(ctx, empty.ID)
	assert.ErrorIs(t, err, ErrNodesRequired)
}

func TestPublishing_PublishMissingFlow(t *testing.T) {
	service, _ := newPublishingService(t)

	_, err := service.PublishFlow(context.Background(), "missing")
	assert.True(t, persistence.IsFlowNotFound(err))
}

func TestPublishing_UnpublishReturnsToDraft(t *testing.T) {
	service, store := newPublishingService(t)
	ctx := context.Background()

	flow := testutil.CreateTestFlow(testutil.CreateTestNode())
	flow.Status = models.FlowStatusPublished
	require.NoError(t, store.FlowRepository().Save(ctx, flow))

	unpublished, err := service.UnpublishFlow(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowStatusDraft, unpublished.Status)

	persisted, err := store.FlowRepository().GetByID(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowStatusDraft, persisted.Status)
}
