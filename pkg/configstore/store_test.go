package configstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/reorder"
	"github.com/chatflowhq/chatflow/pkg/testutil"
)

func openButtonsNode(t *testing.T, data map[string]any) *Store {
	t.Helper()

	node := testutil.CreateTestNode(
		testutil.WithKind(models.NodeKindInteractiveButtons),
		testutil.WithData(data),
	)

	store := New()
	require.NoError(t, store.Open(node))

	return store
}

func openListNode(t *testing.T, data map[string]any) *Store {
	t.Helper()

	node := testutil.CreateTestNode(
		testutil.WithKind(models.NodeKindInteractiveList),
		testutil.WithData(data),
	)

	store := New()
	require.NoError(t, store.Open(node))

	return store
}

func TestStore_OpenSeedsDeepCopy(t *testing.T) {
	data := map[string]any{
		"message": "original",
		"buttons": []any{map[string]any{"id": "b1", "label": "One"}},
	}
	node := testutil.CreateTestNode(
		testutil.WithKind(models.NodeKindInteractiveButtons),
		testutil.WithData(data),
	)

	store := New()
	require.NoError(t, store.Open(node))
	require.NoError(t, store.Update(Patch{"message": "edited"}))

	// The node's persisted data is untouched until an explicit save.
	assert.Equal(t, "original", node.Data["message"])

	snapshot, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, models.RichText("edited"), snapshot.(models.InteractiveButtonsConfig).Message)
}

func TestStore_ClosedStoreRefusesEverything(t *testing.T) {
	store := New()

	_, err := store.Snapshot()
	assert.ErrorIs(t, err, ErrNoOpenEditor)

	assert.ErrorIs(t, store.Update(Patch{"message": "x"}), ErrNoOpenEditor)
	assert.ErrorIs(t, store.AddButton(models.Button{Label: "x"}), ErrNoOpenEditor)
	assert.ErrorIs(t, store.AddSection(models.Section{Name: "x"}), ErrNoOpenEditor)
	assert.False(t, store.IsOpen())
}

func TestStore_UpdateIsAtomic(t *testing.T) {
	store := openButtonsNode(t, map[string]any{"message": "hello"})

	err := store.Update(Patch{"buttons": "not a list"})
	require.Error(t, err)

	snapshot, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, models.RichText("hello"), snapshot.(models.InteractiveButtonsConfig).Message)
}

func TestStore_UpdateMergesNestedHeader(t *testing.T) {
	store := openButtonsNode(t, map[string]any{
		"message": "hello",
		"header":  map[string]any{"type": "image", "url": "https://x/img.png"},
	})

	require.NoError(t, store.Update(Patch{"header": map[string]any{"type": "video"}}))

	snapshot, err := store.Snapshot()
	require.NoError(t, err)

	header := snapshot.(models.InteractiveButtonsConfig).Header
	require.NotNil(t, header)
	assert.Equal(t, models.MediaTypeVideo, header.Type)
	assert.Equal(t, "https://x/img.png", header.URL)
}

func TestStore_AddButtonRefusedAtLimit(t *testing.T) {
	store := openButtonsNode(t, map[string]any{"message": "hi"})

	for i := 0; i < models.MaxButtons; i++ {
		require.NoError(t, store.AddButton(models.Button{Label: "ok"}))
	}

	err := store.AddButton(models.Button{Label: "one too many"})
	assert.ErrorIs(t, err, ErrButtonLimitReached)

	snapshot, snapErr := store.Snapshot()
	require.NoError(t, snapErr)
	assert.Len(t, snapshot.(models.InteractiveButtonsConfig).Buttons, models.MaxButtons)
}

func TestStore_AddButtonAssignsIDAndDefaultAction(t *testing.T) {
	store := openButtonsNode(t, map[string]any{"message": "hi"})

	require.NoError(t, store.AddButton(models.Button{Label: "Go"}))

	snapshot, err := store.Snapshot()
	require.NoError(t, err)

	buttons := snapshot.(models.InteractiveButtonsConfig).Buttons
	require.Len(t, buttons, 1)
	assert.NotEmpty(t, buttons[0].ID)
	assert.Equal(t, models.ButtonActionConnectToNode, buttons[0].ActionType)
}

func TestStore_RemoveButton(t *testing.T) {
	store := openButtonsNode(t, map[string]any{
		"message": "hi",
		"buttons": []any{
			map[string]any{"id": "b1", "label": "One"},
			map[string]any{"id": "b2", "label": "Two"},
		},
	})

	require.NoError(t, store.RemoveButton("b1"))

	snapshot, err := store.Snapshot()
	require.NoError(t, err)

	buttons := snapshot.(models.InteractiveButtonsConfig).Buttons
	require.Len(t, buttons, 1)
	assert.Equal(t, "b2", buttons[0].ID)
}

func TestStore_ButtonOpsRejectOtherKinds(t *testing.T) {
	store := openListNode(t, map[string]any{"message": "menu"})

	assert.ErrorIs(t, store.AddButton(models.Button{Label: "x"}), ErrKindMismatch)
	assert.ErrorIs(t, store.RemoveButton("b1"), ErrKindMismatch)
}

func TestStore_AddSectionRefusedAtLimit(t *testing.T) {
	store := openListNode(t, map[string]any{"message": "menu"})

	for i := 0; i < models.MaxSections; i++ {
		require.NoError(t, store.AddSection(models.Section{Name: "ok"}))
	}

	assert.ErrorIs(t, store.AddSection(models.Section{Name: "overflow"}), ErrSectionLimitReached)

	snapshot, err := store.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snapshot.(models.InteractiveListConfig).Sections, models.MaxSections)
}

func TestStore_AddSectionButtonRefusedAtLimit(t *testing.T) {
	store := openListNode(t, map[string]any{
		"message":  "menu",
		"sections": []any{map[string]any{"id": "s1", "name": "First"}},
	})

	for i := 0; i < models.MaxSectionButtons; i++ {
		require.NoError(t, store.AddSectionButton("s1", models.Button{Label: "ok"}))
	}

	assert.ErrorIs(t, store.AddSectionButton("s1", models.Button{Label: "overflow"}), ErrSectionButtonLimitReached)
}

func TestStore_AddSectionButtonUnknownSection(t *testing.T) {
	store := openListNode(t, map[string]any{"message": "menu"})

	assert.ErrorIs(t, store.AddSectionButton("missing", models.Button{Label: "x"}), ErrSectionNotFound)
}

func TestStore_RemoveSectionButtonLeavesOtherSectionsAlone(t *testing.T) {
	store := openListNode(t, map[string]any{
		"message": "menu",
		"sections": []any{
			map[string]any{"id": "s1", "name": "First", "buttons": []any{
				map[string]any{"id": "b1", "label": "One"},
			}},
			map[string]any{"id": "s2", "name": "Second", "buttons": []any{
				map[string]any{"id": "b2", "label": "Two"},
			}},
		},
	})

	require.NoError(t, store.RemoveSectionButton("s1", "b1"))

	snapshot, err := store.Snapshot()
	require.NoError(t, err)

	sections := snapshot.(models.InteractiveListConfig).Sections
	assert.Empty(t, sections[0].Buttons)
	require.Len(t, sections[1].Buttons, 1)
	assert.Equal(t, "b2", sections[1].Buttons[0].ID)
}

func TestStore_MoveButtonOver(t *testing.T) {
	store := openButtonsNode(t, map[string]any{
		"message": "hi",
		"buttons": []any{
			map[string]any{"id": "b1", "label": "One"},
			map[string]any{"id": "b2", "label": "Two"},
			map[string]any{"id": "b3", "label": "Three"},
		},
	})

	controller := reorder.New[models.Button]()
	controller.Start(0)

	require.NoError(t, store.MoveButtonOver(controller, 2))

	snapshot, err := store.Snapshot()
	require.NoError(t, err)

	buttons := snapshot.(models.InteractiveButtonsConfig).Buttons
	assert.Equal(t, "b2", buttons[0].ID)
	assert.Equal(t, "b3", buttons[1].ID)
	assert.Equal(t, "b1", buttons[2].ID)
}

func TestStore_MoveSectionButtonOverScopedToSection(t *testing.T) {
	store := openListNode(t, map[string]any{
		"message": "menu",
		"sections": []any{
			map[string]any{"id": "s1", "name": "First", "buttons": []any{
				map[string]any{"id": "b1", "label": "One"},
				map[string]any{"id": "b2", "label": "Two"},
			}},
			map[string]any{"id": "s2", "name": "Second", "buttons": []any{
				map[string]any{"id": "b3", "label": "Three"},
			}},
		},
	})

	controller := reorder.New[models.Button]()
	controller.Start(0)

	require.NoError(t, store.MoveSectionButtonOver(controller, "s1", 1))

	snapshot, err := store.Snapshot()
	require.NoError(t, err)

	sections := snapshot.(models.InteractiveListConfig).Sections
	assert.Equal(t, "b2", sections[0].Buttons[0].ID)
	assert.Equal(t, "b1", sections[0].Buttons[1].ID)
	assert.Equal(t, "b3", sections[1].Buttons[0].ID)
}

func TestStore_CommitThenClose(t *testing.T) {
	store := openButtonsNode(t, map[string]any{"message": "hi"})

	committed, err := store.Commit()
	require.NoError(t, err)
	assert.Equal(t, models.RichText("hi"), committed.(models.InteractiveButtonsConfig).Message)

	store.Close()
	assert.False(t, store.IsOpen())
	assert.Empty(t, store.NodeID())

	_, err = store.Commit()
	assert.ErrorIs(t, err, ErrNoOpenEditor)
}
