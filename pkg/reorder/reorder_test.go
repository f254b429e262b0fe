package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestController_DragToEnd(t *testing.T) {
	controller := New[string]()
	items := []string{"a", "b", "c"}

	controller.Start(0)

	items = controller.Over(items, 2)

	assert.Equal(t, []string{"b", "c", "a"}, items)
}

func TestController_OverWithoutStartIsNoOp(t *testing.T) {
	controller := New[string]()
	items := []string{"a", "b", "c"}

	result := controller.Over(items, 2)

	assert.Equal(t, []string{"a", "b", "c"}, result)
	assert.False(t, controller.Dragging())
}

func TestController_OverSameIndexIsNoOp(t *testing.T) {
	controller := New[string]()
	items := []string{"a", "b", "c"}

	controller.Start(1)

	result := controller.Over(items, 1)

	assert.Equal(t, []string{"a", "b", "c"}, result)
}

func TestController_OverOutOfRangeIsNoOp(t *testing.T) {
	controller := New[string]()
	items := []string{"a", "b", "c"}

	controller.Start(0)

	assert.Equal(t, []string{"a", "b", "c"}, controller.Over(items, 3))
	assert.Equal(t, []string{"a", "b", "c"}, controller.Over(items, -1))
}

func TestController_ChainedOversCompose(t *testing.T) {
	controller := New[string]()
	items := []string{"a", "b", "c", "d"}

	controller.Start(0)

	// Dragging "a" over index 1 then index 2, one hover step at a time
	items = controller.Over(items, 1)
	assert.Equal(t, []string{"b", "a", "c", "d"}, items)

	items = controller.Over(items, 2)
	assert.Equal(t, []string{"b", "c", "a", "d"}, items)

	// Hovering back where we came from restores the order
	items = controller.Over(items, 1)
	assert.Equal(t, []string{"b", "a", "c", "d"}, items)
}

func TestController_LengthInvariant(t *testing.T) {
	controller := New[int]()
	items := []int{1, 2, 3, 4, 5}

	controller.Start(4)

	for _, target := range []int{0, 3, 1, 4, 2} {
		items = controller.Over(items, target)
		assert.Len(t, items, 5)
	}
}

func TestController_EndResetsSource(t *testing.T) {
	controller := New[string]()
	items := []string{"a", "b"}

	controller.Start(0)
	assert.True(t, controller.Dragging())

	controller.End()
	assert.False(t, controller.Dragging())

	// Over after End is a no-op
	assert.Equal(t, []string{"a", "b"}, controller.Over(items, 1))
}
