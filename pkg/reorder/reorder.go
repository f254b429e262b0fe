// Package reorder implements the move-to-index operation a drag gesture
// performs on an ordered collection.
package reorder

import "slices"

const noSource = -1

// Controller tracks one in-flight drag gesture over one ordered collection.
// Start records where the drag began, Over moves the dragged element under
// the pointer, End finalizes the order. A controller is reusable across
// gestures but serves one collection at a time.
type Controller[T any] struct {
	source int
}

// New returns a controller with no drag in progress.
func New[T any]() *Controller[T] {
	return &Controller[T]{source: noSource}
}

// Start records the source index of the dragged element. No mutation happens
// until the pointer moves over another index.
func (c *Controller[T]) Start(index int) {
	c.source = index
}

// Over moves the dragged element to target, preserving the relative order of
// everything else. Calling Over without a preceding Start, or with target
// equal to the current source, leaves the collection untouched; the source
// then follows the element so chained Over calls compose across continuous
// pointer movement. The collection length never changes.
func (c *Controller[T]) Over(items []T, target int) []T {
	if c.source == noSource || c.source == target {
		return items
	}

	if c.source < 0 || c.source >= len(items) || target < 0 || target >= len(items) {
		return items
	}

	moved := items[c.source]
	items = slices.Delete(items, c.source, c.source+1)
	items = slices.Insert(items, target, moved)
	c.source = target

	return items
}

// End clears the recorded source; the collection order is final.
func (c *Controller[T]) End() {
	c.source = noSource
}

// Dragging reports whether a drag gesture is in progress.
func (c *Controller[T]) Dragging() bool {
	return c.source != noSource
}
