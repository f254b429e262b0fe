// Package panel implements the configuration panel session: one node open at
// a time, edited through a working copy, validated on save, committed back
// into the flow document.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chatflowhq/chatflow/pkg/configstore"
	"github.com/chatflowhq/chatflow/pkg/eventbus"
	"github.com/chatflowhq/chatflow/pkg/events"
	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/reorder"
	"github.com/chatflowhq/chatflow/pkg/validation"
)

// ErrNoOpenEditor mirrors the store's guard for callers that only import panel.
var ErrNoOpenEditor = configstore.ErrNoOpenEditor

// ValidationFailedError aborts a save: the working copy stays open and
// unchanged so the user can fix the listed violations.
type ValidationFailedError struct {
	NodeID     string
	Kind       models.NodeKind
	Violations validation.Violations
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("cannot save node %s (%s): %s", e.NodeID, e.Kind, strings.Join(e.Violations, "; "))
}

// Service runs the editing session for one workspace. Opening a node while
// another is open discards the earlier working copy; the panel never shows
// two nodes at once.
type Service struct {
	persistence persistence.Persistence
	bus         eventbus.EventPublisher
	store       *configstore.Store
	logger      *slog.Logger

	flowID string

	buttonDrag        *reorder.Controller[models.Button]
	sectionDrag       *reorder.Controller[models.Section]
	sectionButtonDrag *reorder.Controller[models.Button]
	dragSectionID     string
}

// NewService creates a panel service.
func NewService(persistence persistence.Persistence, bus eventbus.EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		persistence:       persistence,
		bus:               bus,
		store:             configstore.New(),
		logger:            logger,
		buttonDrag:        reorder.New[models.Button](),
		sectionDrag:       reorder.New[models.Section](),
		sectionButtonDrag: reorder.New[models.Button](),
	}
}

// OpenEditor loads the node from its flow and seeds the working copy. Any
// previously open editor is discarded first.
func (s *Service) OpenEditor(ctx context.Context, flowID, nodeID string) error {
	flow, err := s.persistence.FlowRepository().GetByID(ctx, flowID)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}

	node := flow.NodeByID(nodeID)
	if node == nil {
		return persistence.NewFlowError("OpenEditor", flowID, persistence.ErrNodeNotFound)
	}

	s.Close()

	err = s.store.Open(node)
	if err != nil {
		return err
	}

	s.flowID = flowID

	event := &events.EditNode{
		BaseEvent: events.NewBaseEvent(events.NodeEditEvent, flowID),
		NodeID:    nodeID,
		Kind:      node.Kind,
	}

	err = s.bus.Publish(ctx, flowID, event)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish edit event", "node_id", nodeID, "error", err)
	}

	return nil
}

// IsOpen reports whether a node is currently open for editing.
func (s *Service) IsOpen() bool {
	return s.store.IsOpen()
}

// NodeID returns the ID of the open node, or "" when none is open.
func (s *Service) NodeID() string {
	return s.store.NodeID()
}

// Snapshot returns a copy of the current working configuration.
func (s *Service) Snapshot() (models.NodeConfig, error) {
	return s.store.Snapshot()
}

// Update applies a partial patch to the working copy.
func (s *Service) Update(patch configstore.Patch) error {
	return s.store.Update(patch)
}

// AddButton appends a button to the open interactive-buttons node.
func (s *Service) AddButton(button models.Button) error {
	return s.store.AddButton(button)
}

// RemoveButton drops a button from the open interactive-buttons node.
func (s *Service) RemoveButton(buttonID string) error {
	return s.store.RemoveButton(buttonID)
}

// AddSection appends a section to the open interactive-list node.
func (s *Service) AddSection(section models.Section) error {
	return s.store.AddSection(section)
}

// RemoveSection drops a section from the open interactive-list node.
func (s *Service) RemoveSection(sectionID string) error {
	return s.store.RemoveSection(sectionID)
}

// AddSectionButton appends a button to one section of the open list node.
func (s *Service) AddSectionButton(sectionID string, button models.Button) error {
	return s.store.AddSectionButton(sectionID, button)
}

// RemoveSectionButton drops a button from one section of the open list node.
func (s *Service) RemoveSectionButton(sectionID, buttonID string) error {
	return s.store.RemoveSectionButton(sectionID, buttonID)
}

// StartButtonDrag begins a top-level button drag at the given index.
func (s *Service) StartButtonDrag(index int) {
	s.buttonDrag.Start(index)
}

// DragButtonOver applies one drag-over step of the active button drag.
func (s *Service) DragButtonOver(target int) error {
	return s.store.MoveButtonOver(s.buttonDrag, target)
}

// EndButtonDrag finishes the active button drag.
func (s *Service) EndButtonDrag() {
	s.buttonDrag.End()
}

// StartSectionDrag begins a section drag at the given index.
func (s *Service) StartSectionDrag(index int) {
	s.sectionDrag.Start(index)
}

// DragSectionOver applies one drag-over step of the active section drag.
func (s *Service) DragSectionOver(target int) error {
	return s.store.MoveSectionOver(s.sectionDrag, target)
}

// EndSectionDrag finishes the active section drag.
func (s *Service) EndSectionDrag() {
	s.sectionDrag.End()
}

// StartSectionButtonDrag begins a button drag inside one section. A drag is
// scoped to the section it started in.
func (s *Service) StartSectionButtonDrag(sectionID string, index int) {
	s.dragSectionID = sectionID
	s.sectionButtonDrag.Start(index)
}

// DragSectionButtonOver applies one drag-over step of the active
// section-button drag. Other sections are untouched.
func (s *Service) DragSectionButtonOver(target int) error {
	if s.dragSectionID == "" {
		return nil
	}

	return s.store.MoveSectionButtonOver(s.sectionButtonDrag, s.dragSectionID, target)
}

// EndSectionButtonDrag finishes the active section-button drag.
func (s *Service) EndSectionButtonDrag() {
	s.sectionButtonDrag.End()
	s.dragSectionID = ""
}

// Save validates the working copy and commits it into the flow document.
// Validation failure aborts before any write; the editor stays open with the
// working copy intact. A successful save closes the editor.
func (s *Service) Save(ctx context.Context) error {
	config, err := s.store.Commit()
	if err != nil {
		return err
	}

	violations := validation.Validate(config)
	if !violations.OK() {
		return &ValidationFailedError{
			NodeID:     s.store.NodeID(),
			Kind:       s.store.Kind(),
			Violations: violations,
		}
	}

	flow, err := s.persistence.FlowRepository().GetByID(ctx, s.flowID)
	if err != nil {
		return fmt.Errorf("failed to load flow for save: %w", err)
	}

	node := flow.NodeByID(s.store.NodeID())
	if node == nil {
		return persistence.NewFlowError("Save", s.flowID, persistence.ErrNodeNotFound)
	}

	data, err := models.ConfigToMap(config)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	node.Data = data

	err = s.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return fmt.Errorf("failed to persist flow: %w", err)
	}

	s.Close()

	return nil
}

// Close discards the working copy and resets every drag controller. Safe to
// call with no open editor.
func (s *Service) Close() {
	s.store.Close()
	s.flowID = ""
	s.buttonDrag.End()
	s.sectionDrag.End()
	s.sectionButtonDrag.End()
	s.dragSectionID = ""
}

// RequestNodeDelete publishes a delete request for the canvas to apply.
func (s *Service) RequestNodeDelete(ctx context.Context, flowID, nodeID string) error {
	event := &events.DeleteNode{
		BaseEvent: events.NewBaseEvent(events.NodeDeleteEvent, flowID),
		NodeID:    nodeID,
	}

	return s.bus.Publish(ctx, flowID, event)
}

// RequestNodeDuplicate publishes a duplicate request for the canvas to apply.
func (s *Service) RequestNodeDuplicate(ctx context.Context, flowID, nodeID string) error {
	event := &events.DuplicateNode{
		BaseEvent: events.NewBaseEvent(events.NodeDuplicateEvent, flowID),
		NodeID:    nodeID,
	}

	return s.bus.Publish(ctx, flowID, event)
}

// RequestNodeMinimizeToggle publishes a minimize toggle for the canvas.
func (s *Service) RequestNodeMinimizeToggle(ctx context.Context, flowID, nodeID string, minimized bool) error {
	event := &events.ToggleNodeMinimize{
		BaseEvent:   events.NewBaseEvent(events.NodeMinimizeToggleEvent, flowID),
		NodeID:      nodeID,
		IsMinimized: minimized,
	}

	return s.bus.Publish(ctx, flowID, event)
}

// RequestNodeLabelUpdate publishes a rename for the canvas to apply.
func (s *Service) RequestNodeLabelUpdate(ctx context.Context, flowID, nodeID, label string) error {
	event := &events.UpdateNodeLabel{
		BaseEvent: events.NewBaseEvent(events.NodeLabelUpdateEvent, flowID),
		NodeID:    nodeID,
		Label:     label,
	}

	return s.bus.Publish(ctx, flowID, event)
}

// IsValidationFailure reports whether a save error carries violations.
func IsValidationFailure(err error) bool {
	var failed *ValidationFailedError

	return errors.As(err, &failed)
}
