// Package configstore holds the working configuration copy for the node
// currently open in the editing panel.
package configstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/reorder"
)

// Mutation-time guard errors. These surface as user-facing notices before
// any state changes, so an over-limit collection never enters the store.
var (
	ErrNoOpenEditor              = errors.New("no node is open for editing")
	ErrKindMismatch              = errors.New("operation does not apply to this node kind")
	ErrButtonLimitReached        = fmt.Errorf("maximum of %d buttons reached", models.MaxButtons)
	ErrSectionLimitReached       = fmt.Errorf("maximum of %d sections reached", models.MaxSections)
	ErrSectionButtonLimitReached = fmt.Errorf("maximum of %d buttons per section reached", models.MaxSectionButtons)
	ErrSectionNotFound           = errors.New("section not found")
)

// Patch is a partial update to the working copy. Leaf values replace the
// current value; a nested map (the media header) shallow-merges into the
// current composite instead of replacing it wholesale.
type Patch map[string]any

// Store owns the working copy of exactly one node's configuration between
// panel open and save/close. It is the single writer by construction: one
// panel, one store, one open node.
type Store struct {
	nodeID string
	kind   models.NodeKind
	config models.NodeConfig
}

// New returns a store with no open node.
func New() *Store {
	return &Store{}
}

// Open seeds the working copy from the node's persisted data. The copy is
// deep: later mutations never touch the node's own Data. Absent collection
// fields default to empty sequences; an interactive list persisted without
// sections opens with zero sections, not one default section.
func (s *Store) Open(node *models.Node) error {
	config, err := models.ExtractConfig(node.Kind, node.Data)
	if err != nil {
		return fmt.Errorf("failed to seed working copy for node %s: %w", node.ID, err)
	}

	s.nodeID = node.ID
	s.kind = node.Kind
	s.config = config

	return nil
}

// IsOpen reports whether a node is currently open for editing.
func (s *Store) IsOpen() bool {
	return s.config != nil
}

// NodeID returns the ID of the open node, or "" when none is open.
func (s *Store) NodeID() string {
	return s.nodeID
}

// Kind returns the kind of the open node.
func (s *Store) Kind() models.NodeKind {
	return s.kind
}

// Snapshot returns an independent copy of the current working configuration.
// Observers always see a coherent state, never a half-applied patch.
func (s *Store) Snapshot() (models.NodeConfig, error) {
	if s.config == nil {
		return nil, ErrNoOpenEditor
	}

	return s.config.Clone(), nil
}

// Update applies a partial patch to the working copy. The patch is applied
// atomically: if it does not decode back into the node's config variant the
// working copy is left untouched.
func (s *Store) Update(patch Patch) error {
	if s.config == nil {
		return ErrNoOpenEditor
	}

	raw, err := models.ConfigToMap(s.config)
	if err != nil {
		return err
	}

	for key, value := range patch {
		nested, isMap := value.(map[string]any)
		if !isMap {
			raw[key] = value

			continue
		}

		current, hasCurrent := raw[key].(map[string]any)
		if !hasCurrent {
			raw[key] = nested

			continue
		}

		for nestedKey, nestedValue := range nested {
			current[nestedKey] = nestedValue
		}

		raw[key] = current
	}

	updated, err := models.ExtractConfig(s.kind, raw)
	if err != nil {
		return fmt.Errorf("patch does not fit %s config: %w", s.kind, err)
	}

	s.config = updated

	return nil
}

// Commit hands the current snapshot to the caller for persistence. The store
// performs no I/O itself; persisting the snapshot is the caller's job.
func (s *Store) Commit() (models.NodeConfig, error) {
	return s.Snapshot()
}

// Close discards the working copy unconditionally.
func (s *Store) Close() {
	s.nodeID = ""
	s.kind = ""
	s.config = nil
}

// AddButton appends a button to an interactive-buttons node. The call is
// refused once the platform maximum is reached; the working copy stays at
// the current count.
func (s *Store) AddButton(button models.Button) error {
	config, err := s.buttonsConfig()
	if err != nil {
		return err
	}

	if len(config.Buttons) >= models.MaxButtons {
		return ErrButtonLimitReached
	}

	if button.ID == "" {
		button.ID = uuid.New().String()
	}

	if button.ActionType == "" {
		button.ActionType = models.ButtonActionConnectToNode
	}

	config.Buttons = append(config.Buttons, button)
	s.config = config

	return nil
}

// RemoveButton drops the button with the given ID, if present.
func (s *Store) RemoveButton(buttonID string) error {
	config, err := s.buttonsConfig()
	if err != nil {
		return err
	}

	config.Buttons = removeByID(config.Buttons, func(b models.Button) string { return b.ID }, buttonID)
	s.config = config

	return nil
}

// AddSection appends a section to an interactive-list node, refusing once
// the platform maximum is reached.
func (s *Store) AddSection(section models.Section) error {
	config, err := s.listConfig()
	if err != nil {
		return err
	}

	if len(config.Sections) >= models.MaxSections {
		return ErrSectionLimitReached
	}

	if section.ID == "" {
		section.ID = uuid.New().String()
	}

	if section.Buttons == nil {
		section.Buttons = make([]models.Button, 0)
	}

	config.Sections = append(config.Sections, section)
	s.config = config

	return nil
}

// RemoveSection drops the section with the given ID, if present.
func (s *Store) RemoveSection(sectionID string) error {
	config, err := s.listConfig()
	if err != nil {
		return err
	}

	config.Sections = removeByID(config.Sections, func(sec models.Section) string { return sec.ID }, sectionID)
	s.config = config

	return nil
}

// AddSectionButton appends a button to one section of an interactive-list
// node, refusing once the per-section maximum is reached.
func (s *Store) AddSectionButton(sectionID string, button models.Button) error {
	config, err := s.listConfig()
	if err != nil {
		return err
	}

	index := sectionIndex(config.Sections, sectionID)
	if index < 0 {
		return ErrSectionNotFound
	}

	if len(config.Sections[index].Buttons) >= models.MaxSectionButtons {
		return ErrSectionButtonLimitReached
	}

	if button.ID == "" {
		button.ID = uuid.New().String()
	}

	if button.ActionType == "" {
		button.ActionType = models.ButtonActionConnectToNode
	}

	config.Sections[index].Buttons = append(config.Sections[index].Buttons, button)
	s.config = config

	return nil
}

// RemoveSectionButton drops a button from one section, if present.
func (s *Store) RemoveSectionButton(sectionID, buttonID string) error {
	config, err := s.listConfig()
	if err != nil {
		return err
	}

	index := sectionIndex(config.Sections, sectionID)
	if index < 0 {
		return ErrSectionNotFound
	}

	config.Sections[index].Buttons = removeByID(
		config.Sections[index].Buttons,
		func(b models.Button) string { return b.ID },
		buttonID,
	)
	s.config = config

	return nil
}

// MoveButtonOver applies one drag-over step of a top-level button drag.
func (s *Store) MoveButtonOver(controller *reorder.Controller[models.Button], target int) error {
	config, err := s.buttonsConfig()
	if err != nil {
		return err
	}

	config.Buttons = controller.Over(config.Buttons, target)
	s.config = config

	return nil
}

// MoveSectionOver applies one drag-over step of a section drag.
func (s *Store) MoveSectionOver(controller *reorder.Controller[models.Section], target int) error {
	config, err := s.listConfig()
	if err != nil {
		return err
	}

	config.Sections = controller.Over(config.Sections, target)
	s.config = config

	return nil
}

// MoveSectionButtonOver applies one drag-over step of a button drag inside
// one section. Only the matching section's button list is mutated; every
// other section is structurally unchanged.
func (s *Store) MoveSectionButtonOver(controller *reorder.Controller[models.Button], sectionID string, target int) error {
	config, err := s.listConfig()
	if err != nil {
		return err
	}

	index := sectionIndex(config.Sections, sectionID)
	if index < 0 {
		return ErrSectionNotFound
	}

	config.Sections[index].Buttons = controller.Over(config.Sections[index].Buttons, target)
	s.config = config

	return nil
}

func (s *Store) buttonsConfig() (models.InteractiveButtonsConfig, error) {
	if s.config == nil {
		return models.InteractiveButtonsConfig{}, ErrNoOpenEditor
	}

	config, ok := s.config.(models.InteractiveButtonsConfig)
	if !ok {
		return models.InteractiveButtonsConfig{}, ErrKindMismatch
	}

	return config, nil
}

func (s *Store) listConfig() (models.InteractiveListConfig, error) {
	if s.config == nil {
		return models.InteractiveListConfig{}, ErrNoOpenEditor
	}

	config, ok := s.config.(models.InteractiveListConfig)
	if !ok {
		return models.InteractiveListConfig{}, ErrKindMismatch
	}

	return config, nil
}

func sectionIndex(sections []models.Section, sectionID string) int {
	for i, section := range sections {
		if section.ID == sectionID {
			return i
		}
	}

	return -1
}

func removeByID[T any](items []T, id func(T) string, target string) []T {
	filtered := make([]T, 0, len(items))

	for _, item := range items {
		if id(item) != target {
			filtered = append(filtered, item)
		}
	}

	return filtered
}
