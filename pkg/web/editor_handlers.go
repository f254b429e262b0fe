package web

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/chatflowhq/chatflow/pkg/configstore"
	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/panel"
	"github.com/chatflowhq/chatflow/pkg/persistence"
)

// EditorHandlers exposes the configuration panel session over HTTP. One
// editor is open per service instance, matching the single-panel contract.
type EditorHandlers struct {
	panelService *panel.Service
	validator    *validator.Validate
}

func NewEditorHandlers(panelService *panel.Service, validator *validator.Validate) *EditorHandlers {
	return &EditorHandlers{
		panelService: panelService,
		validator:    validator,
	}
}

func (h *EditorHandlers) OpenEditor(c fiber.Ctx) error {
	var req OpenEditorRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.panelService.OpenEditor(c.Context(), req.FlowID, req.NodeID)
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) GetEditor(c fiber.Ctx) error {
	return h.snapshot(c)
}

func (h *EditorHandlers) UpdateEditor(c fiber.Ctx) error {
	var patch configstore.Patch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.panelService.Update(patch)
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

// SaveEditor validates the working copy and commits it into the flow. On
// violations the editor stays open and the full ordered list is returned.
func (h *EditorHandlers) SaveEditor(c fiber.Ctx) error {
	err := h.panelService.Save(c.Context())
	if err != nil {
		var failed *panel.ValidationFailedError
		if errors.As(err, &failed) {
			problem := problems.NewStatusProblem(400).
				WithInstance(c.Path()).
				WithType("node_validation_failed").
				WithDetail(failed.Violations.Primary())

			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"problem":    problem,
				"violations": failed.Violations,
			})
		}

		return handleEditorError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) CloseEditor(c fiber.Ctx) error {
	h.panelService.Close()

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) AddButton(c fiber.Ctx) error {
	var req AddButtonRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.panelService.AddButton(models.Button{
		Label:       req.Label,
		Value:       req.Value,
		ActionType:  models.ButtonActionType(req.ActionType),
		ActionValue: req.ActionValue,
	})
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) RemoveButton(c fiber.Ctx) error {
	err := h.panelService.RemoveButton(c.Params("buttonId"))
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) AddSection(c fiber.Ctx) error {
	var req AddSectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.panelService.AddSection(models.Section{Name: req.Name})
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) RemoveSection(c fiber.Ctx) error {
	err := h.panelService.RemoveSection(c.Params("sectionId"))
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) AddSectionButton(c fiber.Ctx) error {
	var req AddButtonRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.panelService.AddSectionButton(c.Params("sectionId"), models.Button{
		Label:       req.Label,
		Value:       req.Value,
		ActionType:  models.ButtonActionType(req.ActionType),
		ActionValue: req.ActionValue,
	})
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) RemoveSectionButton(c fiber.Ctx) error {
	err := h.panelService.RemoveSectionButton(c.Params("sectionId"), c.Params("buttonId"))
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

// ReorderButtons replays a completed drag gesture as one request.
func (h *EditorHandlers) ReorderButtons(c fiber.Ctx) error {
	var req ReorderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	h.panelService.StartButtonDrag(req.From)
	defer h.panelService.EndButtonDrag()

	err := h.panelService.DragButtonOver(req.To)
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) ReorderSections(c fiber.Ctx) error {
	var req ReorderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	h.panelService.StartSectionDrag(req.From)
	defer h.panelService.EndSectionDrag()

	err := h.panelService.DragSectionOver(req.To)
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) ReorderSectionButtons(c fiber.Ctx) error {
	var req ReorderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	h.panelService.StartSectionButtonDrag(c.Params("sectionId"), req.From)
	defer h.panelService.EndSectionButtonDrag()

	err := h.panelService.DragSectionButtonOver(req.To)
	if err != nil {
		return handleEditorError(c, err)
	}

	return h.snapshot(c)
}

func (h *EditorHandlers) snapshot(c fiber.Ctx) error {
	config, err := h.panelService.Snapshot()
	if err != nil {
		return handleEditorError(c, err)
	}

	return c.JSON(fiber.Map{
		"node_id": h.panelService.NodeID(),
		"config":  config,
	})
}

func handleEditorError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, configstore.ErrNoOpenEditor):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("no_open_editor").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case errors.Is(err, configstore.ErrButtonLimitReached),
		errors.Is(err, configstore.ErrSectionLimitReached),
		errors.Is(err, configstore.ErrSectionButtonLimitReached),
		errors.Is(err, configstore.ErrKindMismatch):
		problem := problems.NewStatusProblem(400).
			WithInstance(c.Path()).
			WithType("validation_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)

	case errors.Is(err, configstore.ErrSectionNotFound):
		return notFound(c, "Section not found")

	case persistence.IsFlowNotFound(err):
		return notFound(c, "Flow not found")

	case persistence.IsNodeNotFound(err):
		return notFound(c, "Node not found")

	default:
		return internalError(c, err)
	}
}
