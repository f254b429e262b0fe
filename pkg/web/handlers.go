package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/registry"
	"github.com/chatflowhq/chatflow/pkg/services"
)

type APIHandlers struct {
	flowService       *services.Flow
	nodeService       *services.Node
	publishingService *services.Publishing
	validator         *validator.Validate
	registry          *registry.Registry
}

func NewAPIHandlers(
	flowService *services.Flow,
	nodeService *services.Node,
	publishingService *services.Publishing,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		flowService:       flowService,
		nodeService:       nodeService,
		publishingService: publishingService,
		validator:         validator,
		registry:          registry,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.flowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Chatflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Chatflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetFlows(c fiber.Ctx) error {
	req, err := h.parseListFlowsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.flowService.ListFlows(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"flows":         result.Flows,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseListFlowsRequest parses and validates query parameters for listing flows.
func (h *APIHandlers) parseListFlowsRequest(c fiber.Ctx) (*services.ListFlowsRequest, error) {
	req := &services.ListFlowsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.OwnerID = c.Query("owner_id")

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.FlowStatus(statusStr)
		req.Status = &status
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func (h *APIHandlers) GetFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	flow, err := h.flowService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsFlowNotFound(err) {
			return notFound(c, "Flow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(flow)
}

func (h *APIHandlers) CreateFlow(c fiber.Ctx) error {
	var req CreateFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	flow := &models.Flow{
		Name:        req.Name,
		Description: req.Description,
		Variables:   req.Variables,
		Owner:       req.Owner,
		Nodes:       []*models.Node{},
		Connections: []*models.Connection{},
	}

	created, err := h.flowService.Create(c.Context(), flow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	var req UpdateFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.flowService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsFlowNotFound(err) {
			return notFound(c, "Flow not found")
		}

		return internalError(c, err)
	}

	// Partial update; nodes and connections are managed through node endpoints
	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Variables != nil {
		existing.Variables = req.Variables
	}

	updated, err := h.flowService.Update(c.Context(), id, existing)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	err := h.flowService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsFlowNotFound(err) {
			return notFound(c, "Flow not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) PublishFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	published, err := h.publishingService.PublishFlow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(published)
}

func (h *APIHandlers) UnpublishFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	draft, err := h.publishingService.UnpublishFlow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(draft)
}

// GetNodeKinds returns the node kind catalog with configuration schemas.
func (h *APIHandlers) GetNodeKinds(c fiber.Ctx) error {
	return c.JSON(h.registry.Kinds())
}

func (h *APIHandlers) GetNodeKind(c fiber.Ctx) error {
	kind := c.Params("kind")
	if kind == "" {
		return badRequest(c, "Node kind is required")
	}

	def, err := h.registry.KindByID(models.NodeKind(kind))
	if err != nil {
		return notFound(c, "Node kind not found")
	}

	return c.JSON(def)
}

func (h *APIHandlers) CreateNode(c fiber.Ctx) error {
	flowID := c.Params("id")
	if flowID == "" {
		return badRequest(c, "Flow ID is required")
	}

	var req CreateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.nodeService.CreateNode(c.Context(), flowID, &services.CreateNodeRequest{
		Kind:      req.Kind,
		Label:     req.Label,
		Data:      req.Data,
		PositionX: req.PositionX,
		PositionY: req.PositionY,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) GetNode(c fiber.Ctx) error {
	flowID := c.Params("id")
	nodeID := c.Params("nodeId")

	if flowID == "" || nodeID == "" {
		return badRequest(c, "Flow ID and node ID are required")
	}

	node, err := h.nodeService.GetNode(c.Context(), flowID, nodeID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) UpdateNode(c fiber.Ctx) error {
	flowID := c.Params("id")
	nodeID := c.Params("nodeId")

	if flowID == "" || nodeID == "" {
		return badRequest(c, "Flow ID and node ID are required")
	}

	var req UpdateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.nodeService.UpdateNode(c.Context(), flowID, nodeID, &services.UpdateNodeRequest{
		Label:     req.Label,
		Data:      req.Data,
		PositionX: req.PositionX,
		PositionY: req.PositionY,
		Minimized: req.Minimized,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) DeleteNode(c fiber.Ctx) error {
	flowID := c.Params("id")
	nodeID := c.Params("nodeId")

	if flowID == "" || nodeID == "" {
		return badRequest(c, "Flow ID and node ID are required")
	}

	err := h.nodeService.DeleteNode(c.Context(), flowID, nodeID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DuplicateNode(c fiber.Ctx) error {
	flowID := c.Params("id")
	nodeID := c.Params("nodeId")

	if flowID == "" || nodeID == "" {
		return badRequest(c, "Flow ID and node ID are required")
	}

	duplicate, err := h.nodeService.DuplicateNode(c.Context(), flowID, nodeID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(duplicate)
}

func (h *APIHandlers) UpdateNodeLabel(c fiber.Ctx) error {
	flowID := c.Params("id")
	nodeID := c.Params("nodeId")

	if flowID == "" || nodeID == "" {
		return badRequest(c, "Flow ID and node ID are required")
	}

	var req UpdateNodeLabelRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.nodeService.UpdateLabel(c.Context(), flowID, nodeID, req.Label)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleNodeMinimize(c fiber.Ctx) error {
	flowID := c.Params("id")
	nodeID := c.Params("nodeId")

	if flowID == "" || nodeID == "" {
		return badRequest(c, "Flow ID and node ID are required")
	}

	var req ToggleNodeMinimizeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.nodeService.ToggleMinimize(c.Context(), flowID, nodeID, req.Minimized)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
