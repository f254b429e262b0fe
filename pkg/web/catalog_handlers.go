package web

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/chatflowhq/chatflow/pkg/adapters"
)

// CatalogHandlers proxies the backend catalogs the panel browses while
// configuring nodes: knowledge-base documents, AI models, the API request
// library, usage logs, and contact properties. The builder stores selected
// identifiers only; the records themselves stay opaque.
type CatalogHandlers struct {
	documents  *adapters.DocumentsClient
	aiModels   *adapters.AIModelsClient
	apiLibrary *adapters.APILibraryClient
	usageLogs  *adapters.UsageLogsClient
	contacts   *adapters.ContactPropertiesClient
}

func NewCatalogHandlers(client *adapters.Client) *CatalogHandlers {
	return &CatalogHandlers{
		documents:  adapters.NewDocumentsClient(client),
		aiModels:   adapters.NewAIModelsClient(client),
		apiLibrary: adapters.NewAPILibraryClient(client),
		usageLogs:  adapters.NewUsageLogsClient(client),
		contacts:   adapters.NewContactPropertiesClient(client),
	}
}

func (h *CatalogHandlers) GetDocuments(c fiber.Ctx) error {
	documents, err := h.documents.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(documents)
}

func (h *CatalogHandlers) UploadDocument(c fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A file is required")
	}

	content, err := header.Open()
	if err != nil {
		return badRequest(c, "Unreadable file")
	}
	defer content.Close()

	document, err := h.documents.Upload(c.Context(), header.Filename, content)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

func (h *CatalogHandlers) CrawlDocument(c fiber.Ctx) error {
	var req CrawlRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	mode := adapters.CrawlMode(req.Mode)
	if !mode.Valid() {
		return badRequest(c, "Unknown crawl mode")
	}

	document, err := h.documents.Crawl(c.Context(), req.URL, mode)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

func (h *CatalogHandlers) DeleteDocument(c fiber.Ctx) error {
	err := h.documents.Delete(c.Context(), c.Params("filename"))
	if err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandlers) GetAIModels(c fiber.Ctx) error {
	aiModels, err := h.aiModels.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(aiModels)
}

func (h *CatalogHandlers) GetAPIRequests(c fiber.Ctx) error {
	requests, err := h.apiLibrary.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(requests)
}

func (h *CatalogHandlers) GetUsageLogs(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	page, err := h.usageLogs.List(c.Context(), limit, offset)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(page)
}

func (h *CatalogHandlers) GetContactProperties(c fiber.Ctx) error {
	properties, err := h.contacts.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(properties)
}

func (h *CatalogHandlers) CreateContactProperty(c fiber.Ctx) error {
	var req CreateContactPropertyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	property, err := h.contacts.Create(c.Context(), req.Name, req.Type)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(property)
}

func (h *CatalogHandlers) UpdateContactProperty(c fiber.Ctx) error {
	var req UpdateContactPropertyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	property, err := h.contacts.Update(c.Context(), c.Params("id"), req.Name)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(property)
}

func (h *CatalogHandlers) DeleteContactProperty(c fiber.Ctx) error {
	err := h.contacts.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
