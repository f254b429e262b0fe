// Package main provides the Chatflow API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/chatflowhq/chatflow/pkg/adapters"
	"github.com/chatflowhq/chatflow/pkg/eventbus"
	"github.com/chatflowhq/chatflow/pkg/panel"
	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/registry"
	"github.com/chatflowhq/chatflow/pkg/services"
	"github.com/chatflowhq/chatflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	registry    *registry.Registry
	validate    *validator.Validate
	backendURL  string
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	backendURL string,
) *API {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultKinds()

	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		registry:    reg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		backendURL:  backendURL,
	}
}

func (a *API) App() *fiber.App {
	flowService := services.NewFlow(a.persistence)
	nodeService := services.NewNode(a.persistence, a.registry)
	publishingService := services.NewPublishing(a.persistence)

	handlers := web.NewAPIHandlers(flowService, nodeService, publishingService, a.validate, a.registry)

	panelService := panel.NewService(a.persistence, a.eventBus, a.logger)
	editorHandlers := web.NewEditorHandlers(panelService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Chatflow API")
	})

	f := app.Group("/flows")
	f.Get("/", handlers.GetFlows)
	f.Post("/", handlers.CreateFlow)
	f.Get("/:id", handlers.GetFlow)
	f.Patch("/:id", handlers.UpdateFlow)
	f.Delete("/:id", handlers.DeleteFlow)
	f.Post("/:id/publish", handlers.PublishFlow)
	f.Post("/:id/unpublish", handlers.UnpublishFlow)

	// Node endpoints:
	f.Post("/:id/nodes", handlers.CreateNode)
	f.Get("/:id/nodes/:nodeId", handlers.GetNode)
	f.Patch("/:id/nodes/:nodeId", handlers.UpdateNode)
	f.Delete("/:id/nodes/:nodeId", handlers.DeleteNode)
	f.Post("/:id/nodes/:nodeId/duplicate", handlers.DuplicateNode)
	f.Put("/:id/nodes/:nodeId/label", handlers.UpdateNodeLabel)
	f.Put("/:id/nodes/:nodeId/minimize", handlers.ToggleNodeMinimize)

	// Editor endpoints (one open panel per API instance):
	e := app.Group("/editor")
	e.Post("/open", editorHandlers.OpenEditor)
	e.Get("/", editorHandlers.GetEditor)
	e.Patch("/", editorHandlers.UpdateEditor)
	e.Post("/save", editorHandlers.SaveEditor)
	e.Delete("/", editorHandlers.CloseEditor)
	e.Post("/buttons", editorHandlers.AddButton)
	e.Delete("/buttons/:buttonId", editorHandlers.RemoveButton)
	e.Post("/buttons/reorder", editorHandlers.ReorderButtons)
	e.Post("/sections", editorHandlers.AddSection)
	e.Delete("/sections/:sectionId", editorHandlers.RemoveSection)
	e.Post("/sections/reorder", editorHandlers.ReorderSections)
	e.Post("/sections/:sectionId/buttons", editorHandlers.AddSectionButton)
	e.Delete("/sections/:sectionId/buttons/:buttonId", editorHandlers.RemoveSectionButton)
	e.Post("/sections/:sectionId/buttons/reorder", editorHandlers.ReorderSectionButtons)

	k := app.Group("/node-kinds")
	k.Get("/", handlers.GetNodeKinds)
	k.Get("/:kind", handlers.GetNodeKind)

	// Backend catalogs browsed while configuring nodes, proxied when a
	// backend is configured.
	if a.backendURL != "" {
		catalog := web.NewCatalogHandlers(adapters.NewClient(a.backendURL, a.logger))

		b := app.Group("/catalog")
		b.Get("/documents", catalog.GetDocuments)
		b.Post("/documents", catalog.UploadDocument)
		b.Post("/documents/crawl", catalog.CrawlDocument)
		b.Delete("/documents/:filename", catalog.DeleteDocument)
		b.Get("/ai-models", catalog.GetAIModels)
		b.Get("/api-library", catalog.GetAPIRequests)
		b.Get("/usage-logs", catalog.GetUsageLogs)
		b.Get("/contact-properties", catalog.GetContactProperties)
		b.Post("/contact-properties", catalog.CreateContactProperty)
		b.Put("/contact-properties/:id", catalog.UpdateContactProperty)
		b.Delete("/contact-properties/:id", catalog.DeleteContactProperty)
	}

	app.Get("/health", handlers.HealthCheck)

	return app
}

// Start wires the canvas event consumer to the bus and serves the API.
func (a *API) Start(ctx context.Context, port int) error {
	nodeService := services.NewNode(a.persistence, a.registry)
	canvas := services.NewCanvas(nodeService, a.logger)

	err := canvas.RegisterHandlers(a.eventBus)
	if err != nil {
		return err
	}

	err = a.eventBus.Subscribe(ctx)
	if err != nil {
		return err
	}

	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
