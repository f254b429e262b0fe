package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflowhq/chatflow/pkg/adapters"
)

func newCatalogApp(t *testing.T, backend http.HandlerFunc) *fiber.App {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := NewCatalogHandlers(adapters.NewClient(server.URL, logger))

	app := fiber.New()

	catalog := app.Group("/catalog")
	catalog.Get("/documents", handlers.GetDocuments)
	catalog.Post("/documents/crawl", handlers.CrawlDocument)
	catalog.Delete("/documents/:filename", handlers.DeleteDocument)
	catalog.Get("/ai-models", handlers.GetAIModels)
	catalog.Get("/usage-logs", handlers.GetUsageLogs)
	catalog.Post("/contact-properties", handlers.CreateContactProperty)

	return app
}

func TestCatalogAPI_Documents(t *testing.T) {
	app := newCatalogApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/documents":
			_ = json.NewEncoder(w).Encode([]adapters.Document{{Filename: "faq.pdf", Chunks: 12}})
		case r.Method == http.MethodDelete && r.URL.Path == "/documents/faq.pdf":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/catalog/documents", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var documents []adapters.Document
	decodeBody(t, resp, &documents)
	require.Len(t, documents, 1)
	assert.Equal(t, "faq.pdf", documents[0].Filename)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/catalog/documents/faq.pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestCatalogAPI_CrawlRejectsUnknownMode(t *testing.T) {
	app := newCatalogApp(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no backend call expected")
	})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/catalog/documents/crawl", map[string]any{
		"url":  "https://example.com",
		"mode": "deep",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCatalogAPI_BackendFailureIsInternalError(t *testing.T) {
	app := newCatalogApp(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/catalog/ai-models", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()
}

func TestCatalogAPI_UsageLogsPassesPaging(t *testing.T) {
	app := newCatalogApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/usage-logs", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "30", r.URL.Query().Get("offset"))

		_ = json.NewEncoder(w).Encode(adapters.UsageLogPage{TotalCount: 31})
	})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/catalog/usage-logs?limit=10&offset=30", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page adapters.UsageLogPage
	decodeBody(t, resp, &page)
	assert.Equal(t, int64(31), page.TotalCount)
}

func TestCatalogAPI_CreateContactProperty(t *testing.T) {
	app := newCatalogApp(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_ = json.NewEncoder(w).Encode(adapters.ContactProperty{ID: "p1", Name: body["name"], Type: body["type"]})
	})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/catalog/contact-properties", map[string]any{
		"name": "City",
		"type": "text",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var property adapters.ContactProperty
	decodeBody(t, resp, &property)
	assert.Equal(t, "City", property.Name)
}
