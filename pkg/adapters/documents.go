package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// CrawlMode selects how a website URL is indexed into the knowledge base.
type CrawlMode string

const (
	CrawlModeSingle  CrawlMode = "single"  // Index the given page only
	CrawlModeSitemap CrawlMode = "sitemap" // Discover pages via the site's sitemap
)

// Valid reports whether the crawl mode is a known option.
func (m CrawlMode) Valid() bool {
	return m == CrawlModeSingle || m == CrawlModeSitemap
}

// Document is one indexed knowledge-base document.
type Document struct {
	Filename  string    `json:"filename"`
	Chunks    int       `json:"chunks"`
	Timestamp time.Time `json:"timestamp"`
}

// DocumentsClient talks to the knowledge-base document service.
type DocumentsClient struct {
	client *Client
}

// NewDocumentsClient creates a documents client.
func NewDocumentsClient(client *Client) *DocumentsClient {
	return &DocumentsClient{client: client}
}

// List returns the indexed documents available to knowledge-base nodes.
func (d *DocumentsClient) List(ctx context.Context) ([]Document, error) {
	var documents []Document

	err := d.client.getJSON(ctx, "/documents", nil, &documents)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return documents, nil
}

// Upload sends a file for indexing and returns the resulting document record.
func (d *DocumentsClient) Upload(ctx context.Context, filename string, content io.Reader) (*Document, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}

	_, err = io.Copy(part, content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.client.baseURL+"/documents", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	var document Document

	err = d.client.do(req, &document)
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	return &document, nil
}

// Crawl asks the service to index a website URL.
func (d *DocumentsClient) Crawl(ctx context.Context, websiteURL string, mode CrawlMode) (*Document, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid crawl mode %q", mode)
	}

	body := map[string]string{
		"url":  websiteURL,
		"mode": string(mode),
	}

	var document Document

	err := d.client.postJSON(ctx, "/documents/crawl", body, &document)
	if err != nil {
		return nil, fmt.Errorf("failed to crawl %s: %w", websiteURL, err)
	}

	return &document, nil
}

// Delete removes an indexed document.
func (d *DocumentsClient) Delete(ctx context.Context, filename string) error {
	err := d.client.delete(ctx, "/documents/"+filename)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", filename, err)
	}

	return nil
}
