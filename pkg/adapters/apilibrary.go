package adapters

import (
	"context"
	"fmt"
)

// APIRequest is one saved request in the API library.
type APIRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Method string `json:"method"`
}

// APILibraryClient lists the saved requests an API-library node can call.
type APILibraryClient struct {
	client *Client
}

// NewAPILibraryClient creates an API library client.
func NewAPILibraryClient(client *Client) *APILibraryClient {
	return &APILibraryClient{client: client}
}

// List returns the saved API requests.
func (a *APILibraryClient) List(ctx context.Context) ([]APIRequest, error) {
	var requests []APIRequest

	err := a.client.getJSON(ctx, "/api-library", nil, &requests)
	if err != nil {
		return nil, fmt.Errorf("failed to list API library entries: %w", err)
	}

	return requests, nil
}

// GetByID returns one saved request.
func (a *APILibraryClient) GetByID(ctx context.Context, id string) (*APIRequest, error) {
	var request APIRequest

	err := a.client.getJSON(ctx, "/api-library/"+id, nil, &request)
	if err != nil {
		return nil, fmt.Errorf("failed to get API library entry %s: %w", id, err)
	}

	return &request, nil
}
