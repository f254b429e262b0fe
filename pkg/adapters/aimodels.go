package adapters

import (
	"context"
	"fmt"
)

// AIModel is one language model the AI node can select.
type AIModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AIModelsClient lists the language models available to AI nodes.
type AIModelsClient struct {
	client *Client
}

// NewAIModelsClient creates an AI models client.
func NewAIModelsClient(client *Client) *AIModelsClient {
	return &AIModelsClient{client: client}
}

// List returns the selectable models.
func (a *AIModelsClient) List(ctx context.Context) ([]AIModel, error) {
	var aiModels []AIModel

	err := a.client.getJSON(ctx, "/ai/models", nil, &aiModels)
	if err != nil {
		return nil, fmt.Errorf("failed to list AI models: %w", err)
	}

	return aiModels, nil
}
