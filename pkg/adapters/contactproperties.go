package adapters

import (
	"context"
	"fmt"
)

// ContactProperty is one custom property defined on contacts. The builder
// offers these as save-to-variable targets.
type ContactProperty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ContactPropertiesClient manages contact property definitions.
type ContactPropertiesClient struct {
	client *Client
}

// NewContactPropertiesClient creates a contact properties client.
func NewContactPropertiesClient(client *Client) *ContactPropertiesClient {
	return &ContactPropertiesClient{client: client}
}

// List returns all contact properties.
func (c *ContactPropertiesClient) List(ctx context.Context) ([]ContactProperty, error) {
	var properties []ContactProperty

	err := c.client.getJSON(ctx, "/contact-properties", nil, &properties)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact properties: %w", err)
	}

	return properties, nil
}

// Create defines a new contact property.
func (c *ContactPropertiesClient) Create(ctx context.Context, name, propertyType string) (*ContactProperty, error) {
	body := map[string]string{
		"name": name,
		"type": propertyType,
	}

	var property ContactProperty

	err := c.client.postJSON(ctx, "/contact-properties", body, &property)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact property: %w", err)
	}

	return &property, nil
}

// Update renames an existing contact property.
func (c *ContactPropertiesClient) Update(ctx context.Context, id, name string) (*ContactProperty, error) {
	body := map[string]string{"name": name}

	var property ContactProperty

	err := c.client.putJSON(ctx, "/contact-properties/"+id, body, &property)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact property %s: %w", id, err)
	}

	return &property, nil
}

// Delete removes a contact property.
func (c *ContactPropertiesClient) Delete(ctx context.Context, id string) error {
	err := c.client.delete(ctx, "/contact-properties/"+id)
	if err != nil {
		return fmt.Errorf("failed to delete contact property %s: %w", id, err)
	}

	return nil
}
