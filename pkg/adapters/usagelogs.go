package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// UsageLogEntry is one AI usage record. The builder displays these records
// without interpreting them.
type UsageLogEntry struct {
	ID        string         `json:"id"`
	Model     string         `json:"model"`
	Tokens    int            `json:"tokens"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// UsageLogPage is one page of usage records.
type UsageLogPage struct {
	Entries     []UsageLogEntry `json:"entries"`
	TotalCount  int64           `json:"total_count"`
	HasNextPage bool            `json:"has_next_page"`
}

// UsageLogsClient pages through AI usage records.
type UsageLogsClient struct {
	client *Client
}

// NewUsageLogsClient creates a usage logs client.
func NewUsageLogsClient(client *Client) *UsageLogsClient {
	return &UsageLogsClient{client: client}
}

// List returns one page of usage records.
func (u *UsageLogsClient) List(ctx context.Context, limit, offset int) (*UsageLogPage, error) {
	if limit <= 0 {
		limit = 20
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var page UsageLogPage

	err := u.client.getJSON(ctx, "/usage-logs", query, &page)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage logs: %w", err)
	}

	return &page, nil
}
