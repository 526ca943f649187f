// Package catalog fetches the remote app trust catalog and memoizes it for
// the life of the process.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"appcatmcp/internal/domain"
)

// Client performs the single outbound GET against the catalog document.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(url string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
		logger:     logger.Named("catalog_client"),
	}
}

func (c *Client) Fetch(ctx context.Context) ([]domain.CatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, "catalog.fetch", "", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, "catalog.fetch",
			fmt.Sprintf("request failed: %v", err), domain.ErrCatalogFetch)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.E(domain.CodeUnavailable, "catalog.fetch",
			fmt.Sprintf("unexpected status %s", resp.Status), domain.ErrCatalogFetch)
	}

	var entries []domain.CatalogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, domain.E(domain.CodeUnavailable, "catalog.fetch",
			fmt.Sprintf("decode body: %v", err), domain.ErrCatalogFetch)
	}
	return entries, nil
}
