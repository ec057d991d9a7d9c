// Package searchidx triggers Azure AI Search indexer runs after fresh
// JSONL lands in blob storage. Triggering is advisory: the indexer also
// runs on its own schedule, so a failed trigger only delays freshness.
package searchidx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiVersion = "2024-05-01-preview"

// Client calls the Azure AI Search management REST API.
type Client struct {
	endpoint string // e.g. https://mysearch.search.windows.net
	apiKey   string
	client   *http.Client
}

// New creates a Client. Endpoint must not end with a slash.
func New(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// RunIndexer requests an on-demand run of the named indexer. Azure
// answers 202 on acceptance; 409 means a run is already in flight,
// which callers treat the same as success.
func (c *Client) RunIndexer(ctx context.Context, name string) error {
	url := fmt.Sprintf("%s/indexers/%s/run?api-version=%s", c.endpoint, name, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("searchidx: new request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("searchidx: run %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent, http.StatusConflict:
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("searchidx: run %s: http %d: %s", name, resp.StatusCode, body)
}
