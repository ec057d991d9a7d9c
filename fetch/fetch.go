// Package fetch retrieves US Code and eCFR snapshots from their
// government endpoints: release-point discovery, versioner queries and
// bulk downloads, with bounded retries.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Config configures the Client.
type Config struct {
	Timeout  time.Duration // per-request HTTP timeout. Default: 5m (bulk ZIPs are large).
	MaxBytes int64         // max response body size. Default: 1GB.
	Retries  int           // retry count after the first attempt. Default: 3.
	Backoff  time.Duration // base retry delay, grows 1.5x per attempt. Default: 1s.
	// UserAgent sent with requests. GPO endpoints reject empty agents.
	UserAgent string

	// USCBase and ECFRBase override the government endpoints in tests.
	USCBase  string
	ECFRBase string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Minute
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 1 << 30
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "taxingest/1.0"
	}
	if c.USCBase == "" {
		c.USCBase = "https://uscode.house.gov"
	}
	if c.ECFRBase == "" {
		c.ECFRBase = "https://www.ecfr.gov"
	}
}

// Client performs HTTP requests against the USC and eCFR endpoints.
type Client struct {
	client *http.Client
	config Config
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}

// Get retrieves url, retrying transient failures (network errors, 429,
// 5xx) with exponential backoff. Non-transient HTTP statuses fail
// immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.Retries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(1.5, float64(attempt)) * float64(c.config.Backoff))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retryable, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("get %s: %w (after %d attempts)", url, lastErr, c.config.Retries+1)
}

// Head issues a HEAD request and returns the response headers. Used to
// probe snapshot endpoints without pulling the body.
func (c *Client) Head(ctx context.Context, url string) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http head: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return resp.Header, nil
}

func (c *Client) get(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("http %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}
