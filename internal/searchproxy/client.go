// Package searchproxy talks to the third-party search API used as an
// indirect scraping mechanism for platforms without a public data API.
package searchproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/buzzwatch/buzzwatch/internal/ratelimit"
)

const defaultEndpoint = "https://google.serper.dev/search"

// Result is one organic search result.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type searchResponse struct {
	Organic []Result `json:"organic"`
}

// Client queries the search proxy. The zero value is not usable; use New.
type Client struct {
	apiKey   string
	endpoint string
	limiter  *ratelimit.Limiter
	client   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the search endpoint. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// New creates a search-proxy client authenticated with apiKey.
func New(apiKey string, limiter *ratelimit.Limiter, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		limiter:  limiter,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search runs a free-text query and returns up to num organic results.
func (c *Client) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("search proxy API key not configured")
	}

	c.limiter.Wait(c.endpoint)

	body, err := json.Marshal(searchRequest{Query: query, Num: num})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search proxy returned status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return decoded.Organic, nil
}
