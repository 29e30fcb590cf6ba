// Package brightdata wraps the Bright Data Web Unlocker API. One client
// is constructed at process start and injected into every retrieval
// source; it is safe for concurrent use.
package brightdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const apiBaseURL = "https://api.brightdata.com"

// RequestOptions describes a single unlocker fetch
type RequestOptions struct {
	URL              string
	Method           string
	Headers          map[string]string
	BrowserEmulation bool
	CountryCode      string
}

// Client is a Bright Data Web Unlocker client
type Client struct {
	apiKey   string
	zoneName string
	client   *http.Client
	log      zerolog.Logger
}

// New creates a new Bright Data client. An empty API key leaves the
// client in sample mode: sources detect this via Live and serve their
// deterministic datasets instead of fetching.
func New(apiKey, zoneName string, log zerolog.Logger) *Client {
	c := &Client{
		apiKey:   apiKey,
		zoneName: zoneName,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log.With().Str("client", "brightdata").Logger(),
	}

	if apiKey == "" {
		c.log.Warn().Msg("Bright Data API key not set, sources will serve sample data")
	}
	return c
}

// Live reports whether the client can reach the unlocker API
func (c *Client) Live() bool {
	return c.apiKey != ""
}

type unlockerRequest struct {
	Zone    string `json:"zone"`
	URL     string `json:"url"`
	Format  string `json:"format"`
	Method  string `json:"method,omitempty"`
	Render  bool   `json:"render,omitempty"`
	Country string `json:"country,omitempty"`
}

// Fetch retrieves a page through the Web Unlocker and returns the raw body
func (c *Client) Fetch(ctx context.Context, opts RequestOptions) ([]byte, error) {
	if !c.Live() {
		return nil, fmt.Errorf("brightdata: client not configured")
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	payload, err := json.Marshal(unlockerRequest{
		Zone:    c.zoneName,
		URL:     opts.URL,
		Format:  "raw",
		Method:  method,
		Render:  opts.BrowserEmulation,
		Country: opts.CountryCode,
	})
	if err != nil {
		return nil, fmt.Errorf("brightdata: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBaseURL+"/request", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("brightdata: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brightdata: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("brightdata: read response: %w", err)
	}

	c.log.Debug().
		Str("url", opts.URL).
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("Unlocker fetch")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brightdata: unexpected status %d", resp.StatusCode)
	}

	return body, nil
}
