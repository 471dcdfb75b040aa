// Package fetch is the network side of tile materialization: one
// unauthenticated GET per tile against the cache service.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultUserAgent mirrors a desktop browser; some tile services refuse
	// the default Go client string.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

	// DefaultTimeout bounds a single tile request so a stalled connection
	// cannot hold a pool slot indefinitely.
	DefaultTimeout = 30 * time.Second
)

// TileMissingError reports a non-success tile response. Missing tiles are an
// expected condition: tile ranges are not clamped to the server's coverage.
type TileMissingError struct {
	URL        string
	StatusCode int
}

func (e *TileMissingError) Error() string {
	return fmt.Sprintf("tile not available (status %d): %s", e.StatusCode, e.URL)
}

// Client fetches tiles over HTTP with system proxy support and a finite
// per-request timeout.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a tile client with the default timeout and user agent.
func NewClient() *Client {
	return NewClientWithOptions(DefaultTimeout, DefaultUserAgent)
}

// NewClientWithOptions creates a tile client with an explicit timeout and
// user agent, respecting system proxy settings.
func NewClientWithOptions(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// FetchTile issues the GET for one tile and returns the open response body
// and the declared content type. The caller owns the body. A non-2xx status
// is returned as a *TileMissingError.
func (c *Client) FetchTile(ctx context.Context, tileURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch tile: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", &TileMissingError{URL: tileURL, StatusCode: resp.StatusCode}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}
