// Package remote fetches published flows by name.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"questflow/internal/model"
)

// Client loads named flow documents from a static site that serves
// {baseURL}/flows/{name}.json.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a flow client. A zero timeout means 10 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FlowURL returns the address of a named flow.
func (c *Client) FlowURL(name string) string {
	return fmt.Sprintf("%s/flows/%s.json", c.baseURL, url.PathEscape(name))
}

// Fetch downloads and decodes the named flow.
func (c *Client) Fetch(ctx context.Context, name string) (model.Flow, error) {
	if strings.TrimSpace(name) == "" {
		return model.Flow{}, fmt.Errorf("flow name is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FlowURL(name), nil)
	if err != nil {
		return model.Flow{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Flow{}, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Flow{}, fmt.Errorf("failed to fetch flow %q: status %d", name, resp.StatusCode)
	}

	return model.DecodeFlow(resp.Body)
}
