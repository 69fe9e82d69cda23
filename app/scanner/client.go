package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Client talks to the scanner controller's HTTP API: device enumeration,
// per-device restart commands and the derived-mapping recompute trigger.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

// ListDevices returns the identifiers of all registered scanning devices.
func (c *Client) ListDevices(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, "/devices")
	if err != nil {
		return nil, err
	}

	var devices []string
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("failed to parse device list: %w", err)
	}
	return devices, nil
}

// RestartDevice sends a restart-application command to one device.
func (c *Client) RestartDevice(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/devices/"+url.PathEscape(id)+"/restart")
	return err
}

// RefreshMapping triggers a recompute of the scanner's derived mapping.
func (c *Client) RefreshMapping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/mapping/refresh")
	return err
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach scanner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scanner returned HTTP %d for %s %s", resp.StatusCode, method, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
