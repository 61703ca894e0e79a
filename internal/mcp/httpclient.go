package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/planner"
)

// HTTPClient implements Backend by calling the hevyplan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the service runs elsewhere (for example behind Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies Backend.
var _ Backend = (*HTTPClient)(nil)

// RemoteError is a non-200 answer from the remote service.
type RemoteError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("httpclient: %s returned %d: %s", e.Path, e.StatusCode, e.Message)
}

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey
// is the service access key and may be empty. Plan runs can take minutes,
// so the timeout should cover the server's run timeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("httpclient: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := string(body)
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &RemoteError{Path: path, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Run(ctx context.Context, prefs *models.Preferences) (*planner.Result, error) {
	var res planner.Result
	if err := c.post(ctx, "/api/v1/plans", prefs, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Preview(ctx context.Context, prefs *models.Preferences) (*planner.Result, error) {
	var res planner.Result
	if err := c.post(ctx, "/api/v1/preview", prefs, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Lookup(ctx context.Context, apiKey, name string, limit int) (*planner.Lookup, error) {
	payload := map[string]any{"name": name, "hevyApiKey": apiKey, "limit": limit}
	var l planner.Lookup
	if err := c.post(ctx, "/api/v1/resolve", payload, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
