// Package hevy is a minimal client for the Hevy public API: the exercise
// template catalog and routine creation.
package hevy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/hevyplan/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultBaseURL is the Hevy public API root.
	DefaultBaseURL = "https://api.hevy.com/v1"
	// DefaultPageSize is the catalog page size requested per call.
	DefaultPageSize = 100

	apiKeyHeader = "api-key"
)

// ErrTimeout marks a request abandoned because its deadline passed.
var ErrTimeout = errors.New("hevy: request timed out")

var tracer = otel.Tracer("github.com/claude/hevyplan/internal/hevy")

// APIError is a non-success response from the Hevy API. Body is the raw
// response text, kept verbatim for diagnostics.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hevy: %s returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client calls the Hevy API on behalf of one account. The credential is
// passed through from the caller and never stored beyond the client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the given API key. A zero timeout leaves
// the deadline to the caller's context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type templatesPage struct {
	Page              int                   `json:"page"`
	PageCount         int                   `json:"page_count"`
	ExerciseTemplates []models.CatalogEntry `json:"exercise_templates"`
}

// FetchCatalog pages through GET /exercise_templates until page_count is
// reached. If a page fails, the entries gathered so far are returned along
// with the error, so callers can decide whether a partial catalog is usable.
// Entries keep server order and are not deduplicated.
func (c *Client) FetchCatalog(ctx context.Context, pageSize int) ([]models.CatalogEntry, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	ctx, span := tracer.Start(ctx, "hevy.FetchCatalog")
	defer span.End()

	var entries []models.CatalogEntry
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("pageSize", strconv.Itoa(pageSize))

		body, err := c.do(ctx, http.MethodGet, "/exercise_templates", params, nil)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "page failed")
			span.SetAttributes(attribute.Int("hevy.failed_page", page))
			return entries, fmt.Errorf("fetching template page %d: %w", page, err)
		}

		var p templatesPage
		if err := json.Unmarshal(body, &p); err != nil {
			return entries, fmt.Errorf("hevy: decode template page %d: %w", page, err)
		}
		entries = append(entries, p.ExerciseTemplates...)

		if page >= p.PageCount {
			span.SetAttributes(
				attribute.Int("hevy.pages", page),
				attribute.Int("hevy.templates", len(entries)),
			)
			return entries, nil
		}
	}
}

// CreateRoutine submits one routine via POST /routines and returns the
// server's response body unchanged.
func (c *Client) CreateRoutine(ctx context.Context, routine models.RoutinePayload) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "hevy.CreateRoutine")
	defer span.End()
	span.SetAttributes(
		attribute.String("hevy.routine_title", routine.Title),
		attribute.Int("hevy.exercises", len(routine.Exercises)),
	)

	body, err := c.do(ctx, http.MethodPost, "/routines", nil, models.CreateRoutineRequest{Routine: routine})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create routine failed")
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("hevy: create routine returned non-JSON body: %s", body)
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("hevy: marshal %s: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("hevy: create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
		}
		return nil, fmt.Errorf("hevy: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: reading %s", ErrTimeout, path)
		}
		return nil, fmt.Errorf("hevy: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Op:         method + " " + path,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return body, nil
}

// isTimeout reports whether err came from a passed deadline, either the
// context's or the http.Client's own timeout.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
