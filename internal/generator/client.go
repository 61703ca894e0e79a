// Package generator asks an OpenAI-compatible chat completion endpoint for
// an abstract multi-day workout plan.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/claude/hevyplan/internal/models"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
)

var (
	// ErrGeneration wraps every failure to obtain or parse a plan.
	ErrGeneration = errors.New("failed to generate workout plan")
	// ErrTimeout marks a completion request that ran past its deadline.
	ErrTimeout = errors.New("generator: request timed out")
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client implements plan generation over the chat completions API.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// New creates a Client. Empty options fall back to OpenAI defaults.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		httpClient:  &http.Client{Timeout: opts.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate requests a plan for p and parses the model's answer.
func (c *Client) Generate(ctx context.Context, p *models.Preferences) (*models.AbstractPlan, error) {
	userPrompt, err := UserPrompt(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	content, err := c.complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	plan, err := ParsePlan(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return plan, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrGeneration, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: send request: %v", ErrGeneration, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: read response: %v", ErrGeneration, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: completion api error (status %d): %s", ErrGeneration, resp.StatusCode, body)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", ErrGeneration, err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("%w: completion error: %s", ErrGeneration, cr.Error.Message)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGeneration)
	}
	return cr.Choices[0].Message.Content, nil
}

// ParsePlan extracts the plan JSON from a model answer. Markdown code fences
// are stripped; if the remainder still is not valid JSON, the outermost
// {...} span is tried. The plan's shape is not checked here: an empty plan
// yields no routines and a day without exercises fails when it is assembled,
// after the days before it were submitted.
func ParsePlan(content string) (*models.AbstractPlan, error) {
	text := strings.NewReplacer("```json", "", "```", "").Replace(content)
	text = strings.TrimSpace(text)

	var plan models.AbstractPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		start := strings.IndexByte(text, '{')
		end := strings.LastIndexByte(text, '}')
		if start == -1 || end <= start {
			return nil, fmt.Errorf("no JSON object in response: %w", err)
		}
		plan = models.AbstractPlan{}
		if err := json.Unmarshal([]byte(text[start:end+1]), &plan); err != nil {
			return nil, fmt.Errorf("decode plan: %w", err)
		}
	}

	return &plan, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
