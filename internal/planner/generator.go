package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const systemPrompt = "You are an expert IT project manager. Respond with clear, structured project plans."

const (
	maxTokens   = 800
	temperature = 0.4
)

// GenerationError wraps any failure reported by the completion service.
// The cause is surfaced to the caller verbatim for display.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate plan: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Generator calls an OpenAI-compatible chat-completion API. Every call is
// a fresh request; identical prompts are never deduplicated.
type Generator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client

	// retryDelay is the fixed pause between attempts; tests shorten it.
	retryDelay time.Duration
}

type Option func(*Generator)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) {
		g.httpClient = c
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.retryDelay = d
	}
}

func NewGenerator(apiKey, baseURL, model string, opts ...Option) *Generator {
	g := &Generator{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		retryDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate submits the fixed system instruction plus the caller's prompt
// and returns the first completion's text. Transient failures (transport
// errors, 429, 5xx) are retried twice with a fixed delay; other HTTP
// errors are terminal. Every failure comes back as a *GenerationError.
func (g *Generator) Generate(ctx context.Context, promptText string) (string, error) {
	var plan string

	backoff := retry.WithMaxRetries(2, retry.NewConstant(g.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		text, err := g.complete(ctx, promptText)
		if err != nil {
			return err
		}
		plan = text
		return nil
	})
	if err != nil {
		return "", &GenerationError{Cause: err}
	}
	return plan, nil
}

func (g *Generator) complete(ctx context.Context, promptText string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: promptText},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("completion API: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
		// Auth and quota rejections won't improve on retry; rate limits
		// and server errors might.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", retry.RetryableError(err)
		}
		return "", err
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
