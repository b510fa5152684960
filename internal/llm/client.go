// Package llm provides a minimal client for OpenAI-compatible chat
// completion APIs, plus a deterministic mock so genesis stays fully
// functional without any backend configured.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for calling a language model.
type Client interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Endpoint describes one resolved model backend. The router produces these;
// the client does not read the environment itself.
type Endpoint struct {
	// BaseURL is the API root, e.g. http://localhost:1234/v1.
	BaseURL string
	// Model is the model identifier sent with each request.
	Model string
	// APIKey may be empty for local backends.
	APIKey string
}

type httpClient struct {
	endpoint Endpoint
	http     *http.Client

	// lazy rate limit: the first request goes straight through, later
	// requests reserve the next slot minInterval apart
	mu          sync.Mutex
	minInterval time.Duration
	nextAt      time.Time
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewHTTPClient creates a client for any OpenAI-compatible chat completions
// API at the given endpoint.
func NewHTTPClient(endpoint Endpoint) Client {
	endpoint.BaseURL = strings.TrimRight(endpoint.BaseURL, "/")

	return &httpClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 120 * time.Second},
		// max 10 requests per second per backend
		minInterval: 100 * time.Millisecond,
	}
}

// throttle reserves the next request slot. It returns immediately when the
// slot is already due and otherwise sleeps until it is, or until ctx ends.
func (c *httpClient) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	slot := c.nextAt
	if slot.Before(now) {
		slot = now
	}
	c.nextAt = slot.Add(c.minInterval)
	c.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *httpClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if err := c.throttle(ctx); err != nil {
		return "", err
	}

	payload, err := json.Marshal(chatRequest{
		Model:    c.endpoint.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("llm marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.endpoint.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.endpoint.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm read body: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("llm unmarshal: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm: no choices returned")
	}
	return parsed.Choices[0].Message.Content, nil
}
