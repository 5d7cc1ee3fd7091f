package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("inference endpoint is not configured")
	ErrEmptyOutput   = errors.New("inference returned no text")
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible /chat/completions endpoint and exposes
// the three study capabilities on top of it.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
	}
}

// Answer replies to question grounded on context.
func (c *Client) Answer(ctx context.Context, question, context string) (string, error) {
	messages := []ChatMessage{
		{
			Role:    "system",
			Content: "You are a study assistant. Answer the question using the context. If the context does not contain the answer, say so briefly.",
		},
		{
			Role:    "user",
			Content: "Context:\n" + context + "\n\nQuestion: " + question + "\n\nAnswer:",
		},
	}
	return c.Complete(ctx, messages, 512)
}

// Summarize condenses text to roughly maxLen tokens.
func (c *Client) Summarize(ctx context.Context, text string, maxLen int) (string, error) {
	messages := []ChatMessage{
		{
			Role:    "system",
			Content: "You summarize study material clearly and faithfully.",
		},
		{
			Role:    "user",
			Content: "summarize: " + text,
		},
	}
	return c.Complete(ctx, messages, maxLen)
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Complete(ctx, []ChatMessage{{Role: "user", Content: prompt}}, 512)
}

func (c *Client) Complete(ctx context.Context, messages []ChatMessage, maxTokens int) (string, error) {
	if c.cfg.BaseURL == "" || c.cfg.Model == "" {
		return "", ErrNotConfigured
	}

	reqBody := map[string]interface{}{
		"model":    c.cfg.Model,
		"messages": messages,
		"stream":   false,
	}
	if maxTokens > 0 {
		reqBody["max_tokens"] = maxTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm response status %d: %s", resp.StatusCode, truncate(string(raw), 300))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error,omitempty"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse llm json failed: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm returned error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyOutput
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyOutput
	}
	return content, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
