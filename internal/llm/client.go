// Package llm talks to an OpenAI-compatible API for chat completions and
// image generation.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Options configures the model clients
type Options struct {
	BaseURL     string
	APIKey      string
	ChatModel   string
	ImageModel  string
	ImageSize   string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// ChatClient requests recipe text from the chat completions endpoint
type ChatClient struct {
	client *resty.Client
	opts   Options
	logger *zap.Logger
}

// NewChatClient creates a chat client using opts.Timeout per request
func NewChatClient(opts Options, logger *zap.Logger) *ChatClient {
	return &ChatClient{
		client: newRestyClient(opts, opts.Timeout),
		opts:   opts,
		logger: logger.Named("llm.chat"),
	}
}

// Complete sends one system and one user message and returns the reply text
func (c *ChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: c.opts.ChatModel,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    c.opts.Temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send chat request: %w", err)
	}

	c.logger.Debug("chat completion finished",
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat response")
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty content in chat response")
	}
	return content, nil
}

func newRestyClient(opts Options, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(opts.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(retryable)

	if opts.APIKey != "" {
		client.SetAuthToken(opts.APIKey)
	}
	return client
}

func retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
