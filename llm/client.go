// Package llm talks to an OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restaurant/pkg/metrics"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var ErrEmptyResponse = errors.New("model returned no content")

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client wraps a langchaingo model. A client built without a usable
// configuration keeps the error and returns it from every Complete call.
type Client struct {
	model   llms.Model
	initErr error
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4.1-nano"
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(model),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		opts = append(opts, openai.WithBaseURL(base))
	}

	m, err := openai.New(opts...)
	if err != nil {
		return &Client{initErr: fmt.Errorf("init llm client: %w", err)}
	}
	return &Client{model: m}
}

// Complete sends a system prompt and one user turn and returns the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.initErr != nil {
		return "", c.initErr
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	})
	metrics.ObserveLLM(time.Since(start))
	if errors.Is(err, openai.ErrEmptyResponse) {
		return "", ErrEmptyResponse
	}
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
