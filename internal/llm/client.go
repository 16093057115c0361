// Package llm builds event-extraction prompts and sends them to an
// OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// Client is a text generation client backed by go-openai.
type Client struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a client. baseURL may be empty for api.openai.com;
// model defaults to gpt-4o-mini.
func NewClient(logger *slog.Logger, apiKey, baseURL, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if model == "" {
		model = defaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}, nil
}

// Generate sends prompt as a single user message and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("Requesting completion", "model", c.model, "promptBytes", len(prompt))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned by model %s", c.model)
	}

	reply := resp.Choices[0].Message.Content
	c.logger.Debug("Received completion", "model", c.model, "replyBytes", len(reply))
	return reply, nil
}
