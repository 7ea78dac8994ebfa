// Package gemini wraps the hosted generative-language API. Every call
// carries its own API key, so the client is built per request rather than
// once at startup.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const validationPrompt = "Test"

// Client issues single generation calls against the Gemini API.
type Client struct {
	model      string
	httpClient *http.Client
}

// New constructs a client for the given model. The timeout bounds the
// whole transport round trip of each call.
func New(model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("gemini: model is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Generate issues one generation request authenticated by key and returns
// the model's raw text output. No retries: a failure is terminal for the
// current submission.
func (c *Client) Generate(ctx context.Context, key, prompt string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("gemini: api key is required")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("gemini: prompt is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini: empty response content")
	}
	return text, nil
}

// ValidateKey issues one minimal trial generation with the candidate key.
// Any failure, including network failure, means the key is unusable;
// a revoked key is indistinguishable from a malformed one here.
func (c *Client) ValidateKey(ctx context.Context, key string) error {
	_, err := c.Generate(ctx, key, validationPrompt)
	return err
}
