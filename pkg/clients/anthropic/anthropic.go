package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// ErrQuotaExceeded indicates the API rejected the call for rate or credit
// reasons. The HTTP layer maps it to 429 instead of a generic failure.
var ErrQuotaExceeded = errors.New("anthropic quota exceeded")

// Client defines the language-model operations used by the agent.
type Client interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// Message is one turn sent to the messages API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation with the system prompt and returns the
// model's raw text. No retries; callers surface failures directly.
func (c *anthropicClient) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  messages,
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&respBody).
		Post(apiURL)

	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: %s", ErrQuotaExceeded, resp.String())
	}
	if resp.IsError() {
		if respBody.Error != nil {
			if respBody.Error.Type == "rate_limit_error" || respBody.Error.Type == "overloaded_error" {
				return "", fmt.Errorf("%w: %s", ErrQuotaExceeded, respBody.Error.Message)
			}
			return "", fmt.Errorf("anthropic api error: %s", respBody.Error.Message)
		}
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", errors.New("empty response from ai")
	}

	return respBody.Content[0].Text, nil
}
