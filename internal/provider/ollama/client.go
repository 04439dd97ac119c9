// Package ollama adapts a local Ollama server to the llmbridge ChatProvider
// interface. Chat traffic goes through Ollama's OpenAI-compatible endpoint;
// model discovery uses the native /api/tags endpoint.
package ollama

import (
	"context"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/llmbridge"
	"github.com/spetersoncode/llmbridge/internal/provider/openai"
)

// DefaultBaseURL is the default Ollama server address.
const DefaultBaseURL = "http://localhost:11434"

// DefaultModel is used when a request does not name a model.
const DefaultModel = "llama3.2"

// Client implements ai.ChatProvider against a local Ollama server.
type Client struct {
	chat    *openai.Client
	baseURL string
}

// New creates a new Ollama client for the given server address.
// An empty baseURL uses DefaultBaseURL.
func New(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	// Ollama serves an OpenAI-compatible API under /v1. The api key is
	// required by the SDK but ignored by the server.
	sdkClient := sdk.NewClient(
		option.WithBaseURL(baseURL+"/v1"),
		option.WithAPIKey("ollama"),
	)

	c := &Client{
		chat:    openai.NewWithClient(&sdkClient, DefaultModel),
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Ollama client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.chat = openai.NewWithClient(c.chat.SDK(), model)
	}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return c.chat.Chat(ctx, messages, opts...)
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	return c.chat.ChatStream(ctx, messages, opts...)
}

var _ ai.ChatProvider = (*Client)(nil)
