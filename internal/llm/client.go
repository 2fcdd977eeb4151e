// internal/llm/client.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ProviderConfig describes one OpenAI-compatible endpoint.
type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
}

// Client talks to any number of OpenAI-compatible providers.
// One go-openai client per configured provider, built once at startup.
type Client struct {
	clients map[string]*openai.Client
}

// Default base URLs for providers that speak the OpenAI chat protocol.
var defaultBaseURLs = map[string]string{
	"openai":      "",
	"deepseek":    "https://api.deepseek.com",
	"xai":         "https://api.x.ai/v1",
	"siliconflow": "https://api.siliconflow.cn/v1",
	"ollama":      "http://localhost:11434/v1",
}

// NewClient builds a Client from provider configs. Unknown provider names
// are accepted as long as a base URL is given.
func NewClient(providers []ProviderConfig) (*Client, error) {
	c := &Client{clients: make(map[string]*openai.Client)}

	httpClient := newHTTPClient()

	for _, p := range providers {
		baseURL := p.BaseURL
		if baseURL == "" {
			known, ok := defaultBaseURLs[p.Name]
			if !ok {
				return nil, fmt.Errorf("provider %q needs an explicit base_url", p.Name)
			}
			baseURL = known
		}

		cfg := openai.DefaultConfig(p.APIKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		cfg.HTTPClient = httpClient

		c.clients[p.Name] = openai.NewClientWithConfig(cfg)
	}

	return c, nil
}

// newHTTPClient returns an HTTP client tuned for long LLM round-trips.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Minute,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// Complete implements Invoker. It blocks until the full response arrives.
func (c *Client) Complete(ctx context.Context, binding Binding, msgs []Message, maxTokens int) (string, error) {
	client, ok := c.clients[binding.Provider]
	if !ok {
		return "", fmt.Errorf("provider %q not configured", binding.Provider)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     binding.Model,
		Messages:  toOpenAI(msgs),
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s/%s: %w", binding.Provider, binding.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s/%s: empty response", binding.Provider, binding.Model)
	}

	return resp.Choices[0].Message.Content, nil
}

// Stream implements Streamer. onChunk receives incremental text; the full
// accumulated response is returned when the stream ends.
func (c *Client) Stream(ctx context.Context, binding Binding, msgs []Message, maxTokens int, onChunk func(string)) (string, error) {
	client, ok := c.clients[binding.Provider]
	if !ok {
		return "", fmt.Errorf("provider %q not configured", binding.Provider)
	}

	stream, err := client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:     binding.Model,
		Messages:  toOpenAI(msgs),
		MaxTokens: maxTokens,
		Stream:    true,
	})
	if err != nil {
		return "", fmt.Errorf("%s/%s: %w", binding.Provider, binding.Model, err)
	}
	defer stream.Close()

	var full string
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return full, nil
		}
		if err != nil {
			return full, fmt.Errorf("%s/%s: %w", binding.Provider, binding.Model, err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta != "" {
			full += delta
			if onChunk != nil {
				onChunk(delta)
			}
		}
	}
}

func toOpenAI(msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
