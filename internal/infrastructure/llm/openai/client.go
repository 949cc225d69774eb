package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vanshm/study-assistant/internal/infrastructure/resilience"
)

// Client talks to an OpenAI-compatible API and implements both the
// TextCompletion and Embedder ports. All calls go through the resilience
// executor when one is configured.
type Client struct {
	baseURL    string
	apiKey     string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Option func(*Client)

func WithExecutor(executor *resilience.Executor) Option {
	return func(c *Client) { c.executor = executor }
}

func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

func New(baseURL, apiKey, genModel, embedModel string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	return c.chat(ctx, chatRequest{
		Model:       c.genModel,
		Messages:    []chatMessage{{Role: "system", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
}

func (c *Client) CompleteJSON(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	return c.chat(ctx, chatRequest{
		Model:          c.genModel,
		Messages:       []chatMessage{{Role: "system", Content: prompt}},
		MaxTokens:      maxTokens,
		Temperature:    temperature,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
}

func (c *Client) chat(ctx context.Context, request chatRequest) (string, error) {
	var response chatResponse
	err := c.execute(ctx, "llm.chat", func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/chat/completions", request, &response, "chat")
	})
	if err != nil {
		return "", wrapTemporaryIfNeeded("chat completion", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var response embedResponse
	err := c.execute(ctx, "llm.embed", func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/embeddings", embedRequest{Model: c.embedModel, Input: texts}, &response, "embed")
	})
	if err != nil {
		return nil, wrapTemporaryIfNeeded("embed texts", err)
	}

	vectors := make([][]float32, len(texts))
	for _, item := range response.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, vector := range vectors {
		if vector == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return vectors, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	return c.executor.Execute(ctx, operation, fn, classifyProviderError)
}
