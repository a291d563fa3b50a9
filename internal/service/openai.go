package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/config"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/metrics"
)

var (
	// ErrModelDisabled is returned when no credential is configured.
	ErrModelDisabled = errors.New("language model is not configured")
	// ErrModelResponse wraps every provider failure.
	ErrModelResponse = errors.New("language model request failed")
)

// LLMClient talks to an OpenAI-compatible chat completions endpoint (Groq by default)
type LLMClient struct {
	client  *openai.Client
	model   string
	enabled bool
	logger  *zap.Logger
}

// NewLLMClient creates a chat client from config
func NewLLMClient(cfg config.LLMConfig, logger *zap.Logger) *LLMClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &LLMClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		enabled: cfg.Enabled(),
		logger:  logger,
	}
}

// Enabled returns whether the client is configured and ready
func (c *LLMClient) Enabled() bool {
	return c.enabled
}

// ChatJSON performs a single JSON-mode chat completion
func (c *LLMClient) ChatJSON(ctx context.Context, operation, system, user string) (string, error) {
	if !c.Enabled() {
		return "", ErrModelDisabled
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "error").Inc()
		return "", parseAPIError(operation, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("%s: empty completion: %w", operation, ErrModelResponse)
	}

	metrics.LLMRequestsTotal.WithLabelValues(operation, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())

	c.logger.Debug("chat completion",
		zap.String("operation", operation),
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}

// EmbeddingClient creates listing embeddings through an OpenAI-compatible API
type EmbeddingClient struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	batchSize  int
	enabled    bool
	logger     *zap.Logger
}

// NewEmbeddingClient creates an embedding client from config
func NewEmbeddingClient(cfg config.EmbeddingConfig, logger *zap.Logger) *EmbeddingClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}

	return &EmbeddingClient{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		batchSize:  batch,
		enabled:    cfg.Enabled(),
		logger:     logger,
	}
}

// Enabled returns whether the client is configured and ready
func (e *EmbeddingClient) Enabled() bool {
	return e.enabled
}

// Dimensions returns the vector size the client requests
func (e *EmbeddingClient) Dimensions() int {
	return e.dimensions
}

// Embed generates embeddings for texts in batches. The result is index-aligned with texts.
func (e *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !e.Enabled() {
		return nil, ErrModelDisabled
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += e.batchSize {
		end := i + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := e.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", i, end, err)
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (e *EmbeddingClient) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues("embedding", "error").Inc()
		return nil, parseAPIError("embedding", err)
	}
	if len(resp.Data) != len(texts) {
		metrics.LLMRequestsTotal.WithLabelValues("embedding", "error").Inc()
		return nil, fmt.Errorf("embedding: got %d vectors for %d inputs: %w", len(resp.Data), len(texts), ErrModelResponse)
	}

	metrics.LLMRequestsTotal.WithLabelValues("embedding", "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues("embedding").Observe(duration.Seconds())

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding: index %d out of range: %w", d.Index, ErrModelResponse)
		}
		if e.dimensions > 0 && len(d.Embedding) != e.dimensions {
			return nil, fmt.Errorf("embedding: got %d dimensions, want %d: %w", len(d.Embedding), e.dimensions, ErrModelResponse)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap ErrModelResponse.
func parseAPIError(operation string, err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("%s: API error %d: %s: %w", operation, reqErr.HTTPStatusCode, detail, ErrModelResponse)
		}
		return fmt.Errorf("%s: API error %d: %w", operation, reqErr.HTTPStatusCode, ErrModelResponse)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: API error %d: %s: %w", operation, apiErr.HTTPStatusCode, apiErr.Message, ErrModelResponse)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", operation, err, ErrModelResponse)
	}
	return fmt.Errorf("%s: %v: %w", operation, err, ErrModelResponse)
}

// extractDetail pulls "detail" or "error.message" out of an error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Error.Message
}
