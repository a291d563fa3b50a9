package service

import (
	"context"
)

// ChatClient is the language-model surface used by intent extraction and ranking
type ChatClient interface {
	// ChatJSON sends one system+user exchange in JSON mode and returns the
	// assistant content. operation labels metrics and logs.
	ChatJSON(ctx context.Context, operation, system, user string) (string, error)

	// Enabled reports whether a credential is configured
	Enabled() bool
}

// Embedder generates vectors for listing text
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Enabled() bool
}

var (
	_ ChatClient = (*LLMClient)(nil)
	_ Embedder   = (*EmbeddingClient)(nil)
)
