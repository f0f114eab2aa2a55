package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

// EmbedderConfig selects the hosted embedding model. The model determines
// the vector dimension; Dim is pinned in config so a model swap without a
// re-ingest is caught instead of silently corrupting the collection.
type EmbedderConfig struct {
	Model   string
	BaseURL string
	APIKey  string
	Dim     int
}

type embeddingClient interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder wraps an OpenAI-compatible embeddings endpoint and validates
// every returned vector against the configured dimension.
type Embedder struct {
	config EmbedderConfig
	client embeddingClient
}

func NewEmbedder(config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}
	if config.Dim < 1 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", config.Dim)
	}

	client, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(config.APIKey),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding client: %w", err)
	}

	return &Embedder{config: config, client: client}, nil
}

func (e *Embedder) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := e.client.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors",
			len(texts), len(embeddings))
	}
	for i, emb := range embeddings {
		if len(emb) != e.config.Dim {
			return nil, fmt.Errorf("model %q returned a %d-dimensional vector for text %d, expected %d",
				e.config.Model, len(emb), i, e.config.Dim)
		}
	}

	return embeddings, nil
}

func (e *Embedder) Dimension() int {
	return e.config.Dim
}
