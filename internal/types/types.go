package types

import (
	"context"

	"github.com/askready/askready/internal/models"
)

// Embedder maps texts to fixed-length vectors. The same embedder (same
// model, same dimension) must be used at ingestion and at query time.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// VectorStore persists embedding records and answers nearest-neighbor
// queries. An empty collection is a valid state: Search returns an empty
// slice, never an error, when nothing is stored.
type VectorStore interface {
	Upsert(ctx context.Context, records []models.EmbeddingRecord) error
	Search(ctx context.Context, vector []float32, k int) ([]models.SearchResult, error)
	Count(ctx context.Context) (int, error)
	Dimension() int
	Close()
}
