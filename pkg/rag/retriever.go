package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/askready/askready/internal/models"
	"github.com/askready/askready/internal/types"
)

// ErrDimensionMismatch means the query-time embedding model does not match
// the one the collection was ingested with. This is a configuration error
// and is never silently tolerated.
var ErrDimensionMismatch = errors.New("embedding dimension does not match collection")

type Retriever struct {
	embedder types.Embedder
	store    types.VectorStore
}

func NewRetriever(embedder types.Embedder, store types.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve embeds the query and returns up to k chunks by descending
// similarity. An empty collection yields an empty slice, not an error;
// the caller interprets that as "no grounding available".
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("result count must be at least 1, got %d", k)
	}

	if r.embedder.Dimension() != r.store.Dimension() {
		return nil, fmt.Errorf("%w: embedder produces %d dimensions, collection holds %d",
			ErrDimensionMismatch, r.embedder.Dimension(), r.store.Dimension())
	}

	vectors, err := r.embedder.CreateEmbedding(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected one query vector, got %d", len(vectors))
	}

	results, err := r.store.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return results, nil
}
