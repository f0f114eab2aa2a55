package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/askready/askready/internal/models"
)

// MemoryStore is a brute-force cosine similarity store over an in-process
// slice. It backs tests and small local runs where no database is
// available. Ties on equal score keep insertion order, so results are
// deterministic, unlike the pgvector backend.
type MemoryStore struct {
	mu      sync.RWMutex
	dim     int
	records []models.EmbeddingRecord
	byID    map[string]int
}

func NewMemoryStore(dim int) (*MemoryStore, error) {
	if dim < 1 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", dim)
	}
	return &MemoryStore{
		dim:  dim,
		byID: make(map[string]int),
	}, nil
}

func (m *MemoryStore) Upsert(_ context.Context, records []models.EmbeddingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range records {
		if len(rec.Vector) != m.dim {
			return fmt.Errorf("record %s has dimension %d, collection expects %d",
				rec.Chunk.ID, len(rec.Vector), m.dim)
		}
		if i, ok := m.byID[rec.Chunk.ID]; ok {
			m.records[i] = rec
			continue
		}
		m.byID[rec.Chunk.ID] = len(m.records)
		m.records = append(m.records, rec)
	}

	return nil
}

func (m *MemoryStore) Search(_ context.Context, vector []float32, k int) ([]models.SearchResult, error) {
	if len(vector) != m.dim {
		return nil, fmt.Errorf("query vector has dimension %d, collection expects %d",
			len(vector), m.dim)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]models.SearchResult, 0, len(m.records))
	for _, rec := range m.records {
		results = append(results, models.SearchResult{
			Chunk: rec.Chunk,
			Score: cosineSimilarity(vector, rec.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func (m *MemoryStore) Dimension() int {
	return m.dim
}

func (m *MemoryStore) Close() {}

func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
