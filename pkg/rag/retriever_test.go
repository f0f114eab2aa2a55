package rag_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askready/askready/internal/models"
	"github.com/askready/askready/pkg/rag"
	"github.com/askready/askready/pkg/store"
)

// wordEmbedder is a deterministic test embedder: one dimension per
// vocabulary word, counting occurrences. Texts sharing words land close
// under cosine similarity, which is all the retriever tests need.
type wordEmbedder struct {
	vocab []string
}

func newWordEmbedder() *wordEmbedder {
	return &wordEmbedder{vocab: []string{
		"emergency", "kit", "water", "food", "radio",
		"hurricane", "evacuate", "landfall", "shelter", "storm",
	}}
}

func (e *wordEmbedder) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(e.vocab))
		lower := strings.ToLower(text)
		for j, word := range e.vocab {
			vec[j] = float32(strings.Count(lower, word))
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *wordEmbedder) Dimension() int { return len(e.vocab) }

func seedStore(t *testing.T, embedder *wordEmbedder, chunks []models.Chunk) *store.MemoryStore {
	t.Helper()

	s, err := store.NewMemoryStore(embedder.Dimension())
	require.NoError(t, err)

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := embedder.CreateEmbedding(context.Background(), texts)
	require.NoError(t, err)

	records := make([]models.EmbeddingRecord, len(chunks))
	for i := range chunks {
		records[i] = models.EmbeddingRecord{Chunk: chunks[i], Vector: vectors[i]}
	}
	require.NoError(t, s.Upsert(context.Background(), records))
	return s
}

func TestRetrieveOnEmptyCollection(t *testing.T) {
	embedder := newWordEmbedder()
	s, err := store.NewMemoryStore(embedder.Dimension())
	require.NoError(t, err)

	r := rag.NewRetriever(embedder, s)
	results, err := r.Retrieve(context.Background(), "What should be in an emergency kit?", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveRanksExactMatchFirst(t *testing.T) {
	embedder := newWordEmbedder()

	// Two documents, one chunk each: the fixed synthetic fixture.
	chunks := []models.Chunk{
		{ID: "a0", DocumentID: "docA", SourceName: "Ready.gov",
			Text: "Keep a 72-hour emergency kit with water, food and a radio."},
		{ID: "b0", DocumentID: "docB", SourceName: "NOAA",
			Text: "Evacuate before the hurricane makes landfall."},
	}
	s := seedStore(t, embedder, chunks)

	r := rag.NewRetriever(embedder, s)

	// A query with the same embedding as the stored chunk ranks it first,
	// above the unrelated chunk.
	results, err := r.Retrieve(context.Background(), chunks[0].Text, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a0", results[0].Chunk.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-6)
}

func TestRetrieveSortsDescendingAndHonorsK(t *testing.T) {
	embedder := newWordEmbedder()

	chunks := []models.Chunk{
		{ID: "a0", SourceName: "Ready.gov", Text: "emergency kit water food radio"},
		{ID: "a1", SourceName: "Ready.gov", Text: "emergency kit water"},
		{ID: "b0", SourceName: "NOAA", Text: "hurricane evacuate landfall"},
	}
	s := seedStore(t, embedder, chunks)

	r := rag.NewRetriever(embedder, s)
	results, err := r.Retrieve(context.Background(), "emergency kit water food radio", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a0", results[0].Chunk.ID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRetrieveRejectsInvalidK(t *testing.T) {
	embedder := newWordEmbedder()
	s, err := store.NewMemoryStore(embedder.Dimension())
	require.NoError(t, err)

	r := rag.NewRetriever(embedder, s)
	_, err = r.Retrieve(context.Background(), "anything", 0)
	assert.Error(t, err)
}

func TestRetrieveDetectsDimensionMismatch(t *testing.T) {
	embedder := newWordEmbedder()

	// Collection ingested with a different model dimension.
	s, err := store.NewMemoryStore(embedder.Dimension() + 1)
	require.NoError(t, err)

	r := rag.NewRetriever(embedder, s)
	_, err = r.Retrieve(context.Background(), "anything", 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, rag.ErrDimensionMismatch)
}
