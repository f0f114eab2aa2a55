package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/askready/askready/internal/models"
	"github.com/askready/askready/internal/types"
	"github.com/askready/askready/pkg/chunker"
)

// LoadDocuments reads the scraped-document file: a single JSON array of
// documents at a fixed path.
func LoadDocuments(path string) ([]models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file %s: %w", path, err)
	}

	var docs []models.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse document file %s: %w", path, err)
	}

	return docs, nil
}

// SaveDocuments writes the scraped documents as a pretty-printed JSON
// array, creating the data directory if needed.
func SaveDocuments(path string, docs []models.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document file %s: %w", path, err)
	}

	return nil
}

type Stats struct {
	Documents int
	Chunks    int
	Skipped   int // documents that produced no chunks
}

type PipelineConfig struct {
	BatchSize  int
	OnDocument func(doc models.Document, chunks int)
	OnUpsert   func(records int)
}

// Pipeline runs the one-shot ingestion batch: chunk each document, embed
// the chunk texts, and upsert the records into the vector collection. It
// does not coordinate with query serving; the store owns consistency.
type Pipeline struct {
	config   PipelineConfig
	chunker  *chunker.Chunker
	embedder types.Embedder
	store    types.VectorStore
}

func NewPipeline(config PipelineConfig, ch *chunker.Chunker, embedder types.Embedder, store types.VectorStore) (*Pipeline, error) {
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}
	if config.BatchSize < 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", config.BatchSize)
	}
	if embedder.Dimension() != store.Dimension() {
		return nil, fmt.Errorf("embedder produces %d dimensions, collection holds %d",
			embedder.Dimension(), store.Dimension())
	}

	return &Pipeline{
		config:   config,
		chunker:  ch,
		embedder: embedder,
		store:    store,
	}, nil
}

func (p *Pipeline) Run(ctx context.Context, docs []models.Document) (Stats, error) {
	var stats Stats
	var pending []models.Chunk

	for _, doc := range docs {
		chunks := p.chunker.Split(doc)
		if len(chunks) == 0 {
			stats.Skipped++
			continue
		}

		stats.Documents++
		stats.Chunks += len(chunks)
		pending = append(pending, chunks...)

		if p.config.OnDocument != nil {
			p.config.OnDocument(doc, len(chunks))
		}

		for len(pending) >= p.config.BatchSize {
			if err := p.flush(ctx, pending[:p.config.BatchSize]); err != nil {
				return stats, err
			}
			pending = pending[p.config.BatchSize:]
		}
	}

	if len(pending) > 0 {
		if err := p.flush(ctx, pending); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func (p *Pipeline) flush(ctx context.Context, chunks []models.Chunk) error {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	vectors, err := p.embedder.CreateEmbedding(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed batch of %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedded %d chunks but got %d vectors", len(chunks), len(vectors))
	}

	records := make([]models.EmbeddingRecord, len(chunks))
	for i := range chunks {
		records[i] = models.EmbeddingRecord{Chunk: chunks[i], Vector: vectors[i]}
	}

	if err := p.store.Upsert(ctx, records); err != nil {
		return fmt.Errorf("failed to upsert batch of %d records: %w", len(records), err)
	}

	if p.config.OnUpsert != nil {
		p.config.OnUpsert(len(records))
	}

	return nil
}
