package models

import "time"

// Document is a single scraped page from one of the trusted sources.
// Documents are immutable once fetched and are persisted as a JSON array
// by the ingestion tooling.
type Document struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	SourceName string    `json:"source"`
	Content    string    `json:"content"`
	FetchedAt  time.Time `json:"scraped_date"`
}

// Chunk is a bounded text window cut from exactly one document. Offsets
// are rune offsets into the document content; consecutive chunks of the
// same document overlap by the configured amount.
type Chunk struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Index       int       `json:"chunk_index"`
	Text        string    `json:"content"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	SourceName  string    `json:"source"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	FetchedAt   time.Time `json:"scraped_date"`
}

// EmbeddingRecord pairs a chunk with its embedding vector. All records in
// one collection share the same dimension and distance metric.
type EmbeddingRecord struct {
	Chunk  Chunk
	Vector []float32
}

// SearchResult is one nearest-neighbor hit, scored by cosine similarity.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Answer is the generator output for a single query turn. Grounded is
// false when no context was retrieved and the fixed refusal text is used.
type Answer struct {
	Text     string
	Sources  []string
	Grounded bool
}
