package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/askready/askready/internal/models"
)

type Config struct {
	ChunkSize      int // maximum chunk length in runes
	Overlap        int // runes shared between consecutive chunks
	MinChunkLength int // chunks shorter than this are dropped after trimming
}

type Chunker struct {
	config Config
}

// New builds a chunker. An overlap equal to or larger than the chunk size
// would make the window stride zero or negative, so it is rejected here
// instead of looping at split time.
func New(config Config) (*Chunker, error) {
	if config.ChunkSize == 0 {
		config.ChunkSize = 500
	}
	if config.ChunkSize < 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}
	if config.Overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", config.Overlap)
	}
	if config.Overlap >= config.ChunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d",
			config.Overlap, config.ChunkSize)
	}

	return &Chunker{config: config}, nil
}

// Split cuts a document's content into overlapping windows. Chunk i covers
// the rune range [i*(C-O), min(i*(C-O)+C, len)); the last chunk may be
// shorter than C. Content that fits in one window yields exactly one chunk.
// Split is pure: it never mutates the document.
func (c *Chunker) Split(doc models.Document) []models.Chunk {
	runes := []rune(doc.Content)
	stride := c.config.ChunkSize - c.config.Overlap

	var chunks []models.Chunk
	for start := 0; start < len(runes); start += stride {
		end := start + c.config.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		text := string(runes[start:end])
		if len(strings.TrimSpace(text)) >= c.config.MinChunkLength || start == 0 {
			index := len(chunks)
			chunks = append(chunks, models.Chunk{
				ID:          chunkID(doc.URL, index),
				DocumentID:  doc.ID,
				Index:       index,
				Text:        text,
				StartOffset: start,
				EndOffset:   end,
				SourceName:  doc.SourceName,
				URL:         doc.URL,
				Title:       doc.Title,
				FetchedAt:   doc.FetchedAt,
			})
		}

		if end >= len(runes) {
			break
		}
	}

	return chunks
}

// chunkID derives a stable UUID from the document URL and chunk position,
// so re-ingesting the same page updates records in place.
func chunkID(url string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", url, index))).String()
}
