package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askready/askready/internal/models"
	"github.com/askready/askready/pkg/chunker"
)

func TestSplitCoversFullText(t *testing.T) {
	c, err := chunker.New(chunker.Config{ChunkSize: 50, Overlap: 10})
	require.NoError(t, err)

	text := strings.Repeat("disaster preparedness starts at home. ", 20)
	doc := models.Document{ID: "doc1", URL: "https://example.com/a", Content: text}

	chunks := c.Split(doc)
	require.NotEmpty(t, chunks)

	runes := []rune(text)

	// No gaps: each chunk starts at or before the previous chunk's end,
	// the first starts at zero, the last ends at the text length.
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, len(runes), chunks[len(chunks)-1].EndOffset)

	for i, ch := range chunks {
		assert.LessOrEqual(t, ch.EndOffset-ch.StartOffset, 50, "chunk %d exceeds max size", i)
		assert.Equal(t, string(runes[ch.StartOffset:ch.EndOffset]), ch.Text)

		if i > 0 {
			prev := chunks[i-1]
			assert.LessOrEqual(t, ch.StartOffset, prev.EndOffset, "gap before chunk %d", i)

			// Consecutive chunks overlap by exactly the configured amount,
			// except possibly against a shorter final chunk.
			if prev.EndOffset-prev.StartOffset == 50 {
				assert.Equal(t, 10, prev.EndOffset-ch.StartOffset)
			}
		}
	}
}

func TestSplitShortTextYieldsSingleChunk(t *testing.T) {
	c, err := chunker.New(chunker.Config{ChunkSize: 500, Overlap: 50})
	require.NoError(t, err)

	doc := models.Document{ID: "doc1", URL: "https://example.com/a", Content: "Keep water and food on hand."}
	chunks := c.Split(doc)

	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Content, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, len([]rune(doc.Content)), chunks[0].EndOffset)
}

func TestSplitEmptyDocument(t *testing.T) {
	c, err := chunker.New(chunker.Config{ChunkSize: 50, Overlap: 10})
	require.NoError(t, err)

	chunks := c.Split(models.Document{ID: "doc1", URL: "https://example.com/a"})
	assert.Empty(t, chunks)
}

func TestOverlapMustBeSmallerThanChunkSize(t *testing.T) {
	tests := []struct {
		name   string
		config chunker.Config
	}{
		{"overlap equals size", chunker.Config{ChunkSize: 50, Overlap: 50}},
		{"overlap exceeds size", chunker.Config{ChunkSize: 50, Overlap: 60}},
		{"negative overlap", chunker.Config{ChunkSize: 50, Overlap: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chunker.New(tt.config)
			assert.Error(t, err)
		})
	}
}

func TestChunkMetadataCarriedFromDocument(t *testing.T) {
	c, err := chunker.New(chunker.Config{ChunkSize: 50, Overlap: 10})
	require.NoError(t, err)

	doc := models.Document{
		ID:         "doc1",
		URL:        "https://www.ready.gov/kit",
		Title:      "Build A Kit",
		SourceName: "Ready.gov",
		Content:    strings.Repeat("water food radio flashlight batteries first aid. ", 5),
	}

	chunks := c.Split(doc)
	require.NotEmpty(t, chunks)

	for i, ch := range chunks {
		assert.Equal(t, "doc1", ch.DocumentID)
		assert.Equal(t, "Ready.gov", ch.SourceName)
		assert.Equal(t, doc.URL, ch.URL)
		assert.Equal(t, i, ch.Index)
		assert.NotEmpty(t, ch.ID)
	}

	// IDs are stable across runs for the same document
	again := c.Split(doc)
	assert.Equal(t, chunks[0].ID, again[0].ID)
}

func TestMinChunkLengthDropsTinyTail(t *testing.T) {
	c, err := chunker.New(chunker.Config{ChunkSize: 50, Overlap: 10, MinChunkLength: 20})
	require.NoError(t, err)

	// 55 runes: the second window is [40, 55), 15 runes, below the minimum.
	text := strings.Repeat("a", 54) + "b"
	doc := models.Document{ID: "doc1", URL: "https://example.com/a", Content: text}

	chunks := c.Split(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, 50, chunks[0].EndOffset)
}
