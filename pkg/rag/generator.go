package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askready/askready/internal/models"
)

// RefusalText is returned verbatim whenever no relevant context was
// retrieved. It is a defined outcome, not an error.
const RefusalText = "I don't have that information from trusted sources."

// ErrUpstream marks a completion API failure. The caller must surface it
// instead of presenting anything that looks like a generated answer.
var ErrUpstream = errors.New("completion service failed")

const systemPrompt = "You are a Disaster Preparedness & Response Assistant. " +
	"Answer ONLY from the context supplied below, which comes from trusted sources " +
	"(FEMA, Ready.gov, CDC, NOAA, Red Cross, WHO, UNDRR). " +
	"If the context does not contain the answer, say \"" + RefusalText + "\" " +
	"Cite sources by their bracketed numbers."

// CompletionClient is the narrow surface the generator needs from the
// hosted model.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Generator struct {
	client CompletionClient
}

func NewGenerator(client CompletionClient) *Generator {
	return &Generator{client: client}
}

// Answer turns retrieved chunks into a grounded answer. With no results it
// returns the refusal without touching the completion API. A completion
// failure comes back wrapped in ErrUpstream, never as a fabricated answer.
func (g *Generator) Answer(ctx context.Context, query string, results []models.SearchResult) (models.Answer, error) {
	if len(results) == 0 {
		return models.Answer{Text: RefusalText, Grounded: false}, nil
	}

	text, err := g.client.Complete(ctx, systemPrompt, buildPrompt(query, results))
	if err != nil {
		return models.Answer{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return models.Answer{
		Text:     text,
		Sources:  distinctSources(results),
		Grounded: true,
	}, nil
}

func buildPrompt(query string, results []models.SearchResult) string {
	var b strings.Builder

	b.WriteString("Context:\n")
	for i, res := range results {
		fmt.Fprintf(&b, "[%d] Source: %s", i+1, res.Chunk.SourceName)
		if res.Chunk.Title != "" {
			fmt.Fprintf(&b, " (%s)", res.Chunk.Title)
		}
		b.WriteString("\n")
		b.WriteString(res.Chunk.Text)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Question: %s\n\nAnswer:", query)
	return b.String()
}

// distinctSources keeps the order in which sources first appear in the
// ranked results.
func distinctSources(results []models.SearchResult) []string {
	var sources []string
	seen := make(map[string]bool)

	for _, res := range results {
		name := res.Chunk.SourceName
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, name)
	}

	return sources
}
