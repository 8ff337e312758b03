// Package semantic provides an LLM-delegated chunking strategy.
package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kwak-labs/kwak-cli/internal/chunkers"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// splitPrompt instructs the model to return semantic chunks as JSON.
const splitPrompt = `Split the provided text into coherent and meaningful sections ` +
	`(semantic chunks). Each chunk should be a short, self-contained unit of ` +
	`meaning (between 50 and 300 words), suitable for embedding and semantic ` +
	`search. Return ONLY valid JSON matching this schema:

{"chunks": ["...", "..."]}`

// Chunker delegates chunk boundary judgement to a completion model.
// Non-deterministic across invocations; callers needing reproducible chunk
// sets must pin or mock the completion service.
type Chunker struct {
	completion driven.CompletionService
}

// New creates a semantic chunker backed by the given completion service.
func New(completion driven.CompletionService) (*Chunker, error) {
	if completion == nil {
		return nil, fmt.Errorf("semantic chunker: %w", domain.ErrLLMUnavailable)
	}
	return &Chunker{completion: completion}, nil
}

// Name returns the strategy key.
func (c *Chunker) Name() string {
	return domain.StrategySemantic.String()
}

// Chunk splits both text fields via one completion call per field,
// description field first, then advisory. The returned list is used
// as-is, in the order received.
func (c *Chunker) Chunk(ctx context.Context, dossier domain.Dossier) ([]domain.Chunk, error) {
	var out []domain.Chunk
	for _, origin := range domain.ChunkOrigins() {
		bodies, err := c.splitText(ctx, origin.TextField(dossier))
		if err != nil {
			return nil, fmt.Errorf("chunking %s field of dossier %s: %w", origin, dossier.ID, err)
		}
		for _, body := range bodies {
			out = append(out, chunkers.Enrich(dossier, origin, body))
		}
	}
	return out, nil
}

// chunkResponse is the expected completion payload.
type chunkResponse struct {
	Chunks []string `json:"chunks"`
}

// splitText asks the completion service for semantic chunks of one field.
func (c *Chunker) splitText(ctx context.Context, text string) ([]string, error) {
	raw, err := c.completion.Complete(ctx, text, driven.CompleteOptions{
		System:   splitPrompt,
		JSONOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("completion call: %w", err)
	}

	bodies, err := parseChunks(raw)
	if err != nil {
		return nil, err
	}
	return bodies, nil
}

// parseChunks extracts the chunk list from the completion output.
// Accepts the {"chunks": [...]} schema or a bare JSON array; anything
// else is a hard failure - a field is never silently skipped.
func parseChunks(raw string) ([]string, error) {
	cleaned := stripFences(raw)

	var resp chunkResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err == nil && resp.Chunks != nil {
		return resp.Chunks, nil
	}

	var bare []string
	if err := json.Unmarshal([]byte(cleaned), &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("%w: no JSON chunk list in completion output", domain.ErrParseFailure)
}

// stripFences removes a surrounding markdown code fence, which some models
// emit around JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
