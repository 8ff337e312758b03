// Package wordcount provides a fixed-size word-count chunking strategy.
package wordcount

import (
	"context"
	"strings"

	"github.com/kwak-labs/kwak-cli/internal/chunkers"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// DefaultWordsPerChunk is the default block size in words.
const DefaultWordsPerChunk = 200

// Chunker splits dossier text fields into fixed word-count blocks.
// Deterministic: no external calls, and the concatenation of all chunk
// bodies for a field preserves the field's token sequence exactly.
type Chunker struct {
	wordsPerChunk int
}

// Option configures the word-count chunker.
type Option func(*Chunker)

// WithWordsPerChunk sets the block size in words.
func WithWordsPerChunk(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.wordsPerChunk = n
		}
	}
}

// New creates a word-count chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		wordsPerChunk: DefaultWordsPerChunk,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the strategy key.
func (c *Chunker) Name() string {
	return domain.StrategyWordCount.String()
}

// Chunk splits both text fields into blocks of wordsPerChunk words,
// description field first, then advisory.
func (c *Chunker) Chunk(_ context.Context, dossier domain.Dossier) ([]domain.Chunk, error) {
	var out []domain.Chunk
	for _, origin := range domain.ChunkOrigins() {
		for _, body := range c.split(origin.TextField(dossier)) {
			out = append(out, chunkers.Enrich(dossier, origin, body))
		}
	}
	return out, nil
}

// split partitions the text into runs of wordsPerChunk whitespace-separated
// tokens. The final run may be shorter; an empty text yields no runs.
func (c *Chunker) split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	blocks := make([]string, 0, (len(words)+c.wordsPerChunk-1)/c.wordsPerChunk)
	for i := 0; i < len(words); i += c.wordsPerChunk {
		end := i + c.wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		blocks = append(blocks, strings.Join(words[i:end], " "))
	}
	return blocks
}
