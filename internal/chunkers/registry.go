package chunkers

import (
	"fmt"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// Config carries the dependencies a strategy builder may need.
type Config struct {
	// WordsPerChunk is the block size for the word-count strategy.
	// Zero means the strategy default.
	WordsPerChunk int

	// Completion is the completion service for the semantic strategy.
	// May be nil for strategies that make no external calls.
	Completion driven.CompletionService
}

// BuilderFunc creates a Chunker from the shared config.
type BuilderFunc func(cfg Config) (driven.Chunker, error)

// Registry maps strategy keys to their builders. It allows dynamic
// construction of chunkers from configuration; an unknown key is a
// configuration error raised before any external call.
type Registry struct {
	builders map[domain.ChunkStrategy]BuilderFunc
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[domain.ChunkStrategy]BuilderFunc),
	}
}

// Register adds a strategy builder to the registry.
// The key should match the chunker's Name() return value.
func (r *Registry) Register(strategy domain.ChunkStrategy, builder BuilderFunc) {
	r.builders[strategy] = builder
}

// Build creates a chunker for the given strategy key.
func (r *Registry) Build(strategy domain.ChunkStrategy, cfg Config) (driven.Chunker, error) {
	builder, ok := r.builders[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedStrategy, strategy)
	}
	return builder(cfg)
}

// Has returns true if a builder is registered for the strategy.
func (r *Registry) Has(strategy domain.ChunkStrategy) bool {
	_, ok := r.builders[strategy]
	return ok
}

// Strategies returns all registered strategy keys.
func (r *Registry) Strategies() []domain.ChunkStrategy {
	keys := make([]domain.ChunkStrategy, 0, len(r.builders))
	for k := range r.builders {
		keys = append(keys, k)
	}
	return keys
}
