package driven

import "context"

// EmbeddingProvider generates vector embeddings from text.
//
// The batch contract is strict: Embed returns exactly one vector per input
// text, in input order, all of identical length. A provider must fail the
// whole call rather than return partial or ragged results, and a backend
// without an implementation must fail explicitly rather than return zero
// vectors.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingProvider interface {
	// Embed generates embeddings for the given texts, order preserving.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
