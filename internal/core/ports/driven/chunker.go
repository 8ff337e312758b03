package driven

import (
	"context"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

// Chunker splits one dossier into retrieval-sized chunks.
//
// Contract: chunks for the description field come first (in split order),
// then chunks for the advisory field. Every chunk's Content starts with the
// shared metadata header so embeddings from different strategies remain
// comparable. A chunker is stateless with respect to pipeline data and may
// be reused across calls.
type Chunker interface {
	// Chunk converts a dossier into zero or more chunks.
	// The semantic strategy may suspend on an external completion call;
	// an unparseable completion is a hard failure, never an empty field.
	Chunk(ctx context.Context, dossier domain.Dossier) ([]domain.Chunk, error)

	// Name returns the strategy key (e.g. "wordcount", "semantic").
	Name() string
}
