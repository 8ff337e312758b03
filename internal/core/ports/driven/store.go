package driven

import (
	"context"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

// DossierStore persists dossier records.
type DossierStore interface {
	// SaveDossiers stores or replaces a batch of dossiers in one transaction.
	SaveDossiers(ctx context.Context, dossiers []domain.Dossier) error

	// GetDossier retrieves a dossier by ID.
	GetDossier(ctx context.Context, id string) (*domain.Dossier, error)

	// CountDossiers returns the number of stored dossiers.
	CountDossiers(ctx context.Context) (int, error)
}

// ChunkStore persists chunk/embedding tuples and answers top-k cosine
// similarity queries joined with dossier metadata.
type ChunkStore interface {
	// SaveChunks appends a batch of chunks with their embeddings.
	// The write is transactional: either the whole batch persists or the
	// call reports failure with nothing committed. embeddings[i] belongs
	// to chunks[i]; the two slices must have equal length.
	SaveChunks(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error

	// SimilaritySearch returns up to k stored chunks whose embeddings have
	// the highest cosine similarity to the query vector, in descending
	// score order. Only rows with a non-null embedding participate; an
	// empty store yields an empty result, not an error. A query vector
	// whose dimensionality differs from the stored embeddings fails with
	// domain.ErrDimensionMismatch before scoring.
	SimilaritySearch(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error)

	// Dimensions returns the dimensionality of the stored embeddings,
	// or 0 when no embeddings are stored yet.
	Dimensions(ctx context.Context) (int, error)
}
