package driving

import (
	"context"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

// IngestService drives the chunk/embed/store half of the pipeline.
type IngestService interface {
	// Ingest chunks the given dossiers, embeds all chunk contents and
	// persists the chunk/embedding tuples. Returns the materialized
	// chunks. All-or-nothing per call: an embedding or storage failure
	// persists nothing.
	Ingest(ctx context.Context, dossiers []domain.Dossier) ([]domain.Chunk, error)
}

// RetrievalService answers similarity queries against the stored chunks.
type RetrievalService interface {
	// Search embeds the query text and returns the k most similar stored
	// chunks in descending score order. An empty store yields an empty
	// slice, not an error.
	Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)
}

// AnswerService generates a natural-language answer from retrieved chunks.
type AnswerService interface {
	// Ask retrieves the k most relevant chunks for the question and asks
	// the completion service to answer using them as context.
	Ask(ctx context.Context, question string, k int) (string, []domain.ScoredChunk, error)
}

// GenerateService produces synthetic dossiers.
type GenerateService interface {
	// Generate creates count dossiers of the given type, reporting each
	// completed dossier through the optional progress callback.
	Generate(ctx context.Context, dossierType string, startYear, endYear, count int,
		progress func(done int)) ([]domain.Dossier, error)
}
