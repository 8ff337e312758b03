package services

import (
	"context"
	"fmt"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driving"
	"github.com/kwak-labs/kwak-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService chunks dossiers, embeds the chunk contents and persists
// the chunk/embedding tuples.
type IngestService struct {
	chunker  driven.Chunker
	embedder driven.EmbeddingProvider
	chunks   driven.ChunkStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	chunker driven.Chunker,
	embedder driven.EmbeddingProvider,
	chunks driven.ChunkStore,
) *IngestService {
	return &IngestService{
		chunker:  chunker,
		embedder: embedder,
		chunks:   chunks,
	}
}

// Ingest runs the chunk/embed/store half of the pipeline for the given
// dossiers. All-or-nothing: an embedding or storage failure persists
// nothing from this call.
func (s *IngestService) Ingest(ctx context.Context, dossiers []domain.Dossier) ([]domain.Chunk, error) {
	var allChunks []domain.Chunk
	for _, dossier := range dossiers {
		chunks, err := s.chunker.Chunk(ctx, dossier)
		if err != nil {
			return nil, fmt.Errorf("chunking dossier %s: %w", dossier.ID, err)
		}
		logger.Debug("dossier %s: %d chunks (%s strategy)", dossier.ID, len(chunks), s.chunker.Name())
		allChunks = append(allChunks, chunks...)
	}

	if len(allChunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(allChunks))
	for i, chunk := range allChunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(texts), err)
	}
	if len(vectors) != len(allChunks) {
		return nil, fmt.Errorf("%w: requested %d embeddings, got %d",
			domain.ErrEmbeddingBatch, len(allChunks), len(vectors))
	}

	if err := s.validateDimensions(ctx, vectors); err != nil {
		return nil, err
	}

	if err := s.chunks.SaveChunks(ctx, allChunks, vectors); err != nil {
		return nil, fmt.Errorf("storing chunks: %w", err)
	}

	logger.Info("ingested %d chunks from %d dossiers", len(allChunks), len(dossiers))
	return allChunks, nil
}

// validateDimensions rejects a batch whose vectors do not match the
// dimensionality already stored. Mixing embedding models silently would
// make similarity scores meaningless.
func (s *IngestService) validateDimensions(ctx context.Context, vectors [][]float32) error {
	stored, err := s.chunks.Dimensions(ctx)
	if err != nil {
		return fmt.Errorf("checking stored dimensions: %w", err)
	}

	// On an empty store the batch sets the dimensionality, so it must
	// at least agree with itself.
	if stored == 0 {
		want := len(vectors[0])
		if want == 0 {
			return fmt.Errorf("%w: vector 0 is empty", domain.ErrEmbeddingBatch)
		}
		for i, v := range vectors {
			if len(v) != want {
				return fmt.Errorf("%w: vector %d has %d dimensions, vector 0 has %d",
					domain.ErrEmbeddingBatch, i, len(v), want)
			}
		}
		return nil
	}

	for i, v := range vectors {
		if len(v) != stored {
			return fmt.Errorf("%w: vector %d has %d dimensions, store holds %d",
				domain.ErrDimensionMismatch, i, len(v), stored)
		}
	}
	return nil
}
