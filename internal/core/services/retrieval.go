package services

import (
	"context"
	"fmt"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driving"
	"github.com/kwak-labs/kwak-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers similarity queries against the stored chunks.
type RetrievalService struct {
	embedder driven.EmbeddingProvider
	chunks   driven.ChunkStore
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(embedder driven.EmbeddingProvider, chunks driven.ChunkStore) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		chunks:   chunks,
	}
}

// Search embeds the query and returns the k most similar stored chunks
// in descending score order.
func (s *RetrievalService) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: requested 1 embedding, got %d",
			domain.ErrEmbeddingBatch, len(vectors))
	}

	stored, err := s.chunks.Dimensions(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking stored dimensions: %w", err)
	}
	if stored == 0 {
		logger.Debug("no embeddings stored, returning empty result")
		return nil, nil
	}
	if len(vectors[0]) != stored {
		return nil, fmt.Errorf("%w: query has %d dimensions, store holds %d",
			domain.ErrDimensionMismatch, len(vectors[0]), stored)
	}

	results, err := s.chunks.SimilaritySearch(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	logger.Debug("query matched %d of up to %d chunks", len(results), k)
	return results, nil
}
