package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

func TestSearch_ComposesEmbedderAndStore(t *testing.T) {
	want := []domain.ScoredChunk{
		{Chunk: domain.Chunk{DossierID: "D-1"}, Score: 0.95},
		{Chunk: domain.Chunk{DossierID: "D-2"}, Score: 0.40},
	}
	store := &mockChunkStore{dims: 3, results: want}
	embedder := &mockEmbedder{dims: 3}
	svc := NewRetrievalService(embedder, store)

	results, err := svc.Search(context.Background(), "restauratie", 2)
	require.NoError(t, err)
	assert.Equal(t, want, results)

	// The query is embedded as a batch of one.
	require.Len(t, embedder.calls, 1)
	assert.Equal(t, []string{"restauratie"}, embedder.calls[0])
	assert.Len(t, store.lastVector, 3)
	assert.Equal(t, 2, store.lastK)
}

func TestSearch_EmptyStoreShortCircuits(t *testing.T) {
	store := &mockChunkStore{dims: 0}
	svc := NewRetrievalService(&mockEmbedder{dims: 3}, store)

	results, err := svc.Search(context.Background(), "restauratie", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Nil(t, store.lastVector)
}

func TestSearch_DimensionMismatchFails(t *testing.T) {
	store := &mockChunkStore{dims: 768}
	svc := NewRetrievalService(&mockEmbedder{dims: 3}, store)

	_, err := svc.Search(context.Background(), "restauratie", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_InvalidInput(t *testing.T) {
	svc := NewRetrievalService(&mockEmbedder{dims: 3}, &mockChunkStore{dims: 3})

	_, err := svc.Search(context.Background(), "", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Search(context.Background(), "vraag", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
