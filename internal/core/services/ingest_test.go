package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// ==================== Mocks ====================

// mockChunker yields a fixed number of chunks per dossier.
type mockChunker struct {
	perDossier int
	err        error
}

func (m *mockChunker) Chunk(_ context.Context, d domain.Dossier) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks := make([]domain.Chunk, m.perDossier)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			DossierID: d.ID,
			Origin:    domain.OriginDescription,
			Content:   d.Description,
		}
	}
	return chunks, nil
}

func (m *mockChunker) Name() string { return "mock" }

// mockEmbedder returns vectors of a fixed dimensionality.
type mockEmbedder struct {
	dims  int
	err   error
	calls [][]string
	// short truncates the response to break the count contract.
	short bool
	// ragged grows the last vector to break dimensional uniformity.
	ragged bool
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.calls = append(m.calls, texts)
	if m.err != nil {
		return nil, m.err
	}
	n := len(texts)
	if m.short && n > 0 {
		n--
	}
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, m.dims)
		if m.dims > 0 {
			vectors[i][0] = float32(i + 1)
		}
	}
	if m.ragged && n > 1 {
		vectors[n-1] = make([]float32, m.dims+1)
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockChunkStore records saved batches and answers canned searches.
type mockChunkStore struct {
	saved      []domain.Chunk
	savedVecs  [][]float32
	saveErr    error
	dims       int
	results    []domain.ScoredChunk
	searchErr  error
	lastVector []float32
	lastK      int
}

func (m *mockChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, chunks...)
	m.savedVecs = append(m.savedVecs, embeddings...)
	return nil
}

func (m *mockChunkStore) SimilaritySearch(_ context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	m.lastVector = vector
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockChunkStore) Dimensions(_ context.Context) (int, error) {
	return m.dims, nil
}

var _ driven.Chunker = (*mockChunker)(nil)
var _ driven.EmbeddingProvider = (*mockEmbedder)(nil)
var _ driven.ChunkStore = (*mockChunkStore)(nil)

func testDossiers(n int) []domain.Dossier {
	dossiers := make([]domain.Dossier, n)
	for i := range dossiers {
		dossiers[i] = domain.Dossier{
			ID:          "D-" + string(rune('1'+i)),
			Title:       "Dossier",
			Type:        "erfgoed",
			StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			Budget:      10000,
			Description: "tekst",
		}
	}
	return dossiers
}

// ==================== Tests ====================

func TestIngest_HappyPath(t *testing.T) {
	store := &mockChunkStore{}
	svc := NewIngestService(&mockChunker{perDossier: 2}, &mockEmbedder{dims: 3}, store)

	chunks, err := svc.Ingest(context.Background(), testDossiers(2))
	require.NoError(t, err)
	assert.Len(t, chunks, 4)
	assert.Len(t, store.saved, 4)
	assert.Len(t, store.savedVecs, 4)
	for _, v := range store.savedVecs {
		assert.Len(t, v, 3)
	}
}

func TestIngest_NoChunksPersistsNothing(t *testing.T) {
	store := &mockChunkStore{}
	embedder := &mockEmbedder{dims: 3}
	svc := NewIngestService(&mockChunker{perDossier: 0}, embedder, store)

	chunks, err := svc.Ingest(context.Background(), testDossiers(2))
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Empty(t, store.saved)
	assert.Empty(t, embedder.calls)
}

func TestIngest_ChunkerFailureAborts(t *testing.T) {
	store := &mockChunkStore{}
	wantErr := errors.New("completion unavailable")
	svc := NewIngestService(&mockChunker{err: wantErr}, &mockEmbedder{dims: 3}, store)

	_, err := svc.Ingest(context.Background(), testDossiers(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, store.saved)
}

func TestIngest_ShortEmbeddingBatchAborts(t *testing.T) {
	store := &mockChunkStore{}
	svc := NewIngestService(&mockChunker{perDossier: 2}, &mockEmbedder{dims: 3, short: true}, store)

	_, err := svc.Ingest(context.Background(), testDossiers(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingBatch)
	assert.Empty(t, store.saved)
}

func TestIngest_RaggedBatchIntoEmptyStoreAborts(t *testing.T) {
	// A fresh store has no dimensionality to compare against, so the
	// batch must still be internally uniform.
	store := &mockChunkStore{}
	svc := NewIngestService(&mockChunker{perDossier: 2}, &mockEmbedder{dims: 2, ragged: true}, store)

	_, err := svc.Ingest(context.Background(), testDossiers(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingBatch)
	assert.Empty(t, store.saved)
}

func TestIngest_EmptyVectorsIntoEmptyStoreAbort(t *testing.T) {
	store := &mockChunkStore{}
	svc := NewIngestService(&mockChunker{perDossier: 1}, &mockEmbedder{dims: 0}, store)

	_, err := svc.Ingest(context.Background(), testDossiers(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingBatch)
	assert.Empty(t, store.saved)
}

func TestIngest_DimensionMismatchWithStoreAborts(t *testing.T) {
	// Store already holds 768-dim embeddings; a 3-dim batch must fail.
	store := &mockChunkStore{dims: 768}
	svc := NewIngestService(&mockChunker{perDossier: 1}, &mockEmbedder{dims: 3}, store)

	_, err := svc.Ingest(context.Background(), testDossiers(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Empty(t, store.saved)
}

func TestIngest_StoreFailurePropagates(t *testing.T) {
	wantErr := errors.New("disk full")
	store := &mockChunkStore{saveErr: wantErr}
	svc := NewIngestService(&mockChunker{perDossier: 1}, &mockEmbedder{dims: 3}, store)

	_, err := svc.Ingest(context.Background(), testDossiers(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
