package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testDossier(id string) domain.Dossier {
	return domain.Dossier{
		ID:          id,
		Title:       "Restauratie " + id,
		Type:        "erfgoed",
		StartDate:   time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2021, 8, 31, 0, 0, 0, 0, time.UTC),
		Budget:      50000.25,
		Description: "omschrijving",
		Advisory:    "advies",
	}
}

func testChunk(dossierID string, origin domain.Origin, content string) domain.Chunk {
	d := testDossier(dossierID)
	return domain.Chunk{
		DossierID: d.ID,
		Type:      d.Type,
		Title:     d.Title,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Budget:    d.Budget,
		Origin:    origin,
		Content:   content,
	}
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "kwak.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Re-opening the same database must not re-run applied migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestDossierStore_SaveGetCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	dossiers := store.DossierStore()

	d1 := testDossier("D-1")
	d2 := testDossier("D-2")
	require.NoError(t, dossiers.SaveDossiers(ctx, []domain.Dossier{d1, d2}))

	got, err := dossiers.GetDossier(ctx, "D-1")
	require.NoError(t, err)
	assert.Equal(t, d1.Title, got.Title)
	assert.Equal(t, d1.Type, got.Type)
	assert.True(t, d1.StartDate.Equal(got.StartDate))
	assert.True(t, d1.EndDate.Equal(got.EndDate))
	assert.InDelta(t, d1.Budget, got.Budget, 0.001)
	assert.Equal(t, d1.Description, got.Description)
	assert.Equal(t, d1.Advisory, got.Advisory)

	count, err := dossiers.CountDossiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDossierStore_SaveReplacesExisting(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	dossiers := store.DossierStore()

	d := testDossier("D-1")
	require.NoError(t, dossiers.SaveDossiers(ctx, []domain.Dossier{d}))

	d.Title = "Nieuwe titel"
	require.NoError(t, dossiers.SaveDossiers(ctx, []domain.Dossier{d}))

	got, err := dossiers.GetDossier(ctx, "D-1")
	require.NoError(t, err)
	assert.Equal(t, "Nieuwe titel", got.Title)

	count, err := dossiers.CountDossiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDossierStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DossierStore().GetDossier(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// seedChunks saves the parent dossiers and three chunks with fixed
// 2-dimensional embeddings.
func seedChunks(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.DossierStore().SaveDossiers(ctx, []domain.Dossier{
		testDossier("D-1"), testDossier("D-2"), testDossier("D-3"),
	}))

	chunks := []domain.Chunk{
		testChunk("D-1", domain.OriginDescription, "eerste chunk"),
		testChunk("D-2", domain.OriginDescription, "tweede chunk"),
		testChunk("D-3", domain.OriginAdvisory, "derde chunk"),
	}
	embeddings := [][]float32{
		{1, 0},
		{0, 1},
		{0.9, 0.1},
	}
	require.NoError(t, store.ChunkStore().SaveChunks(ctx, chunks, embeddings))
}

func TestChunkStore_SimilarityOrdering(t *testing.T) {
	store := setupTestStore(t)
	seedChunks(t, store)

	// Query along the first axis: exact match first, near match second,
	// the orthogonal vector excluded by k=2.
	results, err := store.ChunkStore().SimilaritySearch(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "D-1", results[0].Chunk.DossierID)
	assert.InDelta(t, 1.0, results[0].Score, 0.0001)
	assert.Equal(t, "D-3", results[1].Chunk.DossierID)
	assert.Greater(t, results[0].Score, results[1].Score)

	// Dossier metadata is joined onto the result.
	assert.Equal(t, "Restauratie D-1", results[0].Chunk.Title)
	assert.Equal(t, "erfgoed", results[0].Chunk.Type)
	assert.Equal(t, domain.OriginDescription, results[0].Chunk.Origin)
	assert.InDelta(t, 50000.25, results[0].Chunk.Budget, 0.001)
}

func TestChunkStore_KLargerThanStore(t *testing.T) {
	store := setupTestStore(t)
	seedChunks(t, store)

	results, err := store.ChunkStore().SimilaritySearch(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestChunkStore_EmptyStoreYieldsEmptyResult(t *testing.T) {
	store := setupTestStore(t)

	results, err := store.ChunkStore().SimilaritySearch(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestChunkStore_DimensionMismatchFails(t *testing.T) {
	store := setupTestStore(t)
	seedChunks(t, store)

	_, err := store.ChunkStore().SimilaritySearch(context.Background(), []float32{1, 0, 0}, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestChunkStore_SaveRejectsLengthMismatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.DossierStore().SaveDossiers(ctx, []domain.Dossier{testDossier("D-1")}))

	chunks := []domain.Chunk{testChunk("D-1", domain.OriginDescription, "chunk")}
	err := store.ChunkStore().SaveChunks(ctx, chunks, [][]float32{{1, 0}, {0, 1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChunkStore_RepeatedSaveContinuesSequence(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.DossierStore().SaveDossiers(ctx, []domain.Dossier{testDossier("D-1")}))

	chunks := []domain.Chunk{testChunk("D-1", domain.OriginDescription, "chunk")}
	embeddings := [][]float32{{1, 0}}

	// Re-ingesting the same dossier must not collide with earlier rows.
	require.NoError(t, store.ChunkStore().SaveChunks(ctx, chunks, embeddings))
	require.NoError(t, store.ChunkStore().SaveChunks(ctx, chunks, embeddings))

	var collisions int
	row := store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT 1 FROM chunk_embeddings
			GROUP BY dossier_id, origin, seq
			HAVING COUNT(*) > 1
		)
	`)
	require.NoError(t, row.Scan(&collisions))
	assert.Zero(t, collisions, "seq must be unique within (dossier_id, origin)")

	var maxSeq int
	row = store.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM chunk_embeddings
		WHERE dossier_id = ? AND origin = ?
	`, "D-1", domain.OriginDescription.String())
	require.NoError(t, row.Scan(&maxSeq))
	assert.Equal(t, 1, maxSeq)
}

func TestChunkStore_SaveRejectsInvalidOrigin(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.DossierStore().SaveDossiers(ctx, []domain.Dossier{testDossier("D-1")}))

	chunk := testChunk("D-1", domain.Origin("samenvatting"), "chunk")
	err := store.ChunkStore().SaveChunks(ctx, []domain.Chunk{chunk}, [][]float32{{1, 0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidOrigin)

	// The rejected batch must not persist anything.
	dims, err := store.ChunkStore().Dimensions(ctx)
	require.NoError(t, err)
	assert.Zero(t, dims)
}

func TestChunkStore_InvalidStoredOriginFailsRead(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.DossierStore().SaveDossiers(ctx, []domain.Dossier{testDossier("D-1")}))

	// Corrupt row written behind the store's back.
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO chunk_embeddings (dossier_id, origin, seq, content, embedding)
		VALUES (?, ?, ?, ?, ?)
	`, "D-1", "samenvatting", 0, "chunk", float32SliceToBytes([]float32{1, 0}))
	require.NoError(t, err)

	_, err = store.ChunkStore().SimilaritySearch(ctx, []float32{1, 0}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidOrigin)
}

func TestChunkStore_Dimensions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	dims, err := store.ChunkStore().Dimensions(ctx)
	require.NoError(t, err)
	assert.Zero(t, dims)

	seedChunks(t, store)

	dims, err = store.ChunkStore().Dimensions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dims)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	in := []float32{1.5, -2.25, 0, 3.14159}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 0.0001)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 0.0001)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 0.0001)
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
