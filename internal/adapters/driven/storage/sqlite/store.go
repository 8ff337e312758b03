package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// dossier and chunk store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.kwak/data/kwak.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kwak", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "kwak.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DossierStore returns a DossierStore interface backed by this store.
func (s *Store) DossierStore() driven.DossierStore {
	return &dossierStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Dossier Store ====================

// dossierStore implements driven.DossierStore.
type dossierStore struct {
	store *Store
}

var _ driven.DossierStore = (*dossierStore)(nil)

// SaveDossiers stores or replaces a batch of dossiers in one transaction.
func (s *dossierStore) SaveDossiers(ctx context.Context, dossiers []domain.Dossier) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dossiers (id, title, type, start_date, end_date, budget, description, advisory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			budget = excluded.budget,
			description = excluded.description,
			advisory = excluded.advisory
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range dossiers {
		if _, err := stmt.ExecContext(ctx, d.ID, d.Title, d.Type,
			d.StartDate.Format(domain.DateFormat), d.EndDate.Format(domain.DateFormat),
			d.Budget, d.Description, d.Advisory); err != nil {
			return fmt.Errorf("saving dossier %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDossier retrieves a dossier by ID.
func (s *dossierStore) GetDossier(ctx context.Context, id string) (*domain.Dossier, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, type, start_date, end_date, budget, description, advisory
		FROM dossiers WHERE id = ?
	`, id)

	var d domain.Dossier
	var startDate, endDate string
	err := row.Scan(&d.ID, &d.Title, &d.Type, &startDate, &endDate,
		&d.Budget, &d.Description, &d.Advisory)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning dossier: %w", err)
	}

	if d.StartDate, err = parseDate(startDate); err != nil {
		return nil, err
	}
	if d.EndDate, err = parseDate(endDate); err != nil {
		return nil, err
	}
	return &d, nil
}

// CountDossiers returns the number of stored dossiers.
func (s *dossierStore) CountDossiers(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dossiers")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting dossiers: %w", err)
	}
	return count, nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunks appends a batch of chunks with their embeddings in one
// transaction. embeddings[i] belongs to chunks[i].
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings",
			domain.ErrInvalidInput, len(chunks), len(embeddings))
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunk_embeddings (dossier_id, origin, seq, content, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	// Sequence numbers run per dossier field, following batch order and
	// continuing after any rows stored by earlier calls.
	seq := make(map[string]int)
	for i, chunk := range chunks {
		if !chunk.Origin.IsValid() {
			return fmt.Errorf("%w: %q on chunk %d", domain.ErrInvalidOrigin, chunk.Origin, i)
		}

		key := chunk.DossierID + "/" + chunk.Origin.String()
		next, seen := seq[key]
		if !seen {
			row := tx.QueryRowContext(ctx, `
				SELECT COALESCE(MAX(seq) + 1, 0) FROM chunk_embeddings
				WHERE dossier_id = ? AND origin = ?
			`, chunk.DossierID, chunk.Origin.String())
			if err := row.Scan(&next); err != nil {
				return fmt.Errorf("reading next sequence: %w", err)
			}
		}
		embeddingBlob := float32SliceToBytes(embeddings[i])

		if _, err := stmt.ExecContext(ctx, chunk.DossierID, chunk.Origin.String(),
			next, chunk.Content, embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
		seq[key] = next + 1
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SimilaritySearch returns up to k chunks ranked by cosine similarity to
// the query vector, joined with their dossier metadata. The query vector
// must match the stored dimensionality.
func (s *chunkStore) SimilaritySearch(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.dossier_id, c.origin, c.content, c.embedding,
		       d.title, d.type, d.start_date, d.end_date, d.budget
		FROM chunk_embeddings c
		JOIN dossiers d ON d.id = c.dossier_id
		WHERE c.embedding IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var scored []domain.ScoredChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var origin string
		var embeddingBlob []byte
		var startDate, endDate string
		if err := rows.Scan(&chunk.DossierID, &origin, &chunk.Content, &embeddingBlob,
			&chunk.Title, &chunk.Type, &startDate, &endDate, &chunk.Budget); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		chunk.Origin = domain.Origin(origin)
		if !chunk.Origin.IsValid() {
			return nil, fmt.Errorf("%w: %q on stored chunk for dossier %s",
				domain.ErrInvalidOrigin, origin, chunk.DossierID)
		}

		if chunk.StartDate, err = parseDate(startDate); err != nil {
			return nil, err
		}
		if chunk.EndDate, err = parseDate(endDate); err != nil {
			return nil, err
		}

		stored := bytesToFloat32Slice(embeddingBlob)
		if len(stored) != len(vector) {
			return nil, fmt.Errorf("%w: query has %d dimensions, stored embeddings have %d",
				domain.ErrDimensionMismatch, len(vector), len(stored))
		}

		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: cosineSimilarity(vector, stored),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Dimensions returns the dimensionality of the stored embeddings, or 0
// when no embeddings are stored yet.
func (s *chunkStore) Dimensions(ctx context.Context) (int, error) {
	var blob []byte
	row := s.store.db.QueryRowContext(ctx, `
		SELECT embedding FROM chunk_embeddings
		WHERE embedding IS NOT NULL
		LIMIT 1
	`)
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading stored embedding: %w", err)
	}
	return len(blob) / 4, nil
}

// ==================== Helper Functions ====================

// parseDate parses a stored ISO date string.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored date %q: %w", s, err)
	}
	return t, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine similarity of two equal-length
// vectors. Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
