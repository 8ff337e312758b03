// Package sqlite provides SQLite-backed persistence for dossiers and
// chunk embeddings, including in-process cosine similarity search over
// the stored vectors.
package sqlite
