package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	// A provider that has no backing implementation fails with this
	// rather than silently returning empty vectors.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedStrategy indicates an unknown chunking strategy key.
	// Raised before any external call is made.
	ErrUnsupportedStrategy = errors.New("unsupported chunking strategy")

	// ErrUnsupportedProvider indicates an unknown embedding, completion
	// or generator provider key.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrInvalidOrigin indicates a stored chunk carries an origin tag
	// outside the permitted set. Reconstruction must fail, never default.
	ErrInvalidOrigin = errors.New("invalid chunk origin")

	// ErrParseFailure indicates an external service returned no parseable
	// structured result (semantic chunking, dossier generation).
	ErrParseFailure = errors.New("unparseable service response")

	// ErrEmbeddingBatch indicates an embedding call violated the batch
	// contract: wrong vector count or inconsistent dimensionality.
	ErrEmbeddingBatch = errors.New("embedding batch contract violated")

	// ErrDimensionMismatch indicates a query vector's dimensionality
	// differs from the stored embedding dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the completion service is not configured.
	ErrLLMUnavailable = errors.New("completion service unavailable")
)
