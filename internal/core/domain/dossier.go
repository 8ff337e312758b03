package domain

import "time"

// DateFormat is the wire format for dossier dates (ISO 8601 date only).
const DateFormat = "2006-01-02"

// Dossier represents a single subsidy dossier record.
// It is produced by a generator and consumed read-only by the chunkers.
type Dossier struct {
	// ID is the unique identifier for the dossier.
	ID string `json:"id"`

	// Title is the human-readable dossier title.
	Title string `json:"title"`

	// Type is the closed-set dossier type label (e.g. "erfgoed").
	Type string `json:"type"`

	// StartDate is the first day of the subsidy period.
	StartDate time.Time `json:"start_date"`

	// EndDate is the last day of the subsidy period.
	// EndDate >= StartDate is expected but not validated here.
	EndDate time.Time `json:"end_date"`

	// Budget is the approved budget in euro.
	Budget float64 `json:"budget"`

	// Description is the free-text subsidy application.
	Description string `json:"description"`

	// Advisory is the free-text advisory opinion.
	Advisory string `json:"advisory"`
}

// Origin identifies which dossier text field a chunk was derived from.
type Origin string

// Permitted origin tags. Any other value on a stored record is invalid
// and must fail reconstruction rather than be coerced to a default.
const (
	// OriginDescription marks chunks cut from the description field.
	OriginDescription Origin = "description"

	// OriginAdvisory marks chunks cut from the advisory field.
	OriginAdvisory Origin = "advisory"
)

// IsValid returns true if the origin tag is one of the permitted values.
func (o Origin) IsValid() bool {
	return o == OriginDescription || o == OriginAdvisory
}

// String returns the string representation.
func (o Origin) String() string {
	return string(o)
}

// TextField returns the dossier text field this origin refers to.
func (o Origin) TextField(d Dossier) string {
	if o == OriginAdvisory {
		return d.Advisory
	}
	return d.Description
}

// ChunkOrigins returns the origins in chunking order: description first,
// then advisory. Downstream sequence numbering relies on this order.
func ChunkOrigins() []Origin {
	return []Origin{OriginDescription, OriginAdvisory}
}

// Chunk is a retrieval-sized excerpt of one dossier text field, enriched
// with denormalized dossier metadata for display at retrieval time.
// A chunk is an immutable value once yielded; its lifetime is independent
// of its parent dossier.
type Chunk struct {
	// DossierID is a weak reference to the parent dossier.
	DossierID string `json:"dossier_id"`

	// Type is the parent dossier's type label (denormalized).
	Type string `json:"type"`

	// Title is the parent dossier's title (denormalized).
	Title string `json:"title"`

	// StartDate is the parent dossier's start date (denormalized).
	StartDate time.Time `json:"start_date"`

	// EndDate is the parent dossier's end date (denormalized).
	EndDate time.Time `json:"end_date"`

	// Budget is the parent dossier's approved budget (denormalized).
	Budget float64 `json:"budget"`

	// Origin identifies the source text field.
	Origin Origin `json:"origin"`

	// Content is the enriched chunk body: the shared metadata header,
	// a blank line, then the raw chunk text.
	Content string `json:"content"`
}

// ScoredChunk is a chunk returned from similarity search together with
// its cosine similarity score against the query vector.
type ScoredChunk struct {
	Chunk Chunk `json:"chunk"`

	// Score is the cosine similarity in [-1, 1]; higher is more similar.
	Score float64 `json:"score"`
}
