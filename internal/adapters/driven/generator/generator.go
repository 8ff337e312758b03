// Package generator produces synthetic subsidy dossiers using a
// completion service for the free-text fields.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.DossierGenerator = (*Generator)(nil)

// Budget bounds in euro for generated dossiers.
const (
	minBudget = 10_000
	maxBudget = 1_000_000
)

// systemPrompt constrains the model to bare JSON output.
const systemPrompt = "Je bent een assistent die enkel geldige JSON-responsen " +
	"geeft volgens het gevraagde schema. Geef geen uitleg of extra tekst " +
	"buiten het JSON-object."

// generatedText is the JSON payload expected back from the model.
// The structured fields (id, dates, budget) are fixed before the call
// and are not trusted from the response.
type generatedText struct {
	Titel        string `json:"titel"`
	Omschrijving string `json:"omschrijving"`
	Advies       string `json:"advies"`
}

// Generator creates dossiers with randomized periods and budgets and
// model-written title, description and advisory texts.
type Generator struct {
	completion driven.CompletionService
	rng        *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. Used by tests for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// New creates a dossier generator backed by the given completion service.
func New(completion driven.CompletionService, opts ...Option) (*Generator, error) {
	if completion == nil {
		return nil, fmt.Errorf("generator: %w: completion service is required",
			domain.ErrLLMUnavailable)
	}

	g := &Generator{
		completion: completion,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate creates one dossier of the given type. The start date falls
// somewhere in startYear; the end date is at least a year later and at
// most 31 December of endYear.
func (g *Generator) Generate(ctx context.Context, dossierType string, startYear, endYear int) (*domain.Dossier, error) {
	if dossierType == "" {
		return nil, fmt.Errorf("generator: %w: dossier type is required", domain.ErrInvalidInput)
	}
	if endYear < startYear {
		return nil, fmt.Errorf("generator: %w: end year %d before start year %d",
			domain.ErrInvalidInput, endYear, startYear)
	}

	id := "D-" + uuid.NewString()
	startDate := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, g.rng.Intn(365))
	endDate := g.randomEndDate(startDate, endYear)
	budget := roundCents(minBudget + g.rng.Float64()*(maxBudget-minBudget))

	prompt := fmt.Sprintf(`Je bent een AI die subsidieaanvragen in Vlaanderen genereert. Genereer een
subsidieaanvraag met volgende eigenschappen:
- id: %s
- type: %s
- startdatum: %s
- einddatum: %s
- goedgekeurd budget: %.2f EUR
- titel: een korte en duidelijke titel voor het dossier, maximaal 150 tekens
- omschrijving: een realistische aanvraag binnen het domein '%s', van
minstens 1000 en maximaal 10000 tekens
- advies: een gemotiveerd advies van minstens 1000 en maximaal 2000 tekens

Antwoord uitsluitend met een JSON-object van deze vorm:
{"titel": "...", "omschrijving": "...", "advies": "..."}`,
		id, dossierType,
		startDate.Format(domain.DateFormat),
		endDate.Format(domain.DateFormat),
		budget, dossierType)

	raw, err := g.completion.Complete(ctx, prompt, driven.CompleteOptions{
		System:   systemPrompt,
		JSONOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate dossier: %w", err)
	}

	text, err := parseGenerated(raw)
	if err != nil {
		return nil, err
	}

	return &domain.Dossier{
		ID:          id,
		Title:       text.Titel,
		Type:        dossierType,
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      budget,
		Description: text.Omschrijving,
		Advisory:    text.Advies,
	}, nil
}

// randomEndDate picks a date between one year after the start and
// 31 December of endYear, whichever window remains.
func (g *Generator) randomEndDate(startDate time.Time, endYear int) time.Time {
	minEnd := time.Date(startDate.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	latestEnd := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	deltaDays := int(latestEnd.Sub(minEnd).Hours() / 24)
	if deltaDays < 0 {
		deltaDays = 0
	}
	return minEnd.AddDate(0, 0, g.rng.Intn(deltaDays+1))
}

// parseGenerated decodes the model response into the text fields.
// Markdown code fences are tolerated; anything else malformed is a
// hard failure.
func parseGenerated(raw string) (*generatedText, error) {
	cleaned := stripFences(raw)

	var text generatedText
	if err := json.Unmarshal([]byte(cleaned), &text); err != nil {
		return nil, fmt.Errorf("%w: decode generated dossier: %v", domain.ErrParseFailure, err)
	}
	if text.Titel == "" || text.Omschrijving == "" || text.Advies == "" {
		return nil, fmt.Errorf("%w: generated dossier is missing text fields", domain.ErrParseFailure)
	}
	return &text, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// roundCents rounds to two decimal places.
func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
