package chunkers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

func testDossier() domain.Dossier {
	return domain.Dossier{
		ID:          "D-1",
		Title:       "Restauratie stadhuis",
		Type:        "erfgoed",
		StartDate:   time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC),
		Budget:      250000.50,
		Description: "Een aanvraag voor restauratie.",
		Advisory:    "Gunstig advies.",
	}
}

func TestBuildContext(t *testing.T) {
	got := BuildContext(testDossier(), "chunk body")

	want := "Dossier: Restauratie stadhuis\n" +
		"Type: erfgoed\n" +
		"Periode: 2020-03-15 tot 2022-06-30\n" +
		"Goedgekeurd budget: €250,000.50\n" +
		"\n" +
		"chunk body"
	assert.Equal(t, want, got)
}

func TestEnrich(t *testing.T) {
	d := testDossier()
	chunk := Enrich(d, domain.OriginAdvisory, "body text")

	assert.Equal(t, d.ID, chunk.DossierID)
	assert.Equal(t, d.Type, chunk.Type)
	assert.Equal(t, d.Title, chunk.Title)
	assert.Equal(t, d.StartDate, chunk.StartDate)
	assert.Equal(t, d.EndDate, chunk.EndDate)
	assert.Equal(t, d.Budget, chunk.Budget)
	assert.Equal(t, domain.OriginAdvisory, chunk.Origin)
	assert.Equal(t, BuildContext(d, "body text"), chunk.Content)
}

func TestFormatBudget(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"small", 500, "500.00"},
		{"thousands", 10000, "10,000.00"},
		{"millions", 1234567.891, "1,234,567.89"},
		{"exact boundary", 1000, "1,000.00"},
		{"zero", 0, "0.00"},
		{"negative", -2500.5, "-2,500.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatBudget(tt.in))
		})
	}
}

func TestRegistry_UnknownStrategy(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build(domain.ChunkStrategy("nonsense"), Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedStrategy)
}

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.StrategyWordCount, func(_ Config) (driven.Chunker, error) {
		return nil, nil
	})

	assert.True(t, r.Has(domain.StrategyWordCount))
	assert.False(t, r.Has(domain.StrategySemantic))
	assert.Len(t, r.Strategies(), 1)

	_, err := r.Build(domain.StrategyWordCount, Config{})
	assert.NoError(t, err)
}
