package driven

import (
	"context"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

// DossierGenerator produces synthetic subsidy dossiers.
// May suspend on an external completion call; an unparseable response
// is a hard failure.
type DossierGenerator interface {
	// Generate creates one dossier of the given type with a subsidy
	// period falling inside [startYear, endYear].
	Generate(ctx context.Context, dossierType string, startYear, endYear int) (*domain.Dossier, error)
}
