package services

import (
	"context"
	"fmt"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driving"
	"github.com/kwak-labs/kwak-cli/internal/logger"
)

// Ensure GenerateService implements the interface.
var _ driving.GenerateService = (*GenerateService)(nil)

// GenerateService produces synthetic dossiers one at a time.
type GenerateService struct {
	generator driven.DossierGenerator
}

// NewGenerateService creates a new generation service.
func NewGenerateService(generator driven.DossierGenerator) *GenerateService {
	return &GenerateService{generator: generator}
}

// Generate creates count dossiers of the given type. Each completed
// dossier is reported through the optional progress callback. A failed
// generation aborts the run; dossiers generated so far are returned
// alongside the error so callers can still persist them.
func (s *GenerateService) Generate(ctx context.Context, dossierType string, startYear, endYear, count int,
	progress func(done int)) ([]domain.Dossier, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", domain.ErrInvalidInput, count)
	}

	dossiers := make([]domain.Dossier, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return dossiers, err
		}

		dossier, err := s.generator.Generate(ctx, dossierType, startYear, endYear)
		if err != nil {
			return dossiers, fmt.Errorf("generating dossier %d of %d: %w", i+1, count, err)
		}

		logger.Debug("generated dossier %s (%q)", dossier.ID, dossier.Title)
		dossiers = append(dossiers, *dossier)
		if progress != nil {
			progress(i + 1)
		}
	}

	return dossiers, nil
}
