package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

// mockGenerator yields numbered dossiers and can fail after a set count.
type mockGenerator struct {
	calls     int
	failAfter int // 0 means never fail
	err       error
}

func (m *mockGenerator) Generate(_ context.Context, dossierType string, _, _ int) (*domain.Dossier, error) {
	m.calls++
	if m.failAfter > 0 && m.calls > m.failAfter {
		return nil, m.err
	}
	return &domain.Dossier{
		ID:   fmt.Sprintf("D-%d", m.calls),
		Type: dossierType,
	}, nil
}

func TestGenerate_CountAndProgress(t *testing.T) {
	svc := NewGenerateService(&mockGenerator{})

	var progress []int
	dossiers, err := svc.Generate(context.Background(), "erfgoed", 2018, 2022, 3,
		func(done int) { progress = append(progress, done) })
	require.NoError(t, err)

	require.Len(t, dossiers, 3)
	assert.Equal(t, []int{1, 2, 3}, progress)
	for _, d := range dossiers {
		assert.Equal(t, "erfgoed", d.Type)
	}
}

func TestGenerate_FailureReturnsPartialResults(t *testing.T) {
	wantErr := errors.New("model gave prose instead of JSON")
	svc := NewGenerateService(&mockGenerator{failAfter: 2, err: wantErr})

	dossiers, err := svc.Generate(context.Background(), "erfgoed", 2018, 2022, 5, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Len(t, dossiers, 2)
}

func TestGenerate_InvalidCount(t *testing.T) {
	svc := NewGenerateService(&mockGenerator{})

	_, err := svc.Generate(context.Background(), "erfgoed", 2018, 2022, 0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_CancelledContext(t *testing.T) {
	svc := NewGenerateService(&mockGenerator{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dossiers, err := svc.Generate(ctx, "erfgoed", 2018, 2022, 3, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dossiers)
}
