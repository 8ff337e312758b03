package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// mockRetrieval returns canned search results.
type mockRetrieval struct {
	results []domain.ScoredChunk
	err     error
}

func (m *mockRetrieval) Search(_ context.Context, _ string, _ int) ([]domain.ScoredChunk, error) {
	return m.results, m.err
}

// mockCompletion records the prompt and returns a canned answer.
type mockCompletion struct {
	answer     string
	err        error
	lastPrompt string
	lastOpts   driven.CompleteOptions
}

func (m *mockCompletion) Complete(_ context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	m.lastPrompt = prompt
	m.lastOpts = opts
	return m.answer, m.err
}

func (m *mockCompletion) ModelName() string            { return "mock-llm" }
func (m *mockCompletion) Ping(_ context.Context) error { return nil }
func (m *mockCompletion) Close() error                 { return nil }

func TestAsk_GroundsAnswerOnRetrievedChunks(t *testing.T) {
	results := []domain.ScoredChunk{
		{Chunk: domain.Chunk{DossierID: "D-1", Content: "eerste fragment"}, Score: 0.9},
		{Chunk: domain.Chunk{DossierID: "D-2", Content: "tweede fragment"}, Score: 0.5},
	}
	completion := &mockCompletion{answer: "  Het budget is 50.000 euro.\n"}
	svc := NewAnswerService(&mockRetrieval{results: results}, completion)

	answer, sources, err := svc.Ask(context.Background(), "Wat is het budget?", 2)
	require.NoError(t, err)
	assert.Equal(t, "Het budget is 50.000 euro.", answer)
	assert.Equal(t, results, sources)

	// Prompt carries every retrieved chunk and the question.
	assert.Contains(t, completion.lastPrompt, "eerste fragment")
	assert.Contains(t, completion.lastPrompt, "tweede fragment")
	assert.True(t, strings.HasSuffix(completion.lastPrompt, "Vraag: Wat is het budget?"))
	assert.NotEmpty(t, completion.lastOpts.System)
}

func TestAsk_NoChunksIsAnError(t *testing.T) {
	svc := NewAnswerService(&mockRetrieval{}, &mockCompletion{answer: "antwoord"})

	_, _, err := svc.Ask(context.Background(), "vraag", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAsk_RetrievalFailurePropagates(t *testing.T) {
	wantErr := errors.New("store broken")
	svc := NewAnswerService(&mockRetrieval{err: wantErr}, &mockCompletion{})

	_, _, err := svc.Ask(context.Background(), "vraag", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestAsk_CompletionFailurePropagates(t *testing.T) {
	results := []domain.ScoredChunk{{Chunk: domain.Chunk{Content: "fragment"}, Score: 1}}
	wantErr := errors.New("model offline")
	svc := NewAnswerService(&mockRetrieval{results: results}, &mockCompletion{err: wantErr})

	_, _, err := svc.Ask(context.Background(), "vraag", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
