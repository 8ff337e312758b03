package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driving"
	"github.com/kwak-labs/kwak-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// answerSystemPrompt keeps the model grounded in the retrieved chunks.
const answerSystemPrompt = "Je bent een assistent voor vragen over subsidiedossiers. " +
	"Beantwoord de vraag uitsluitend op basis van de meegegeven context. " +
	"Als de context het antwoord niet bevat, zeg dat dan expliciet."

// AnswerService generates a natural-language answer from retrieved chunks.
type AnswerService struct {
	retrieval  driving.RetrievalService
	completion driven.CompletionService
}

// NewAnswerService creates a new answer service.
func NewAnswerService(retrieval driving.RetrievalService, completion driven.CompletionService) *AnswerService {
	return &AnswerService{
		retrieval:  retrieval,
		completion: completion,
	}
}

// Ask retrieves the k most relevant chunks for the question and asks the
// completion service to answer using them as context. Returns the answer
// together with the chunks it was grounded on.
func (s *AnswerService) Ask(ctx context.Context, question string, k int) (string, []domain.ScoredChunk, error) {
	results, err := s.retrieval.Search(ctx, question, k)
	if err != nil {
		return "", nil, fmt.Errorf("retrieving context: %w", err)
	}
	if len(results) == 0 {
		return "", nil, fmt.Errorf("%w: no chunks stored to answer from", domain.ErrNotFound)
	}

	var sb strings.Builder
	sb.WriteString("Context:\n\n")
	for i, result := range results {
		fmt.Fprintf(&sb, "--- Fragment %d (score %.4f) ---\n%s\n\n", i+1, result.Score, result.Chunk.Content)
	}
	fmt.Fprintf(&sb, "Vraag: %s", question)

	logger.Debug("asking completion with %d context chunks", len(results))

	answer, err := s.completion.Complete(ctx, sb.String(), driven.CompleteOptions{
		System: answerSystemPrompt,
	})
	if err != nil {
		return "", nil, fmt.Errorf("generating answer: %w", err)
	}

	return strings.TrimSpace(answer), results, nil
}
