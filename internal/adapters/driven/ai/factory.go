// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/embedding"
	ollamaembed "github.com/kwak-labs/kwak-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/kwak-labs/kwak-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/kwak-labs/kwak-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/kwak-labs/kwak-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/kwak-labs/kwak-cli/internal/adapters/driven/llm/openai"
	"github.com/kwak-labs/kwak-cli/internal/chunkers"
	"github.com/kwak-labs/kwak-cli/internal/chunkers/semantic"
	"github.com/kwak-labs/kwak-cli/internal/chunkers/wordcount"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingProvider creates an embedding provider and
// validates connectivity. Returns the provider if successful, or an error
// with guidance.
func CreateAndValidateEmbeddingProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: no embedding provider configured. Run 'kwak config' to set one up",
			domain.ErrEmbeddingUnavailable)
	}

	provider, err := CreateEmbeddingProvider(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'kwak config' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := provider.Ping(ctx); err != nil {
		provider.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'kwak config' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return provider, nil
}

// CreateAndValidateCompletionService creates a completion service and
// validates connectivity. Returns the service if successful, or an error
// with guidance.
func CreateAndValidateCompletionService(settings *domain.LLMSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: no completion provider configured. Run 'kwak config' to set one up",
			domain.ErrLLMUnavailable)
	}

	svc, err := CreateCompletionService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'kwak config' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'kwak config' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating
// a provider and pinging it. Used when settings are changed, so bad
// credentials fail at configuration time rather than mid-ingest.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	provider, err := CreateEmbeddingProvider(settings)
	if err != nil {
		return err
	}
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return provider.Ping(ctx)
}

// ValidateLLMConfig validates a completion configuration by creating a
// service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateCompletionService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingProvider creates the appropriate embedding provider based
// on settings. Cloud providers are wrapped with a request rate limiter so
// batch ingestion stays under provider quotas.
func CreateEmbeddingProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider is not configured")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use ollama or openai",
			domain.ErrUnsupportedProvider)

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
}

// CreateCompletionService creates the appropriate completion service based
// on settings.
func CreateCompletionService(settings *domain.LLMSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("completion provider is not configured")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
}

// NewChunkerRegistry returns a registry with all built-in chunking
// strategies registered.
func NewChunkerRegistry() *chunkers.Registry {
	r := chunkers.NewRegistry()

	r.Register(domain.StrategyWordCount, func(cfg chunkers.Config) (driven.Chunker, error) {
		return wordcount.New(wordcount.WithWordsPerChunk(cfg.WordsPerChunk)), nil
	})

	r.Register(domain.StrategySemantic, func(cfg chunkers.Config) (driven.Chunker, error) {
		return semantic.New(cfg.Completion)
	})

	return r
}

// createOllamaEmbedding creates an Ollama embedding provider.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingProvider {
	return ollamaembed.New(ollamaembed.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding provider.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	provider, err := openaiembed.New(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return embedding.NewRateLimited(provider, embedding.DefaultRate), nil
}

// createOllamaLLM creates an Ollama completion service.
func createOllamaLLM(settings *domain.LLMSettings) driven.CompletionService {
	return ollamallm.New(ollamallm.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI completion service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.CompletionService, error) {
	return openaillm.New(openaillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic completion service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.CompletionService, error) {
	return anthropicllm.New(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
