package driven

import "context"

// CompletionService provides text completion for the semantic chunker,
// the dossier generator and answer generation.
//
// Implementations may include:
//   - OpenAI (gpt-4o, gpt-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type CompletionService interface {
	// Complete produces a completion for the given prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures completion behaviour.
type CompleteOptions struct {
	// System is an optional system instruction.
	System string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// JSONOnly asks the backend for a strict JSON response where supported.
	JSONOnly bool
}
