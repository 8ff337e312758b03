package domain

const unknownDescription = "Unknown"

// ChunkStrategy selects how dossier text fields are split into chunks.
type ChunkStrategy string

// Available chunking strategies.
const (
	// StrategyWordCount splits on whitespace into fixed word-count blocks.
	StrategyWordCount ChunkStrategy = "wordcount"

	// StrategySemantic delegates boundary judgement to a completion model.
	StrategySemantic ChunkStrategy = "semantic"
)

// IsValid returns true if the strategy is recognised.
func (s ChunkStrategy) IsValid() bool {
	switch s {
	case StrategyWordCount, StrategySemantic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ChunkStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ChunkStrategy) Description() string {
	switch s {
	case StrategyWordCount:
		return "Word count (fixed-size blocks, deterministic)"
	case StrategySemantic:
		return "Semantic (LLM-delegated boundaries)"
	default:
		return unknownDescription
	}
}

// AllChunkStrategies returns all available chunking strategies.
func AllChunkStrategies() []ChunkStrategy {
	return []ChunkStrategy{StrategyWordCount, StrategySemantic}
}

// AIProvider identifies an AI service provider for embeddings or completions.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string `toml:"base_url"`

	// APIKey is the API key (for OpenAI).
	APIKey string `toml:"api_key"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the completion model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `toml:"base_url"`

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string `toml:"api_key"`
}

// IsConfigured returns true if the completion provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkSettings holds chunking configuration.
type ChunkSettings struct {
	// Strategy selects the chunker implementation.
	Strategy ChunkStrategy `toml:"strategy"`

	// WordsPerChunk is the target block size for the word-count strategy.
	WordsPerChunk int `toml:"words_per_chunk"`
}

// StorageSettings holds persisted-store configuration.
type StorageSettings struct {
	// DataDir is the directory holding the SQLite database.
	// Empty means the default ~/.kwak/data.
	DataDir string `toml:"data_dir"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings `toml:"embedding"`

	// LLM holds completion provider settings.
	LLM LLMSettings `toml:"llm"`

	// Chunking holds chunker settings.
	Chunking ChunkSettings `toml:"chunking"`

	// Storage holds persisted-store settings.
	Storage StorageSettings `toml:"storage"`
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users set them via config or flags.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkSettings{
			Strategy:      StrategyWordCount,
			WordsPerChunk: 200,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders returns providers that support completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
