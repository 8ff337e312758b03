package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/ai"
	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/config/file"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

var (
	configProvider string
	configModel    string
	configBaseURL  string
	configAPIKey   string
	configStrategy string
	configWords    int
	configDataDir  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change kwak settings",
	RunE:  runConfigShow,
}

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	RunE:  runConfigEmbedding,
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the completion provider",
	RunE:  runConfigLLM,
}

var configChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Configure the chunking strategy",
	RunE:  runConfigChunking,
}

var configStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Configure the storage location",
	RunE:  runConfigStorage,
}

func init() {
	for _, c := range []*cobra.Command{configEmbeddingCmd, configLLMCmd} {
		c.Flags().StringVar(&configProvider, "provider", "", "provider: ollama, openai or anthropic")
		c.Flags().StringVar(&configModel, "model", "", "model name")
		c.Flags().StringVar(&configBaseURL, "base-url", "", "API base URL")
		c.Flags().StringVar(&configAPIKey, "api-key", "", "API key (cloud providers)")
	}
	configChunkingCmd.Flags().StringVar(&configStrategy, "strategy", "", "chunking strategy: wordcount or semantic")
	configChunkingCmd.Flags().IntVar(&configWords, "words-per-chunk", 0, "block size for the wordcount strategy")
	configStorageCmd.Flags().StringVar(&configDataDir, "data-dir", "", "directory for the SQLite database")

	configCmd.AddCommand(configEmbeddingCmd)
	configCmd.AddCommand(configLLMCmd)
	configCmd.AddCommand(configChunkingCmd)
	configCmd.AddCommand(configStorageCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := file.NewSettingsStore("")
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}

	cmd.Printf("Settings file: %s\n\n", store.Path())
	cmd.Printf("Embedding:  %s\n", describeProvider(settings.Embedding.Provider, settings.Embedding.Model, settings.Embedding.IsConfigured()))
	cmd.Printf("LLM:        %s\n", describeProvider(settings.LLM.Provider, settings.LLM.Model, settings.LLM.IsConfigured()))
	cmd.Printf("Chunking:   %s, %d words per chunk\n", settings.Chunking.Strategy, settings.Chunking.WordsPerChunk)
	if settings.Storage.DataDir != "" {
		cmd.Printf("Data dir:   %s\n", settings.Storage.DataDir)
	} else {
		cmd.Printf("Data dir:   (default ~/.kwak/data)\n")
	}
	return nil
}

func describeProvider(provider domain.AIProvider, model string, configured bool) string {
	if !configured {
		return "not configured"
	}
	if model == "" {
		return fmt.Sprintf("%s (default model)", provider)
	}
	return fmt.Sprintf("%s / %s", provider, model)
}

func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	return updateSettings(cmd, func(settings *domain.AppSettings) error {
		applyProviderFlags(&settings.Embedding.Provider, &settings.Embedding.Model,
			&settings.Embedding.BaseURL, &settings.Embedding.APIKey)
		if !settings.Embedding.IsConfigured() {
			return fmt.Errorf("%w: embedding settings are incomplete", domain.ErrInvalidInput)
		}
		// Validate credentials before persisting them.
		return ai.ValidateEmbeddingConfig(&settings.Embedding)
	})
}

func runConfigLLM(cmd *cobra.Command, _ []string) error {
	return updateSettings(cmd, func(settings *domain.AppSettings) error {
		applyProviderFlags(&settings.LLM.Provider, &settings.LLM.Model,
			&settings.LLM.BaseURL, &settings.LLM.APIKey)
		if !settings.LLM.IsConfigured() {
			return fmt.Errorf("%w: LLM settings are incomplete", domain.ErrInvalidInput)
		}
		return ai.ValidateLLMConfig(&settings.LLM)
	})
}

func runConfigChunking(cmd *cobra.Command, _ []string) error {
	return updateSettings(cmd, func(settings *domain.AppSettings) error {
		if configStrategy != "" {
			strategy := domain.ChunkStrategy(configStrategy)
			if !strategy.IsValid() {
				return fmt.Errorf("%w: %s", domain.ErrUnsupportedStrategy, configStrategy)
			}
			settings.Chunking.Strategy = strategy
		}
		if configWords > 0 {
			settings.Chunking.WordsPerChunk = configWords
		}
		return nil
	})
}

func runConfigStorage(cmd *cobra.Command, _ []string) error {
	return updateSettings(cmd, func(settings *domain.AppSettings) error {
		settings.Storage.DataDir = configDataDir
		return nil
	})
}

// applyProviderFlags copies the non-empty provider flags into the settings.
func applyProviderFlags(provider *domain.AIProvider, model, baseURL, apiKey *string) {
	if configProvider != "" {
		*provider = domain.AIProvider(configProvider)
	}
	if configModel != "" {
		*model = configModel
	}
	if configBaseURL != "" {
		*baseURL = configBaseURL
	}
	if configAPIKey != "" {
		*apiKey = configAPIKey
	}
}

// updateSettings loads, mutates and saves the settings in one step.
func updateSettings(cmd *cobra.Command, mutate func(*domain.AppSettings) error) error {
	store, err := file.NewSettingsStore("")
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}

	if err := mutate(&settings); err != nil {
		return err
	}

	if err := store.Save(settings); err != nil {
		return err
	}
	cmd.Printf("Settings saved to %s\n", store.Path())
	return nil
}
