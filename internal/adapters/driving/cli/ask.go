package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/ai"
	"github.com/kwak-labs/kwak-cli/internal/core/services"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question using the stored dossiers",
	Long: `Retrieves the most relevant stored chunks for the question and asks
the configured completion provider to answer from them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 5, "number of context chunks to retrieve")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	embedder, err := ai.CreateAndValidateEmbeddingProvider(&settings.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()

	completion, err := ai.CreateAndValidateCompletionService(&settings.LLM)
	if err != nil {
		return err
	}
	defer completion.Close()

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	retrieval := services.NewRetrievalService(embedder, store.ChunkStore())
	answer := services.NewAnswerService(retrieval, completion)

	response, sources, err := answer.Ask(cmd.Context(), question, askTopK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println()
	cmd.Println(response)
	cmd.Println()
	cmd.Println(resultMetaStyle.Render(fmt.Sprintf("Grounded on %d chunks:", len(sources))))
	for _, source := range sources {
		cmd.Println(resultMetaStyle.Render(fmt.Sprintf("  %s (%s, score %.4f)",
			source.Chunk.Title, source.Chunk.Origin, source.Score)))
	}
	return nil
}
