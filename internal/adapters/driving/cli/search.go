package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/ai"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/services"
)

var (
	searchTopK int
	searchJSON bool
)

// Styles for the search result listing.
var (
	resultTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	resultMetaStyle  = lipgloss.NewStyle().Faint(true)
	resultScoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored dossier chunks",
	Long: `Embeds the query with the configured embedding provider and prints
the most similar stored chunks by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "number of chunks to return")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	embedder, err := ai.CreateAndValidateEmbeddingProvider(&settings.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	retrieval := services.NewRetrievalService(embedder, store.ChunkStore())
	results, err := retrieval.Search(cmd.Context(), query, searchTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchList(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println()
	for i, result := range results {
		chunk := result.Chunk
		header := fmt.Sprintf("[%d] %s", i+1, chunk.Title)
		meta := fmt.Sprintf("%s · %s · %s tot %s",
			chunk.DossierID, chunk.Origin,
			chunk.StartDate.Format(domain.DateFormat),
			chunk.EndDate.Format(domain.DateFormat))

		cmd.Println(resultTitleStyle.Render(header))
		cmd.Println(resultMetaStyle.Render(meta))
		cmd.Println(resultScoreStyle.Render(fmt.Sprintf("score %.4f", result.Score)))
		cmd.Println(truncate(chunk.Content, 400))
		cmd.Println()
	}
	return nil
}

// truncate shortens long chunk bodies for terminal display.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
