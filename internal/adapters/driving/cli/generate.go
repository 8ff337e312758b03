package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/ai"
	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/generator"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/services"
	"github.com/kwak-labs/kwak-cli/internal/jsonl"
)

var (
	generateCount     int
	generateType      string
	generateStartYear int
	generateEndYear   int
	generateOutput    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic subsidy dossiers",
	Long: `Generates synthetic subsidy dossiers using the configured completion
provider and appends them to a JSONL file.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 10, "number of dossiers to generate")
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "erfgoed", "type of subsidy dossier")
	generateCmd.Flags().IntVar(&generateStartYear, "start-year", 2018, "start year for the subsidy period")
	generateCmd.Flags().IntVar(&generateEndYear, "end-year", 2022, "end year for the subsidy period")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", defaultDossierJSONL, "output JSONL file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	completion, err := ai.CreateAndValidateCompletionService(&settings.LLM)
	if err != nil {
		return err
	}
	defer completion.Close()

	gen, err := generator.New(completion)
	if err != nil {
		return err
	}

	svc := services.NewGenerateService(gen)
	dossiers, err := svc.Generate(cmd.Context(), generateType, generateStartYear, generateEndYear,
		generateCount, func(done int) {
			cmd.Printf("\rGenerating dossiers... %d/%d", done, generateCount)
		})
	cmd.Println()
	if err != nil && len(dossiers) == 0 {
		return err
	}

	if len(dossiers) > 0 {
		if mkErr := os.MkdirAll(filepath.Dir(generateOutput), 0755); mkErr != nil {
			return fmt.Errorf("creating output directory: %w", mkErr)
		}
		if writeErr := jsonl.Append[domain.Dossier](generateOutput, dossiers); writeErr != nil {
			return writeErr
		}
		cmd.Printf("Wrote %d dossiers to %s\n", len(dossiers), generateOutput)
	}

	// Partial output was saved; still surface the failure.
	return err
}
