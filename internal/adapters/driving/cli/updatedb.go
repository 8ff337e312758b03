package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/jsonl"
)

var updatedbInput string

var updatedbCmd = &cobra.Command{
	Use:   "updatedb",
	Short: "Load generated dossiers into the database",
	Long: `Reads the dossier JSONL file and stores or replaces the records in
the dossiers table.`,
	RunE: runUpdatedb,
}

func init() {
	updatedbCmd.Flags().StringVarP(&updatedbInput, "input", "i", defaultDossierJSONL, "dossier JSONL file")
	rootCmd.AddCommand(updatedbCmd)
}

func runUpdatedb(cmd *cobra.Command, _ []string) error {
	if !jsonl.Exists(updatedbInput) {
		return fmt.Errorf("dossier file not found at %s, run 'kwak generate' first", updatedbInput)
	}

	dossiers, err := jsonl.Load[domain.Dossier](updatedbInput)
	if err != nil {
		return err
	}
	if len(dossiers) == 0 {
		cmd.Println("No dossiers to load.")
		return nil
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DossierStore().SaveDossiers(cmd.Context(), dossiers); err != nil {
		return err
	}

	total, err := store.DossierStore().CountDossiers(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Loaded %d dossiers (%d total in database)\n", len(dossiers), total)
	return nil
}
