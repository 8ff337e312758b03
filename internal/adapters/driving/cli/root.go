// Package cli implements the kwak command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/ai"
	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/config/file"
	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/storage/sqlite"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Default file locations for the JSONL interchange files.
const (
	defaultDossierJSONL = "data/generated/subsidiedossiers.jsonl"
	defaultChunkJSONL   = "data/chunks/subsidiedossierchunks.jsonl"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "kwak",
	Short: "A RAG-ready CLI for subsidiedossiers",
	Long: `kwak generates synthetic subsidy dossiers, chunks and embeds their
text fields, and answers similarity queries over the stored chunks.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"print pipeline debug output to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadSettings reads the persisted application settings.
func loadSettings() (domain.AppSettings, error) {
	store, err := file.NewSettingsStore("")
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("opening settings store: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("loading settings: %w", err)
	}
	return settings, nil
}

// openStore opens the SQLite store from the configured data directory.
// The caller owns the returned store and must Close it.
func openStore(settings domain.AppSettings) (*sqlite.Store, error) {
	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("database at %s", store.Path())
	return store, nil
}

// chunkerRegistry is shared by the commands that build chunkers.
var chunkerRegistry = ai.NewChunkerRegistry()
