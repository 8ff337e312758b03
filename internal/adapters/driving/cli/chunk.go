package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kwak-labs/kwak-cli/internal/adapters/driven/ai"
	"github.com/kwak-labs/kwak-cli/internal/chunkers"
	"github.com/kwak-labs/kwak-cli/internal/core/domain"
	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
	"github.com/kwak-labs/kwak-cli/internal/core/services"
	"github.com/kwak-labs/kwak-cli/internal/jsonl"
)

var (
	chunkStrategy string
	chunkRange    string
	chunkInput    string
	chunkOutput   string
	chunkDryRun   bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Chunk dossiers, embed the chunks and store them",
	Long: `Splits the selected dossiers into chunks with the chosen strategy,
writes them to a JSONL file, then embeds and stores them for retrieval.

The --range flag selects which dossiers to process: 'all', 'first:N'
or 'last:N'.`,
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVarP(&chunkStrategy, "strategy", "s", "wordcount",
		"chunking strategy: 'wordcount' or 'semantic'")
	chunkCmd.Flags().StringVarP(&chunkRange, "range", "r", "all",
		"which dossiers to chunk: 'all', 'first:N' or 'last:N'")
	chunkCmd.Flags().StringVarP(&chunkInput, "input", "i", defaultDossierJSONL, "dossier JSONL file")
	chunkCmd.Flags().StringVarP(&chunkOutput, "output", "o", defaultChunkJSONL, "chunk JSONL file")
	chunkCmd.Flags().BoolVar(&chunkDryRun, "dry-run", false,
		"only write the chunk JSONL, skip embedding and storage")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, _ []string) error {
	strategy := domain.ChunkStrategy(chunkStrategy)
	if !chunkerRegistry.Has(strategy) {
		return fmt.Errorf("%w: %s (choose 'wordcount' or 'semantic')",
			domain.ErrUnsupportedStrategy, chunkStrategy)
	}

	if !jsonl.Exists(chunkInput) {
		return fmt.Errorf("dossier file not found at %s, run 'kwak generate' first", chunkInput)
	}
	dossiers, err := jsonl.Load[domain.Dossier](chunkInput)
	if err != nil {
		return err
	}

	selected, err := selectRange(dossiers, chunkRange)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		cmd.Println("No dossiers selected.")
		return nil
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	chunker, completion, err := buildChunker(strategy, settings)
	if err != nil {
		return err
	}
	if completion != nil {
		defer completion.Close()
	}

	if chunkDryRun {
		return chunkToFile(cmd, chunker, selected)
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

	// Keep the dossiers table in sync so similarity results can join on it.
	if err := store.DossierStore().SaveDossiers(cmd.Context(), selected); err != nil {
		return err
	}

	ingest := services.NewIngestService(chunker, embedder, store.ChunkStore())
	chunks, err := ingest.Ingest(cmd.Context(), selected)
	if err != nil {
		return err
	}

	if err := writeChunkFile(chunks); err != nil {
		return err
	}

	cmd.Printf("Chunked %d dossiers into %d chunks (%s strategy), embedded with %s\n",
		len(selected), len(chunks), chunker.Name(), embedder.ModelName())
	return nil
}

// buildChunker constructs the requested strategy, creating a completion
// service only when the strategy needs one. The caller closes the
// returned completion service if non-nil.
func buildChunker(strategy domain.ChunkStrategy, settings domain.AppSettings) (driven.Chunker, driven.CompletionService, error) {
	cfg := chunkers.Config{
		WordsPerChunk: settings.Chunking.WordsPerChunk,
	}

	if strategy == domain.StrategySemantic {
		completion, err := ai.CreateAndValidateCompletionService(&settings.LLM)
		if err != nil {
			return nil, nil, err
		}
		cfg.Completion = completion

		chunker, err := chunkerRegistry.Build(strategy, cfg)
		if err != nil {
			completion.Close()
			return nil, nil, err
		}
		return chunker, completion, nil
	}

	chunker, err := chunkerRegistry.Build(strategy, cfg)
	if err != nil {
		return nil, nil, err
	}
	return chunker, nil, nil
}

// chunkToFile runs the chunkers without embedding or storage.
func chunkToFile(cmd *cobra.Command, chunker driven.Chunker, dossiers []domain.Dossier) error {
	var chunks []domain.Chunk
	for _, dossier := range dossiers {
		cs, err := chunker.Chunk(cmd.Context(), dossier)
		if err != nil {
			return fmt.Errorf("chunking dossier %s: %w", dossier.ID, err)
		}
		chunks = append(chunks, cs...)
	}

	if err := writeChunkFile(chunks); err != nil {
		return err
	}
	cmd.Printf("Chunked %d dossiers into %d chunks (%s strategy)\n",
		len(dossiers), len(chunks), chunker.Name())
	return nil
}

// writeChunkFile overwrites the chunk JSONL with the given chunks.
func writeChunkFile(chunks []domain.Chunk) error {
	if err := os.MkdirAll(filepath.Dir(chunkOutput), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return jsonl.Overwrite[domain.Chunk](chunkOutput, chunks)
}

// selectRange picks dossiers per the range expression: 'all', 'first:N'
// or 'last:N'.
func selectRange(dossiers []domain.Dossier, expr string) ([]domain.Dossier, error) {
	switch {
	case expr == "all":
		return dossiers, nil

	case strings.HasPrefix(expr, "first:"):
		n, err := parseRangeCount(expr)
		if err != nil {
			return nil, err
		}
		if n > len(dossiers) {
			n = len(dossiers)
		}
		return dossiers[:n], nil

	case strings.HasPrefix(expr, "last:"):
		n, err := parseRangeCount(expr)
		if err != nil {
			return nil, err
		}
		if n > len(dossiers) {
			n = len(dossiers)
		}
		return dossiers[len(dossiers)-n:], nil

	default:
		return nil, fmt.Errorf("%w: invalid range %q, use 'all', 'first:N' or 'last:N'",
			domain.ErrInvalidInput, expr)
	}
}

// parseRangeCount extracts the N from 'first:N' or 'last:N'.
func parseRangeCount(expr string) (int, error) {
	_, raw, _ := strings.Cut(expr, ":")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid range count %q", domain.ErrInvalidInput, raw)
	}
	return n, nil
}
