package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"loc-converter/internal/config"
	"loc-converter/internal/locdb"
	"loc-converter/internal/memory"
	"loc-converter/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func learnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn <source.db> <translated.db>",
		Short: "Record translations by pairing rows of two .db files by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memoryFile, _ := cmd.Flags().GetString("memory-file")
			return runLearn(args[0], args[1], memoryFile)
		},
	}
	cmd.Flags().String("memory-file", "", "Also read and rewrite this JSON memory file")
	return cmd
}

func applyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file.db>",
		Short: "Replace every row that has a remembered translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			memoryFile, _ := cmd.Flags().GetString("memory-file")
			return runApply(args[0], output, memoryFile)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output .db path (defaults to the input)")
	cmd.Flags().String("memory-file", "", "Load translations from this JSON memory file")
	return cmd
}

func memoryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory-export <path>",
		Short: "Export the translation memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return runMemoryExport(args[0], format)
		},
	}
	cmd.Flags().String("format", "tsv", "Export format: tsv or json")
	return cmd
}

// openMemory returns a memory backed by PostgreSQL when DATABASE_URL is set
// and seeded from memoryFile when given.
func openMemory(ctx context.Context, cfg *config.Config, memoryFile string) (*memory.Memory, func(), error) {
	if cfg.DatabaseURL == "" {
		m := memory.New(nil)
		if memoryFile == "" {
			log.Warn().Msg("DATABASE_URL not set and no memory file given, translation memory is empty")
			return m, func() {}, nil
		}
		if _, err := m.ImportJSON(ctx, memoryFile); err != nil {
			return nil, nil, err
		}
		return m, func() {}, nil
	}

	pool, err := memory.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	m := memory.New(pool)
	if err := m.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := m.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload memory")
	}
	if memoryFile != "" {
		if _, err := m.ImportJSON(ctx, memoryFile); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return m, pool.Close, nil
}

// runLearn handles the `learn` command.
func runLearn(sourcePath, translatedPath, memoryFile string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	if cfg.DatabaseURL == "" && memoryFile == "" {
		return errors.New("nowhere to store translations: set DATABASE_URL or pass --memory-file")
	}

	source, err := locdb.ParseFile(sourcePath)
	if err != nil {
		return err
	}
	translated, err := locdb.ParseFile(translatedPath)
	if err != nil {
		return err
	}

	pairs := memory.Learn(source, translated)
	if len(pairs) == 0 {
		log.Warn().Msg("No translated rows found")
		return nil
	}

	seed := ""
	if memoryFile != "" {
		if _, err := os.Stat(memoryFile); err == nil {
			seed = memoryFile
		}
	}
	mem, closeFn, err := openMemory(ctx, cfg, seed)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, batch := range worker.Batch(pairs, cfg.BatchSize) {
		if err := mem.SetBatch(ctx, batch); err != nil {
			return fmt.Errorf("store pairs: %w", err)
		}
	}

	if memoryFile != "" {
		if err := mem.ExportJSON(memoryFile); err != nil {
			return err
		}
	}

	log.Info().
		Int("pairs", len(pairs)).
		Int("memory", mem.Len()).
		Msg("Learned translations")
	return nil
}

// runApply handles the `apply` command.
func runApply(path, output, memoryFile string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	mem, closeFn, err := openMemory(ctx, cfg, memoryFile)
	if err != nil {
		return err
	}
	defer closeFn()

	table, err := locdb.ParseFile(path)
	if err != nil {
		return err
	}

	edits := mem.Suggest(ctx, table)
	if cfg.StrictNulls {
		if err := locdb.ValidateEdits(edits); err != nil {
			return err
		}
	}

	if output == "" {
		output = path
	}
	if err := locdb.WriteFile(path, output, table, edits); err != nil {
		return err
	}

	log.Info().
		Str("input", path).
		Str("output", output).
		Int("records", table.Len()).
		Int("translated", len(edits)).
		Msg("Applied translation memory")
	return nil
}

// runMemoryExport handles the `memory-export` command.
func runMemoryExport(path, format string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to export the translation memory")
	}

	mem, closeFn, err := openMemory(ctx, cfg, "")
	if err != nil {
		return err
	}
	defer closeFn()

	switch format {
	case "json":
		return mem.ExportJSON(path)
	case "tsv":
		return mem.ExportTSV(path)
	default:
		return fmt.Errorf("unknown format %q: use tsv or json", format)
	}
}
