package cli

import (
	"context"
	"fmt"

	"loc-converter/internal/config"
	"loc-converter/internal/convert"
	"loc-converter/internal/filewalker"
	"loc-converter/internal/worker"

	"github.com/rs/zerolog/log"
)

// runBatch handles the `batch` command.
func runBatch(ctx context.Context, root, mode string) error {
	cfg := config.Load()

	var c convert.Converter
	switch mode {
	case "export":
		c = convert.NewExporter(cfg.JSONIndent)
	case "import":
		c = convert.NewImporter(cfg.StrictNulls)
	default:
		return fmt.Errorf("unknown mode %q: use export or import", mode)
	}

	entries, err := filewalker.NewWalker(c).Walk(root)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}
	if len(entries) == 0 {
		log.Warn().Str("root", root).Str("mode", mode).Msg("No files to convert")
		return nil
	}

	pool := worker.NewPool(cfg.WorkerCount,
		func(ctx context.Context, entry filewalker.FileEntry) (*convert.Result, error) {
			return entry.Converter.Convert(entry.Path)
		},
	)

	failed := 0
	for _, task := range pool.Execute(ctx, entries) {
		if task.Err != nil {
			failed++
			log.Error().Err(task.Err).Str("file", task.Input.Path).Msg("Conversion failed")
			continue
		}
		logResult(task.Result)
	}

	log.Info().
		Int("files", len(entries)).
		Int("failed", failed).
		Str("mode", mode).
		Msg("Batch complete")

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(entries))
	}
	return nil
}
