package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"loc-converter/internal/config"
	"loc-converter/internal/convert"
	"loc-converter/internal/filewalker"
	"loc-converter/internal/locdb"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Conversion failed")
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "loc-converter",
		Short:         "Convert DSMGR localization files between .db and .json",
		Long:          "Reads and rebuilds the game's binary localization container, exports it to editable JSON and imports edited JSON back using the original file as template.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(learnCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(memoryExportCmd())

	return rootCmd
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert by extension: .db to .json, or .json back to .db",
		Long: `Picks the direction from the file extension.
  .db    exports to a .json file with the same name.
  .json  imports into the .db file with the same name, which is also the template.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return runConvert(args[0], output)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output path (defaults to the sibling file)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.db>",
		Short: "Export a .db file to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			exporter := convert.NewExporter(cfg.JSONIndent)
			exporter.Output, _ = cmd.Flags().GetString("output")
			return runSingle(filewalker.NewWalker(exporter), args[0])
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output .json path")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import edited JSON into a .db file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			strict, _ := cmd.Flags().GetBool("strict")
			importer := convert.NewImporter(strict || cfg.StrictNulls)
			importer.Template, _ = cmd.Flags().GetString("template")
			importer.Output, _ = cmd.Flags().GetString("output")
			return runSingle(filewalker.NewWalker(importer), args[0])
		},
	}
	cmd.Flags().StringP("template", "t", "", "Original .db file (defaults to the sibling .db)")
	cmd.Flags().StringP("output", "o", "", "Output .db path (defaults to the template)")
	cmd.Flags().Bool("strict", false, "Reject text containing null bytes")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.db>",
		Short: "Print the section layout of a .db file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Convert every matching file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("mode")
			ctx, cancel := setupContext()
			defer cancel()
			return runBatch(ctx, args[0], mode)
		},
	}
	cmd.Flags().String("mode", "export", "Direction: export (.db -> .json) or import (.json -> .db)")
	return cmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// runConvert handles the `convert` command.
func runConvert(path, output string) error {
	cfg := config.Load()

	exporter := convert.NewExporter(cfg.JSONIndent)
	importer := convert.NewImporter(cfg.StrictNulls)
	exporter.Output = output
	importer.Output = output

	return runSingle(filewalker.NewWalker(exporter, importer), path)
}

func runSingle(w *filewalker.Walker, path string) error {
	entry, err := w.Resolve(path)
	if err != nil {
		return err
	}

	log.Info().Str("input", entry.Path).Str("ext", entry.Ext).Msg("Converting")

	res, err := entry.Converter.Convert(entry.Path)
	if err != nil {
		return err
	}

	logResult(res)
	return nil
}

func logResult(res *convert.Result) {
	ev := log.Info().
		Str("input", res.Input).
		Str("output", res.Output).
		Int("records", res.Records)
	if res.Template != "" {
		ev = ev.Str("template", res.Template).Int("changed", res.Changed)
	}
	ev.Msg("Conversion successful")
}

// runInspect handles the `inspect` command.
func runInspect(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	layout, err := locdb.Inspect(data)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file:                %s\n", path)
	fmt.Fprintf(out, "size:                %d\n", layout.FileSize)
	fmt.Fprintf(out, "records:             %d\n", layout.RecordCount)
	fmt.Fprintf(out, "empty rows:          %d\n", layout.EmptyRows)
	fmt.Fprintf(out, "index table length:  %d\n", layout.IndexTableLength)
	fmt.Fprintf(out, "length table offset: %d\n", layout.LengthTableOffset)
	fmt.Fprintf(out, "text block offset:   %d\n", layout.TextBlockOffset)
	fmt.Fprintf(out, "text block length:   %d\n", layout.TextBlockLength)

	if layout.LengthTableOffset != locdb.LengthTableOffset {
		log.Warn().
			Int("length_table_offset", layout.LengthTableOffset).
			Int("expected", locdb.LengthTableOffset).
			Msg("Length table is not at the fixed offset; this file cannot be used as an import template")
	}
	return nil
}
