package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ExportTSV writes all pairs to a TSV file.
func (m *Memory) ExportTSV(outputPath string) error {
	pairs := m.Pairs()

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create TSV file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "source_text\ttranslated_text")
	for _, p := range pairs {
		fmt.Fprintf(f, "%s\t%s\n", escapeTSV(p.Source), escapeTSV(p.Translated))
	}

	log.Info().Str("path", outputPath).Int("entries", len(pairs)).Msg("Exported translation memory to TSV")
	return nil
}

// ExportJSON writes all pairs to a JSON file.
func (m *Memory) ExportJSON(outputPath string) error {
	pairs := m.Pairs()

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(pairs); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	log.Info().Str("path", outputPath).Int("entries", len(pairs)).Msg("Exported translation memory to JSON")
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

// ImportJSON loads pairs previously written by ExportJSON.
func (m *Memory) ImportJSON(ctx context.Context, inputPath string) (int, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("open JSON file: %w", err)
	}
	defer f.Close()

	var pairs []Pair
	if err := json.NewDecoder(f).Decode(&pairs); err != nil {
		return 0, fmt.Errorf("decode JSON: %w", err)
	}
	if err := m.SetBatch(ctx, pairs); err != nil {
		return 0, err
	}

	log.Info().Str("path", inputPath).Int("entries", len(pairs)).Msg("Imported translation memory from JSON")
	return len(pairs), nil
}
