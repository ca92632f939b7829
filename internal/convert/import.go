package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"loc-converter/internal/interpolation"
	"loc-converter/internal/jsonfile"
	"loc-converter/internal/locdb"
	"loc-converter/internal/textutil"

	"github.com/rs/zerolog/log"
)

// ErrTemplateMissing is returned when no .db template exists for a JSON file.
var ErrTemplateMissing = errors.New("template .db file not found")

// Importer converts a JSON edit set back into a .db file, using the original
// .db file as layout template.
type Importer struct {
	// Template overrides the sibling .db path.
	Template string
	// Output overrides the destination, which defaults to the template itself.
	Output string
	// Strict rejects text containing null bytes.
	Strict bool
}

func NewImporter(strict bool) *Importer { return &Importer{Strict: strict} }

func (im *Importer) CanConvert(ext string) bool {
	return strings.ToLower(ext) == ".json"
}

func (im *Importer) Convert(path string) (*Result, error) {
	template := im.Template
	if template == "" {
		template = changeExt(path, ".db")
	}
	if _, err := os.Stat(template); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: expected at %s", ErrTemplateMissing, template)
		}
		return nil, fmt.Errorf("stat template: %w", err)
	}

	edits, err := jsonfile.ImportFile(path)
	if err != nil {
		return nil, err
	}
	if im.Strict {
		if err := locdb.ValidateEdits(edits); err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
	}

	original, err := locdb.ParseFile(template)
	if err != nil {
		return nil, err
	}

	if locdb.IndexTableOffset+8*original.Len() != locdb.LengthTableOffset {
		log.Warn().
			Str("template", template).
			Int("records", original.Len()).
			Msg("Template row count does not place the length table at the fixed offset")
	}

	changed := 0
	for id, text := range edits {
		before, ok := original.Text(id)
		if !ok {
			log.Debug().Int32("id", id).Msg("Ignoring edit for unknown id")
			continue
		}
		if before == text {
			continue
		}
		changed++
		if interpolation.Mismatch(before, text) {
			log.Warn().
				Int32("id", id).
				Str("original", textutil.Truncate(before, 40)).
				Str("edited", textutil.Truncate(text, 40)).
				Msg("Placeholder mismatch")
		}
	}

	out := im.Output
	if out == "" {
		out = template
	}

	if err := locdb.WriteFile(template, out, original, edits); err != nil {
		return nil, err
	}

	return &Result{
		Input:    path,
		Output:   out,
		Template: template,
		Records:  original.Len(),
		Changed:  changed,
	}, nil
}
