// Package jsonfile maps a string table to and from the editable JSON form: an
// array of {"Id": ..., "Text": ...} objects in file order.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"loc-converter/internal/locdb"

	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyDocument = errors.New("JSON document is empty or null")
	ErrDuplicateID   = errors.New("duplicate id")
)

// Entry is one row of the JSON document.
type Entry struct {
	ID   int32   `json:"Id"`
	Text *string `json:"Text"`
}

// Export writes the table as an indented JSON array in OrderedIDs order.
func Export(w io.Writer, table *locdb.StringTable, indent string) error {
	entries := make([]Entry, 0, table.Len())
	for _, e := range table.Entries() {
		text := e.Text
		entries = append(entries, Entry{ID: e.ID, Text: &text})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", indent)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// ExportFile writes the table to path.
func ExportFile(path string, table *locdb.StringTable, indent string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}

	if err := Export(f, table, indent); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close JSON file: %w", err)
	}

	log.Info().Str("path", path).Int("records", table.Len()).Msg("Exported string table to JSON")
	return nil
}

// Import decodes a JSON array into an edit set. A null Text is read as "".
func Import(r io.Reader) (map[int32]string, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	if entries == nil {
		return nil, ErrEmptyDocument
	}

	edits := make(map[int32]string, len(entries))
	for _, e := range entries {
		if _, dup := edits[e.ID]; dup {
			return nil, fmt.Errorf("id %d: %w", e.ID, ErrDuplicateID)
		}
		if e.Text == nil {
			edits[e.ID] = ""
			continue
		}
		edits[e.ID] = *e.Text
	}
	return edits, nil
}

// ImportFile reads an edit set from path.
func ImportFile(path string) (map[int32]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open JSON file: %w", err)
	}
	defer f.Close()

	edits, err := Import(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return edits, nil
}
