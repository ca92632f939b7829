package convert

import (
	"fmt"
	"strings"

	"loc-converter/internal/jsonfile"
	"loc-converter/internal/locdb"
)

// Exporter converts a .db file to JSON.
type Exporter struct {
	// Output overrides the sibling .json path.
	Output string
	// Indent is the JSON indentation unit.
	Indent string
}

func NewExporter(indent string) *Exporter { return &Exporter{Indent: indent} }

func (e *Exporter) CanConvert(ext string) bool {
	return strings.ToLower(ext) == ".db"
}

func (e *Exporter) Convert(path string) (*Result, error) {
	table, err := locdb.ParseFile(path)
	if err != nil {
		return nil, err
	}

	out := e.Output
	if out == "" {
		out = changeExt(path, ".json")
	}

	if err := jsonfile.ExportFile(out, table, e.Indent); err != nil {
		return nil, fmt.Errorf("export %s: %w", path, err)
	}

	return &Result{Input: path, Output: out, Records: table.Len()}, nil
}
