// Package convert turns localization files into editable JSON and back.
package convert

import (
	"path/filepath"
	"strings"
)

// Result describes one completed conversion.
type Result struct {
	// Input is the file that was converted.
	Input string
	// Output is the file that was written.
	Output string
	// Template is the .db file used as layout source (imports only).
	Template string
	// Records is the number of rows in the string table.
	Records int
	// Changed counts rows whose text differs from the template (imports only).
	Changed int
}

// Converter is implemented by each conversion direction.
type Converter interface {
	// CanConvert returns true if this converter accepts the given file extension.
	CanConvert(ext string) bool
	// Convert converts the file at path and writes the result next to it
	// unless the converter is configured with an explicit output.
	Convert(path string) (*Result, error)
}

// changeExt mirrors path with a different extension.
func changeExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
