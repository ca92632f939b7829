package filewalker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"loc-converter/internal/convert"

	"github.com/rs/zerolog/log"
)

// ErrUnsupported is returned for files no converter accepts.
var ErrUnsupported = errors.New("unsupported file extension")

// Walker traverses directories and dispatches files to the correct converter.
type Walker struct {
	converters []convert.Converter
}

// NewWalker creates a Walker over the given converters. The first converter
// accepting an extension wins.
func NewWalker(converters ...convert.Converter) *Walker {
	return &Walker{converters: converters}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path      string
	Ext       string
	Converter convert.Converter
}

func (w *Walker) match(path string) (FileEntry, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range w.converters {
		if c.CanConvert(ext) {
			return FileEntry{Path: path, Ext: ext, Converter: c}, true
		}
	}
	return FileEntry{}, false
}

// Resolve picks the converter for a single file.
func (w *Walker) Resolve(path string) (FileEntry, error) {
	if path == "" {
		return FileEntry{}, errors.New("file path cannot be empty")
	}
	if filepath.Ext(path) == "" {
		return FileEntry{}, fmt.Errorf("could not determine file extension: %s", path)
	}

	entry, ok := w.match(path)
	if !ok {
		return FileEntry{}, fmt.Errorf("%w: %q (expected .db or .json)", ErrUnsupported, filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return FileEntry{}, fmt.Errorf("source file: %w", err)
	}
	if info.IsDir() {
		return FileEntry{}, fmt.Errorf("source is a directory: %s", path)
	}
	return entry, nil
}

// Walk discovers all supported files under the given root directory.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if entry, ok := w.match(path); ok {
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}
