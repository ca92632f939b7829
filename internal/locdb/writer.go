package locdb

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Write rebuilds a localization file from template. Bytes before
// LengthTableOffset are copied verbatim; the length table and text block are
// regenerated from original with edits applied. Edits for ids not present in
// original are ignored, so the row set always matches original.OrderedIDs.
func Write(template []byte, original *StringTable, edits map[int32]string) ([]byte, error) {
	if len(template) < LengthTableOffset {
		return nil, formatErr("template", len(template), ErrTemplateTooShort)
	}

	final := original.Apply(edits)

	lengths := make([]int32, 0, len(final.OrderedIDs))
	var block []byte
	for _, id := range final.OrderedIDs {
		text := final.Strings[id]
		if text == "" {
			lengths = append(lengths, 0)
			continue
		}
		block = append(block, text...)
		block = append(block, 0)
		lengths = append(lengths, int32(len(text)+1))
	}

	out := make([]byte, 0, LengthTableOffset+4*len(lengths)+4+len(block))
	out = append(out, template[:LengthTableOffset]...)
	for _, n := range lengths {
		out = binary.LittleEndian.AppendUint32(out, uint32(n))
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(block)))
	out = append(out, block...)

	return out, nil
}

// WriteFile reads the template at templatePath and writes the rebuilt file to
// outPath. outPath may equal templatePath; the output is written to a temporary
// file in the same directory and renamed into place.
func WriteFile(templatePath, outPath string, original *StringTable, edits map[int32]string) error {
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template %s: %w", templatePath, err)
	}

	out, err := Write(template, original, edits)
	if err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	return writeAtomic(outPath, out)
}

// ValidateEdits rejects text the format cannot represent: an embedded null
// byte would end the string early on the next parse.
func ValidateEdits(edits map[int32]string) error {
	for id, text := range edits {
		if strings.IndexByte(text, 0) >= 0 {
			return fmt.Errorf("id %d: %w", id, ErrEmbeddedNull)
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
