// Package locdbtest builds localization files for tests.
package locdbtest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"loc-converter/internal/locdb"
)

// RowCount is the number of rows that places the length table exactly at
// locdb.LengthTableOffset.
const RowCount = (locdb.LengthTableOffset - locdb.IndexTableOffset) / 8

// FirstID is the id of row 0; row i has id FirstID+i.
const FirstID = 100

// Build returns a full-size file whose first rows hold texts; remaining rows
// are empty.
func Build(tb testing.TB, texts ...string) ([]byte, *locdb.StringTable) {
	tb.Helper()
	if len(texts) > RowCount {
		tb.Fatalf("locdbtest: %d texts exceed %d rows", len(texts), RowCount)
	}

	table := &locdb.StringTable{Strings: make(map[int32]string, RowCount)}

	prefix := []byte(locdb.Magic)
	for len(prefix) < locdb.IndexLengthOffset {
		prefix = append(prefix, 0)
	}
	prefix = binary.LittleEndian.AppendUint32(prefix, RowCount*8)
	prefix = append(prefix, make([]byte, locdb.IndexTableOffset-len(prefix))...)

	for i := 0; i < RowCount; i++ {
		id := int32(FirstID + i)
		prefix = binary.LittleEndian.AppendUint32(prefix, uint32(id))
		prefix = binary.LittleEndian.AppendUint32(prefix, uint32(i))

		table.OrderedIDs = append(table.OrderedIDs, id)
		table.OrderIndexes = append(table.OrderIndexes, int32(i))
		table.Strings[id] = ""
		if i < len(texts) {
			table.Strings[id] = texts[i]
		}
	}

	data, err := locdb.Write(prefix, table, nil)
	if err != nil {
		tb.Fatalf("locdbtest: %v", err)
	}
	return data, table
}

// WriteFile builds a file and stores it as dir/name.
func WriteFile(tb testing.TB, dir, name string, texts ...string) string {
	tb.Helper()
	data, _ := Build(tb, texts...)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("locdbtest: %v", err)
	}
	return path
}
