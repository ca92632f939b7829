// Package locdb reads and writes the DSMGR localization container: a fixed
// header, an index table of (id, order index) pairs, a table of per-row text
// lengths and a block of null-terminated UTF-8 strings.
//
// All integers are little-endian int32. Offsets below are properties of the
// shipped file layout and are not derived from header fields.
package locdb

// Magic is the ASCII signature occupying the first 24 bytes of every file.
const Magic = "GAMENAME_DSMGR2010100801"

const (
	// IndexLengthOffset is where the byte length of the index table is stored.
	IndexLengthOffset = 0x51

	// reservedSize bytes sit between the index length field and the index table.
	reservedSize = 8

	// IndexTableOffset is the first byte of the index table.
	IndexTableOffset = IndexLengthOffset + 4 + reservedSize

	// indexEntrySize is one (id, order index) pair.
	indexEntrySize = 8

	// LengthTableOffset is where the writer starts emitting the length table.
	// Everything before it is copied verbatim from the template. It equals
	// IndexTableOffset + 8*recordCount for the shipped file (2784 rows), so it
	// is only valid for templates with that row count.
	LengthTableOffset = 22365
)

// Layout describes where each section of a parsed file lives.
type Layout struct {
	FileSize          int
	IndexTableLength  int32
	RecordCount       int
	LengthTableOffset int
	TextBlockOffset   int
	TextBlockLength   int32
	EmptyRows         int
}
