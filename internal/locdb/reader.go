package locdb

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// cursor walks a fully buffered file.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) next(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, formatErr("read", c.off, ErrTruncated)
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) int32() (int32, error) {
	b, err := c.next(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (c *cursor) seek(off int) error {
	if off > len(c.buf) {
		return formatErr("seek", off, ErrTruncated)
	}
	c.off = off
	return nil
}

// Parse decodes a complete localization file.
func Parse(data []byte) (*StringTable, error) {
	t, _, err := decode(data)
	return t, err
}

// Inspect decodes data and reports its section layout.
func Inspect(data []byte) (Layout, error) {
	_, layout, err := decode(data)
	return layout, err
}

// Read buffers r entirely and parses it.
func Read(r io.Reader) (*StringTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read localization data: %w", err)
	}
	return Parse(data)
}

// ParseFile loads and parses the file at path.
func ParseFile(path string) (*StringTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

func decode(data []byte) (*StringTable, Layout, error) {
	layout := Layout{FileSize: len(data)}
	c := &cursor{buf: data}

	magic, err := c.next(len(Magic))
	if err != nil {
		return nil, layout, err
	}
	if string(magic) != Magic {
		return nil, layout, formatErr("magic", 0, ErrBadMagic)
	}

	if err := c.seek(IndexLengthOffset); err != nil {
		return nil, layout, err
	}
	indexLen, err := c.int32()
	if err != nil {
		return nil, layout, err
	}
	recordCount := int(indexLen / indexEntrySize)
	if recordCount <= 0 {
		return nil, layout, formatErr("index length", IndexLengthOffset, ErrInvalidRecordCount)
	}
	layout.IndexTableLength = indexLen
	layout.RecordCount = recordCount

	log.Debug().
		Int32("index_table_length", indexLen).
		Int("records", recordCount).
		Msg("Read index header")

	if _, err := c.next(reservedSize); err != nil {
		return nil, layout, err
	}

	// Both tables must fit before allocating for them.
	if c.remaining() < recordCount*(indexEntrySize+4) {
		return nil, layout, formatErr("index table", c.off, ErrTruncated)
	}

	t := newStringTable(recordCount)
	for i := 0; i < recordCount; i++ {
		id, _ := c.int32()
		order, _ := c.int32()
		t.OrderedIDs = append(t.OrderedIDs, id)
		t.OrderIndexes = append(t.OrderIndexes, order)
	}

	layout.LengthTableOffset = c.off
	lengths := make([]int32, recordCount)
	for i := range lengths {
		lengths[i], _ = c.int32()
	}

	blockLenOff := c.off
	blockLen, err := c.int32()
	if err != nil {
		return nil, layout, err
	}
	if blockLen < 0 {
		return nil, layout, formatErr("text block length", blockLenOff, ErrInvalidTextBlock)
	}
	layout.TextBlockOffset = c.off
	layout.TextBlockLength = blockLen

	block, err := c.next(int(blockLen))
	if err != nil {
		return nil, layout, err
	}

	log.Debug().
		Int("length_table_offset", layout.LengthTableOffset).
		Int32("text_block_length", blockLen).
		Msg("Read text block")

	pos := 0
	for i, id := range t.OrderedIDs {
		n := int(lengths[i])
		if n <= 0 {
			if _, ok := t.Strings[id]; !ok {
				t.Strings[id] = ""
			}
			layout.EmptyRows++
			continue
		}
		// The trailing byte is the null terminator and is not decoded.
		if pos+n-1 > len(block) {
			return nil, layout, formatErr("text block", layout.TextBlockOffset+pos, ErrTruncated)
		}
		t.Strings[id] = string(block[pos : pos+n-1])
		pos += n
	}

	return t, layout, nil
}
