package locdb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := buildFile(t, []row{
		{id: 5, order: 0, text: "Hello"},
		{id: 9, order: 1, text: ""},
		{id: 2, order: 7, text: "Привет, мир"},
	})

	table, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []int32{5, 9, 2}, table.OrderedIDs)
	assert.Equal(t, []int32{0, 1, 7}, table.OrderIndexes)
	assert.Equal(t, map[int32]string{5: "Hello", 9: "", 2: "Привет, мир"}, table.Strings)
	assert.Equal(t, 3, table.Len())
}

func TestParse_DuplicateIDs(t *testing.T) {
	tests := []struct {
		name string
		rows []row
		want string
	}{
		{
			name: "empty row does not overwrite earlier text",
			rows: []row{{id: 3, text: "first"}, {id: 3, text: ""}},
			want: "first",
		},
		{
			name: "later text overwrites earlier empty row",
			rows: []row{{id: 3, text: ""}, {id: 3, text: "second"}},
			want: "second",
		},
		{
			name: "later text overwrites earlier text",
			rows: []row{{id: 3, text: "first"}, {id: 3, text: "second"}},
			want: "second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse(buildFile(t, tt.rows))
			require.NoError(t, err)
			assert.Equal(t, []int32{3, 3}, table.OrderedIDs)
			assert.Equal(t, tt.want, table.Strings[3])
		})
	}
}

func TestParse_BadMagic(t *testing.T) {
	valid := buildFile(t, []row{{id: 1, text: "a"}})

	for i := 0; i < len(Magic); i++ {
		data := bytes.Clone(valid)
		data[i] ^= 0xFF

		_, err := Parse(data)
		require.ErrorIs(t, err, ErrBadMagic)

		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, int64(0), fe.Offset)
	}
}

func TestParse_InvalidRecordCount(t *testing.T) {
	for _, indexLen := range []int32{0, 7, -8, -1024} {
		data := buildFile(t, []row{{id: 1, text: "a"}})
		binary.LittleEndian.PutUint32(data[IndexLengthOffset:], uint32(indexLen))

		_, err := Parse(data)
		assert.ErrorIs(t, err, ErrInvalidRecordCount, "index length %d", indexLen)
	}
}

func TestParse_Truncated(t *testing.T) {
	data := buildFile(t, []row{
		{id: 10, text: "alpha"},
		{id: 11, text: ""},
		{id: 12, text: "omega"},
	})

	for cut := 0; cut < len(data); cut++ {
		_, err := Parse(data[:cut])
		require.ErrorIs(t, err, ErrTruncated, "cut at %d", cut)

		var fe *FormatError
		require.True(t, errors.As(err, &fe), "cut at %d", cut)
	}

	_, err := Parse(data)
	require.NoError(t, err)
}

func TestParse_HugeRecordCount(t *testing.T) {
	data := buildFile(t, []row{{id: 1, text: "a"}})
	binary.LittleEndian.PutUint32(data[IndexLengthOffset:], uint32(0x7FFFFFF8))

	_, err := Parse(data)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestParse_NegativeTextBlockLength(t *testing.T) {
	data := buildFile(t, []row{{id: 1, text: ""}})
	blockLenOff := IndexTableOffset + indexEntrySize + 4
	binary.LittleEndian.PutUint32(data[blockLenOff:], uint32(0xFFFFFFFF))

	_, err := Parse(data)
	assert.ErrorIs(t, err, ErrInvalidTextBlock)
}

func TestParse_LengthPastTextBlock(t *testing.T) {
	data := buildFile(t, []row{{id: 1, text: "abc"}})
	lengthOff := IndexTableOffset + indexEntrySize
	binary.LittleEndian.PutUint32(data[lengthOff:], 40)

	_, err := Parse(data)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestInspect(t *testing.T) {
	data := buildFile(t, []row{
		{id: 5, text: "Hello"},
		{id: 9, text: ""},
	})

	layout, err := Inspect(data)
	require.NoError(t, err)

	assert.Equal(t, Layout{
		FileSize:          len(data),
		IndexTableLength:  16,
		RecordCount:       2,
		LengthTableOffset: IndexTableOffset + 16,
		TextBlockOffset:   IndexTableOffset + 16 + 8 + 4,
		TextBlockLength:   6,
		EmptyRows:         1,
	}, layout)
}

func TestInspect_FullSize(t *testing.T) {
	layout, err := Inspect(buildFile(t, fullSizeRows()))
	require.NoError(t, err)
	assert.Equal(t, LengthTableOffset, layout.LengthTableOffset)
}

func TestRead(t *testing.T) {
	data := buildFile(t, []row{{id: 42, text: "answer"}})

	table, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "answer", table.Strings[42])
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(t.TempDir() + "/missing.db")
	require.Error(t, err)

	var fe *FormatError
	assert.False(t, errors.As(err, &fe))
}
