package jsonfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"loc-converter/internal/locdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *locdb.StringTable {
	return &locdb.StringTable{
		Strings:    map[int32]string{9: "", 5: "Hello <b>world</b> & co"},
		OrderedIDs: []int32{5, 9},
	}
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleTable(), "  "))

	want := `[
  {
    "Id": 5,
    "Text": "Hello <b>world</b> & co"
  },
  {
    "Id": 9,
    "Text": ""
  }
]
`
	assert.Equal(t, want, buf.String())
}

func TestImport(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[int32]string
		wantErr error
	}{
		{
			name:  "array of entries",
			input: `[{"Id": 5, "Text": "World!"}, {"Id": 9, "Text": ""}]`,
			want:  map[int32]string{5: "World!", 9: ""},
		},
		{
			name:  "null text is empty",
			input: `[{"Id": 3, "Text": null}, {"Id": 4}]`,
			want:  map[int32]string{3: "", 4: ""},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  map[int32]string{},
		},
		{
			name:    "null document",
			input:   `null`,
			wantErr: ErrEmptyDocument,
		},
		{
			name:    "blank document",
			input:   "  \n",
			wantErr: ErrEmptyDocument,
		},
		{
			name:    "duplicate id",
			input:   `[{"Id": 1, "Text": "a"}, {"Id": 1, "Text": "b"}]`,
			wantErr: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Import(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImport_Malformed(t *testing.T) {
	_, err := Import(strings.NewReader(`[{"Id": "five"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode JSON")
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Default_loc_en.json")
	table := sampleTable()

	require.NoError(t, ExportFile(path, table, "\t"))

	edits, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, table.Strings, edits)
}
