package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"loc-converter/internal/locdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(ids []int32, texts ...string) *locdb.StringTable {
	t := &locdb.StringTable{Strings: make(map[int32]string), OrderedIDs: ids}
	for i, id := range ids {
		t.Strings[id] = texts[i]
	}
	return t
}

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	_, ok := m.Get(ctx, "Sword")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "Sword", "Épée"))
	got, ok := m.Get(ctx, "Sword")
	require.True(t, ok)
	assert.Equal(t, "Épée", got)

	require.NoError(t, m.Set(ctx, "Sword", "Lame"))
	got, _ = m.Get(ctx, "Sword")
	assert.Equal(t, "Lame", got)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_SetBatch(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	require.NoError(t, m.SetBatch(ctx, nil))
	require.NoError(t, m.SetBatch(ctx, []Pair{
		{Source: "b", Translated: "B"},
		{Source: "a", Translated: "A"},
	}))

	assert.Equal(t, []Pair{{"a", "A"}, {"b", "B"}}, m.Pairs())
}

func TestLearn(t *testing.T) {
	source := table([]int32{1, 2, 3, 4, 5, 1}, "Sword", "Shield", "", "Same", "Orphan", "Sword")
	translated := table([]int32{1, 2, 3, 4}, "Épée", "", "Vide", "Same")

	pairs := Learn(source, translated)
	assert.Equal(t, []Pair{{Source: "Sword", Translated: "Épée"}}, pairs)
}

func TestMemory_Suggest(t *testing.T) {
	ctx := context.Background()
	m := New(nil)
	require.NoError(t, m.SetBatch(ctx, []Pair{
		{Source: "Sword", Translated: "Épée"},
		{Source: "Gold", Translated: "Gold"},
	}))

	target := table([]int32{10, 11, 12, 13}, "Sword", "Gold", "", "Unknown")
	edits := m.Suggest(ctx, target)

	assert.Equal(t, map[int32]string{10: "Épée"}, edits)
}

func TestMemory_Export(t *testing.T) {
	ctx := context.Background()
	m := New(nil)
	require.NoError(t, m.SetBatch(ctx, []Pair{
		{Source: "Line\tone", Translated: "Ligne\nun"},
	}))

	dir := t.TempDir()

	tsvPath := filepath.Join(dir, "memory.tsv")
	require.NoError(t, m.ExportTSV(tsvPath))
	tsv, err := os.ReadFile(tsvPath)
	require.NoError(t, err)
	assert.Equal(t, "source_text\ttranslated_text\nLine\\tone\tLigne\\nun\n", string(tsv))

	jsonPath := filepath.Join(dir, "memory.json")
	require.NoError(t, m.ExportJSON(jsonPath))
	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var pairs []Pair
	require.NoError(t, json.Unmarshal(raw, &pairs))
	assert.Equal(t, m.Pairs(), pairs)
}

func TestMemory_Postgres(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	m := New(pool)
	require.NoError(t, m.EnsureSchema(ctx))
	require.NoError(t, m.Set(ctx, "loc-converter test source", "traduction"))

	fresh := New(pool)
	require.NoError(t, fresh.Preload(ctx))
	got, ok := fresh.Get(ctx, "loc-converter test source")
	require.True(t, ok)
	assert.Equal(t, "traduction", got)
}

func TestMemory_ImportJSON(t *testing.T) {
	ctx := context.Background()
	src := New(nil)
	require.NoError(t, src.SetBatch(ctx, []Pair{{"Sword", "Épée"}, {"Shield", "Bouclier"}}))

	path := filepath.Join(t.TempDir(), "memory.json")
	require.NoError(t, src.ExportJSON(path))

	dst := New(nil)
	n, err := dst.ImportJSON(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, src.Pairs(), dst.Pairs())
}
