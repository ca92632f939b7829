package locdb

// StringTable is the decoded content of a localization file.
type StringTable struct {
	// Strings maps row id to text. Every id in OrderedIDs has an entry.
	Strings map[int32]string
	// OrderedIDs lists ids in index-table order.
	OrderedIDs []int32
	// OrderIndexes holds the second field of each index entry, parallel to
	// OrderedIDs. The writer never re-emits it; the index table is part of
	// the verbatim prefix.
	OrderIndexes []int32
}

// Entry is a single row in file order.
type Entry struct {
	ID   int32
	Text string
}

func newStringTable(n int) *StringTable {
	return &StringTable{
		Strings:      make(map[int32]string, n),
		OrderedIDs:   make([]int32, 0, n),
		OrderIndexes: make([]int32, 0, n),
	}
}

// Len returns the number of rows, counting duplicate ids separately.
func (t *StringTable) Len() int { return len(t.OrderedIDs) }

// Text returns the text stored for id.
func (t *StringTable) Text(id int32) (string, bool) {
	s, ok := t.Strings[id]
	return s, ok
}

// Entries returns the rows in file order.
func (t *StringTable) Entries() []Entry {
	entries := make([]Entry, 0, len(t.OrderedIDs))
	for _, id := range t.OrderedIDs {
		entries = append(entries, Entry{ID: id, Text: t.Strings[id]})
	}
	return entries
}

// Clone returns a deep copy.
func (t *StringTable) Clone() *StringTable {
	c := &StringTable{
		Strings:      make(map[int32]string, len(t.Strings)),
		OrderedIDs:   append([]int32(nil), t.OrderedIDs...),
		OrderIndexes: append([]int32(nil), t.OrderIndexes...),
	}
	for id, s := range t.Strings {
		c.Strings[id] = s
	}
	return c
}

// Apply returns a copy with edits applied. Ids absent from t are ignored.
func (t *StringTable) Apply(edits map[int32]string) *StringTable {
	c := t.Clone()
	for id, text := range edits {
		if _, ok := c.Strings[id]; ok {
			c.Strings[id] = text
		}
	}
	return c
}
