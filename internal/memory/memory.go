// Package memory is a translation memory: source text mapped to a previously
// approved translation. Entries live in process and, when a database is
// configured, in a PostgreSQL table that is preloaded on start.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"loc-converter/internal/locdb"
	"loc-converter/internal/textutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DB is the subset of *pgxpool.Pool the memory uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Pair is one remembered translation.
type Pair struct {
	Source     string `json:"source_text"`
	Translated string `json:"translated_text"`
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS translation_memory (
	hash        TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	translated  TEXT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertSQL = `
INSERT INTO translation_memory (hash, source, translated)
VALUES ($1, $2, $3)
ON CONFLICT (hash) DO UPDATE
SET translated = EXCLUDED.translated, updated_at = now()`

// Memory provides in-memory + PostgreSQL-backed translation lookups.
type Memory struct {
	db      DB // nil for process-local memory
	mu      sync.RWMutex
	entries map[string]Pair // hash → pair
}

// New creates a memory. db may be nil.
func New(db DB) *Memory {
	return &Memory{
		db:      db,
		entries: make(map[string]Pair),
	}
}

// Connect opens and pings a pool for databaseURL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

// EnsureSchema creates the backing table.
func (m *Memory) EnsureSchema(ctx context.Context) error {
	if m.db == nil {
		return nil
	}
	if _, err := m.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create translation_memory: %w", err)
	}
	return nil
}

// Preload loads every stored pair into process memory.
func (m *Memory) Preload(ctx context.Context) error {
	if m.db == nil {
		return nil
	}

	rows, err := m.db.Query(ctx, `SELECT hash, source, translated FROM translation_memory`)
	if err != nil {
		return fmt.Errorf("preload memory: %w", err)
	}
	defer rows.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for rows.Next() {
		var hash string
		var p Pair
		if err := rows.Scan(&hash, &p.Source, &p.Translated); err != nil {
			return fmt.Errorf("scan memory row: %w", err)
		}
		m.entries[hash] = p
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload memory: %w", err)
	}

	log.Info().Int("count", n).Msg("Preloaded translation memory")
	return nil
}

// Get returns the remembered translation of source.
func (m *Memory) Get(ctx context.Context, source string) (string, bool) {
	hash := textutil.Hash(source)

	m.mu.RLock()
	if p, ok := m.entries[hash]; ok {
		m.mu.RUnlock()
		return p.Translated, true
	}
	m.mu.RUnlock()

	if m.db == nil {
		return "", false
	}

	var translated string
	err := m.db.QueryRow(ctx, `SELECT translated FROM translation_memory WHERE hash = $1`, hash).Scan(&translated)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Err(err).Str("text", textutil.Truncate(source, 30)).Msg("Memory lookup failed")
		}
		return "", false
	}

	m.mu.Lock()
	m.entries[hash] = Pair{Source: source, Translated: translated}
	m.mu.Unlock()

	return translated, true
}

// Set stores a single pair.
func (m *Memory) Set(ctx context.Context, source, translated string) error {
	return m.SetBatch(ctx, []Pair{{Source: source, Translated: translated}})
}

// SetBatch stores pairs, sending all upserts in one round trip.
func (m *Memory) SetBatch(ctx context.Context, pairs []Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	m.mu.Lock()
	for _, p := range pairs {
		m.entries[textutil.Hash(p.Source)] = p
	}
	m.mu.Unlock()

	if m.db == nil {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range pairs {
		batch.Queue(upsertSQL, textutil.Hash(p.Source), p.Source, p.Translated)
	}

	br := m.db.SendBatch(ctx, batch)
	for range pairs {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("upsert memory entry: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("upsert memory batch: %w", err)
	}
	return nil
}

// Len returns the number of pairs held in process.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Pairs returns all pairs held in process, sorted by source text.
func (m *Memory) Pairs() []Pair {
	m.mu.RLock()
	pairs := make([]Pair, 0, len(m.entries))
	for _, p := range m.entries {
		pairs = append(pairs, p)
	}
	m.mu.RUnlock()

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Source < pairs[j].Source })
	return pairs
}

// Learn pairs rows of two tables by id. A pair is produced for every id in
// source whose text is non-empty on both sides and differs.
func Learn(source, translated *locdb.StringTable) []Pair {
	var pairs []Pair
	seen := make(map[int32]bool, source.Len())
	for _, id := range source.OrderedIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		src := source.Strings[id]
		dst, ok := translated.Text(id)
		if !ok || src == "" || dst == "" || src == dst {
			continue
		}
		pairs = append(pairs, Pair{Source: src, Translated: dst})
	}
	return pairs
}

// Suggest builds an edit set for table from remembered translations.
func (m *Memory) Suggest(ctx context.Context, table *locdb.StringTable) map[int32]string {
	edits := make(map[int32]string)
	for _, id := range table.OrderedIDs {
		text := table.Strings[id]
		if text == "" {
			continue
		}
		if translated, ok := m.Get(ctx, text); ok && translated != text {
			edits[id] = translated
		}
	}
	return edits
}
