// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kraklabs/memorygraph/pkg/model"
)

// SQLiteConfig configures the reference embedded-SQL backend (§4.C).
type SQLiteConfig struct {
	// Path is the database file. ":memory:" opens a private in-memory
	// database, used by tests.
	Path string
}

// SQLiteBackend is the reference embedded-SQL backend: the only
// backend guaranteed to exist in every deployment, and the default
// (MEMORY_BACKEND=sqlite).
//
// Structurally this follows the teacher's EmbeddedBackend
// (pkg/storage/embedded.go): a single *sql.DB guarded by a RWMutex so
// reads can run concurrently while writes are exclusive, ctx
// cancellation checked before each operation, and an idempotent schema
// init. The query language underneath is plain SQL instead of Datalog.
type SQLiteBackend struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteBackend opens (creating if necessary) the database at
// cfg.Path and ensures the §4.C schema exists.
func NewSQLiteBackend(cfg SQLiteConfig) (*SQLiteBackend, error) {
	path := cfg.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve default data directory: %w", err)
		}
		path = filepath.Join(home, ".memorygraph", "data", "memory.db")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The embedded backend serializes writes behind its own mutex
	// (§5); a single connection avoids SQLITE_BUSY entirely and keeps
	// cascade deletes and multi-statement mutations within one
	// connection's transaction.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	b := &SQLiteBackend{db: db}
	if err := b.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

const schemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		id         TEXT PRIMARY KEY,
		label      TEXT NOT NULL,
		properties TEXT NOT NULL,
		created_at TIMESTAMP,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS relationships (
		id             TEXT PRIMARY KEY,
		from_id        TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		to_id          TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		rel_type       TEXT NOT NULL,
		properties     TEXT NOT NULL,
		valid_from     TIMESTAMP NOT NULL,
		valid_until    TIMESTAMP,
		recorded_at    TIMESTAMP NOT NULL,
		invalidated_by TEXT REFERENCES relationships(id) ON DELETE SET NULL,
		created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_label ON nodes(label)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_created ON nodes(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_rel_from ON relationships(from_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rel_to ON relationships(to_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rel_type ON relationships(rel_type)`,
	`CREATE INDEX IF NOT EXISTS idx_relationships_temporal ON relationships(valid_from, valid_until)`,
	`CREATE INDEX IF NOT EXISTS idx_relationships_current ON relationships(valid_until) WHERE valid_until IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_relationships_recorded ON relationships(recorded_at)`,
}

// ensureSchema runs every statement individually so a partially
// created database (e.g. from a crashed previous run) still converges;
// each CREATE is already idempotent via IF NOT EXISTS (P10).
func (b *SQLiteBackend) ensureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	var existing string
	err := b.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&existing)
	if err == sql.ErrNoRows {
		_, err = b.db.Exec(`INSERT INTO meta(key, value) VALUES ('schema_version', ?)`, fmt.Sprint(schemaVersion))
	}
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

func iso(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// StoreMemory upserts by id: merge semantics, preserving created_at and
// refreshing updated_at (§4.C).
func (b *SQLiteBackend) StoreMemory(ctx context.Context, m *model.Memory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	props, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}
	_, err = b.db.ExecContext(ctx, `
		INSERT INTO nodes (id, label, properties, created_at, updated_at)
		VALUES (?, 'Memory', ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			properties = excluded.properties,
			updated_at = excluded.updated_at
	`, m.ID, string(props), iso(m.CreatedAt), iso(m.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store memory: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) scanMemory(raw string) (*model.Memory, error) {
	var m model.Memory
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode memory: %w", err)
	}
	return &m, nil
}

// GetMemory returns nil, nil when the id is unknown; relationship
// expansion is facade-owned (§4.D), not this primitive.
func (b *SQLiteBackend) GetMemory(ctx context.Context, id string) (*model.Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	var props string
	err := b.db.QueryRowContext(ctx, `SELECT properties FROM nodes WHERE id = ? AND label = 'Memory'`, id).Scan(&props)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return b.scanMemory(props)
}

func (b *SQLiteBackend) UpdateMemory(ctx context.Context, m *model.Memory) error {
	return b.StoreMemory(ctx, m)
}

// DeleteMemory deletes the node; the ON DELETE CASCADE foreign key on
// relationships.from_id/to_id enforces §3 invariant 7.
func (b *SQLiteBackend) DeleteMemory(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := b.db.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil
	}
	return nil
}

// ListMemories loads every Memory row, applies filter's structural
// predicates in Go (matchesMemoryFilter) and returns rows pre-sorted importance DESC, updated_at DESC, id ASC
// (§4.D.1); text matching is layered on top by the facade.
func (b *SQLiteBackend) ListMemories(ctx context.Context, filter MemoryFilter) ([]*model.Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows, err := b.db.QueryContext(ctx, `SELECT properties FROM nodes WHERE label = 'Memory' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	var out []*model.Memory
	for rows.Next() {
		var props string
		if err := rows.Scan(&props); err != nil {
			return nil, fmt.Errorf("scan memory row: %w", err)
		}
		m, err := b.scanMemory(props)
		if err != nil {
			return nil, err
		}
		if matchesMemoryFilter(m, filter) {
			out = append(out, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortMemoriesDefault(out)
	return out, nil
}

func matchesMemoryFilter(m *model.Memory, f MemoryFilter) bool {
	checks := []bool{}
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if m.Type == t {
				ok = true
				break
			}
		}
		checks = append(checks, ok)
	}
	if len(f.Tags) > 0 {
		tagSet := make(map[string]bool, len(m.Tags))
		for _, t := range m.Tags {
			tagSet[strings.ToLower(t)] = true
		}
		ok := false
		allOK := true
		for _, want := range f.Tags {
			if tagSet[strings.ToLower(want)] {
				ok = true
			} else {
				allOK = false
			}
		}
		if f.MatchMode == model.MatchAll {
			checks = append(checks, allOK)
		} else {
			checks = append(checks, ok)
		}
	}
	if f.MinImportance != nil {
		checks = append(checks, m.Importance >= *f.MinImportance)
	}
	if f.MaxImportance != nil {
		checks = append(checks, m.Importance <= *f.MaxImportance)
	}
	if f.MinConfidence != nil {
		checks = append(checks, m.Confidence >= *f.MinConfidence)
	}
	if f.ProjectPath != "" {
		checks = append(checks, m.Context.ProjectPath == f.ProjectPath)
	}
	if f.DateFrom != nil {
		checks = append(checks, !m.CreatedAt.Before(*f.DateFrom))
	}
	if f.DateTo != nil {
		checks = append(checks, !m.CreatedAt.After(*f.DateTo))
	}

	if len(checks) == 0 {
		return true
	}
	if f.MatchMode == model.MatchAll {
		for _, c := range checks {
			if !c {
				return false
			}
		}
		return true
	}
	for _, c := range checks {
		if c {
			return true
		}
	}
	return false
}

func sortMemoriesDefault(items []*model.Memory) {
	// Insertion sort is adequate: result sets are bounded by the store
	// size, which for this embedded backend is not the large-N regime
	// that would need anything fancier, and it keeps the comparator
	// simple to keep in sync with §4.D.1's three-key tie-break.
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && lessMemoryDefault(items[j], items[j-1]) {
			items[j], items[j-1] = items[j-1], items[j]
			j--
		}
	}
}

func lessMemoryDefault(a, b *model.Memory) bool {
	if a.Importance != b.Importance {
		return a.Importance > b.Importance
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID < b.ID
}

func (b *SQLiteBackend) relationshipProps(r *model.Relationship) (string, error) {
	data, err := json.Marshal(r.Properties)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *SQLiteBackend) CreateRelationship(ctx context.Context, r *model.Relationship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	props, err := b.relationshipProps(r)
	if err != nil {
		return fmt.Errorf("encode relationship properties: %w", err)
	}

	var validUntil, invalidatedBy any
	if r.ValidUntil != nil {
		validUntil = iso(*r.ValidUntil)
	}
	if r.InvalidatedBy != nil {
		invalidatedBy = *r.InvalidatedBy
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO relationships (id, from_id, to_id, rel_type, properties, valid_from, valid_until, recorded_at, invalidated_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.FromMemoryID, r.ToMemoryID, string(r.Type), props, iso(r.ValidFrom), validUntil, iso(r.RecordedAt), invalidatedBy, iso(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("create relationship: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) scanRelationshipRow(row interface {
	Scan(dest ...any) error
}) (*model.Relationship, error) {
	var (
		id, fromID, toID, relType, props, validFrom, recordedAt string
		validUntil, invalidatedBy                                sql.NullString
		createdAt                                                sql.NullString
	)
	if err := row.Scan(&id, &fromID, &toID, &relType, &props, &validFrom, &validUntil, &recordedAt, &invalidatedBy, &createdAt); err != nil {
		return nil, err
	}
	r := &model.Relationship{
		ID: id, FromMemoryID: fromID, ToMemoryID: toID, Type: model.RelationshipType(relType),
	}
	if err := json.Unmarshal([]byte(props), &r.Properties); err != nil {
		return nil, fmt.Errorf("decode relationship properties: %w", err)
	}
	vf, err := parseISO(validFrom)
	if err != nil {
		return nil, err
	}
	r.ValidFrom = vf
	ra, err := parseISO(recordedAt)
	if err != nil {
		return nil, err
	}
	r.RecordedAt = ra
	if validUntil.Valid {
		vu, err := parseISO(validUntil.String)
		if err != nil {
			return nil, err
		}
		r.ValidUntil = &vu
	}
	if invalidatedBy.Valid {
		v := invalidatedBy.String
		r.InvalidatedBy = &v
	}
	if createdAt.Valid {
		if ca, err := parseISO(createdAt.String); err == nil {
			r.CreatedAt = ca
		}
	}
	return r, nil
}

const relationshipColumns = `id, from_id, to_id, rel_type, properties, valid_from, valid_until, recorded_at, invalidated_by, created_at`

func (b *SQLiteBackend) GetRelationship(ctx context.Context, id string) (*model.Relationship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	row := b.db.QueryRowContext(ctx, `SELECT `+relationshipColumns+` FROM relationships WHERE id = ?`, id)
	r, err := b.scanRelationshipRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get relationship: %w", err)
	}
	return r, nil
}

func (b *SQLiteBackend) UpdateRelationship(ctx context.Context, r *model.Relationship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	props, err := b.relationshipProps(r)
	if err != nil {
		return fmt.Errorf("encode relationship properties: %w", err)
	}
	var validUntil, invalidatedBy any
	if r.ValidUntil != nil {
		validUntil = iso(*r.ValidUntil)
	}
	if r.InvalidatedBy != nil {
		invalidatedBy = *r.InvalidatedBy
	}
	_, err = b.db.ExecContext(ctx, `
		UPDATE relationships SET properties = ?, valid_until = ?, invalidated_by = ? WHERE id = ?
	`, props, validUntil, invalidatedBy, r.ID)
	if err != nil {
		return fmt.Errorf("update relationship: %w", err)
	}
	return nil
}

// ListRelationships loads every row matching filter's structural
// predicates, evaluated in Go after a broad SQL fetch scoped by
// whichever endpoint/type predicates are present; graphs held by the
// embedded backend are small enough that this stays well within the
// facade's latency budget while keeping one code path for every filter
// combination.
func (b *SQLiteBackend) ListRelationships(ctx context.Context, filter RelationshipFilter) ([]*model.Relationship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.FromMemoryID != "" {
		where = append(where, "from_id = ?")
		args = append(args, filter.FromMemoryID)
	}
	if filter.ToMemoryID != "" {
		where = append(where, "to_id = ?")
		args = append(args, filter.ToMemoryID)
	}
	if filter.MemoryID != "" {
		where = append(where, "(from_id = ? OR to_id = ?)")
		args = append(args, filter.MemoryID, filter.MemoryID)
	}
	if filter.OnlyCurrent {
		where = append(where, "valid_until IS NULL")
	}

	query := `SELECT ` + relationshipColumns + ` FROM relationships`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY valid_from ASC, id ASC"

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	defer rows.Close()

	var out []*model.Relationship
	for rows.Next() {
		r, err := b.scanRelationshipRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan relationship row: %w", err)
		}
		if !matchesRelationshipFilter(r, filter) {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func matchesRelationshipFilter(r *model.Relationship, f RelationshipFilter) bool {
	if f.FromMemoryID != "" && r.FromMemoryID != f.FromMemoryID {
		return false
	}
	if f.ToMemoryID != "" && r.ToMemoryID != f.ToMemoryID {
		return false
	}
	if f.MemoryID != "" && r.FromMemoryID != f.MemoryID && r.ToMemoryID != f.MemoryID {
		return false
	}
	if f.OnlyCurrent && r.ValidUntil != nil {
		return false
	}
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if r.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.AsOf != nil && !r.VisibleAt(*f.AsOf) {
		return false
	}
	if f.RecordedSince != nil && r.RecordedAt.Before(*f.RecordedSince) {
		return false
	}
	if f.InvalidatedSince != nil {
		if r.ValidUntil == nil || r.ValidUntil.Before(*f.InvalidatedSince) {
			return false
		}
	}
	return true
}

func (b *SQLiteBackend) IsCypherCapable() bool { return false }

func (b *SQLiteBackend) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	var count int
	return b.db.QueryRowContext(ctx, `SELECT count(*) FROM nodes`).Scan(&count)
}

func (b *SQLiteBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}

var _ MemoryOperations = (*SQLiteBackend)(nil)
