// Package filterdb persists inbox filters per project in SQLite.
//
// A dimension with no row is absent. A row holding "[]" is present with zero
// values. The two are kept apart so query strings and badges built from a
// reopened store match the ones built before it was closed.
package filterdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Dicklesworthstone/beads_inbox/pkg/filter"
)

// DefaultPath is the database location relative to the repository root
const DefaultPath = ".bv/inbox.db"

// DB is a filter.Store that writes every commit through to SQLite.
// Reads are served from memory.
type DB struct {
	db      *sql.DB
	project string
	mem     *filter.MemoryStore
	logger  *slog.Logger
}

// Open opens or creates the filter database and loads the filters saved
// for project.
func Open(dbPath, project string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	fdb := &DB{
		db:      db,
		project: project,
		mem:     filter.NewMemoryStore(),
		logger:  slog.Default().With(slog.String("component", "filterdb")),
	}
	if err := fdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if err := fdb.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load filters: %w", err)
	}

	return fdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inbox_filters (
		project TEXT NOT NULL,
		filter_key TEXT NOT NULL,
		value_json TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (project, filter_key)
	);
	`
	_, err := d.db.Exec(schema)
	return err
}

func (d *DB) load() error {
	rows, err := d.db.Query(`
		SELECT filter_key, value_json
		FROM inbox_filters
		WHERE project = ?
	`, d.project)
	if err != nil {
		return err
	}
	defer rows.Close()

	values := make(map[filter.Key]filter.Selection)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return err
		}
		var sel filter.Selection
		if err := json.Unmarshal([]byte(raw), &sel); err != nil {
			return fmt.Errorf("decode %s filter: %w", key, err)
		}
		values[filter.Key(key)] = sel
	}
	if err := rows.Err(); err != nil {
		return err
	}

	d.mem.Load(values)
	return nil
}

// Selection returns the current selection for key
func (d *DB) Selection(key filter.Key) (filter.Selection, bool) {
	return d.mem.Selection(key)
}

// SetSelection commits through to SQLite. Persistence failures are logged;
// the in-memory value still applies for the rest of the session.
func (d *DB) SetSelection(key filter.Key, sel filter.Selection, present bool) {
	if err := d.Commit(key, sel, present); err != nil {
		d.logger.Error("persist filter",
			slog.String("key", string(key)),
			slog.String("error", err.Error()),
		)
	}
}

// Commit is SetSelection with the persistence error returned
func (d *DB) Commit(key filter.Key, sel filter.Selection, present bool) error {
	d.mem.SetSelection(key, sel, present)

	if !present {
		_, err := d.db.Exec(`
			DELETE FROM inbox_filters WHERE project = ? AND filter_key = ?
		`, d.project, string(key))
		return err
	}

	if sel == nil {
		sel = filter.Selection{}
	}
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encode %s filter: %w", key, err)
	}
	_, err = d.db.Exec(`
		INSERT INTO inbox_filters (project, filter_key, value_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project, filter_key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at
	`, d.project, string(key), string(raw), time.Now())
	return err
}

// Version increases on every commit
func (d *DB) Version() uint64 {
	return d.mem.Version()
}

// Snapshot returns a copy of all present dimensions
func (d *DB) Snapshot() map[filter.Key]filter.Selection {
	return d.mem.Snapshot()
}

// Project returns the project key filters are stored under
func (d *DB) Project() string {
	return d.project
}
