package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 10

// timeLayout has fixed width so opened_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// UIPreferences are the persisted TUI toggles.
type UIPreferences struct {
	ShowNumbers bool
	MatchDomain bool
	SortKey     string
	SortDesc    bool
}

// RecentFile records a tab file that was loaded or saved.
type RecentFile struct {
	Path          string
	Entries       int
	LastVersioned string
	OpenedAt      time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS app_preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS recent_files (
  path TEXT PRIMARY KEY,
  entries INTEGER NOT NULL,
  last_versioned TEXT NOT NULL DEFAULT '',
  opened_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable fails when the database file cannot be written.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO app_preferences (key, value) VALUES ('write_check', ?)`, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM app_preferences WHERE key = 'write_check'`); err != nil {
		return fmt.Errorf("write check cleanup: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) LoadUIPreferences(ctx context.Context) (UIPreferences, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM app_preferences`)
	if err != nil {
		return UIPreferences{}, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	var prefs UIPreferences
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return UIPreferences{}, fmt.Errorf("scan preference: %w", err)
		}
		switch key {
		case "show_numbers":
			prefs.ShowNumbers = value == "1"
		case "match_domain":
			prefs.MatchDomain = value == "1"
		case "sort_key":
			prefs.SortKey = value
		case "sort_desc":
			prefs.SortDesc = value == "1"
		}
	}
	if err := rows.Err(); err != nil {
		return UIPreferences{}, fmt.Errorf("rows iteration: %w", err)
	}
	return prefs, nil
}

func (r *Repository) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO app_preferences (key, value)
VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`)
	if err != nil {
		return fmt.Errorf("prepare preference statement: %w", err)
	}
	defer stmt.Close()

	values := map[string]string{
		"show_numbers": boolValue(prefs.ShowNumbers),
		"match_domain": boolValue(prefs.MatchDomain),
		"sort_key":     prefs.SortKey,
		"sort_desc":    boolValue(prefs.SortDesc),
	}
	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, key, value); err != nil {
			return fmt.Errorf("save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RecordRecentFile upserts path. An empty lastVersioned keeps the value
// already stored.
func (r *Repository) RecordRecentFile(ctx context.Context, path string, entries int, lastVersioned string) error {
	if path == "" {
		return errors.New("recent file path is required")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO recent_files (path, entries, last_versioned, opened_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  entries=excluded.entries,
  last_versioned=CASE WHEN excluded.last_versioned = '' THEN recent_files.last_versioned ELSE excluded.last_versioned END,
  opened_at=excluded.opened_at
`, path, entries, lastVersioned, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("record recent file %s: %w", path, err)
	}
	return nil
}

func (r *Repository) ListRecentFiles(ctx context.Context, limit int) ([]RecentFile, error) {
	if limit < 1 {
		limit = defaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT path, entries, last_versioned, opened_at
FROM recent_files
ORDER BY opened_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent files: %w", err)
	}
	defer rows.Close()

	files := make([]RecentFile, 0, limit)
	for rows.Next() {
		var file RecentFile
		var openedAt string
		if err := rows.Scan(&file.Path, &file.Entries, &file.LastVersioned, &openedAt); err != nil {
			return nil, fmt.Errorf("scan recent file: %w", err)
		}
		file.OpenedAt, err = time.Parse(timeLayout, openedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recent file opened_at %q: %w", openedAt, err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return files, nil
}

func boolValue(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
