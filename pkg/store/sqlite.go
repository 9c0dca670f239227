package store

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tableflip.dev/focus/pkg/document"
)

const sqliteFile = "focus.db"

// SQLite keeps each document section as one row of a single table. A save
// replaces every section inside one transaction, so readers see either the
// old document or the new one.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, &PersistenceError{Op: "open", Err: errors.New("db path is empty")}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, path: dbPath}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "migrate", Err: err}
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sections (
	name TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load reads every stored section.
func (s *SQLite) Load(ctx context.Context) (document.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, body FROM sections;`)
	if err != nil {
		return document.Document{}, &PersistenceError{Op: "read", Err: err}
	}
	defer rows.Close()

	raw := make(map[string][]byte)
	for rows.Next() {
		var name string
		var body []byte
		if err := rows.Scan(&name, &body); err != nil {
			return document.Document{}, &PersistenceError{Op: "read", Err: err}
		}
		raw[name] = body
	}
	if err := rows.Err(); err != nil {
		return document.Document{}, &PersistenceError{Op: "read", Err: err}
	}
	return decode(raw)
}

// Save upserts every section in one transaction.
func (s *SQLite) Save(ctx context.Context, doc document.Document) error {
	encoded, err := encode(doc)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO sections (name, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
WHERE sections.body != excluded.body;`)
	if err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, name := range Sections() {
		if _, err := stmt.ExecContext(ctx, name, encoded[name], now); err != nil {
			return &PersistenceError{Op: "write", Section: name, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

// Watch reports any change to the database file (or its journal) as an
// invalidation; sqlite gives no cheaper way to tell which row changed.
func (s *SQLite) Watch(ctx context.Context) (<-chan Event, error) {
	name := filepath.Base(s.path)
	return watchTree(ctx, filepath.Dir(s.path), func(path string) (string, bool) {
		return "", strings.HasPrefix(filepath.Base(path), name)
	})
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
