// Package cache persists OCR results keyed by document content hash, so
// reprocessing a corpus never re-submits bytes the backend has already
// analyzed. Renamed or moved files hit the cache because the key is the
// content, not the path.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arielw/tablemend/internal/common"
)

// Entry is one cached analysis outcome.
type Entry struct {
	Hash      string
	Backend   string
	Payload   []byte // JSON-encoded raw tables; may be empty for no-table results
	Text      string
	Status    string // constants.DocStatus value at completion time
	CreatedAt time.Time
}

// Store is a sqlite-backed content-hash cache. Safe for concurrent use;
// database/sql serializes access to the single connection sqlite allows
// for writes.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS ocr_results (
	hash       TEXT PRIMARY KEY,
	backend    TEXT NOT NULL,
	payload    BLOB,
	text       TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Open opens or creates the cache database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "opening cache database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, common.WrapError(err, "initializing cache schema")
	}
	return &Store{db: db, logger: logger}, nil
}

// Get returns the cached entry for a content hash, or nil on a miss.
func (s *Store) Get(ctx context.Context, hash string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT hash, backend, payload, text, status, created_at FROM ocr_results WHERE hash = ?`, hash)
	var e Entry
	if err := row.Scan(&e.Hash, &e.Backend, &e.Payload, &e.Text, &e.Status, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, common.WrapError(err, "reading cache entry")
	}
	return &e, nil
}

// Put stores or replaces the entry for a content hash.
func (s *Store) Put(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ocr_results (hash, backend, payload, text, status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET
		   backend = excluded.backend,
		   payload = excluded.payload,
		   text    = excluded.text,
		   status  = excluded.status`,
		e.Hash, e.Backend, e.Payload, e.Text, e.Status)
	if err != nil {
		return common.WrapError(err, "writing cache entry")
	}
	return nil
}

// Len reports how many results are cached.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ocr_results`).Scan(&n); err != nil {
		return 0, common.WrapError(err, "counting cache entries")
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
