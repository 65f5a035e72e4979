// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

// DBFile is the collection database created under LibraryConfig.DataDir.
const DBFile = "library.db"

// Store persists library entries. Implementations keep entries in the order
// they were first inserted.
type Store interface {
	List(ctx context.Context) ([]types.LibraryEntry, error)
	Get(ctx context.Context, movieID int) (types.LibraryEntry, bool, error)
	Upsert(ctx context.Context, e types.LibraryEntry) error
	Remove(ctx context.Context, movieID int) error
}

// SQLiteStore keeps each entry as a JSON document keyed by movie id.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates dataDir/library.db and its schema.
func OpenSQLite(cfg types.LibraryConfig) (*SQLiteStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, DBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			movie_id INTEGER NOT NULL UNIQUE,
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// List returns every entry in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]types.LibraryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []types.LibraryEntry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		var e types.LibraryEntry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("decoding entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry for movieID.
func (s *SQLiteStore) Get(ctx context.Context, movieID int) (types.LibraryEntry, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM entries WHERE movie_id = ?`, movieID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return types.LibraryEntry{}, false, nil
	}
	if err != nil {
		return types.LibraryEntry{}, false, fmt.Errorf("reading entry %d: %w", movieID, err)
	}
	var e types.LibraryEntry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return types.LibraryEntry{}, false, fmt.Errorf("decoding entry %d: %w", movieID, err)
	}
	return e, true, nil
}

// Upsert inserts e or replaces the stored entry with the same movie id. A
// replaced entry keeps its position.
func (s *SQLiteStore) Upsert(ctx context.Context, e types.LibraryEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding entry %d: %w", e.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (movie_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(movie_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		e.ID, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving entry %d: %w", e.ID, err)
	}
	return nil
}

// Remove deletes the entry for movieID. Removing a missing entry is not an
// error.
func (s *SQLiteStore) Remove(ctx context.Context, movieID int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE movie_id = ?`, movieID); err != nil {
		return fmt.Errorf("removing entry %d: %w", movieID, err)
	}
	return nil
}
