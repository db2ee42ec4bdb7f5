package config

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tailscale/squibble"
	_ "modernc.org/sqlite"
)

//go:embed db/schema.sql
var dbSchema string

var schema = &squibble.Schema{
	Current: dbSchema,
}

// SQLiteStore is a Store backed by a SQLite database. The schema is managed
// by squibble against the embedded schema file.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the entry database at fname
// and validates its schema.
func NewSQLiteStore(ctx context.Context, fname string) (*SQLiteStore, error) {
	// Open the DB but flip on the cleaner timestamps from Go
	sqldb, err := sql.Open("sqlite", fname+"?_time_format=sqlite")
	if err != nil {
		return nil, err
	}
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := schema.Apply(ctx, sqldb); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: sqldb}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, version, data, options FROM entries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	return entries, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, version, data, options FROM entries WHERE id = $1", id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return entry, err
}

func (s *SQLiteStore) Save(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	options, err := json.Marshal(entry.Options)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (id, title, version, data, options, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   title = excluded.title,
		   version = excluded.version,
		   data = excluded.data,
		   options = excluded.options,
		   updated_at = excluded.updated_at`,
		entry.ID, entry.Title, entry.Version, string(data), string(options), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, entry.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete failed: %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entry Entry
	var data, options string

	if err := row.Scan(&entry.ID, &entry.Title, &entry.Version, &data, &options); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	if err := json.Unmarshal([]byte(data), &entry.Data); err != nil {
		return nil, fmt.Errorf("%w: corrupt data column: %v", ErrLoadFailed, err)
	}
	if err := json.Unmarshal([]byte(options), &entry.Options); err != nil {
		return nil, fmt.Errorf("%w: corrupt options column: %v", ErrLoadFailed, err)
	}

	return &entry, nil
}
