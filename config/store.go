package config

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrLoadFailed    = errors.New("load failed")
	ErrSaveFailed    = errors.New("save failed")
)

// Store persists configuration entries. Implementations are stateless and
// perform I/O on each call without caching.
type Store interface {
	// List returns all stored entries.
	List(ctx context.Context) ([]Entry, error)
	// Load retrieves one entry by ID.
	Load(ctx context.Context, id string) (*Entry, error)
	// Save persists an entry, creating or overwriting as needed.
	Save(ctx context.Context, entry Entry) error
	// Delete removes an entry. Missing IDs are ignored.
	Delete(ctx context.Context, id string) error
}
