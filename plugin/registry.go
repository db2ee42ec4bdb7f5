// Package plugin owns the integration lifecycle: setting up an entity per
// configuration entry, tearing it down on unload, and reloading it when the
// entry's options change. The registry is an explicit entry-ID→entity map
// held by this package and passed by reference to whoever needs lookups;
// there is no global state.
package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/loryanstrant/azure-ai-tasks/config"
	"github.com/loryanstrant/azure-ai-tasks/entity"
	"github.com/loryanstrant/azure-ai-tasks/observability"
)

// Lifecycle event types.
const (
	EventEntrySetup    observability.EventType = "lifecycle.entry.setup"
	EventEntryUnloaded observability.EventType = "lifecycle.entry.unloaded"
	EventEntryReloaded observability.EventType = "lifecycle.entry.reloaded"
	EventEntryMigrated observability.EventType = "lifecycle.entry.migrated"
)

// EntryInfo describes a set-up entry and its entity's capabilities.
type EntryInfo struct {
	ID       string
	Title    string
	Features entity.Feature
}

// Registry manages the entities created from configuration entries, keyed by
// entry ID. Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]config.Entry
	entities map[string]*entity.Entity

	store      config.Store
	observer   observability.Observer
	entityOpts []entity.Option
}

// Option configures a Registry.
type Option func(*Registry)

// WithStore lets the registry persist entries it migrates during setup.
func WithStore(s config.Store) Option {
	return func(r *Registry) { r.store = s }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// WithEntityOptions passes extra options to every entity the registry
// constructs. Used by tests to inject fake collaborators.
func WithEntityOptions(opts ...entity.Option) Option {
	return func(r *Registry) { r.entityOpts = opts }
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries:  make(map[string]config.Entry),
		entities: make(map[string]*entity.Entity),
		observer: observability.NewSlogObserver(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetupEntry builds an entity from a configuration entry and registers it.
// Entries below the current version are migrated first (and persisted when a
// store is configured). Fails if the entry is already set up or no model is
// configured.
func (r *Registry) SetupEntry(ctx context.Context, entry config.Entry) (*entity.Entity, error) {
	if entry.ID == "" {
		return nil, ErrEmptyEntryID
	}

	if config.Migrate(&entry) {
		r.observer.OnEvent(ctx, observability.Event{
			Type:      EventEntryMigrated,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "plugin.Registry",
			Data:      map[string]any{"entry_id": entry.ID, "version": entry.Version},
		})
		if r.store != nil {
			if err := r.store.Save(ctx, entry); err != nil {
				return nil, fmt.Errorf("failed to persist migrated entry %s: %w", entry.ID, err)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[entry.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrEntryExists, entry.ID)
	}

	ent, err := r.buildEntity(entry)
	if err != nil {
		return nil, err
	}

	r.entries[entry.ID] = entry
	r.entities[entry.ID] = ent

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventEntrySetup,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "plugin.Registry",
		Data: map[string]any{
			"entry_id":    entry.ID,
			"chat_model":  entry.ChatModel(),
			"image_model": entry.ImageModel(),
			"features":    ent.Features().String(),
		},
	})
	return ent, nil
}

// UnloadEntry removes an entry's entity from the registry.
func (r *Registry) UnloadEntry(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[id]; !exists {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}

	delete(r.entries, id)
	delete(r.entities, id)

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventEntryUnloaded,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "plugin.Registry",
		Data:      map[string]any{"entry_id": id},
	})
	return nil
}

// UpdateOptions reloads an entry after its options changed: the old entity
// is discarded and a fresh one is built from the updated entry.
func (r *Registry) UpdateOptions(ctx context.Context, entry config.Entry) (*entity.Entity, error) {
	if entry.ID == "" {
		return nil, ErrEmptyEntryID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[entry.ID]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entry.ID)
	}

	ent, err := r.buildEntity(entry)
	if err != nil {
		return nil, err
	}

	r.entries[entry.ID] = entry
	r.entities[entry.ID] = ent

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventEntryReloaded,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "plugin.Registry",
		Data: map[string]any{
			"entry_id":    entry.ID,
			"chat_model":  entry.ChatModel(),
			"image_model": entry.ImageModel(),
		},
	})
	return ent, nil
}

// Get retrieves the entity for a set-up entry.
func (r *Registry) Get(id string) (*entity.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ent, exists := r.entities[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return ent, nil
}

// List returns information about all set-up entries, sorted by ID.
func (r *Registry) List() []EntryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]EntryInfo, 0, len(r.entries))
	for id, entry := range r.entries {
		infos = append(infos, EntryInfo{
			ID:       id,
			Title:    entry.Title,
			Features: r.entities[id].Features(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})

	return infos
}

// buildEntity constructs an entity from an entry's effective settings.
// Callers hold r.mu.
func (r *Registry) buildEntity(entry config.Entry) (*entity.Entity, error) {
	opts := append([]entity.Option{
		entity.WithUniqueID("azure_ai_tasks_" + entry.ID),
		entity.WithObserver(r.observer),
	}, r.entityOpts...)

	return entity.New(
		entry.Title,
		entry.Endpoint(),
		entry.APIKey(),
		entry.ChatModel(),
		entry.ImageModel(),
		opts...,
	)
}
