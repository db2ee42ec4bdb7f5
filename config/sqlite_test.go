package config_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/loryanstrant/azure-ai-tasks/config"
)

func newTestStore(t *testing.T) *config.SQLiteStore {
	t.Helper()
	store, err := config.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "entries.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := config.NewEntry("Kitchen", config.Settings{
		Endpoint:  "https://res.openai.azure.com",
		APIKey:    "k",
		ChatModel: "gpt-4o",
	})
	entry.Options = config.Settings{ImageModel: "dall-e-3"}

	if err := store.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Title != "Kitchen" || loaded.Version != config.CurrentVersion {
		t.Errorf("loaded entry mismatch: %+v", loaded)
	}
	if loaded.Data.ChatModel != "gpt-4o" || loaded.Options.ImageModel != "dall-e-3" {
		t.Errorf("settings not round-tripped: %+v", loaded)
	}
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := config.NewEntry("A", config.Settings{Endpoint: "https://res", APIKey: "k"})
	if err := store.Save(ctx, entry); err != nil {
		t.Fatal(err)
	}

	entry.Options = config.Settings{ChatModel: "gpt-4-turbo"}
	if err := store.Save(ctx, entry); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Options.ChatModel != "gpt-4-turbo" {
		t.Errorf("overwrite not applied: %+v", loaded)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "no-such-id")
	if !errors.Is(err, config.ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := config.NewEntry("A", config.Settings{Endpoint: "https://res", APIKey: "k"})
	if err := store.Save(ctx, entry); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, entry.ID); !errors.Is(err, config.ErrEntryNotFound) {
		t.Errorf("entry still present after delete: %v", err)
	}

	// Deleting a missing ID is not an error.
	if err := store.Delete(ctx, "no-such-id"); err != nil {
		t.Errorf("Delete of missing ID failed: %v", err)
	}
}

func TestSQLiteStore_ListSorted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, title := range []string{"C", "A", "B"} {
		if err := store.Save(ctx, config.NewEntry(title, config.Settings{Endpoint: "https://res", APIKey: "k"})); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].ID > entries[i].ID {
			t.Error("entries not sorted by ID")
		}
	}
}
