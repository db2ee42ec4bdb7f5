package plugin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/loryanstrant/azure-ai-tasks/config"
	"github.com/loryanstrant/azure-ai-tasks/core/azure"
	"github.com/loryanstrant/azure-ai-tasks/entity"
	"github.com/loryanstrant/azure-ai-tasks/observability"
	"github.com/loryanstrant/azure-ai-tasks/plugin"
)

type memStore struct {
	entries map[string]config.Entry
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]config.Entry)}
}

func (s *memStore) List(context.Context) ([]config.Entry, error) {
	var out []config.Entry
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

func (s *memStore) Load(_ context.Context, id string) (*config.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, config.ErrEntryNotFound
	}
	return &e, nil
}

func (s *memStore) Save(_ context.Context, entry config.Entry) error {
	s.entries[entry.ID] = entry
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	delete(s.entries, id)
	return nil
}

func newTestRegistry(store config.Store) *plugin.Registry {
	opts := []plugin.Option{plugin.WithObserver(observability.NoOpObserver{})}
	if store != nil {
		opts = append(opts, plugin.WithStore(store))
	}
	return plugin.NewRegistry(opts...)
}

func testEntry(chatModel, imageModel string) config.Entry {
	return config.NewEntry("Kitchen", config.Settings{
		Endpoint:   "https://res.openai.azure.com",
		APIKey:     "k",
		ChatModel:  chatModel,
		ImageModel: imageModel,
	})
}

func TestSetupEntry(t *testing.T) {
	reg := newTestRegistry(nil)
	entry := testEntry("gpt-4o", "dall-e-3")

	ent, err := reg.SetupEntry(context.Background(), entry)
	if err != nil {
		t.Fatalf("SetupEntry failed: %v", err)
	}
	if !ent.Features().Has(entity.FeatureGenerateData | entity.FeatureGenerateImage) {
		t.Errorf("features = %v", ent.Features())
	}

	got, err := reg.Get(entry.ID)
	if err != nil || got != ent {
		t.Errorf("Get returned %v, %v", got, err)
	}
}

func TestSetupEntry_Duplicate(t *testing.T) {
	reg := newTestRegistry(nil)
	entry := testEntry("gpt-4o", "")

	if _, err := reg.SetupEntry(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.SetupEntry(context.Background(), entry); !errors.Is(err, plugin.ErrEntryExists) {
		t.Errorf("err = %v, want ErrEntryExists", err)
	}
}

func TestSetupEntry_EmptyID(t *testing.T) {
	reg := newTestRegistry(nil)

	if _, err := reg.SetupEntry(context.Background(), config.Entry{}); !errors.Is(err, plugin.ErrEmptyEntryID) {
		t.Errorf("err = %v, want ErrEmptyEntryID", err)
	}
}

func TestSetupEntry_NoModels(t *testing.T) {
	reg := newTestRegistry(nil)

	if _, err := reg.SetupEntry(context.Background(), testEntry("", "")); !errors.Is(err, azure.ErrNoModelConfigured) {
		t.Errorf("err = %v, want ErrNoModelConfigured", err)
	}
}

func TestSetupEntry_MigratesAndPersists(t *testing.T) {
	store := newMemStore()
	reg := newTestRegistry(store)

	entry := testEntry("gpt-35-turbo", "dall-e-3")
	entry.Version = 1

	ent, err := reg.SetupEntry(context.Background(), entry)
	if err != nil {
		t.Fatalf("SetupEntry failed: %v", err)
	}

	// The deprecated chat model is cleared, leaving an image-only entity.
	if ent.Features().Has(entity.FeatureGenerateData) {
		t.Error("deprecated chat model survived migration")
	}

	persisted, ok := store.entries[entry.ID]
	if !ok {
		t.Fatal("migrated entry not persisted")
	}
	if persisted.Version != config.CurrentVersion || persisted.Data.ChatModel != "" {
		t.Errorf("persisted entry not migrated: %+v", persisted)
	}
}

func TestUnloadEntry(t *testing.T) {
	reg := newTestRegistry(nil)
	entry := testEntry("gpt-4o", "")

	if _, err := reg.SetupEntry(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	if err := reg.UnloadEntry(context.Background(), entry.ID); err != nil {
		t.Fatalf("UnloadEntry failed: %v", err)
	}
	if _, err := reg.Get(entry.ID); !errors.Is(err, plugin.ErrEntryNotFound) {
		t.Errorf("entity still registered after unload: %v", err)
	}
	if err := reg.UnloadEntry(context.Background(), entry.ID); !errors.Is(err, plugin.ErrEntryNotFound) {
		t.Errorf("second unload err = %v, want ErrEntryNotFound", err)
	}
}

func TestUpdateOptions_ReloadsEntity(t *testing.T) {
	reg := newTestRegistry(nil)
	entry := testEntry("gpt-4o", "")

	old, err := reg.SetupEntry(context.Background(), entry)
	if err != nil {
		t.Fatal(err)
	}

	entry.Options = config.Settings{ImageModel: "dall-e-3"}
	fresh, err := reg.UpdateOptions(context.Background(), entry)
	if err != nil {
		t.Fatalf("UpdateOptions failed: %v", err)
	}

	if fresh == old {
		t.Error("reload must build a fresh entity")
	}
	if !fresh.Features().Has(entity.FeatureGenerateImage) {
		t.Error("new options not reflected in the reloaded entity")
	}

	got, _ := reg.Get(entry.ID)
	if got != fresh {
		t.Error("registry still returns the old entity")
	}
}

func TestUpdateOptions_UnknownEntry(t *testing.T) {
	reg := newTestRegistry(nil)

	if _, err := reg.UpdateOptions(context.Background(), testEntry("gpt-4o", "")); !errors.Is(err, plugin.ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
}

func TestList(t *testing.T) {
	reg := newTestRegistry(nil)

	a := testEntry("gpt-4o", "")
	b := testEntry("", "dall-e-3")
	for _, e := range []config.Entry{a, b} {
		if _, err := reg.SetupEntry(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}

	infos := reg.List()
	if len(infos) != 2 {
		t.Fatalf("got %d infos, want 2", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].ID > infos[i].ID {
			t.Error("infos not sorted by ID")
		}
	}
}
