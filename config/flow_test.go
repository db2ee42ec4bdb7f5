package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/loryanstrant/azure-ai-tasks/config"
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

type fakeValidator struct {
	err    error
	called bool
}

func (f *fakeValidator) Validate(context.Context) error {
	f.called = true
	return f.err
}

func newTestFlow(store config.Store, v *fakeValidator) *config.Flow {
	return config.NewFlow(store, config.WithValidatorFactory(
		func(endpoint, apiKey string) config.CredentialValidator { return v },
	))
}

func TestCreateEntry_Success(t *testing.T) {
	store := newMemStore()
	validator := &fakeValidator{}
	flow := newTestFlow(store, validator)

	entry, err := flow.CreateEntry(context.Background(), config.Settings{
		Name:      "Kitchen",
		Endpoint:  "https://res",
		APIKey:    "k",
		ChatModel: "gpt-4o",
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	if !validator.called {
		t.Error("credentials were not validated")
	}
	if _, ok := store.entries[entry.ID]; !ok {
		t.Error("entry was not persisted")
	}
	if entry.Title != "Kitchen" {
		t.Errorf("title = %q", entry.Title)
	}
}

func TestCreateEntry_InputValidation(t *testing.T) {
	flow := newTestFlow(newMemStore(), &fakeValidator{})

	tests := []struct {
		name    string
		input   config.Settings
		wantErr error
	}{
		{"missing endpoint", config.Settings{APIKey: "k"}, config.ErrMissingEndpoint},
		{"missing api key", config.Settings{Endpoint: "https://res"}, config.ErrMissingAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := flow.CreateEntry(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateEntry_BadCredentials(t *testing.T) {
	store := newMemStore()
	flow := newTestFlow(store, &fakeValidator{err: errors.New("invalid API key")})

	_, err := flow.CreateEntry(context.Background(), config.Settings{
		Endpoint: "https://res",
		APIKey:   "bad",
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(store.entries) != 0 {
		t.Error("entry persisted despite failed validation")
	}
}

func TestUpdateOptions(t *testing.T) {
	store := newMemStore()
	flow := newTestFlow(store, &fakeValidator{})

	entry, err := flow.CreateEntry(context.Background(), config.Settings{
		Endpoint: "https://res", APIKey: "k", ChatModel: "gpt-4o",
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := flow.UpdateOptions(context.Background(), entry.ID, config.Settings{ChatModel: "gpt-4-turbo"})
	if err != nil {
		t.Fatalf("UpdateOptions failed: %v", err)
	}
	if updated.ChatModel() != "gpt-4-turbo" {
		t.Errorf("effective chat model = %q", updated.ChatModel())
	}

	persisted := store.entries[entry.ID]
	if persisted.Options.ChatModel != "gpt-4-turbo" {
		t.Error("options not persisted")
	}
}

func TestUpdateOptions_MissingEntry(t *testing.T) {
	flow := newTestFlow(newMemStore(), &fakeValidator{})

	if _, err := flow.UpdateOptions(context.Background(), "nope", config.Settings{}); !errors.Is(err, config.ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
}
