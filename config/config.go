// Package config manages configuration entries for the integration: the
// per-entry endpoint/key/model settings with their options overlay, entry
// versioning and migration, a persistent entry store, and the credential
// validation flow that gates entry creation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// CurrentVersion is the entry schema version written by this release.
// Version 1 entries are migrated on load.
const CurrentVersion = 2

// DefaultTitle names entries created without an explicit name.
const DefaultTitle = "Azure AI Tasks"

// Settings holds the user-supplied configuration values of one entry.
// The same shape serves both the initial data and the options overlay.
type Settings struct {
	Name       string `json:"name,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
	ChatModel  string `json:"chat_model,omitempty"`
	ImageModel string `json:"image_model,omitempty"`
}

// Merge applies non-zero values from source into s.
func (s *Settings) Merge(source *Settings) {
	if source.Name != "" {
		s.Name = source.Name
	}
	if source.Endpoint != "" {
		s.Endpoint = source.Endpoint
	}
	if source.APIKey != "" {
		s.APIKey = source.APIKey
	}
	if source.ChatModel != "" {
		s.ChatModel = source.ChatModel
	}
	if source.ImageModel != "" {
		s.ImageModel = source.ImageModel
	}
}

// Entry is one stored configuration entry. Data holds the values from entry
// creation; Options holds later user overrides. Effective values read
// Options first, then Data.
type Entry struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Version int      `json:"version"`
	Data    Settings `json:"data"`
	Options Settings `json:"options,omitempty"`
}

// NewEntry creates an Entry at the current version with a UUIDv7 identifier.
func NewEntry(title string, data Settings) Entry {
	if title == "" {
		title = DefaultTitle
	}
	return Entry{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Title:   title,
		Version: CurrentVersion,
		Data:    data,
	}
}

// ChatModel returns the effective chat model: the options value when set,
// else the data value, trimmed. "" means no chat model configured.
func (e *Entry) ChatModel() string {
	return effective(e.Options.ChatModel, e.Data.ChatModel)
}

// ImageModel returns the effective image model.
func (e *Entry) ImageModel() string {
	return effective(e.Options.ImageModel, e.Data.ImageModel)
}

// Endpoint returns the effective endpoint.
func (e *Entry) Endpoint() string {
	return effective(e.Options.Endpoint, e.Data.Endpoint)
}

// APIKey returns the effective API key.
func (e *Entry) APIKey() string {
	return effective(e.Options.APIKey, e.Data.APIKey)
}

func effective(override, base string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	return strings.TrimSpace(base)
}

// Config holds service-level initialization parameters.
type Config struct {
	// DatabasePath locates the SQLite entry store.
	DatabasePath string `json:"database_path,omitempty"`
	// MediaRoot is the host configuration directory scanned for local media.
	MediaRoot string `json:"media_root,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DatabasePath: "azure_ai_tasks.db",
		MediaRoot:    "/config",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.DatabasePath != "" {
		c.DatabasePath = source.DatabasePath
	}
	if source.MediaRoot != "" {
		c.MediaRoot = source.MediaRoot
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
