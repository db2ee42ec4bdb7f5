package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/loryanstrant/azure-ai-tasks/core/azure"
)

// Flow input validation errors.
var (
	ErrMissingEndpoint = errors.New("endpoint is required")
	ErrMissingAPIKey   = errors.New("api_key is required")
)

// CredentialValidator pings a service endpoint to verify connectivity and
// credentials. *azure.Client satisfies this.
type CredentialValidator interface {
	Validate(ctx context.Context) error
}

// Flow creates configuration entries: it validates the user's input, pings
// the endpoint with the supplied credentials, and persists the entry only
// when the ping succeeds.
type Flow struct {
	store     Store
	validator func(endpoint, apiKey string) CredentialValidator
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithValidatorFactory overrides how credential validators are built,
// letting tests substitute a fake for the Azure client.
func WithValidatorFactory(f func(endpoint, apiKey string) CredentialValidator) FlowOption {
	return func(fl *Flow) { fl.validator = f }
}

// NewFlow creates a Flow that persists entries to store.
func NewFlow(store Store, opts ...FlowOption) *Flow {
	f := &Flow{
		store: store,
		validator: func(endpoint, apiKey string) CredentialValidator {
			return azure.NewClient(endpoint, apiKey)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateEntry runs the user step of the configuration flow. The returned
// entry is already persisted.
func (f *Flow) CreateEntry(ctx context.Context, input Settings) (*Entry, error) {
	if strings.TrimSpace(input.Endpoint) == "" {
		return nil, ErrMissingEndpoint
	}
	if strings.TrimSpace(input.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	if err := f.validator(input.Endpoint, input.APIKey).Validate(ctx); err != nil {
		return nil, fmt.Errorf("credential validation failed: %w", err)
	}

	entry := NewEntry(input.Name, input)
	if err := f.store.Save(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateOptions persists a new options overlay for an existing entry and
// returns the updated entry.
func (f *Flow) UpdateOptions(ctx context.Context, id string, options Settings) (*Entry, error) {
	entry, err := f.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Options = options
	if err := f.store.Save(ctx, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}
