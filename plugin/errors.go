package plugin

import "errors"

// Sentinel errors for the lifecycle registry.
var (
	ErrEntryExists   = errors.New("entry already set up")
	ErrEntryNotFound = errors.New("entry not set up")
	ErrEmptyEntryID  = errors.New("entry ID is empty")
)
