package domain

import "errors"

// Outcome taxonomy shared by the catalog clients and resolvers.
//
// ErrNotFound is terminal: the provider has no such record and the call
// must not be retried. ErrUnavailable covers everything transient (network
// failure, timeout, missing credentials, provider 5xx) and tells the caller
// to degrade rather than fail. ErrConflict is a store-level uniqueness
// violation and is resolved locally by re-reading, never surfaced to the
// API layer. ErrValidation marks a malformed input reference, which is
// skipped with a warning instead of aborting the batch.
var (
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("provider unavailable")
	ErrConflict    = errors.New("conflicting record exists")
	ErrValidation  = errors.New("invalid reference")
)
