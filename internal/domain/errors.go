package domain

import "errors"

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrUpstreamUnavailable is returned by enrichment only when the cache has
	// no entry for a word AND no external source produced a single usable
	// field. Partial data never triggers it.
	ErrUpstreamUnavailable = errors.New("upstream sources unavailable")
)
