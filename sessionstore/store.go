// Package sessionstore is the durable client-side key-value store for
// session state (token, identity payload, session-type tag). Entries survive
// reloads; invalid entries are discarded by the consumer, not here.
package sessionstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("session key not found")

// Store defines the key-value operations session persistence needs.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
