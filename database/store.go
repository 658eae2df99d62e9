package database

import (
	"context"
	"errors"
)

// Common errors for key-value store operations.
var (
	ErrNotFound         = errors.New("key not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrConflict         = errors.New("concurrent update conflict")
	ErrClosed           = errors.New("store closed")
)

// UpdateFunc receives the current value of a key (found is false when it is
// absent) and returns the value to write. Returning an error aborts the update
// and nothing is written.
type UpdateFunc func(current string, found bool) (string, error)

// KeyValueStore is the device-local persistent store. Values are text; callers
// JSON-encode structured values.
type KeyValueStore interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// SetMany writes all pairs atomically: either every key is written or none is.
	SetMany(ctx context.Context, pairs map[string]string) error

	// RemoveMany deletes all keys atomically.
	RemoveMany(ctx context.Context, keys ...string) error

	// Update performs an atomic read-modify-write of key. fn must not call back
	// into the store.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Close releases any resources.
	Close() error
}
