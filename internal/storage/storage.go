// Package storage abstracts the durable, string-keyed persistent store the
// engine runs on. The engine treats it as a black box; implementations here
// cover SQLite (the on-device default) and memory (tests, ephemeral runs).
package storage

import "context"

// Store is an async, crash-safe, string-keyed byte store.
type Store interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set durably writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
