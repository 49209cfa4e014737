// Package snapshot persists small JSON documents, such as the shopper's cart
// and the local order history, under string keys.
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

// Storage reads and writes whole snapshots by key.
type Storage interface {
	// Load returns the stored bytes for key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the snapshot stored under key.
	Save(ctx context.Context, key string, data []byte) error
}
