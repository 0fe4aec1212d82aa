// Package memfs contains core domain types and interfaces shared by the memfs
// tree engine, its persistence backends and consumers.
package memfs

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a [Backend] when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Backend is a key-value store the tree is persisted through.
// The whole serialized tree is written under a single key after every mutation.
type Backend interface {
	// Load returns the bytes stored at key or [ErrKeyNotFound]
	Load(ctx context.Context, key string) ([]byte, error)

	// Store replaces the bytes stored at key
	Store(ctx context.Context, key string, data []byte) error

	// Close releases any resources held by the backend
	Close() error
}
