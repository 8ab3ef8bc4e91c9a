// Package store persists serialized records in a key-value backend.
//
// Records are stored under "<shape>:<ksuid>" keys, so listing a shape is a
// prefix scan and ids sort by creation time.
package store

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned when a key or record does not exist
var ErrNotFound = errors.New("not found")

// Payload is serialized record text plus the name of its format
type Payload struct {
	Format string
	Data   []byte
}

// Backend is a minimal key-value store for record payloads
type Backend interface {
	Put(ctx context.Context, key string, p Payload) error
	// Get returns ErrNotFound for missing keys
	Get(ctx context.Context, key string) (Payload, error)
	// Delete returns ErrNotFound for missing keys
	Delete(ctx context.Context, key string) error
	// Keys returns the keys starting with prefix in ascending order
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
