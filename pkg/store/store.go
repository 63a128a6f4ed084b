// Package store provides the key-value persistence used for lab
// progress. Values are opaque byte slices; the progress package
// stores a JSON array of solved edge-case ids per key.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Store is a string-keyed byte store.
type Store interface {
	// Load returns the value stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open creates a store for the named driver. path is the directory
// for the file driver and the database file for sqlite; it is
// ignored by the memory driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(path)
	case DriverSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
