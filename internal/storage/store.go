// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot exists for the
// given ledger ID.
var ErrNotFound = errors.New("snapshot not found")

// Store defines the interface for ledger snapshot persistence.
// The engine hands the store opaque snapshot bytes produced by the
// codec; this abstraction allows swapping storage backends (SQLite,
// flat files, etc.) without touching the service layer.
type Store interface {
	// Save persists the snapshot for the given ledger ID, replacing
	// any previous snapshot atomically.
	Save(ctx context.Context, ledgerID string, snapshot []byte) error

	// Load retrieves the latest snapshot for the ledger ID.
	// Returns ErrNotFound if none has been saved.
	Load(ctx context.Context, ledgerID string) ([]byte, error)

	// Delete removes the snapshot for the ledger ID. Deleting a
	// missing snapshot is not an error.
	Delete(ctx context.Context, ledgerID string) error

	// Close releases any resources held by the store.
	Close() error
}
