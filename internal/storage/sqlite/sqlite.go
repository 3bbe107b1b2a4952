// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the snapshot for the ledger ID.
func (s *SQLiteStore) Save(ctx context.Context, ledgerID string, snapshot []byte) error {
	if ledgerID == "" {
		return errors.New("ledger_id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_snapshots (ledger_id, snapshot, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(ledger_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		ledgerID, snapshot, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load retrieves the latest snapshot for the ledger ID.
func (s *SQLiteStore) Load(ctx context.Context, ledgerID string) ([]byte, error) {
	var snapshot []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT snapshot FROM ledger_snapshots WHERE ledger_id = ?",
		ledgerID,
	).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ledger %s: %w", ledgerID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snapshot, nil
}

// Delete removes the snapshot for the ledger ID.
func (s *SQLiteStore) Delete(ctx context.Context, ledgerID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM ledger_snapshots WHERE ledger_id = ?", ledgerID,
	); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
