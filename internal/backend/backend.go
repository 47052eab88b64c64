// Package backend selects and wires a snapshot store from configuration.
package backend

import (
	"context"

	"noirbudget/internal/ledger"
)

// Store persists and restores ledger snapshots. Save stamps the ledger's
// LastSavedAt on success; Load yields a fresh default ledger when no
// snapshot exists yet.
type Store interface {
	Load(ctx context.Context) (*ledger.Ledger, error)
	Save(ctx context.Context, l *ledger.Ledger) error
	Close() error
}

// Type identifies a store implementation.
type Type string

const (
	JSONBackend   Type = "json"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a store.
type Config struct {
	Type Type

	// JSON backend
	DataFile string

	// SQLite backend
	SQLiteDBPath string
}
