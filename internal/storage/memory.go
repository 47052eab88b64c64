package storage

import (
	"context"
	"time"

	"noirbudget/internal/ledger"
)

// MemoryStore keeps the snapshot in process. Used by tests and for
// ephemeral runs; nothing survives the process.
type MemoryStore struct {
	snapshot *ledger.Ledger
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	if s.snapshot == nil {
		return ledger.New(), nil
	}
	return s.snapshot.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, l *ledger.Ledger) error {
	now := time.Now().Truncate(time.Second)
	l.LastSavedAt = &now
	s.snapshot = l.Clone()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
