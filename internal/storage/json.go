// Package storage persists ledger snapshots. The JSON file store is the
// canonical format; a SQLite store and an in-process memory store hold
// the same snapshot for alternative deployments and tests.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"noirbudget/internal/core"
	"noirbudget/internal/ledger"
)

// JSONStore reads and writes the ledger as a single JSON document.
// Saves go through a temporary file and a rename, so a crash mid-write
// leaves the previous good file intact.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the document at the store's path. A missing file is the
// first run and yields a fresh ledger with the default categories.
// An unparseable or inconsistent document surfaces ErrCorruptData.
func (s *JSONStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "Ledger file not found, starting fresh", "path", s.path)
		return ledger.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	l := &ledger.Ledger{}
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptData, err)
	}
	restoreDefaults(l)
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptData, err)
	}
	return l, nil
}

// Save writes the full snapshot and stamps LastSavedAt on success.
// On any failure the previous timestamp is restored and the file on
// disk is untouched.
func (s *JSONStore) Save(ctx context.Context, l *ledger.Ledger) error {
	prev := l.LastSavedAt
	now := time.Now().Truncate(time.Second)
	l.LastSavedAt = &now

	if err := s.write(l); err != nil {
		l.LastSavedAt = prev
		return err
	}
	slog.InfoContext(ctx, "Ledger saved", "path", s.path,
		"accounts", len(l.Accounts), "cards", len(l.Cards))
	return nil
}

func (s *JSONStore) write(l *ledger.Ledger) error {
	ensureSlices(l)
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

// ensureSlices keeps the persisted document's collections as arrays
// rather than null, matching the documented format.
func ensureSlices(l *ledger.Ledger) {
	if l.Accounts == nil {
		l.Accounts = []*core.Account{}
	}
	if l.Cards == nil {
		l.Cards = []*core.Card{}
	}
	if l.Categories == nil {
		l.Categories = []string{}
	}
	for _, a := range l.Accounts {
		if a.PlannedExpenses == nil {
			a.PlannedExpenses = []core.FixedExpense{}
		}
	}
	for _, c := range l.Cards {
		if c.FixedCharges == nil {
			c.FixedCharges = []core.FixedExpense{}
		}
	}
}

// restoreDefaults re-adds any built-in category a hand-edited or older
// document dropped, keeping the defaults-first ordering.
func restoreDefaults(l *ledger.Ledger) {
	var missing []string
	for _, d := range core.DefaultCategories {
		if !l.HasCategory(d) {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		l.Categories = append(missing, l.Categories...)
	}
}
