package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"noirbudget/internal/core"
	"noirbudget/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the ledger snapshot in a local SQLite database.
// Save replaces the whole snapshot in one transaction; Load rebuilds
// the ledger and runs the same consistency check as the JSON store.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load rebuilds the ledger from the snapshot tables. An empty database
// is a first run and yields a fresh ledger.
func (s *SQLiteStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if n == 0 {
		slog.InfoContext(ctx, "Empty snapshot database, starting fresh")
		return ledger.New(), nil
	}

	l := &ledger.Ledger{}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		l.Categories = append(l.Categories, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	if err := s.loadAccounts(ctx, l); err != nil {
		return nil, err
	}
	if err := s.loadCards(ctx, l); err != nil {
		return nil, err
	}
	if err := s.loadSalary(ctx, l); err != nil {
		return nil, err
	}
	if err := s.loadMeta(ctx, l); err != nil {
		return nil, err
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCorruptData, err)
	}
	return l, nil
}

func (s *SQLiteStore) loadAccounts(ctx context.Context, l *ledger.Ledger) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, name, bank, gross_cents FROM accounts ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()

	byPos := make(map[int64]*core.Account)
	var order []int64
	for rows.Next() {
		var pos, cents int64
		a := &core.Account{}
		if err := rows.Scan(&pos, &a.Name, &a.Bank, &cents); err != nil {
			return fmt.Errorf("scan account: %w", err)
		}
		a.GrossBalance = core.Money{Cents: cents}
		byPos[pos] = a
		order = append(order, pos)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	expRows, err := s.db.QueryContext(ctx,
		`SELECT account_position, category, amount_cents, label, notes
		 FROM planned_expenses ORDER BY account_position, position`)
	if err != nil {
		return fmt.Errorf("load planned expenses: %w", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var accPos, cents int64
		var e core.FixedExpense
		if err := expRows.Scan(&accPos, &e.Category, &cents, &e.Label, &e.Notes); err != nil {
			return fmt.Errorf("scan planned expense: %w", err)
		}
		e.Amount = core.Money{Cents: cents}
		a, ok := byPos[accPos]
		if !ok {
			return fmt.Errorf("%w: planned expense for unknown account row %d",
				core.ErrCorruptData, accPos)
		}
		a.PlannedExpenses = append(a.PlannedExpenses, e)
	}
	if err := expRows.Err(); err != nil {
		return fmt.Errorf("load planned expenses: %w", err)
	}

	for _, pos := range order {
		l.Accounts = append(l.Accounts, byPos[pos])
	}
	return nil
}

func (s *SQLiteStore) loadCards(ctx context.Context, l *ledger.Ledger) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, name, due_cents FROM cards ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}
	defer rows.Close()

	byPos := make(map[int64]*core.Card)
	var order []int64
	for rows.Next() {
		var pos, cents int64
		c := &core.Card{}
		if err := rows.Scan(&pos, &c.Name, &cents); err != nil {
			return fmt.Errorf("scan card: %w", err)
		}
		c.BalanceDue = core.Money{Cents: cents}
		byPos[pos] = c
		order = append(order, pos)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load cards: %w", err)
	}

	chRows, err := s.db.QueryContext(ctx,
		`SELECT card_position, category, amount_cents, label, notes
		 FROM card_charges ORDER BY card_position, position`)
	if err != nil {
		return fmt.Errorf("load card charges: %w", err)
	}
	defer chRows.Close()
	for chRows.Next() {
		var cardPos, cents int64
		var e core.FixedExpense
		if err := chRows.Scan(&cardPos, &e.Category, &cents, &e.Label, &e.Notes); err != nil {
			return fmt.Errorf("scan card charge: %w", err)
		}
		e.Amount = core.Money{Cents: cents}
		c, ok := byPos[cardPos]
		if !ok {
			return fmt.Errorf("%w: charge for unknown card row %d",
				core.ErrCorruptData, cardPos)
		}
		c.FixedCharges = append(c.FixedCharges, e)
	}
	if err := chRows.Err(); err != nil {
		return fmt.Errorf("load card charges: %w", err)
	}

	for _, pos := range order {
		l.Cards = append(l.Cards, byPos[pos])
	}
	return nil
}

func (s *SQLiteStore) loadSalary(ctx context.Context, l *ledger.Ledger) error {
	var cents int64
	var account string
	err := s.db.QueryRowContext(ctx,
		`SELECT amount_cents, credited_account FROM salary WHERE id = 1`).
		Scan(&cents, &account)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load salary: %w", err)
	}
	l.Salary = &core.Salary{Amount: core.Money{Cents: cents}, CreditedAccount: account}
	return nil
}

func (s *SQLiteStore) loadMeta(ctx context.Context, l *ledger.Ledger) error {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'last_saved_at'`).Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load meta: %w", err)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("%w: last_saved_at %q", core.ErrCorruptData, value)
	}
	l.LastSavedAt = &t
	return nil
}

// Save replaces the stored snapshot in a single transaction and stamps
// LastSavedAt on success. On failure the ledger and the database keep
// their previous state.
func (s *SQLiteStore) Save(ctx context.Context, l *ledger.Ledger) error {
	prev := l.LastSavedAt
	now := time.Now().Truncate(time.Second)
	l.LastSavedAt = &now

	if err := s.write(ctx, l, now); err != nil {
		l.LastSavedAt = prev
		return err
	}
	slog.InfoContext(ctx, "Ledger snapshot saved to SQLite",
		"accounts", len(l.Accounts), "cards", len(l.Cards))
	return nil
}

func (s *SQLiteStore) write(ctx context.Context, l *ledger.Ledger, savedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"planned_expenses", "card_charges", "accounts", "cards", "categories", "salary", "meta",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, name := range l.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (position, name) VALUES (?, ?)`, i, name); err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
	}
	for i, a := range l.Accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (position, name, bank, gross_cents) VALUES (?, ?, ?, ?)`,
			i, a.Name, a.Bank, a.GrossBalance.Cents); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		for j, e := range a.PlannedExpenses {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO planned_expenses (account_position, position, category, amount_cents, label, notes)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				i, j, e.Category, e.Amount.Cents, e.Label, e.Notes); err != nil {
				return fmt.Errorf("insert planned expense: %w", err)
			}
		}
	}
	for i, c := range l.Cards {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cards (position, name, due_cents) VALUES (?, ?, ?)`,
			i, c.Name, c.BalanceDue.Cents); err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		for j, e := range c.FixedCharges {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO card_charges (card_position, position, category, amount_cents, label, notes)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				i, j, e.Category, e.Amount.Cents, e.Label, e.Notes); err != nil {
				return fmt.Errorf("insert card charge: %w", err)
			}
		}
	}
	if l.Salary != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO salary (id, amount_cents, credited_account) VALUES (1, ?, ?)`,
			l.Salary.Amount.Cents, l.Salary.CreditedAccount); err != nil {
			return fmt.Errorf("insert salary: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('last_saved_at', ?)`,
		savedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
