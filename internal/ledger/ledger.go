// Package ledger owns the in-memory budget state: accounts, cards,
// categories and salary. All mutations validate first and only then
// commit, so a failed operation leaves the ledger untouched.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"noirbudget/internal/core"
)

// Ledger is the aggregate root. LastSavedAt is owned by the persistence
// layer and set only on a successful save.
type Ledger struct {
	Accounts    []*core.Account `json:"accounts"`
	Cards       []*core.Card    `json:"cards"`
	Categories  []string        `json:"categories"`
	Salary      *core.Salary    `json:"salary"`
	LastSavedAt *time.Time      `json:"last_saved_at"`
}

// New returns a first-run ledger: the built-in categories and nothing else.
func New() *Ledger {
	return &Ledger{
		Categories: append([]string(nil), core.DefaultCategories...),
	}
}

func (l *Ledger) account(name string) (*core.Account, int) {
	for i, a := range l.Accounts {
		if a.Name == name {
			return a, i
		}
	}
	return nil, -1
}

func (l *Ledger) card(name string) (*core.Card, int) {
	for i, c := range l.Cards {
		if c.Name == name {
			return c, i
		}
	}
	return nil, -1
}

// HasCategory reports whether name is a known category (exact match).
func (l *Ledger) HasCategory(name string) bool {
	for _, c := range l.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// AddAccount creates an account with an empty planned-expense list.
// The bank field is informational and may be empty.
func (l *Ledger) AddAccount(name, bank string, gross core.Money) error {
	name = core.NormalizeName(name)
	if name == "" {
		return fmt.Errorf("%w: account name is empty", core.ErrInvalidName)
	}
	if a, _ := l.account(name); a != nil {
		return fmt.Errorf("%w: account %q", core.ErrDuplicateName, name)
	}
	l.Accounts = append(l.Accounts, &core.Account{
		Name:         name,
		Bank:         strings.TrimSpace(bank),
		GrossBalance: gross,
	})
	return nil
}

// RemoveAccount deletes the account and its planned expenses. If the
// salary was credited to it, the credited-account reference is cleared
// while the salary amount is kept.
func (l *Ledger) RemoveAccount(name string) error {
	a, i := l.account(name)
	if a == nil {
		return fmt.Errorf("%w: account %q", core.ErrNotFound, name)
	}
	l.Accounts = append(l.Accounts[:i], l.Accounts[i+1:]...)
	if l.Salary != nil && l.Salary.CreditedAccount == name {
		l.Salary.CreditedAccount = ""
	}
	return nil
}

// UpdateAccountBalance replaces the account's gross balance.
func (l *Ledger) UpdateAccountBalance(name string, gross core.Money) error {
	a, _ := l.account(name)
	if a == nil {
		return fmt.Errorf("%w: account %q", core.ErrNotFound, name)
	}
	a.GrossBalance = gross
	return nil
}

// AddPlannedExpense appends an expense to the account. The category must
// already exist and the amount must be non-negative.
func (l *Ledger) AddPlannedExpense(accountName string, e core.FixedExpense) error {
	a, _ := l.account(accountName)
	if a == nil {
		return fmt.Errorf("%w: account %q", core.ErrNotFound, accountName)
	}
	if err := l.checkExpense(e); err != nil {
		return err
	}
	a.PlannedExpenses = append(a.PlannedExpenses, e)
	return nil
}

// RemovePlannedExpense removes the expense at index from the account.
func (l *Ledger) RemovePlannedExpense(accountName string, index int) error {
	a, _ := l.account(accountName)
	if a == nil {
		return fmt.Errorf("%w: account %q", core.ErrNotFound, accountName)
	}
	if index < 0 || index >= len(a.PlannedExpenses) {
		return fmt.Errorf("%w: expense index %d", core.ErrNotFound, index)
	}
	a.PlannedExpenses = append(a.PlannedExpenses[:index], a.PlannedExpenses[index+1:]...)
	return nil
}

// AddCard creates a card with an empty fixed-charge list.
func (l *Ledger) AddCard(name string, due core.Money) error {
	name = core.NormalizeName(name)
	if name == "" {
		return fmt.Errorf("%w: card name is empty", core.ErrInvalidName)
	}
	if c, _ := l.card(name); c != nil {
		return fmt.Errorf("%w: card %q", core.ErrDuplicateName, name)
	}
	l.Cards = append(l.Cards, &core.Card{Name: name, BalanceDue: due})
	return nil
}

// RemoveCard deletes the card and its fixed charges.
func (l *Ledger) RemoveCard(name string) error {
	_, i := l.card(name)
	if i < 0 {
		return fmt.Errorf("%w: card %q", core.ErrNotFound, name)
	}
	l.Cards = append(l.Cards[:i], l.Cards[i+1:]...)
	return nil
}

// UpdateCardBalance replaces the card's outstanding balance.
func (l *Ledger) UpdateCardBalance(name string, due core.Money) error {
	c, _ := l.card(name)
	if c == nil {
		return fmt.Errorf("%w: card %q", core.ErrNotFound, name)
	}
	c.BalanceDue = due
	return nil
}

// AddCardCharge appends a fixed charge to the card. Charges are display
// only and never change BalanceDue.
func (l *Ledger) AddCardCharge(cardName string, e core.FixedExpense) error {
	c, _ := l.card(cardName)
	if c == nil {
		return fmt.Errorf("%w: card %q", core.ErrNotFound, cardName)
	}
	if err := l.checkExpense(e); err != nil {
		return err
	}
	c.FixedCharges = append(c.FixedCharges, e)
	return nil
}

// RemoveCardCharge removes the charge at index from the card.
func (l *Ledger) RemoveCardCharge(cardName string, index int) error {
	c, _ := l.card(cardName)
	if c == nil {
		return fmt.Errorf("%w: card %q", core.ErrNotFound, cardName)
	}
	if index < 0 || index >= len(c.FixedCharges) {
		return fmt.Errorf("%w: charge index %d", core.ErrNotFound, index)
	}
	c.FixedCharges = append(c.FixedCharges[:index], c.FixedCharges[index+1:]...)
	return nil
}

func (l *Ledger) checkExpense(e core.FixedExpense) error {
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: %s", core.ErrInvalidAmount, e.Amount)
	}
	if !l.HasCategory(e.Category) {
		return fmt.Errorf("%w: %q", core.ErrUnknownCategory, e.Category)
	}
	return nil
}

// AddCategory registers a new category and returns its normalized name.
// Names are case-sensitive and must be non-empty after normalization.
// The built-in defaults keep their position; user categories are ordered
// case-insensitively after them.
func (l *Ledger) AddCategory(name string) (string, error) {
	name = core.NormalizeName(name)
	if name == "" {
		return "", fmt.Errorf("%w: category name is empty", core.ErrInvalidName)
	}
	if l.HasCategory(name) {
		return "", fmt.Errorf("%w: category %q", core.ErrDuplicateName, name)
	}
	l.Categories = append(l.Categories, name)
	l.sortCategories()
	return name, nil
}

func (l *Ledger) sortCategories() {
	var base, rest []string
	for _, d := range core.DefaultCategories {
		if l.HasCategory(d) {
			base = append(base, d)
		}
	}
	for _, c := range l.Categories {
		isBase := false
		for _, d := range base {
			if c == d {
				isBase = true
				break
			}
		}
		if !isBase {
			rest = append(rest, c)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return strings.ToLower(rest[i]) < strings.ToLower(rest[j])
	})
	l.Categories = append(base, rest...)
}

// SetSalary records the salary amount and the account it is credited to.
// The account reference may be empty.
func (l *Ledger) SetSalary(amount core.Money, accountName string) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: salary %s", core.ErrInvalidAmount, amount)
	}
	if accountName != "" {
		if a, _ := l.account(accountName); a == nil {
			return fmt.Errorf("%w: account %q", core.ErrNotFound, accountName)
		}
	}
	l.Salary = &core.Salary{Amount: amount, CreditedAccount: accountName}
	return nil
}

// ClearSalary removes the salary record entirely.
func (l *Ledger) ClearSalary() {
	l.Salary = nil
}

// Dashboard is the derived summary shown on the main screen.
type Dashboard struct {
	TotalLiquidity       core.Money
	TotalCardDebt        core.Money
	Net                  core.Money
	TotalPlannedExpenses core.Money
	SalaryAmount         core.Money
	LastSavedAt          *time.Time
}

// ComputeDashboard derives the summary figures from the current state.
// It is a pure query; calling it twice without a mutation in between
// yields identical results.
func (l *Ledger) ComputeDashboard() Dashboard {
	var d Dashboard
	for _, a := range l.Accounts {
		d.TotalLiquidity = d.TotalLiquidity.Add(a.EffectiveBalance())
		d.TotalPlannedExpenses = d.TotalPlannedExpenses.Add(a.PlannedTotal())
	}
	for _, c := range l.Cards {
		d.TotalCardDebt = d.TotalCardDebt.Add(c.BalanceDue)
	}
	d.Net = d.TotalLiquidity.Sub(d.TotalCardDebt)
	if l.Salary != nil {
		d.SalaryAmount = l.Salary.Amount
	}
	d.LastSavedAt = l.LastSavedAt
	return d
}

// Validate checks the ledger's internal consistency: unique names,
// every expense and charge referencing a known category, and the salary
// account existing. Stores run it after loading a persisted snapshot.
func (l *Ledger) Validate() error {
	seenAcc := make(map[string]bool, len(l.Accounts))
	for _, a := range l.Accounts {
		if a.Name == "" {
			return fmt.Errorf("%w: account with empty name", core.ErrInvalidName)
		}
		if seenAcc[a.Name] {
			return fmt.Errorf("%w: account %q", core.ErrDuplicateName, a.Name)
		}
		seenAcc[a.Name] = true
		for _, e := range a.PlannedExpenses {
			if !l.HasCategory(e.Category) {
				return fmt.Errorf("%w: account %q expense references %q",
					core.ErrUnknownCategory, a.Name, e.Category)
			}
		}
	}
	seenCard := make(map[string]bool, len(l.Cards))
	for _, c := range l.Cards {
		if c.Name == "" {
			return fmt.Errorf("%w: card with empty name", core.ErrInvalidName)
		}
		if seenCard[c.Name] {
			return fmt.Errorf("%w: card %q", core.ErrDuplicateName, c.Name)
		}
		seenCard[c.Name] = true
		for _, e := range c.FixedCharges {
			if !l.HasCategory(e.Category) {
				return fmt.Errorf("%w: card %q charge references %q",
					core.ErrUnknownCategory, c.Name, e.Category)
			}
		}
	}
	seenCat := make(map[string]bool, len(l.Categories))
	for _, c := range l.Categories {
		if seenCat[c] {
			return fmt.Errorf("%w: category %q", core.ErrDuplicateName, c)
		}
		seenCat[c] = true
	}
	if l.Salary != nil && l.Salary.CreditedAccount != "" && !seenAcc[l.Salary.CreditedAccount] {
		return fmt.Errorf("%w: salary account %q", core.ErrNotFound, l.Salary.CreditedAccount)
	}
	return nil
}

// Clone returns a deep copy, used by stores that hold a snapshot.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{
		Categories: append([]string(nil), l.Categories...),
	}
	for _, a := range l.Accounts {
		cp := *a
		cp.PlannedExpenses = append([]core.FixedExpense(nil), a.PlannedExpenses...)
		out.Accounts = append(out.Accounts, &cp)
	}
	for _, c := range l.Cards {
		cp := *c
		cp.FixedCharges = append([]core.FixedExpense(nil), c.FixedCharges...)
		out.Cards = append(out.Cards, &cp)
	}
	if l.Salary != nil {
		s := *l.Salary
		out.Salary = &s
	}
	if l.LastSavedAt != nil {
		t := *l.LastSavedAt
		out.LastSavedAt = &t
	}
	return out
}
