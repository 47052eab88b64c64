// Package core holds the domain types of the budget ledger: monetary
// amounts, accounts with their planned expenses, credit cards with their
// fixed charges, and the salary record.
package core

import (
	"errors"
	"strings"
)

type (
	// FixedExpense is a recurring entry attached to an account or a card.
	// On accounts it is subtracted from the gross balance when computing
	// the effective balance; on cards it is informational only.
	FixedExpense struct {
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Label    string `json:"label"`
		Notes    string `json:"notes,omitempty"`
	}

	// Account is a bank account with a user-supplied gross balance.
	Account struct {
		Name            string         `json:"name"`
		Bank            string         `json:"bank,omitempty"`
		GrossBalance    Money          `json:"gross_balance"`
		PlannedExpenses []FixedExpense `json:"planned_expenses"`
	}

	// Card is a credit card with an outstanding balance to pay.
	// FixedCharges never affect BalanceDue.
	Card struct {
		Name         string         `json:"name"`
		BalanceDue   Money          `json:"balance_due"`
		FixedCharges []FixedExpense `json:"fixed_charges"`
	}

	// Salary ties an income amount to an account. The reference is
	// informational and never alters that account's balance.
	Salary struct {
		Amount          Money  `json:"amount"`
		CreditedAccount string `json:"credited_account"`
	}
)

var (
	ErrDuplicateName   = errors.New("duplicate name")
	ErrNotFound        = errors.New("not found")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidName     = errors.New("invalid name")
	ErrUnknownCategory = errors.New("unknown category")
	ErrCorruptData     = errors.New("corrupt data")
)

// DefaultCategories are present in every fresh ledger, in this order.
var DefaultCategories = []string{"recurring subscriptions", "gym"}

// NormalizeName trims the name and collapses internal whitespace runs
// into single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func (e FixedExpense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrUnknownCategory
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// PlannedTotal sums the account's planned expenses.
func (a *Account) PlannedTotal() Money {
	var total Money
	for _, e := range a.PlannedExpenses {
		total = total.Add(e.Amount)
	}
	return total
}

// EffectiveBalance is the gross balance minus all planned expenses.
func (a *Account) EffectiveBalance() Money {
	return a.GrossBalance.Sub(a.PlannedTotal())
}

// ChargesTotal sums the card's fixed charges. Display only; the card's
// BalanceDue is never derived from it.
func (c *Card) ChargesTotal() Money {
	var total Money
	for _, e := range c.FixedCharges {
		total = total.Add(e.Amount)
	}
	return total
}
