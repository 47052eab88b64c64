package ledger

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"noirbudget/internal/core"
)

func cents(c int64) core.Money { return core.Money{Cents: c} }

func TestDashboardScenario(t *testing.T) {
	l := New()
	if _, err := l.AddCategory("Gym"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := l.AddAccount("Main", "", cents(100000)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	err := l.AddPlannedExpense("Main", core.FixedExpense{
		Category: "Gym", Amount: cents(5000), Label: "Monthly pass",
	})
	if err != nil {
		t.Fatalf("AddPlannedExpense: %v", err)
	}

	d := l.ComputeDashboard()
	if d.TotalLiquidity != cents(95000) {
		t.Errorf("TotalLiquidity = %s, want 950.00", d.TotalLiquidity)
	}
	if d.TotalPlannedExpenses != cents(5000) {
		t.Errorf("TotalPlannedExpenses = %s, want 50.00", d.TotalPlannedExpenses)
	}
	if d.Net != cents(95000) {
		t.Errorf("Net = %s, want 950.00", d.Net)
	}

	// Pure query: same result twice without mutation.
	if diff := cmp.Diff(d, l.ComputeDashboard()); diff != "" {
		t.Errorf("dashboard not idempotent (-first +second):\n%s", diff)
	}
}

func TestCardChargesNeverAffectBalanceDue(t *testing.T) {
	l := New()
	if err := l.AddCard("Visa", cents(30000)); err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	err := l.AddCardCharge("Visa", core.FixedExpense{
		Category: "gym", Amount: cents(5000), Label: "Annual fee",
	})
	if err != nil {
		t.Fatalf("AddCardCharge: %v", err)
	}
	if got := l.Cards[0].BalanceDue; got != cents(30000) {
		t.Errorf("BalanceDue = %s, want 300.00", got)
	}
	if got := l.ComputeDashboard().TotalCardDebt; got != cents(30000) {
		t.Errorf("TotalCardDebt = %s, want 300.00", got)
	}
}

func TestAddPlannedExpenseUnknownCategory(t *testing.T) {
	l := New()
	if err := l.AddAccount("Main", "", cents(100000)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	err := l.AddPlannedExpense("Main", core.FixedExpense{
		Category: "Vacation", Amount: cents(100), Label: "x",
	})
	if !errors.Is(err, core.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if n := len(l.Accounts[0].PlannedExpenses); n != 0 {
		t.Errorf("expense list changed, len = %d", n)
	}
}

func TestAddPlannedExpenseNegativeAmount(t *testing.T) {
	l := New()
	if err := l.AddAccount("Main", "", cents(100000)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	err := l.AddPlannedExpense("Main", core.FixedExpense{
		Category: "gym", Amount: cents(-100), Label: "x",
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRemoveMissingAccountLeavesLedgerUnchanged(t *testing.T) {
	l := New()
	if err := l.AddAccount("Main", "", cents(100000)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	before := l.Clone()
	if err := l.RemoveAccount("Other"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if diff := cmp.Diff(before, l); diff != "" {
		t.Errorf("ledger changed (-before +after):\n%s", diff)
	}
}

func TestAccountNames(t *testing.T) {
	l := New()
	if err := l.AddAccount("Main", "Banca Uno", cents(1)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	if err := l.AddAccount("Main", "", cents(2)); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if err := l.AddAccount("  ", "", cents(2)); !errors.Is(err, core.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	// Names normalize before the duplicate check.
	if err := l.AddAccount("  Main ", "", cents(2)); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName for padded name, got %v", err)
	}
}

func TestRemoveAccountCascades(t *testing.T) {
	l := New()
	if err := l.AddAccount("Main", "", cents(100000)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	if err := l.AddPlannedExpense("Main", core.FixedExpense{
		Category: "gym", Amount: cents(5000), Label: "pass",
	}); err != nil {
		t.Fatalf("AddPlannedExpense: %v", err)
	}
	if err := l.SetSalary(cents(250000), "Main"); err != nil {
		t.Fatalf("SetSalary: %v", err)
	}

	if err := l.RemoveAccount("Main"); err != nil {
		t.Fatalf("RemoveAccount: %v", err)
	}
	if len(l.Accounts) != 0 {
		t.Errorf("accounts not removed: %d left", len(l.Accounts))
	}
	if l.Salary == nil || l.Salary.CreditedAccount != "" {
		t.Errorf("salary account reference not cleared: %+v", l.Salary)
	}
	if l.Salary.Amount != cents(250000) {
		t.Errorf("salary amount changed: %s", l.Salary.Amount)
	}
}

func TestRemovePlannedExpenseIndex(t *testing.T) {
	l := New()
	if err := l.AddAccount("Main", "", cents(100000)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	for _, label := range []string{"a", "b", "c"} {
		if err := l.AddPlannedExpense("Main", core.FixedExpense{
			Category: "gym", Amount: cents(100), Label: label,
		}); err != nil {
			t.Fatalf("AddPlannedExpense: %v", err)
		}
	}
	if err := l.RemovePlannedExpense("Main", 3); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for out-of-range index, got %v", err)
	}
	if err := l.RemovePlannedExpense("Main", -1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for negative index, got %v", err)
	}
	if err := l.RemovePlannedExpense("Main", 1); err != nil {
		t.Fatalf("RemovePlannedExpense: %v", err)
	}
	var labels []string
	for _, e := range l.Accounts[0].PlannedExpenses {
		labels = append(labels, e.Label)
	}
	if diff := cmp.Diff([]string{"a", "c"}, labels); diff != "" {
		t.Errorf("wrong expenses left (-want +got):\n%s", diff)
	}
}

func TestCategories(t *testing.T) {
	l := New()
	if diff := cmp.Diff(core.DefaultCategories, l.Categories); diff != "" {
		t.Fatalf("fresh ledger categories (-want +got):\n%s", diff)
	}

	if _, err := l.AddCategory("  "); !errors.Is(err, core.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := l.AddCategory("gym"); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	// Case-sensitive: "Gym" is a different category than the default "gym".
	if _, err := l.AddCategory("Gym"); err != nil {
		t.Fatalf("AddCategory(Gym): %v", err)
	}

	name, err := l.AddCategory("  utilities   and  bills ")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if name != "utilities and bills" {
		t.Errorf("normalized name = %q", name)
	}
	if _, err := l.AddCategory("Alpha"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	// Defaults keep their position, the rest is sorted case-insensitively.
	want := []string{"recurring subscriptions", "gym", "Alpha", "Gym", "utilities and bills"}
	if diff := cmp.Diff(want, l.Categories); diff != "" {
		t.Errorf("category order (-want +got):\n%s", diff)
	}
}

func TestSetSalary(t *testing.T) {
	l := New()
	if err := l.SetSalary(cents(100), "Nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := l.SetSalary(cents(-100), ""); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := l.SetSalary(cents(250000), ""); err != nil {
		t.Fatalf("SetSalary: %v", err)
	}
	if got := l.ComputeDashboard().SalaryAmount; got != cents(250000) {
		t.Errorf("SalaryAmount = %s, want 2500.00", got)
	}
	l.ClearSalary()
	if l.Salary != nil {
		t.Error("salary not cleared")
	}
}

func TestValidate(t *testing.T) {
	l := New()
	if err := l.AddAccount("Main", "", cents(1)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("valid ledger rejected: %v", err)
	}

	bad := l.Clone()
	bad.Accounts[0].PlannedExpenses = []core.FixedExpense{{Category: "nope", Amount: cents(1)}}
	if err := bad.Validate(); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}

	bad = l.Clone()
	bad.Accounts = append(bad.Accounts, &core.Account{Name: "Main"})
	if err := bad.Validate(); !errors.Is(err, core.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	bad = l.Clone()
	bad.Salary = &core.Salary{Amount: cents(1), CreditedAccount: "Ghost"}
	if err := bad.Validate(); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClone(t *testing.T) {
	l := New()
	if err := l.AddAccount("Main", "Banca", cents(100000)); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	if err := l.AddPlannedExpense("Main", core.FixedExpense{
		Category: "gym", Amount: cents(100), Label: "pass",
	}); err != nil {
		t.Fatalf("AddPlannedExpense: %v", err)
	}

	cp := l.Clone()
	if diff := cmp.Diff(l, cp); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}
	cp.Accounts[0].PlannedExpenses[0].Label = "changed"
	if l.Accounts[0].PlannedExpenses[0].Label != "pass" {
		t.Error("clone shares expense storage with original")
	}
}
