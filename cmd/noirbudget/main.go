package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"noirbudget/internal/backend"
	"noirbudget/internal/cli"
	"noirbudget/internal/core"
	"noirbudget/internal/ledger"
)

const usage = `noirbudget — personal budget ledger

Usage: noirbudget <command> [args]

Queries:
  dashboard                                  net liquidity summary (default)
  accounts                                   accounts with effective balances
  cards                                      cards with fixed charges
  categories                                 known categories

Mutations:
  add-account <name> <gross> [bank]
  remove-account <name>
  set-balance <name> <gross>
  add-expense <account> <category> <amount> <label> [notes]
  remove-expense <account> <index>
  add-card <name> <due>
  remove-card <name>
  set-due <name> <due>
  add-charge <card> <category> <amount> <label> [notes]
  remove-charge <card> <index>
  add-category <name>
  set-salary <amount> [account]
  clear-salary
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	store, err := backend.New(backendCfg, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	l, err := store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}

	cmd := "dashboard"
	args := []string{}
	if len(os.Args) > 1 {
		cmd = os.Args[1]
		args = os.Args[2:]
	}

	mutated, err := run(l, cmd, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "noirbudget: %v\n", err)
		os.Exit(1)
	}

	if mutated {
		if err := store.Save(ctx, l); err != nil {
			// The in-memory change is applied but not persisted; warn
			// and keep going, matching the app's save-failure behavior.
			logger.Warn("Failed to save ledger, changes not persisted", "error", err)
		}
	}
}

func run(l *ledger.Ledger, cmd string, args []string) (bool, error) {
	switch cmd {
	case "dashboard":
		printDashboard(l)
		return false, nil
	case "accounts":
		printAccounts(l)
		return false, nil
	case "cards":
		printCards(l)
		return false, nil
	case "categories":
		for _, c := range l.Categories {
			fmt.Println(c)
		}
		return false, nil

	case "add-account":
		if len(args) < 2 {
			return false, usageErr("add-account <name> <gross> [bank]")
		}
		gross, err := core.ParseAmount(args[1])
		if err != nil {
			return false, err
		}
		bank := ""
		if len(args) > 2 {
			bank = args[2]
		}
		if err := l.AddAccount(args[0], bank, gross); err != nil {
			return false, err
		}
		fmt.Printf("account %q added\n", args[0])
		return true, nil

	case "remove-account":
		if len(args) != 1 {
			return false, usageErr("remove-account <name>")
		}
		if err := l.RemoveAccount(args[0]); err != nil {
			return false, err
		}
		fmt.Printf("account %q removed\n", args[0])
		return true, nil

	case "set-balance":
		if len(args) != 2 {
			return false, usageErr("set-balance <name> <gross>")
		}
		gross, err := core.ParseAmount(args[1])
		if err != nil {
			return false, err
		}
		if err := l.UpdateAccountBalance(args[0], gross); err != nil {
			return false, err
		}
		return true, nil

	case "add-expense":
		return addEntry(args, "add-expense <account> <category> <amount> <label> [notes]",
			l.AddPlannedExpense)

	case "remove-expense":
		return removeEntry(args, "remove-expense <account> <index>", l.RemovePlannedExpense)

	case "add-card":
		if len(args) != 2 {
			return false, usageErr("add-card <name> <due>")
		}
		due, err := core.ParseAmount(args[1])
		if err != nil {
			return false, err
		}
		if err := l.AddCard(args[0], due); err != nil {
			return false, err
		}
		fmt.Printf("card %q added\n", args[0])
		return true, nil

	case "remove-card":
		if len(args) != 1 {
			return false, usageErr("remove-card <name>")
		}
		if err := l.RemoveCard(args[0]); err != nil {
			return false, err
		}
		fmt.Printf("card %q removed\n", args[0])
		return true, nil

	case "set-due":
		if len(args) != 2 {
			return false, usageErr("set-due <name> <due>")
		}
		due, err := core.ParseAmount(args[1])
		if err != nil {
			return false, err
		}
		if err := l.UpdateCardBalance(args[0], due); err != nil {
			return false, err
		}
		return true, nil

	case "add-charge":
		return addEntry(args, "add-charge <card> <category> <amount> <label> [notes]",
			l.AddCardCharge)

	case "remove-charge":
		return removeEntry(args, "remove-charge <card> <index>", l.RemoveCardCharge)

	case "add-category":
		if len(args) != 1 {
			return false, usageErr("add-category <name>")
		}
		name, err := l.AddCategory(args[0])
		if err != nil {
			return false, err
		}
		fmt.Printf("category %q added\n", name)
		return true, nil

	case "set-salary":
		if len(args) < 1 {
			return false, usageErr("set-salary <amount> [account]")
		}
		amount, err := core.ParseAmount(args[0])
		if err != nil {
			return false, err
		}
		account := ""
		if len(args) > 1 {
			account = args[1]
		}
		if err := l.SetSalary(amount, account); err != nil {
			return false, err
		}
		return true, nil

	case "clear-salary":
		l.ClearSalary()
		return true, nil

	case "help", "-h", "--help":
		fmt.Print(usage)
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %q (try: noirbudget help)", cmd)
	}
}

func addEntry(args []string, use string, add func(string, core.FixedExpense) error) (bool, error) {
	if len(args) < 4 {
		return false, usageErr(use)
	}
	amount, err := core.ParseAmount(args[2])
	if err != nil {
		return false, err
	}
	e := core.FixedExpense{Category: args[1], Amount: amount, Label: args[3]}
	if len(args) > 4 {
		e.Notes = args[4]
	}
	if err := add(args[0], e); err != nil {
		return false, err
	}
	return true, nil
}

func removeEntry(args []string, use string, remove func(string, int) error) (bool, error) {
	if len(args) != 2 {
		return false, usageErr(use)
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return false, fmt.Errorf("invalid index %q", args[1])
	}
	if err := remove(args[0], index); err != nil {
		return false, err
	}
	return true, nil
}

func usageErr(s string) error {
	return fmt.Errorf("usage: noirbudget %s", s)
}

func printDashboard(l *ledger.Ledger) {
	d := l.ComputeDashboard()
	saved := "—"
	if d.LastSavedAt != nil {
		saved = d.LastSavedAt.Format("02/01/2006 15:04:05")
	}
	fmt.Printf("Last saved:        %s\n", saved)
	fmt.Printf("Liquidity:         %s\n", d.TotalLiquidity.FormatEUR())
	fmt.Printf("Card debt:         %s\n", d.TotalCardDebt.FormatEUR())
	fmt.Printf("Net:               %s\n", d.Net.FormatEUR())
	fmt.Printf("Planned expenses:  %s\n", d.TotalPlannedExpenses.FormatEUR())
	fmt.Printf("Salary:            %s\n", d.SalaryAmount.FormatEUR())
}

func printAccounts(l *ledger.Ledger) {
	for _, a := range l.Accounts {
		fmt.Printf("%s", a.Name)
		if a.Bank != "" {
			fmt.Printf(" (%s)", a.Bank)
		}
		fmt.Printf("  gross %s  planned %s  effective %s\n",
			a.GrossBalance.FormatEUR(), a.PlannedTotal().FormatEUR(), a.EffectiveBalance().FormatEUR())
		for i, e := range a.PlannedExpenses {
			fmt.Printf("  [%d] %-24s %-20s %s\n", i, e.Label, e.Category, e.Amount.FormatEUR())
		}
	}
}

func printCards(l *ledger.Ledger) {
	for _, c := range l.Cards {
		fmt.Printf("%s  due %s\n", c.Name, c.BalanceDue.FormatEUR())
		for i, e := range c.FixedCharges {
			fmt.Printf("  [%d] %-24s %-20s %s\n", i, e.Label, e.Category, e.Amount.FormatEUR())
		}
	}
}
