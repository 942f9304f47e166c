package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"spese/internal/core"
	"spese/internal/ledger"
	"spese/internal/render"
)

// addCmd appends an expense dated today.
type addCmd struct {
	app *App
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new expense dated today" }
func (*addCmd) Usage() string {
	return `spese add <amount> <category> <payment>

  Appends an expense to the ledger. The amount accepts a dot or a comma as
  decimal separator. The date is today.
`
}

func (c *addCmd) SetFlags(*flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		errorf(c.app, "add takes exactly 3 arguments: <amount> <category> <payment>")
		return subcommands.ExitUsageError
	}
	amount, err := core.ParseAmount(f.Arg(0))
	if err != nil {
		errorf(c.app, "%v", err)
		return subcommands.ExitUsageError
	}

	svc, cleanup, err := c.app.Open(ctx)
	if err != nil {
		errorf(c.app, "opening ledger: %v", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	index, rec, err := svc.AddExpense(ctx, amount, f.Arg(1), f.Arg(2))
	if err != nil {
		errorf(c.app, "%v", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.app.Out, "Added expense #%d: %s\n", index, describe(rec, c.app.Formatter()))
	return subcommands.ExitSuccess
}

// editCmd changes the supplied fields of one expense.
type editCmd struct {
	app      *App
	amount   string
	category string
	payment  string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change the amount, category or payment of an expense" }
func (*editCmd) Usage() string {
	return `spese edit [-amount <amount>] [-category <category>] [-payment <payment>] <index>

  Changes only the fields given as flags. A flag given with an empty or zero
  value is applied as such. The date never changes. Use 'spese search' to
  find the index of an expense.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "new amount")
	f.StringVar(&c.category, "category", "", "new category")
	f.StringVar(&c.payment, "payment", "", "new payment method")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	index, ok := indexArg(c.app, f)
	if !ok {
		return subcommands.ExitUsageError
	}

	var patch ledger.Patch
	var parseErr error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "amount":
			amount, err := core.ParseAmount(c.amount)
			if err != nil {
				parseErr = err
				return
			}
			patch.Amount = &amount
		case "category":
			patch.Category = &c.category
		case "payment":
			patch.Payment = &c.payment
		}
	})
	if parseErr != nil {
		errorf(c.app, "%v", parseErr)
		return subcommands.ExitUsageError
	}
	if patch.IsEmpty() {
		errorf(c.app, "nothing to change: give at least one of -amount, -category, -payment")
		return subcommands.ExitUsageError
	}

	svc, cleanup, err := c.app.Open(ctx)
	if err != nil {
		errorf(c.app, "opening ledger: %v", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	rec, err := svc.EditExpense(ctx, index, patch)
	if err != nil {
		errorf(c.app, "%v", err)
		return mutationStatus(err)
	}

	fmt.Fprintf(c.app.Out, "Updated expense #%d: %s\n", index, describe(rec, c.app.Formatter()))
	return subcommands.ExitSuccess
}

// deleteCmd removes one expense.
type deleteCmd struct {
	app *App
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove an expense" }
func (*deleteCmd) Usage() string {
	return `spese delete <index>

  Removes the expense at index. Every later expense moves down by one, so
  list again before deleting another one.
`
}

func (c *deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	index, ok := indexArg(c.app, f)
	if !ok {
		return subcommands.ExitUsageError
	}

	svc, cleanup, err := c.app.Open(ctx)
	if err != nil {
		errorf(c.app, "opening ledger: %v", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	rec, err := svc.DeleteExpense(ctx, index)
	if err != nil {
		errorf(c.app, "%v", err)
		return mutationStatus(err)
	}

	fmt.Fprintf(c.app.Out, "Deleted expense #%d: %s\n", index, describe(rec, c.app.Formatter()))
	return subcommands.ExitSuccess
}

func indexArg(app *App, f *flag.FlagSet) (int, bool) {
	if f.NArg() != 1 {
		errorf(app, "expected exactly one <index> argument")
		return 0, false
	}
	index, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		errorf(app, "invalid index %q: %v", f.Arg(0), err)
		return 0, false
	}
	return index, true
}

// mutationStatus maps a bad index to a usage error and anything else to a
// failure.
func mutationStatus(err error) subcommands.ExitStatus {
	if errors.Is(err, core.ErrIndexOutOfRange) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func describe(r core.Record, f render.Formatter) string {
	return fmt.Sprintf("%s %s on %s (%s)", f.Format(r.Amount), r.Category, r.Date, r.Payment)
}
