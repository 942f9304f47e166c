package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"spese/internal/core"
	"spese/internal/ledger"
	"spese/internal/render"
)

// searchCmd lists the expenses matching every given filter.
type searchCmd struct {
	app      *App
	category string
	payment  string
	date     string
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "list expenses by category, payment or date" }
func (*searchCmd) Usage() string {
	return `spese search [-category <category>] [-payment <payment>] [-date <YYYY-MM-DD>]

  Lists the expenses equal to every filter given, with their index. Without
  filters the whole ledger is listed.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "exact category")
	f.StringVar(&c.payment, "payment", "", "exact payment method")
	f.StringVar(&c.date, "date", "", "exact date (YYYY-MM-DD)")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var filter ledger.Filter
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "category":
			filter.Category = &c.category
		case "payment":
			filter.Payment = &c.payment
		case "date":
			filter.Date = &c.date
		}
	})

	svc, cleanup, err := c.app.Open(ctx)
	if err != nil {
		errorf(c.app, "opening ledger: %v", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	l := svc.Ledger()
	positions := l.Find(filter)
	records := make([]core.Record, len(positions))
	for i, p := range positions {
		records[i], _ = l.Record(p)
	}

	c.app.printMarkdown(render.Records("Search results", positions, records, c.app.Formatter()))
	return subcommands.ExitSuccess
}

// summaryCmd reports totals over the whole ledger.
type summaryCmd struct {
	app *App
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the total and the per-category breakdown" }
func (*summaryCmd) Usage() string {
	return `spese summary

  Displays the total of every expense and the total per category.
`
}

func (c *summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, cleanup, err := c.app.Open(ctx)
	if err != nil {
		errorf(c.app, "opening ledger: %v", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	c.app.printMarkdown(render.Summary(svc.Ledger().Summary(), c.app.Formatter()))
	return subcommands.ExitSuccess
}

// monthlyCmd reports totals for one month.
type monthlyCmd struct {
	app   *App
	month string
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "display the totals of one month" }
func (*monthlyCmd) Usage() string {
	return `spese monthly [-m <YYYY-MM>]

  Displays the total and the per-category breakdown of the expenses dated in
  the month. Defaults to the current month.
`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "month (YYYY-MM), defaults to the current month")
}

func (c *monthlyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, ok := c.app.parseMonth(c.month)
	if !ok {
		return subcommands.ExitUsageError
	}

	svc, cleanup, err := c.app.Open(ctx)
	if err != nil {
		errorf(c.app, "opening ledger: %v", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	c.app.printMarkdown(render.Monthly(svc.Ledger().MonthlySummary(ref), c.app.Formatter()))
	return subcommands.ExitSuccess
}

// recentCmd lists the last expenses entered.
type recentCmd struct {
	app *App
	n   int
}

func (*recentCmd) Name() string     { return "recent" }
func (*recentCmd) Synopsis() string { return "list the last expenses entered" }
func (*recentCmd) Usage() string {
	return `spese recent [-n <count>]

  Lists the last expenses in entry order, oldest first.
`
}

func (c *recentCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", ledger.DefaultRecent, "number of expenses")
}

func (c *recentCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, cleanup, err := c.app.Open(ctx)
	if err != nil {
		errorf(c.app, "opening ledger: %v", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	l := svc.Ledger()
	records := l.Recent(c.n)
	positions := make([]int, len(records))
	first := l.Len() - len(records)
	for i := range positions {
		positions[i] = first + i
	}

	c.app.printMarkdown(render.Records("Recent expenses", positions, records, c.app.Formatter()))
	return subcommands.ExitSuccess
}

// chartCmd draws the category breakdown.
type chartCmd struct {
	app   *App
	month string
	width int
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw spending per category" }
func (*chartCmd) Usage() string {
	return `spese chart [-m <YYYY-MM>] [-width <columns>]

  Draws a bar chart of the total per category, over the whole ledger or over
  one month.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "restrict to a month (YYYY-MM)")
	f.IntVar(&c.width, "width", render.DefaultBarWidth, "length of the longest bar")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var ref time.Time
	if c.month != "" {
		var ok bool
		if ref, ok = c.app.parseMonth(c.month); !ok {
			return subcommands.ExitUsageError
		}
	}

	svc, cleanup, err := c.app.Open(ctx)
	if err != nil {
		errorf(c.app, "opening ledger: %v", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	l := svc.Ledger()
	title, summary := "Spending by category", l.Summary()
	if c.month != "" {
		m := l.MonthlySummary(ref)
		title, summary = fmt.Sprintf("Spending by category, %s", m.Month), m.Summary
	}

	c.app.printMarkdown(render.Chart(title, summary, c.app.Formatter(), c.width))
	return subcommands.ExitSuccess
}

// parseMonth reads a YYYY-MM value; empty means the current month.
func (a *App) parseMonth(s string) (time.Time, bool) {
	if s == "" {
		return a.Clock.Now(), true
	}
	t, err := time.Parse(core.MonthLayout, s)
	if err != nil {
		errorf(a, "invalid month %q: want YYYY-MM", s)
		return time.Time{}, false
	}
	return t, true
}
