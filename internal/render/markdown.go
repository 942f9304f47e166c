package render

import (
	"fmt"
	"strings"

	"spese/internal/core"

	"github.com/shopspring/decimal"
)

// Summary renders the whole-ledger report: total, record count and the
// category breakdown with shares.
func Summary(s core.Summary, f Formatter) string {
	var b strings.Builder
	b.WriteString("# Expense Summary\n\n")
	writeTotals(&b, s, f)
	writeCategories(&b, s, f)
	return b.String()
}

// Monthly renders the report of one month.
func Monthly(m core.MonthOverview, f Formatter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Expenses for %s\n\n", m.Month)
	writeTotals(&b, m.Summary, f)
	writeCategories(&b, m.Summary, f)
	return b.String()
}

// Records renders a titled table of records. positions holds the ledger
// position of each record and must be as long as records; nil numbers the
// rows from zero.
func Records(title string, positions []int, records []core.Record, f Formatter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(records) == 0 {
		b.WriteString("_No expenses._\n")
		return b.String()
	}

	b.WriteString("| # | Date | Category | Payment | Amount |\n")
	b.WriteString("|--:|:-----|:---------|:--------|-------:|\n")
	for i, r := range records {
		pos := i
		if positions != nil {
			pos = positions[i]
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			pos, escape(r.Date), escape(r.Category), escape(r.Payment), f.Format(r.Amount))
	}
	return b.String()
}

func writeTotals(b *strings.Builder, s core.Summary, f Formatter) {
	fmt.Fprintf(b, "**Total:** %s across %d expense%s\n\n", f.Format(s.Total), s.Count, plural(s.Count))
}

func writeCategories(b *strings.Builder, s core.Summary, f Formatter) {
	cats := s.Categories()
	if len(cats) == 0 {
		b.WriteString("_No expenses._\n")
		return
	}

	b.WriteString("| Category | Amount | Share |\n")
	b.WriteString("|:---------|-------:|------:|\n")
	for _, c := range cats {
		fmt.Fprintf(b, "| %s | %s | %s |\n", escape(c.Name), f.Format(c.Amount), percent(s.Share(c.Amount)))
	}
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// escape keeps free-form text from breaking the table layout.
func escape(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
