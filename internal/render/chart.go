package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"spese/internal/core"

	"github.com/shopspring/decimal"
)

// DefaultBarWidth is the length of the longest bar in a chart.
const DefaultBarWidth = 30

// Chart renders the category breakdown of s as a horizontal bar chart in a
// code block. Bars are scaled to the largest category; categories with a
// zero or negative total get no bar.
func Chart(title string, s core.Summary, f Formatter, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	cats := s.Categories()
	if len(cats) == 0 {
		b.WriteString("_No expenses._\n")
		return b.String()
	}

	labelWidth, amountWidth := 0, 0
	amounts := make([]string, len(cats))
	for i, c := range cats {
		labelWidth = max(labelWidth, utf8.RuneCountInString(c.Name))
		amounts[i] = f.Format(c.Amount)
		amountWidth = max(amountWidth, utf8.RuneCountInString(amounts[i]))
	}

	// Categories() is sorted largest first
	largest := cats[0].Amount

	b.WriteString("```\n")
	for i, c := range cats {
		bar := strings.Repeat("█", barLength(c.Amount, largest, width))
		fmt.Fprintf(&b, "%s  %s  %s %s\n",
			pad(c.Name, labelWidth),
			padLeft(amounts[i], amountWidth),
			padLeft(percent(s.Share(c.Amount)), 6),
			bar)
	}
	b.WriteString("```\n")
	return b.String()
}

func barLength(amount, largest decimal.Decimal, width int) int {
	if !amount.IsPositive() || !largest.IsPositive() {
		return 0
	}
	n := int(amount.Div(largest).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n == 0 {
		// Keep tiny categories visible
		n = 1
	}
	return n
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-utf8.RuneCountInString(s)))
}

func padLeft(s string, width int) string {
	return strings.Repeat(" ", max(0, width-utf8.RuneCountInString(s))) + s
}
