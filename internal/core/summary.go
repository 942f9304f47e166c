package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the total of a set of records and its category breakdown.
type Summary struct {
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
	Count      int
}

// MonthOverview is a summary restricted to one YYYY-MM month.
type MonthOverview struct {
	Month string
	Summary
}

// Summarize sums the amounts of records, overall and per category.
func Summarize(records []Record) Summary {
	s := Summary{
		Total:      decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
	}
	for _, r := range records {
		s.Total = s.Total.Add(r.Amount)
		s.ByCategory[r.Category] = s.ByCategory[r.Category].Add(r.Amount)
		s.Count++
	}
	return s
}

// Categories returns the breakdown sorted by amount, largest first, then by
// name so the order is stable.
func (s Summary) Categories() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(s.ByCategory))
	for name, amount := range s.ByCategory {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Share returns the fraction of the total held by amount, in percent.
// An empty or zero total yields zero.
func (s Summary) Share(amount decimal.Decimal) decimal.Decimal {
	if s.Total.IsZero() {
		return decimal.Zero
	}
	return amount.Div(s.Total).Mul(decimal.NewFromInt(100))
}
