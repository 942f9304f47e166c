// Package render turns ledger aggregates into markdown reports and charts.
package render

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter renders amounts in a display currency. No conversion happens:
// the currency only chooses symbol, separators and precision.
type Formatter struct {
	cur money.Currency
}

// NewFormatter returns a formatter for the ISO 4217 code. Unknown codes fall
// back to a generic currency using the code as its symbol.
func NewFormatter(code string) Formatter {
	// money.New never returns a nil currency
	return Formatter{cur: *money.New(0, code).Currency()}
}

// Code returns the ISO code of the display currency.
func (f Formatter) Code() string { return f.cur.Code }

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Format renders d rounded to the currency precision. Amounts whose minor
// units overflow int64 are written as a plain number followed by the code.
func (f Formatter) Format(d decimal.Decimal) string {
	minor := d.Shift(int32(f.cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return d.StringFixed(int32(f.cur.Fraction)) + " " + f.cur.Code
	}
	return f.cur.Formatter().Format(minor.IntPart())
}
