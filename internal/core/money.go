// Package core provides the expense record model and amount handling.
//
// This file contains the functions converting amounts between their
// textual form (CLI input, backing store cells) and decimal values.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// kept as given: the ledger does not reject negative amounts. Values are kept
// exact, there is no rounding.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount(" 100 ")  -> 100, nil
//	ParseAmount("abc")    -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot, unless a dot is already used
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// DecodeAmount parses an amount as written by FormatAmount. Unlike
// ParseAmount it accepts no spaces and no decimal comma, so "1,234" is an
// error rather than 1.234.
func DecodeAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || s != strings.TrimSpace(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// FormatAmount renders an amount in its plain numeric form, as written to
// the backing store.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}
