package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewRecordDerivesDate(t *testing.T) {
	now := time.Date(2025, 3, 7, 23, 59, 0, 0, time.UTC)
	r := NewRecord(decimal.NewFromInt(12), "Food", "Cash", now)
	if r.Date != "2025-03-07" {
		t.Fatalf("expected 2025-03-07, got %q", r.Date)
	}
	if r.Month() != "2025-03" {
		t.Fatalf("expected month 2025-03, got %q", r.Month())
	}
}

func TestRecordMonthShortDate(t *testing.T) {
	if m := (Record{Date: "2025"}).Month(); m != "" {
		t.Fatalf("expected empty month, got %q", m)
	}
}

func TestRecordEqual(t *testing.T) {
	a := Record{Amount: decimal.RequireFromString("100"), Category: "Food", Date: "2025-01-01", Payment: "Cash"}
	b := Record{Amount: decimal.RequireFromString("100.0"), Category: "Food", Date: "2025-01-01", Payment: "Cash"}
	if !a.Equal(b) {
		t.Fatalf("expected %v to equal %v", a, b)
	}
	b.Payment = "Card"
	if a.Equal(b) {
		t.Fatalf("expected records to differ")
	}
}

func TestClockFunc(t *testing.T) {
	fixed := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	var c Clock = ClockFunc(func() time.Time { return fixed })
	if !c.Now().Equal(fixed) {
		t.Fatalf("expected %v, got %v", fixed, c.Now())
	}
}
