package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 day format records are stored with.
const DateLayout = "2006-01-02"

// MonthLayout is the year-month prefix used to group records by month.
const MonthLayout = "2006-01"

type (
	// Record is one spending event.
	Record struct {
		Amount   decimal.Decimal
		Category string
		Date     string // YYYY-MM-DD
		Payment  string // Payment method
	}

	// Clock provides the current time. Tests inject a fixed one.
	Clock interface {
		Now() time.Time
	}

	// ClockFunc adapts a plain function to Clock.
	ClockFunc func() time.Time
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrDataCorruption  = errors.New("data corruption")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrStorageWrite    = errors.New("storage write failed")
)

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

func (f ClockFunc) Now() time.Time { return f() }

// NewRecord builds a record dated on the day of now.
func NewRecord(amount decimal.Decimal, category, payment string, now time.Time) Record {
	return Record{
		Amount:   amount,
		Category: category,
		Date:     now.Format(DateLayout),
		Payment:  payment,
	}
}

// Month returns the YYYY-MM prefix of the record date, or "" when the date
// is shorter than that.
func (r Record) Month() string {
	if len(r.Date) < len(MonthLayout) {
		return ""
	}
	return r.Date[:len(MonthLayout)]
}

// Equal reports whether both records carry the same values. Amounts are
// compared numerically, so 100 and 100.0 are equal.
func (r Record) Equal(o Record) bool {
	return r.Amount.Equal(o.Amount) &&
		r.Category == o.Category &&
		r.Date == o.Date &&
		r.Payment == o.Payment
}
