// Package ledger holds the authoritative in-memory expense ledger and keeps
// it synchronized with a backing store.
//
// The ledger is an ordered sequence of records in insertion order. A record
// has no identity beyond its position: deleting a record shifts every later
// position down by one, so callers must not keep positions across mutations.
//
// Every mutation ends by rewriting the whole backing store. A Store is not
// safe for concurrent use.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spese/internal/core"
	"spese/internal/storage"

	"github.com/shopspring/decimal"
)

// DefaultRecent is the number of records Recent returns when callers have no
// preference.
const DefaultRecent = 5

// Store is the ledger: the ordered records and the backing store they are
// persisted to.
type Store struct {
	backing storage.RecordStore
	clock   core.Clock
	records []core.Record
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to date new records and to pick the current
// month.
func WithClock(c core.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Patch lists the fields to change on a record. A nil field is left as is;
// a non-nil one is applied even when it holds a zero value.
type Patch struct {
	Amount   *decimal.Decimal
	Category *string
	Payment  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Payment == nil
}

// Filter selects records by equality. A nil field does not filter.
type Filter struct {
	Category *string
	Payment  *string
	Date     *string
}

// Match reports whether r satisfies every supplied filter.
func (f Filter) Match(r core.Record) bool {
	if f.Category != nil && r.Category != *f.Category {
		return false
	}
	if f.Payment != nil && r.Payment != *f.Payment {
		return false
	}
	if f.Date != nil && r.Date != *f.Date {
		return false
	}
	return true
}

// Open loads the ledger from backing. An absent backing store yields an empty
// ledger; any other load failure is returned.
func Open(ctx context.Context, backing storage.RecordStore, opts ...Option) (*Store, error) {
	s := &Store{
		backing: backing,
		clock:   core.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}

	records, err := backing.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		slog.InfoContext(ctx, "Backing store absent, starting with an empty ledger",
			"location", backing.Location())
		records = []core.Record{}
	case err != nil:
		return nil, fmt.Errorf("load ledger from %s: %w", backing.Location(), err)
	}
	s.records = records

	slog.DebugContext(ctx, "Ledger loaded", "location", backing.Location(), "records", len(records))
	return s, nil
}

// Location returns where the ledger is persisted.
func (s *Store) Location() string { return s.backing.Location() }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Record returns the record at index.
func (s *Store) Record(index int) (core.Record, error) {
	if err := s.checkIndex(index); err != nil {
		return core.Record{}, err
	}
	return s.records[index], nil
}

// Records returns a copy of the whole ledger, oldest first.
func (s *Store) Records() []core.Record {
	return append([]core.Record(nil), s.records...)
}

// Add appends a record dated today and persists the ledger. On success the
// new record is the last one and is durable. The returned index is its
// position.
func (s *Store) Add(ctx context.Context, amount decimal.Decimal, category, payment string) (int, error) {
	rec := core.NewRecord(amount, category, payment, s.clock.Now())
	s.records = append(s.records, rec)
	index := len(s.records) - 1

	if err := s.persist(ctx); err != nil {
		return index, err
	}
	return index, nil
}

// Edit applies p to the record at index and persists the ledger. The date is
// never changed. An index outside [0, Len()) returns core.ErrIndexOutOfRange
// and leaves the ledger untouched.
func (s *Store) Edit(ctx context.Context, index int, p Patch) (core.Record, error) {
	if err := s.checkIndex(index); err != nil {
		return core.Record{}, err
	}

	rec := &s.records[index]
	if p.Amount != nil {
		rec.Amount = *p.Amount
	}
	if p.Category != nil {
		rec.Category = *p.Category
	}
	if p.Payment != nil {
		rec.Payment = *p.Payment
	}

	if err := s.persist(ctx); err != nil {
		return *rec, err
	}
	return *rec, nil
}

// Delete removes the record at index, shifting later records down by one,
// and persists the ledger. An index outside [0, Len()) returns
// core.ErrIndexOutOfRange and leaves the ledger untouched.
func (s *Store) Delete(ctx context.Context, index int) (core.Record, error) {
	if err := s.checkIndex(index); err != nil {
		return core.Record{}, err
	}

	removed := s.records[index]
	s.records = append(s.records[:index], s.records[index+1:]...)

	if err := s.persist(ctx); err != nil {
		return removed, err
	}
	return removed, nil
}

// Find returns the positions of the records matching f, in ledger order.
func (s *Store) Find(f Filter) []int {
	positions := make([]int, 0)
	for i, r := range s.records {
		if f.Match(r) {
			positions = append(positions, i)
		}
	}
	return positions
}

// Search returns the records matching f, in ledger order. An empty filter
// returns the whole ledger.
func (s *Store) Search(f Filter) []core.Record {
	out := make([]core.Record, 0)
	for _, r := range s.records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summary totals the whole ledger, overall and per category.
func (s *Store) Summary() core.Summary {
	return core.Summarize(s.records)
}

// MonthlySummary totals the records dated in the month of ref.
func (s *Store) MonthlySummary(ref time.Time) core.MonthOverview {
	month := ref.Format(core.MonthLayout)
	var inMonth []core.Record
	for _, r := range s.records {
		if r.Month() == month {
			inMonth = append(inMonth, r)
		}
	}
	return core.MonthOverview{Month: month, Summary: core.Summarize(inMonth)}
}

// ThisMonth is MonthlySummary for the current month of the store clock.
func (s *Store) ThisMonth() core.MonthOverview {
	return s.MonthlySummary(s.clock.Now())
}

// Recent returns the last n records in ledger order, fewer when the ledger
// is shorter. It is a suffix of the ledger, not a sort by date.
func (s *Store) Recent(n int) []core.Record {
	if n <= 0 {
		return []core.Record{}
	}
	start := len(s.records) - n
	if start < 0 {
		start = 0
	}
	return append([]core.Record{}, s.records[start:]...)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("%w: %d not in [0, %d)", core.ErrIndexOutOfRange, index, len(s.records))
	}
	return nil
}

// persist rewrites the backing store with the current ledger. On failure the
// in-memory ledger is ahead of storage and the error says so.
func (s *Store) persist(ctx context.Context) error {
	if err := s.backing.Save(ctx, s.records); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger",
			"location", s.backing.Location(),
			"records", len(s.records),
			"error", err)
		return fmt.Errorf("%w: %s: %w", core.ErrStorageWrite, s.backing.Location(), err)
	}
	return nil
}
