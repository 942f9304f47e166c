package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"spese/internal/core"
	"spese/internal/storage/csvfile"
	"spese/internal/storage/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() Option {
	return WithClock(core.ClockFunc(func() time.Time { return fixedNow }))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func str(s string) *string { return &s }

func openMemory(t *testing.T, records ...core.Record) (*Store, *memory.Store) {
	t.Helper()
	backing := memory.NewWith(records...)
	s, err := Open(context.Background(), backing, fixedClock())
	require.NoError(t, err)
	return s, backing
}

func TestOpen_MissingBackingStoreIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.csv")
	s, err := Open(context.Background(), csvfile.New(path))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Search(Filter{}))
}

func TestOpen_CorruptBackingStoreFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.csv")
	writeFile(t, path, "Amount,Category,Date,Payment\nlots,Food,2025-01-01,Cash\n")

	_, err := Open(context.Background(), csvfile.New(path))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDataCorruption), "got %v", err)
}

func TestAdd_DatesAndPersists(t *testing.T) {
	s, backing := openMemory(t)

	idx, err := s.Add(context.Background(), dec("12.5"), "Food", "Cash")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	rec, err := s.Record(0)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-15", rec.Date)
	assert.Equal(t, 1, backing.Saves())
	require.Len(t, backing.Snapshot(), 1)
	assert.True(t, backing.Snapshot()[0].Equal(rec))
}

func TestAdd_NewRecordIsLast(t *testing.T) {
	s, _ := openMemory(t)
	ctx := context.Background()
	for i, cat := range []string{"A", "B", "C"} {
		idx, err := s.Add(ctx, decimal.NewFromInt(int64(i)), cat, "Cash")
		require.NoError(t, err)
		assert.Equal(t, i, idx)
		last := s.Records()[s.Len()-1]
		assert.Equal(t, cat, last.Category)
	}
}

func TestSummary_TotalEqualsSumOfAdds(t *testing.T) {
	s, _ := openMemory(t)
	ctx := context.Background()
	amounts := []string{"0.1", "0.2", "19.99", "1000", "-5", "0"}
	want := decimal.Zero
	for _, a := range amounts {
		_, err := s.Add(ctx, dec(a), "X", "Cash")
		require.NoError(t, err)
		want = want.Add(dec(a))
	}
	assert.True(t, s.Summary().Total.Equal(want), "total %s want %s", s.Summary().Total, want)
}

func TestSummary_Scenario(t *testing.T) {
	s, _ := openMemory(t)
	ctx := context.Background()
	_, err := s.Add(ctx, decimal.NewFromInt(100), "Food", "Cash")
	require.NoError(t, err)
	_, err = s.Add(ctx, decimal.NewFromInt(250), "Bills", "Card")
	require.NoError(t, err)

	sum := s.Summary()
	assert.True(t, sum.Total.Equal(decimal.NewFromInt(350)))
	require.Len(t, sum.ByCategory, 2)
	assert.True(t, sum.ByCategory["Food"].Equal(decimal.NewFromInt(100)))
	assert.True(t, sum.ByCategory["Bills"].Equal(decimal.NewFromInt(250)))
}

func TestRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.csv")
	ctx := context.Background()

	s, err := Open(ctx, csvfile.New(path), fixedClock())
	require.NoError(t, err)
	_, err = s.Add(ctx, dec("100"), "Food", "Cash")
	require.NoError(t, err)
	_, err = s.Add(ctx, dec("3.333"), "Fun, games", "Card \"gold\"")
	require.NoError(t, err)
	_, err = s.Add(ctx, dec("0"), "", "")
	require.NoError(t, err)

	reloaded, err := Open(ctx, csvfile.New(path))
	require.NoError(t, err)
	want, got := s.Records(), reloaded.Records()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "record %d: want %+v got %+v", i, want[i], got[i])
	}
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	for _, k := range []int{0, 1, 3, 5, 8} {
		s, _ := openMemory(t)
		for i := 0; i < k; i++ {
			_, err := s.Add(ctx, decimal.NewFromInt(int64(i)), "C", "P")
			require.NoError(t, err)
		}
		for _, n := range []int{1, 2, 5, 10} {
			got := s.Recent(n)
			want := min(n, k)
			require.Len(t, got, want, "k=%d n=%d", k, n)
			all := s.Records()
			for i, r := range got {
				assert.True(t, r.Equal(all[k-want+i]), "k=%d n=%d pos=%d", k, n, i)
			}
		}
	}
}

func TestRecent_EmptyLedger(t *testing.T) {
	s, _ := openMemory(t)
	got := s.Recent(DefaultRecent)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecent_NonPositive(t *testing.T) {
	s, _ := openMemory(t, core.Record{Amount: dec("1")})
	assert.Empty(t, s.Recent(0))
	assert.Empty(t, s.Recent(-3))
}

func TestSearch(t *testing.T) {
	records := []core.Record{
		{Amount: dec("1"), Category: "Food", Date: "2025-07-01", Payment: "Cash"},
		{Amount: dec("2"), Category: "Bills", Date: "2025-07-01", Payment: "Card"},
		{Amount: dec("3"), Category: "Food", Date: "2025-07-02", Payment: "Card"},
		{Amount: dec("4"), Category: "Food", Date: "2025-07-02", Payment: "Cash"},
	}
	s, _ := openMemory(t, records...)

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"no filter", Filter{}, []int{0, 1, 2, 3}},
		{"category", Filter{Category: str("Food")}, []int{0, 2, 3}},
		{"payment", Filter{Payment: str("Card")}, []int{1, 2}},
		{"date", Filter{Date: str("2025-07-02")}, []int{2, 3}},
		{"all filters", Filter{Category: str("Food"), Payment: str("Cash"), Date: str("2025-07-02")}, []int{3}},
		{"no match", Filter{Category: str("Travel")}, []int{}},
		{"empty string is a real filter", Filter{Category: str("")}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Find(tt.filter))
			got := s.Search(tt.filter)
			require.Len(t, got, len(tt.want))
			for i, pos := range tt.want {
				assert.True(t, records[pos].Equal(got[i]))
			}
		})
	}
}

func TestSearch_DoesNotPersist(t *testing.T) {
	s, backing := openMemory(t, core.Record{Amount: dec("1")})
	s.Search(Filter{})
	s.Summary()
	s.ThisMonth()
	s.Recent(5)
	assert.Equal(t, 0, backing.Saves())
}

func TestEdit(t *testing.T) {
	orig := core.Record{Amount: dec("10"), Category: "Food", Date: "2025-07-01", Payment: "Cash"}
	s, backing := openMemory(t, orig)
	ctx := context.Background()

	got, err := s.Edit(ctx, 0, Patch{Category: str("Groceries")})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Category)
	assert.True(t, got.Amount.Equal(orig.Amount))
	assert.Equal(t, orig.Payment, got.Payment)
	assert.Equal(t, orig.Date, got.Date)
	assert.Equal(t, 1, backing.Saves())

	zero := decimal.Zero
	got, err = s.Edit(ctx, 0, Patch{Amount: &zero, Payment: str("")})
	require.NoError(t, err)
	assert.True(t, got.Amount.IsZero(), "zero amount must be applied")
	assert.Equal(t, "", got.Payment, "empty payment must be applied")
	assert.Equal(t, "2025-07-01", got.Date)
	assert.True(t, backing.Snapshot()[0].Equal(got))
}

func TestEdit_OutOfRange(t *testing.T) {
	s, backing := openMemory(t, core.Record{Amount: dec("1")})
	for _, idx := range []int{-1, 1, 100} {
		_, err := s.Edit(context.Background(), idx, Patch{Category: str("x")})
		assert.True(t, errors.Is(err, core.ErrIndexOutOfRange), "index %d: got %v", idx, err)
	}
	assert.Equal(t, 0, backing.Saves())
}

func TestDelete(t *testing.T) {
	records := []core.Record{
		{Amount: dec("1"), Category: "A"},
		{Amount: dec("2"), Category: "B"},
		{Amount: dec("3"), Category: "C"},
	}
	s, backing := openMemory(t, records...)

	removed, err := s.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "B", removed.Category)
	assert.Equal(t, 2, s.Len())

	for _, r := range s.Search(Filter{}) {
		assert.NotEqual(t, "B", r.Category)
	}
	// Later records shift down by one
	rec, err := s.Record(1)
	require.NoError(t, err)
	assert.Equal(t, "C", rec.Category)
	assert.Len(t, backing.Snapshot(), 2)
}

func TestDelete_OutOfRange(t *testing.T) {
	s, backing := openMemory(t)
	_, err := s.Delete(context.Background(), 0)
	assert.True(t, errors.Is(err, core.ErrIndexOutOfRange), "got %v", err)
	assert.Equal(t, 0, backing.Saves())
}

func TestMonthlySummary(t *testing.T) {
	s, _ := openMemory(t,
		core.Record{Amount: dec("40"), Category: "Food", Date: "2025-06-30"},
		core.Record{Amount: dec("15"), Category: "Food", Date: "2025-07-01"},
	)
	_, err := s.Add(context.Background(), dec("5"), "Fun", "Cash") // dated 2025-07-15
	require.NoError(t, err)

	ov := s.ThisMonth()
	assert.Equal(t, "2025-07", ov.Month)
	assert.True(t, ov.Total.Equal(dec("20")))
	assert.Len(t, ov.ByCategory, 2)
	assert.True(t, ov.ByCategory["Food"].Equal(dec("15")))

	june := s.MonthlySummary(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-06", june.Month)
	assert.True(t, june.Total.Equal(dec("40")))

	empty := s.MonthlySummary(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, empty.Total.IsZero())
	assert.Empty(t, empty.ByCategory)
}

func TestMutation_StorageWriteFailure(t *testing.T) {
	s, backing := openMemory(t, core.Record{Amount: dec("1"), Category: "A"})
	boom := errors.New("disk full")
	backing.Fail(boom)
	ctx := context.Background()

	_, err := s.Add(ctx, dec("2"), "B", "Cash")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrStorageWrite))
	assert.True(t, errors.Is(err, boom))
	// The in-memory ledger is ahead of storage
	assert.Equal(t, 2, s.Len())
	assert.Len(t, backing.Snapshot(), 1)

	_, err = s.Edit(ctx, 0, Patch{Category: str("Z")})
	assert.True(t, errors.Is(err, core.ErrStorageWrite))

	_, err = s.Delete(ctx, 0)
	assert.True(t, errors.Is(err, core.ErrStorageWrite))
}

func TestRecords_ReturnsCopy(t *testing.T) {
	s, _ := openMemory(t, core.Record{Amount: dec("1"), Category: "A"})
	out := s.Records()
	out[0].Category = "mutated"
	rec, _ := s.Record(0)
	assert.Equal(t, "A", rec.Category)
}

func TestPatchIsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{Payment: str("")}.IsEmpty())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
