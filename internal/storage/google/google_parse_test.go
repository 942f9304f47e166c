package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"spese/internal/core"

	"github.com/shopspring/decimal"
	"google.golang.org/api/googleapi"
)

func TestParseValues(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Amount", "Category", "Payment"},
		{"2025-07-01", "12.30", "Food", "Cash"},
		{"2025-07-02", 250.0, "Bills", "Card"},
		{},
	}
	records, err := parseValues(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Amount.Equal(decimal.RequireFromString("12.3")) {
		t.Fatalf("amount: got %s", records[0].Amount)
	}
	if !records[1].Amount.Equal(decimal.NewFromInt(250)) || records[1].Payment != "Card" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestParseValuesEmptySheet(t *testing.T) {
	records, err := parseValues(nil)
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty ledger, got %v (err=%v)", records, err)
	}
}

func TestParseValuesBadHeader(t *testing.T) {
	_, err := parseValues([][]interface{}{{"Primary", "Secondary", "Jan"}})
	if !errors.Is(err, core.ErrDataCorruption) {
		t.Fatalf("expected ErrDataCorruption, got %v", err)
	}
}

func TestToValuesRoundTrip(t *testing.T) {
	in := []core.Record{
		{Amount: decimal.RequireFromString("99.99"), Category: "Tech", Date: "2025-08-01", Payment: "Card"},
	}
	values := toValues(in)
	if len(values) != 2 || values[0][0] != "Amount" || values[1][0] != "99.99" {
		t.Fatalf("unexpected values: %v", values)
	}
	out, err := parseValues(values)
	if err != nil || len(out) != 1 || !out[0].Equal(in[0]) {
		t.Fatalf("round trip failed: %v (err=%v)", out, err)
	}
}

func TestParseValuesShortRows(t *testing.T) {
	in := []core.Record{
		{Amount: decimal.NewFromInt(40), Category: " Bills ", Date: "2025-07-02", Payment: ""},
		{Amount: decimal.NewFromInt(3), Category: "", Date: "", Payment: ""},
	}
	values := toValues(in)
	// The API leaves out trailing empty cells
	values[1] = values[1][:3]
	values[2] = values[2][:1]

	out, err := parseValues(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(out) != 2 || !out[0].Equal(in[0]) || !out[1].Equal(in[1]) {
		t.Fatalf("round trip failed: %+v", out)
	}
}

func TestIsMissingRange(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"missing tab", &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: Expenses!A:Z"}, true},
		{"wrapped", fmt.Errorf("get: %w", &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: X"}), true},
		{"permission", &googleapi.Error{Code: http.StatusForbidden, Message: "The caller does not have permission"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMissingRange(tt.err); got != tt.want {
				t.Errorf("isMissingRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(t.Context(), Config{}); err == nil {
		t.Fatal("expected error for missing spreadsheet ID")
	}
}
