package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"spese/internal/core"

	"github.com/shopspring/decimal"
)

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentLedger, Output: &buf})

	logger.InfoContext(context.Background(), "Expense added", FieldIndex, 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if entry[FieldComponent] != ComponentLedger {
		t.Errorf("component = %v, want %s", entry[FieldComponent], ComponentLedger)
	}
	if entry["msg"] != "Expense added" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry[FieldIndex] != float64(3) {
		t.Errorf("index = %v", entry[FieldIndex])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.InfoContext(context.Background(), "hidden")
	logger.DebugContext(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	logger.WarnContext(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), "component=app") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: slog.LevelInfo, Output: &buf})
	storage := base.WithComponent(ComponentStorage)

	if storage.Component() != ComponentStorage {
		t.Fatalf("Component() = %q", storage.Component())
	}
	if base.Component() != ComponentApp {
		t.Fatalf("base component changed to %q", base.Component())
	}
	storage.ErrorContext(context.Background(), "write failed")
	if strings.Count(buf.String(), "component=") != 1 {
		t.Fatalf("component logged more than once: %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := New(Config{Component: ComponentCLI, Output: &bytes.Buffer{}})
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatalf("FromContext returned a different logger")
	}
	if got := FromContext(context.Background()); got.Component() != ComponentApp {
		t.Fatalf("fallback component = %q", got.Component())
	}
}

func TestLogFields(t *testing.T) {
	rec := core.Record{Amount: decimal.RequireFromString("12.50"), Category: "Food", Date: "2025-07-01", Payment: "Cash"}
	f := NewFields().
		WithOperation(OpAdd).
		WithRecord(2, rec).
		WithError(errors.New("boom")).
		WithError(nil)

	if f[FieldOperation] != OpAdd || f[FieldIndex] != 2 || f[FieldAmount] != "12.5" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if f[FieldError] != "boom" {
		t.Fatalf("error field = %v", f[FieldError])
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Fatalf("ToSlice length = %d", got)
	}
}
