// Package sqlite stores the ledger in a SQLite database, one row per record
// keyed by its position. The ledger keeps to its own table and migration
// history, so the database file may be shared with other applications.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spese/internal/core"
	"spese/internal/storage"

	_ "modernc.org/sqlite"
)

const (
	selectExpenses = `SELECT amount, category, date, payment FROM ledger_entries ORDER BY position`
	deleteExpenses = `DELETE FROM ledger_entries`
	insertExpense  = `INSERT INTO ledger_entries (position, amount, category, date, payment) VALUES (?, ?, ?, ?, ?)`
)

// Repository is a SQLite backing store. Save replaces every row inside a
// single transaction.
type Repository struct {
	db   *sql.DB
	path string
}

// Ensure interface conformance
var _ storage.RecordStore = (*Repository)(nil)

// NewRepository opens (creating if needed) the database at dbPath and runs
// the schema migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, path: dbPath}, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Location implements storage.RecordStore
func (r *Repository) Location() string { return r.path }

// Load implements storage.RecordLoader
func (r *Repository) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, selectExpenses)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	records := make([]core.Record, 0)
	for rows.Next() {
		var amount string
		var rec core.Record
		if err := rows.Scan(&amount, &rec.Category, &rec.Date, &rec.Payment); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		rec.Amount, err = core.DecodeAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", core.ErrDataCorruption, len(records)+1, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	slog.DebugContext(ctx, "Expenses loaded from SQLite", "path", r.path, "records", len(records))
	return records, nil
}

// Save implements storage.RecordSaver
func (r *Repository) Save(ctx context.Context, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteExpenses); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertExpense)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, core.FormatAmount(rec.Amount), rec.Category, rec.Date, rec.Payment); err != nil {
			return fmt.Errorf("insert expense %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expenses: %w", err)
	}

	slog.DebugContext(ctx, "Expenses saved to SQLite", "path", r.path, "records", len(records))
	return nil
}
