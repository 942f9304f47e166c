// Package storage defines the backing-store port of the ledger.
//
// A backing store holds the full persisted ledger and supports exactly two
// operations: read everything and overwrite everything. Implementations live
// in the sub-packages (csvfile, sqlite, google, memory).
package storage

import (
	"context"
	"io/fs"

	"spese/internal/core"
)

// ErrNotExist reports an absent backing store. It is fs.ErrNotExist, so
// errors coming from the os package match it directly.
var ErrNotExist = fs.ErrNotExist

// Ports for outbound adapters.
type (
	// RecordLoader reads the whole persisted ledger, oldest record first.
	RecordLoader interface {
		Load(ctx context.Context) ([]core.Record, error)
	}

	// RecordSaver replaces the whole persisted ledger with records.
	RecordSaver interface {
		Save(ctx context.Context, records []core.Record) error
	}

	// RecordStore is a backing store addressed by a single location
	// (file path, database path, spreadsheet tab).
	RecordStore interface {
		RecordLoader
		RecordSaver
		Location() string
	}
)

// Columns is the fixed field order of the tabular persisted format.
var Columns = []string{"Amount", "Category", "Date", "Payment"}
