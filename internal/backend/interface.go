package backend

import (
	"context"

	"spese/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backing store and optional cleanup function
type BackendResult struct {
	Store   storage.RecordStore
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backing stores based on configuration
type Factory interface {
	// CreateBackend creates a backing store based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// CSV file, also the seed of the memory backend
	LedgerPath string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
