package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spese/internal/storage"
	"spese/internal/storage/csvfile"
	"spese/internal/storage/google"
	"spese/internal/storage/memory"
	"spese/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store := csvfile.New(config.LedgerPath)

	f.logger.DebugContext(ctx, "Initialized CSV backend", "path", config.LedgerPath)

	return &BackendResult{Store: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := sqlite.NewRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		CredentialsJSON: config.GoogleCredentialsJSON,
		CredentialsFile: config.GoogleCredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized Google Sheets backend", "location", cli.Location())

	return &BackendResult{Store: cli}, nil
}

// createMemoryBackend seeds a volatile store from the CSV ledger when one
// exists. Mutations never reach the file.
func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if config.LedgerPath == "" {
		return &BackendResult{Store: memory.New()}, nil
	}

	records, err := csvfile.New(config.LedgerPath).Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		f.logger.DebugContext(ctx, "Initialized empty memory backend", "seed", config.LedgerPath)
		return &BackendResult{Store: memory.New()}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized memory backend", "seed", config.LedgerPath, "records", len(records))

	return &BackendResult{Store: memory.NewWith(records...)}, nil
}
