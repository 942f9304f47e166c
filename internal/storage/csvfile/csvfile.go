// Package csvfile stores the ledger as a comma-separated text file with a
// header row naming the four record fields.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"spese/internal/core"
	"spese/internal/storage"
)

// Store is a CSV backing file. Every Save rewrites the whole file through a
// temporary file renamed over the target, so a crash leaves either the old or
// the new content on disk.
type Store struct {
	path string
}

// Ensure interface conformance
var _ storage.RecordStore = (*Store)(nil)

// New returns a store backed by the file at path. The file does not need to
// exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Location implements storage.RecordStore
func (s *Store) Location() string { return s.path }

// Load implements storage.RecordLoader. A missing file is reported with an
// error matching storage.ErrNotExist.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read ledger file %s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Ledger file loaded", "path", s.path, "records", len(records))
	return records, nil
}

// Save implements storage.RecordSaver
func (s *Store) Save(ctx context.Context, records []core.Record) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary ledger file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, records); err != nil {
		return fmt.Errorf("write temporary ledger file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temporary ledger file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary ledger file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temporary ledger file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	slog.DebugContext(ctx, "Ledger file written", "path", s.path, "records", len(records))
	return nil
}

// Decode reads a header row and one row per record from r.
// An empty input is an empty ledger.
func Decode(r io.Reader) ([]core.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: %v", core.ErrDataCorruption, err)
		}
		return nil, err
	}
	return storage.DecodeRows(rows)
}

// Encode writes the header row followed by one row per record to w.
func Encode(w io.Writer, records []core.Record) error {
	writer := csv.NewWriter(w)
	for _, row := range storage.EncodeRows(records) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
