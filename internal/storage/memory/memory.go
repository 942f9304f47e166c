package memory

import (
	"context"
	"fmt"
	"sync"

	"spese/internal/core"
	"spese/internal/storage"
)

// Store keeps the persisted ledger in process memory. It is used for tests
// and dry runs; nothing survives the process.
type Store struct {
	mu      sync.Mutex
	items   []core.Record
	exists  bool
	saves   int
	failErr error
}

// Ensure interface conformance
var _ storage.RecordStore = (*Store)(nil)

// New returns an absent store: Load reports storage.ErrNotExist until the
// first Save.
func New() *Store {
	return &Store{}
}

// NewWith returns a store that already holds records.
func NewWith(records ...core.Record) *Store {
	return &Store{items: clone(records), exists: true}
}

// Location implements storage.RecordStore
func (s *Store) Location() string { return "memory" }

// Load implements storage.RecordLoader
func (s *Store) Load(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return nil, fmt.Errorf("load memory ledger: %w", storage.ErrNotExist)
	}
	return clone(s.items), nil
}

// Save implements storage.RecordSaver
func (s *Store) Save(_ context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.items = clone(records)
	s.exists = true
	s.saves++
	return nil
}

// Fail makes every following Save return err. A nil err restores normal
// behavior.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Saves returns how many successful Save calls were made.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Snapshot returns a copy of the records currently held.
func (s *Store) Snapshot() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

func clone(in []core.Record) []core.Record {
	return append([]core.Record(nil), in...)
}
