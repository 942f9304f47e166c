// Package worker keeps a secondary backing store in step with the ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spese/internal/amqp"
	"spese/internal/core"
	"spese/internal/storage"
)

// MirrorWorker copies the whole ledger from a source store to a target
// store. Copies are full rewrites, so replaying or losing an event never
// leaves the target diverged after the next copy.
type MirrorWorker struct {
	source storage.RecordLoader
	target storage.RecordStore
}

func NewMirrorWorker(source storage.RecordLoader, target storage.RecordStore) *MirrorWorker {
	return &MirrorWorker{
		source: source,
		target: target,
	}
}

// Sync copies the source ledger to the target and returns the number of
// records written. An absent source is copied as an empty ledger.
func (w *MirrorWorker) Sync(ctx context.Context) (int, error) {
	records, err := w.source.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		records = []core.Record{}
	case err != nil:
		return 0, fmt.Errorf("load source ledger: %w", err)
	}

	if err := w.target.Save(ctx, records); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", core.ErrStorageWrite, w.target.Location(), err)
	}
	return len(records), nil
}

// HandleChangeMessage processes a single change message from AMQP by copying
// the ledger as it is now.
func (w *MirrorWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ExpenseChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"op", msg.Op,
		"index", msg.Index)

	n, err := w.Sync(ctx)
	if err != nil {
		return fmt.Errorf("mirror after %s: %w", msg.Op, err)
	}

	slog.InfoContext(ctx, "Mirrored ledger",
		"location", w.target.Location(),
		"records", n)
	return nil
}

// StartupSync copies once before consuming, recovering the changes made
// while the worker was down.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	n, err := w.Sync(ctx)
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "location", w.target.Location(), "records", n)
	return nil
}
