// Package services orchestrates ledger mutations with change notification.
package services

import (
	"context"
	"errors"
	"fmt"

	"spese/internal/amqp"
	"spese/internal/core"
	"spese/internal/ledger"
	"spese/internal/log"

	"github.com/shopspring/decimal"
)

// Publisher sends change events for persisted mutations.
type Publisher interface {
	PublishExpenseChange(ctx context.Context, msg *amqp.ExpenseChangeMessage) error
	Close() error
}

// ExpenseService orchestrates expense operations across the ledger and AMQP
type ExpenseService struct {
	ledger    *ledger.Store
	publisher Publisher
}

// NewExpenseService wraps l. A nil publisher disables change events.
func NewExpenseService(l *ledger.Store, publisher Publisher) *ExpenseService {
	return &ExpenseService{
		ledger:    l,
		publisher: publisher,
	}
}

// Ledger returns the wrapped ledger for queries.
func (s *ExpenseService) Ledger() *ledger.Store {
	return s.ledger
}

// AddExpense appends an expense dated today and publishes an add event.
func (s *ExpenseService) AddExpense(ctx context.Context, amount decimal.Decimal, category, payment string) (int, core.Record, error) {
	index, err := s.ledger.Add(ctx, amount, category, payment)
	if err != nil {
		s.logFailure(ctx, log.OpAdd, index, err)
		return index, core.Record{}, fmt.Errorf("add expense: %w", err)
	}

	rec, _ := s.ledger.Record(index)
	s.logChange(ctx, log.OpAdd, index, rec)
	s.publish(ctx, amqp.NewExpenseChangeMessage(amqp.OpAdd, index, rec))
	return index, rec, nil
}

// EditExpense applies p to the expense at index and publishes an edit event.
func (s *ExpenseService) EditExpense(ctx context.Context, index int, p ledger.Patch) (core.Record, error) {
	rec, err := s.ledger.Edit(ctx, index, p)
	if err != nil {
		s.logFailure(ctx, log.OpEdit, index, err)
		return rec, fmt.Errorf("edit expense %d: %w", index, err)
	}

	s.logChange(ctx, log.OpEdit, index, rec)
	s.publish(ctx, amqp.NewExpenseChangeMessage(amqp.OpEdit, index, rec))
	return rec, nil
}

// DeleteExpense removes the expense at index and publishes a delete event.
func (s *ExpenseService) DeleteExpense(ctx context.Context, index int) (core.Record, error) {
	rec, err := s.ledger.Delete(ctx, index)
	if err != nil {
		s.logFailure(ctx, log.OpDelete, index, err)
		return rec, fmt.Errorf("delete expense %d: %w", index, err)
	}

	s.logChange(ctx, log.OpDelete, index, rec)
	s.publish(ctx, amqp.NewExpenseChangeMessage(amqp.OpDelete, index, rec))
	return rec, nil
}

// publish never fails the caller: the mutation is already durable.
func (s *ExpenseService) publish(ctx context.Context, msg *amqp.ExpenseChangeMessage) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentAMQP)
	if s.publisher == nil {
		logger.DebugContext(ctx, "AMQP client not available, skipping change message", log.FieldOperation, msg.Op)
		return
	}

	if err := s.publisher.PublishExpenseChange(ctx, msg); err != nil {
		fields := log.NewFields().
			WithOperation(log.OpPublish).
			WithRecord(msg.Index, msg.Record()).
			WithError(err)
		logger.ErrorContext(ctx, "Failed to publish change message", fields.ToSlice()...)
	}
}

func (s *ExpenseService) logChange(ctx context.Context, op string, index int, rec core.Record) {
	fields := log.NewFields().WithOperation(op).WithRecord(index, rec)
	log.FromContext(ctx).WithComponent(log.ComponentLedger).
		InfoContext(ctx, "Expense "+op+" persisted", fields.ToSlice()...)
}

// logFailure skips index errors: they are caller mistakes, reported by the CLI.
func (s *ExpenseService) logFailure(ctx context.Context, op string, index int, err error) {
	if errors.Is(err, core.ErrIndexOutOfRange) {
		return
	}
	fields := log.NewFields().WithOperation(op).WithError(err)
	fields[log.FieldIndex] = index
	log.FromContext(ctx).WithComponent(log.ComponentLedger).
		ErrorContext(ctx, "Expense "+op+" failed", fields.ToSlice()...)
}

// Close closes the AMQP connection
func (s *ExpenseService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close expense service: amqp: %w", err)
	}
	return nil
}
