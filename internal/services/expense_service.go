// Package services orchestrates expense writes across the store and the
// event bus.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budgetcoach/internal/amqp"
	"budgetcoach/internal/core"
	"budgetcoach/internal/log"
)

// ExpenseStore is the write side of the expense store.
type ExpenseStore interface {
	Insert(ctx context.Context, e core.Expense) (string, error)
	DeleteByID(ctx context.Context, id string) (core.Expense, error)
	Close() error
}

// EventPublisher announces expense changes.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEvent) error
	Close() error
}

// ExpenseService saves expenses and publishes change events
type ExpenseService struct {
	storage   ExpenseStore
	publisher EventPublisher
	logger    *log.StructuredLogger
}

// NewExpenseService wires a store with an optional publisher. Pass nil when
// no broker is configured.
func NewExpenseService(storage ExpenseStore, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
		logger:    log.NewStructuredLogger(logger),
	}
}

// CreateExpense validates and stores e, then publishes a created event.
// Publish failures are logged; the expense stays saved.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	cat, err := core.ParseCategory(string(e.Category))
	if err != nil {
		return core.Expense{}, err
	}
	e.Category = cat
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	id, err := s.storage.Insert(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	s.logger.LogExpenseCreated(ctx, id, e.Month().String(), string(e.Category), e.Amount.Cents)
	s.publish(ctx, amqp.EventCreated, e)
	return e, nil
}

// DeleteExpense removes the expense with id and publishes a deleted event.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) (core.Expense, error) {
	if id == "" {
		return core.Expense{}, &core.ValidationError{Field: "id", Value: id, Err: errors.New("must not be empty")}
	}
	e, err := s.storage.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrExpenseNotFound) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("delete expense: %w", err)
	}

	s.logger.LogExpenseDeleted(ctx, id, e.Month().String(), string(e.Category), e.Amount.Cents)
	s.publish(ctx, amqp.EventDeleted, e)
	return e, nil
}

func (s *ExpenseService) publish(ctx context.Context, t amqp.EventType, e core.Expense) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping expense event", "type", t, "id", e.ID)
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(t, e)); err != nil {
		s.logger.LogError(ctx, "Failed to publish expense event", err, log.ComponentAMQP, log.OpPublish,
			log.NewFields().WithExpense(e.ID, e.Month().String(), string(e.Category), e.Amount.Cents))
	}
}

// Close closes both storage and publisher connections
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
