package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext stores logger in ctx.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogExpenseCreated logs successful expense creation
func (sl *StructuredLogger) LogExpenseCreated(ctx context.Context, id, month, category string, amountCents int64) {
	fields := NewFields().
		WithExpense(id, month, category, amountCents).
		WithOperation(OpCreate).
		WithComponent(ComponentExpense)

	sl.logger.Fields(ctx, slog.LevelInfo, "Expense created", fields)
}

// LogExpenseDeleted logs successful expense deletion
func (sl *StructuredLogger) LogExpenseDeleted(ctx context.Context, id, month, category string, amountCents int64) {
	fields := NewFields().
		WithExpense(id, month, category, amountCents).
		WithOperation(OpDelete).
		WithComponent(ComponentExpense)

	sl.logger.Fields(ctx, slog.LevelInfo, "Expense deleted", fields)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.Fields(ctx, slog.LevelError, msg, allFields)
}
