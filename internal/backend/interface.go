// Package backend builds the expense store and the write path for the
// configured data backend.
package backend

import (
	"context"

	"budgetcoach/internal/core"
	"budgetcoach/internal/services"
)

// Store is what every backend provides: the engine reads through
// FetchByMonth, the expense service writes through Insert and DeleteByID.
type Store interface {
	services.ExpenseStore
	FetchByMonth(ctx context.Context, m core.MonthKey) ([]core.Expense, error)
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the built store, the service writing to it and the
// function releasing both.
type BackendResult struct {
	Store   Store
	Service *services.ExpenseService
	// Ready checks the store and, when configured, the broker.
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific
	SeedFile string

	// Event publishing, optional for both backends
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
