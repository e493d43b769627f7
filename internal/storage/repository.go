// Package storage persists expenses in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"budgetcoach/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores expenses in a single table indexed by month.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens dbPath, creating its directory, and migrates it.
// ":memory:" opens a private in-memory database.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert stores e under a new identifier. The month column is always derived
// from the expense date.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, date, month, description, amount_cents, category) VALUES (?, ?, ?, ?, ?, ?)`,
		id, e.Date.String(), e.Month().String(), e.Description, e.Amount.Cents, string(e.Category))
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", id,
		"month", e.Month().String(),
		"amount_cents", e.Amount.Cents,
		"category", string(e.Category))

	return id, nil
}

// FetchByMonth returns every expense whose month equals m, ordered by date.
func (r *SQLiteRepository) FetchByMonth(ctx context.Context, m core.MonthKey) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, amount_cents, category FROM expenses WHERE month = ? ORDER BY date, created_at, id`,
		m.String())
	if err != nil {
		return nil, fmt.Errorf("query expenses by month: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// DeleteByID removes an expense and returns it. A missing id yields
// core.ErrExpenseNotFound.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (core.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, date, description, amount_cents, category FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	if err != nil {
		return core.Expense{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return core.Expense{}, fmt.Errorf("delete expense: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit delete: %w", err)
	}

	slog.DebugContext(ctx, "Expense deleted from SQLite", "id", id)
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e        core.Expense
		date     string
		category string
	)
	if err := s.Scan(&e.ID, &date, &e.Description, &e.Amount.Cents, &category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored expense %s: %w", e.ID, err)
	}
	e.Date = d
	e.Category = core.Category(category)
	return e, nil
}
