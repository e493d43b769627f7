// Package memory is an in-process expense store used by the memory backend
// and by tests.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"budgetcoach/internal/core"
)

type Store struct {
	mu    sync.RWMutex
	items []core.Expense
}

func New() *Store {
	return &Store{}
}

// NewFromFile seeds a store from a file of "date,category,amount[,description]"
// lines. Blank lines and lines starting with # are skipped. A missing file
// yields an empty store.
func NewFromFile(path string) (*Store, error) {
	s := New()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ",", 4)
		if len(parts) < 3 {
			return nil, fmt.Errorf("seed line %d: expected date,category,amount", lineNo)
		}
		desc := ""
		if len(parts) == 4 {
			desc = parts[3]
		}
		e, err := core.ParseExpense(parts[2], parts[1], desc, parts[0])
		if err != nil {
			return nil, fmt.Errorf("seed line %d: %w", lineNo, err)
		}
		if _, err := s.Insert(context.Background(), e); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return s, nil
}

// Insert stores the expense under a fresh identifier.
func (s *Store) Insert(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	e.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return e.ID, nil
}

// FetchByMonth returns copies of the expenses dated within m.
func (s *Store) FetchByMonth(ctx context.Context, m core.MonthKey) ([]core.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Expense
	for _, e := range s.items {
		if e.Month() == m {
			out = append(out, e)
		}
	}
	return out, nil
}

// DeleteByID removes and returns the expense with id.
func (s *Store) DeleteByID(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return e, nil
		}
	}
	return core.Expense{}, core.ErrExpenseNotFound
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Len returns the number of stored expenses.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
