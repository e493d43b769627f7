package insight

import (
	"context"
	"sync"
	"time"

	"budgetcoach/internal/core"
)

type fakeStore struct {
	mu      sync.Mutex
	byMonth map[core.MonthKey][]core.Expense
	fail    map[core.MonthKey]error
	calls   []core.MonthKey
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byMonth: make(map[core.MonthKey][]core.Expense),
		fail:    make(map[core.MonthKey]error),
	}
}

func (f *fakeStore) add(date string, category core.Category, cents int64) {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	e := core.Expense{Date: d, Category: category, Amount: core.Money{Cents: cents}}
	f.byMonth[e.Month()] = append(f.byMonth[e.Month()], e)
}

func (f *fakeStore) FetchByMonth(_ context.Context, m core.MonthKey) ([]core.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, m)
	if err := f.fail[m]; err != nil {
		return nil, err
	}
	return f.byMonth[m], nil
}

func mk(s string) core.MonthKey {
	m, err := core.ParseMonthKey(s)
	if err != nil {
		panic(err)
	}
	return m
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func expense(category core.Category, cents int64) core.Expense {
	return core.Expense{Date: core.NewDate(2025, 1, 1), Category: category, Amount: core.Money{Cents: cents}}
}

func dollars(d int64) int64 { return d * 100 }
