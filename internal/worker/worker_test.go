package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetcoach/internal/amqp"
	"budgetcoach/internal/core"
	"budgetcoach/internal/insight"
	"budgetcoach/internal/storage/memory"
)

type collectSink struct {
	mu     sync.Mutex
	alerts []Alert
}

func (s *collectSink) Send(_ context.Context, a Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
	return nil
}

func (s *collectSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

type failingFetcher struct{}

func (failingFetcher) FetchByMonth(context.Context, core.MonthKey) ([]core.Expense, error) {
	return nil, errors.New("disk I/O error")
}

func seed(t *testing.T, s *memory.Store, date string, cat core.Category, cents int64) {
	t.Helper()
	d, err := core.ParseDate(date)
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), core.Expense{Date: d, Category: cat, Amount: core.Money{Cents: cents}})
	require.NoError(t, err)
}

func clock(t time.Time) insight.Option {
	return insight.WithClock(func() time.Time { return t })
}

func TestAlertWorker_HandleExpenseEvent(t *testing.T) {
	store := memory.New()
	seed(t, store, "2025-03-02", core.OutsideFood, 30000)
	seed(t, store, "2025-03-03", core.Rent, 90000)

	sink := &collectSink{}
	engine := insight.New(store, clock(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	w := NewAlertWorker(engine, sink, nil)

	err := w.HandleExpenseEvent(context.Background(), &amqp.ExpenseEvent{Type: amqp.EventCreated, ID: "x", Month: "2025-03"})
	require.NoError(t, err)

	// overspend on Outside Food, over the $1000 floor, and pacing well ahead
	require.Len(t, sink.alerts, 3)
	assert.Equal(t, AlertOverspend, sink.alerts[0].Kind)
	assert.Contains(t, sink.alerts[0].Message, "Outside Food")
	assert.Contains(t, sink.alerts[1].Message, "over your target budget")
	assert.Equal(t, AlertPacing, sink.alerts[2].Kind)
}

func TestAlertWorker_QuietMonth(t *testing.T) {
	store := memory.New()
	seed(t, store, "2024-05-02", core.Misc, 1000)

	sink := &collectSink{}
	w := NewAlertWorker(insight.New(store), sink, nil)
	require.NoError(t, w.HandleExpenseEvent(context.Background(), &amqp.ExpenseEvent{Type: amqp.EventCreated, Month: "2024-05"}))
	assert.Empty(t, sink.alerts)
}

func TestAlertWorker_Errors(t *testing.T) {
	sink := &collectSink{}

	w := NewAlertWorker(insight.New(memory.New()), sink, nil)
	assert.NoError(t, w.HandleExpenseEvent(context.Background(), &amqp.ExpenseEvent{Month: "bogus"}),
		"invalid months are dropped, not requeued")

	w = NewAlertWorker(insight.New(failingFetcher{}), sink, nil)
	err := w.HandleExpenseEvent(context.Background(), &amqp.ExpenseEvent{Month: "2025-01"})
	require.Error(t, err)
	assert.True(t, insight.IsStoreUnavailable(err))
}

func TestPacingMonitor_CheckAlertsOncePerMonth(t *testing.T) {
	store := memory.New()
	seed(t, store, "2025-11-02", core.Misc, 90000)

	sink := &collectSink{}
	engine := insight.New(store, clock(time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)))
	m := NewPacingMonitor(engine, sink, PacingMonitorConfig{})
	assert.Equal(t, time.Hour, m.config.Interval)

	m.Check(context.Background())
	m.Check(context.Background())
	require.Equal(t, 1, sink.count())
	assert.Equal(t, "2025-11", sink.alerts[0].Month)
}

func TestPacingMonitor_StartStop(t *testing.T) {
	sink := &collectSink{}
	m := NewPacingMonitor(insight.New(memory.New()), sink, PacingMonitorConfig{Interval: 10 * time.Millisecond})
	ctx := context.Background()

	require.NoError(t, m.Start(ctx))
	assert.True(t, m.IsRunning())
	assert.Error(t, m.Start(ctx), "second start must fail")

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, m.Stop(stopCtx))
	assert.False(t, m.IsRunning())
	assert.NoError(t, m.Stop(ctx), "stopping twice is a no-op")
	assert.Zero(t, sink.count())
}
