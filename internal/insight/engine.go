package insight

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetcoach/internal/core"
	"budgetcoach/internal/log"
)

// Engine answers insight queries by fetching fresh records from its store on
// every call. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	fetcher ExpenseFetcher
	rules   Rules
	now     func() time.Time
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rules.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithClock injects the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.WithComponent(log.ComponentInsight)
		}
	}
}

// New creates an engine reading from fetcher.
func New(fetcher ExpenseFetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher: fetcher,
		rules:   DefaultRules(),
		now:     time.Now,
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the rules in effect.
func (e *Engine) Rules() Rules {
	return e.rules
}

// MonthSummary is the coaching view of one month.
type MonthSummary struct {
	Month      core.MonthKey         `json:"month"`
	TotalSpent core.Money            `json:"totalSpent"`
	Categories []core.CategoryAmount `json:"categories"`
	Advice     []string              `json:"advice"`
	Warnings   []string              `json:"-"`
	Budget     AdaptiveBudget        `json:"-"`
	Pacing     *Pacing               `json:"pacing,omitempty"`
}

// MonthExpenses is the raw record listing of a month.
type MonthExpenses struct {
	Month      core.MonthKey         `json:"month"`
	Total      core.Money            `json:"total"`
	Categories []core.CategoryAmount `json:"categories"`
	Expenses   []core.Expense        `json:"expenses"`
}

// Trends holds per-category suggestions for a month.
type Trends struct {
	Month       core.MonthKey `json:"month"`
	Previous    core.MonthKey `json:"previous"`
	Suggestions []string      `json:"suggestions"`
}

func (e *Engine) fetch(ctx context.Context, m core.MonthKey) ([]core.Expense, error) {
	expenses, err := e.fetcher.FetchByMonth(ctx, m)
	if err != nil {
		e.logger.Error("Failed to fetch expenses",
			log.FieldMonth, m.String(),
			log.FieldError, err,
			log.FieldOperation, log.OpFetch)
		return nil, &StoreError{Month: m.String(), Err: err}
	}
	return expenses, nil
}

// MonthExpenses lists the records of month with their totals.
func (e *Engine) MonthExpenses(ctx context.Context, month string) (MonthExpenses, error) {
	m, err := core.ParseMonthKey(month)
	if err != nil {
		return MonthExpenses{}, err
	}
	expenses, err := e.fetch(ctx, m)
	if err != nil {
		return MonthExpenses{}, err
	}
	total, totals := Aggregate(expenses)
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return MonthExpenses{Month: m, Total: total, Categories: totals.Sorted(), Expenses: expenses}, nil
}

// MonthSummary aggregates month and produces its advice. When the total goes
// past the month's adaptive budget an extra line says so. The current month
// also carries pacing fields.
func (e *Engine) MonthSummary(ctx context.Context, month string) (MonthSummary, error) {
	m, err := core.ParseMonthKey(month)
	if err != nil {
		return MonthSummary{}, err
	}

	var (
		expenses []core.Expense
		budget   AdaptiveBudget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = e.fetch(gctx, m)
		return err
	})
	g.Go(func() error {
		var err error
		budget, err = ComputeAdaptiveBudget(gctx, m, e.fetcher, e.rules)
		return err
	})
	if err := g.Wait(); err != nil {
		return MonthSummary{}, err
	}

	total, totals := Aggregate(expenses)
	summary := MonthSummary{
		Month:      m,
		TotalSpent: total,
		Categories: totals.Sorted(),
		Budget:     budget,
	}
	if len(expenses) == 0 {
		summary.Advice = []string{noDataAdvice}
		return summary, nil
	}

	summary.Advice = DetectOverspend(totals, e.rules)
	if summary.Advice[0] != positiveAdvice {
		summary.Warnings = append(summary.Warnings, summary.Advice...)
	}
	if total.Cents > budget.Recommendation.Cents {
		over := fmt.Sprintf("You're %s over your target budget of %s.",
			total.Sub(budget.Recommendation), budget.Recommendation)
		summary.Advice = append(summary.Advice, over)
		summary.Warnings = append(summary.Warnings, over)
	}

	now := e.now()
	if core.MonthOf(now) == m {
		p := ComputePacing(now, expenses, budget.Recommendation, e.rules)
		summary.Pacing = &p
	}

	e.logger.Debug("Month summary computed",
		log.FieldMonth, m.String(),
		log.FieldTotalCents, total.Cents,
		log.FieldRecordCount, len(expenses),
		log.FieldOperation, log.OpSummary)
	return summary, nil
}

// AdaptiveBudget computes the recommended budget for month.
func (e *Engine) AdaptiveBudget(ctx context.Context, month string) (AdaptiveBudget, error) {
	m, err := core.ParseMonthKey(month)
	if err != nil {
		return AdaptiveBudget{}, err
	}
	budget, err := ComputeAdaptiveBudget(ctx, m, e.fetcher, e.rules)
	if err != nil {
		return AdaptiveBudget{}, err
	}
	e.logger.Debug("Adaptive budget computed",
		log.FieldMonth, m.String(),
		log.FieldBudgetCents, budget.Recommendation.Cents,
		"months_considered", len(budget.MonthsConsidered),
		log.FieldOperation, log.OpAdaptive)
	return budget, nil
}

// RealtimePacing evaluates the current month against its adaptive budget.
func (e *Engine) RealtimePacing(ctx context.Context) (Pacing, error) {
	now := e.now()
	m := core.MonthOf(now)

	var (
		expenses []core.Expense
		budget   AdaptiveBudget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = e.fetch(gctx, m)
		return err
	})
	g.Go(func() error {
		var err error
		budget, err = ComputeAdaptiveBudget(gctx, m, e.fetcher, e.rules)
		return err
	})
	if err := g.Wait(); err != nil {
		return Pacing{}, err
	}

	p := ComputePacing(now, expenses, budget.Recommendation, e.rules)
	if !p.OnTrack {
		e.logger.Info("Pacing warning",
			log.FieldMonth, m.String(),
			log.FieldTotalCents, p.TotalSpent.Cents,
			log.FieldBudgetCents, budget.Recommendation.Cents,
			log.FieldOperation, log.OpPacing)
	}
	return p, nil
}

// Projection projects month to its last day.
func (e *Engine) Projection(ctx context.Context, month string) (Projection, error) {
	m, err := core.ParseMonthKey(month)
	if err != nil {
		return Projection{}, err
	}
	expenses, err := e.fetch(ctx, m)
	if err != nil {
		return Projection{}, err
	}
	return ProjectMonthEnd(m, expenses, e.now(), e.rules), nil
}

// Compare compares month1 against month2.
func (e *Engine) Compare(ctx context.Context, month1, month2 string) (Comparison, error) {
	m1, err := core.ParseMonthKey(month1)
	if err != nil {
		return Comparison{}, err
	}
	m2, err := core.ParseMonthKey(month2)
	if err != nil {
		return Comparison{}, err
	}

	var e1, e2 []core.Expense
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		e1, err = e.fetch(gctx, m1)
		return err
	})
	g.Go(func() error {
		var err error
		e2, err = e.fetch(gctx, m2)
		return err
	})
	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}
	return CompareMonths(m1, e1, m2, e2), nil
}

// Trends compares month with the month before it per category.
func (e *Engine) Trends(ctx context.Context, month string) (Trends, error) {
	m, err := core.ParseMonthKey(month)
	if err != nil {
		return Trends{}, err
	}
	prev := m.Prev()

	var curr, before []core.Expense
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curr, err = e.fetch(gctx, m)
		return err
	})
	g.Go(func() error {
		var err error
		before, err = e.fetch(gctx, prev)
		return err
	})
	if err := g.Wait(); err != nil {
		return Trends{}, err
	}

	_, c := Aggregate(curr)
	_, p := Aggregate(before)
	return Trends{Month: m, Previous: prev, Suggestions: TrendAdvice(c, p, e.rules)}, nil
}
