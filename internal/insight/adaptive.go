package insight

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"budgetcoach/internal/core"
)

// ExpenseFetcher returns all expenses of one month, empty when there are none.
type ExpenseFetcher interface {
	FetchByMonth(ctx context.Context, month core.MonthKey) ([]core.Expense, error)
}

// AdaptiveBudget is a budget target derived from recent months.
type AdaptiveBudget struct {
	Month            core.MonthKey   `json:"-"`
	Recommendation   core.Money      `json:"recommendation"`
	AverageSpend     core.Money      `json:"averageSpend"`
	MonthsConsidered []core.MonthKey `json:"monthsConsidered"`
	Reason           string          `json:"reason,omitempty"`
	HasHistory       bool            `json:"-"`
}

// TrailingWindow returns the n calendar months strictly before m, oldest first.
func TrailingWindow(m core.MonthKey, n int) []core.MonthKey {
	window := make([]core.MonthKey, 0, n)
	for i := n; i >= 1; i-- {
		window = append(window, m.AddMonths(-i))
	}
	return window
}

// ComputeAdaptiveBudget fetches the trailing window before month and averages
// the totals of the months that have at least one record.
func ComputeAdaptiveBudget(ctx context.Context, month core.MonthKey, fetcher ExpenseFetcher, rules Rules) (AdaptiveBudget, error) {
	window := TrailingWindow(month, rules.WindowMonths)
	results := make([][]core.Expense, len(window))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range window {
		g.Go(func() error {
			expenses, err := fetcher.FetchByMonth(gctx, m)
			if err != nil {
				return &StoreError{Month: m.String(), Err: err}
			}
			results[i] = expenses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AdaptiveBudget{}, err
	}

	return adaptiveFromWindow(month, window, results, rules), nil
}

func adaptiveFromWindow(month core.MonthKey, window []core.MonthKey, results [][]core.Expense, rules Rules) AdaptiveBudget {
	considered := make([]core.MonthKey, 0, len(window))
	var sum core.Money
	for i, m := range window {
		if len(results[i]) == 0 {
			continue
		}
		total, _ := Aggregate(results[i])
		sum = sum.Add(total)
		considered = append(considered, m)
	}

	if len(considered) == 0 {
		return AdaptiveBudget{
			Month:            month,
			Recommendation:   rules.BudgetFloor,
			AverageSpend:     core.Money{},
			MonthsConsidered: considered,
			Reason:           fmt.Sprintf("No past data. Defaulting to %s", rules.BudgetFloor),
		}
	}

	n := int64(len(considered))
	return AdaptiveBudget{
		Month:            month,
		AverageSpend:     core.Money{Cents: core.DivRound(sum.Cents, n)},
		Recommendation:   core.Money{Cents: core.DivRound(sum.Cents*(100+rules.AdaptiveBufferPercent), n*100)},
		MonthsConsidered: considered,
		HasHistory:       true,
	}
}
