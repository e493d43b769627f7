package insight

import "budgetcoach/internal/core"

// Aggregate sums expenses in total and per category. Fixed categories are
// included; callers decide whether to exclude them.
func Aggregate(expenses []core.Expense) (core.Money, core.CategoryTotals) {
	var total core.Money
	totals := make(core.CategoryTotals)
	for _, e := range expenses {
		total = total.Add(e.Amount)
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return total, totals
}
