package insight

import (
	"fmt"

	"budgetcoach/internal/core"
)

const steadyTrend = "Your spending is consistent with last month. Keep it up!"

// TrendAdvice returns per-category suggestions comparing curr with prev.
// A category missing from prev counts as a 100% increase.
func TrendAdvice(curr, prev core.CategoryTotals, rules Rules) []string {
	var out []string
	for _, row := range curr.Sorted() {
		before := prev.Get(row.Name)
		if before.IsZero() {
			if row.Amount.IsZero() {
				continue
			}
			out = append(out, fmt.Sprintf(
				"Your spending on %s increased by 100%%. Consider budgeting more carefully.", row.Name))
			continue
		}

		// change% = (curr-prev)/prev*100, compared without division
		diff := row.Amount.Cents - before.Cents
		pct := core.DivRound(diff*100, before.Cents)
		switch {
		case diff*100 > rules.TrendIncreasePercent*before.Cents:
			out = append(out, fmt.Sprintf(
				"Your spending on %s increased by %d%%. Consider budgeting more carefully.", row.Name, pct))
		case diff*100 < -rules.TrendDecreasePercent*before.Cents:
			out = append(out, fmt.Sprintf(
				"Great job! You reduced your spending on %s by %d%%.", row.Name, -pct))
		}
	}
	if len(out) == 0 {
		return []string{steadyTrend}
	}
	return out
}
