package insight

import (
	"fmt"

	"budgetcoach/internal/core"
)

const (
	positiveAdvice = "Nice job! You're managing discretionary spending well this month."
	noDataAdvice   = "No spending data found for this month."
)

// DetectOverspend returns one warning per non-fixed category whose total is
// strictly above the threshold, largest first. When nothing exceeds it a
// single positive message is returned instead.
func DetectOverspend(totals core.CategoryTotals, rules Rules) []string {
	var advice []string
	for _, row := range totals.Sorted() {
		if rules.IsFixed(row.Name) {
			continue
		}
		if row.Amount.Cents > rules.OverspendThreshold.Cents {
			advice = append(advice, fmt.Sprintf(
				"You're spending %s on %s. Consider reducing it to stay within budget.",
				row.Amount, row.Name))
		}
	}
	if len(advice) == 0 {
		return []string{positiveAdvice}
	}
	return advice
}
