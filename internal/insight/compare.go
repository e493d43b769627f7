package insight

import (
	"fmt"

	"budgetcoach/internal/core"
)

// CategoryChange is the signed delta of one category between two months.
type CategoryChange struct {
	Delta  core.Money `json:"-"`
	Change string     `json:"change"`
}

// Comparison describes month1 relative to month2.
type Comparison struct {
	Month1              core.MonthKey                    `json:"month1"`
	Month2              core.MonthKey                    `json:"month2"`
	Total1              core.Money                       `json:"total1"`
	Total2              core.Money                       `json:"total2"`
	ChangeFromLastMonth string                           `json:"changeFromLastMonth"`
	Categories          map[core.Category]CategoryChange `json:"categories"`
}

// CompareMonths compares the records of m1 against those of m2. Deltas are
// month1 minus month2 over the union of categories.
func CompareMonths(m1 core.MonthKey, e1 []core.Expense, m2 core.MonthKey, e2 []core.Expense) Comparison {
	t1, c1 := Aggregate(e1)
	t2, c2 := Aggregate(e2)

	cmp := Comparison{
		Month1:              m1,
		Month2:              m2,
		Total1:              t1,
		Total2:              t2,
		ChangeFromLastMonth: changeSummary(t1, t2),
		Categories:          make(map[core.Category]CategoryChange),
	}
	for _, c := range core.Union(c1, c2) {
		delta := c1.Get(c).Sub(c2.Get(c))
		cmp.Categories[c] = CategoryChange{Delta: delta, Change: delta.Signed()}
	}
	return cmp
}

func changeSummary(t1, t2 core.Money) string {
	switch {
	case t1.IsZero() && t2.IsZero():
		return "No spending data available for comparison."
	case t2.IsZero():
		return fmt.Sprintf("You spent %s this month. No spending was recorded last month.", t1)
	case t1.IsZero():
		return fmt.Sprintf("No spending this month. You spent %s last month.", t2)
	}

	diff := t1.Sub(t2)
	switch {
	case diff.Cents > 0:
		return fmt.Sprintf("You spent %s more than the previous month.", diff)
	case diff.Cents < 0:
		return fmt.Sprintf("You saved %s compared to the previous month.", diff.Abs())
	default:
		return "You spent the same as the previous month."
	}
}
