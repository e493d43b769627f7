package insight

import (
	"fmt"
	"time"

	"budgetcoach/internal/core"
)

// Projection extrapolates a month's spend to its last day.
type Projection struct {
	Month             core.MonthKey `json:"month"`
	CurrentSpent      core.Money    `json:"currentSpent"`
	ProjectedMonthEnd core.Money    `json:"projectedMonthEnd"`
	Budget            core.Money    `json:"budget"`
	CurrentDay        int           `json:"currentDay"`
	DaysInMonth       int           `json:"daysInMonth"`
	Warning           string        `json:"warning,omitempty"`
}

// ProjectMonthEnd projects month's spend from the days elapsed so far. Any
// month other than today's is treated as fully elapsed.
func ProjectMonthEnd(month core.MonthKey, expenses []core.Expense, today time.Time, rules Rules) Projection {
	days := int64(month.Days())
	currentDay := days
	if core.MonthOf(today) == month {
		currentDay = min(int64(today.Day()), days)
	}
	currentDay = max(currentDay, 1)

	total, _ := Aggregate(expenses)
	budget := rules.ProjectionBudget
	p := Projection{
		Month:             month,
		CurrentSpent:      total,
		ProjectedMonthEnd: total.Scale(days, currentDay),
		Budget:            budget,
		CurrentDay:        int(currentDay),
		DaysInMonth:       int(days),
	}

	// total/currentDay*days > budget
	if total.Cents*days > budget.Cents*currentDay {
		over := p.ProjectedMonthEnd.Sub(budget)
		p.Warning = fmt.Sprintf("At this rate, you'll exceed your budget of %s by %s.", budget, over)
	}
	return p
}
