package insight

import (
	"fmt"
	"time"

	"budgetcoach/internal/core"
)

const onTrackStatus = "Spending is on track."

// Pacing compares spend-to-date in the current month with a time
// proportional share of the budget.
type Pacing struct {
	Date          core.Date     `json:"date"`
	Month         core.MonthKey `json:"month"`
	TotalSpent    core.Money    `json:"totalSpent"`
	ExpectedByNow core.Money    `json:"expectedByNow"`
	Budget        core.Money    `json:"budget"`
	DayOfMonth    int           `json:"dayOfMonth"`
	DaysInMonth   int           `json:"daysInMonth"`
	OnTrack       bool          `json:"onTrack"`
	Warning       string        `json:"warning"`
}

// ComputePacing evaluates today's position in its month. expenses must be the
// records of today's month.
func ComputePacing(today time.Time, expenses []core.Expense, budget core.Money, rules Rules) Pacing {
	month := core.MonthOf(today)
	day := int64(today.Day())
	days := int64(month.Days())
	total, _ := Aggregate(expenses)

	p := Pacing{
		Date:          core.NewDate(today.Year(), int(today.Month()), today.Day()),
		Month:         month,
		TotalSpent:    total,
		ExpectedByNow: budget.Scale(day, days),
		Budget:        budget,
		DayOfMonth:    int(day),
		DaysInMonth:   int(days),
	}

	// total > day/days*budget + buffer, kept in integers
	if total.Cents*days > day*budget.Cents+rules.PacingBuffer.Cents*days {
		p.Warning = fmt.Sprintf(
			"You're spending faster than expected. By day %d, you should have spent ~%s but you've spent %s.",
			day, p.ExpectedByNow, total)
		return p
	}
	p.OnTrack = true
	p.Warning = onTrackStatus
	return p
}
