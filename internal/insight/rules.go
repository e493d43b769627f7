// Package insight computes budget guidance from expense records: category
// aggregation, overspend alerts, an adaptive budget from the trailing months,
// real-time pacing, month-end projection and month comparisons.
//
// Every calculation in this package is a pure function over in-memory
// records. Engine is the only type that talks to a store.
package insight

import (
	"errors"
	"fmt"

	"budgetcoach/internal/core"
)

// Rules holds every tunable threshold used by the engine. All money values
// are in cents.
type Rules struct {
	FixedCategories       []core.Category
	OverspendThreshold    core.Money
	BudgetFloor           core.Money
	AdaptiveBufferPercent int64
	WindowMonths          int
	PacingBuffer          core.Money
	ProjectionBudget      core.Money
	TrendIncreasePercent  int64
	TrendDecreasePercent  int64
}

// DefaultRules returns the standard budgeting rules.
func DefaultRules() Rules {
	return Rules{
		FixedCategories:       []core.Category{core.Rent, core.Electricity, core.Water},
		OverspendThreshold:    core.Money{Cents: 20000},
		BudgetFloor:           core.Money{Cents: 100000},
		AdaptiveBufferPercent: 10,
		WindowMonths:          3,
		PacingBuffer:          core.Money{Cents: 5000},
		ProjectionBudget:      core.Money{Cents: 100000},
		TrendIncreasePercent:  15,
		TrendDecreasePercent:  10,
	}
}

// IsFixed reports whether c is one of the fixed categories, ignoring case.
func (r Rules) IsFixed(c core.Category) bool {
	for _, f := range r.FixedCategories {
		if f.Matches(c) {
			return true
		}
	}
	return false
}

// maxRulePercent bounds percentage rules so percent * MaxAmountCents fits int64.
const maxRulePercent = 1000

// Validate checks that every rule is usable.
func (r Rules) Validate() error {
	var errs []error
	for _, rule := range []struct {
		name  string
		value core.Money
	}{
		{"overspend threshold", r.OverspendThreshold},
		{"budget floor", r.BudgetFloor},
		{"pacing buffer", r.PacingBuffer},
		{"projection budget", r.ProjectionBudget},
	} {
		if rule.value.Cents > core.MaxAmountCents {
			errs = append(errs, fmt.Errorf("%s must not exceed %s", rule.name, core.Money{Cents: core.MaxAmountCents}))
		}
	}
	if r.AdaptiveBufferPercent > maxRulePercent || r.TrendIncreasePercent > maxRulePercent || r.TrendDecreasePercent > maxRulePercent {
		errs = append(errs, fmt.Errorf("percentages must not exceed %d", maxRulePercent))
	}
	if r.OverspendThreshold.Cents < 0 {
		errs = append(errs, errors.New("overspend threshold must not be negative"))
	}
	if r.BudgetFloor.Cents <= 0 {
		errs = append(errs, errors.New("budget floor must be positive"))
	}
	if r.AdaptiveBufferPercent < 0 {
		errs = append(errs, errors.New("adaptive buffer percent must not be negative"))
	}
	if r.WindowMonths < 1 || r.WindowMonths > 24 {
		errs = append(errs, fmt.Errorf("window months must be between 1 and 24, got %d", r.WindowMonths))
	}
	if r.PacingBuffer.Cents < 0 {
		errs = append(errs, errors.New("pacing buffer must not be negative"))
	}
	if r.ProjectionBudget.Cents <= 0 {
		errs = append(errs, errors.New("projection budget must be positive"))
	}
	if r.TrendIncreasePercent < 0 || r.TrendDecreasePercent < 0 {
		errs = append(errs, errors.New("trend percentages must not be negative"))
	}
	return errors.Join(errs...)
}
