package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"budgetcoach/internal/core"
	"budgetcoach/internal/insight"
)

// Rules is the on-disk form of insight.Rules. Money is written in dollars.
// Keys left out of a file keep their default value.
type Rules struct {
	FixedCategories       []string `toml:"fixed_categories" yaml:"fixed_categories" json:"fixed_categories"`
	OverspendThreshold    float64  `toml:"overspend_threshold" yaml:"overspend_threshold" json:"overspend_threshold"`
	BudgetFloor           float64  `toml:"budget_floor" yaml:"budget_floor" json:"budget_floor"`
	AdaptiveBufferPercent int64    `toml:"adaptive_buffer_percent" yaml:"adaptive_buffer_percent" json:"adaptive_buffer_percent"`
	WindowMonths          int      `toml:"window_months" yaml:"window_months" json:"window_months"`
	PacingBuffer          float64  `toml:"pacing_buffer" yaml:"pacing_buffer" json:"pacing_buffer"`
	ProjectionBudget      float64  `toml:"projection_budget" yaml:"projection_budget" json:"projection_budget"`
	TrendIncreasePercent  int64    `toml:"trend_increase_percent" yaml:"trend_increase_percent" json:"trend_increase_percent"`
	TrendDecreasePercent  int64    `toml:"trend_decrease_percent" yaml:"trend_decrease_percent" json:"trend_decrease_percent"`
}

func supportedRulesExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// DefaultRulesFile mirrors insight.DefaultRules.
func DefaultRulesFile() Rules {
	return FromInsightRules(insight.DefaultRules())
}

// FromInsightRules converts engine rules to their file form.
func FromInsightRules(r insight.Rules) Rules {
	fixed := make([]string, len(r.FixedCategories))
	for i, c := range r.FixedCategories {
		fixed[i] = string(c)
	}
	return Rules{
		FixedCategories:       fixed,
		OverspendThreshold:    r.OverspendThreshold.Dollars(),
		BudgetFloor:           r.BudgetFloor.Dollars(),
		AdaptiveBufferPercent: r.AdaptiveBufferPercent,
		WindowMonths:          r.WindowMonths,
		PacingBuffer:          r.PacingBuffer.Dollars(),
		ProjectionBudget:      r.ProjectionBudget.Dollars(),
		TrendIncreasePercent:  r.TrendIncreasePercent,
		TrendDecreasePercent:  r.TrendDecreasePercent,
	}
}

// Insight converts the file form to engine rules and validates them.
// Fixed categories must name known categories.
func (r Rules) Insight() (insight.Rules, error) {
	fixed := make([]core.Category, 0, len(r.FixedCategories))
	for _, name := range r.FixedCategories {
		c, err := core.ParseCategory(name)
		if err != nil {
			return insight.Rules{}, fmt.Errorf("fixed_categories: %w", err)
		}
		fixed = append(fixed, c)
	}
	out := insight.Rules{
		FixedCategories:       fixed,
		OverspendThreshold:    toMoney(r.OverspendThreshold),
		BudgetFloor:           toMoney(r.BudgetFloor),
		AdaptiveBufferPercent: r.AdaptiveBufferPercent,
		WindowMonths:          r.WindowMonths,
		PacingBuffer:          toMoney(r.PacingBuffer),
		ProjectionBudget:      toMoney(r.ProjectionBudget),
		TrendIncreasePercent:  r.TrendIncreasePercent,
		TrendDecreasePercent:  r.TrendDecreasePercent,
	}
	if err := out.Validate(); err != nil {
		return insight.Rules{}, fmt.Errorf("invalid budget rules: %w", err)
	}
	return out, nil
}

// toMoney clamps values beyond the amount cap so validation rejects them
// instead of relying on an out-of-range float conversion.
func toMoney(dollars float64) core.Money {
	cents := math.Round(dollars * 100)
	if cents > float64(core.MaxAmountCents) {
		return core.Money{Cents: core.MaxAmountCents + 1}
	}
	return core.Money{Cents: int64(cents)}
}

// LoadRules reads budget rules from path, choosing the decoder by file
// extension. An empty path returns the default rules.
func LoadRules(path string) (insight.Rules, error) {
	if path == "" {
		return insight.DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return insight.Rules{}, fmt.Errorf("read budget rules: %w", err)
	}

	rules := DefaultRulesFile()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &rules)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rules)
	case ".json":
		err = json.Unmarshal(data, &rules)
	default:
		return insight.Rules{}, fmt.Errorf("unsupported budget rules format %q", filepath.Ext(path))
	}
	if err != nil {
		return insight.Rules{}, fmt.Errorf("parse budget rules %s: %w", path, err)
	}
	return rules.Insight()
}
