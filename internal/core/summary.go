package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   Category `json:"category"`
	Amount Money    `json:"amount"`
}

// CategoryTotals maps each category present in a record set to its summed
// amount. Absent categories are never zero-filled.
type CategoryTotals map[Category]Money

// Sum adds up every category total.
func (t CategoryTotals) Sum() Money {
	var sum Money
	for _, v := range t {
		sum = sum.Add(v)
	}
	return sum
}

// Get returns the total for c, zero when absent.
func (t CategoryTotals) Get(c Category) Money {
	return t[c]
}

// Sorted returns the totals by amount descending, then name ascending.
func (t CategoryTotals) Sorted() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(t))
	for name, amount := range t {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	SortByAmount(out)
	return out
}

// SortByAmount orders amounts descending with a name tie-break.
func SortByAmount(rows []CategoryAmount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount.Cents != rows[j].Amount.Cents {
			return rows[i].Amount.Cents > rows[j].Amount.Cents
		}
		return rows[i].Name < rows[j].Name
	})
}

// Union returns the sorted set of categories present in either map.
func Union(a, b CategoryTotals) []Category {
	seen := make(map[Category]struct{}, len(a)+len(b))
	for c := range a {
		seen[c] = struct{}{}
	}
	for c := range b {
		seen[c] = struct{}{}
	}
	out := make([]Category, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
