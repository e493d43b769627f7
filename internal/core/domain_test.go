package core

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestParseMonthKey(t *testing.T) {
	cases := []struct {
		in   string
		want MonthKey
		ok   bool
	}{
		{"2025-01", MonthKey{2025, time.January}, true},
		{"1999-12", MonthKey{1999, time.December}, true},
		{"2025-13", MonthKey{}, false},
		{"2025-00", MonthKey{}, false},
		{"2025-1", MonthKey{}, false},
		{"abc", MonthKey{}, false},
		{"2025-01-05", MonthKey{}, false},
		{"", MonthKey{}, false},
		{" 2025-01", MonthKey{}, false},
		{"2025-01\n", MonthKey{}, false},
	}
	for _, tc := range cases {
		got, err := ParseMonthKey(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: got %v err=%v", tc.in, got, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
		if !IsValidation(err) || !errors.Is(err, ErrInvalidMonthKey) {
			t.Fatalf("%q: expected validation error, got %v", tc.in, err)
		}
	}
}

func TestMonthKeyArithmetic(t *testing.T) {
	jan := MonthKey{2025, time.January}
	if got := jan.Prev().String(); got != "2024-12" {
		t.Fatalf("Prev = %s", got)
	}
	if got := jan.AddMonths(-3).String(); got != "2024-10" {
		t.Fatalf("AddMonths(-3) = %s", got)
	}
	if got := (MonthKey{2024, time.November}).AddMonths(2).String(); got != "2025-01" {
		t.Fatalf("AddMonths(2) = %s", got)
	}
	if !jan.Prev().Before(jan) || jan.Before(jan) {
		t.Fatal("Before ordering broken")
	}
}

func TestMonthKeyDays(t *testing.T) {
	cases := []struct {
		m    MonthKey
		days int
	}{
		{MonthKey{2024, time.February}, 29},
		{MonthKey{2025, time.February}, 28},
		{MonthKey{1900, time.February}, 28},
		{MonthKey{2000, time.February}, 29},
		{MonthKey{2025, time.April}, 30},
		{MonthKey{2025, time.December}, 31},
	}
	for _, tc := range cases {
		if got := tc.m.Days(); got != tc.days {
			t.Errorf("%s: Days = %d, want %d", tc.m, got, tc.days)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("round trip = %s", d)
	}
	for _, bad := range []string{"2025-02-29", "2025-2-01", "01/02/2025", "", "2025-01", " 2025-01-02", "2025-01-02 "} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestExpenseMonthDerivedFromDate(t *testing.T) {
	e := Expense{Date: NewDate(2024, 12, 31), Amount: Money{Cents: 1}, Category: Misc}
	if e.Month().String() != "2024-12" {
		t.Fatalf("month = %s", e.Month())
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("  outside food ")
	if err != nil || c != OutsideFood {
		t.Fatalf("got %q err=%v", c, err)
	}
	if _, err := ParseCategory("Groceries"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestParseExpense(t *testing.T) {
	good, err := ParseExpense("12.50", "misc", "batteries", "2025-03-04")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if good.Amount.Cents != 1250 || good.Category != Misc || good.Month().String() != "2025-03" {
		t.Fatalf("unexpected expense: %+v", good)
	}

	trimmed, err := ParseExpense(" 3 ", "Misc", "", " 2025-03-04 ")
	if err != nil || trimmed.Date.String() != "2025-03-04" {
		t.Fatalf("raw input should be trimmed, got %+v err=%v", trimmed, err)
	}

	bads := []struct{ amount, category, description, date, field string }{
		{"-1", "Misc", "", "2025-03-04", "amount"},
		{"abc", "Misc", "", "2025-03-04", "amount"},
		{"1", "Groceries", "", "2025-03-04", "category"},
		{"1", "Misc", "", "2025-3-4", "date"},
		{"1", "Misc", string(make([]byte, 201)), "2025-03-04", "description"},
		{"1.٣", "Misc", "", "2025-03-04", "amount"},
		{"1000000000.01", "Misc", "", "2025-03-04", "amount"},
	}
	for i, b := range bads {
		_, err := ParseExpense(b.amount, b.category, b.description, b.date)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
		if ve.Field != b.field {
			t.Fatalf("case %d field = %q, want %q", i, ve.Field, b.field)
		}
	}
}

func TestCategoryTotals(t *testing.T) {
	totals := CategoryTotals{Misc: {Cents: 300}, Clothing: {Cents: 500}, Water: {Cents: 300}}
	if totals.Sum().Cents != 1100 {
		t.Fatalf("sum = %d", totals.Sum().Cents)
	}
	sorted := totals.Sorted()
	want := []Category{Clothing, Misc, Water}
	for i, c := range want {
		if sorted[i].Name != c {
			t.Fatalf("sorted[%d] = %s, want %s", i, sorted[i].Name, c)
		}
	}
	union := Union(CategoryTotals{Misc: {}}, CategoryTotals{Clothing: {}, Misc: {}})
	if len(union) != 2 || union[0] != Clothing || union[1] != Misc {
		t.Fatalf("union = %v", union)
	}
}

func TestExpenseDescriptionCountsRunes(t *testing.T) {
	e := Expense{Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Category: Misc}

	e.Description = strings.Repeat("é", 200)
	if err := e.Validate(); err != nil {
		t.Fatalf("200 runes should be accepted, got %v", err)
	}

	e.Description = strings.Repeat("é", 201)
	err := e.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) || !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}
	if !utf8.ValidString(ve.Value) || ve.Value != strings.Repeat("é", 20)+"..." {
		t.Fatalf("truncated value = %q", ve.Value)
	}
}
