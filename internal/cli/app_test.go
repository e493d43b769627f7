package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"budgetcoach/internal/core"
	"budgetcoach/internal/insight"
	"budgetcoach/internal/log"
	"budgetcoach/internal/services"
	"budgetcoach/internal/storage/memory"
)

var testNow = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

type harness struct {
	store  *memory.Store
	closed int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{store: memory.New()}
	for _, row := range []struct {
		date     string
		category core.Category
		cents    int64
	}{
		{"2024-05-12", core.OutsideFood, 10000},
		{"2024-06-02", core.OutsideFood, 25000},
		{"2024-06-05", core.Rent, 50000},
	} {
		d, err := core.ParseDate(row.date)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := h.store.Insert(context.Background(), core.Expense{Date: d, Category: row.category, Amount: core.Money{Cents: row.cents}}); err != nil {
			t.Fatal(err)
		}
	}
	return h
}

func (h *harness) open(context.Context) (*Session, error) {
	clock := func() time.Time { return testNow }
	return &Session{
		Reports:  insight.New(h.store, insight.WithClock(clock), insight.WithLogger(log.Discard())),
		Expenses: services.NewExpenseService(h.store, nil, log.Discard()),
		Close: func() error {
			h.closed++
			return nil
		},
	}, nil
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(h.open, func() time.Time { return testNow })
	err := app.Execute(context.Background(), append(args, "--no-color"), &out, &errOut)
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "summary", "2024-06")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	for _, want := range []string{
		"Summary 2024-06",
		"Total spent: $750.00",
		"! You're spending $250.00 on Outside Food.",
		"over your target budget",
		"Pacing 2024-06-15 (day 15 of 30)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if h.closed != 1 {
		t.Errorf("session closed %d times, want 1", h.closed)
	}
}

func TestSummaryDefaultsToCurrentMonth(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "summary")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	if !strings.Contains(out, "Summary 2024-06") {
		t.Errorf("expected current month, got:\n%s", out)
	}
}

func TestSummaryJSON(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "summary", "2024-05", "--json")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if body["totalSpent"] != 100.0 {
		t.Errorf("totalSpent = %v, want 100", body["totalSpent"])
	}
}

func TestInvalidMonthIsValidationError(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "summary", "2024-6")
	if !core.IsValidation(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if _, err := h.run(t, "compare", "June"); !core.IsValidation(err) {
		t.Errorf("compare error = %v, want validation error", err)
	}
}

func TestCompareCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "compare", "2024-06")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}
	for _, want := range []string{
		"2024-06 vs 2024-05",
		"You spent $650.00 more than the previous month.",
		"+$150.00",
		"+$500.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTrendsCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "trends", "2024-06")
	if err != nil {
		t.Fatalf("trends error = %v", err)
	}
	if !strings.Contains(out, "! Your spending on Outside Food increased by 150%.") {
		t.Errorf("missing outside food trend:\n%s", out)
	}
	if !strings.Contains(out, "! Your spending on Rent increased by 100%.") {
		t.Errorf("missing new category trend:\n%s", out)
	}
}

func TestBudgetPacingAndProjectionCommands(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"budget", "2024-07"}, "Recommended:"},
		{[]string{"pacing"}, "Pacing 2024-06-15"},
		{[]string{"projection", "2024-06"}, "Projected month end: $1500.00"},
	}
	for _, tt := range tests {
		out, err := h.run(t, tt.args...)
		if err != nil {
			t.Errorf("%v error = %v", tt.args, err)
			continue
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%v output missing %q:\n%s", tt.args, tt.want, out)
		}
	}
}

func TestAddAndDeleteCommands(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "add", "--amount", "12,5", "--category", "misc", "--description", "stamps")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if !strings.Contains(out, "2024-06-15 Misc $12.50") {
		t.Errorf("unexpected add output: %s", out)
	}
	if h.store.Len() != 4 {
		t.Errorf("store has %d records, want 4", h.store.Len())
	}

	id := strings.TrimSuffix(strings.Fields(out)[1], ":")
	out, err = h.run(t, "delete", id)
	if err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if !strings.HasPrefix(out, "Deleted "+id) {
		t.Errorf("unexpected delete output: %s", out)
	}

	if _, err := h.run(t, "delete", id); !errors.Is(err, core.ErrExpenseNotFound) {
		t.Errorf("second delete error = %v, want not found", err)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run(t, "add", "--category", "Misc"); err == nil {
		t.Error("expected error for missing amount")
	}
	if _, err := h.run(t, "add", "--amount", "5", "--category", "Boats"); !core.IsValidation(err) {
		t.Errorf("error = %v, want validation error", err)
	}
	if h.store.Len() != 3 {
		t.Errorf("store has %d records, want 3", h.store.Len())
	}
}
