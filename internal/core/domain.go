package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Rent            Category = "Rent"
	Electricity     Category = "Electricity"
	Water           Category = "Water"
	OutsideFood     Category = "Outside Food"
	CookingMaterial Category = "Cooking Material"
	Misc            Category = "Misc"
	Clothing        Category = "Clothing"
	Electronics     Category = "Electronics"
)

const (
	dateLayout = "2006-01-02"

	maxDescriptionRunes = 200
)

type (
	// Category is one of the fixed expense categories.
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is an immutable expense record. Its month is always derived
	// from Date, never stored on its own.
	Expense struct {
		ID          string   `json:"id"`
		Date        Date     `json:"date"`
		Description string   `json:"description"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
	}
)

var (
	ErrInvalidDate        = errors.New("expected YYYY-MM-DD")
	ErrInvalidMonthKey    = errors.New("expected YYYY-MM")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrExpenseNotFound    = errors.New("expense not found")
)

// ValidationError reports a malformed caller-supplied value.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Categories returns every known category in declaration order.
func Categories() []Category {
	return []Category{Rent, Electricity, Water, OutsideFood, CookingMaterial, Misc, Clothing, Electronics}
}

// ParseCategory maps user input onto a known category, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Value: s, Err: ErrUnknownCategory}
}

// Matches compares two category names case-insensitively.
func (c Category) Matches(other Category) bool {
	return strings.EqualFold(strings.TrimSpace(string(c)), strings.TrimSpace(string(other)))
}

func (c Category) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict YYYY-MM-DD value. Surrounding whitespace is
// rejected; callers handling raw input trim first.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Value: s, Err: ErrInvalidDate}
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Month returns the month key the expense belongs to.
func (e Expense) Month() MonthKey {
	return MonthOf(e.Date.Time)
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Value: "", Err: err}
	}
	if utf8.RuneCountInString(e.Description) > maxDescriptionRunes {
		return &ValidationError{Field: "description", Value: truncateRunes(e.Description, 20) + "...", Err: ErrDescriptionTooLong}
	}
	if err := e.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Value: e.Amount.String(), Err: err}
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	return nil
}

// ParseExpense builds a validated expense from raw form or JSON values.
func ParseExpense(amount, category, description, date string) (Expense, error) {
	cents, err := ParseDecimalToCents(amount)
	if err != nil {
		return Expense{}, &ValidationError{Field: "amount", Value: amount, Err: err}
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return Expense{}, err
	}
	d, err := ParseDate(strings.TrimSpace(date))
	if err != nil {
		return Expense{}, err
	}
	e := Expense{
		Date:        d,
		Description: strings.TrimSpace(description),
		Amount:      Money{Cents: cents},
		Category:    cat,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
