package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var monthKeyPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// MonthKey identifies a calendar month, written as YYYY-MM.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey parses a strict YYYY-MM key. It never falls back to a
// default month and does not trim whitespace.
func ParseMonthKey(s string) (MonthKey, error) {
	m := monthKeyPattern.FindStringSubmatch(s)
	if m == nil {
		return MonthKey{}, &ValidationError{Field: "month", Value: s, Err: ErrInvalidMonthKey}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return MonthKey{}, &ValidationError{Field: "month", Value: s, Err: ErrInvalidMonthKey}
	}
	return MonthKey{Year: year, Month: time.Month(month)}, nil
}

// MonthOf returns the month key containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m MonthKey) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// AddMonths shifts the key by n calendar months, crossing year boundaries.
func (m MonthKey) AddMonths(n int) MonthKey {
	return MonthOf(time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// Prev returns the month immediately before m.
func (m MonthKey) Prev() MonthKey {
	return m.AddMonths(-1)
}

// Days returns the number of days in the month, leap years included.
func (m MonthKey) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Before reports whether m is strictly earlier than other.
func (m MonthKey) Before(other MonthKey) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m MonthKey) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MonthKey) UnmarshalText(b []byte) error {
	parsed, err := ParseMonthKey(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
