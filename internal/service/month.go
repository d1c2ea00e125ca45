package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month, independent of any time zone until a bucket is asked for.
type Month struct {
	year  int
	month time.Month
}

func NewMonth(year int, month time.Month) (Month, error) {
	if year < 1 || year > 9999 {
		return Month{}, validationError("year %d out of range", year)
	}
	if month < time.January || month > time.December {
		return Month{}, validationError("month %d out of range", month)
	}
	return Month{year: year, month: month}, nil
}

// ParseMonth accepts exactly "<FullMonthName> <YYYY>", e.g. "June 2025".
// The month name is matched case-insensitively.
func ParseMonth(s string) (Month, error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 2 {
		return Month{}, validationError("month %q must look like \"June 2025\"", s)
	}

	name, yearStr := parts[0], parts[1]
	var month time.Month
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(name, m.String()) {
			month = m
			break
		}
	}
	if month == 0 {
		return Month{}, validationError("unknown month name %q", name)
	}

	if len(yearStr) != 4 {
		return Month{}, validationError("year %q must have four digits", yearStr)
	}
	for _, c := range yearStr {
		if c < '0' || c > '9' {
			return Month{}, validationError("year %q must have four digits", yearStr)
		}
	}
	year, _ := strconv.Atoi(yearStr)
	return NewMonth(year, month)
}

// MonthOf returns the month containing t as observed in loc.
func MonthOf(t time.Time, loc *time.Location) Month {
	t = t.In(loc)
	return Month{year: t.Year(), month: t.Month()}
}

func (m Month) Year() int         { return m.year }
func (m Month) Month() time.Month { return m.month }
func (m Month) IsZero() bool      { return m.year == 0 }

// AddMonths shifts m by n calendar months (n may be negative).
func (m Month) AddMonths(n int) Month {
	idx := m.year*12 + int(m.month-1) + n
	return Month{year: idx / 12, month: time.Month(idx%12 + 1)}
}

// Bounds returns the half-open interval [start, end) covering m in loc.
func (m Month) Bounds(loc *time.Location) (start, end time.Time) {
	start = time.Date(m.year, m.month, 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// Contains reports whether t falls inside m's bucket in loc.
func (m Month) Contains(t time.Time, loc *time.Location) bool {
	start, end := m.Bounds(loc)
	return !t.Before(start) && t.Before(end)
}

// String renders the canonical long form, e.g. "June 2025".
func (m Month) String() string {
	return fmt.Sprintf("%s %04d", m.month, m.year)
}

// Label renders the short chart form, e.g. "Jun 2025".
func (m Month) Label() string {
	return fmt.Sprintf("%s %04d", m.month.String()[:3], m.year)
}
