package shared

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const (
	// DateLayout is the compact yyyyMMdd form used on every external surface
	DateLayout = "20060102"
	// MonthLayout is the compact yyyyMM form used to select a billing month
	MonthLayout = "200601"
)

var (
	ErrInvalidDate  = errors.New("date must be in yyyyMMdd format")
	ErrInvalidMonth = errors.New("month must be in yyyyMM format")
)

// ParseDate parses a yyyyMMdd string into a calendar date
func ParseDate(raw string) (civil.Date, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return civil.DateOf(t), nil
}

// FormatDate renders d as yyyyMMdd
func FormatDate(d civil.Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// Today returns the current UTC calendar date
func Today() civil.Date {
	return civil.DateOf(time.Now().UTC())
}

// Month is a calendar month used as the interest billing period
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a yyyyMM string
func ParseMonth(raw string) (Month, error) {
	if len(raw) != len(MonthLayout) {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	t, err := time.Parse(MonthLayout, raw)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing d
func MonthOf(d civil.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// First returns the first day of the month
func (m Month) First() civil.Date {
	return civil.Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Last returns the last day of the month
func (m Month) Last() civil.Date {
	return civil.Date{Year: m.Year, Month: m.Month + 1, Day: 1}.AddDays(-1)
}

// Days returns the number of calendar days in the month
func (m Month) Days() int {
	return m.Last().Day
}

// Contains reports whether d falls inside the month
func (m Month) Contains(d civil.Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d%02d", m.Year, int(m.Month))
}
