package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned for a month outside 1-12 or a non-positive year.
var ErrInvalidPeriod = errors.New("invalid period")

// Period identifies one calendar month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// NewPeriod builds a validated period.
func NewPeriod(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Validate checks that the period names a real calendar month.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	if p.Year < 1 || p.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

func (p Period) first() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the calendar length of the month, 29 for a leap February.
func (p Period) DaysInMonth() int {
	// Day zero of the following month is the last day of this one.
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Start is the first day of the period in DateLayout.
func (p Period) Start() string {
	return p.first().Format(DateLayout)
}

// End is the last day of the period in DateLayout.
func (p Period) End() string {
	return p.Day(p.DaysInMonth())
}

// Day formats the given day of the period in DateLayout.
func (p Period) Day(day int) string {
	return time.Date(p.Year, time.Month(p.Month), day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// Contains reports whether a DateLayout date falls inside the period.
func (p Period) Contains(date string) bool {
	return date >= p.Start() && date <= p.End()
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	return PeriodOf(p.first().AddDate(0, -1, 0))
}

// Next returns the month after p.
func (p Period) Next() Period {
	return PeriodOf(p.first().AddDate(0, 1, 0))
}

// String formats the period as "January 2024".
func (p Period) String() string {
	return p.first().Format("January 2006")
}
