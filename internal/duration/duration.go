// Package duration computes how long a relationship has lasted as a civil calendar
// breakdown (years, months, days) alongside a plain count of whole days.
package duration

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/model"
)

// Breakdown is the elapsed interval between two calendar dates.
type Breakdown struct {
	Years     int `json:"years"`
	Months    int `json:"months"`
	Days      int `json:"days"`
	TotalDays int `json:"totalDays"`
}

// String formats the breakdown as "2y 2m 5d (795 days)".
func (b Breakdown) String() string {
	return fmt.Sprintf("%dy %dm %dd (%d days)", b.Years, b.Months, b.Days, b.TotalDays)
}

// Compute returns the breakdown from start to now. Both values are reduced to calendar
// dates in now's location before any arithmetic, so the time of day never matters.
//
// Days are borrowed from the months preceding now's month: the first borrow adds the
// length of the previous month, and if days are still negative the month before that
// is added as well. A start date after now is measured from now to start, so every
// field stays non-negative.
func Compute(start, now time.Time) Breakdown {
	loc := now.Location()
	from := calendarDate(start.In(loc))
	to := calendarDate(now)

	if from.After(to) {
		from, to = to, from
	}

	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	days := to.Day() - from.Day()

	for back := 1; days < 0; back++ {
		months--
		days += daysInMonth(to.Year(), to.Month()-time.Month(back))
	}
	if months < 0 {
		years--
		months += 12
	}

	return Breakdown{
		Years:     years,
		Months:    months,
		Days:      days,
		TotalDays: model.CalendarDaysBetween(from, to),
	}
}

// ComputeString parses a stored start date and computes the breakdown against now.
func ComputeString(startDate string, now time.Time) (Breakdown, error) {
	start, err := model.ParseDateIn(startDate, now.Location())
	if err != nil {
		return Breakdown{}, fmt.Errorf("parsing start date: %w", err)
	}
	return Compute(start, now), nil
}

// DefaultStartDate is the start date assigned on first run: two years and one month
// before today, as YYYY-MM-DD.
func DefaultStartDate(now time.Time) string {
	return model.FormatDate(now.AddDate(-2, -1, 0))
}

// NextAnniversary returns the first anniversary of start falling on or after now's
// calendar day, along with its ordinal (1 for the first anniversary). A start on
// February 29 is celebrated on March 1 in common years.
func NextAnniversary(start, now time.Time) (time.Time, int) {
	loc := now.Location()
	from := calendarDate(start.In(loc))
	today := calendarDate(now)

	n := today.Year() - from.Year()
	if n < 1 {
		n = 1
	}
	for {
		next := from.AddDate(n, 0, 0)
		if !next.Before(today) {
			return next, n
		}
		n++
	}
}

// Calculator computes breakdowns against an injected clock.
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a calculator. A nil clock uses time.Now.
func NewCalculator(clock func() time.Time) *Calculator {
	if clock == nil {
		clock = time.Now
	}
	return &Calculator{now: clock}
}

// Compute returns the breakdown from startDate to the calculator's current time.
func (c *Calculator) Compute(startDate string) (Breakdown, error) {
	return ComputeString(startDate, c.now())
}

// Now returns the calculator's current time.
func (c *Calculator) Now() time.Time {
	return c.now()
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysInMonth handles month values outside 1..12 by normalizing through time.Date.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
