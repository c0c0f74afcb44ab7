// Package workday classifies calendar days as bank working days and rolls
// dates forward to the next one.
package workday

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// MaxSkippedDays bounds how far NextBankWorkingDay walks before giving up.
// No real table has a year of consecutive closures.
const MaxSkippedDays = 366

// ErrNoWorkingDay is returned when no working day is found within
// MaxSkippedDays, which means the holiday table is broken.
var ErrNoWorkingDay = errors.New("no bank working day found")

// HolidayLookup resolves a date to a holiday name.
type HolidayLookup interface {
	Lookup(d civil.Date) (name string, ok bool)
}

// Calculator answers working-day questions against a holiday table.
type Calculator struct {
	holidays HolidayLookup
}

// NewCalculator creates a Calculator backed by holidays.
func NewCalculator(holidays HolidayLookup) *Calculator {
	return &Calculator{holidays: holidays}
}

// Result is the outcome of rolling a date forward.
type Result struct {
	Date    civil.Date
	Skipped []string // one label per skipped day, oldest first
}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d civil.Date) bool {
	wd := weekday(d)
	return wd == time.Saturday || wd == time.Sunday
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// IsBankWorkingDay reports whether d is neither a weekend nor a holiday.
func (c *Calculator) IsBankWorkingDay(d civil.Date) bool {
	if IsWeekend(d) {
		return false
	}
	_, ok := c.holidays.Lookup(d)
	return !ok
}

// NextBankWorkingDay returns d if it is a working day, otherwise the first
// working day after it together with a label for every day skipped.
//
// Weekends are classified before holidays, so a Saturday that is also a
// holiday is labelled "Saturday" and the holiday name is not recorded.
func (c *Calculator) NextBankWorkingDay(d civil.Date) (Result, error) {
	var skipped []string
	cur := d
	for i := 0; i <= MaxSkippedDays; i++ {
		if IsWeekend(cur) {
			skipped = append(skipped, weekday(cur).String())
		} else if name, ok := c.holidays.Lookup(cur); ok {
			skipped = append(skipped, name)
		} else {
			return Result{Date: cur, Skipped: skipped}, nil
		}
		cur = cur.AddDays(1)
	}
	return Result{}, fmt.Errorf("%w within %d days of %s", ErrNoWorkingDay, MaxSkippedDays, d)
}
