// Package holiday holds the bank holiday reference table used to decide
// whether a calendar day is a named holiday.
package holiday

import (
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/civil"
)

// MonthDay is a month and day without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// String returns the MM-DD form used by holiday table files.
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// valid reports whether the month/day exists in at least one year.
func (md MonthDay) valid() bool {
	if md.Month < time.January || md.Month > time.December || md.Day < 1 {
		return false
	}
	// 2024 is a leap year so Feb 29 is accepted.
	last := time.Date(2024, md.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return md.Day <= last
}

// Holiday is a single table rule. A zero Year means the rule applies every
// year; otherwise it applies only to that year.
type Holiday struct {
	MonthDay
	Year int
	Name string
}

// Fixed reports whether the rule recurs every year.
func (h Holiday) Fixed() bool {
	return h.Year == 0
}

// Occurrence is a holiday placed on a concrete date.
type Occurrence struct {
	Date civil.Date
	Name string
}

type yearDay struct {
	Year int
	MonthDay
}

// Table is an immutable holiday table. It is safe for concurrent use.
type Table struct {
	fixed    map[MonthDay]string
	variable map[yearDay]string

	// source order, for listings
	fixedList    []Holiday
	variableList []Holiday
}

// New builds a table from fixed (every-year) and variable (single-year) rules.
// A day may appear in both sets; the fixed name wins on lookup.
func New(fixed, variable []Holiday) (*Table, error) {
	t := &Table{
		fixed:        make(map[MonthDay]string, len(fixed)),
		variable:     make(map[yearDay]string, len(variable)),
		fixedList:    slices.Clone(fixed),
		variableList: slices.Clone(variable),
	}

	for i, h := range fixed {
		if !h.valid() {
			return nil, fmt.Errorf("fixed holiday[%d] %q: invalid date %s", i, h.Name, h.MonthDay)
		}
		if h.Year != 0 {
			return nil, fmt.Errorf("fixed holiday[%d] %q: must not have a year", i, h.Name)
		}
		if h.Name == "" {
			return nil, fmt.Errorf("fixed holiday[%d] on %s: name is required", i, h.MonthDay)
		}
		if existing, ok := t.fixed[h.MonthDay]; ok {
			return nil, fmt.Errorf("fixed holiday[%d] %q: %s already used by %q", i, h.Name, h.MonthDay, existing)
		}
		t.fixed[h.MonthDay] = h.Name
	}

	for i, h := range variable {
		if !h.valid() {
			return nil, fmt.Errorf("variable holiday[%d] %q: invalid date %s", i, h.Name, h.MonthDay)
		}
		if h.Year == 0 {
			return nil, fmt.Errorf("variable holiday[%d] %q: year is required", i, h.Name)
		}
		if h.Name == "" {
			return nil, fmt.Errorf("variable holiday[%d] on %d-%s: name is required", i, h.Year, h.MonthDay)
		}
		if !(civil.Date{Year: h.Year, Month: h.Month, Day: h.Day}).IsValid() {
			return nil, fmt.Errorf("variable holiday[%d] %q: %d-%s does not exist", i, h.Name, h.Year, h.MonthDay)
		}
		key := yearDay{Year: h.Year, MonthDay: h.MonthDay}
		if existing, ok := t.variable[key]; ok {
			return nil, fmt.Errorf("variable holiday[%d] %q: %d-%s already used by %q", i, h.Name, h.Year, h.MonthDay, existing)
		}
		t.variable[key] = h.Name
	}

	return t, nil
}

// MustNew is like New but panics on an invalid table. It is meant for
// tables compiled into the binary.
func MustNew(fixed, variable []Holiday) *Table {
	t, err := New(fixed, variable)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the holiday name for d. Fixed rules are checked before
// variable rules and the first match wins. Years without variable entries
// only ever match fixed rules.
func (t *Table) Lookup(d civil.Date) (string, bool) {
	md := MonthDay{Month: d.Month, Day: d.Day}
	if name, ok := t.fixed[md]; ok {
		return name, true
	}
	if name, ok := t.variable[yearDay{Year: d.Year, MonthDay: md}]; ok {
		return name, true
	}
	return "", false
}

// IsHoliday reports whether d is a named holiday.
func (t *Table) IsHoliday(d civil.Date) bool {
	_, ok := t.Lookup(d)
	return ok
}

// Name returns the holiday name for d, or "" when d is not a holiday.
func (t *Table) Name(d civil.Date) string {
	name, _ := t.Lookup(d)
	return name
}

// ForMonth lists the fixed holidays and the variable holidays of year that
// fall in month, in table order.
func (t *Table) ForMonth(year int, month time.Month) []Holiday {
	var out []Holiday
	for _, h := range t.fixedList {
		if h.Month == month {
			out = append(out, h)
		}
	}
	for _, h := range t.variableList {
		if h.Month == month && h.Year == year {
			out = append(out, h)
		}
	}
	return out
}

// Upcoming returns up to count holidays on or after from, looking at from's
// year and the next one, ordered by date.
func (t *Table) Upcoming(from civil.Date, count int) []Occurrence {
	if count <= 0 {
		return nil
	}

	var found []Occurrence
	for year := from.Year; year <= from.Year+1; year++ {
		for _, h := range t.fixedList {
			d := civil.Date{Year: year, Month: h.Month, Day: h.Day}
			// Feb 29 rules have no occurrence in common years.
			if !d.IsValid() {
				continue
			}
			if !d.Before(from) {
				found = append(found, Occurrence{Date: d, Name: h.Name})
			}
		}
		for _, h := range t.variableList {
			if h.Year != year {
				continue
			}
			d := civil.Date{Year: year, Month: h.Month, Day: h.Day}
			if !d.Before(from) {
				found = append(found, Occurrence{Date: d, Name: h.Name})
			}
		}
	}

	slices.SortStableFunc(found, func(a, b Occurrence) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	})

	if len(found) > count {
		found = found[:count]
	}
	return found
}

// Years returns the first and last year that have variable entries. Both
// are zero when the table has none.
func (t *Table) Years() (first, last int) {
	for _, h := range t.variableList {
		if first == 0 || h.Year < first {
			first = h.Year
		}
		if h.Year > last {
			last = h.Year
		}
	}
	return first, last
}

// Fixed returns a copy of the fixed rules in table order.
func (t *Table) Fixed() []Holiday {
	return slices.Clone(t.fixedList)
}

// Variable returns a copy of the variable rules in table order.
func (t *Table) Variable() []Holiday {
	return slices.Clone(t.variableList)
}
