// Package reminder turns cheque due dates into reminder dates.
package reminder

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/beekhof/cheque-reminders/internal/workday"
)

// Reminder is the reminder schedule derived from a due date.
type Reminder struct {
	DueDate      civil.Date
	ReminderDate civil.Date
	Adjusted     bool     // ReminderDate != DueDate
	SkippedDays  []string // labels of the days rolled over, oldest first
}

// Resolver computes reminders. It holds no mutable state.
type Resolver struct {
	calc *workday.Calculator
}

// NewResolver creates a Resolver using calc.
func NewResolver(calc *workday.Calculator) *Resolver {
	return &Resolver{calc: calc}
}

// Resolve returns the reminder for a cheque due on due: the due date itself
// when it is a bank working day, otherwise the next working day.
func (r *Resolver) Resolve(due civil.Date) (Reminder, error) {
	if !due.IsValid() {
		return Reminder{}, fmt.Errorf("invalid due date %s", due)
	}

	next, err := r.calc.NextBankWorkingDay(due)
	if err != nil {
		return Reminder{}, fmt.Errorf("failed to resolve reminder for %s: %w", due, err)
	}

	return Reminder{
		DueDate:      due,
		ReminderDate: next.Date,
		Adjusted:     next.Date != due,
		SkippedDays:  next.Skipped,
	}, nil
}

// ResolveAll resolves each due date independently, in input order.
func (r *Resolver) ResolveAll(dues []civil.Date) ([]Reminder, error) {
	out := make([]Reminder, 0, len(dues))
	for i, due := range dues {
		rem, err := r.Resolve(due)
		if err != nil {
			return nil, fmt.Errorf("due date %d: %w", i, err)
		}
		out = append(out, rem)
	}
	return out, nil
}
