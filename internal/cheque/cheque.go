// Package cheque models post-dated cheques and their reminder lifecycle.
package cheque

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beekhof/cheque-reminders/internal/reminder"
)

// Status is the clearing state of a cheque.
type Status string

const (
	StatusPending Status = "pending"
	StatusCleared Status = "cleared"
	StatusBounced Status = "bounced"
)

// ParseStatus converts s into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q (expected pending, cleared or bounced)", ErrInvalid, s)
	}
	return st, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCleared, StatusBounced:
		return true
	}
	return false
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid cheque")

// Cheque is a post-dated cheque. ReminderDate, IsHolidayAdjusted and
// HolidaySkipped are computed from DueDate when the cheque is created and
// are not refreshed when DueDate changes later.
type Cheque struct {
	ID            uuid.UUID
	ChequeNumber  string
	BankName      string
	AccountNumber string
	PayeeName     string
	Amount        decimal.Decimal
	IssueDate     civil.Date // zero when unknown
	DueDate       civil.Date
	Status        Status
	Branch        string
	Notes         string
	CreatedAt     time.Time

	ReminderDate      *civil.Date
	IsHolidayAdjusted bool
	HolidaySkipped    []string

	// GoogleEventID is the id of the synced Google Calendar event, if any.
	GoogleEventID string
}

// Validate checks the fields a cheque needs before it can be stored.
func (c *Cheque) Validate() error {
	var problems []string

	if strings.TrimSpace(c.ChequeNumber) == "" {
		problems = append(problems, "cheque number is required")
	}
	if strings.TrimSpace(c.PayeeName) == "" {
		problems = append(problems, "payee name is required")
	}
	if strings.TrimSpace(c.BankName) == "" {
		problems = append(problems, "bank name is required")
	}
	if strings.TrimSpace(c.Branch) == "" {
		problems = append(problems, "branch is required")
	}
	if c.Amount.LessThanOrEqual(decimal.Zero) {
		problems = append(problems, "amount must be positive")
	}
	if !c.DueDate.IsValid() {
		problems = append(problems, "due date is not a valid date")
	}
	if c.IssueDate != (civil.Date{}) {
		if !c.IssueDate.IsValid() {
			problems = append(problems, "issue date is not a valid date")
		} else if c.DueDate.IsValid() && c.IssueDate.After(c.DueDate) {
			problems = append(problems, "issue date is after due date")
		}
	}
	if !c.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", c.Status))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// EffectiveDate is the day reminders fire: the reminder date when one has
// been computed, otherwise the due date.
func (c *Cheque) EffectiveDate() civil.Date {
	if c.ReminderDate != nil {
		return *c.ReminderDate
	}
	return c.DueDate
}

// ApplyReminder stores the outcome of a reminder resolution on c.
func (c *Cheque) ApplyReminder(r reminder.Reminder) {
	d := r.ReminderDate
	c.ReminderDate = &d
	c.IsHolidayAdjusted = r.Adjusted
	c.HolidaySkipped = append([]string(nil), r.SkippedDays...)
}
