package cheque

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beekhof/cheque-reminders/internal/reminder"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func validCheque() *Cheque {
	return &Cheque{
		ID:           uuid.New(),
		ChequeNumber: "000123",
		BankName:     "Commercial Bank",
		PayeeName:    "Lanka Traders",
		Amount:       decimal.NewFromInt(150000),
		IssueDate:    date(2025, time.January, 2),
		DueDate:      date(2025, time.February, 8),
		Status:       StatusPending,
		Branch:       "Colombo 03",
	}
}

func TestCheque_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Cheque)
		wantErr bool
		errMsg  string
	}{
		{name: "valid cheque", mutate: func(c *Cheque) {}},
		{name: "issue date optional", mutate: func(c *Cheque) { c.IssueDate = civil.Date{} }},
		{
			name:    "missing cheque number",
			mutate:  func(c *Cheque) { c.ChequeNumber = "  " },
			wantErr: true,
			errMsg:  "cheque number is required",
		},
		{
			name:    "zero amount",
			mutate:  func(c *Cheque) { c.Amount = decimal.Zero },
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name:    "negative amount",
			mutate:  func(c *Cheque) { c.Amount = decimal.NewFromInt(-5) },
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name:    "invalid due date",
			mutate:  func(c *Cheque) { c.DueDate = date(2025, time.February, 30) },
			wantErr: true,
			errMsg:  "due date is not a valid date",
		},
		{
			name:    "issued after due",
			mutate:  func(c *Cheque) { c.IssueDate = date(2025, time.March, 1) },
			wantErr: true,
			errMsg:  "issue date is after due date",
		},
		{
			name:    "unknown status",
			mutate:  func(c *Cheque) { c.Status = "stale" },
			wantErr: true,
			errMsg:  `unknown status "stale"`,
		},
		{
			name: "several problems reported together",
			mutate: func(c *Cheque) {
				c.PayeeName = ""
				c.Branch = ""
			},
			wantErr: true,
			errMsg:  "payee name is required; branch is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCheque()
			tt.mutate(c)
			err := c.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Cleared ")
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, st)

	_, err = ParseStatus("void")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCheque_EffectiveDate(t *testing.T) {
	c := validCheque()
	assert.Equal(t, c.DueDate, c.EffectiveDate())

	c.ApplyReminder(reminder.Reminder{
		DueDate:      c.DueDate,
		ReminderDate: date(2025, time.February, 10),
		Adjusted:     true,
		SkippedDays:  []string{"Saturday", "Sunday"},
	})
	assert.Equal(t, date(2025, time.February, 10), c.EffectiveDate())
	assert.True(t, c.IsHolidayAdjusted)
	assert.Equal(t, []string{"Saturday", "Sunday"}, c.HolidaySkipped)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "LKR 150,000", FormatAmount(decimal.NewFromInt(150000)))
	assert.Equal(t, "LKR 1,234.56", FormatAmount(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "LKR 999", FormatAmount(decimal.NewFromInt(999)))
}

func TestCheque_DescriptionLines(t *testing.T) {
	c := validCheque()
	assert.Equal(t, []string{
		"Cheque Number: 000123",
		"Payee: Lanka Traders",
		"Amount: LKR 150,000",
		"Bank: Commercial Bank",
		"Branch: Colombo 03",
	}, c.DescriptionLines())

	c.Notes = "Rent for March"
	lines := c.DescriptionLines()
	assert.Equal(t, "Notes: Rent for March", lines[len(lines)-1])
}

func TestCheque_AdjustmentNote(t *testing.T) {
	c := validCheque()
	assert.Empty(t, c.AdjustmentNote())

	rd := date(2025, time.February, 10)
	c.ReminderDate = &rd
	c.IsHolidayAdjusted = true
	c.HolidaySkipped = []string{"Saturday", "Sunday"}
	assert.Equal(t,
		"Due date 2025-02-08 falls on Saturday, Sunday. Reminder set for next working day 2025-02-10.",
		c.AdjustmentNote())
}

func TestFilter_Matches(t *testing.T) {
	c := validCheque()
	assert.True(t, Filter{}.Matches(c))
	assert.True(t, Filter{Status: StatusPending, Branch: "Colombo 03"}.Matches(c))
	assert.False(t, Filter{Status: StatusCleared}.Matches(c))
	assert.False(t, Filter{Branch: "Kandy"}.Matches(c))
	assert.False(t, Filter{HasGoogleEvent: true}.Matches(c))

	c.GoogleEventID = "evt"
	assert.True(t, Filter{HasGoogleEvent: true}.Matches(c))
}
