package cheque

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const currencyCode = "LKR"

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount as e.g. "LKR 150,000" or "LKR 1,234.5",
// keeping at most two fraction digits.
func FormatAmount(amount decimal.Decimal) string {
	f := amount.Round(2).InexactFloat64()
	return amountPrinter.Sprintf("%s %v", currencyCode, number.Decimal(f, number.MaxFractionDigits(2)))
}

// DescriptionLines returns the human readable details of c, one per line.
// The notes line is omitted when c has no notes.
func (c *Cheque) DescriptionLines() []string {
	lines := []string{
		"Cheque Number: " + c.ChequeNumber,
		"Payee: " + c.PayeeName,
		"Amount: " + FormatAmount(c.Amount),
		"Bank: " + c.BankName,
		"Branch: " + c.Branch,
	}
	if c.Notes != "" {
		lines = append(lines, "Notes: "+c.Notes)
	}
	return lines
}

// AdjustmentNote explains a holiday adjustment, or returns "" when the
// reminder falls on the due date.
func (c *Cheque) AdjustmentNote() string {
	if !c.IsHolidayAdjusted || c.ReminderDate == nil {
		return ""
	}
	return fmt.Sprintf("Due date %s falls on %s. Reminder set for next working day %s.",
		c.DueDate, strings.Join(c.HolidaySkipped, ", "), c.ReminderDate)
}

