// Package ics renders cheque reminders as iCalendar documents that can be
// imported into any calendar application.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/emersion/go-ical"

	"github.com/beekhof/cheque-reminders/internal/cheque"
)

const (
	singleProductID = "-//ChequeFlow//Cheque Reminder//EN"
	batchProductID  = "-//ChequeFlow//Cheque Reminders//EN"
	batchName       = "ChequeFlow Reminders"
	uidDomain       = "chequeflow.app"

	// alarmTrigger fires the reminder one day before the event.
	alarmTrigger = "-P1D"
)

// UID returns the stable iCalendar UID of a cheque's reminder event.
func UID(c *cheque.Cheque) string {
	return fmt.Sprintf("cheque-%s@%s", c.ID, uidDomain)
}

// EncodeCheque writes a calendar containing the reminder event of c.
// now is used as the DTSTAMP of the event.
func EncodeCheque(w io.Writer, c *cheque.Cheque, now time.Time) error {
	cal := newCalendar(singleProductID)
	cal.Children = append(cal.Children, chequeEvent(c, now))
	return encode(w, cal)
}

// EncodeCheques writes one calendar holding a reminder event per cheque, in
// the order given.
func EncodeCheques(w io.Writer, cheques []*cheque.Cheque, now time.Time) error {
	cal := newCalendar(batchProductID)
	setRaw(cal.Props, "X-WR-CALNAME", batchName)
	for _, c := range cheques {
		cal.Children = append(cal.Children, chequeEvent(c, now))
	}
	return encode(w, cal)
}

func newCalendar(productID string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	setRaw(cal.Props, ical.PropCalendarScale, "GREGORIAN")
	setRaw(cal.Props, ical.PropMethod, "PUBLISH")
	return cal
}

// chequeEvent builds the all-day VEVENT for c on its effective date.
func chequeEvent(c *cheque.Cheque, now time.Time) *ical.Component {
	event := ical.NewComponent(ical.CompEvent)

	event.Props.SetText(ical.PropUID, UID(c))
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC().Truncate(time.Second))

	day := c.EffectiveDate()
	event.Props.Set(dateProp(ical.PropDateTimeStart, day))
	event.Props.Set(dateProp(ical.PropDateTimeEnd, day))

	event.Props.SetText(ical.PropSummary, text("💰 Cheque Due: "+c.PayeeName))
	event.Props.SetText(ical.PropDescription, text(strings.Join(c.DescriptionLines(), "\n")))

	alarm := ical.NewComponent(ical.CompAlarm)
	setRaw(alarm.Props, ical.PropTrigger, alarmTrigger)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription,
		text(fmt.Sprintf("Cheque reminder: %s - %s", c.PayeeName, cheque.FormatAmount(c.Amount))))
	event.Children = append(event.Children, alarm)

	return event
}

// newlines folds CRLF and lone CR into LF. SetText escapes LF but the
// encoder rejects a raw CR.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func text(s string) string {
	return newlines.Replace(s)
}

// dateProp builds a VALUE=DATE property for d.
func dateProp(name string, d civil.Date) *ical.Prop {
	prop := ical.NewProp(name)
	prop.SetDate(d.In(time.UTC))
	return prop
}

// setRaw sets a property whose value needs neither escaping nor a VALUE
// parameter.
func setRaw(props ical.Props, name, value string) {
	prop := ical.NewProp(name)
	prop.Value = value
	props.Set(prop)
}

func encode(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
