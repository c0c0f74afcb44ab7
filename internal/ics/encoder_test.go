package ics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beekhof/cheque-reminders/internal/cheque"
)

var testNow = time.Date(2025, time.February, 1, 8, 15, 30, 0, time.UTC)

func adjustedCheque() *cheque.Cheque {
	reminderDate := civil.Date{Year: 2025, Month: time.February, Day: 10}
	return &cheque.Cheque{
		ID:                uuid.MustParse("6f1c2a7e-3b9d-4e55-9a0c-2f4d8b1e7c11"),
		ChequeNumber:      "000123",
		BankName:          "Commercial Bank",
		PayeeName:         "Lanka Traders",
		Amount:            decimal.NewFromInt(150000),
		DueDate:           civil.Date{Year: 2025, Month: time.February, Day: 8},
		Status:            cheque.StatusPending,
		Branch:            "Colombo 03",
		ReminderDate:      &reminderDate,
		IsHolidayAdjusted: true,
		HolidaySkipped:    []string{"Saturday", "Sunday"},
	}
}

func decode(t *testing.T, data []byte) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return cal
}

func propText(t *testing.T, props ical.Props, name string) string {
	t.Helper()
	prop := props.Get(name)
	require.NotNil(t, prop, "missing %s", name)
	text, err := prop.Text()
	require.NoError(t, err)
	return text
}

func TestEncodeCheque(t *testing.T) {
	c := adjustedCheque()

	var buf bytes.Buffer
	require.NoError(t, EncodeCheque(&buf, c, testNow))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.Equal(t, strings.Count(out, "\n"), strings.Count(out, "\r\n"), "every line must end in CRLF")
	assert.Contains(t, out, "UID:cheque-6f1c2a7e-3b9d-4e55-9a0c-2f4d8b1e7c11@chequeflow.app\r\n")
	assert.Contains(t, out, "DTSTAMP:20250201T081530Z\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250210\r\n")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250210\r\n")
	assert.Contains(t, out, "TRIGGER:-P1D\r\n")
	assert.Contains(t, out, "METHOD:PUBLISH\r\n")
	assert.Contains(t, out, "CALSCALE:GREGORIAN\r\n")
	assert.NotContains(t, out, "X-WR-CALNAME")

	cal := decode(t, buf.Bytes())
	assert.Equal(t, singleProductID, propText(t, cal.Props, ical.PropProductID))

	events := cal.Events()
	require.Len(t, events, 1)
	ev := events[0]

	start, err := ev.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, c.EffectiveDate(), civil.DateOf(start))

	assert.Equal(t, "💰 Cheque Due: Lanka Traders", propText(t, ev.Props, ical.PropSummary))
	assert.Equal(t, strings.Join([]string{
		"Cheque Number: 000123",
		"Payee: Lanka Traders",
		"Amount: LKR 150,000",
		"Bank: Commercial Bank",
		"Branch: Colombo 03",
	}, "\n"), propText(t, ev.Props, ical.PropDescription))

	require.Len(t, ev.Children, 1)
	alarm := ev.Children[0]
	assert.Equal(t, ical.CompAlarm, alarm.Name)
	assert.Equal(t, "DISPLAY", propText(t, alarm.Props, ical.PropAction))
	assert.Equal(t, "Cheque reminder: Lanka Traders - LKR 150,000", propText(t, alarm.Props, ical.PropDescription))
}

func TestEncodeCheque_UsesDueDateWithoutReminder(t *testing.T) {
	c := adjustedCheque()
	c.ReminderDate = nil

	var buf bytes.Buffer
	require.NoError(t, EncodeCheque(&buf, c, testNow))

	start, err := decode(t, buf.Bytes()).Events()[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, c.DueDate, civil.DateOf(start))
}

func TestEncodeCheque_Notes(t *testing.T) {
	c := adjustedCheque()
	c.Notes = "Rent; March"

	var buf bytes.Buffer
	require.NoError(t, EncodeCheque(&buf, c, testNow))

	desc := propText(t, decode(t, buf.Bytes()).Events()[0].Props, ical.PropDescription)
	assert.True(t, strings.HasSuffix(desc, "\nNotes: Rent; March"), desc)
}

func TestEncodeCheque_CarriageReturns(t *testing.T) {
	c := adjustedCheque()
	c.PayeeName = "Lanka\rTraders"
	c.Notes = "Rent\r\nMarch"

	var buf bytes.Buffer
	require.NoError(t, EncodeCheque(&buf, c, testNow))

	props := decode(t, buf.Bytes()).Events()[0].Props
	assert.Equal(t, "💰 Cheque Due: Lanka\nTraders", propText(t, props, ical.PropSummary))
	assert.True(t, strings.HasSuffix(propText(t, props, ical.PropDescription), "\nNotes: Rent\nMarch"))

	buf.Reset()
	require.NoError(t, EncodeCheques(&buf, []*cheque.Cheque{adjustedCheque(), c}, testNow))
	assert.Len(t, decode(t, buf.Bytes()).Events(), 2)
}

func TestEncodeCheque_Deterministic(t *testing.T) {
	c := adjustedCheque()

	var first, second bytes.Buffer
	require.NoError(t, EncodeCheque(&first, c, testNow))
	require.NoError(t, EncodeCheque(&second, c, testNow))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestEncodeCheques(t *testing.T) {
	a := adjustedCheque()
	b := adjustedCheque()
	b.ID = uuid.MustParse("0b8e1d44-5c3f-4a2b-8e6d-7f9a1c2b3d4e")
	b.PayeeName = "Kandy Hardware"
	b.ReminderDate = nil
	b.DueDate = civil.Date{Year: 2025, Month: time.March, Day: 14}

	var buf bytes.Buffer
	require.NoError(t, EncodeCheques(&buf, []*cheque.Cheque{a, b}, testNow))
	assert.Contains(t, buf.String(), "X-WR-CALNAME:ChequeFlow Reminders\r\n")

	cal := decode(t, buf.Bytes())
	assert.Equal(t, batchProductID, propText(t, cal.Props, ical.PropProductID))

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, UID(a), propText(t, events[0].Props, ical.PropUID))
	assert.Equal(t, UID(b), propText(t, events[1].Props, ical.PropUID))

	start, err := events[1].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, b.DueDate, civil.DateOf(start))
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "cheque-000123.ics", ChequeFilename(adjustedCheque()))
	assert.Equal(t, "chequeflow-reminders-2025-02-01.ics", BatchFilename(testNow))
}

func TestExportCheque(t *testing.T) {
	dir := t.TempDir()

	path, err := ExportCheque(dir, adjustedCheque(), testNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cheque-000123.ics"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, decode(t, data).Events(), 1)
}

func TestExportPending(t *testing.T) {
	dir := t.TempDir()

	pending := adjustedCheque()
	cleared := adjustedCheque()
	cleared.ID = uuid.New()
	cleared.Status = cheque.StatusCleared
	bounced := adjustedCheque()
	bounced.ID = uuid.New()
	bounced.Status = cheque.StatusBounced

	path, err := ExportPending(dir, []*cheque.Cheque{cleared, pending, bounced}, testNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chequeflow-reminders-2025-02-01.ics"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	events := decode(t, data).Events()
	require.Len(t, events, 1)
	assert.Equal(t, UID(pending), propText(t, events[0].Props, ical.PropUID))
}

func TestExportPending_NothingPending(t *testing.T) {
	dir := t.TempDir()

	cleared := adjustedCheque()
	cleared.Status = cheque.StatusBounced

	path, err := ExportPending(dir, []*cheque.Cheque{cleared}, testNow)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = ExportPending(dir, nil, testNow)
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
