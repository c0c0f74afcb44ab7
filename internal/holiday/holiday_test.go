package holiday

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestLookup_SriLanka(t *testing.T) {
	table := SriLanka()

	tests := []struct {
		name     string
		date     civil.Date
		wantName string
		wantOK   bool
	}{
		{"fixed holiday", date(2025, time.February, 4), "National Day", true},
		{"fixed holiday outside variable range", date(2031, time.December, 25), "Christmas Day", true},
		{"variable holiday", date(2025, time.January, 13), "Duruthu Full Moon Poya Day", true},
		{"variable holiday is year specific", date(2024, time.January, 13), "", false},
		{"variable holiday beyond populated range", date(2027, time.January, 13), "", false},
		{"fixed wins over variable", date(2026, time.May, 1), "May Day", true},
		{"plain day", date(2025, time.March, 14), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := table.Lookup(tt.date)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantOK, table.IsHoliday(tt.date))
			assert.Equal(t, tt.wantName, table.Name(tt.date))
		})
	}
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		fixed    []Holiday
		variable []Holiday
		errMsg   string
	}{
		{
			name:   "invalid fixed date",
			fixed:  []Holiday{{MonthDay: MonthDay{time.February, 30}, Name: "Nope"}},
			errMsg: "invalid date",
		},
		{
			name:   "fixed with year",
			fixed:  []Holiday{{MonthDay: MonthDay{time.January, 1}, Year: 2025, Name: "New Year"}},
			errMsg: "must not have a year",
		},
		{
			name: "duplicate fixed",
			fixed: []Holiday{
				{MonthDay: MonthDay{time.January, 1}, Name: "A"},
				{MonthDay: MonthDay{time.January, 1}, Name: "B"},
			},
			errMsg: "already used",
		},
		{
			name:     "variable without year",
			variable: []Holiday{{MonthDay: MonthDay{time.March, 3}, Name: "Poya"}},
			errMsg:   "year is required",
		},
		{
			name:     "variable leap day in common year",
			variable: []Holiday{{MonthDay: MonthDay{time.February, 29}, Year: 2025, Name: "Leap"}},
			errMsg:   "does not exist",
		},
		{
			name: "duplicate variable",
			variable: []Holiday{
				{MonthDay: MonthDay{time.March, 3}, Year: 2026, Name: "A"},
				{MonthDay: MonthDay{time.March, 3}, Year: 2026, Name: "B"},
			},
			errMsg: "already used",
		},
		{
			name:   "missing name",
			fixed:  []Holiday{{MonthDay: MonthDay{time.January, 1}}},
			errMsg: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fixed, tt.variable)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNew_SameDayInBothSetsIsAllowed(t *testing.T) {
	table, err := New(
		[]Holiday{{MonthDay: MonthDay{time.May, 1}, Name: "May Day"}},
		[]Holiday{{MonthDay: MonthDay{time.May, 1}, Year: 2026, Name: "Vesak"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "May Day", table.Name(date(2026, time.May, 1)))
}

func TestForMonth(t *testing.T) {
	table := SriLanka()

	got := table.ForMonth(2025, time.April)
	names := make([]string, 0, len(got))
	for _, h := range got {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{
		"Day Prior to Sinhala & Tamil New Year",
		"Sinhala & Tamil New Year",
		"Bak Full Moon Poya Day",
		"Good Friday",
	}, names)

	// Only fixed rules apply outside the populated range.
	got = table.ForMonth(2030, time.April)
	assert.Len(t, got, 2)

	assert.Len(t, table.ForMonth(2025, time.July), 1)
}

func TestUpcoming(t *testing.T) {
	table := SriLanka()

	got := table.Upcoming(date(2025, time.December, 4), 4)
	require.Len(t, got, 4)
	assert.Equal(t, Occurrence{date(2025, time.December, 4), "Unduvap Full Moon Poya Day"}, got[0])
	assert.Equal(t, Occurrence{date(2025, time.December, 25), "Christmas Day"}, got[1])
	assert.Equal(t, Occurrence{date(2026, time.January, 1), "New Year's Day"}, got[2])
	assert.Equal(t, Occurrence{date(2026, time.January, 3), "Duruthu Full Moon Poya Day"}, got[3])

	assert.Nil(t, table.Upcoming(date(2025, time.January, 1), 0))
}

func TestUpcoming_SortsOutOfOrderEntries(t *testing.T) {
	table := SriLanka()

	// Deepavali (Nov 8) precedes Ill Poya (Oct 25) in the 2026 source list.
	got := table.Upcoming(date(2026, time.October, 1), 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Ill Full Moon Poya Day", got[0].Name)
	assert.Equal(t, "Deepavali", got[1].Name)
}

func TestYears(t *testing.T) {
	first, last := SriLanka().Years()
	assert.Equal(t, 2024, first)
	assert.Equal(t, 2026, last)

	empty := MustNew(nil, nil)
	first, last = empty.Years()
	assert.Zero(t, first)
	assert.Zero(t, last)
}

func TestDecode(t *testing.T) {
	doc := `{
  "fixed": [{"date": "01-01", "name": "New Year"}],
  "variable": [{"date": "03-03", "year": 2026, "name": "Medin Poya"}]
}`
	table, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "New Year", table.Name(date(2040, time.January, 1)))
	assert.Equal(t, "Medin Poya", table.Name(date(2026, time.March, 3)))
	assert.False(t, table.IsHoliday(date(2025, time.March, 3)))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad json", `{"fixed": [`},
		{"unknown field", `{"fixed": [], "extra": true}`},
		{"bad month-day", `{"fixed": [{"date": "1-1", "name": "x"}]}`},
		{"signed month-day", `{"fixed": [{"date": "+1-02", "name": "x"}]}`},
		{"month out of range", `{"fixed": [{"date": "13-01", "name": "x"}]}`},
		{"variable missing year", `{"variable": [{"date": "01-13", "name": "x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseMonthDay(t *testing.T) {
	md, err := ParseMonthDay("02-29")
	require.NoError(t, err)
	assert.Equal(t, MonthDay{time.February, 29}, md)

	for _, bad := range []string{"+1-02", "01-+2", "-1-02", " 1-02", "01- 2", "1-1", "01/02", "00-10", "04-31"} {
		_, err := ParseMonthDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestEncodeDecode_SriLanka(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, SriLanka()))

	table, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, SriLanka().Fixed(), table.Fixed())
	assert.Equal(t, SriLanka().Variable(), table.Variable())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(t.TempDir() + "/missing.json")
	assert.Error(t, err)
}
