package holiday

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// fileEntry is one rule in a holiday table file.
type fileEntry struct {
	Date string `json:"date"` // MM-DD
	Name string `json:"name"`
	Year int    `json:"year,omitempty"`
}

// tableFile is the on-disk layout of a holiday table.
type tableFile struct {
	Fixed    []fileEntry `json:"fixed"`
	Variable []fileEntry `json:"variable"`
}

// LoadFile reads a JSON holiday table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday table: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode reads a JSON holiday table of the form
//
//	{"fixed": [{"date": "01-01", "name": "New Year's Day"}],
//	 "variable": [{"date": "01-13", "year": 2025, "name": "Duruthu Full Moon Poya Day"}]}
func Decode(r io.Reader) (*Table, error) {
	var tf tableFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("failed to parse holiday table: %w", err)
	}

	fixed, err := convertEntries(tf.Fixed)
	if err != nil {
		return nil, fmt.Errorf("fixed: %w", err)
	}
	variable, err := convertEntries(tf.Variable)
	if err != nil {
		return nil, fmt.Errorf("variable: %w", err)
	}

	return New(fixed, variable)
}

// Encode writes t in the format read by Decode.
func Encode(w io.Writer, t *Table) error {
	tf := tableFile{
		Fixed:    make([]fileEntry, 0, len(t.fixedList)),
		Variable: make([]fileEntry, 0, len(t.variableList)),
	}
	for _, h := range t.fixedList {
		tf.Fixed = append(tf.Fixed, fileEntry{Date: h.MonthDay.String(), Name: h.Name})
	}
	for _, h := range t.variableList {
		tf.Variable = append(tf.Variable, fileEntry{Date: h.MonthDay.String(), Name: h.Name, Year: h.Year})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tf); err != nil {
		return fmt.Errorf("failed to encode holiday table: %w", err)
	}
	return nil
}

func convertEntries(entries []fileEntry) ([]Holiday, error) {
	out := make([]Holiday, 0, len(entries))
	for i, e := range entries {
		md, err := ParseMonthDay(e.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}
		out = append(out, Holiday{MonthDay: md, Year: e.Year, Name: e.Name})
	}
	return out, nil
}

// ParseMonthDay parses the MM-DD form.
func ParseMonthDay(s string) (MonthDay, error) {
	if len(s) != 5 || s[2] != '-' || !digits(s[:2]) || !digits(s[3:]) {
		return MonthDay{}, fmt.Errorf("invalid month-day %q, expected MM-DD", s)
	}
	month, _ := strconv.Atoi(s[:2])
	day, _ := strconv.Atoi(s[3:])
	md := MonthDay{Month: time.Month(month), Day: day}
	if !md.valid() {
		return MonthDay{}, fmt.Errorf("invalid month-day %q", s)
	}
	return md, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
