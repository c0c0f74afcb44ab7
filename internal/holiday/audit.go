package holiday

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/rickar/cal/v2/aa"
)

const goodFriday = "Good Friday"

// Discrepancy is a year-specific entry that disagrees with a computed date.
type Discrepancy struct {
	Year     int
	Name     string
	Listed   civil.Date // zero when the year has no entry
	Expected civil.Date
}

func (d Discrepancy) String() string {
	if d.Listed == (civil.Date{}) {
		return fmt.Sprintf("%d: %s missing, expected %s", d.Year, d.Name, d.Expected)
	}
	return fmt.Sprintf("%d: %s listed on %s, expected %s", d.Year, d.Name, d.Listed, d.Expected)
}

// Audit checks the variable entries that can be derived from the Easter
// computus against it. Only Good Friday qualifies; lunar observances are
// not checked. Every year in the populated range must list it exactly on the
// computed date.
func Audit(t *Table) []Discrepancy {
	first, last := t.Years()
	if first == 0 {
		return nil
	}

	listed := make(map[int]civil.Date)
	for _, h := range t.variableList {
		if h.Name == goodFriday {
			listed[h.Year] = civil.Date{Year: h.Year, Month: h.Month, Day: h.Day}
		}
	}

	var out []Discrepancy
	for year := first; year <= last; year++ {
		actual, _ := aa.GoodFriday.Calc(year)
		expected := civil.DateOf(actual)
		got, ok := listed[year]
		if !ok {
			out = append(out, Discrepancy{Year: year, Name: goodFriday, Expected: expected})
			continue
		}
		if got != expected {
			out = append(out, Discrepancy{Year: year, Name: goodFriday, Listed: got, Expected: expected})
		}
	}
	return out
}
