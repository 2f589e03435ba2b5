package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const DateKeyLayout = "2006-01-02"

// DateKey identifies a calendar day as YYYY-MM-DD in the writer's local time.
type DateKey string

// DateKeyOf formats t in its own location.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(DateKeyLayout))
}

func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateKeyOf(t), nil
}

func (d DateKey) String() string {
	return string(d)
}

// In returns midnight of d in loc.
func (d DateKey) In(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, string(d), loc)
}

type JournalEntry struct {
	Date DateKey `json:"date,omitempty"`
	Time string  `json:"time"`
	Text string  `json:"entry"`
	User string  `json:"user,omitempty"`
}

var timeOfDayLayouts = []string{
	"3:04:05 PM",
	"3:04 PM",
	"15:04:05",
	"15:04",
}

// ParseTimeOfDay parses a wall clock string against a fixed reference date.
// Browser locale strings may separate the meridiem with a narrow no-break space.
func ParseTimeOfDay(s string) (time.Time, bool) {
	s = strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(strings.TrimSpace(s))
	s = strings.ToUpper(s)
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortByTimeDesc orders entries latest first. Unparsable times go last and
// keep their relative order.
func SortByTimeDesc(entries []JournalEntry) {
	sortByTime(entries, true)
}

func SortByTimeAsc(entries []JournalEntry) {
	sortByTime(entries, false)
}

func sortByTime(entries []JournalEntry, desc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, okI := ParseTimeOfDay(entries[i].Time)
		tj, okJ := ParseTimeOfDay(entries[j].Time)
		switch {
		case !okI:
			return false
		case !okJ:
			return true
		case desc:
			return ti.After(tj)
		default:
			return ti.Before(tj)
		}
	})
}
