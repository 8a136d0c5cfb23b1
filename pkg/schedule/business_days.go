package schedule

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar answers business-day questions for the sweep tolerance windows.
// Saturdays and Sundays are never business days; additional holidays come from
// configuration as YYYY-MM-DD dates.
type Calendar struct {
	holidays map[string]struct{}
}

func NewCalendar(holidays ...time.Time) Calendar {
	c := Calendar{holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[h.Format(dateLayout)] = struct{}{}
	}
	return c
}

// ParseCalendar builds a Calendar from a comma-separated holiday list.
// Malformed entries are skipped rather than failing startup.
func ParseCalendar(holidayList string) Calendar {
	c := Calendar{holidays: map[string]struct{}{}}
	for _, part := range strings.Split(holidayList, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, part); err != nil {
			continue
		}
		c.holidays[part] = struct{}{}
	}
	return c
}

func (c Calendar) IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[t.Format(dateLayout)]
	return !holiday
}

// BusinessDaysBetween counts business days after from, up to and including to.
// A non-positive span yields zero.
func (c Calendar) BusinessDaysBetween(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	if !from.Before(to) {
		return 0
	}
	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			days++
		}
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
