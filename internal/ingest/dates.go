package ingest

import (
	"strings"
	"time"
)

// dayLayouts are tried in order. Sources use either Y-M-D or D/M/Y encodings,
// with or without a time-of-day component.
var dayLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
}

// ParseCalendarDay parses a raw event date and truncates it to its calendar
// day in UTC. The second return value is false for unparseable input;
// unparseable dates are never force-matched downstream.
func ParseCalendarDay(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dayLayouts {
		when, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return time.Date(when.Year(), when.Month(), when.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
