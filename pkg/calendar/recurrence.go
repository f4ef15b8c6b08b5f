package calendar

import (
	"strconv"
	"strings"
	"time"
)

// parseWireRecurrence decodes the "FREQ=...;INTERVAL=...[;BYDAY=...]"
// fragment the schedule API stores on recurring events.
func parseWireRecurrence(raw string, until *time.Time) (*Recurrence, bool) {
	rec := Recurrence{Interval: 1, Until: until}
	for _, part := range strings.Split(raw, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch strings.ToUpper(key) {
		case "FREQ":
			rec.Freq = Frequency(strings.ToUpper(value))
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, false
			}
			rec.Interval = n
		case "BYDAY":
			for _, day := range strings.Split(value, ",") {
				wd, ok := weekdayFromICal(day)
				if !ok {
					return nil, false
				}
				rec.Weekdays = append(rec.Weekdays, wd)
			}
		}
	}
	if !rec.Freq.Valid() {
		return nil, false
	}
	return &rec, true
}

var icalWeekdays = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

func weekdayFromICal(s string) (time.Weekday, bool) {
	wd, ok := icalWeekdays[strings.ToUpper(strings.TrimSpace(s))]
	return wd, ok
}
