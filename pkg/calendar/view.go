package calendar

import "time"

// ViewMode selects which slice of the calendar is displayed.
type ViewMode int

const (
	ViewMonth ViewMode = iota
	ViewWeek
	ViewDay
	ViewAgenda
)

// agendaLookaheadDays is the inclusive lookahead window of the agenda view.
const agendaLookaheadDays = 30

func (v ViewMode) String() string {
	switch v {
	case ViewWeek:
		return "week"
	case ViewDay:
		return "day"
	case ViewAgenda:
		return "agenda"
	default:
		return "month"
	}
}

// ParseViewMode maps a view name to its mode, falling back to month for
// anything unknown.
func ParseViewMode(s string) ViewMode {
	switch s {
	case "week":
		return ViewWeek
	case "day":
		return ViewDay
	case "agenda":
		return ViewAgenda
	default:
		return ViewMonth
	}
}

// ViewWindow is the [start, end] instant range a view displays. Start is the
// first instant of its day (00:00:00.000), end the last (23:59:59.999).
type ViewWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w ViewWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Padded widens the window by the given number of days on each side. Month
// grids render cells belonging to adjacent months, so holiday lookups pad
// the resolved window before querying.
func (w ViewWindow) Padded(days int) ViewWindow {
	return ViewWindow{
		Start: w.Start.AddDate(0, 0, -days),
		End:   w.End.AddDate(0, 0, days),
	}
}

// ResolveRange computes the window for anchor under the given view mode:
// the anchor's month, its Sunday-started week, its day, or the 30-day
// agenda window beginning at its day.
func ResolveRange(anchor time.Time, view ViewMode) ViewWindow {
	year, month, day := anchor.Date()
	loc := anchor.Location()

	switch view {
	case ViewWeek:
		weekStart := day - int(anchor.Weekday())
		return ViewWindow{
			Start: time.Date(year, month, weekStart, 0, 0, 0, 0, loc),
			End:   endOfDay(time.Date(year, month, weekStart+6, 0, 0, 0, 0, loc)),
		}
	case ViewDay:
		return ViewWindow{
			Start: time.Date(year, month, day, 0, 0, 0, 0, loc),
			End:   endOfDay(anchor),
		}
	case ViewAgenda:
		return ViewWindow{
			Start: time.Date(year, month, day, 0, 0, 0, 0, loc),
			End:   endOfDay(time.Date(year, month, day+agendaLookaheadDays, 0, 0, 0, 0, loc)),
		}
	case ViewMonth:
		fallthrough
	default:
		return ViewWindow{
			Start: time.Date(year, month, 1, 0, 0, 0, 0, loc),
			// day 0 of the next month is the last day of this one
			End: endOfDay(time.Date(year, month+1, 0, 0, 0, 0, 0, loc)),
		}
	}
}

// Step returns the anchor moved by direction (+1 forward, -1 back) in units
// of the view: a month, a week, or a day.
func Step(anchor time.Time, view ViewMode, direction int) time.Time {
	switch view {
	case ViewWeek:
		return anchor.AddDate(0, 0, 7*direction)
	case ViewDay, ViewAgenda:
		return anchor.AddDate(0, 0, direction)
	case ViewMonth:
		fallthrough
	default:
		return anchor.AddDate(0, direction, 0)
	}
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 999000000, t.Location())
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// sameDay reports whether a and b fall on the same calendar day in a's
// location.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
