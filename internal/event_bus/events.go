package event_bus

import "time"

const (
	// CalendarWindowChanged is published when the store's view window moves.
	CalendarWindowChanged EventType = "calendar.window.changed"
	// CalendarEventsRefreshed is published after a fetch result is applied
	// (success or failure) for the current window.
	CalendarEventsRefreshed EventType = "calendar.events.refreshed"
	// CalendarRemindersRefreshed is published after a due-reminder poll.
	CalendarRemindersRefreshed EventType = "calendar.reminders.refreshed"
)

type WindowChanged struct {
	Start time.Time
	End   time.Time
}

type EventsRefreshed struct {
	Count  int
	Failed bool
}

type RemindersRefreshed struct {
	Due    int
	Failed bool
}
