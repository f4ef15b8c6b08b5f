package schedule

import (
	"context"
	"time"
)

// Occurrence is one scheduled instance of an event as the event-schedule API
// returns it. Recurring events are already expanded server-side: each
// expansion arrives as its own occurrence, sharing the master's EventID.
type Occurrence struct {
	ID                    string     `json:"id"`
	EventID               string     `json:"event_id,omitempty"`
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	StartAt               time.Time  `json:"start_at"`
	EndAt                 time.Time  `json:"end_at"`
	AllDay                bool       `json:"all_day"`
	Priority              string     `json:"priority,omitempty"`
	Color                 string     `json:"color,omitempty"`
	Tags                  []string   `json:"tags,omitempty"`
	RRule                 string     `json:"rrule,omitempty"`
	RecurrenceUntil       *time.Time `json:"recurrence_until,omitempty"`
	ReminderMinutesBefore *int       `json:"reminder_minutes_before,omitempty"`
}

// EventPayload is the body of create and update calls.
type EventPayload struct {
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	StartAt               time.Time  `json:"start_at"`
	EndAt                 time.Time  `json:"end_at"`
	AllDay                bool       `json:"all_day"`
	Priority              string     `json:"priority,omitempty"`
	Color                 string     `json:"color,omitempty"`
	Tags                  []string   `json:"tags,omitempty"`
	RecurrenceFreq        string     `json:"recurrence_freq,omitempty"`
	RecurrenceInterval    int        `json:"recurrence_interval,omitempty"`
	RecurrenceUntil       *time.Time `json:"recurrence_until,omitempty"`
	ReminderMinutesBefore *int       `json:"reminder_minutes_before,omitempty"`
}

// DueReminder is a server-computed notification whose trigger time has
// passed and which awaits dismissal.
type DueReminder struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	OccurrenceStartAt time.Time `json:"occurrence_start_at"`
	MinutesBefore     int       `json:"minutes_before"`
	TriggerAt         time.Time `json:"trigger_at"`
}

// Client talks to the external event-schedule API. The API owns persistence
// and recurrence expansion; this service only consumes it.
type Client interface {
	ListOccurrences(ctx context.Context, start time.Time, end time.Time) ([]Occurrence, error)
	CreateEvent(ctx context.Context, payload EventPayload) (*Occurrence, error)
	UpdateEvent(ctx context.Context, eventID string, payload EventPayload) (*Occurrence, error)
	DeleteOccurrence(ctx context.Context, occurrenceID string, deleteAll bool) error
	DueReminders(ctx context.Context) ([]DueReminder, error)
	DismissReminder(ctx context.Context, reminderID string) error
}
