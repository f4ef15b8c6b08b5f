package calendar

import (
	"time"

	"github.com/dayboard/dayboard/pkg/schedule"
	"github.com/teambition/rrule-go"
)

// Priority of an event. An empty value means no priority was assigned.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PriorityColors maps each priority to its display color.
var PriorityColors = map[Priority]string{
	PriorityLow:    "#22D6D6",
	PriorityMedium: "#FEC80A",
	PriorityHigh:   "#FF6B35",
	PriorityUrgent: "#FE1E00",
}

// EventColor is one entry of the fixed event color palette.
type EventColor struct {
	ID    string
	Color string
	Name  string
}

// EventColors is the fixed palette. The first entry is the default.
var EventColors = []EventColor{
	{ID: "teal", Color: "#22D6D6", Name: "Teal"},
	{ID: "blue", Color: "#065481", Name: "Blue"},
	{ID: "purple", Color: "#8B5CF6", Name: "Purple"},
	{ID: "pink", Color: "#EC4899", Name: "Pink"},
	{ID: "orange", Color: "#FF6B35", Name: "Orange"},
	{ID: "yellow", Color: "#FEC80A", Name: "Yellow"},
	{ID: "green", Color: "#00FE93", Name: "Green"},
	{ID: "red", Color: "#FE1E00", Name: "Red"},
}

// ColorByID returns the palette entry for id, or the default entry when id
// is unknown or empty.
func ColorByID(id string) EventColor {
	for _, c := range EventColors {
		if c.ID == id {
			return c
		}
	}
	return EventColors[0]
}

// Frequency of a recurrence descriptor.
type Frequency string

const (
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"
)

func (f Frequency) Valid() bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly:
		return true
	}
	return false
}

// Recurrence describes how an event repeats. The external schedule API is
// responsible for expanding it into occurrences; this core only constructs
// and validates descriptors.
type Recurrence struct {
	Freq     Frequency
	Interval int
	Until    *time.Time
	Weekdays []time.Weekday
}

// RRule materializes the descriptor as an rrule anchored at start. It fails
// when the descriptor is not expressible (e.g. weekday set on a daily rule
// with an impossible combination), which the validator relies on.
func (r Recurrence) RRule(start time.Time) (*rrule.RRule, error) {
	opt := rrule.ROption{
		Dtstart:  start,
		Interval: r.Interval,
	}
	switch r.Freq {
	case FreqDaily:
		opt.Freq = rrule.DAILY
	case FreqWeekly:
		opt.Freq = rrule.WEEKLY
	case FreqMonthly:
		opt.Freq = rrule.MONTHLY
	}
	if r.Until != nil {
		opt.Until = *r.Until
	}
	for _, wd := range r.Weekdays {
		// rrule weekdays start at Monday; time.Weekday starts at Sunday.
		opt.Byweekday = append(opt.Byweekday, rrule.Weekday(rruleWeekday(wd)))
	}
	return rrule.NewRRule(opt)
}

func rruleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}

// EventOccurrence is one scheduled item within the fetched window, parsed
// from the wire representation.
type EventOccurrence struct {
	ID                    string
	EventID               string
	Title                 string
	Description           string
	StartAt               time.Time
	EndAt                 time.Time
	AllDay                bool
	Priority              Priority
	Color                 string
	Tags                  []string
	Recurrence            *Recurrence
	ReminderMinutesBefore *int
}

// IsRecurring reports whether the occurrence belongs to a recurring event.
func (o EventOccurrence) IsRecurring() bool {
	return o.Recurrence != nil
}

// occurrenceFromWire converts an API occurrence into the domain type. The
// API transmits recurrence as an RRULE fragment of the form
// "FREQ=<freq>;INTERVAL=<n>"; anything unparsable is treated as
// non-recurring rather than failing the whole fetch.
func occurrenceFromWire(w schedule.Occurrence) EventOccurrence {
	occ := EventOccurrence{
		ID:                    w.ID,
		EventID:               w.EventID,
		Title:                 w.Title,
		Description:           w.Description,
		StartAt:               w.StartAt,
		EndAt:                 w.EndAt,
		AllDay:                w.AllDay,
		Priority:              Priority(w.Priority),
		Color:                 w.Color,
		Tags:                  w.Tags,
		ReminderMinutesBefore: w.ReminderMinutesBefore,
	}
	if !occ.Priority.Valid() {
		occ.Priority = PriorityNone
	}
	if w.RRule != "" {
		if rec, ok := parseWireRecurrence(w.RRule, w.RecurrenceUntil); ok {
			occ.Recurrence = rec
		}
	}
	return occ
}
