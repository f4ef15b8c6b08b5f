package calendar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dayboard/dayboard/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// SessionState tracks the editing session's lifecycle.
type SessionState int

const (
	SessionClosed SessionState = iota
	SessionOpen
	SessionSubmitting
)

// SessionMode distinguishes creating a new event from editing one.
type SessionMode int

const (
	ModeNew SessionMode = iota
	ModeEditing
)

var (
	// ErrPastDate is returned when opening a new-event session on a date
	// before today. Existing events stay editable.
	ErrPastDate = errors.New("cannot create events on past dates")
	// ErrSessionNotOpen is returned when Submit is called outside Open.
	ErrSessionNotOpen = errors.New("editing session is not open")
	// ErrValidationFailed signals field errors; Errors() carries them.
	ErrValidationFailed = errors.New("event validation failed")
)

// Session stages the fields of one event being created or edited. It holds
// its own copy of the fields and never mutates the store's occurrence list
// directly; the finalized payload goes through the store's create/update
// operations on Submit. A session serves a single editor and is not safe
// for concurrent use.
type Session struct {
	store *Store

	state SessionState
	mode  SessionMode
	form  EventForm

	// occurrence and master event ids when editing
	editingID      string
	editingEventID string

	// staged reminder offsets in minutes, kept sorted ascending. The
	// schedule API accepts a single reminder per event, so Submit sends
	// only the smallest staged offset.
	reminders []int

	conflicts []EventOccurrence
	errors    map[string]string
}

func NewSession(store *Store) *Session {
	return &Session{store: store, errors: map[string]string{}}
}

// Open starts a new-event session pre-filled with the given date: all-day
// by default, with a 09:00-10:00 window staged for when the all-day toggle
// is turned off. Dates before today are rejected.
func (s *Session) Open(date time.Time) error {
	now := s.store.clock.Now()
	if startOfDay(date).Before(startOfDay(now)) {
		return ErrPastDate
	}

	dateStr := date.Format(dateLayout)
	s.form = EventForm{
		StartDate: dateStr,
		StartTime: "09:00",
		EndDate:   dateStr,
		EndTime:   "10:00",
		AllDay:    true,
		Color:     EventColors[0].ID,
		Location:  date.Location(),
	}
	s.state = SessionOpen
	s.mode = ModeNew
	s.editingID = ""
	s.editingEventID = ""
	s.reminders = nil
	s.errors = map[string]string{}
	s.refreshConflicts()
	return nil
}

// OpenForEdit starts an editing session hydrated from an existing
// occurrence. For all-day events the displayed end date is the stored
// end_at minus one day, inverting the half-open +1-day encoding Submit
// applies.
func (s *Session) OpenForEdit(occ EventOccurrence) {
	endDate := occ.EndAt
	if occ.AllDay {
		endDate = occ.EndAt.AddDate(0, 0, -1)
	}

	s.form = EventForm{
		Title:       occ.Title,
		Description: occ.Description,
		StartDate:   occ.StartAt.Format(dateLayout),
		StartTime:   occ.StartAt.Format(timeLayout),
		EndDate:     endDate.Format(dateLayout),
		EndTime:     occ.EndAt.Format(timeLayout),
		AllDay:      occ.AllDay,
		Priority:    occ.Priority,
		Color:       ColorByID(occ.Color).ID,
		Tags:        slices.Clone(occ.Tags),
		Location:    occ.StartAt.Location(),
	}
	if rec := occ.Recurrence; rec != nil {
		s.form.RecurrenceFreq = rec.Freq
		s.form.RecurrenceInterval = rec.Interval
		s.form.RecurrenceWeekdays = slices.Clone(rec.Weekdays)
		if rec.Until != nil {
			s.form.RecurrenceUntil = rec.Until.Format(dateLayout)
		}
	}

	s.reminders = nil
	if occ.ReminderMinutesBefore != nil {
		s.reminders = []int{*occ.ReminderMinutesBefore}
	}

	s.state = SessionOpen
	s.mode = ModeEditing
	s.editingID = occ.ID
	s.editingEventID = occ.EventID
	if s.editingEventID == "" {
		s.editingEventID = occ.ID
	}
	s.errors = map[string]string{}
	s.refreshConflicts()
}

// Close abandons the session.
func (s *Session) Close() {
	s.state = SessionClosed
	s.form = EventForm{}
	s.conflicts = nil
	s.errors = map[string]string{}
	s.reminders = nil
	s.editingID = ""
	s.editingEventID = ""
}

func (s *Session) State() SessionState { return s.state }
func (s *Session) Mode() SessionMode   { return s.mode }
func (s *Session) Form() EventForm     { return s.form }

// Conflicts returns the advisory conflicts of the staged time range.
func (s *Session) Conflicts() []EventOccurrence { return slices.Clone(s.conflicts) }

// Errors returns the field errors of the last Validate/Submit run.
func (s *Session) Errors() map[string]string {
	errs := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		errs[k] = v
	}
	return errs
}

// Reminders returns the staged reminder offsets, ascending.
func (s *Session) Reminders() []int { return slices.Clone(s.reminders) }

func (s *Session) SetTitle(title string)             { s.form.Title = title }
func (s *Session) SetDescription(description string) { s.form.Description = description }
func (s *Session) SetPriority(priority Priority)     { s.form.Priority = priority }
func (s *Session) SetColor(colorID string)           { s.form.Color = ColorByID(colorID).ID }
func (s *Session) SetTags(tags []string)             { s.form.Tags = slices.Clone(tags) }

// Time-range setters re-run conflict detection on every change.

func (s *Session) SetStartDate(date string) {
	s.form.StartDate = date
	s.refreshConflicts()
}

func (s *Session) SetStartTime(t string) {
	s.form.StartTime = t
	s.refreshConflicts()
}

func (s *Session) SetEndDate(date string) {
	s.form.EndDate = date
	s.refreshConflicts()
}

func (s *Session) SetEndTime(t string) {
	s.form.EndTime = t
	s.refreshConflicts()
}

func (s *Session) SetAllDay(allDay bool) {
	s.form.AllDay = allDay
	s.refreshConflicts()
}

func (s *Session) SetRecurrence(freq Frequency, interval int, until string, weekdays []time.Weekday) {
	s.form.RecurrenceFreq = freq
	s.form.RecurrenceInterval = interval
	s.form.RecurrenceUntil = until
	s.form.RecurrenceWeekdays = slices.Clone(weekdays)
}

// AddReminder stages a reminder offset. Duplicates are ignored; the staged
// list stays sorted ascending.
func (s *Session) AddReminder(minutesBefore int) {
	if minutesBefore < 0 || slices.Contains(s.reminders, minutesBefore) {
		return
	}
	s.reminders = append(s.reminders, minutesBefore)
	slices.Sort(s.reminders)
}

// ClearReminders drops all staged reminder offsets.
func (s *Session) ClearReminders() {
	s.reminders = nil
}

func (s *Session) RemoveReminder(minutesBefore int) {
	s.reminders = slices.DeleteFunc(s.reminders, func(m int) bool { return m == minutesBefore })
}

// refreshConflicts recomputes the advisory conflict list from the store's
// current occurrences, excluding the occurrence being edited. Unparsable
// staged fields clear the list; validation reports them separately.
func (s *Session) refreshConflicts() {
	start, err := s.form.StartInstant()
	if err != nil {
		s.conflicts = nil
		return
	}
	end, err := s.form.EndInstant()
	if err != nil {
		s.conflicts = nil
		return
	}
	s.conflicts = s.store.CheckConflicts(start, end, s.editingID)
}

// Validate re-runs field validation and stores the resulting error map.
func (s *Session) Validate() map[string]string {
	s.errors = s.form.Validate(s.store.clock.Now())
	return s.Errors()
}

// Submit validates the staged fields and, when clean, builds the final
// payload and forwards it through the store. Validation errors short-
// circuit before any network call. On failure the session stays open with
// its fields retained.
func (s *Session) Submit(ctx context.Context) error {
	if s.state != SessionOpen {
		return ErrSessionNotOpen
	}

	if errs := s.Validate(); len(errs) > 0 {
		return ErrValidationFailed
	}

	payload, err := s.buildPayload()
	if err != nil {
		// Validate guarantees parsable fields; reaching this means a bug.
		return fmt.Errorf("failed to build event payload: %w", err)
	}

	s.state = SessionSubmitting
	if s.mode == ModeEditing {
		_, err = s.store.UpdateEvent(ctx, s.editingEventID, payload)
	} else {
		_, err = s.store.CreateEvent(ctx, payload)
	}
	if err != nil {
		log.Errorf("failed to save event: %v", err)
		s.state = SessionOpen
		s.errors["submit"] = "Failed to save event. Please try again."
		return err
	}

	s.Close()
	return nil
}

func (s *Session) buildPayload() (schedule.EventPayload, error) {
	start, err := s.form.StartInstant()
	if err != nil {
		return schedule.EventPayload{}, err
	}
	end, err := s.form.SubmitEndInstant()
	if err != nil {
		return schedule.EventPayload{}, err
	}

	payload := schedule.EventPayload{
		Title:       strings.TrimSpace(s.form.Title),
		Description: strings.TrimSpace(s.form.Description),
		StartAt:     start,
		EndAt:       end,
		AllDay:      s.form.AllDay,
		Priority:    string(s.form.Priority),
		Color:       s.form.Color,
		Tags:        slices.Clone(s.form.Tags),
	}

	if rec := s.form.Recurrence(); rec != nil {
		payload.RecurrenceFreq = string(rec.Freq)
		payload.RecurrenceInterval = rec.Interval
		payload.RecurrenceUntil = rec.Until
	}

	if len(s.reminders) > 0 {
		reminder := s.reminders[0]
		payload.ReminderMinutesBefore = &reminder
	}

	return payload, nil
}
