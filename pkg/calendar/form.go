package calendar

import (
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	titleMinLen       = 2
	titleMaxLen       = 200
	descriptionMaxLen = 2000

	recurrenceMaxInterval = 365

	maxFutureYears = 5
	maxPastYears   = 1
)

// EventForm is the staged state of an event being created or edited. Dates
// and times are kept as the editor's string fields ("2006-01-02", "15:04")
// until submission.
type EventForm struct {
	Title       string
	Description string

	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	AllDay    bool

	Priority Priority
	Color    string
	Tags     []string

	RecurrenceFreq     Frequency
	RecurrenceInterval int
	RecurrenceUntil    string
	RecurrenceWeekdays []time.Weekday

	// Location resolves the form's wall-clock fields to instants. Nil means
	// time.Local.
	Location *time.Location
}

func (f EventForm) location() *time.Location {
	if f.Location != nil {
		return f.Location
	}
	return time.Local
}

// StartInstant resolves the staged start fields. All-day events start at
// midnight.
func (f EventForm) StartInstant() (time.Time, error) {
	if f.AllDay {
		return time.ParseInLocation(dateLayout, f.StartDate, f.location())
	}
	return time.ParseInLocation(dateLayout+" "+timeLayout, f.StartDate+" "+f.StartTime, f.location())
}

// EndInstant resolves the staged end fields as the editor reasons about
// them: for all-day events the last instant of the end date, so that
// conflict checks cover the whole selected day. The submitted payload uses
// SubmitEndInstant instead.
func (f EventForm) EndInstant() (time.Time, error) {
	if f.AllDay {
		end, err := time.ParseInLocation(dateLayout, f.EndDate, f.location())
		if err != nil {
			return time.Time{}, err
		}
		return end.Add(24*time.Hour - time.Second), nil
	}
	return time.ParseInLocation(dateLayout+" "+timeLayout, f.EndDate+" "+f.EndTime, f.location())
}

// SubmitEndInstant is the end_at value sent to the schedule API. All-day
// events encode the selected end date inclusively as the start of the next
// day, making the stored range half-open.
func (f EventForm) SubmitEndInstant() (time.Time, error) {
	if f.AllDay {
		end, err := time.ParseInLocation(dateLayout, f.EndDate, f.location())
		if err != nil {
			return time.Time{}, err
		}
		return end.AddDate(0, 0, 1), nil
	}
	return f.EndInstant()
}

// Recurrence builds the staged recurrence descriptor, or nil when the form
// does not repeat.
func (f EventForm) Recurrence() *Recurrence {
	if f.RecurrenceFreq == "" {
		return nil
	}
	rec := &Recurrence{
		Freq:     f.RecurrenceFreq,
		Interval: f.RecurrenceInterval,
		Weekdays: f.RecurrenceWeekdays,
	}
	if rec.Interval == 0 {
		rec.Interval = 1
	}
	if f.RecurrenceUntil != "" {
		if until, err := time.ParseInLocation(dateLayout, f.RecurrenceUntil, f.location()); err == nil {
			u := until.Add(24*time.Hour - time.Second)
			rec.Until = &u
		}
	}
	return rec
}

// Validate checks the staged fields and returns one message per offending
// field, keyed by the field name the editor displays errors under. An empty
// map means the form may be submitted. Validation never mutates state and
// never touches the network.
func (f EventForm) Validate(now time.Time) map[string]string {
	errs := make(map[string]string)

	title := strings.TrimSpace(f.Title)
	switch {
	case title == "":
		errs["title"] = "Title is required"
	case len([]rune(title)) < titleMinLen:
		errs["title"] = "Title must be at least 2 characters"
	case len([]rune(title)) > titleMaxLen:
		errs["title"] = "Title must be 200 characters or less"
	}

	if len([]rune(f.Description)) > descriptionMaxLen {
		errs["description"] = "Description must be 2000 characters or less"
	}

	if f.StartDate == "" {
		errs["startDate"] = "Start date is required"
	}
	if f.EndDate == "" {
		errs["endDate"] = "End date is required"
	}

	var start, end time.Time
	if f.StartDate != "" && f.EndDate != "" {
		var err error
		start, err = f.StartInstant()
		if err != nil {
			errs["startDate"] = "Invalid start date"
		}
		end, err = f.EndInstant()
		if err != nil {
			errs["endDate"] = "Invalid end date"
		}

		if _, ok := errs["startDate"]; !ok {
			if _, ok := errs["endDate"]; !ok {
				if !f.AllDay && !end.After(start) {
					errs["endTime"] = "End time must be after start time"
				}
				if f.AllDay && f.EndDate < f.StartDate {
					errs["endDate"] = "End date must be on or after start date"
				}
				if start.After(now.AddDate(maxFutureYears, 0, 0)) {
					errs["startDate"] = "Event cannot be more than 5 years in the future"
				}
				if start.Before(now.AddDate(-maxPastYears, 0, 0)) {
					errs["startDate"] = "Event cannot be more than 1 year in the past"
				}
			}
		}
	}

	if f.RecurrenceFreq != "" {
		interval := f.RecurrenceInterval
		if !f.RecurrenceFreq.Valid() {
			errs["recurrence"] = "Unknown recurrence frequency"
		} else if interval < 1 {
			errs["recurrence"] = "Recurrence interval must be at least 1"
		} else if interval > recurrenceMaxInterval {
			errs["recurrence"] = "Recurrence interval cannot exceed 365"
		}

		if f.RecurrenceUntil != "" && f.StartDate != "" {
			until, err := time.ParseInLocation(dateLayout, f.RecurrenceUntil, f.location())
			if err != nil {
				errs["recurrenceUntil"] = "Invalid recurrence end date"
			} else {
				startDay, parseErr := time.ParseInLocation(dateLayout, f.StartDate, f.location())
				if parseErr == nil && !until.Add(24*time.Hour-time.Second).After(startDay) {
					errs["recurrenceUntil"] = "Recurrence end must be after start date"
				}
			}
		}

		// Prove the descriptor is expressible as a recurrence rule; the
		// schedule API will have to expand it.
		if _, ok := errs["recurrence"]; !ok && !start.IsZero() {
			if _, err := f.Recurrence().RRule(start); err != nil {
				errs["recurrence"] = "Invalid recurrence rule"
			}
		}
	}

	return errs
}
