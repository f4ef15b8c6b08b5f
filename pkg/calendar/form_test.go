package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var validationNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func validTimedForm() EventForm {
	return EventForm{
		Title:     "Team sync",
		StartDate: "2025-06-10",
		StartTime: "09:00",
		EndDate:   "2025-06-10",
		EndTime:   "10:00",
		Location:  time.UTC,
	}
}

func TestValidate_CleanFormHasNoErrors(t *testing.T) {
	assert.Empty(t, validTimedForm().Validate(validationNow))
}

func TestValidate_TitleLengthBoundaries(t *testing.T) {
	for length, wantError := range map[int]bool{1: true, 2: false, 200: false, 201: true} {
		form := validTimedForm()
		form.Title = strings.Repeat("x", length)

		errs := form.Validate(validationNow)

		if wantError {
			assert.Contains(t, errs, "title", "length %d", length)
		} else {
			assert.NotContains(t, errs, "title", "length %d", length)
		}
	}
}

func TestValidate_TitleRequiredAfterTrimming(t *testing.T) {
	form := validTimedForm()
	form.Title = "   "

	assert.Contains(t, form.Validate(validationNow), "title")
}

func TestValidate_DescriptionMaxLength(t *testing.T) {
	form := validTimedForm()
	form.Description = strings.Repeat("d", 2000)
	assert.NotContains(t, form.Validate(validationNow), "description")

	form.Description = strings.Repeat("d", 2001)
	assert.Contains(t, form.Validate(validationNow), "description")
}

func TestValidate_DatesRequired(t *testing.T) {
	form := validTimedForm()
	form.StartDate = ""
	form.EndDate = ""

	errs := form.Validate(validationNow)

	assert.Contains(t, errs, "startDate")
	assert.Contains(t, errs, "endDate")
}

func TestValidate_UnparsableDates(t *testing.T) {
	form := validTimedForm()
	form.StartDate = "not-a-date"

	assert.Contains(t, form.Validate(validationNow), "startDate")
}

func TestValidate_TimedEventEndMustBeAfterStart(t *testing.T) {
	form := validTimedForm()
	form.EndTime = form.StartTime

	assert.Contains(t, form.Validate(validationNow), "endTime")

	form.EndTime = "08:00"
	assert.Contains(t, form.Validate(validationNow), "endTime")
}

func TestValidate_AllDaySameDayIsValid(t *testing.T) {
	form := validTimedForm()
	form.AllDay = true
	form.EndDate = form.StartDate

	assert.Empty(t, form.Validate(validationNow))
}

func TestValidate_AllDayEndBeforeStartDateRejected(t *testing.T) {
	form := validTimedForm()
	form.AllDay = true
	form.EndDate = "2025-06-09"

	assert.Contains(t, form.Validate(validationNow), "endDate")
}

func TestValidate_StartDateHorizon(t *testing.T) {
	form := validTimedForm()
	form.StartDate = "2030-06-02"
	form.EndDate = "2030-06-02"
	assert.Contains(t, form.Validate(validationNow), "startDate", "more than 5 years ahead")

	form = validTimedForm()
	form.StartDate = "2024-05-30"
	form.EndDate = "2024-05-30"
	assert.Contains(t, form.Validate(validationNow), "startDate", "more than 1 year back")

	form = validTimedForm()
	form.StartDate = "2024-07-01"
	form.EndDate = "2024-07-01"
	assert.NotContains(t, form.Validate(validationNow), "startDate", "recent past within horizon")
}

func TestValidate_RecurrenceInterval(t *testing.T) {
	form := validTimedForm()
	form.RecurrenceFreq = FreqWeekly
	form.RecurrenceInterval = 0
	assert.Contains(t, form.Validate(validationNow), "recurrence")

	form.RecurrenceInterval = 366
	assert.Contains(t, form.Validate(validationNow), "recurrence")

	form.RecurrenceInterval = 1
	assert.Empty(t, form.Validate(validationNow))

	form.RecurrenceInterval = 365
	assert.Empty(t, form.Validate(validationNow))
}

func TestValidate_RecurrenceUntilBeforeStart(t *testing.T) {
	form := validTimedForm()
	form.RecurrenceFreq = FreqWeekly
	form.RecurrenceInterval = 1
	form.RecurrenceUntil = "2025-06-01"

	assert.Contains(t, form.Validate(validationNow), "recurrenceUntil")
}

func TestValidate_RecurrenceUntilAfterStartAccepted(t *testing.T) {
	form := validTimedForm()
	form.RecurrenceFreq = FreqDaily
	form.RecurrenceInterval = 2
	form.RecurrenceUntil = "2025-07-01"

	assert.Empty(t, form.Validate(validationNow))
}

func TestValidate_UnknownFrequencyRejected(t *testing.T) {
	form := validTimedForm()
	form.RecurrenceFreq = Frequency("YEARLY")
	form.RecurrenceInterval = 1

	assert.Contains(t, form.Validate(validationNow), "recurrence")
}

func TestSubmitEndInstant_AllDayEncodesNextDayMidnight(t *testing.T) {
	form := EventForm{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
		AllDay:    true,
		Location:  time.UTC,
	}

	end, err := form.SubmitEndInstant()

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), end)
}

func TestRecurrence_RRuleRoundTrip(t *testing.T) {
	form := validTimedForm()
	form.RecurrenceFreq = FreqWeekly
	form.RecurrenceInterval = 2
	form.RecurrenceWeekdays = []time.Weekday{time.Monday, time.Wednesday}

	start, err := form.StartInstant()
	assert.NoError(t, err)

	rule, err := form.Recurrence().RRule(start)
	assert.NoError(t, err)
	assert.NotNil(t, rule)
}
