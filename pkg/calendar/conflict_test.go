package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func occurrenceAt(id string, start, end time.Time) EventOccurrence {
	return EventOccurrence{ID: id, Title: "Event " + id, StartAt: start, EndAt: end}
}

func TestFindConflicts_TouchingBoundariesDoNotConflict(t *testing.T) {
	day := time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC)
	existing := []EventOccurrence{
		occurrenceAt("a", day.Add(10*time.Hour), day.Add(11*time.Hour)),
	}

	// candidate starts exactly when A ends
	conflicts := FindConflicts(day.Add(11*time.Hour), day.Add(12*time.Hour), existing, "")
	assert.Empty(t, conflicts)

	// candidate ends exactly when A starts
	conflicts = FindConflicts(day.Add(9*time.Hour), day.Add(10*time.Hour), existing, "")
	assert.Empty(t, conflicts)
}

func TestFindConflicts_OverlapIsReported(t *testing.T) {
	day := time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC)
	existing := []EventOccurrence{
		occurrenceAt("a", day.Add(10*time.Hour), day.Add(11*time.Hour+30*time.Minute)),
	}

	conflicts := FindConflicts(day.Add(11*time.Hour), day.Add(12*time.Hour), existing, "")

	assert.Len(t, conflicts, 1)
	assert.Equal(t, "a", conflicts[0].ID)
}

func TestFindConflicts_ContainmentAndMultipleMatches(t *testing.T) {
	day := time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC)
	existing := []EventOccurrence{
		occurrenceAt("a", day.Add(9*time.Hour), day.Add(17*time.Hour)),
		occurrenceAt("b", day.Add(10*time.Hour), day.Add(10*time.Hour+30*time.Minute)),
		occurrenceAt("c", day.Add(20*time.Hour), day.Add(21*time.Hour)),
	}

	conflicts := FindConflicts(day.Add(10*time.Hour), day.Add(11*time.Hour), existing, "")

	ids := []string{}
	for _, c := range conflicts {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestFindConflicts_ExcludesEditedEvent(t *testing.T) {
	day := time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC)
	existing := []EventOccurrence{
		occurrenceAt("edited", day.Add(10*time.Hour), day.Add(11*time.Hour)),
		occurrenceAt("other", day.Add(10*time.Hour), day.Add(11*time.Hour)),
	}

	conflicts := FindConflicts(day.Add(10*time.Hour), day.Add(11*time.Hour), existing, "edited")

	assert.Len(t, conflicts, 1)
	for _, c := range conflicts {
		assert.NotEqual(t, "edited", c.ID)
	}
}

func TestFindConflicts_EmptyOccurrenceList(t *testing.T) {
	day := time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, FindConflicts(day, day.Add(time.Hour), nil, ""))
}
