package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveRange_MonthWindow(t *testing.T) {
	anchor := time.Date(2025, time.February, 15, 12, 30, 0, 0, time.UTC)

	window := ResolveRange(anchor, ViewMonth)

	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, time.February, 28, 23, 59, 59, 999000000, time.UTC), window.End)
}

func TestResolveRange_MonthWindowLeapYear(t *testing.T) {
	anchor := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

	window := ResolveRange(anchor, ViewMonth)

	assert.Equal(t, 29, window.End.Day())
}

func TestResolveRange_WeekStartsOnSunday(t *testing.T) {
	// one anchor per weekday
	for day := 8; day <= 14; day++ {
		anchor := time.Date(2025, time.June, day, 15, 0, 0, 0, time.UTC)

		window := ResolveRange(anchor, ViewWeek)

		assert.Equal(t, time.Sunday, window.Start.Weekday(), "anchor %s", anchor.Weekday())
		assert.Equal(t, 0, window.Start.Hour())
		assert.Equal(t, 0, window.Start.Minute())
		assert.Equal(t, time.Saturday, window.End.Weekday())
	}
}

func TestResolveRange_WeekCrossingMonthBoundary(t *testing.T) {
	// 2025-07-01 is a Tuesday; its week starts on Sunday 2025-06-29
	anchor := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	window := ResolveRange(anchor, ViewWeek)

	assert.Equal(t, time.Date(2025, time.June, 29, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, time.July, 5, 23, 59, 59, 999000000, time.UTC), window.End)
}

func TestResolveRange_Day(t *testing.T) {
	anchor := time.Date(2025, time.March, 3, 18, 45, 0, 0, time.UTC)

	window := ResolveRange(anchor, ViewDay)

	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, time.March, 3, 23, 59, 59, 999000000, time.UTC), window.End)
}

func TestResolveRange_AgendaLookahead(t *testing.T) {
	anchor := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	window := ResolveRange(anchor, ViewAgenda)

	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, time.April, 2, 23, 59, 59, 999000000, time.UTC), window.End)
}

func TestResolveRange_ContainsAnchorAndIsNonEmpty(t *testing.T) {
	anchor := time.Date(2025, time.November, 20, 13, 13, 13, 0, time.UTC)

	for _, view := range []ViewMode{ViewMonth, ViewWeek, ViewDay, ViewAgenda} {
		window := ResolveRange(anchor, view)

		assert.True(t, window.Contains(anchor), "view %s should contain anchor", view)
		assert.True(t, window.End.After(window.Start), "view %s end must be after start", view)
	}
}

func TestResolveRange_UnknownViewFallsBackToMonth(t *testing.T) {
	anchor := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)

	window := ResolveRange(anchor, ViewMode(99))

	assert.Equal(t, ResolveRange(anchor, ViewMonth), window)
}

func TestParseViewMode(t *testing.T) {
	assert.Equal(t, ViewWeek, ParseViewMode("week"))
	assert.Equal(t, ViewDay, ParseViewMode("day"))
	assert.Equal(t, ViewAgenda, ParseViewMode("agenda"))
	assert.Equal(t, ViewMonth, ParseViewMode("month"))
	assert.Equal(t, ViewMonth, ParseViewMode("something-else"))
	assert.Equal(t, ViewMonth, ParseViewMode(""))
}

func TestStep(t *testing.T) {
	anchor := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.March, Step(anchor, ViewMonth, 1).Month())
	assert.Equal(t, time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC), Step(anchor, ViewWeek, 1))
	assert.Equal(t, time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC), Step(anchor, ViewDay, -1))
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), Step(anchor, ViewAgenda, 1))
}

func TestViewWindowPadded(t *testing.T) {
	window := ResolveRange(time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC), ViewMonth)

	padded := window.Padded(7)

	assert.Equal(t, time.Date(2025, time.January, 25, 0, 0, 0, 0, time.UTC), padded.Start)
	assert.Equal(t, time.Date(2025, time.March, 7, 23, 59, 59, 999000000, time.UTC), padded.End)
}
