package calendar

import (
	"fmt"
	"sort"
	"time"
)

// HolidayType distinguishes federal holidays from popular observances.
type HolidayType string

const (
	HolidayFederal    HolidayType = "federal"
	HolidayObservance HolidayType = "observance"
)

const (
	federalHolidayColor = "#8B5CF6"
	observanceColor     = "#EC4899"
)

// Holiday is a locally computed, read-only calendar entry. Holidays are
// never persisted through the schedule API.
type Holiday struct {
	ID    string
	Date  time.Time
	Title string
	Type  HolidayType
	Color string
	Icon  string
}

type holidayRule struct {
	title   string
	typ     HolidayType
	icon    string
	date    func(year int, loc *time.Location) time.Time
	since   int  // first year the rule applies; zero means always
	observe bool // shift to Friday/Monday when on a weekend
}

// Federal holiday rules per U.S. Code Title 5 §6103, plus the popular
// observances the dashboard shows alongside them.
var holidayRules = []holidayRule{
	{title: "New Year's Day", typ: HolidayFederal, icon: "🎉", observe: true,
		date: fixedDate(time.January, 1)},
	{title: "Martin Luther King Jr. Day", typ: HolidayFederal, icon: "✊",
		date: nthWeekdayOf(time.January, time.Monday, 3)},
	{title: "Presidents' Day", typ: HolidayFederal, icon: "🏛️",
		date: nthWeekdayOf(time.February, time.Monday, 3)},
	{title: "Valentine's Day", typ: HolidayObservance, icon: "❤️",
		date: fixedDate(time.February, 14)},
	{title: "St. Patrick's Day", typ: HolidayObservance, icon: "☘️",
		date: fixedDate(time.March, 17)},
	{title: "Mother's Day", typ: HolidayObservance, icon: "💐",
		date: nthWeekdayOf(time.May, time.Sunday, 2)},
	{title: "Memorial Day", typ: HolidayFederal, icon: "🪖",
		date: lastWeekdayOf(time.May, time.Monday)},
	{title: "Father's Day", typ: HolidayObservance, icon: "👔",
		date: nthWeekdayOf(time.June, time.Sunday, 3)},
	{title: "Juneteenth", typ: HolidayFederal, icon: "✊", since: 2021, observe: true,
		date: fixedDate(time.June, 19)},
	{title: "Independence Day", typ: HolidayFederal, icon: "🎆", observe: true,
		date: fixedDate(time.July, 4)},
	{title: "Labor Day", typ: HolidayFederal, icon: "👷",
		date: nthWeekdayOf(time.September, time.Monday, 1)},
	{title: "Columbus Day", typ: HolidayFederal, icon: "🧭",
		date: nthWeekdayOf(time.October, time.Monday, 2)},
	{title: "Halloween", typ: HolidayObservance, icon: "🎃",
		date: fixedDate(time.October, 31)},
	{title: "Veterans Day", typ: HolidayFederal, icon: "🎖️", observe: true,
		date: fixedDate(time.November, 11)},
	{title: "Thanksgiving Day", typ: HolidayFederal, icon: "🦃",
		date: nthWeekdayOf(time.November, time.Thursday, 4)},
	{title: "Christmas Eve", typ: HolidayObservance, icon: "🎅",
		date: fixedDate(time.December, 24)},
	{title: "Christmas Day", typ: HolidayFederal, icon: "🎄", observe: true,
		date: fixedDate(time.December, 25)},
	{title: "New Year's Eve", typ: HolidayObservance, icon: "🥂",
		date: fixedDate(time.December, 31)},
}

func fixedDate(month time.Month, day int) func(int, *time.Location) time.Time {
	return func(year int, loc *time.Location) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, loc)
	}
}

func nthWeekdayOf(month time.Month, weekday time.Weekday, n int) func(int, *time.Location) time.Time {
	return func(year int, loc *time.Location) time.Time {
		first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		day := 1 + (int(weekday)-int(first.Weekday())+7)%7
		day += (n - 1) * 7
		return time.Date(year, month, day, 0, 0, 0, 0, loc)
	}
}

func lastWeekdayOf(month time.Month, weekday time.Weekday) func(int, *time.Location) time.Time {
	return func(year int, loc *time.Location) time.Time {
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
		day := last.Day() - (int(last.Weekday())-int(weekday)+7)%7
		return time.Date(year, month, day, 0, 0, 0, 0, loc)
	}
}

// observedDate shifts a weekend holiday to the adjacent weekday: Saturday
// holidays are observed on Friday, Sunday holidays on Monday.
func observedDate(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// HolidaysForYear computes all holidays of one year in the given location,
// ordered by date.
func HolidaysForYear(year int, loc *time.Location) []Holiday {
	holidays := make([]Holiday, 0, len(holidayRules))
	for _, rule := range holidayRules {
		if rule.since != 0 && year < rule.since {
			continue
		}
		date := rule.date(year, loc)
		if rule.observe {
			date = observedDate(date)
		}
		color := federalHolidayColor
		if rule.typ == HolidayObservance {
			color = observanceColor
		}
		holidays = append(holidays, Holiday{
			Date:  date,
			Title: rule.title,
			Type:  rule.typ,
			Color: color,
			Icon:  rule.icon,
		})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	for i := range holidays {
		holidays[i].ID = fmt.Sprintf("holiday-%d-%d", year, i)
	}
	return holidays
}

// HolidaysInRange returns all holidays whose date falls within [start, end],
// sorted by date. Callers pad the resolved view window before calling so
// grid cells from adjacent months still show their holidays.
func HolidaysInRange(start, end time.Time) []Holiday {
	var holidays []Holiday
	for year := start.Year(); year <= end.Year(); year++ {
		for _, h := range HolidaysForYear(year, start.Location()) {
			if !h.Date.Before(start) && !h.Date.After(end) {
				holidays = append(holidays, h)
			}
		}
	}
	return holidays
}
