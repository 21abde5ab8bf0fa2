package schedule

import (
	"strings"
	"time"
)

// Named query periods accepted by the availability endpoints.
const (
	PeriodToday     = "today"
	PeriodThisWeek  = "this_week"
	PeriodNextWeek  = "next_week"
	PeriodThisMonth = "this_month"
	PeriodNextMonth = "next_month"
	PeriodThisYear  = "this_year"
)

// ResolveRange maps a named period to a concrete [start, end] range
// anchored at now. Weeks run Monday through Sunday; month and year
// ranges use calendar boundaries, inclusive of both endpoints. An
// unrecognized name falls back to today so callers always get a valid
// range.
func ResolveRange(name string, now time.Time) (TimeBlock, string) {
	start := DayStart(now)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case PeriodThisWeek:
		daysUntilSunday := 6 - mondayIndex(start.Weekday())
		return TimeBlock{Start: start, End: DayEnd(start.AddDate(0, 0, daysUntilSunday))}, PeriodThisWeek

	case PeriodNextWeek:
		daysUntilMonday := 7 - mondayIndex(start.Weekday())
		start = start.AddDate(0, 0, daysUntilMonday)
		return TimeBlock{Start: start, End: DayEnd(start.AddDate(0, 0, 6))}, PeriodNextWeek

	case PeriodThisMonth:
		return TimeBlock{Start: start, End: DayEnd(lastOfMonth(start))}, PeriodThisMonth

	case PeriodNextMonth:
		start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, 1, 0)
		return TimeBlock{Start: start, End: DayEnd(lastOfMonth(start))}, PeriodNextMonth

	case PeriodThisYear:
		end := time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, start.Location())
		return TimeBlock{Start: start, End: DayEnd(end)}, PeriodThisYear

	case PeriodToday:
		return TimeBlock{Start: start, End: DayEnd(start)}, PeriodToday

	default:
		return TimeBlock{Start: start, End: DayEnd(start)}, PeriodToday
	}
}

// mondayIndex converts Go's Sunday-based weekday to a Monday-based
// index (Monday=0 ... Sunday=6).
func mondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}

func lastOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
