package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DayHours is an open/close pair expressed as offsets from midnight.
type DayHours struct {
	Open  time.Duration
	Close time.Duration
}

func (h DayHours) String() string {
	return fmt.Sprintf("%s-%s", formatClock(h.Open), formatClock(h.Close))
}

// OpenClock and CloseClock render the boundaries as HH:MM wall-clock
// strings for the working_hours section of availability responses.
func (h DayHours) OpenClock() string  { return formatClock(h.Open) }
func (h DayHours) CloseClock() string { return formatClock(h.Close) }

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// WorkingHours maps weekdays to opening hours. A missing weekday means
// the shop is closed all day.
type WorkingHours map[time.Weekday]DayHours

// Holiday is a (month, day) pair recurring every year.
type Holiday struct {
	Month time.Month
	Day   int
}

type HolidaySet map[Holiday]struct{}

// Calendar answers whether a given date is open and with what hours.
// Holidays win over weekday configuration.
type Calendar struct {
	hours    WorkingHours
	holidays HolidaySet
}

func NewCalendar(hours WorkingHours, holidays HolidaySet) Calendar {
	h := make(WorkingHours, len(hours))
	for day, dh := range hours {
		h[day] = dh
	}
	hs := make(HolidaySet, len(holidays))
	for holiday := range holidays {
		hs[holiday] = struct{}{}
	}
	return Calendar{hours: h, holidays: hs}
}

func (c Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.holidays[Holiday{Month: date.Month(), Day: date.Day()}]
	return ok
}

// IsOpen reports whether the shop is open at all on the given date.
// Absence of configured hours is a valid "closed" answer, not an error.
func (c Calendar) IsOpen(date time.Time) bool {
	if c.IsHoliday(date) {
		return false
	}
	_, ok := c.hours[date.Weekday()]
	return ok
}

// HoursFor returns the opening hours for an open date. Closed days,
// holidays included, report ok=false.
func (c Calendar) HoursFor(date time.Time) (DayHours, bool) {
	if c.IsHoliday(date) {
		return DayHours{}, false
	}
	h, ok := c.hours[date.Weekday()]
	return h, ok
}

// WeekdayHours returns the configured hours for a weekday, ignoring
// holidays. Used to render the weekly working_hours overview.
func (c Calendar) WeekdayHours(day time.Weekday) (DayHours, bool) {
	h, ok := c.hours[day]
	return h, ok
}

// ParseDayHours parses an "HH:MM-HH:MM" opening-hours expression.
func ParseDayHours(s string) (DayHours, error) {
	open, close, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return DayHours{}, fmt.Errorf("working hours must be in HH:MM-HH:MM format, got: %q", s)
	}

	openOffset, err := parseClock(open)
	if err != nil {
		return DayHours{}, err
	}
	closeOffset, err := parseClock(close)
	if err != nil {
		return DayHours{}, err
	}
	if closeOffset <= openOffset {
		return DayHours{}, fmt.Errorf("close time %s must be after open time %s", close, open)
	}

	return DayHours{Open: openOffset, Close: closeOffset}, nil
}

// ParseHoliday parses an "MM-DD" fixed-holiday expression.
func ParseHoliday(s string) (Holiday, error) {
	t, err := time.Parse("01-02", strings.TrimSpace(s))
	if err != nil {
		return Holiday{}, fmt.Errorf("holiday must be in MM-DD format, got: %q", s)
	}
	return Holiday{Month: t.Month(), Day: t.Day()}, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("time of day must be in HH:MM format, got: %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
