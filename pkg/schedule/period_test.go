package schedule

import (
	"testing"
	"time"
)

func TestResolveRangeToday(t *testing.T) {
	now := time.Date(2024, time.June, 5, 14, 30, 0, 0, time.UTC) // Wednesday

	block, name := ResolveRange(PeriodToday, now)

	if name != PeriodToday {
		t.Errorf("name = %q, want %q", name, PeriodToday)
	}
	if want := date(2024, time.June, 5); !block.Start.Equal(want) {
		t.Errorf("start = %s, want %s", block.Start, want)
	}
	if want := time.Date(2024, time.June, 5, 23, 59, 59, 0, time.UTC); !block.End.Equal(want) {
		t.Errorf("end = %s, want %s", block.End, want)
	}
}

func TestResolveRangeWeeks(t *testing.T) {
	// Wednesday 2024-06-05: this week runs through Sunday 06-09,
	// next week is Monday 06-10 through Sunday 06-16.
	now := time.Date(2024, time.June, 5, 10, 0, 0, 0, time.UTC)

	block, _ := ResolveRange(PeriodThisWeek, now)
	if want := date(2024, time.June, 5); !block.Start.Equal(want) {
		t.Errorf("this_week start = %s, want %s", block.Start, want)
	}
	if block.End.Day() != 9 || block.End.Weekday() != time.Sunday {
		t.Errorf("this_week end = %s, want Sunday June 9", block.End)
	}

	block, _ = ResolveRange(PeriodNextWeek, now)
	if block.Start.Weekday() != time.Monday || block.Start.Day() != 10 {
		t.Errorf("next_week start = %s, want Monday June 10", block.Start)
	}
	if block.End.Weekday() != time.Sunday || block.End.Day() != 16 {
		t.Errorf("next_week end = %s, want Sunday June 16", block.End)
	}
}

func TestResolveRangeWeekBoundaries(t *testing.T) {
	// From a Sunday, this_week ends the same day and next_week starts
	// tomorrow.
	sunday := time.Date(2024, time.June, 9, 8, 0, 0, 0, time.UTC)

	block, _ := ResolveRange(PeriodThisWeek, sunday)
	if block.End.Day() != 9 {
		t.Errorf("this_week from Sunday must end same day, got %s", block.End)
	}

	block, _ = ResolveRange(PeriodNextWeek, sunday)
	if block.Start.Day() != 10 || block.Start.Weekday() != time.Monday {
		t.Errorf("next_week from Sunday must start Monday June 10, got %s", block.Start)
	}
}

func TestResolveRangeMonths(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)

	block, _ := ResolveRange(PeriodThisMonth, now)
	if block.End.Month() != time.December || block.End.Day() != 31 {
		t.Errorf("this_month end = %s, want Dec 31", block.End)
	}

	// December rolls into January of the next year.
	block, _ = ResolveRange(PeriodNextMonth, now)
	if block.Start.Year() != 2025 || block.Start.Month() != time.January || block.Start.Day() != 1 {
		t.Errorf("next_month start = %s, want 2025-01-01", block.Start)
	}
	if block.End.Month() != time.January || block.End.Day() != 31 {
		t.Errorf("next_month end = %s, want Jan 31", block.End)
	}
}

func TestResolveRangeFebruary(t *testing.T) {
	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)

	block, _ := ResolveRange(PeriodNextMonth, now)
	if block.End.Month() != time.February || block.End.Day() != 29 {
		t.Errorf("next_month end = %s, want leap-year Feb 29", block.End)
	}
}

func TestResolveRangeThisYear(t *testing.T) {
	now := time.Date(2024, time.June, 5, 10, 0, 0, 0, time.UTC)

	block, _ := ResolveRange(PeriodThisYear, now)
	if !block.Start.Equal(date(2024, time.June, 5)) {
		t.Errorf("this_year start = %s, want today", block.Start)
	}
	if block.End.Month() != time.December || block.End.Day() != 31 || block.End.Year() != 2024 {
		t.Errorf("this_year end = %s, want Dec 31 2024", block.End)
	}
}

func TestResolveRangeFallback(t *testing.T) {
	now := time.Date(2024, time.June, 5, 10, 0, 0, 0, time.UTC)
	today, _ := ResolveRange(PeriodToday, now)

	for _, input := range []string{"", "fortnight", "TOMORROW", "this-week"} {
		block, name := ResolveRange(input, now)
		if name != PeriodToday {
			t.Errorf("ResolveRange(%q) name = %q, want fallback to today", input, name)
		}
		if !block.Start.Equal(today.Start) || !block.End.Equal(today.End) {
			t.Errorf("ResolveRange(%q) = %v, want today's range", input, block)
		}
	}
}

func TestResolveRangeCaseInsensitive(t *testing.T) {
	now := time.Date(2024, time.June, 5, 10, 0, 0, 0, time.UTC)

	_, name := ResolveRange("This_Week", now)
	if name != PeriodThisWeek {
		t.Errorf("expected case-insensitive period names, got %q", name)
	}
}
