package schedule

import (
	"testing"
	"time"
)

func TestSlotsForRegularDay(t *testing.T) {
	cal := shopCalendar()
	day := date(2024, time.December, 24) // Tuesday, 09:00-16:00

	slots := cal.SlotsFor(day, 30*time.Minute)

	if len(slots) != 14 {
		t.Fatalf("expected 14 slots for a 09:00-16:00 day at 30m, got %d", len(slots))
	}
	if want := day.Add(9 * time.Hour); !slots[0].Equal(want) {
		t.Errorf("first slot = %s, want %s", slots[0], want)
	}
	if want := day.Add(15*time.Hour + 30*time.Minute); !slots[len(slots)-1].Equal(want) {
		t.Errorf("last slot = %s, want %s", slots[len(slots)-1], want)
	}
}

func TestSlotsForClosedDays(t *testing.T) {
	cal := shopCalendar()

	tests := []struct {
		name string
		day  time.Time
	}{
		{"christmas", date(2024, time.December, 25)},
		{"boxing day", date(2024, time.December, 26)},
		{"sunday", date(2024, time.December, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if slots := cal.SlotsFor(tt.day, 30*time.Minute); len(slots) != 0 {
				t.Errorf("expected no slots on %s, got %d", tt.name, len(slots))
			}
		})
	}
}

func TestSlotsNeverStraddleClosing(t *testing.T) {
	cal := shopCalendar()

	tests := []struct {
		name     string
		day      time.Time
		duration time.Duration
	}{
		{"30m slots weekday", date(2024, time.June, 3), 30 * time.Minute},
		{"45m slots weekday", date(2024, time.June, 3), 45 * time.Minute},
		{"90m slots saturday", date(2024, time.June, 8), 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, ok := cal.HoursFor(tt.day)
			if !ok {
				t.Fatal("expected an open day")
			}
			open := DayStart(tt.day).Add(hours.Open)
			close := DayStart(tt.day).Add(hours.Close)

			slots := cal.SlotsFor(tt.day, tt.duration)
			if len(slots) == 0 {
				t.Fatal("expected at least one slot")
			}
			for i, s := range slots {
				if s.Before(open) {
					t.Errorf("slot %d starts %s before opening %s", i, s, open)
				}
				if s.Add(tt.duration).After(close) {
					t.Errorf("slot %d at %s extends past closing %s", i, s, close)
				}
				if i > 0 && !slots[i-1].Before(s) {
					t.Errorf("slots not strictly ascending at index %d", i)
				}
			}
		})
	}
}

func TestSlotsForRestartable(t *testing.T) {
	cal := shopCalendar()
	day := date(2024, time.June, 3)

	first := cal.SlotsFor(day, 30*time.Minute)
	second := cal.SlotsFor(day, 30*time.Minute)

	if len(first) != len(second) {
		t.Fatalf("repeated enumeration differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("slot %d differs between enumerations", i)
		}
	}
}

func TestSlotsForInvalidDuration(t *testing.T) {
	cal := shopCalendar()
	if slots := cal.SlotsFor(date(2024, time.June, 3), 0); slots != nil {
		t.Error("expected nil for zero duration")
	}
	if slots := cal.SlotsFor(date(2024, time.June, 3), -time.Hour); slots != nil {
		t.Error("expected nil for negative duration")
	}
}
