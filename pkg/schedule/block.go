package schedule

import "time"

// TimeBlock is a half-open [Start, End) interval. Start < End always.
type TimeBlock struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (b TimeBlock) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

func (b TimeBlock) Overlaps(other TimeBlock) bool {
	return b.Start.Before(other.End) && b.End.After(other.Start)
}

// DayStart returns midnight of the date, in the date's location.
func DayStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// DayEnd returns 23:59:59 of the date. Ranges are inclusive of their
// final day, so a day's closing block runs up to this instant.
func DayEnd(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
}
