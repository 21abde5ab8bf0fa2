package schedule

import "time"

// SlotsFor enumerates the candidate booking instants for a single date,
// ascending. Slots start at the opening time and advance by slotDuration;
// a slot that would extend past closing time is not offered. Closed days
// yield no slots.
func (c Calendar) SlotsFor(date time.Time, slotDuration time.Duration) []time.Time {
	if slotDuration <= 0 {
		return nil
	}

	hours, ok := c.HoursFor(date)
	if !ok {
		return nil
	}

	day := DayStart(date)
	var slots []time.Time
	for offset := hours.Open; offset+slotDuration <= hours.Close; offset += slotDuration {
		slots = append(slots, day.Add(offset))
	}
	return slots
}
