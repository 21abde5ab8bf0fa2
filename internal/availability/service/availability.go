package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	appointmentsrepo "repairshop/internal/appointments/repository"
	"repairshop/pkg/config"
	apperrors "repairshop/pkg/errors"
	"repairshop/pkg/ics"
	"repairshop/pkg/model"
	"repairshop/pkg/schedule"
)

// ClosedReason classifies why the shop is unavailable outside bookings.
type ClosedReason string

const (
	ReasonHoliday  ClosedReason = "holiday"
	ReasonWeekend  ClosedReason = "weekend"
	ReasonOffHours ClosedReason = "off_hours"
)

// Label is the customer-facing description used in busy slots and
// calendar feeds.
func (r ClosedReason) Label() string {
	switch r {
	case ReasonHoliday:
		return "Holiday - Shop Closed"
	case ReasonWeekend:
		return "Weekend - Shop Closed"
	default:
		return "Non-working hours"
	}
}

// ClosedBlock is one non-working interval with its cause.
type ClosedBlock struct {
	Block  schedule.TimeBlock
	Reason ClosedReason
}

type AvailabilityService interface {
	// Availability is the anonymized schedule view: busy intervals with
	// generic labels and the weekly opening hours, never customer data.
	Availability(ctx context.Context, rangeName string) (*model.AvailabilityResponse, error)
	FreeSlots(ctx context.Context, rangeName string) (*model.FreeSlotsResponse, error)
	AvailabilityICS(ctx context.Context, rangeName string) ([]byte, error)
	// NonWorkingBlocks derives the closed intervals between from and to
	// purely from the working calendar.
	NonWorkingBlocks(from, to time.Time) []ClosedBlock
}

type availabilityService struct {
	appointments appointmentsrepo.AppointmentRepository
	calendar     schedule.Calendar
	cfg          *config.Config
	now          func() time.Time
}

func NewAvailabilityService(
	appointments appointmentsrepo.AppointmentRepository,
	calendar schedule.Calendar,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		appointments: appointments,
		calendar:     calendar,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *availabilityService) NonWorkingBlocks(from, to time.Time) []ClosedBlock {
	var blocks []ClosedBlock

	for day := schedule.DayStart(from.UTC()); !day.After(to); day = day.AddDate(0, 0, 1) {
		dayEnd := schedule.DayEnd(day)

		hours, open := s.calendar.HoursFor(day)
		if !open {
			reason := ReasonWeekend
			if s.calendar.IsHoliday(day) {
				reason = ReasonHoliday
			}
			blocks = append(blocks, ClosedBlock{
				Block:  schedule.TimeBlock{Start: day, End: dayEnd},
				Reason: reason,
			})
			continue
		}

		if hours.Open > 0 {
			blocks = append(blocks, ClosedBlock{
				Block:  schedule.TimeBlock{Start: day, End: day.Add(hours.Open)},
				Reason: ReasonOffHours,
			})
		}
		if closeAt := day.Add(hours.Close); closeAt.Before(dayEnd) {
			blocks = append(blocks, ClosedBlock{
				Block:  schedule.TimeBlock{Start: closeAt, End: dayEnd},
				Reason: ReasonOffHours,
			})
		}
	}

	return blocks
}

func (s *availabilityService) Availability(ctx context.Context, rangeName string) (*model.AvailabilityResponse, error) {
	window, name := schedule.ResolveRange(rangeName, s.now())

	appointments, err := s.appointments.FindActiveInRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, apperrors.Unavailable("appointment store", err)
	}

	busy := make([]model.BusySlot, 0)
	for _, block := range s.NonWorkingBlocks(window.Start, window.End) {
		busy = append(busy, model.BusySlot{
			Start:  block.Block.Start,
			End:    block.Block.End,
			Type:   model.BusyTypeClosed,
			Reason: block.Reason.Label(),
		})
	}
	for _, appointment := range appointments {
		busy = append(busy, model.BusySlot{
			Start:    appointment.Date,
			End:      s.appointmentEnd(appointment),
			Type:     model.BusyTypeBooked,
			Reason:   "Booked",
			EventUID: anonymousSlotUID(appointment.ID),
		})
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	return &model.AvailabilityResponse{
		Range:               name,
		Period:              model.Period{Start: window.Start, End: window.End},
		SlotDurationMinutes: int(s.cfg.SlotDuration.Minutes()),
		BusySlots:           busy,
		WorkingHours:        s.weeklyHours(),
	}, nil
}

func (s *availabilityService) FreeSlots(ctx context.Context, rangeName string) (*model.FreeSlotsResponse, error) {
	now := s.now()
	window, name := schedule.ResolveRange(rangeName, now)

	appointments, err := s.appointments.FindActiveInRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, apperrors.Unavailable("appointment store", err)
	}

	occupied := make(map[time.Time]struct{}, len(appointments))
	for _, appointment := range appointments {
		occupied[appointment.Date.UTC()] = struct{}{}
	}

	free := make([]time.Time, 0)
	for day := schedule.DayStart(window.Start); !day.After(window.End); day = day.AddDate(0, 0, 1) {
		for _, slot := range s.calendar.SlotsFor(day, s.cfg.SlotDuration) {
			if !slot.After(now) {
				continue
			}
			if _, taken := occupied[slot]; taken {
				continue
			}
			free = append(free, slot)
		}
	}

	return &model.FreeSlotsResponse{
		Range:               name,
		Period:              model.Period{Start: window.Start, End: window.End},
		SlotDurationMinutes: int(s.cfg.SlotDuration.Minutes()),
		Slots:               free,
	}, nil
}

// AvailabilityICS renders the anonymized busy calendar as a public
// iCalendar feed. Event summaries never contain customer data.
func (s *availabilityService) AvailabilityICS(ctx context.Context, rangeName string) ([]byte, error) {
	availability, err := s.Availability(ctx, rangeName)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar("-//Repair Shop Calendar//EN", "Repair Shop - Availability")
	cal.Method = "PUBLISH"

	closedSeq := make(map[string]int)
	for _, slot := range availability.BusySlots {
		event := ics.Event{
			Summary:      slot.Reason,
			Start:        slot.Start,
			End:          slot.End,
			Status:       ics.StatusConfirmed,
			Transparency: ics.TransparencyOpaque,
			Class:        ics.ClassPublic,
		}

		if slot.Type == model.BusyTypeBooked {
			event.Summary = "Busy"
			event.UID = slot.EventUID
		} else {
			day := slot.Start.UTC().Format("20060102")
			closedSeq[day]++
			event.UID = fmt.Sprintf("closed-%s-%d@repairshop.local", day, closedSeq[day])
		}

		cal.AddEvent(event)
	}

	return cal.Bytes(), nil
}

// anonymousSlotUID keeps feed UIDs tied to the underlying appointment
// without exposing its id. Rebooking the same instant under a different
// request yields a fresh UID.
func anonymousSlotUID(appointmentID string) string {
	sum := sha256.Sum256([]byte(appointmentID))
	return fmt.Sprintf("slot-%s@repairshop.local", hex.EncodeToString(sum[:6]))
}

func (s *availabilityService) appointmentEnd(appointment *model.Appointment) time.Time {
	if appointment.EndDate != nil {
		return *appointment.EndDate
	}
	return appointment.Date.Add(s.cfg.SlotDuration)
}

func (s *availabilityService) weeklyHours() map[string]*model.WorkingHoursDay {
	week := map[string]*model.WorkingHoursDay{}
	for day := time.Sunday; day <= time.Saturday; day++ {
		key := strings.ToLower(day.String())
		if hours, ok := s.calendar.WeekdayHours(day); ok {
			week[key] = &model.WorkingHoursDay{
				Start: hours.OpenClock(),
				End:   hours.CloseClock(),
			}
		} else {
			week[key] = nil
		}
	}
	return week
}
