package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	appointmentsrepo "repairshop/internal/appointments/repository"
	availabilitysvc "repairshop/internal/availability/service"
	requestsrepo "repairshop/internal/requests/repository"
	"repairshop/pkg/config"
	apperrors "repairshop/pkg/errors"
	"repairshop/pkg/ics"
	"repairshop/pkg/model"
	"repairshop/pkg/schedule"
)

// CalendarService projects the ledger into the staff calendar: full
// appointment details with customer and device data. Every endpoint it
// backs sits behind basic auth.
type CalendarService interface {
	DetailedView(ctx context.Context, rangeName string) (*model.CalendarResponse, error)
	DetailedICS(ctx context.Context, rangeName string) ([]byte, error)
}

type calendarService struct {
	appointments appointmentsrepo.AppointmentRepository
	requests     requestsrepo.RequestRepository
	availability availabilitysvc.AvailabilityService
	cfg          *config.Config
	now          func() time.Time
}

func NewCalendarService(
	appointments appointmentsrepo.AppointmentRepository,
	requests requestsrepo.RequestRepository,
	availability availabilitysvc.AvailabilityService,
	cfg *config.Config,
) CalendarService {
	return &calendarService{
		appointments: appointments,
		requests:     requests,
		availability: availability,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// resolveWindow maps the range name to an absolute window. Without a
// range the staff calendar shows the configured forward window instead
// of a single day.
func (s *calendarService) resolveWindow(rangeName string) (schedule.TimeBlock, string) {
	if strings.TrimSpace(rangeName) == "" {
		start := schedule.DayStart(s.now())
		end := schedule.DayEnd(start.AddDate(0, 0, s.cfg.CalendarWindowDays-1))
		return schedule.TimeBlock{Start: start, End: end},
			fmt.Sprintf("next_%d_days", s.cfg.CalendarWindowDays)
	}
	return schedule.ResolveRange(rangeName, s.now())
}

func (s *calendarService) DetailedView(ctx context.Context, rangeName string) (*model.CalendarResponse, error) {
	window, name := s.resolveWindow(rangeName)

	events, err := s.collectEvents(ctx, window)
	if err != nil {
		return nil, err
	}

	return &model.CalendarResponse{
		Range:               name,
		Period:              model.Period{Start: window.Start, End: window.End},
		SlotDurationMinutes: int(s.cfg.SlotDuration.Minutes()),
		Events:              events,
	}, nil
}

func (s *calendarService) collectEvents(ctx context.Context, window schedule.TimeBlock) ([]model.CalendarEvent, error) {
	appointments, err := s.appointments.FindActiveInRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, apperrors.Unavailable("appointment store", err)
	}

	events := make([]model.CalendarEvent, 0)

	for _, block := range s.availability.NonWorkingBlocks(window.Start, window.End) {
		events = append(events, model.CalendarEvent{
			Type:    model.EventTypeClosed,
			Summary: block.Reason.Label(),
			Start:   block.Block.Start,
			End:     block.Block.End,
		})
	}

	for _, appointment := range appointments {
		events = append(events, s.appointmentEvent(ctx, appointment))
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}

func (s *calendarService) appointmentEvent(ctx context.Context, appointment *model.Appointment) model.CalendarEvent {
	event := model.CalendarEvent{
		Type:    model.EventTypeAppointment,
		ID:      appointment.ID,
		Summary: "Repair appointment",
		Start:   appointment.Date,
		End:     s.appointmentEnd(appointment),
		Status:  appointment.Status,
	}

	req, err := s.requests.FindByID(ctx, appointment.RequestID)
	if err != nil {
		// Orphan appointments still show up, just without the details.
		s.cfg.Log.Warn("Calendar event without request details",
			"appointment_id", appointment.ID,
			"request_id", appointment.RequestID,
			"error", err,
		)
		return event
	}

	event.Summary = "Repair: " + req.Customer.FullName()
	event.Customer = &model.EventCustomer{
		Name:  req.Customer.FullName(),
		Phone: req.Customer.PhoneNumber,
		Email: req.Customer.Email,
	}
	event.Device = req.Device.Description()
	event.ServiceType = req.ServiceType
	event.Notes = req.AdditionalNotes
	return event
}

// DetailedICS renders the staff feed. Unlike the public availability
// feed, event descriptions carry customer contact and device details.
func (s *calendarService) DetailedICS(ctx context.Context, rangeName string) ([]byte, error) {
	view, err := s.DetailedView(ctx, rangeName)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar("-//Repair Shop Calendar//EN", "Repair Shop - Full Details")
	cal.Method = "PUBLISH"

	closedSeq := make(map[string]int)
	for _, event := range view.Events {
		icsEvent := ics.Event{
			Summary:      event.Summary,
			Start:        event.Start,
			End:          event.End,
			Status:       ics.StatusConfirmed,
			Transparency: ics.TransparencyOpaque,
		}

		if event.Type == model.EventTypeAppointment {
			icsEvent.UID = fmt.Sprintf("repair-%s@repairshop.local", event.ID)
			icsEvent.Description = describeEvent(event)
		} else {
			day := event.Start.UTC().Format("20060102")
			closedSeq[day]++
			icsEvent.UID = fmt.Sprintf("closed-%s-%d@repairshop.local", day, closedSeq[day])
		}

		cal.AddEvent(icsEvent)
	}

	return cal.Bytes(), nil
}

func describeEvent(event model.CalendarEvent) string {
	var lines []string
	if event.Customer != nil {
		lines = append(lines,
			"Customer: "+event.Customer.Name,
			"Phone: "+event.Customer.Phone,
			"Email: "+event.Customer.Email,
		)
	}
	if event.Device != "" {
		lines = append(lines, "Device: "+event.Device)
	}
	if event.ServiceType != "" {
		lines = append(lines, "Service: "+event.ServiceType)
	}
	if event.Notes != "" {
		lines = append(lines, "Notes: "+event.Notes)
	}
	return strings.Join(lines, "\n")
}

func (s *calendarService) appointmentEnd(appointment *model.Appointment) time.Time {
	if appointment.EndDate != nil {
		return *appointment.EndDate
	}
	return appointment.Date.Add(s.cfg.SlotDuration)
}
