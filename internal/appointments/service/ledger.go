package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentserrors "repairshop/internal/appointments/errors"
	"repairshop/internal/appointments/repository"
	requestserrors "repairshop/internal/requests/errors"
	requestsrepo "repairshop/internal/requests/repository"
	"repairshop/pkg/config"
	apperrors "repairshop/pkg/errors"
	"repairshop/pkg/kafka"
	"repairshop/pkg/model"
	"repairshop/pkg/schedule"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingLedger owns every appointment mutation. The appointments
// collection is the source of truth; the parent request's cached
// pointer and its append-only history are written in the same
// transaction so readers never see them drift.
type BookingLedger interface {
	Book(ctx context.Context, requestID string, date time.Time) (*model.Appointment, error)
	Reschedule(ctx context.Context, appointmentID string, newDate time.Time) (*model.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) error
	GetByID(ctx context.Context, appointmentID string) (*model.Appointment, error)
	// RepairPointer recomputes the parent's cached pointer from the
	// appointments collection and rewrites it if it drifted. History is
	// never modified.
	RepairPointer(ctx context.Context, requestID string) (*model.AppointmentRef, error)
}

type bookingLedger struct {
	appointments repository.AppointmentRepository
	locks        repository.LockRepository
	requests     requestsrepo.RequestRepository
	calendar     schedule.Calendar
	publisher    kafka.Publisher
	cfg          *config.Config
}

func NewBookingLedger(
	appointments repository.AppointmentRepository,
	locks repository.LockRepository,
	requests requestsrepo.RequestRepository,
	calendar schedule.Calendar,
	publisher kafka.Publisher,
	cfg *config.Config,
) BookingLedger {
	return &bookingLedger{
		appointments: appointments,
		locks:        locks,
		requests:     requests,
		calendar:     calendar,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// validateSlot checks that the instant is in the future and lies on a
// generated slot boundary of an open day.
func (s *bookingLedger) validateSlot(date time.Time) error {
	date = date.UTC()

	if !date.After(time.Now().UTC()) {
		return apperrors.InvalidRange("appointment date must be in the future")
	}

	for _, slot := range s.calendar.SlotsFor(date, s.cfg.SlotDuration) {
		if slot.Equal(date) {
			return nil
		}
	}

	return apperrors.InvalidRange(fmt.Sprintf(
		"%s is not a bookable slot", date.Format(time.RFC3339),
	))
}

func (s *bookingLedger) Book(ctx context.Context, requestID string, date time.Time) (*model.Appointment, error) {
	date = date.UTC()

	if err := s.validateSlot(date); err != nil {
		return nil, err
	}

	if _, err := s.requests.FindByID(ctx, requestID); err != nil {
		return nil, mapRequestError(err, requestID)
	}

	if _, err := s.appointments.FindActiveByRequestID(ctx, requestID); err == nil {
		return nil, apperrors.Conflict("request already has an active appointment")
	} else if !errors.Is(err, appointmentserrors.ErrNotFound) {
		return nil, apperrors.Internal("failed to check existing appointments", err)
	}

	// Serialize concurrent bookings of the same slot.
	lockID := "slot-" + date.Format(time.RFC3339)
	if err := s.acquireLock(ctx, lockID); err != nil {
		return nil, err
	}
	defer s.releaseLock(ctx, lockID)

	taken, err := s.appointments.ActiveExistsAt(ctx, date)
	if err != nil {
		return nil, apperrors.Unavailable("appointment store", err)
	}
	if taken {
		return nil, apperrors.Conflict("slot is already booked")
	}

	appointment := &model.Appointment{
		RequestID: requestID,
		Date:      date,
		Status:    model.AppointmentStatusBooked,
	}

	err = s.appointments.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.appointments.Create(sessCtx, appointment); err != nil {
			return err
		}

		ref := &model.AppointmentRef{AppointmentID: appointment.ID, Date: date}
		entry := s.historyEntry(appointment, model.HistoryActionBooked)
		return s.requests.SetAppointmentState(sessCtx, requestID, ref, entry)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Unavailable("appointment store", err)
	}

	s.publishEvent(ctx, EventAppointmentBooked, appointment)
	return appointment, nil
}

func (s *bookingLedger) Reschedule(ctx context.Context, appointmentID string, newDate time.Time) (*model.Appointment, error) {
	newDate = newDate.UTC()

	if err := s.validateSlot(newDate); err != nil {
		return nil, err
	}

	appointment, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, mapAppointmentError(err, appointmentID)
	}

	if appointment.Cancelled() {
		return nil, apperrors.Conflict("cannot reschedule a cancelled appointment")
	}

	if appointment.Date.Equal(newDate) {
		return appointment, nil
	}

	lockID := "appointment-" + appointmentID
	if err := s.acquireLock(ctx, lockID); err != nil {
		return nil, err
	}
	defer s.releaseLock(ctx, lockID)

	// The target slot is contended with concurrent bookings; hold its
	// lock across the occupancy check, appointment lock first.
	slotLockID := "slot-" + newDate.Format(time.RFC3339)
	if err := s.acquireLock(ctx, slotLockID); err != nil {
		return nil, err
	}
	defer s.releaseLock(ctx, slotLockID)

	taken, err := s.appointments.ActiveExistsAt(ctx, newDate)
	if err != nil {
		return nil, apperrors.Unavailable("appointment store", err)
	}
	if taken {
		return nil, apperrors.Conflict("slot is already booked")
	}

	oldDate := appointment.Date
	appointment.Date = newDate

	err = s.appointments.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.appointments.SetDate(sessCtx, appointmentID, newDate); err != nil {
			return err
		}

		ref := &model.AppointmentRef{AppointmentID: appointmentID, Date: newDate}
		entry := s.historyEntry(appointment, model.HistoryActionRescheduled)
		return s.requests.SetAppointmentState(sessCtx, appointment.RequestID, ref, entry)
	})
	if err != nil {
		appointment.Date = oldDate
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Unavailable("appointment store", err)
	}

	s.publishEvent(ctx, EventAppointmentRescheduled, appointment)
	return appointment, nil
}

func (s *bookingLedger) Cancel(ctx context.Context, appointmentID string) error {
	appointment, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return mapAppointmentError(err, appointmentID)
	}

	if appointment.Cancelled() {
		return apperrors.Conflict("appointment is already cancelled")
	}

	lockID := "appointment-" + appointmentID
	if err := s.acquireLock(ctx, lockID); err != nil {
		return err
	}
	defer s.releaseLock(ctx, lockID)

	appointment.Status = model.AppointmentStatusCancelled

	err = s.appointments.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.appointments.SetStatus(sessCtx, appointmentID, model.AppointmentStatusCancelled); err != nil {
			return err
		}

		// The cached pointer clears; the cancelled visit stays in history.
		entry := s.historyEntry(appointment, model.HistoryActionCancelled)
		return s.requests.SetAppointmentState(sessCtx, appointment.RequestID, nil, entry)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Unavailable("appointment store", err)
	}

	s.publishEvent(ctx, EventAppointmentCancelled, appointment)
	return nil
}

func (s *bookingLedger) GetByID(ctx context.Context, appointmentID string) (*model.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, mapAppointmentError(err, appointmentID)
	}
	return appointment, nil
}

func (s *bookingLedger) RepairPointer(ctx context.Context, requestID string) (*model.AppointmentRef, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, mapRequestError(err, requestID)
	}

	var want *model.AppointmentRef
	active, err := s.appointments.FindActiveByRequestID(ctx, requestID)
	switch {
	case err == nil:
		want = &model.AppointmentRef{AppointmentID: active.ID, Date: active.Date}
	case errors.Is(err, appointmentserrors.ErrNotFound):
		want = nil
	default:
		return nil, apperrors.Unavailable("appointment store", err)
	}

	if refsEqual(req.Appointment, want) {
		return want, nil
	}

	s.cfg.Log.Warn("Repairing drifted appointment pointer",
		"request_id", requestID,
		"error", apperrors.InconsistentState("cached appointment pointer does not match ledger", nil),
	)

	if err := s.requests.SetAppointmentRef(ctx, requestID, want); err != nil {
		return nil, apperrors.Unavailable("appointment store", err)
	}
	return want, nil
}

func (s *bookingLedger) historyEntry(appointment *model.Appointment, action string) model.AppointmentHistoryEntry {
	return model.AppointmentHistoryEntry{
		EntryID:       uuid.New().String(),
		AppointmentID: appointment.ID,
		Date:          appointment.Date,
		Status:        appointment.Status,
		Action:        action,
		RecordedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func (s *bookingLedger) acquireLock(ctx context.Context, lockID string) error {
	err := s.locks.Acquire(ctx, lockID, s.cfg.LockTTL)
	if err == nil {
		return nil
	}
	if errors.Is(err, appointmentserrors.ErrLockHeld) {
		return apperrors.Conflict("a conflicting booking operation is in progress")
	}
	return apperrors.Unavailable("appointment store", err)
}

func (s *bookingLedger) releaseLock(ctx context.Context, lockID string) {
	if err := s.locks.Release(ctx, lockID); err != nil {
		// The TTL index reaps leaked locks.
		s.cfg.Log.Warn("Failed to release advisory lock", "lock_id", lockID, "error", err)
	}
}

func refsEqual(a, b *model.AppointmentRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.AppointmentID == b.AppointmentID && a.Date.Equal(b.Date)
}

func mapAppointmentError(err error, id string) error {
	switch {
	case errors.Is(err, appointmentserrors.ErrNotFound):
		return apperrors.NotFoundWithID("appointment", id)
	case errors.Is(err, appointmentserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid appointment ID: " + id)
	default:
		return apperrors.Unavailable("appointment store", err)
	}
}

func mapRequestError(err error, id string) error {
	switch {
	case errors.Is(err, requestserrors.ErrNotFound):
		return apperrors.NotFoundWithID("service request", id)
	case errors.Is(err, requestserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid service request ID: " + id)
	default:
		return apperrors.Unavailable("request store", err)
	}
}
