package service

import (
	"context"
	"time"

	"repairshop/pkg/kafka"
	"repairshop/pkg/model"
)

// Event types emitted on the appointment lifecycle topic.
const (
	EventAppointmentBooked      = "appointment.booked"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentCancelled   = "appointment.cancelled"
)

// AppointmentEvent is the payload downstream consumers (reminders,
// analytics) receive for every ledger mutation.
type AppointmentEvent struct {
	EventType     string    `json:"event_type"`
	AppointmentID string    `json:"appointment_id"`
	RequestID     string    `json:"request_id"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// publishEvent is best effort: the booking is already committed, so a
// broker outage only costs the notification, never the write.
func (s *bookingLedger) publishEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	event := AppointmentEvent{
		EventType:     eventType,
		AppointmentID: appointment.ID,
		RequestID:     appointment.RequestID,
		Date:          appointment.Date,
		Status:        appointment.Status,
		OccurredAt:    time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(appointment.RequestID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(s.cfg.ServiceName).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish appointment event",
			"event_type", eventType,
			"appointment_id", appointment.ID,
			"error", err,
		)
	}
}
