package model

import "time"

const (
	AppointmentStatusBooked    = "booked"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
)

// Actions recorded in a service request's appointment history.
const (
	HistoryActionBooked      = "booked"
	HistoryActionRescheduled = "rescheduled"
	HistoryActionCancelled   = "cancelled"
)

// Appointment is the source of truth for a scheduled visit. It is never
// deleted: cancellation flips the status and keeps the record for audit.
type Appointment struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty"`
	RequestID string     `json:"request_id" bson:"request_id" validate:"required,mongodb"`
	Date      time.Time  `json:"date" bson:"date" validate:"required"`
	EndDate   *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Status    string     `json:"status" bson:"status" validate:"required,oneof=booked confirmed cancelled"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

func (a *Appointment) Cancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// AppointmentRef is the parent record's cached pointer to its current
// appointment. Derived data only: the ledger keeps it in lock-step with
// the appointment document and the repair operation rebuilds it.
type AppointmentRef struct {
	AppointmentID string    `json:"appointment_id" bson:"appointment_id"`
	Date          time.Time `json:"date" bson:"date"`
}

// AppointmentHistoryEntry is an immutable audit record appended to the
// parent service request on every ledger mutation.
type AppointmentHistoryEntry struct {
	EntryID       string    `json:"entry_id" bson:"entry_id"`
	AppointmentID string    `json:"appointment_id" bson:"appointment_id"`
	Date          time.Time `json:"date" bson:"date"`
	Status        string    `json:"status" bson:"status"`
	Action        string    `json:"action" bson:"action"`
	RecordedAt    time.Time `json:"recorded_at" bson:"recorded_at"`
}

// AppointmentLock is an advisory lock serializing mutations against a
// single appointment. Expired locks are reaped by a TTL index.
type AppointmentLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
