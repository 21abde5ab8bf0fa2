package model

import "time"

// Busy slot and calendar event kinds.
const (
	BusyTypeClosed = "closed"
	BusyTypeBooked = "booked"

	EventTypeClosed      = "closed"
	EventTypeAppointment = "appointment"
)

// Period is the resolved absolute window a named range maps to.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BusySlot is one anonymized unavailable interval. Type says whether the
// shop is closed or the time is taken by a booking; Reason carries the
// human label and never any customer data. EventUID is the opaque
// identifier for the calendar feed and stays out of JSON responses.
type BusySlot struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Type     string    `json:"type"`
	Reason   string    `json:"reason"`
	EventUID string    `json:"-"`
}

// WorkingHoursDay is the opening window of one weekday in HH:MM form.
// A nil entry in the weekly map means the shop is closed that day.
type WorkingHoursDay struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailabilityResponse is the anonymized schedule view.
type AvailabilityResponse struct {
	Range               string                      `json:"range"`
	Period              Period                      `json:"period"`
	SlotDurationMinutes int                         `json:"slot_duration_minutes"`
	BusySlots           []BusySlot                  `json:"busy_slots"`
	WorkingHours        map[string]*WorkingHoursDay `json:"working_hours"`
}

// FreeSlotsResponse lists the bookable slot start instants in a window.
type FreeSlotsResponse struct {
	Range               string      `json:"range"`
	Period              Period      `json:"period"`
	SlotDurationMinutes int         `json:"slot_duration_minutes"`
	Slots               []time.Time `json:"slots"`
}

// EventCustomer is the customer block on a detailed calendar event.
type EventCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CalendarEvent is one entry in the detailed (authenticated) calendar.
// Customer, Device and Notes are populated only for appointment events.
type CalendarEvent struct {
	Type        string         `json:"type"`
	ID          string         `json:"id,omitempty"`
	Summary     string         `json:"summary"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Customer    *EventCustomer `json:"customer,omitempty"`
	Device      string         `json:"device,omitempty"`
	ServiceType string         `json:"service_type,omitempty"`
	Status      string         `json:"status,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}

// CalendarResponse is the detailed calendar view.
type CalendarResponse struct {
	Range               string          `json:"range"`
	Period              Period          `json:"period"`
	SlotDurationMinutes int             `json:"slot_duration_minutes"`
	Events              []CalendarEvent `json:"events"`
}
