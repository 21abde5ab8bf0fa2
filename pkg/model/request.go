package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service request lifecycle statuses, matching the intake flow.
const (
	RequestStatusPendingQuote = "pending_quote"
	RequestStatusQuoted       = "quoted"
	RequestStatusConfirmed    = "confirmed"
	RequestStatusInProgress   = "in_progress"
	RequestStatusCompleted    = "completed"
	RequestStatusCancelled    = "cancelled"
)

const (
	ServiceTypeWalkIn = "walk-in"
	ServiceTypeSendIn = "send-in"
)

type Address struct {
	StreetName  string `json:"street_name" bson:"street_name" validate:"required,min=1,max=100"`
	HouseNumber string `json:"house_number" bson:"house_number" validate:"required,min=1,max=20"`
	PostalCode  string `json:"postal_code" bson:"postal_code" validate:"required,min=2,max=20"`
	City        string `json:"city" bson:"city" validate:"required,min=2,max=50"`
}

type Customer struct {
	FirstName   string  `json:"first_name" bson:"first_name" validate:"required,min=1,max=50"`
	LastName    string  `json:"last_name" bson:"last_name" validate:"required,min=1,max=50"`
	Email       string  `json:"email" bson:"email" validate:"required,email"`
	PhoneNumber string  `json:"phone_number" bson:"phone_number" validate:"required,e164"`
	Address     Address `json:"address" bson:"address" validate:"required"`
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Device struct {
	Brand      string `json:"brand" bson:"brand" validate:"required,min=1,max=50"`
	Model      string `json:"model" bson:"model" validate:"required,min=1,max=100"`
	IMEINumber string `json:"imei_number,omitempty" bson:"imei_number,omitempty" validate:"omitempty,numeric,len=15"`
}

func (d Device) Description() string {
	return d.Brand + " " + d.Model
}

type RepairItem struct {
	ServiceName          string                `json:"service_name" bson:"service_name" validate:"required,min=2,max=100"`
	QuotedPrice          primitive.Decimal128  `json:"quoted_price" bson:"quoted_price"`
	ActualPrice          *primitive.Decimal128 `json:"actual_price,omitempty" bson:"actual_price,omitempty"`
	EstimatedDurationMin int                   `json:"estimated_duration_min,omitempty" bson:"estimated_duration_min,omitempty" validate:"omitempty,min=5,max=480"`
}

// ServiceRequest is the parent intake record. Its Appointment field is a
// derived cache of the current (non-cancelled) appointment, maintained
// exclusively by the booking ledger; the appointments collection is the
// source of truth. AppointmentHistory is append-only.
type ServiceRequest struct {
	ID                 string                    `json:"id,omitempty" bson:"_id,omitempty"`
	Customer           Customer                  `json:"customer" bson:"customer" validate:"required"`
	Device             Device                    `json:"device" bson:"device" validate:"required"`
	Repairs            []RepairItem              `json:"repairs,omitempty" bson:"repairs,omitempty" validate:"omitempty,dive"`
	ServiceType        string                    `json:"service_type" bson:"service_type" validate:"required,oneof=walk-in send-in"`
	Status             string                    `json:"status" bson:"status" validate:"required,oneof=pending_quote quoted confirmed in_progress completed cancelled"`
	TotalQuotedPrice   *primitive.Decimal128     `json:"total_quoted_price,omitempty" bson:"total_quoted_price,omitempty"`
	TotalActualPrice   *primitive.Decimal128     `json:"total_actual_price,omitempty" bson:"total_actual_price,omitempty"`
	AdditionalNotes    string                    `json:"additional_notes,omitempty" bson:"additional_notes,omitempty" validate:"omitempty,max=2000"`
	Appointment        *AppointmentRef           `json:"appointment,omitempty" bson:"appointment,omitempty"`
	AppointmentHistory []AppointmentHistoryEntry `json:"appointment_history,omitempty" bson:"appointment_history,omitempty"`
	SubmittedAt        time.Time                 `json:"submitted_at" bson:"submitted_at"`
	UpdatedAt          time.Time                 `json:"updated_at" bson:"updated_at"`
}

// FilterOptions lists the distinct values callers can filter request
// listings by.
type FilterOptions struct {
	DeviceBrands []string `json:"device_brands"`
	ServiceTypes []string `json:"service_types"`
	Statuses     []string `json:"statuses"`
}
