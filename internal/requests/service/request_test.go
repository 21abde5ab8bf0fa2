package service

import (
	"context"
	"testing"
	"time"

	requestserrors "repairshop/internal/requests/errors"
	"repairshop/internal/requests/repository"
	requestvalidator "repairshop/internal/requests/validator"
	"repairshop/pkg/config"
	mongotx "repairshop/pkg/db/mongo"
	apperrors "repairshop/pkg/errors"
	"repairshop/pkg/logger"
	"repairshop/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockRequestRepo struct {
	createFunc   func(ctx context.Context, req *model.ServiceRequest) error
	findByIDFunc func(ctx context.Context, id string) (*model.ServiceRequest, error)
	created      []*model.ServiceRequest
}

func (m *mockRequestRepo) Create(ctx context.Context, req *model.ServiceRequest) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, req); err != nil {
			return err
		}
	}
	if req.ID == "" {
		req.ID = "64b000000000000000000001"
	}
	m.created = append(m.created, req)
	return nil
}

func (m *mockRequestRepo) FindByID(ctx context.Context, id string) (*model.ServiceRequest, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, requestserrors.ErrNotFound
}

func (m *mockRequestRepo) FindAll(context.Context, repository.ListFilter) ([]*model.ServiceRequest, error) {
	return nil, nil
}
func (m *mockRequestRepo) Count(context.Context, repository.ListFilter) (int64, error) {
	return 0, nil
}
func (m *mockRequestRepo) SetAppointmentState(context.Context, string, *model.AppointmentRef, model.AppointmentHistoryEntry) error {
	return nil
}
func (m *mockRequestRepo) SetAppointmentRef(context.Context, string, *model.AppointmentRef) error {
	return nil
}
func (m *mockRequestRepo) Distinct(context.Context, string) ([]string, error) { return nil, nil }
func (m *mockRequestRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

type mockBooker struct {
	bookFunc          func(ctx context.Context, requestID string, date time.Time) (*model.Appointment, error)
	repairPointerFunc func(ctx context.Context, requestID string) (*model.AppointmentRef, error)
	bookCalls         int
}

func (m *mockBooker) Book(ctx context.Context, requestID string, date time.Time) (*model.Appointment, error) {
	m.bookCalls++
	if m.bookFunc != nil {
		return m.bookFunc(ctx, requestID, date)
	}
	return &model.Appointment{ID: "a1", RequestID: requestID, Date: date, Status: model.AppointmentStatusBooked}, nil
}

func (m *mockBooker) RepairPointer(ctx context.Context, requestID string) (*model.AppointmentRef, error) {
	if m.repairPointerFunc != nil {
		return m.repairPointerFunc(ctx, requestID)
	}
	return nil, nil
}

func newTestService(repo *mockRequestRepo, booker *mockBooker) RequestService {
	log := logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	})
	return NewRequestService(repo, requestvalidator.NewRequestValidator(log), booker, &config.Config{Log: log})
}

func validRequest() *model.ServiceRequest {
	return &model.ServiceRequest{
		Customer: model.Customer{
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       "jane.doe@example.com",
			PhoneNumber: "+4915123456789",
			Address: model.Address{
				StreetName:  "Hauptstrasse",
				HouseNumber: "12",
				PostalCode:  "10115",
				City:        "Berlin",
			},
		},
		Device: model.Device{
			Brand: "Samsung",
			Model: "Galaxy S21",
		},
		ServiceType: model.ServiceTypeWalkIn,
	}
}

func TestCreateSanitizesAndDefaultsStatus(t *testing.T) {
	repo := &mockRequestRepo{}
	booker := &mockBooker{}
	svc := newTestService(repo, booker)

	req := validRequest()
	req.Customer.FirstName = "  Jane "
	req.Customer.Email = " JANE.DOE@Example.COM "
	req.Device.Brand = "Samsung\t "
	req.AdditionalNotes = "  screen   cracked  "

	created, err := svc.Create(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Customer.FirstName != "Jane" {
		t.Errorf("first name = %q", created.Customer.FirstName)
	}
	if created.Customer.Email != "jane.doe@example.com" {
		t.Errorf("email = %q", created.Customer.Email)
	}
	if created.Device.Brand != "Samsung" {
		t.Errorf("brand = %q", created.Device.Brand)
	}
	if created.AdditionalNotes != "screen cracked" {
		t.Errorf("notes = %q", created.AdditionalNotes)
	}
	if created.Status != model.RequestStatusPendingQuote {
		t.Errorf("status = %q, want pending_quote", created.Status)
	}
	if booker.bookCalls != 0 {
		t.Errorf("booker called %d times without an appointment date", booker.bookCalls)
	}
}

func TestCreateRejectsInvalidRequest(t *testing.T) {
	repo := &mockRequestRepo{}
	svc := newTestService(repo, &mockBooker{})

	req := validRequest()
	req.Customer.Email = "not-an-email"

	_, err := svc.Create(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("code = %q, want %q", appErr.Code, apperrors.CodeValidation)
	}
	if appErr.Details["errors"] == nil {
		t.Error("validation error carries no field details")
	}
	if len(repo.created) != 0 {
		t.Error("invalid request was persisted")
	}
}

func TestCreateStripsLedgerOwnedFields(t *testing.T) {
	repo := &mockRequestRepo{}
	svc := newTestService(repo, &mockBooker{})

	req := validRequest()
	req.Appointment = &model.AppointmentRef{AppointmentID: "forged"}
	req.AppointmentHistory = []model.AppointmentHistoryEntry{{EntryID: "forged"}}

	created, err := svc.Create(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Appointment != nil {
		t.Error("client-supplied appointment pointer survived intake")
	}
	if created.AppointmentHistory != nil {
		t.Error("client-supplied appointment history survived intake")
	}
}

func TestCreateBooksWhenDateSupplied(t *testing.T) {
	date := time.Date(2030, time.June, 3, 10, 0, 0, 0, time.UTC)
	refreshed := validRequest()
	refreshed.ID = "64b000000000000000000001"
	refreshed.Appointment = &model.AppointmentRef{AppointmentID: "a1", Date: date}

	repo := &mockRequestRepo{
		findByIDFunc: func(_ context.Context, id string) (*model.ServiceRequest, error) {
			return refreshed, nil
		},
	}
	booker := &mockBooker{
		bookFunc: func(_ context.Context, requestID string, d time.Time) (*model.Appointment, error) {
			if requestID != "64b000000000000000000001" {
				t.Errorf("booked for request %q", requestID)
			}
			if !d.Equal(date) {
				t.Errorf("booked date = %s, want %s", d, date)
			}
			return &model.Appointment{ID: "a1", RequestID: requestID, Date: d, Status: model.AppointmentStatusBooked}, nil
		},
	}
	svc := newTestService(repo, booker)

	created, err := svc.Create(context.Background(), validRequest(), &date)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if booker.bookCalls != 1 {
		t.Fatalf("booker called %d times, want 1", booker.bookCalls)
	}
	if created.Appointment == nil || created.Appointment.AppointmentID != "a1" {
		t.Errorf("appointment pointer = %+v, want a1", created.Appointment)
	}
}

func TestCreateSurvivesFailedBooking(t *testing.T) {
	repo := &mockRequestRepo{}
	booker := &mockBooker{
		bookFunc: func(context.Context, string, time.Time) (*model.Appointment, error) {
			return nil, apperrors.Conflict("slot already booked")
		},
	}
	svc := newTestService(repo, booker)

	date := time.Date(2030, time.June, 3, 10, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), validRequest(), &date)
	if err == nil {
		t.Fatal("expected the booking conflict to surface")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("code = %q, want %q", apperrors.AsAppError(err).Code, apperrors.CodeConflict)
	}

	// The intake record stays so the customer can rebook another slot.
	if len(repo.created) != 1 {
		t.Errorf("requests persisted = %d, want 1", len(repo.created))
	}
}

func TestGetByIDRepairsPointer(t *testing.T) {
	ref := &model.AppointmentRef{
		AppointmentID: "a1",
		Date:          time.Date(2030, time.June, 3, 10, 0, 0, 0, time.UTC),
	}
	stored := validRequest()
	stored.ID = "64b000000000000000000001"
	stored.Appointment = &model.AppointmentRef{AppointmentID: "stale"}

	repo := &mockRequestRepo{
		findByIDFunc: func(_ context.Context, id string) (*model.ServiceRequest, error) {
			return stored, nil
		},
	}
	booker := &mockBooker{
		repairPointerFunc: func(context.Context, string) (*model.AppointmentRef, error) {
			return ref, nil
		},
	}
	svc := newTestService(repo, booker)

	got, err := svc.GetByID(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Appointment == nil || got.Appointment.AppointmentID != "a1" {
		t.Errorf("appointment pointer = %+v, want the repaired ref", got.Appointment)
	}
}

func TestGetByIDUnknownNotFound(t *testing.T) {
	svc := newTestService(&mockRequestRepo{}, &mockBooker{})

	_, err := svc.GetByID(context.Background(), "64b0000000000000000000ff")
	if err == nil {
		t.Fatal("expected not found")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("code = %q, want %q", apperrors.AsAppError(err).Code, apperrors.CodeNotFound)
	}
}
