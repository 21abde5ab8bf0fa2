package service

import (
	"context"
	"strings"
	"testing"
	"time"

	availabilitysvc "repairshop/internal/availability/service"
	requestserrors "repairshop/internal/requests/errors"
	requestsrepo "repairshop/internal/requests/repository"
	"repairshop/pkg/config"
	mongotx "repairshop/pkg/db/mongo"
	"repairshop/pkg/logger"
	"repairshop/pkg/model"
	"repairshop/pkg/schedule"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockAppointmentRepo struct {
	appointments []*model.Appointment
}

func (m *mockAppointmentRepo) Create(context.Context, *model.Appointment) error { return nil }
func (m *mockAppointmentRepo) FindByID(context.Context, string) (*model.Appointment, error) {
	return nil, nil
}
func (m *mockAppointmentRepo) FindActiveByRequestID(context.Context, string) (*model.Appointment, error) {
	return nil, nil
}
func (m *mockAppointmentRepo) FindActiveInRange(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range m.appointments {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}
func (m *mockAppointmentRepo) ActiveExistsAt(context.Context, time.Time) (bool, error) {
	return false, nil
}
func (m *mockAppointmentRepo) SetDate(context.Context, string, time.Time) error { return nil }
func (m *mockAppointmentRepo) SetStatus(context.Context, string, string) error  { return nil }
func (m *mockAppointmentRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

type mockRequestRepo struct {
	requests map[string]*model.ServiceRequest
}

func (m *mockRequestRepo) Create(context.Context, *model.ServiceRequest) error { return nil }
func (m *mockRequestRepo) FindByID(_ context.Context, id string) (*model.ServiceRequest, error) {
	if req, ok := m.requests[id]; ok {
		return req, nil
	}
	return nil, requestserrors.ErrNotFound
}
func (m *mockRequestRepo) FindAll(context.Context, requestsrepo.ListFilter) ([]*model.ServiceRequest, error) {
	return nil, nil
}
func (m *mockRequestRepo) Count(context.Context, requestsrepo.ListFilter) (int64, error) {
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

func testConfig() *config.Config {
	return &config.Config{
		SlotDuration:       30 * time.Minute,
		CalendarWindowDays: 90,
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func testCalendar() schedule.Calendar {
	weekday, _ := schedule.ParseDayHours("09:00-16:00")
	saturday, _ := schedule.ParseDayHours("10:00-15:00")
	return schedule.NewCalendar(schedule.WorkingHours{
		time.Monday:    weekday,
		time.Tuesday:   weekday,
		time.Wednesday: weekday,
		time.Thursday:  weekday,
		time.Friday:    weekday,
		time.Saturday:  saturday,
	}, schedule.HolidaySet{
		{Month: time.December, Day: 25}: {},
		{Month: time.December, Day: 26}: {},
	})
}

func sampleRequest() *model.ServiceRequest {
	return &model.ServiceRequest{
		ID: "64b000000000000000000001",
		Customer: model.Customer{
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       "jane.doe@example.com",
			PhoneNumber: "+4915123456789",
		},
		Device: model.Device{
			Brand: "Samsung",
			Model: "Galaxy S21",
		},
		ServiceType:     model.ServiceTypeWalkIn,
		AdditionalNotes: "Cracked screen",
	}
}

func newTestCalendarService(appointments []*model.Appointment, requests map[string]*model.ServiceRequest) *calendarService {
	cfg := testConfig()
	appointmentRepo := &mockAppointmentRepo{appointments: appointments}

	return &calendarService{
		appointments: appointmentRepo,
		requests:     &mockRequestRepo{requests: requests},
		availability: availabilitysvc.NewAvailabilityService(appointmentRepo, testCalendar(), cfg),
		cfg:          cfg,
		now:          func() time.Time { return time.Date(2024, time.December, 24, 0, 30, 0, 0, time.UTC) },
	}
}

func TestDetailedViewIncludesCustomerDetails(t *testing.T) {
	appointment := &model.Appointment{
		ID:        "a1",
		RequestID: "64b000000000000000000001",
		Date:      time.Date(2024, time.December, 24, 10, 0, 0, 0, time.UTC),
		Status:    model.AppointmentStatusBooked,
	}
	svc := newTestCalendarService(
		[]*model.Appointment{appointment},
		map[string]*model.ServiceRequest{"64b000000000000000000001": sampleRequest()},
	)

	view, err := svc.DetailedView(context.Background(), "today")
	if err != nil {
		t.Fatalf("DetailedView failed: %v", err)
	}

	var found *model.CalendarEvent
	for i := range view.Events {
		if view.Events[i].Type == model.EventTypeAppointment {
			found = &view.Events[i]
			break
		}
	}
	if found == nil {
		t.Fatal("appointment event missing from detailed view")
	}

	if found.Summary != "Repair: Jane Doe" {
		t.Errorf("summary = %q", found.Summary)
	}
	if found.Customer == nil || found.Customer.Phone != "+4915123456789" {
		t.Errorf("customer = %+v, want full contact details", found.Customer)
	}
	if found.Device != "Samsung Galaxy S21" {
		t.Errorf("device = %q", found.Device)
	}
	if found.End.Sub(found.Start) != 30*time.Minute {
		t.Errorf("event span = %s, want the slot duration", found.End.Sub(found.Start))
	}
}

func TestDetailedViewIncludesClosedBlocks(t *testing.T) {
	svc := newTestCalendarService(nil, nil)

	view, err := svc.DetailedView(context.Background(), "today")
	if err != nil {
		t.Fatalf("DetailedView failed: %v", err)
	}

	var closed int
	for _, event := range view.Events {
		if event.Type == model.EventTypeClosed {
			closed++
		}
	}
	// A regular Tuesday has before-open and after-close blocks.
	if closed != 2 {
		t.Errorf("closed events = %d, want 2", closed)
	}
}

func TestDetailedViewDefaultWindow(t *testing.T) {
	svc := newTestCalendarService(nil, nil)

	view, err := svc.DetailedView(context.Background(), "")
	if err != nil {
		t.Fatalf("DetailedView failed: %v", err)
	}

	if view.Range != "next_90_days" {
		t.Errorf("range = %q, want next_90_days", view.Range)
	}
	if got := view.Period.End.Sub(view.Period.Start); got < 89*24*time.Hour {
		t.Errorf("window span = %s, want about 90 days", got)
	}
}

func TestDetailedViewToleratesOrphanAppointment(t *testing.T) {
	appointment := &model.Appointment{
		ID:        "a1",
		RequestID: "64b0000000000000000000ff",
		Date:      time.Date(2024, time.December, 24, 10, 0, 0, 0, time.UTC),
		Status:    model.AppointmentStatusBooked,
	}
	svc := newTestCalendarService([]*model.Appointment{appointment}, nil)

	view, err := svc.DetailedView(context.Background(), "today")
	if err != nil {
		t.Fatalf("DetailedView failed: %v", err)
	}

	for _, event := range view.Events {
		if event.Type == model.EventTypeAppointment {
			if event.Customer != nil {
				t.Error("orphan appointment must not carry customer details")
			}
			return
		}
	}
	t.Error("orphan appointment missing from view")
}

func TestDetailedICSCarriesContactDetails(t *testing.T) {
	appointment := &model.Appointment{
		ID:        "a1",
		RequestID: "64b000000000000000000001",
		Date:      time.Date(2024, time.December, 24, 10, 0, 0, 0, time.UTC),
		Status:    model.AppointmentStatusBooked,
	}
	svc := newTestCalendarService(
		[]*model.Appointment{appointment},
		map[string]*model.ServiceRequest{"64b000000000000000000001": sampleRequest()},
	)

	body, err := svc.DetailedICS(context.Background(), "today")
	if err != nil {
		t.Fatalf("DetailedICS failed: %v", err)
	}
	out := string(body)

	for _, want := range []string{
		"UID:repair-a1@repairshop.local",
		"SUMMARY:Repair: Jane Doe",
		"Phone: +4915123456789",
		"Device: Samsung Galaxy S21",
	} {
		if !strings.Contains(strings.ReplaceAll(out, "\r\n ", ""), want) {
			t.Errorf("feed missing %q", want)
		}
	}
}
