package service

import (
	"context"
	"errors"
	"time"

	requestserrors "repairshop/internal/requests/errors"
	"repairshop/internal/requests/repository"
	requestvalidator "repairshop/internal/requests/validator"
	"repairshop/pkg/config"
	apperrors "repairshop/pkg/errors"
	"repairshop/pkg/model"
	"repairshop/pkg/sanitizer"
)

// AppointmentBooker is the slice of the booking ledger the intake flow
// needs. Wired at startup to avoid a package cycle with appointments.
type AppointmentBooker interface {
	Book(ctx context.Context, requestID string, date time.Time) (*model.Appointment, error)
	RepairPointer(ctx context.Context, requestID string) (*model.AppointmentRef, error)
}

type RequestService interface {
	Create(ctx context.Context, req *model.ServiceRequest, appointmentDate *time.Time) (*model.ServiceRequest, error)
	GetByID(ctx context.Context, id string) (*model.ServiceRequest, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*model.ServiceRequest, int64, error)
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)
}

type requestService struct {
	repo      repository.RequestRepository
	validator *requestvalidator.RequestValidator
	booker    AppointmentBooker
	cfg       *config.Config
}

func NewRequestService(
	repo repository.RequestRepository,
	validator *requestvalidator.RequestValidator,
	booker AppointmentBooker,
	cfg *config.Config,
) RequestService {
	return &requestService{
		repo:      repo,
		validator: validator,
		booker:    booker,
		cfg:       cfg,
	}
}

// Create stores a new service request and, when a date is supplied,
// books the initial appointment through the ledger. The request
// survives a failed booking so the customer can rebook.
func (s *requestService) Create(ctx context.Context, req *model.ServiceRequest, appointmentDate *time.Time) (*model.ServiceRequest, error) {
	s.sanitize(req)

	if req.Status == "" {
		req.Status = model.RequestStatusPendingQuote
	}
	// Appointment state is ledger-owned; intake never sets it directly.
	req.Appointment = nil
	req.AppointmentHistory = nil

	if err := s.validator.Validate(req); err != nil {
		var verrs requestvalidator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("service request validation failed", map[string]any{
				"errors": verrs,
			})
		}
		return nil, apperrors.Internal("failed to validate service request", err)
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, apperrors.Internal("failed to create service request", err)
	}

	if appointmentDate != nil {
		if _, err := s.booker.Book(ctx, req.ID, *appointmentDate); err != nil {
			if apperrors.IsAppError(err) {
				return nil, apperrors.AsAppError(err).WithDetails(map[string]any{"request_id": req.ID})
			}
			return nil, apperrors.Internal("failed to book appointment", err)
		}

		created, err := s.repo.FindByID(ctx, req.ID)
		if err == nil {
			return created, nil
		}
	}

	return req, nil
}

func (s *requestService) sanitize(req *model.ServiceRequest) {
	req.Customer.FirstName = sanitizer.NormalizeName(req.Customer.FirstName)
	req.Customer.LastName = sanitizer.NormalizeName(req.Customer.LastName)
	req.Customer.Email = sanitizer.NormalizeEmail(req.Customer.Email)
	if phone := sanitizer.NormalizePhone(req.Customer.PhoneNumber); phone != "" {
		req.Customer.PhoneNumber = phone
	}
	req.Customer.Address.StreetName = sanitizer.TrimAndNormalize(req.Customer.Address.StreetName)
	req.Customer.Address.City = sanitizer.NormalizeCity(req.Customer.Address.City)
	req.Device.Brand = sanitizer.TrimAndNormalize(req.Device.Brand)
	req.Device.Model = sanitizer.TrimAndNormalize(req.Device.Model)
	req.AdditionalNotes = sanitizer.TrimAndNormalize(req.AdditionalNotes)
	for i := range req.Repairs {
		req.Repairs[i].ServiceName = sanitizer.TrimAndNormalize(req.Repairs[i].ServiceName)
	}
}

// GetByID serves the request after verifying its cached appointment
// pointer against the appointments collection. A drifted pointer is
// rewritten before the response goes out.
func (s *requestService) GetByID(ctx context.Context, id string) (*model.ServiceRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, id)
	}

	if s.booker != nil {
		if ref, repairErr := s.booker.RepairPointer(ctx, req.ID); repairErr == nil {
			req.Appointment = ref
		} else {
			s.cfg.Log.Warn("Appointment pointer verification failed",
				"request_id", req.ID,
				"error", repairErr,
			)
		}
	}

	return req, nil
}

func (s *requestService) List(ctx context.Context, filter repository.ListFilter) ([]*model.ServiceRequest, int64, error) {
	requests, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list service requests", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count service requests", err)
	}

	return requests, total, nil
}

func (s *requestService) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	brands, err := s.repo.Distinct(ctx, "device.brand")
	if err != nil {
		return nil, apperrors.Internal("failed to load filter options", err)
	}
	serviceTypes, err := s.repo.Distinct(ctx, "service_type")
	if err != nil {
		return nil, apperrors.Internal("failed to load filter options", err)
	}
	statuses, err := s.repo.Distinct(ctx, "status")
	if err != nil {
		return nil, apperrors.Internal("failed to load filter options", err)
	}

	return &model.FilterOptions{
		DeviceBrands: brands,
		ServiceTypes: serviceTypes,
		Statuses:     statuses,
	}, nil
}

func mapRepositoryError(err error, id string) error {
	switch {
	case errors.Is(err, requestserrors.ErrNotFound):
		return apperrors.NotFoundWithID("service request", id)
	case errors.Is(err, requestserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid service request ID: " + id)
	default:
		return apperrors.Internal("failed to load service request", err)
	}
}
