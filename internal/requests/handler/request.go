package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"repairshop/internal/requests/repository"
	"repairshop/internal/requests/service"
	apperrors "repairshop/pkg/errors"
	httputil "repairshop/pkg/http"
	"repairshop/pkg/logger"
	"repairshop/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RequestHandler struct {
	service service.RequestService
	log     *logger.Logger
}

func NewRequestHandler(service service.RequestService, log *logger.Logger) *RequestHandler {
	return &RequestHandler{
		service: service,
		log:     log,
	}
}

// intakePayload is the POST body: the service request itself plus an
// optional initial appointment date.
type intakePayload struct {
	model.ServiceRequest
	AppointmentDate *time.Time `json:"appointment_date,omitempty"`
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload intakePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	created, err := h.service.Create(r.Context(), &payload.ServiceRequest, payload.AppointmentDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *RequestHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, req); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *RequestHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	filter := repository.ListFilter{
		DeviceBrand: query.Get("device_brand"),
		ServiceType: query.Get("service_type"),
		Status:      query.Get("status"),
	}

	var err error
	if filter.Limit, err = parseInt64Param(query.Get("limit"), "limit"); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}
	if filter.Offset, err = parseInt64Param(query.Get("offset"), "offset"); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	requests, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, requests, total, filter.Limit, filter.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *RequestHandler) FilterOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	options, err := h.service.FilterOptions(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "FilterOptions", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, options); err != nil {
		h.log.Error("failed to write success response", "handler", "FilterOptions", "error", err)
	}
}

func parseInt64Param(value, name string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s", name, value))
	}
	return n, nil
}

func (h *RequestHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/requests", h.Create)
	router.GET("/api/v1/requests", h.GetAll)
	router.GET("/api/v1/requests/id/:id", h.GetByID)
	router.GET("/api/v1/requests/filter-options", h.FilterOptions)
}
