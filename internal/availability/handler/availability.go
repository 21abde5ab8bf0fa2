package handler

import (
	"fmt"
	"net/http"
	"time"

	"repairshop/internal/availability/service"
	httputil "repairshop/pkg/http"
	"repairshop/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	availability, err := h.service.Availability(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, availability); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Availability", "error", err)
	}
}

func (h *AvailabilityHandler) FreeSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	slots, err := h.service.FreeSlots(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "FreeSlots", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, slots); err != nil {
		h.log.Error("failed to write JSON response", "handler", "FreeSlots", "error", err)
	}
}

func (h *AvailabilityHandler) AvailabilityICS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := h.service.AvailabilityICS(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AvailabilityICS", "error", writeErr)
		}
		return
	}

	filename := fmt.Sprintf("availability-%s.ics", time.Now().UTC().Format("20060102"))
	if err := httputil.WriteCalendar(w, filename, body); err != nil {
		h.log.Error("failed to write calendar response", "handler", "AvailabilityICS", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/slots", h.Availability)
	router.GET("/api/v1/slots/free", h.FreeSlots)
	router.GET("/api/v1/slots.ics", h.AvailabilityICS)
}
