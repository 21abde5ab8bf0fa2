package handler

import (
	"fmt"
	"net/http"
	"time"

	"repairshop/internal/calendar/service"
	httputil "repairshop/pkg/http"
	"repairshop/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type CalendarHandler struct {
	service service.CalendarService
	auth    func(httprouter.Handle) httprouter.Handle
	log     *logger.Logger
}

// NewCalendarHandler wires the detailed calendar endpoints behind the
// given auth wrapper.
func NewCalendarHandler(service service.CalendarService, auth func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *CalendarHandler) Calendar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view, err := h.service.DetailedView(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Calendar", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, view); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Calendar", "error", err)
	}
}

func (h *CalendarHandler) CalendarICS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := h.service.DetailedICS(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CalendarICS", "error", writeErr)
		}
		return
	}

	filename := fmt.Sprintf("repair-shop-calendar-%s.ics", time.Now().UTC().Format("20060102"))
	if err := httputil.WriteCalendar(w, filename, body); err != nil {
		h.log.Error("failed to write calendar response", "handler", "CalendarICS", "error", err)
	}
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/calendar", h.auth(h.Calendar))
	router.GET("/api/v1/calendar.ics", h.auth(h.CalendarICS))
}
