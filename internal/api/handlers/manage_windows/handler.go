package manage_windows

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/quadralivre/facility-booking-service/internal/api/handlers"
	"github.com/quadralivre/facility-booking-service/internal/api/middleware"
	"github.com/quadralivre/facility-booking-service/internal/service/schedule"
	"github.com/quadralivre/facility-booking-service/internal/service/schedule/models"
)

const (
	msgInvalidWindowID    = "некорректный ID окна преподавания"
	msgInvalidSportID     = "некорректный ID вида спорта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgForbidden          = "доступ запрещен"
	msgWindowNotFound     = "окно преподавания не найдено"
	msgInvalidTimeRange   = "время начала должно быть раньше времени окончания"
	msgInvalidInput       = "некорректные данные запроса"
)

// UpsertWindowRequest HTTP request model
type UpsertWindowRequest struct {
	SportID     int64  `json:"sportId"`
	Weekday     *int   `json:"weekday,omitempty"`
	SessionKind string `json:"sessionKind"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleUpsert PUT /api/v1/teaching-windows
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	var req UpsertWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /teaching-windows - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpsertWindow(r.Context(), &models.UpsertWindowRequest{
		RequesterID: requesterID,
		SportID:     req.SportID,
		Weekday:     req.Weekday,
		SessionKind: req.SessionKind,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /teaching-windows - Access denied: requester_id=%d", requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /teaching-windows - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /teaching-windows - Failed to upsert window: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /teaching-windows - Upserted successfully: window_id=%d, sport_id=%d, admin_id=%d",
		resp.ID, req.SportID, requesterID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleList GET /api/v1/sports/{sportId}/teaching-windows
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sportID, err := strconv.ParseInt(vars["sportId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /sports/{id}/teaching-windows - Invalid sport ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSportID)
		return
	}

	resp, err := h.service.ListWindows(r.Context(), sportID)
	if err != nil {
		h.logger.Error("GET /sports/{id}/teaching-windows - Failed to list windows: sport_id=%d, error=%v",
			sportID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleDeactivate DELETE /api/v1/teaching-windows/{windowId}
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	vars := mux.Vars(r)
	windowID, err := strconv.ParseInt(vars["windowId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /teaching-windows/{id} - Invalid window ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindowID)
		return
	}

	err = h.service.DeactivateWindow(r.Context(), windowID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /teaching-windows/{id} - Access denied: window_id=%d, requester_id=%d",
				windowID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrWindowNotFound):
			h.logger.Warn("DELETE /teaching-windows/{id} - Not found: window_id=%d", windowID)
			handlers.RespondNotFound(w, msgWindowNotFound)

		default:
			h.logger.Error("DELETE /teaching-windows/{id} - Failed to deactivate: window_id=%d, error=%v",
				windowID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /teaching-windows/{id} - Deactivated successfully: window_id=%d, admin_id=%d",
		windowID, requesterID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
