package create_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/quadralivre/facility-booking-service/internal/api/handlers"
	"github.com/quadralivre/facility-booking-service/internal/api/middleware"
	"github.com/quadralivre/facility-booking-service/internal/service/bookings"
	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

const (
	msgInvalidRecurringID = "некорректный ID еженедельного бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "еженедельное бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidDate        = "дата не соответствует дню недели серии или предшествует ее началу"
	msgPastDate           = "нельзя создать исключение на прошедшую дату"
	msgExceptionExists    = "исключение на эту дату уже существует"
	msgInvalidInput       = "некорректные данные запроса"
)

// CreateExceptionRequest HTTP request model
type CreateExceptionRequest struct {
	Date   string  `json:"date"` // "2025-03-12"
	Reason *string `json:"reason,omitempty"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/recurring-bookings/{recurringId}/exceptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	vars := mux.Vars(r)
	recurringID, err := strconv.ParseInt(vars["recurringId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /recurring-bookings/{id}/exceptions - Invalid recurring ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRecurringID)
		return
	}

	var req CreateExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /recurring-bookings/{id}/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.CreateException(r.Context(), recurringID, &models.CreateExceptionRequest{
		RequesterID: requesterID,
		Date:        req.Date,
		Reason:      req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrRecurringNotFound):
			h.logger.Warn("POST /recurring-bookings/{id}/exceptions - Not found: recurring_id=%d", recurringID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /recurring-bookings/{id}/exceptions - Access denied: recurring_id=%d, requester_id=%d",
				recurringID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidExceptionDate):
			h.logger.Warn("POST /recurring-bookings/{id}/exceptions - Invalid date: recurring_id=%d, date=%s",
				recurringID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, bookings.ErrPastDate):
			h.logger.Warn("POST /recurring-bookings/{id}/exceptions - Past date: recurring_id=%d, date=%s",
				recurringID, req.Date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, bookings.ErrExceptionExists):
			h.logger.Warn("POST /recurring-bookings/{id}/exceptions - Already exists: recurring_id=%d, date=%s",
				recurringID, req.Date)
			handlers.RespondConflict(w, msgExceptionExists)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /recurring-bookings/{id}/exceptions - Invalid input: recurring_id=%d, error=%v",
				recurringID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /recurring-bookings/{id}/exceptions - Failed to create: recurring_id=%d, error=%v",
				recurringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-bookings/{id}/exceptions - Created successfully: recurring_id=%d, exception_id=%d, date=%s",
		recurringID, resp.ID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
