package cancel_recurring_booking

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
	msgTerminalStatus     = "серия уже в терминальном статусе"
)

// CancelRecurringRequest HTTP request model
type CancelRecurringRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
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

// Handle PATCH /api/v1/recurring-bookings/{recurringId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	vars := mux.Vars(r)
	recurringID, err := strconv.ParseInt(vars["recurringId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Invalid recurring ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRecurringID)
		return
	}

	var req CancelRecurringRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	reason := ""
	if req.CancellationReason != nil {
		reason = *req.CancellationReason
	}

	err = h.service.CancelRecurring(r.Context(), recurringID, &models.CancelBookingRequest{
		RequesterID:        requesterID,
		CancellationReason: reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrRecurringNotFound):
			h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Not found: recurring_id=%d", recurringID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Access denied: recurring_id=%d, requester_id=%d",
				recurringID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrTerminalStatus):
			h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Terminal status: recurring_id=%d", recurringID)
			handlers.RespondConflict(w, msgTerminalStatus)

		default:
			h.logger.Error("PATCH /recurring-bookings/{id}/cancel - Failed to cancel: recurring_id=%d, error=%v",
				recurringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /recurring-bookings/{id}/cancel - Cancelled successfully: recurring_id=%d, requester_id=%d",
		recurringID, requesterID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
