package transfer_recurring_booking

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
	msgInvalidNewOwner    = "некорректный ID нового владельца"
	msgNotFound           = "еженедельное бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgTerminalStatus     = "серия уже в терминальном статусе"
	msgSelfTransfer       = "нельзя передать серию самому себе"
)

// TransferRecurringRequest HTTP request model
type TransferRecurringRequest struct {
	NewOwnerID int64 `json:"newOwnerId"`
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

// Handle POST /api/v1/recurring-bookings/{recurringId}/transfer
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	vars := mux.Vars(r)
	recurringID, err := strconv.ParseInt(vars["recurringId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /recurring-bookings/{id}/transfer - Invalid recurring ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRecurringID)
		return
	}

	var req TransferRecurringRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /recurring-bookings/{id}/transfer - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.NewOwnerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidNewOwner)
		return
	}

	resp, err := h.service.TransferRecurring(r.Context(), recurringID, &models.TransferBookingRequest{
		RequesterID: requesterID,
		NewOwnerID:  req.NewOwnerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrRecurringNotFound):
			h.logger.Warn("POST /recurring-bookings/{id}/transfer - Not found: recurring_id=%d", recurringID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /recurring-bookings/{id}/transfer - Access denied: recurring_id=%d, requester_id=%d",
				recurringID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrTerminalStatus):
			h.logger.Warn("POST /recurring-bookings/{id}/transfer - Terminal status: recurring_id=%d", recurringID)
			handlers.RespondConflict(w, msgTerminalStatus)

		case errors.Is(err, bookings.ErrSelfTransfer):
			h.logger.Warn("POST /recurring-bookings/{id}/transfer - Self transfer: recurring_id=%d, requester_id=%d",
				recurringID, requesterID)
			handlers.RespondBadRequest(w, msgSelfTransfer)

		default:
			h.logger.Error("POST /recurring-bookings/{id}/transfer - Failed to transfer: recurring_id=%d, error=%v",
				recurringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-bookings/{id}/transfer - Transferred successfully: recurring_id=%d, new_owner=%d",
		recurringID, req.NewOwnerID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
