package transfer_booking

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
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidNewOwner    = "некорректный ID нового владельца"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgTerminalStatus     = "бронирование уже в терминальном статусе"
	msgPastSlot           = "слот бронирования уже прошел"
	msgSelfTransfer       = "нельзя передать бронирование самому себе"
)

// TransferBookingRequest HTTP request model
type TransferBookingRequest struct {
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

// Handle POST /api/v1/bookings/{bookingId}/transfer
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/transfer - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req TransferBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/transfer - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.NewOwnerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidNewOwner)
		return
	}

	resp, err := h.service.TransferOneOff(r.Context(), bookingID, &models.TransferBookingRequest{
		RequesterID: requesterID,
		NewOwnerID:  req.NewOwnerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/transfer - Not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/transfer - Access denied: booking_id=%d, requester_id=%d",
				bookingID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrTerminalStatus):
			h.logger.Warn("POST /bookings/{id}/transfer - Terminal status: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgTerminalStatus)

		case errors.Is(err, bookings.ErrPastDate):
			h.logger.Warn("POST /bookings/{id}/transfer - Past slot: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgPastSlot)

		case errors.Is(err, bookings.ErrSelfTransfer):
			h.logger.Warn("POST /bookings/{id}/transfer - Self transfer: booking_id=%d, requester_id=%d",
				bookingID, requesterID)
			handlers.RespondBadRequest(w, msgSelfTransfer)

		default:
			h.logger.Error("POST /bookings/{id}/transfer - Failed to transfer: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/transfer - Transferred successfully: old_id=%d, new_id=%d, new_owner=%d",
		resp.OldBooking.ID, resp.NewBooking.ID, req.NewOwnerID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
