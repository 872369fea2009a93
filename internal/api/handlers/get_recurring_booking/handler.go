package get_recurring_booking

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
	msgNotFound           = "еженедельное бронирование не найдено"
	msgForbidden          = "доступ запрещен"
)

// RecurringWithExceptions ответ с серией и ее исключениями
type RecurringWithExceptions struct {
	Recurring  *models.RecurringBookingResponse `json:"recurring"`
	Exceptions []models.ExceptionResponse       `json:"exceptions"`
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

// Handle GET /api/v1/recurring-bookings/{recurringId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	vars := mux.Vars(r)
	recurringID, err := strconv.ParseInt(vars["recurringId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /recurring-bookings/{id} - Invalid recurring ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRecurringID)
		return
	}

	recurring, exceptions, err := h.service.GetRecurring(r.Context(), recurringID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrRecurringNotFound):
			h.logger.Warn("GET /recurring-bookings/{id} - Not found: recurring_id=%d", recurringID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /recurring-bookings/{id} - Access denied: recurring_id=%d, requester_id=%d",
				recurringID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /recurring-bookings/{id} - Failed to get recurring: recurring_id=%d, error=%v",
				recurringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, RecurringWithExceptions{
		Recurring:  recurring,
		Exceptions: exceptions.Exceptions,
	})
}
