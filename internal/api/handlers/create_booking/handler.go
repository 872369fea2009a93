package create_booking

import (
	"errors"
	"net/http"

	"github.com/quadralivre/facility-booking-service/internal/api/handlers"
	"github.com/quadralivre/facility-booking-service/internal/api/middleware"
	createBooking "github.com/quadralivre/facility-booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени"
	msgResourceNotFound   = "ресурс не найден"
	msgResourceInactive   = "ресурс выведен из эксплуатации"
	msgForbidden          = "доступ запрещен"
	msgInvalidDate        = "слот уже начался или дата в прошлом"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgShiftRequired      = "для зоны барбекю требуется смена day или night"
	msgStartTimeRequired  = "для корта требуется время начала"
	msgOutsideWindow      = "занятие не попадает в окно преподавания"
	msgSlotBlocked        = "слот закрыт административной блокировкой"
	msgSlotTaken          = "слот уже занят"
	msgSlotTakenRecurring = "слот занят еженедельным бронированием"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(requesterID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotBlocked):
			h.logger.Warn("POST /bookings - Slot blocked: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgSlotBlocked)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrSlotTakenByRecurring):
			h.logger.Warn("POST /bookings - Slot taken by recurring: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgSlotTakenRecurring)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrResourceInactive):
			h.logger.Warn("POST /bookings - Resource inactive: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgResourceInactive)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: requester_id=%d", requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid date: resource_id=%d, date=%s", req.ResourceID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: resource_id=%d, time=%s", req.ResourceID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrShiftRequired):
			handlers.RespondBadRequest(w, msgShiftRequired)

		case errors.Is(err, createBooking.ErrStartTimeRequired):
			handlers.RespondBadRequest(w, msgStartTimeRequired)

		case errors.Is(err, createBooking.ErrOutsideTeachingWindow):
			h.logger.Warn("POST /bookings - Outside teaching window: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgOutsideWindow)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: requester_id=%d, error=%v", requesterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, requester_id=%d",
		result.ID, requesterID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
