package create_recurring_booking

import (
	"errors"
	"net/http"

	"github.com/quadralivre/facility-booking-service/internal/api/handlers"
	"github.com/quadralivre/facility-booking-service/internal/api/middleware"
	createRecurring "github.com/quadralivre/facility-booking-service/internal/usecase/create_recurring_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени"
	msgResourceNotFound   = "ресурс не найден"
	msgResourceInactive   = "ресурс выведен из эксплуатации"
	msgForbidden          = "доступ запрещен"
	msgInvalidStartDate   = "дата начала в прошлом или не попадает на день недели серии"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgShiftRequired      = "для зоны барбекю требуется смена day или night"
	msgStartTimeRequired  = "для корта требуется время начала"
	msgOutsideWindow      = "занятие не попадает в окно преподавания"
	msgSlotTaken          = "еженедельный слот уже занят"
	msgUpcomingOneOffs    = "на слоте есть будущие одноразовые бронирования, выберите дату начала"
)

type Handler struct {
	useCase CreateRecurringUseCase
	logger  Logger
}

func NewHandler(useCase CreateRecurringUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/recurring-bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	var req CreateRecurringRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /recurring-bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(requesterID)
	if err != nil {
		h.logger.Warn("POST /recurring-bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Конфликт с будущими одноразовыми бронированиями несет
		// структурированные детали: занятые даты и предложения
		var conflictErr *createRecurring.StartDateConflictError
		if errors.As(err, &conflictErr) {
			h.logger.Warn("POST /recurring-bookings - Upcoming one-offs on slot: resource_id=%d, conflicts=%d",
				req.ResourceID, len(conflictErr.ConflictDates))
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Code:           http.StatusConflict,
				Message:        msgUpcomingOneOffs,
				ConflictDates:  createRecurring.FormatDates(conflictErr.ConflictDates),
				SuggestedDates: createRecurring.FormatDates(conflictErr.SuggestedDates),
			})
			return
		}

		switch {
		case errors.Is(err, createRecurring.ErrSlotTaken):
			h.logger.Warn("POST /recurring-bookings - Slot taken: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createRecurring.ErrResourceNotFound):
			h.logger.Warn("POST /recurring-bookings - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createRecurring.ErrResourceInactive):
			h.logger.Warn("POST /recurring-bookings - Resource inactive: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgResourceInactive)

		case errors.Is(err, createRecurring.ErrAccessDenied):
			h.logger.Warn("POST /recurring-bookings - Access denied: requester_id=%d", requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createRecurring.ErrInvalidStartDate):
			h.logger.Warn("POST /recurring-bookings - Invalid start date: resource_id=%d", req.ResourceID)
			handlers.RespondBadRequest(w, msgInvalidStartDate)

		case errors.Is(err, createRecurring.ErrInvalidTimeSlot):
			h.logger.Warn("POST /recurring-bookings - Invalid time slot: resource_id=%d", req.ResourceID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createRecurring.ErrShiftRequired):
			handlers.RespondBadRequest(w, msgShiftRequired)

		case errors.Is(err, createRecurring.ErrStartTimeRequired):
			handlers.RespondBadRequest(w, msgStartTimeRequired)

		case errors.Is(err, createRecurring.ErrOutsideTeachingWindow):
			h.logger.Warn("POST /recurring-bookings - Outside teaching window: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgOutsideWindow)

		case errors.Is(err, createRecurring.ErrInvalidInput):
			h.logger.Warn("POST /recurring-bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /recurring-bookings - Failed to create recurring booking: requester_id=%d, error=%v",
				requesterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-bookings - Recurring booking created successfully: recurring_id=%d, requester_id=%d",
		result.ID, requesterID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
