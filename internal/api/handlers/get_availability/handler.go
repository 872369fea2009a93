package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/quadralivre/facility-booking-service/internal/api/handlers"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	availability "github.com/quadralivre/facility-booking-service/internal/usecase/get_availability"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgMissingDate       = "параметр date обязателен"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStartTime  = "некорректный формат времени, ожидается HH:MM"
	msgInvalidShift      = "некорректная смена, ожидается day или night"
	msgResourceNotFound  = "ресурс не найден"
	msgInvalidInput      = "некорректные данные запроса"
)

type Handler struct {
	useCase AvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()

	dateParam := query.Get("date")
	if dateParam == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateParam)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &availability.Request{
		ResourceID: resourceID,
		Date:       date,
	}

	if startParam := query.Get("startTime"); startParam != "" {
		startTime := types.TimeString(startParam)
		if err := startTime.Validate(); err != nil {
			handlers.RespondBadRequest(w, msgInvalidStartTime)
			return
		}
		req.StartTime = startTime
	}

	if shiftParam := query.Get("shift"); shiftParam != "" {
		shift := domain.Shift(shiftParam)
		if !shift.IsValid() {
			handlers.RespondBadRequest(w, msgInvalidShift)
			return
		}
		req.Shift = shift
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/availability - Invalid input: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed to get availability: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
