package find_start_dates

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/quadralivre/facility-booking-service/internal/api/handlers"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	finder "github.com/quadralivre/facility-booking-service/internal/usecase/find_start_dates"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgMissingWeekday    = "параметр weekday обязателен"
	msgInvalidWeekday    = "некорректный день недели, ожидается 0..6"
	msgInvalidStartTime  = "некорректный формат времени, ожидается HH:MM"
	msgInvalidShift      = "некорректная смена, ожидается day или night"
	msgInvalidFromDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidMaxResults = "некорректное значение maxResults"
	msgResourceNotFound  = "ресурс не найден"
	msgShiftRequired     = "для этого ресурса требуется смена"
	msgStartTimeRequired = "для этого ресурса требуется время начала"
	msgTakenByRecurring  = "слот занят еженедельным бронированием"
	msgInvalidInput      = "некорректные данные запроса"
)

// FreeDatesResponse HTTP response model
type FreeDatesResponse struct {
	ResourceID int64    `json:"resourceId"`
	Weekday    int      `json:"weekday"`
	StartTime  string   `json:"startTime"`
	Dates      []string `json:"dates"`
}

type Handler struct {
	useCase FinderUseCase
	logger  Logger
}

func NewHandler(useCase FinderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/free-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/free-dates - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()

	weekdayParam := query.Get("weekday")
	if weekdayParam == "" {
		handlers.RespondBadRequest(w, msgMissingWeekday)
		return
	}
	weekday, err := strconv.Atoi(weekdayParam)
	if err != nil || weekday < 0 || weekday > 6 {
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	req := &finder.Request{
		ResourceID: resourceID,
		Weekday:    weekday,
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

	if fromParam := query.Get("fromDate"); fromParam != "" {
		fromDate, err := time.Parse(domain.DateFormat, fromParam)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidFromDate)
			return
		}
		req.FromDate = &fromDate
	}

	if maxParam := query.Get("maxResults"); maxParam != "" {
		maxResults, err := strconv.Atoi(maxParam)
		if err != nil || maxResults <= 0 {
			handlers.RespondBadRequest(w, msgInvalidMaxResults)
			return
		}
		req.MaxResults = maxResults
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, finder.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/free-dates - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, finder.ErrSlotTakenByRecurring):
			h.logger.Warn("GET /resources/{id}/free-dates - Slot taken by recurring: resource_id=%d, weekday=%d",
				resourceID, weekday)
			handlers.RespondConflict(w, msgTakenByRecurring)

		case errors.Is(err, finder.ErrShiftRequired):
			handlers.RespondBadRequest(w, msgShiftRequired)

		case errors.Is(err, finder.ErrStartTimeRequired):
			handlers.RespondBadRequest(w, msgStartTimeRequired)

		case errors.Is(err, finder.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/free-dates - Invalid input: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /resources/{id}/free-dates - Failed to find dates: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, d.Format(domain.DateFormat))
	}

	handlers.RespondJSON(w, http.StatusOK, &FreeDatesResponse{
		ResourceID: resp.ResourceID,
		Weekday:    resp.Weekday,
		StartTime:  resp.StartTime.String(),
		Dates:      dates,
	})
}
