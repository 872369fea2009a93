package manage_blocks

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
	msgInvalidBlockID     = "некорректный ID блокировки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingDates       = "параметры startDate и endDate обязательны"
	msgForbidden          = "доступ запрещен"
	msgBlockNotFound      = "блокировка не найдена"
	msgResourceNotFound   = "один из ресурсов не найден"
	msgInvalidTimeRange   = "время начала должно быть раньше времени окончания"
	msgPastDate           = "нельзя создать блокировку на прошедшую дату"
	msgInvalidInput       = "некорректные данные запроса"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	ResourceIDs []int64 `json:"resourceIds"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Reason      *string `json:"reason,omitempty"`
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

// HandleCreate POST /api/v1/blocks
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.CreateBlock(r.Context(), &models.CreateBlockRequest{
		RequesterID: requesterID,
		ResourceIDs: req.ResourceIDs,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reason:      req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /blocks - Access denied: requester_id=%d", requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrResourceNotFound):
			h.logger.Warn("POST /blocks - Resource not found: resources=%v", req.ResourceIDs)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, schedule.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, schedule.ErrPastDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /blocks - Failed to create block: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blocks - Created successfully: block_id=%d, admin_id=%d, resources=%v",
		resp.ID, requesterID, req.ResourceIDs)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// HandleList GET /api/v1/blocks
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	query := r.URL.Query()
	startDate := query.Get("startDate")
	endDate := query.Get("endDate")
	if startDate == "" || endDate == "" {
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	resp, err := h.service.ListBlocks(r.Context(), &models.ListBlocksRequest{
		RequesterID: requesterID,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("GET /blocks - Access denied: requester_id=%d", requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /blocks - Failed to list blocks: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleDelete DELETE /api/v1/blocks/{blockId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "отсутствует аутентификация")
		return
	}

	vars := mux.Vars(r)
	blockID, err := strconv.ParseInt(vars["blockId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	err = h.service.DeleteBlock(r.Context(), blockID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /blocks/{id} - Access denied: block_id=%d, requester_id=%d",
				blockID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrBlockNotFound):
			h.logger.Warn("DELETE /blocks/{id} - Not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgBlockNotFound)

		default:
			h.logger.Error("DELETE /blocks/{id} - Failed to delete block: block_id=%d, error=%v",
				blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blocks/{id} - Deleted successfully: block_id=%d, admin_id=%d",
		blockID, requesterID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
