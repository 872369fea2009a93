package manage_windows

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/schedule/models"
)

// ScheduleService управляет окнами преподавания
type ScheduleService interface {
	UpsertWindow(ctx context.Context, req *models.UpsertWindowRequest) (*models.WindowResponse, error)
	ListWindows(ctx context.Context, sportID int64) (*models.WindowListResponse, error)
	DeactivateWindow(ctx context.Context, windowID int64, requesterID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
