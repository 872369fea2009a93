package manage_blocks

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/schedule/models"
)

// ScheduleService управляет административными блокировками
type ScheduleService interface {
	CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error)
	ListBlocks(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error)
	DeleteBlock(ctx context.Context, blockID int64, requesterID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
