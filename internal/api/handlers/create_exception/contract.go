package create_exception

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

// BookingService создает исключения для еженедельных серий
type BookingService interface {
	CreateException(ctx context.Context, recurringID int64, req *models.CreateExceptionRequest) (*models.ExceptionResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
