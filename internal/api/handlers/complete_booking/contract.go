package complete_booking

import (
	"context"
)

// BookingService завершает разовые бронирования
type BookingService interface {
	CompleteOneOff(ctx context.Context, bookingID int64, requesterID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
