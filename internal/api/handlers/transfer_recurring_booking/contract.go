package transfer_recurring_booking

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

// BookingService передает еженедельные серии другому владельцу
type BookingService interface {
	TransferRecurring(ctx context.Context, recurringID int64, req *models.TransferBookingRequest) (*models.RecurringBookingResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
