package transfer_booking

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

// BookingService передает одноразовые бронирования другому владельцу
type BookingService interface {
	TransferOneOff(ctx context.Context, bookingID int64, req *models.TransferBookingRequest) (*models.TransferResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
