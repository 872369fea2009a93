package cancel_booking

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	CancelOneOff(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
