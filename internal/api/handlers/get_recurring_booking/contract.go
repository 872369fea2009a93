package get_recurring_booking

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetRecurring(ctx context.Context, id int64, requesterID int64) (*models.RecurringBookingResponse, *models.ExceptionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
