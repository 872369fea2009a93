package get_resource_bookings

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

// BookingService возвращает бронирования ресурса за период
type BookingService interface {
	GetResourceBookings(ctx context.Context, req *models.GetResourceBookingsRequest) (*models.BookingListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
