package get_user_bookings

import (
	"context"

	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

// BookingService возвращает историю бронирований владельца
type BookingService interface {
	GetOwnerBookings(ctx context.Context, req *models.GetOwnerBookingsRequest) (*models.OwnerBookingsResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
