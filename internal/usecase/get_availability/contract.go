package get_availability

import (
	"context"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
)

// BookingRepository интерфейс репозитория одноразовых бронирований
type BookingRepository interface {
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.OneOffBooking, error)
}

// RecurringRepository интерфейс репозитория еженедельных бронирований
type RecurringRepository interface {
	ListActiveByResource(ctx context.Context, resourceID int64) ([]*domain.RecurringBooking, error)
	ListExceptionsForBookings(ctx context.Context, recurringBookingIDs []int64) (map[int64][]*domain.RecurringException, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	ListByResourceDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Block, error)
}

// ResourceClient интерфейс клиента каталога ресурсов
type ResourceClient interface {
	GetResource(ctx context.Context, resourceID int64) (*resourceservice.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
