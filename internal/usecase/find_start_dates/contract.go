package find_start_dates

import (
	"context"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// BookingRepository интерфейс репозитория одноразовых бронирований
type BookingRepository interface {
	ListHoldingByWeekdaySlot(ctx context.Context, resourceID int64, weekday time.Weekday, startTime types.TimeString, fromDate, untilDate time.Time) ([]*domain.OneOffBooking, error)
}

// RecurringRepository интерфейс репозитория еженедельных бронирований
type RecurringRepository interface {
	GetActiveBySlot(ctx context.Context, resourceID int64, weekday time.Weekday, startTime types.TimeString) (*domain.RecurringBooking, error)
}

// ResourceClient интерфейс клиента каталога ресурсов
type ResourceClient interface {
	GetResource(ctx context.Context, resourceID int64) (*resourceservice.Resource, error)
}

// Calendar интерфейс календаря комплекса
type Calendar interface {
	Today() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
