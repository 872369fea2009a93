package create_recurring_booking

import (
	"context"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	"github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// BookingRepository интерфейс репозитория одноразовых бронирований
type BookingRepository interface {
	ListHoldingByWeekdaySlot(ctx context.Context, resourceID int64, weekday time.Weekday, startTime types.TimeString, fromDate, untilDate time.Time) ([]*domain.OneOffBooking, error)
}

// RecurringRepository интерфейс репозитория еженедельных бронирований
type RecurringRepository interface {
	Create(ctx context.Context, rb *domain.RecurringBooking) (*domain.RecurringBooking, error)
	GetActiveBySlot(ctx context.Context, resourceID int64, weekday time.Weekday, startTime types.TimeString) (*domain.RecurringBooking, error)
}

// ResourceClient интерфейс клиента каталога ресурсов
type ResourceClient interface {
	GetResource(ctx context.Context, resourceID int64) (*resourceservice.Resource, error)
}

// AccessClient интерфейс клиента сервиса доступа
type AccessClient interface {
	GetCapabilities(ctx context.Context, userID int64) (*accessservice.Capabilities, error)
}

// WindowChecker проверка окон преподавания для занятий с инструктором
type WindowChecker interface {
	IsWithinWindow(ctx context.Context, sportID int64, kind domain.SessionKind, weekday time.Weekday, start types.TimeString, durationMinutes int) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Calendar интерфейс календаря комплекса
type Calendar interface {
	Today() time.Time
	IsPastDay(date time.Time) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
