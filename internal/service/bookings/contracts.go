package bookings

import (
	"context"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// BookingRepository интерфейс репозитория одноразовых бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.OneOffBooking) (*domain.OneOffBooking, error)
	GetByID(ctx context.Context, id int64) (*domain.OneOffBooking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.OneOffBooking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// RecurringRepository интерфейс репозитория еженедельных бронирований
type RecurringRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RecurringBooking, error)
	ListByOwner(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.RecurringBooking, error)
	ListActiveByResource(ctx context.Context, resourceID int64) ([]*domain.RecurringBooking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateOwner(ctx context.Context, id int64, newOwnerID int64) error
	CreateException(ctx context.Context, exc *domain.RecurringException) (*domain.RecurringException, error)
	ListExceptions(ctx context.Context, recurringBookingID int64) ([]*domain.RecurringException, error)
}

// AccessClient интерфейс клиента сервиса доступа
type AccessClient interface {
	GetCapabilities(ctx context.Context, userID int64) (*accessservice.Capabilities, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Calendar интерфейс календаря комплекса
type Calendar interface {
	Today() time.Time
	IsPastDay(date time.Time) bool
	PastSlot(date time.Time, startTime types.TimeString) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
