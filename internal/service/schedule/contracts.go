package schedule

import (
	"context"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	"github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
)

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	Create(ctx context.Context, block *domain.Block) (*domain.Block, error)
	GetByID(ctx context.Context, id int64) (*domain.Block, error)
	ListByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*domain.Block, error)
	Delete(ctx context.Context, id int64) error
}

// WindowRepository интерфейс репозитория окон преподавания
type WindowRepository interface {
	Upsert(ctx context.Context, window *domain.TeachingWindow) (*domain.TeachingWindow, error)
	ListForSportKind(ctx context.Context, sportID int64, kind domain.SessionKind) ([]*domain.TeachingWindow, error)
	ListBySport(ctx context.Context, sportID int64) ([]*domain.TeachingWindow, error)
	Deactivate(ctx context.Context, id int64) error
}

// ResourceClient интерфейс клиента каталога ресурсов
type ResourceClient interface {
	GetResource(ctx context.Context, resourceID int64) (*resourceservice.Resource, error)
}

// AccessClient интерфейс клиента сервиса доступа
type AccessClient interface {
	GetCapabilities(ctx context.Context, userID int64) (*accessservice.Capabilities, error)
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
