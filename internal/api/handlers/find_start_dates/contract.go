package find_start_dates

import (
	"context"

	finder "github.com/quadralivre/facility-booking-service/internal/usecase/find_start_dates"
)

// FinderUseCase ищет свободные даты начала еженедельного слота
type FinderUseCase interface {
	Execute(ctx context.Context, req *finder.Request) (*finder.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
