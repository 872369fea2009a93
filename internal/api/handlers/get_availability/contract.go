package get_availability

import (
	"context"

	availability "github.com/quadralivre/facility-booking-service/internal/usecase/get_availability"
)

// AvailabilityUseCase рассчитывает доступность ресурса на день
type AvailabilityUseCase interface {
	Execute(ctx context.Context, req *availability.Request) (*availability.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
