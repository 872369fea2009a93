package create_recurring_booking

import (
	"context"

	createRecurring "github.com/quadralivre/facility-booking-service/internal/usecase/create_recurring_booking"
)

type CreateRecurringUseCase interface {
	Execute(ctx context.Context, req *createRecurring.Request) (*createRecurring.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
