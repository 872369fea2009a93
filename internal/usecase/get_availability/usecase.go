package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	resourceClient "github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/internal/recurrence"
	"github.com/quadralivre/facility-booking-service/internal/scheduling"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// UseCase use case расчета доступности слотов ресурса на день.
// Чтение без транзакции: картина дня носит информационный характер,
// гонку закрывает create_booking своей сериализуемой проверкой.
type UseCase struct {
	bookingRepo   BookingRepository
	recurringRepo RecurringRepository
	blockRepo     BlockRepository
	resources     ResourceClient
	params        Params
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	recurringRepo RecurringRepository,
	blockRepo BlockRepository,
	resources ResourceClient,
	params Params,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		recurringRepo: recurringRepo,
		blockRepo:     blockRepo,
		resources:     resources,
		params:        params,
		logger:        logger,
	}
}

// Execute вычисляет доступность слотов ресурса на дату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: resource=%d, date=%s, time=%s, shift=%s",
		req.ResourceID, req.Date.Format(domain.DateFormat), req.StartTime, req.Shift)

	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	raw, err := uc.resources.GetResource(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceClient.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailability: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	resource := raw.ToDomain()

	date := calendar.Canonical(req.Date)

	// Собираем все источники конфликтов дня одним заходом
	blocks, err := uc.blockRepo.ListByResourceDate(ctx, req.ResourceID, date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to list blocks: %v", ErrInternal, err)
	}

	oneOffs, err := uc.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		ResourceID: &req.ResourceID,
		StartDate:  &date,
		EndDate:    &date,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	recurrings, err := uc.recurringRepo.ListActiveByResource(ctx, req.ResourceID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list recurring bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list recurring bookings: %v", ErrInternal, err)
	}

	exceptionsByBooking := make(map[int64]recurrence.ExceptionDates)
	if len(recurrings) > 0 {
		ids := make([]int64, 0, len(recurrings))
		for _, rb := range recurrings {
			ids = append(ids, rb.ID)
		}
		grouped, err := uc.recurringRepo.ListExceptionsForBookings(ctx, ids)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to list exceptions: %v", err)
			return nil, fmt.Errorf("%w: failed to list exceptions: %v", ErrInternal, err)
		}
		for id, exceptions := range grouped {
			exceptionsByBooking[id] = recurrence.NewExceptionDates(exceptions)
		}
	}

	slotTimes, err := uc.slotTimes(resource, req)
	if err != nil {
		return nil, err
	}

	slots := make([]SlotStatus, 0, len(slotTimes))
	for _, slotTime := range slotTimes {
		availability := scheduling.ResolveSlot(date, slotTime, blocks, oneOffs, recurrings, exceptionsByBooking)

		status := SlotStatus{
			StartTime: slotTime,
			Available: availability.Available,
		}
		if !availability.Available {
			status.ConflictKind = string(availability.Kind)
		}
		if resource.UsesShifts() {
			if shift, ok := domain.ShiftForSlotTime(slotTime); ok {
				status.Shift = shift
			}
		}
		slots = append(slots, status)
	}

	uc.logger.Info("GetAvailability: resolved %d slots for resource=%d on %s",
		len(slots), req.ResourceID, date.Format(domain.DateFormat))

	return &Response{
		ResourceID: req.ResourceID,
		Date:       date,
		Category:   resource.Category,
		Slots:      slots,
	}, nil
}

// slotTimes возвращает проверяемые времена: один слот при точечном
// запросе, иначе полную сетку дня
func (uc *UseCase) slotTimes(resource *domain.Resource, req *Request) ([]types.TimeString, error) {
	if resource.UsesShifts() {
		if req.Shift != "" {
			slotTime, err := req.Shift.SlotTime()
			if err != nil {
				return nil, fmt.Errorf("%w: unknown shift %q", ErrInvalidInput, req.Shift)
			}
			return []types.TimeString{slotTime}, nil
		}
		return []types.TimeString{domain.DayShiftStart, domain.NightShiftStart}, nil
	}

	if !req.StartTime.IsZero() {
		if err := req.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
		return []types.TimeString{req.StartTime}, nil
	}

	return uc.courtGrid()
}

// courtGrid строит сетку слотов корта от открытия до закрытия
func (uc *UseCase) courtGrid() ([]types.TimeString, error) {
	openMinutes, err := uc.params.OpenTime.MinutesSinceMidnight()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	closeMinutes, err := uc.params.CloseTime.MinutesSinceMidnight()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	grid := make([]types.TimeString, 0)
	current := uc.params.OpenTime
	for minutes := openMinutes; minutes+uc.params.SlotDurationMinutes <= closeMinutes; minutes += uc.params.SlotDurationMinutes {
		grid = append(grid, current)
		next, err := current.AddMinutes(uc.params.SlotDurationMinutes)
		if err != nil {
			break
		}
		current = next
	}
	return grid, nil
}
