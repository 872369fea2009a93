package find_start_dates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	recurringRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/recurring"
	resourceClient "github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/internal/scheduling"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Params ограничения поиска свободных дат
type Params struct {
	SuggestionMaxWeeks   int
	SuggestionMaxResults int
	ConflictHorizonWeeks int
}

// Request модель запроса поиска свободных дат еженедельного слота
type Request struct {
	ResourceID int64
	Weekday    int // 0 = воскресенье
	StartTime  types.TimeString
	Shift      domain.Shift

	// FromDate нижняя граница поиска; пустое значение - с сегодняшнего дня
	FromDate *time.Time

	// MaxResults ограничивает выдачу; ноль - значение из конфигурации
	MaxResults int
}

// Response модель ответа со свободными датами в порядке возрастания
type Response struct {
	ResourceID int64
	Weekday    int
	StartTime  types.TimeString
	Dates      []time.Time
}

// UseCase use case поиска ближайших дат, когда еженедельный слот свободен
// от одноразовых бронирований. Пустой список дат - штатный ответ.
type UseCase struct {
	bookingRepo   BookingRepository
	recurringRepo RecurringRepository
	resources     ResourceClient
	cal           Calendar
	params        Params
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	recurringRepo RecurringRepository,
	resources ResourceClient,
	cal Calendar,
	params Params,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		recurringRepo: recurringRepo,
		resources:     resources,
		cal:           cal,
		params:        params,
		logger:        logger,
	}
}

// Execute выполняет поиск свободных дат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindStartDates: resource=%d, weekday=%d, time=%s, shift=%s",
		req.ResourceID, req.Weekday, req.StartTime, req.Shift)

	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, fmt.Errorf("%w: weekday must be 0..6", ErrInvalidInput)
	}

	raw, err := uc.resources.GetResource(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceClient.ErrResourceNotFound) {
			uc.logger.Warn("FindStartDates: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("FindStartDates: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	resource := raw.ToDomain()

	slotTime, err := uc.resolveSlotTime(resource, req)
	if err != nil {
		return nil, err
	}

	weekday := time.Weekday(req.Weekday)

	// Слот, занятый активной серией, свободных дат не имеет
	existing, err := uc.recurringRepo.GetActiveBySlot(ctx, req.ResourceID, weekday, slotTime)
	if err != nil && !errors.Is(err, recurringRepo.ErrRecurringNotFound) {
		uc.logger.Error("FindStartDates: failed to check recurring slot: %v", err)
		return nil, fmt.Errorf("%w: failed to check recurring slot: %v", ErrInternal, err)
	}
	if existing != nil {
		uc.logger.Warn("FindStartDates: weekly slot taken by recurring id=%d", existing.ID)
		return nil, ErrSlotTakenByRecurring
	}

	fromDate := uc.cal.Today()
	if req.FromDate != nil {
		candidate := calendar.Canonical(*req.FromDate)
		if candidate.After(fromDate) {
			fromDate = candidate
		}
	}

	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > uc.params.SuggestionMaxResults {
		maxResults = uc.params.SuggestionMaxResults
	}

	// Загружаем занятые даты горизонта одним запросом и проверяем
	// кандидатов по множеству в памяти
	horizonEnd := fromDate.AddDate(0, 0, 7*uc.params.SuggestionMaxWeeks)
	conflicts, err := uc.bookingRepo.ListHoldingByWeekdaySlot(
		ctx, req.ResourceID, weekday, slotTime, fromDate, horizonEnd)
	if err != nil {
		uc.logger.Error("FindStartDates: failed to list one-off conflicts: %v", err)
		return nil, fmt.Errorf("%w: failed to list one-off conflicts: %v", ErrInternal, err)
	}

	taken := make(map[string]struct{}, len(conflicts))
	for _, b := range conflicts {
		taken[calendar.Canonical(b.Date).Format(domain.DateFormat)] = struct{}{}
	}

	dates, err := scheduling.NextFreeStartDates(
		fromDate,
		weekday,
		uc.params.SuggestionMaxWeeks,
		maxResults,
		func(date time.Time) (bool, error) {
			_, conflicted := taken[date.Format(domain.DateFormat)]
			return conflicted, nil
		},
	)
	if err != nil {
		uc.logger.Error("FindStartDates: finder failed: %v", err)
		return nil, fmt.Errorf("%w: finder failed: %v", ErrInternal, err)
	}

	uc.logger.Info("FindStartDates: found %d free dates for resource=%d", len(dates), req.ResourceID)

	return &Response{
		ResourceID: req.ResourceID,
		Weekday:    req.Weekday,
		StartTime:  slotTime,
		Dates:      dates,
	}, nil
}

func (uc *UseCase) resolveSlotTime(resource *domain.Resource, req *Request) (types.TimeString, error) {
	if resource.UsesShifts() {
		if req.Shift == "" {
			return "", ErrShiftRequired
		}
		slotTime, err := req.Shift.SlotTime()
		if err != nil {
			return "", fmt.Errorf("%w: unknown shift %q", ErrInvalidInput, req.Shift)
		}
		return slotTime, nil
	}

	if req.StartTime.IsZero() {
		return "", ErrStartTimeRequired
	}
	if err := req.StartTime.Validate(); err != nil {
		return "", fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	return req.StartTime, nil
}
