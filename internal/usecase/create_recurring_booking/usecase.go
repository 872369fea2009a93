package create_recurring_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	recurringRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/recurring"
	accessClient "github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	resourceClient "github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/internal/scheduling"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// UseCase use case создания еженедельного бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	recurringRepo RecurringRepository
	resources     ResourceClient
	access        AccessClient
	windows       WindowChecker
	txManager     TransactionManager
	cal           Calendar
	params        Params
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	recurringRepo RecurringRepository,
	resources ResourceClient,
	access AccessClient,
	windows WindowChecker,
	txManager TransactionManager,
	cal Calendar,
	params Params,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		recurringRepo: recurringRepo,
		resources:     resources,
		access:        access,
		windows:       windows,
		txManager:     txManager,
		cal:           cal,
		params:        params,
		logger:        logger,
	}
}

// Execute выполняет создание еженедельной серии. Помимо конкуренции за
// слот серии выполняется расширенная проверка: будущие одноразовые
// бронирования на том же (день недели, время) в пределах горизонта не
// накрываются молча, вместо этого предлагаются даты начала после
// последнего конфликта.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRecurring: requester=%d, owner=%d, resource=%d, weekday=%d, time=%s, shift=%s",
		req.RequesterID, req.OwnerID, req.ResourceID, req.Weekday, req.StartTime, req.Shift)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateRecurring: validation failed: %v", err)
		return nil, err
	}

	weekday := time.Weekday(req.Weekday)

	// 2. Бронирование от чужого имени требует административной роли
	if req.OwnerID != req.RequesterID {
		if err := uc.checkBookForAccess(ctx, req.RequesterID); err != nil {
			return nil, err
		}
	}

	// 3. Получаем ресурс из каталога
	resource, err := uc.getActiveResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	// 4. Определяем время слота по категории ресурса
	slotTime, err := resolveSlotTime(resource, req)
	if err != nil {
		uc.logger.Warn("CreateRecurring: cannot resolve slot time for resource=%d: %v", req.ResourceID, err)
		return nil, err
	}

	// 5. Для кортов проверяем рабочие часы и сетку слотов
	if !resource.UsesShifts() {
		if err := validateCourtSlot(slotTime, uc.params); err != nil {
			uc.logger.Warn("CreateRecurring: slot validation failed: %v", err)
			return nil, err
		}
	}

	// 6. Дата начала, если задана, должна быть будущим вхождением серии
	var startDate *time.Time
	if req.StartDate != nil {
		canonical := calendar.Canonical(*req.StartDate)
		if uc.cal.IsPastDay(canonical) {
			uc.logger.Warn("CreateRecurring: start date %s is in the past", canonical.Format(domain.DateFormat))
			return nil, ErrInvalidStartDate
		}
		if calendar.WeekdayIndex(canonical) != weekday {
			uc.logger.Warn("CreateRecurring: start date %s does not fall on weekday=%d",
				canonical.Format(domain.DateFormat), req.Weekday)
			return nil, ErrInvalidStartDate
		}
		startDate = &canonical
	}

	// 7. Занятие с инструктором проверяем против окон преподавания
	if req.InstructorID != nil {
		if err := uc.checkTeachingWindow(ctx, resource, req, slotTime, weekday); err != nil {
			return nil, err
		}
	}

	var result *domain.RecurringBooking

	// 8. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Активная серия на этом слоте (FOR UPDATE)
		existing, err := uc.recurringRepo.GetActiveBySlot(txCtx, req.ResourceID, weekday, slotTime)
		if err != nil && !errors.Is(err, recurringRepo.ErrRecurringNotFound) {
			uc.logger.Error("CreateRecurring: failed to check recurring slot: %v", err)
			return fmt.Errorf("%w: failed to check recurring slot: %v", ErrInternal, err)
		}
		if existing != nil {
			uc.logger.Warn("CreateRecurring: weekly slot taken by recurring id=%d", existing.ID)
			return ErrSlotTaken
		}

		// 8.2. Расширенная проверка будущих одноразовых бронирований
		effectiveStart := uc.cal.Today()
		if startDate != nil {
			effectiveStart = *startDate
		}
		horizonEnd := effectiveStart.AddDate(0, 0, 7*uc.params.ConflictHorizonWeeks)

		conflicts, err := uc.bookingRepo.ListHoldingByWeekdaySlot(
			txCtx, req.ResourceID, weekday, slotTime, effectiveStart, horizonEnd)
		if err != nil {
			uc.logger.Error("CreateRecurring: failed to list one-off conflicts: %v", err)
			return fmt.Errorf("%w: failed to list one-off conflicts: %v", ErrInternal, err)
		}

		if len(conflicts) > 0 {
			return uc.buildStartDateConflict(conflicts, weekday)
		}

		// 8.3. Создаем серию
		created, err := uc.recurringRepo.Create(txCtx, &domain.RecurringBooking{
			ResourceID:   req.ResourceID,
			Weekday:      weekday,
			StartTime:    slotTime,
			OwnerID:      req.OwnerID,
			Status:       domain.StatusConfirmed,
			StartDate:    startDate,
			InstructorID: req.InstructorID,
			SessionKind:  req.SessionKind,
		})
		if err != nil {
			if errors.Is(err, recurringRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateRecurring: slot taken by concurrent insert, resource=%d", req.ResourceID)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateRecurring: failed to create recurring booking: %v", err)
			return fmt.Errorf("%w: failed to create recurring booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateRecurring: successfully created recurring booking id=%d", result.ID)

	resp := &Response{
		ID:           result.ID,
		ResourceID:   result.ResourceID,
		Weekday:      int(result.Weekday),
		StartTime:    result.StartTime,
		OwnerID:      result.OwnerID,
		Status:       string(result.Status),
		StartDate:    result.StartDate,
		InstructorID: result.InstructorID,
		SessionKind:  result.SessionKind,
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
	}
	if resource.UsesShifts() {
		if shift, ok := domain.ShiftForSlotTime(result.StartTime); ok {
			resp.Shift = shift
		}
	}
	return resp, nil
}

// buildStartDateConflict собирает детализированную ошибку: занятые даты
// и даты начала, с которых серия не накроет ни одного одноразового
// бронирования. Кандидат считается конфликтным, пока впереди остается
// хоть одна занятая дата.
func (uc *UseCase) buildStartDateConflict(conflicts []*domain.OneOffBooking, weekday time.Weekday) error {
	conflictDates := make([]time.Time, 0, len(conflicts))
	for _, b := range conflicts {
		conflictDates = append(conflictDates, calendar.Canonical(b.Date))
	}

	lastConflict := conflictDates[len(conflictDates)-1]

	suggestions, err := scheduling.NextFreeStartDates(
		uc.cal.Today(),
		weekday,
		uc.params.SuggestionMaxWeeks,
		uc.params.SuggestionMaxResults,
		func(date time.Time) (bool, error) {
			return !date.After(lastConflict), nil
		},
	)
	if err != nil {
		uc.logger.Error("CreateRecurring: failed to compute suggestions: %v", err)
		return fmt.Errorf("%w: failed to compute suggestions: %v", ErrInternal, err)
	}

	uc.logger.Warn("CreateRecurring: %d upcoming one-off bookings on slot, %d suggestions",
		len(conflictDates), len(suggestions))

	return &StartDateConflictError{
		ConflictDates:  conflictDates,
		SuggestedDates: suggestions,
	}
}

// getActiveResource получает ресурс из каталога и проверяет, что он активен
func (uc *UseCase) getActiveResource(ctx context.Context, resourceID int64) (*domain.Resource, error) {
	raw, err := uc.resources.GetResource(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceClient.ErrResourceNotFound) {
			uc.logger.Warn("CreateRecurring: resource id=%d not found", resourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateRecurring: failed to get resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !raw.Active {
		uc.logger.Warn("CreateRecurring: resource id=%d is inactive", resourceID)
		return nil, ErrResourceInactive
	}
	return raw.ToDomain(), nil
}

// checkBookForAccess проверяет право бронировать от имени другого клиента
func (uc *UseCase) checkBookForAccess(ctx context.Context, requesterID int64) error {
	caps, err := uc.access.GetCapabilities(ctx, requesterID)
	if err != nil {
		if errors.Is(err, accessClient.ErrUserNotFound) {
			uc.logger.Warn("CreateRecurring: requester=%d not found in access service", requesterID)
			return ErrAccessDenied
		}
		uc.logger.Error("CreateRecurring: failed to get capabilities for user=%d: %v", requesterID, err)
		return fmt.Errorf("%w: failed to get capabilities: %v", ErrInternal, err)
	}
	if !caps.CanBookFor() {
		uc.logger.Warn("CreateRecurring: requester=%d cannot book on behalf of other users", requesterID)
		return ErrAccessDenied
	}
	return nil
}

// checkTeachingWindow проверяет попадание занятия в окно преподавания
func (uc *UseCase) checkTeachingWindow(
	ctx context.Context,
	resource *domain.Resource,
	req *Request,
	slotTime types.TimeString,
	weekday time.Weekday,
) error {
	sportID := resource.PrimarySport()
	if sportID == nil {
		return nil
	}

	ok, err := uc.windows.IsWithinWindow(ctx, *sportID, *req.SessionKind,
		weekday, slotTime, uc.params.SlotDurationMinutes)
	if err != nil {
		uc.logger.Error("CreateRecurring: failed to check teaching window for sport=%d: %v", *sportID, err)
		return fmt.Errorf("%w: failed to check teaching window: %v", ErrInternal, err)
	}
	if !ok {
		uc.logger.Warn("CreateRecurring: slot %s is outside teaching window for sport=%d kind=%s",
			slotTime, *sportID, *req.SessionKind)
		return ErrOutsideTeachingWindow
	}
	return nil
}
