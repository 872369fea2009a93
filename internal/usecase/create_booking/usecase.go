package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	bookingRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/booking"
	recurringRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/recurring"
	accessClient "github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	resourceClient "github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/internal/recurrence"
	"github.com/quadralivre/facility-booking-service/internal/scheduling"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// UseCase use case создания одноразового бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	recurringRepo RecurringRepository
	blockRepo     BlockRepository
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
	blockRepo BlockRepository,
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
		blockRepo:     blockRepo,
		resources:     resources,
		access:        access,
		windows:       windows,
		txManager:     txManager,
		cal:           cal,
		params:        params,
		logger:        logger,
	}
}

// Execute выполняет создание одноразового бронирования.
// Проверка конфликтов и вставка выполняются в одной сериализуемой
// транзакции; частичный уникальный индекс в БД закрывает гонку между
// конкурентными запросами на один слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: requester=%d, owner=%d, resource=%d, date=%s, time=%s, shift=%s",
		req.RequesterID, req.OwnerID, req.ResourceID, req.Date.Format(domain.DateFormat), req.StartTime, req.Shift)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

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
		uc.logger.Warn("CreateBooking: cannot resolve slot time for resource=%d: %v", req.ResourceID, err)
		return nil, err
	}

	// 5. Для кортов проверяем рабочие часы и сетку слотов
	if !resource.UsesShifts() {
		if err := validateCourtSlot(slotTime, uc.params); err != nil {
			uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
			return nil, err
		}
	}

	date := calendar.Canonical(req.Date)

	// 6. Прошедшие слоты бронировать нельзя
	if uc.cal.PastSlot(date, slotTime) {
		uc.logger.Warn("CreateBooking: slot %s %s already started", date.Format(domain.DateFormat), slotTime)
		return nil, ErrInvalidDate
	}

	// 7. Занятие с инструктором проверяем против окон преподавания
	if req.InstructorID != nil {
		if err := uc.checkTeachingWindow(ctx, resource, req, slotTime, date); err != nil {
			return nil, err
		}
	}

	var result *domain.OneOffBooking

	// 8. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Блокировки на эту дату
		blocks, err := uc.blockRepo.ListByResourceDate(txCtx, req.ResourceID, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list blocks: %v", err)
			return fmt.Errorf("%w: failed to list blocks: %v", ErrInternal, err)
		}

		// 8.2. Одноразовое бронирование, держащее слот (FOR UPDATE)
		var oneOffs []*domain.OneOffBooking
		existing, err := uc.bookingRepo.GetHoldingSlot(txCtx, req.ResourceID, date, slotTime)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("CreateBooking: failed to check slot: %v", err)
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if existing != nil {
			oneOffs = append(oneOffs, existing)
		}

		// 8.3. Еженедельная серия на этот слот вместе с исключениями
		var recurrings []*domain.RecurringBooking
		exceptionsByBooking := make(map[int64]recurrence.ExceptionDates)

		rb, err := uc.recurringRepo.GetActiveBySlot(txCtx, req.ResourceID, calendar.WeekdayIndex(date), slotTime)
		if err != nil && !errors.Is(err, recurringRepo.ErrRecurringNotFound) {
			uc.logger.Error("CreateBooking: failed to check recurring slot: %v", err)
			return fmt.Errorf("%w: failed to check recurring slot: %v", ErrInternal, err)
		}
		if rb != nil {
			exceptions, err := uc.recurringRepo.ListExceptions(txCtx, rb.ID)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to list exceptions for recurring id=%d: %v", rb.ID, err)
				return fmt.Errorf("%w: failed to list exceptions: %v", ErrInternal, err)
			}
			recurrings = append(recurrings, rb)
			exceptionsByBooking[rb.ID] = recurrence.NewExceptionDates(exceptions)
		}

		// 8.4. Сводим все источники конфликтов
		availability := scheduling.ResolveSlot(date, slotTime, blocks, oneOffs, recurrings, exceptionsByBooking)
		if !availability.Available {
			uc.logger.Warn("CreateBooking: slot %s %s on resource=%d not available, kind=%s",
				date.Format(domain.DateFormat), slotTime, req.ResourceID, availability.Kind)
			switch availability.Kind {
			case scheduling.ConflictBlocked:
				return ErrSlotBlocked
			case scheduling.ConflictOneOff:
				return ErrSlotTaken
			case scheduling.ConflictRecurring:
				return ErrSlotTakenByRecurring
			}
		}

		// 8.5. Создаем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.OneOffBooking{
			ResourceID:   req.ResourceID,
			Date:         date,
			StartTime:    slotTime,
			OwnerID:      req.OwnerID,
			Status:       domain.StatusConfirmed,
			InstructorID: req.InstructorID,
			SessionKind:  req.SessionKind,
			Notes:        req.Notes,
		})
		if err != nil {
			// Конкурентная вставка на тот же слот упирается в уникальный индекс
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot taken by concurrent insert, resource=%d", req.ResourceID)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	resp := &Response{
		ID:           result.ID,
		ResourceID:   result.ResourceID,
		Date:         result.Date,
		StartTime:    result.StartTime,
		OwnerID:      result.OwnerID,
		Status:       string(result.Status),
		InstructorID: result.InstructorID,
		SessionKind:  result.SessionKind,
		Notes:        result.Notes,
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

// getActiveResource получает ресурс из каталога и проверяет, что он активен
func (uc *UseCase) getActiveResource(ctx context.Context, resourceID int64) (*domain.Resource, error) {
	raw, err := uc.resources.GetResource(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceClient.ErrResourceNotFound) {
			uc.logger.Warn("CreateBooking: resource id=%d not found", resourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !raw.Active {
		uc.logger.Warn("CreateBooking: resource id=%d is inactive", resourceID)
		return nil, ErrResourceInactive
	}
	return raw.ToDomain(), nil
}

// checkBookForAccess проверяет право бронировать от имени другого клиента
func (uc *UseCase) checkBookForAccess(ctx context.Context, requesterID int64) error {
	caps, err := uc.access.GetCapabilities(ctx, requesterID)
	if err != nil {
		if errors.Is(err, accessClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: requester=%d not found in access service", requesterID)
			return ErrAccessDenied
		}
		uc.logger.Error("CreateBooking: failed to get capabilities for user=%d: %v", requesterID, err)
		return fmt.Errorf("%w: failed to get capabilities: %v", ErrInternal, err)
	}
	if !caps.CanBookFor() {
		uc.logger.Warn("CreateBooking: requester=%d cannot book on behalf of other users", requesterID)
		return ErrAccessDenied
	}
	return nil
}

// checkTeachingWindow проверяет попадание занятия в окно преподавания.
// Ресурс без привязки к виду спорта окнами не ограничивается.
func (uc *UseCase) checkTeachingWindow(
	ctx context.Context,
	resource *domain.Resource,
	req *Request,
	slotTime types.TimeString,
	date time.Time,
) error {
	sportID := resource.PrimarySport()
	if sportID == nil {
		return nil
	}

	ok, err := uc.windows.IsWithinWindow(ctx, *sportID, *req.SessionKind,
		calendar.WeekdayIndex(date), slotTime, uc.params.SlotDurationMinutes)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check teaching window for sport=%d: %v", *sportID, err)
		return fmt.Errorf("%w: failed to check teaching window: %v", ErrInternal, err)
	}
	if !ok {
		uc.logger.Warn("CreateBooking: slot %s is outside teaching window for sport=%d kind=%s",
			slotTime, *sportID, *req.SessionKind)
		return ErrOutsideTeachingWindow
	}
	return nil
}
