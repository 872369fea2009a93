package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	bookingRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/booking"
	recurringRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/recurring"
	accessClient "github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований: просмотр, отмена,
// передача, завершение и исключения серий. Создание бронирований живет
// в отдельных usecase из-за проверок конфликтов.
type Service struct {
	bookingRepo   BookingRepository
	recurringRepo RecurringRepository
	access        AccessClient
	txManager     TransactionManager
	cal           Calendar
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	recurringRepo RecurringRepository,
	access AccessClient,
	txManager TransactionManager,
	cal Calendar,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		recurringRepo: recurringRepo,
		access:        access,
		txManager:     txManager,
		cal:           cal,
		logger:        logger,
	}
}

// GetOneOff получает одноразовое бронирование по ID.
// Доступно владельцу или администратору.
func (s *Service) GetOneOff(ctx context.Context, id int64, requesterID int64) (*models.OneOffBookingResponse, error) {
	s.logger.Info("GetOneOff: fetching booking id=%d for user=%d", id, requesterID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetOneOff: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetOneOff: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetOneOff - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, booking.OwnerID, requesterID); err != nil {
		s.logger.Warn("GetOneOff: access denied for user=%d to booking id=%d", requesterID, id)
		return nil, err
	}

	return models.FromDomainOneOff(booking), nil
}

// GetRecurring получает еженедельное бронирование по ID вместе с его
// исключениями. Доступно владельцу или администратору.
func (s *Service) GetRecurring(ctx context.Context, id int64, requesterID int64) (*models.RecurringBookingResponse, *models.ExceptionListResponse, error) {
	s.logger.Info("GetRecurring: fetching recurring booking id=%d for user=%d", id, requesterID)

	rb, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, recurringRepo.ErrRecurringNotFound) {
			s.logger.Warn("GetRecurring: recurring booking id=%d not found", id)
			return nil, nil, ErrRecurringNotFound
		}
		s.logger.Error("GetRecurring: repository error for id=%d: %v", id, err)
		return nil, nil, fmt.Errorf("%w: GetRecurring - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, rb.OwnerID, requesterID); err != nil {
		s.logger.Warn("GetRecurring: access denied for user=%d to recurring id=%d", requesterID, id)
		return nil, nil, err
	}

	exceptions, err := s.recurringRepo.ListExceptions(ctx, id)
	if err != nil {
		s.logger.Error("GetRecurring: failed to list exceptions for id=%d: %v", id, err)
		return nil, nil, fmt.Errorf("%w: GetRecurring - failed to list exceptions: %v", ErrInternal, err)
	}

	return models.FromDomainRecurring(rb), models.FromDomainExceptionList(exceptions), nil
}

// GetOwnerBookings получает историю бронирований владельца: одноразовые
// и еженедельные. Владелец видит только свою историю, администратор любую.
func (s *Service) GetOwnerBookings(ctx context.Context, req *models.GetOwnerBookingsRequest) (*models.OwnerBookingsResponse, error) {
	s.logger.Info("GetOwnerBookings: fetching bookings for owner=%d, requester=%d", req.OwnerID, req.RequesterID)

	if err := s.checkOwnerAccess(ctx, req.OwnerID, req.RequesterID); err != nil {
		s.logger.Warn("GetOwnerBookings: access denied for user=%d to owner=%d history", req.RequesterID, req.OwnerID)
		return nil, err
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetOwnerBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	oneOffs, err := s.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		OwnerID:         &req.OwnerID,
		Status:          domainStatus,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("GetOwnerBookings: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetOwnerBookings - repository error: %v", ErrInternal, err)
	}

	recurrings, err := s.recurringRepo.ListByOwner(ctx, req.OwnerID, domainStatus)
	if err != nil {
		s.logger.Error("GetOwnerBookings: recurring repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetOwnerBookings - recurring repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetOwnerBookings: fetched %d one-off and %d recurring bookings for owner=%d",
		len(oneOffs), len(recurrings), req.OwnerID)

	return &models.OwnerBookingsResponse{
		OneOff:    models.FromDomainOneOffList(oneOffs),
		Recurring: models.FromDomainRecurringList(recurrings),
	}, nil
}

// GetResourceBookings получает бронирования ресурса с фильтрацией по
// периоду и статусу. Доступно только администраторам.
func (s *Service) GetResourceBookings(ctx context.Context, req *models.GetResourceBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetResourceBookings: fetching bookings for resource=%d, requester=%d", req.ResourceID, req.RequesterID)

	if err := s.checkAdminAccess(ctx, req.RequesterID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetResourceBookings: invalid filter for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetResourceBookings: repository error for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: GetResourceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetResourceBookings: fetched %d bookings for resource=%d", len(bookings), req.ResourceID)
	return &models.BookingListResponse{Bookings: models.FromDomainOneOffList(bookings)}, nil
}

// CancelOneOff отменяет одноразовое бронирование: слот освобождается.
// Терминальные бронирования отменить нельзя.
func (s *Service) CancelOneOff(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("CancelOneOff: cancelling booking id=%d by user=%d", bookingID, req.RequesterID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("CancelOneOff: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("CancelOneOff: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: CancelOneOff - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, booking.OwnerID, req.RequesterID); err != nil {
		s.logger.Warn("CancelOneOff: access denied for user=%d to booking id=%d", req.RequesterID, bookingID)
		return err
	}

	if booking.IsTerminal() {
		s.logger.Warn("CancelOneOff: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return ErrTerminalStatus
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		s.logger.Error("CancelOneOff: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: CancelOneOff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CancelOneOff: successfully cancelled booking id=%d", bookingID)
	return nil
}

// CancelRecurring отменяет еженедельную серию целиком: все будущие
// вхождения исчезают, слот серии освобождается.
func (s *Service) CancelRecurring(ctx context.Context, recurringID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("CancelRecurring: cancelling recurring id=%d by user=%d", recurringID, req.RequesterID)

	rb, err := s.recurringRepo.GetByID(ctx, recurringID)
	if err != nil {
		if errors.Is(err, recurringRepo.ErrRecurringNotFound) {
			s.logger.Warn("CancelRecurring: recurring id=%d not found", recurringID)
			return ErrRecurringNotFound
		}
		s.logger.Error("CancelRecurring: repository error for id=%d: %v", recurringID, err)
		return fmt.Errorf("%w: CancelRecurring - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, rb.OwnerID, req.RequesterID); err != nil {
		s.logger.Warn("CancelRecurring: access denied for user=%d to recurring id=%d", req.RequesterID, recurringID)
		return err
	}

	if rb.IsTerminal() {
		s.logger.Warn("CancelRecurring: recurring id=%d is terminal, status=%s", recurringID, rb.Status)
		return ErrTerminalStatus
	}

	if err := s.recurringRepo.UpdateStatus(ctx, recurringID, domain.StatusCancelled); err != nil {
		s.logger.Error("CancelRecurring: repository error for id=%d: %v", recurringID, err)
		return fmt.Errorf("%w: CancelRecurring - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CancelRecurring: successfully cancelled recurring id=%d", recurringID)
	return nil
}

// CompleteOneOff помечает бронирование завершенным. Доступно только
// администраторам. Завершенное бронирование остается держателем слота:
// оно описывает фактически использованное время.
func (s *Service) CompleteOneOff(ctx context.Context, bookingID int64, requesterID int64) error {
	s.logger.Info("CompleteOneOff: completing booking id=%d by user=%d", bookingID, requesterID)

	if err := s.checkAdminAccess(ctx, requesterID); err != nil {
		return err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("CompleteOneOff: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("CompleteOneOff: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: CompleteOneOff - repository error: %v", ErrInternal, err)
	}

	if booking.IsTerminal() {
		s.logger.Warn("CompleteOneOff: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return ErrTerminalStatus
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusCompleted); err != nil {
		s.logger.Error("CompleteOneOff: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: CompleteOneOff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CompleteOneOff: successfully completed booking id=%d", bookingID)
	return nil
}

// TransferOneOff передает одноразовое бронирование другому владельцу.
// Исходная запись помечается transferred и освобождает слот, на тот же
// слот создается новая подтвержденная запись нового владельца. Обе
// операции выполняются в одной сериализуемой транзакции.
func (s *Service) TransferOneOff(ctx context.Context, bookingID int64, req *models.TransferBookingRequest) (*models.TransferResponse, error) {
	s.logger.Info("TransferOneOff: transferring booking id=%d to owner=%d by user=%d",
		bookingID, req.NewOwnerID, req.RequesterID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("TransferOneOff: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("TransferOneOff: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: TransferOneOff - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, booking.OwnerID, req.RequesterID); err != nil {
		s.logger.Warn("TransferOneOff: access denied for user=%d to booking id=%d", req.RequesterID, bookingID)
		return nil, err
	}

	if booking.OwnerID == req.NewOwnerID {
		return nil, ErrSelfTransfer
	}

	if booking.IsTerminal() {
		s.logger.Warn("TransferOneOff: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return nil, ErrTerminalStatus
	}

	if s.cal.PastSlot(booking.Date, booking.StartTime) {
		s.logger.Warn("TransferOneOff: booking id=%d slot already started", bookingID)
		return nil, ErrPastDate
	}

	var newBooking *domain.OneOffBooking
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Перечитываем внутри транзакции, статус мог измениться
		current, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return err
		}
		if current.IsTerminal() {
			return ErrTerminalStatus
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, domain.StatusTransferred); err != nil {
			return err
		}

		created, err := s.bookingRepo.Create(txCtx, &domain.OneOffBooking{
			ResourceID:   current.ResourceID,
			Date:         calendar.Canonical(current.Date),
			StartTime:    current.StartTime,
			OwnerID:      req.NewOwnerID,
			Status:       domain.StatusConfirmed,
			InstructorID: current.InstructorID,
			SessionKind:  current.SessionKind,
			Notes:        current.Notes,
		})
		if err != nil {
			return err
		}
		newBooking = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTerminalStatus) {
			return nil, ErrTerminalStatus
		}
		s.logger.Error("TransferOneOff: transaction failed for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: TransferOneOff - transaction failed: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusTransferred

	s.logger.Info("TransferOneOff: booking id=%d transferred, new booking id=%d owner=%d",
		bookingID, newBooking.ID, req.NewOwnerID)

	return &models.TransferResponse{
		OldBooking: models.FromDomainOneOff(booking),
		NewBooking: models.FromDomainOneOff(newBooking),
	}, nil
}

// TransferRecurring передает еженедельную серию другому владельцу.
// Серия, слот и исключения сохраняются, меняется только владелец.
// Флаг CopyExceptions принимается для совместимости: исключения
// привязаны к серии и переезжают вместе с ней всегда.
func (s *Service) TransferRecurring(ctx context.Context, recurringID int64, req *models.TransferBookingRequest) (*models.RecurringBookingResponse, error) {
	s.logger.Info("TransferRecurring: transferring recurring id=%d to owner=%d by user=%d",
		recurringID, req.NewOwnerID, req.RequesterID)

	rb, err := s.recurringRepo.GetByID(ctx, recurringID)
	if err != nil {
		if errors.Is(err, recurringRepo.ErrRecurringNotFound) {
			s.logger.Warn("TransferRecurring: recurring id=%d not found", recurringID)
			return nil, ErrRecurringNotFound
		}
		s.logger.Error("TransferRecurring: repository error for id=%d: %v", recurringID, err)
		return nil, fmt.Errorf("%w: TransferRecurring - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, rb.OwnerID, req.RequesterID); err != nil {
		s.logger.Warn("TransferRecurring: access denied for user=%d to recurring id=%d", req.RequesterID, recurringID)
		return nil, err
	}

	if rb.OwnerID == req.NewOwnerID {
		return nil, ErrSelfTransfer
	}

	if rb.IsTerminal() {
		s.logger.Warn("TransferRecurring: recurring id=%d is terminal, status=%s", recurringID, rb.Status)
		return nil, ErrTerminalStatus
	}

	if err := s.recurringRepo.UpdateOwner(ctx, recurringID, req.NewOwnerID); err != nil {
		s.logger.Error("TransferRecurring: repository error for id=%d: %v", recurringID, err)
		return nil, fmt.Errorf("%w: TransferRecurring - repository error: %v", ErrInternal, err)
	}

	rb.OwnerID = req.NewOwnerID
	s.logger.Info("TransferRecurring: recurring id=%d transferred to owner=%d", recurringID, req.NewOwnerID)
	return models.FromDomainRecurring(rb), nil
}

// CreateException пропускает одно вхождение еженедельной серии. Слот
// на эту дату освобождается для одноразовых бронирований, серия
// продолжает действовать во все остальные даты.
func (s *Service) CreateException(ctx context.Context, recurringID int64, req *models.CreateExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("CreateException: creating exception for recurring id=%d date=%s by user=%d",
		recurringID, req.Date, req.RequesterID)

	rb, err := s.recurringRepo.GetByID(ctx, recurringID)
	if err != nil {
		if errors.Is(err, recurringRepo.ErrRecurringNotFound) {
			s.logger.Warn("CreateException: recurring id=%d not found", recurringID)
			return nil, ErrRecurringNotFound
		}
		s.logger.Error("CreateException: repository error for id=%d: %v", recurringID, err)
		return nil, fmt.Errorf("%w: CreateException - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, rb.OwnerID, req.RequesterID); err != nil {
		s.logger.Warn("CreateException: access denied for user=%d to recurring id=%d", req.RequesterID, recurringID)
		return nil, err
	}

	if rb.IsTerminal() {
		s.logger.Warn("CreateException: recurring id=%d is terminal, status=%s", recurringID, rb.Status)
		return nil, ErrTerminalStatus
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		s.logger.Warn("CreateException: invalid date=%s for recurring id=%d", req.Date, recurringID)
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	// Дата исключения обязана быть реальным вхождением серии
	if calendar.WeekdayIndex(date) != rb.Weekday {
		s.logger.Warn("CreateException: date=%s does not fall on weekday=%d of recurring id=%d",
			req.Date, rb.Weekday, recurringID)
		return nil, ErrInvalidExceptionDate
	}
	if rb.StartDate != nil && date.Before(calendar.Canonical(*rb.StartDate)) {
		s.logger.Warn("CreateException: date=%s precedes start date of recurring id=%d", req.Date, recurringID)
		return nil, ErrInvalidExceptionDate
	}
	if s.cal.IsPastDay(date) {
		s.logger.Warn("CreateException: date=%s is in the past for recurring id=%d", req.Date, recurringID)
		return nil, ErrPastDate
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxExceptionReasonLength {
		return nil, fmt.Errorf("%w: reason too long", ErrInvalidInput)
	}

	exc, err := s.recurringRepo.CreateException(ctx, &domain.RecurringException{
		RecurringBookingID: recurringID,
		Date:               date,
		Reason:             req.Reason,
		CreatedBy:          req.RequesterID,
	})
	if err != nil {
		if errors.Is(err, recurringRepo.ErrExceptionExists) {
			s.logger.Warn("CreateException: exception already exists for recurring id=%d date=%s", recurringID, req.Date)
			return nil, ErrExceptionExists
		}
		s.logger.Error("CreateException: repository error for recurring id=%d: %v", recurringID, err)
		return nil, fmt.Errorf("%w: CreateException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateException: created exception id=%d for recurring id=%d date=%s", exc.ID, recurringID, req.Date)
	return models.FromDomainException(exc), nil
}

// Вспомогательные методы

// checkOwnerAccess разрешает доступ владельцу бронирования или администратору
func (s *Service) checkOwnerAccess(ctx context.Context, ownerID int64, requesterID int64) error {
	if ownerID == requesterID {
		return nil
	}
	return s.checkAdminAccess(ctx, requesterID)
}

// checkAdminAccess проверяет, что пользователь имеет административную роль
func (s *Service) checkAdminAccess(ctx context.Context, requesterID int64) error {
	caps, err := s.access.GetCapabilities(ctx, requesterID)
	if err != nil {
		if errors.Is(err, accessClient.ErrUserNotFound) {
			s.logger.Warn("checkAdminAccess: user=%d not found in access service", requesterID)
			return ErrAccessDenied
		}
		s.logger.Error("checkAdminAccess: failed to get capabilities for user=%d: %v", requesterID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to get capabilities: %v", ErrInternal, err)
	}

	if !caps.Role.IsAdmin() {
		s.logger.Warn("checkAdminAccess: user=%d has no admin role", requesterID)
		return ErrAccessDenied
	}

	return nil
}
