package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	blockRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/block"
	windowRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/teachingwindow"
	accessClient "github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	resourceClient "github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/internal/scheduling"
	"github.com/quadralivre/facility-booking-service/internal/service/schedule/models"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Service сервис административного расписания: блокировки ресурсов
// и окна преподавания
type Service struct {
	blockRepo  BlockRepository
	windowRepo WindowRepository
	resources  ResourceClient
	access     AccessClient
	cal        Calendar
	logger     Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	blockRepo BlockRepository,
	windowRepo WindowRepository,
	resources ResourceClient,
	access AccessClient,
	cal Calendar,
	logger Logger,
) *Service {
	return &Service{
		blockRepo:  blockRepo,
		windowRepo: windowRepo,
		resources:  resources,
		access:     access,
		cal:        cal,
		logger:     logger,
	}
}

// CreateBlock создает блокировку на один или несколько ресурсов.
// Блокировка подавляет доступность слотов независимо от бронирований.
// Доступно только администраторам.
func (s *Service) CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: creating block for %d resources on date=%s by user=%d",
		len(req.ResourceIDs), req.Date, req.RequesterID)

	if err := s.checkAdminAccess(ctx, req.RequesterID); err != nil {
		return nil, err
	}

	if len(req.ResourceIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one resource is required", ErrInvalidInput)
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}
	if s.cal.IsPastDay(date) {
		s.logger.Warn("CreateBlock: date=%s is in the past", req.Date)
		return nil, ErrPastDate
	}

	startTime, endTime, err := parseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("CreateBlock: invalid time range %s-%s: %v", req.StartTime, req.EndTime, err)
		return nil, err
	}

	// Все ресурсы блокировки должны существовать в каталоге
	for _, resourceID := range req.ResourceIDs {
		if _, err := s.resources.GetResource(ctx, resourceID); err != nil {
			if errors.Is(err, resourceClient.ErrResourceNotFound) {
				s.logger.Warn("CreateBlock: resource id=%d not found", resourceID)
				return nil, fmt.Errorf("%w: resource id=%d", ErrResourceNotFound, resourceID)
			}
			s.logger.Error("CreateBlock: failed to check resource id=%d: %v", resourceID, err)
			return nil, fmt.Errorf("%w: CreateBlock - failed to check resource: %v", ErrInternal, err)
		}
	}

	block, err := s.blockRepo.Create(ctx, &domain.Block{
		ResourceIDs: req.ResourceIDs,
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		Reason:      req.Reason,
		CreatedBy:   req.RequesterID,
	})
	if err != nil {
		s.logger.Error("CreateBlock: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlock: created block id=%d on date=%s %s-%s",
		block.ID, req.Date, req.StartTime, req.EndTime)
	return models.FromDomainBlock(block), nil
}

// ListBlocks возвращает блокировки за период. Доступно только администраторам.
func (s *Service) ListBlocks(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error) {
	s.logger.Info("ListBlocks: listing blocks from %s to %s for user=%d", req.StartDate, req.EndDate, req.RequesterID)

	if err := s.checkAdminAccess(ctx, req.RequesterID); err != nil {
		return nil, err
	}

	startDate, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", ErrInvalidInput)
	}
	endDate, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", ErrInvalidInput)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	blocks, err := s.blockRepo.ListByDateRange(ctx, startDate, endDate)
	if err != nil {
		s.logger.Error("ListBlocks: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlocks - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBlocks: fetched %d blocks", len(blocks))
	return models.FromDomainBlockList(blocks), nil
}

// DeleteBlock снимает блокировку. Доступно только администраторам.
func (s *Service) DeleteBlock(ctx context.Context, blockID int64, requesterID int64) error {
	s.logger.Info("DeleteBlock: deleting block id=%d by user=%d", blockID, requesterID)

	if err := s.checkAdminAccess(ctx, requesterID); err != nil {
		return err
	}

	if err := s.blockRepo.Delete(ctx, blockID); err != nil {
		if errors.Is(err, blockRepo.ErrBlockNotFound) {
			s.logger.Warn("DeleteBlock: block id=%d not found", blockID)
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: repository error for block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: DeleteBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlock: deleted block id=%d", blockID)
	return nil
}

// UpsertWindow создает или обновляет окно преподавания для вида спорта.
// Окно с днем недели перекрывает окно по умолчанию для этого дня.
// Доступно только администраторам.
func (s *Service) UpsertWindow(ctx context.Context, req *models.UpsertWindowRequest) (*models.WindowResponse, error) {
	s.logger.Info("UpsertWindow: upserting window for sport=%d kind=%s by user=%d",
		req.SportID, req.SessionKind, req.RequesterID)

	if err := s.checkAdminAccess(ctx, req.RequesterID); err != nil {
		return nil, err
	}

	kind := domain.SessionKind(req.SessionKind)
	if kind != domain.SessionClass && kind != domain.SessionGame {
		return nil, fmt.Errorf("%w: unknown session kind %q", ErrInvalidInput, req.SessionKind)
	}

	var weekday *time.Weekday
	if req.Weekday != nil {
		if *req.Weekday < 0 || *req.Weekday > 6 {
			return nil, fmt.Errorf("%w: weekday must be 0..6", ErrInvalidInput)
		}
		wd := time.Weekday(*req.Weekday)
		weekday = &wd
	}

	startTime, endTime, err := parseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("UpsertWindow: invalid time range %s-%s: %v", req.StartTime, req.EndTime, err)
		return nil, err
	}

	window, err := s.windowRepo.Upsert(ctx, &domain.TeachingWindow{
		SportID:     req.SportID,
		Weekday:     weekday,
		SessionKind: kind,
		StartTime:   startTime,
		EndTime:     endTime,
		Active:      true,
	})
	if err != nil {
		s.logger.Error("UpsertWindow: repository error for sport=%d: %v", req.SportID, err)
		return nil, fmt.Errorf("%w: UpsertWindow - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertWindow: upserted window id=%d for sport=%d kind=%s", window.ID, req.SportID, req.SessionKind)
	return models.FromDomainWindow(window), nil
}

// ListWindows возвращает все окна преподавания вида спорта, включая
// неактивные. Чтение открыто: клиенты используют окна для подбора
// времени занятий.
func (s *Service) ListWindows(ctx context.Context, sportID int64) (*models.WindowListResponse, error) {
	s.logger.Info("ListWindows: listing windows for sport=%d", sportID)

	windows, err := s.windowRepo.ListBySport(ctx, sportID)
	if err != nil {
		s.logger.Error("ListWindows: repository error for sport=%d: %v", sportID, err)
		return nil, fmt.Errorf("%w: ListWindows - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWindowList(windows), nil
}

// DeactivateWindow деактивирует окно преподавания. Для вида спорта без
// активных окон занятия разрешены в любое время. Доступно только
// администраторам.
func (s *Service) DeactivateWindow(ctx context.Context, windowID int64, requesterID int64) error {
	s.logger.Info("DeactivateWindow: deactivating window id=%d by user=%d", windowID, requesterID)

	if err := s.checkAdminAccess(ctx, requesterID); err != nil {
		return err
	}

	if err := s.windowRepo.Deactivate(ctx, windowID); err != nil {
		if errors.Is(err, windowRepo.ErrWindowNotFound) {
			s.logger.Warn("DeactivateWindow: window id=%d not found", windowID)
			return ErrWindowNotFound
		}
		s.logger.Error("DeactivateWindow: repository error for window id=%d: %v", windowID, err)
		return fmt.Errorf("%w: DeactivateWindow - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateWindow: deactivated window id=%d", windowID)
	return nil
}

// IsWithinWindow проверяет, попадает ли занятие в действующее окно
// преподавания вида спорта. Иерархия: окно конкретного дня недели
// перекрывает окно по умолчанию; если ни одного активного окна нет,
// занятие разрешено в любое время.
func (s *Service) IsWithinWindow(
	ctx context.Context,
	sportID int64,
	kind domain.SessionKind,
	weekday time.Weekday,
	start types.TimeString,
	durationMinutes int,
) (bool, error) {
	windows, err := s.windowRepo.ListForSportKind(ctx, sportID, kind)
	if err != nil {
		s.logger.Error("IsWithinWindow: repository error for sport=%d: %v", sportID, err)
		return false, fmt.Errorf("%w: IsWithinWindow - repository error: %v", ErrInternal, err)
	}

	window := scheduling.ResolveWindow(windows, weekday, kind)
	return scheduling.WithinWindow(window, start, durationMinutes), nil
}

// Вспомогательные методы

func parseTimeRange(start, end string) (types.TimeString, types.TimeString, error) {
	startTime, err := types.NewTimeStringFromString(start)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid start time, expected HH:MM", ErrInvalidInput)
	}
	endTime, err := types.NewTimeStringFromString(end)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid end time, expected HH:MM", ErrInvalidInput)
	}
	if !startTime.IsBefore(endTime) {
		return "", "", ErrInvalidTimeRange
	}
	return startTime, endTime, nil
}

// checkAdminAccess проверяет, что пользователь имеет роль с правом
// управления расписанием
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

	if !caps.CanManageSchedule() {
		s.logger.Warn("checkAdminAccess: user=%d cannot manage schedule, role=%s", requesterID, caps.Role)
		return ErrAccessDenied
	}

	return nil
}
