package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	blockRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/block"
	windowRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/teachingwindow"
	"github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	"github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/internal/service/schedule/models"
	"github.com/quadralivre/facility-booking-service/pkg/ptr"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Фейки зависимостей сервиса

type fakeBlockRepo struct {
	blocks  map[int64]*domain.Block
	created *domain.Block
	listed  []*domain.Block
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[int64]*domain.Block)}
}

func (f *fakeBlockRepo) Create(_ context.Context, b *domain.Block) (*domain.Block, error) {
	created := *b
	created.ID = 9
	f.created = &created
	f.blocks[created.ID] = &created
	return &created, nil
}

func (f *fakeBlockRepo) GetByID(_ context.Context, id int64) (*domain.Block, error) {
	b, ok := f.blocks[id]
	if !ok {
		return nil, blockRepo.ErrBlockNotFound
	}
	return b, nil
}

func (f *fakeBlockRepo) ListByDateRange(_ context.Context, _, _ time.Time) ([]*domain.Block, error) {
	return f.listed, nil
}

func (f *fakeBlockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.blocks[id]; !ok {
		return blockRepo.ErrBlockNotFound
	}
	delete(f.blocks, id)
	return nil
}

type fakeWindowRepo struct {
	windows  map[int64]*domain.TeachingWindow
	upserted *domain.TeachingWindow
	forKind  []*domain.TeachingWindow
	bySport  []*domain.TeachingWindow
}

func newFakeWindowRepo() *fakeWindowRepo {
	return &fakeWindowRepo{windows: make(map[int64]*domain.TeachingWindow)}
}

func (f *fakeWindowRepo) Upsert(_ context.Context, w *domain.TeachingWindow) (*domain.TeachingWindow, error) {
	created := *w
	created.ID = 4
	f.upserted = &created
	f.windows[created.ID] = &created
	return &created, nil
}

func (f *fakeWindowRepo) ListForSportKind(_ context.Context, _ int64, _ domain.SessionKind) ([]*domain.TeachingWindow, error) {
	return f.forKind, nil
}

func (f *fakeWindowRepo) ListBySport(_ context.Context, _ int64) ([]*domain.TeachingWindow, error) {
	return f.bySport, nil
}

func (f *fakeWindowRepo) Deactivate(_ context.Context, id int64) error {
	w, ok := f.windows[id]
	if !ok {
		return windowRepo.ErrWindowNotFound
	}
	w.Active = false
	return nil
}

type fakeResourceClient struct {
	missing map[int64]bool
}

func (f *fakeResourceClient) GetResource(_ context.Context, resourceID int64) (*resourceservice.Resource, error) {
	if f.missing[resourceID] {
		return nil, resourceservice.ErrResourceNotFound
	}
	return &resourceservice.Resource{ID: resourceID, Category: "court", Active: true}, nil
}

type fakeAccessClient struct {
	roles map[int64]accessservice.Role
}

func (f *fakeAccessClient) GetCapabilities(_ context.Context, userID int64) (*accessservice.Capabilities, error) {
	role, ok := f.roles[userID]
	if !ok {
		role = accessservice.RoleClient
	}
	return &accessservice.Capabilities{UserID: userID, Role: role}, nil
}

type fakeCalendar struct {
	today time.Time
}

func (f *fakeCalendar) Today() time.Time { return f.today }

func (f *fakeCalendar) IsPastDay(date time.Time) bool { return date.Before(f.today) }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	blockRepo  *fakeBlockRepo
	windowRepo *fakeWindowRepo
	resources  *fakeResourceClient
	access     *fakeAccessClient
	cal        *fakeCalendar
}

func newFixture() *fixture {
	return &fixture{
		blockRepo:  newFakeBlockRepo(),
		windowRepo: newFakeWindowRepo(),
		resources:  &fakeResourceClient{missing: map[int64]bool{}},
		access: &fakeAccessClient{roles: map[int64]accessservice.Role{
			1: accessservice.RoleAdminMaster,
			2: accessservice.RoleAdminInstructor,
		}},
		cal: &fakeCalendar{today: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func (f *fixture) service() *Service {
	return NewService(f.blockRepo, f.windowRepo, f.resources, f.access, f.cal, nopLogger{})
}

func validBlockRequest() *models.CreateBlockRequest {
	return &models.CreateBlockRequest{
		RequesterID: 1,
		ResourceIDs: []int64{10, 11},
		Date:        "2025-10-15",
		StartTime:   "08:00",
		EndTime:     "12:00",
		Reason:      ptr.Ptr("manutencao"),
	}
}

func TestCreateBlock(t *testing.T) {
	t.Run("master creates a multi-resource block", func(t *testing.T) {
		f := newFixture()

		resp, err := f.service().CreateBlock(context.Background(), validBlockRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(9), resp.ID)
		assert.Equal(t, []int64{10, 11}, resp.ResourceIDs)
		assert.Equal(t, "2025-10-15", resp.Date)
		assert.Equal(t, "08:00", resp.StartTime)
		assert.Equal(t, int64(1), f.blockRepo.created.CreatedBy)
	})

	t.Run("client is denied", func(t *testing.T) {
		f := newFixture()
		req := validBlockRequest()
		req.RequesterID = 55

		_, err := f.service().CreateBlock(context.Background(), req)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("instructor cannot manage schedule", func(t *testing.T) {
		f := newFixture()
		req := validBlockRequest()
		req.RequesterID = 2

		_, err := f.service().CreateBlock(context.Background(), req)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("empty resource list", func(t *testing.T) {
		f := newFixture()
		req := validBlockRequest()
		req.ResourceIDs = nil

		_, err := f.service().CreateBlock(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("past date", func(t *testing.T) {
		f := newFixture()
		req := validBlockRequest()
		req.Date = "2025-09-01"

		_, err := f.service().CreateBlock(context.Background(), req)
		assert.ErrorIs(t, err, ErrPastDate)
	})

	t.Run("inverted time range", func(t *testing.T) {
		f := newFixture()
		req := validBlockRequest()
		req.StartTime = "12:00"
		req.EndTime = "08:00"

		_, err := f.service().CreateBlock(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture()
		f.resources.missing[11] = true

		_, err := f.service().CreateBlock(context.Background(), validBlockRequest())
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})
}

func TestListBlocks(t *testing.T) {
	t.Run("admin lists blocks for a period", func(t *testing.T) {
		f := newFixture()
		f.blockRepo.listed = []*domain.Block{{
			ID:          9,
			ResourceIDs: []int64{10},
			Date:        time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			StartTime:   "08:00",
			EndTime:     "12:00",
			CreatedBy:   1,
		}}

		resp, err := f.service().ListBlocks(context.Background(), &models.ListBlocksRequest{
			RequesterID: 1,
			StartDate:   "2025-10-01",
			EndDate:     "2025-10-31",
		})

		require.NoError(t, err)
		require.Len(t, resp.Blocks, 1)
		assert.Equal(t, "2025-10-15", resp.Blocks[0].Date)
	})

	t.Run("inverted period", func(t *testing.T) {
		f := newFixture()

		_, err := f.service().ListBlocks(context.Background(), &models.ListBlocksRequest{
			RequesterID: 1,
			StartDate:   "2025-10-31",
			EndDate:     "2025-10-01",
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDeleteBlock(t *testing.T) {
	t.Run("admin deletes a block", func(t *testing.T) {
		f := newFixture()
		f.blockRepo.blocks[9] = &domain.Block{ID: 9}

		err := f.service().DeleteBlock(context.Background(), 9, 1)

		require.NoError(t, err)
		assert.Empty(t, f.blockRepo.blocks)
	})

	t.Run("missing block", func(t *testing.T) {
		f := newFixture()

		err := f.service().DeleteBlock(context.Background(), 9, 1)
		assert.ErrorIs(t, err, ErrBlockNotFound)
	})
}

func TestUpsertWindow(t *testing.T) {
	t.Run("day-specific window is stored active", func(t *testing.T) {
		f := newFixture()

		resp, err := f.service().UpsertWindow(context.Background(), &models.UpsertWindowRequest{
			RequesterID: 1,
			SportID:     2,
			Weekday:     ptr.Ptr(3),
			SessionKind: "class",
			StartTime:   "14:00",
			EndTime:     "18:00",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.ID)
		require.NotNil(t, resp.Weekday)
		assert.Equal(t, 3, *resp.Weekday)
		assert.True(t, f.windowRepo.upserted.Active)
		require.NotNil(t, f.windowRepo.upserted.Weekday)
		assert.Equal(t, time.Wednesday, *f.windowRepo.upserted.Weekday)
	})

	t.Run("default window has no weekday", func(t *testing.T) {
		f := newFixture()

		resp, err := f.service().UpsertWindow(context.Background(), &models.UpsertWindowRequest{
			RequesterID: 1,
			SportID:     2,
			SessionKind: "game",
			StartTime:   "08:00",
			EndTime:     "22:00",
		})

		require.NoError(t, err)
		assert.Nil(t, resp.Weekday)
	})

	t.Run("unknown session kind", func(t *testing.T) {
		f := newFixture()

		_, err := f.service().UpsertWindow(context.Background(), &models.UpsertWindowRequest{
			RequesterID: 1,
			SportID:     2,
			SessionKind: "practice",
			StartTime:   "14:00",
			EndTime:     "18:00",
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("weekday out of range", func(t *testing.T) {
		f := newFixture()

		_, err := f.service().UpsertWindow(context.Background(), &models.UpsertWindowRequest{
			RequesterID: 1,
			SportID:     2,
			Weekday:     ptr.Ptr(7),
			SessionKind: "class",
			StartTime:   "14:00",
			EndTime:     "18:00",
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDeactivateWindow(t *testing.T) {
	t.Run("admin deactivates a window", func(t *testing.T) {
		f := newFixture()
		f.windowRepo.windows[4] = &domain.TeachingWindow{ID: 4, Active: true}

		err := f.service().DeactivateWindow(context.Background(), 4, 1)

		require.NoError(t, err)
		assert.False(t, f.windowRepo.windows[4].Active)
	})

	t.Run("missing window", func(t *testing.T) {
		f := newFixture()

		err := f.service().DeactivateWindow(context.Background(), 4, 1)
		assert.ErrorIs(t, err, ErrWindowNotFound)
	})

	t.Run("client is denied", func(t *testing.T) {
		f := newFixture()
		f.windowRepo.windows[4] = &domain.TeachingWindow{ID: 4, Active: true}

		err := f.service().DeactivateWindow(context.Background(), 4, 55)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestIsWithinWindow(t *testing.T) {
	wednesday := time.Wednesday
	dayWindow := &domain.TeachingWindow{
		ID: 1, SportID: 2, Weekday: &wednesday, SessionKind: domain.SessionClass,
		StartTime: "14:00", EndTime: "18:00", Active: true,
	}
	defaultWindow := &domain.TeachingWindow{
		ID: 2, SportID: 2, SessionKind: domain.SessionClass,
		StartTime: "08:00", EndTime: "12:00", Active: true,
	}

	t.Run("day window overrides the default", func(t *testing.T) {
		f := newFixture()
		f.windowRepo.forKind = []*domain.TeachingWindow{defaultWindow, dayWindow}

		ok, err := f.service().IsWithinWindow(context.Background(), 2, domain.SessionClass, time.Wednesday, types.TimeString("15:00"), 60)
		require.NoError(t, err)
		assert.True(t, ok)

		// Окно по умолчанию в среду не действует
		ok, err = f.service().IsWithinWindow(context.Background(), 2, domain.SessionClass, time.Wednesday, types.TimeString("09:00"), 60)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("default window applies to other weekdays", func(t *testing.T) {
		f := newFixture()
		f.windowRepo.forKind = []*domain.TeachingWindow{defaultWindow, dayWindow}

		ok, err := f.service().IsWithinWindow(context.Background(), 2, domain.SessionClass, time.Monday, types.TimeString("09:00"), 60)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no active windows means any time is allowed", func(t *testing.T) {
		f := newFixture()

		ok, err := f.service().IsWithinWindow(context.Background(), 2, domain.SessionClass, time.Monday, types.TimeString("23:00"), 60)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
