package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	bookingRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/booking"
	recurringRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/recurring"
	"github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	"github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/pkg/ptr"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Фейки зависимостей use case

type fakeBookingRepo struct {
	holding   *domain.OneOffBooking
	created   *domain.OneOffBooking
	createErr error
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.OneOffBooking) (*domain.OneOffBooking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *b
	created.ID = 42
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetHoldingSlot(_ context.Context, _ int64, _ time.Time, _ types.TimeString) (*domain.OneOffBooking, error) {
	if f.holding == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.holding, nil
}

type fakeRecurringRepo struct {
	active     *domain.RecurringBooking
	exceptions []*domain.RecurringException
}

func (f *fakeRecurringRepo) GetActiveBySlot(_ context.Context, _ int64, _ time.Weekday, _ types.TimeString) (*domain.RecurringBooking, error) {
	if f.active == nil {
		return nil, recurringRepo.ErrRecurringNotFound
	}
	return f.active, nil
}

func (f *fakeRecurringRepo) ListExceptions(_ context.Context, _ int64) ([]*domain.RecurringException, error) {
	return f.exceptions, nil
}

type fakeBlockRepo struct {
	blocks []*domain.Block
}

func (f *fakeBlockRepo) ListByResourceDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Block, error) {
	return f.blocks, nil
}

type fakeResourceClient struct {
	resource *resourceservice.Resource
	err      error
}

func (f *fakeResourceClient) GetResource(_ context.Context, _ int64) (*resourceservice.Resource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resource, nil
}

type fakeAccessClient struct {
	caps *accessservice.Capabilities
	err  error
}

func (f *fakeAccessClient) GetCapabilities(_ context.Context, userID int64) (*accessservice.Capabilities, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.caps != nil {
		return f.caps, nil
	}
	return &accessservice.Capabilities{UserID: userID, Role: accessservice.RoleClient}, nil
}

type fakeWindows struct {
	within bool
	err    error
}

func (f *fakeWindows) IsWithinWindow(_ context.Context, _ int64, _ domain.SessionKind, _ time.Weekday, _ types.TimeString, _ int) (bool, error) {
	return f.within, f.err
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCalendar struct {
	today time.Time
}

func (f *fakeCalendar) Today() time.Time { return f.today }

func (f *fakeCalendar) IsPastDay(date time.Time) bool { return date.Before(f.today) }

func (f *fakeCalendar) PastSlot(date time.Time, _ types.TimeString) bool {
	return date.Before(f.today)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Сборка use case с дефолтными фейками

type fixture struct {
	bookings  *fakeBookingRepo
	recurring *fakeRecurringRepo
	blocks    *fakeBlockRepo
	resources *fakeResourceClient
	access    *fakeAccessClient
	windows   *fakeWindows
	cal       *fakeCalendar
}

func newFixture() *fixture {
	return &fixture{
		bookings:  &fakeBookingRepo{},
		recurring: &fakeRecurringRepo{},
		blocks:    &fakeBlockRepo{},
		resources: &fakeResourceClient{
			resource: &resourceservice.Resource{
				ID:       10,
				Name:     "Quadra 1",
				Category: "court",
				SportIDs: []int64{7},
				Active:   true,
			},
		},
		access:  &fakeAccessClient{},
		windows: &fakeWindows{within: true},
		cal:     &fakeCalendar{today: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(
		f.bookings, f.recurring, f.blocks, f.resources, f.access, f.windows,
		fakeTxManager{}, f.cal,
		Params{OpenTime: "07:00", CloseTime: "23:00", SlotDurationMinutes: 60},
		nopLogger{},
	)
}

func courtRequest() *Request {
	return &Request{
		RequesterID: 100,
		OwnerID:     100,
		ResourceID:  10,
		Date:        time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   "19:00",
	}
}

func TestUseCase_Execute_Court(t *testing.T) {
	ctx := context.Background()

	t.Run("creates booking on free slot", func(t *testing.T) {
		f := newFixture()

		resp, err := f.useCase().Execute(ctx, courtRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, types.TimeString("19:00"), resp.StartTime)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Empty(t, resp.Shift)
		require.NotNil(t, f.bookings.created)
		assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), f.bookings.created.Date)
	})

	t.Run("slot held by one-off", func(t *testing.T) {
		f := newFixture()
		f.bookings.holding = &domain.OneOffBooking{
			ID: 5, ResourceID: 10,
			Date:      time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			StartTime: "19:00",
			Status:    domain.StatusConfirmed,
		}

		_, err := f.useCase().Execute(ctx, courtRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("slot covered by block", func(t *testing.T) {
		f := newFixture()
		f.blocks.blocks = []*domain.Block{{
			ID: 1, ResourceIDs: []int64{10},
			Date:      time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			StartTime: "18:00", EndTime: "21:00",
		}}

		_, err := f.useCase().Execute(ctx, courtRequest())
		assert.ErrorIs(t, err, ErrSlotBlocked)
	})

	t.Run("slot taken by recurring occurrence", func(t *testing.T) {
		f := newFixture()
		// 2025-10-15 - среда
		f.recurring.active = &domain.RecurringBooking{
			ID: 3, ResourceID: 10,
			Weekday: time.Wednesday, StartTime: "19:00",
			Status: domain.StatusConfirmed,
		}

		_, err := f.useCase().Execute(ctx, courtRequest())
		assert.ErrorIs(t, err, ErrSlotTakenByRecurring)
	})

	t.Run("recurring exception frees the date", func(t *testing.T) {
		f := newFixture()
		f.recurring.active = &domain.RecurringBooking{
			ID: 3, ResourceID: 10,
			Weekday: time.Wednesday, StartTime: "19:00",
			Status: domain.StatusConfirmed,
		}
		f.recurring.exceptions = []*domain.RecurringException{
			{RecurringBookingID: 3, Date: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)},
		}

		resp, err := f.useCase().Execute(ctx, courtRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
	})

	t.Run("concurrent insert loses to unique index", func(t *testing.T) {
		f := newFixture()
		f.bookings.createErr = bookingRepo.ErrSlotTaken

		_, err := f.useCase().Execute(ctx, courtRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("past date is rejected", func(t *testing.T) {
		f := newFixture()
		req := courtRequest()
		req.Date = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("time outside working hours", func(t *testing.T) {
		f := newFixture()
		req := courtRequest()
		req.StartTime = "06:00"

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("time not aligned to slot grid", func(t *testing.T) {
		f := newFixture()
		req := courtRequest()
		req.StartTime = "19:30"

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("court requires start time", func(t *testing.T) {
		f := newFixture()
		req := courtRequest()
		req.StartTime = ""

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrStartTimeRequired)
	})

	t.Run("inactive resource", func(t *testing.T) {
		f := newFixture()
		f.resources.resource.Active = false

		_, err := f.useCase().Execute(ctx, courtRequest())
		assert.ErrorIs(t, err, ErrResourceInactive)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture()
		f.resources.err = resourceservice.ErrResourceNotFound
		f.resources.resource = nil

		_, err := f.useCase().Execute(ctx, courtRequest())
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})
}

func TestUseCase_Execute_BBQShift(t *testing.T) {
	ctx := context.Background()

	bbqFixture := func() *fixture {
		f := newFixture()
		f.resources.resource = &resourceservice.Resource{
			ID: 20, Name: "Churrasqueira 1", Category: "bbq_pit", Active: true,
		}
		return f
	}

	t.Run("night shift maps to canonical slot time", func(t *testing.T) {
		f := bbqFixture()
		req := courtRequest()
		req.ResourceID = 20
		req.StartTime = ""
		req.Shift = domain.ShiftNight

		resp, err := f.useCase().Execute(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("18:00"), resp.StartTime)
		assert.Equal(t, domain.ShiftNight, resp.Shift)
	})

	t.Run("shift required for bbq pit", func(t *testing.T) {
		f := bbqFixture()
		req := courtRequest()
		req.ResourceID = 20
		req.StartTime = ""

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrShiftRequired)
	})
}

func TestUseCase_Execute_BookFor(t *testing.T) {
	ctx := context.Background()

	t.Run("client cannot book for another user", func(t *testing.T) {
		f := newFixture()
		req := courtRequest()
		req.OwnerID = 200

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("admin books on behalf of a client", func(t *testing.T) {
		f := newFixture()
		f.access.caps = &accessservice.Capabilities{UserID: 100, Role: accessservice.RoleAdminAttendant}
		req := courtRequest()
		req.OwnerID = 200

		resp, err := f.useCase().Execute(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(200), resp.OwnerID)
	})
}

func TestUseCase_Execute_TeachingWindow(t *testing.T) {
	ctx := context.Background()

	instructorReq := func() *Request {
		req := courtRequest()
		req.InstructorID = ptr.Ptr(int64(55))
		req.SessionKind = ptr.Ptr(domain.SessionClass)
		return req
	}

	t.Run("instructor session outside window", func(t *testing.T) {
		f := newFixture()
		f.windows.within = false

		_, err := f.useCase().Execute(ctx, instructorReq())
		assert.ErrorIs(t, err, ErrOutsideTeachingWindow)
	})

	t.Run("instructor session inside window", func(t *testing.T) {
		f := newFixture()

		resp, err := f.useCase().Execute(ctx, instructorReq())
		require.NoError(t, err)
		require.NotNil(t, resp.InstructorID)
		assert.Equal(t, int64(55), *resp.InstructorID)
	})

	t.Run("instructor without session kind is invalid", func(t *testing.T) {
		f := newFixture()
		req := courtRequest()
		req.InstructorID = ptr.Ptr(int64(55))

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("resource without sport skips window check", func(t *testing.T) {
		f := newFixture()
		f.resources.resource.SportIDs = nil
		f.windows.within = false

		_, err := f.useCase().Execute(ctx, instructorReq())
		assert.NoError(t, err)
	})
}
