package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Фейки зависимостей use case

type fakeBookingRepo struct {
	bookings []*domain.OneOffBooking
	err      error
}

func (f *fakeBookingRepo) ListWithFilter(_ context.Context, _ domain.BookingsFilter) ([]*domain.OneOffBooking, error) {
	return f.bookings, f.err
}

type fakeRecurringRepo struct {
	active     []*domain.RecurringBooking
	exceptions map[int64][]*domain.RecurringException
}

func (f *fakeRecurringRepo) ListActiveByResource(_ context.Context, _ int64) ([]*domain.RecurringBooking, error) {
	return f.active, nil
}

func (f *fakeRecurringRepo) ListExceptionsForBookings(_ context.Context, _ []int64) (map[int64][]*domain.RecurringException, error) {
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	bookingRepo   *fakeBookingRepo
	recurringRepo *fakeRecurringRepo
	blockRepo     *fakeBlockRepo
	resources     *fakeResourceClient
}

func newFixture() *fixture {
	return &fixture{
		bookingRepo:   &fakeBookingRepo{},
		recurringRepo: &fakeRecurringRepo{},
		blockRepo:     &fakeBlockRepo{},
		resources: &fakeResourceClient{
			resource: &resourceservice.Resource{
				ID:       10,
				Name:     "Quadra 1",
				Category: "court",
				SportIDs: []int64{1},
				Active:   true,
			},
		},
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(
		f.bookingRepo,
		f.recurringRepo,
		f.blockRepo,
		f.resources,
		Params{OpenTime: "07:00", CloseTime: "23:00", SlotDurationMinutes: 60},
		nopLogger{},
	)
}

func wednesday() time.Time {
	return time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
}

func slotByTime(t *testing.T, slots []SlotStatus, start types.TimeString) SlotStatus {
	t.Helper()
	for _, s := range slots {
		if s.StartTime.Equal(start) {
			return s
		}
	}
	t.Fatalf("slot %s not found", start)
	return SlotStatus{}
}

func TestExecute_CourtFullDayGrid(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), &Request{
		ResourceID: 10,
		Date:       wednesday(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ResourceID)
	assert.Equal(t, domain.CategoryCourt, resp.Category)
	assert.Equal(t, wednesday(), resp.Date)

	// Сетка 07:00..22:00 с шагом в час, последний слот заканчивается к закрытию
	require.Len(t, resp.Slots, 16)
	assert.Equal(t, types.TimeString("07:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("22:00"), resp.Slots[15].StartTime)
	for _, s := range resp.Slots {
		assert.True(t, s.Available, "slot %s", s.StartTime)
		assert.Empty(t, s.ConflictKind)
		assert.Empty(t, s.Shift)
	}
}

func TestExecute_ConflictKinds(t *testing.T) {
	f := newFixture()
	day := wednesday()

	f.blockRepo.blocks = []*domain.Block{{
		ID:          1,
		ResourceIDs: []int64{10},
		Date:        day,
		StartTime:   "18:00",
		EndTime:     "21:00",
	}}
	f.bookingRepo.bookings = []*domain.OneOffBooking{{
		ID:         2,
		ResourceID: 10,
		Date:       day,
		StartTime:  "10:00",
		Status:     domain.StatusConfirmed,
	}}
	f.recurringRepo.active = []*domain.RecurringBooking{{
		ID:         3,
		ResourceID: 10,
		Weekday:    time.Wednesday,
		StartTime:  "14:00",
		Status:     domain.StatusConfirmed,
	}}

	resp, err := f.useCase().Execute(context.Background(), &Request{ResourceID: 10, Date: day})
	require.NoError(t, err)

	assert.True(t, slotByTime(t, resp.Slots, "07:00").Available)

	got := slotByTime(t, resp.Slots, "10:00")
	assert.False(t, got.Available)
	assert.Equal(t, "one_off", got.ConflictKind)

	got = slotByTime(t, resp.Slots, "14:00")
	assert.False(t, got.Available)
	assert.Equal(t, "recurring", got.ConflictKind)

	// Блокировка накрывает все слоты полуоткрытого интервала [18:00, 21:00)
	for _, start := range []types.TimeString{"18:00", "19:00", "20:00"} {
		got = slotByTime(t, resp.Slots, start)
		assert.False(t, got.Available, "slot %s", start)
		assert.Equal(t, "blocked", got.ConflictKind)
	}
	assert.True(t, slotByTime(t, resp.Slots, "21:00").Available)
}

func TestExecute_ExceptionFreesRecurringSlot(t *testing.T) {
	f := newFixture()
	day := wednesday()

	f.recurringRepo.active = []*domain.RecurringBooking{{
		ID:         3,
		ResourceID: 10,
		Weekday:    time.Wednesday,
		StartTime:  "14:00",
		Status:     domain.StatusConfirmed,
	}}
	f.recurringRepo.exceptions = map[int64][]*domain.RecurringException{
		3: {{RecurringBookingID: 3, Date: day}},
	}

	resp, err := f.useCase().Execute(context.Background(), &Request{ResourceID: 10, Date: day})
	require.NoError(t, err)
	assert.True(t, slotByTime(t, resp.Slots, "14:00").Available)
}

func TestExecute_SingleSlotByStartTime(t *testing.T) {
	f := newFixture()
	f.bookingRepo.bookings = []*domain.OneOffBooking{{
		ID:         2,
		ResourceID: 10,
		Date:       wednesday(),
		StartTime:  "19:00",
		Status:     domain.StatusConfirmed,
	}}

	resp, err := f.useCase().Execute(context.Background(), &Request{
		ResourceID: 10,
		Date:       wednesday(),
		StartTime:  "19:00",
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("19:00"), resp.Slots[0].StartTime)
	assert.False(t, resp.Slots[0].Available)
	assert.Equal(t, "one_off", resp.Slots[0].ConflictKind)
}

func TestExecute_InvalidStartTimeFormat(t *testing.T) {
	f := newFixture()

	_, err := f.useCase().Execute(context.Background(), &Request{
		ResourceID: 10,
		Date:       wednesday(),
		StartTime:  "7pm",
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_BBQPitShifts(t *testing.T) {
	f := newFixture()
	f.resources.resource = &resourceservice.Resource{
		ID:       20,
		Name:     "Churrasqueira 1",
		Category: "bbq_pit",
		Active:   true,
	}

	t.Run("full day returns both shifts", func(t *testing.T) {
		resp, err := f.useCase().Execute(context.Background(), &Request{
			ResourceID: 20,
			Date:       wednesday(),
		})

		require.NoError(t, err)
		require.Len(t, resp.Slots, 2)
		assert.Equal(t, domain.DayShiftStart, resp.Slots[0].StartTime)
		assert.Equal(t, domain.ShiftDay, resp.Slots[0].Shift)
		assert.Equal(t, domain.NightShiftStart, resp.Slots[1].StartTime)
		assert.Equal(t, domain.ShiftNight, resp.Slots[1].Shift)
	})

	t.Run("single shift query", func(t *testing.T) {
		f.recurringRepo.active = []*domain.RecurringBooking{{
			ID:         5,
			ResourceID: 20,
			Weekday:    time.Wednesday,
			StartTime:  domain.NightShiftStart,
			Status:     domain.StatusConfirmed,
		}}

		resp, err := f.useCase().Execute(context.Background(), &Request{
			ResourceID: 20,
			Date:       wednesday(),
			Shift:      domain.ShiftNight,
		})

		require.NoError(t, err)
		require.Len(t, resp.Slots, 1)
		assert.Equal(t, domain.ShiftNight, resp.Slots[0].Shift)
		assert.False(t, resp.Slots[0].Available)
		assert.Equal(t, "recurring", resp.Slots[0].ConflictKind)
	})

	t.Run("unknown shift", func(t *testing.T) {
		_, err := f.useCase().Execute(context.Background(), &Request{
			ResourceID: 20,
			Date:       wednesday(),
			Shift:      domain.Shift("morning"),
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_ResourceNotFound(t *testing.T) {
	f := newFixture()
	f.resources.resource = nil
	f.resources.err = resourceservice.ErrResourceNotFound

	_, err := f.useCase().Execute(context.Background(), &Request{ResourceID: 99, Date: wednesday()})

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.useCase().Execute(context.Background(), &Request{ResourceID: 0, Date: wednesday()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.useCase().Execute(context.Background(), &Request{ResourceID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
