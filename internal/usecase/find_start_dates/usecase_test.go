package find_start_dates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	recurringRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/recurring"
	"github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

type fakeBookingRepo struct {
	holding []*domain.OneOffBooking
}

func (f *fakeBookingRepo) ListHoldingByWeekdaySlot(_ context.Context, _ int64, _ time.Weekday, _ types.TimeString, fromDate, untilDate time.Time) ([]*domain.OneOffBooking, error) {
	out := make([]*domain.OneOffBooking, 0)
	for _, b := range f.holding {
		if b.Date.Before(fromDate) || !b.Date.Before(untilDate) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeRecurringRepo struct {
	active *domain.RecurringBooking
}

func (f *fakeRecurringRepo) GetActiveBySlot(_ context.Context, _ int64, _ time.Weekday, _ types.TimeString) (*domain.RecurringBooking, error) {
	if f.active == nil {
		return nil, recurringRepo.ErrRecurringNotFound
	}
	return f.active, nil
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

type fakeCalendar struct {
	today time.Time
}

func (f *fakeCalendar) Today() time.Time { return f.today }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	bookings  *fakeBookingRepo
	recurring *fakeRecurringRepo
	resources *fakeResourceClient
	cal       *fakeCalendar
}

func newFixture() *fixture {
	return &fixture{
		bookings:  &fakeBookingRepo{},
		recurring: &fakeRecurringRepo{},
		resources: &fakeResourceClient{
			resource: &resourceservice.Resource{
				ID: 10, Name: "Quadra 1", Category: "court", Active: true,
			},
		},
		// 2025-01-01 - среда
		cal: &fakeCalendar{today: date(2025, 1, 1)},
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(
		f.bookings, f.recurring, f.resources, f.cal,
		Params{SuggestionMaxWeeks: 26, SuggestionMaxResults: 3, ConflictHorizonWeeks: 26},
		nopLogger{},
	)
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	baseRequest := func() *Request {
		return &Request{ResourceID: 10, Weekday: 3, StartTime: "19:00"}
	}

	t.Run("free slot yields consecutive weeks", func(t *testing.T) {
		f := newFixture()

		resp, err := f.useCase().Execute(ctx, baseRequest())
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			date(2025, 1, 1), date(2025, 1, 8), date(2025, 1, 15),
		}, resp.Dates)
	})

	t.Run("conflicted dates are skipped individually", func(t *testing.T) {
		f := newFixture()
		f.bookings.holding = []*domain.OneOffBooking{
			{ID: 1, Date: date(2025, 1, 8), StartTime: "19:00", Status: domain.StatusConfirmed},
		}

		resp, err := f.useCase().Execute(ctx, baseRequest())
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			date(2025, 1, 1), date(2025, 1, 15), date(2025, 1, 22),
		}, resp.Dates)
	})

	t.Run("slot taken by active recurring series", func(t *testing.T) {
		f := newFixture()
		f.recurring.active = &domain.RecurringBooking{ID: 3, Status: domain.StatusConfirmed}

		_, err := f.useCase().Execute(ctx, baseRequest())
		assert.ErrorIs(t, err, ErrSlotTakenByRecurring)
	})

	t.Run("from date moves the search window", func(t *testing.T) {
		f := newFixture()
		req := baseRequest()
		from := date(2025, 2, 1)
		req.FromDate = &from

		resp, err := f.useCase().Execute(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Dates)
		// Первая среда не раньше 2025-02-01
		assert.Equal(t, date(2025, 2, 5), resp.Dates[0])
	})

	t.Run("past from date is clamped to today", func(t *testing.T) {
		f := newFixture()
		req := baseRequest()
		from := date(2024, 6, 1)
		req.FromDate = &from

		resp, err := f.useCase().Execute(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Dates)
		assert.Equal(t, date(2025, 1, 1), resp.Dates[0])
	})

	t.Run("max results is clamped to configured limit", func(t *testing.T) {
		f := newFixture()
		req := baseRequest()
		req.MaxResults = 100

		resp, err := f.useCase().Execute(ctx, req)
		require.NoError(t, err)
		assert.Len(t, resp.Dates, 3)
	})

	t.Run("explicit smaller max results", func(t *testing.T) {
		f := newFixture()
		req := baseRequest()
		req.MaxResults = 1

		resp, err := f.useCase().Execute(ctx, req)
		require.NoError(t, err)
		assert.Len(t, resp.Dates, 1)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture()
		f.resources.err = resourceservice.ErrResourceNotFound
		f.resources.resource = nil

		_, err := f.useCase().Execute(ctx, baseRequest())
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("bbq pit requires shift", func(t *testing.T) {
		f := newFixture()
		f.resources.resource = &resourceservice.Resource{
			ID: 20, Category: "bbq_pit", Active: true,
		}
		req := &Request{ResourceID: 20, Weekday: 3}

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrShiftRequired)
	})

	t.Run("invalid weekday", func(t *testing.T) {
		f := newFixture()
		req := baseRequest()
		req.Weekday = -1

		_, err := f.useCase().Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
