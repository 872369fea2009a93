package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	bookingRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/booking"
	recurringRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/recurring"
	"github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	"github.com/quadralivre/facility-booking-service/internal/service/bookings/models"
	"github.com/quadralivre/facility-booking-service/pkg/ptr"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Фейки зависимостей сервиса

type fakeBookingRepo struct {
	bookings map[int64]*domain.OneOffBooking
	nextID   int64
	listed   []*domain.OneOffBooking

	lastFilter       domain.BookingsFilter
	lastCancelReason string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*domain.OneOffBooking), nextID: 100}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.OneOffBooking) (*domain.OneOffBooking, error) {
	created := *b
	created.ID = f.nextID
	f.nextID++
	f.bookings[created.ID] = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.OneOffBooking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.OneOffBooking, error) {
	f.lastFilter = filter
	return f.listed, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	f.lastCancelReason = reason
	return nil
}

type fakeRecurringRepo struct {
	recurrings map[int64]*domain.RecurringBooking
	exceptions []*domain.RecurringException
	listed     []*domain.RecurringBooking

	exceptionExists bool
	lastException   *domain.RecurringException
}

func newFakeRecurringRepo() *fakeRecurringRepo {
	return &fakeRecurringRepo{recurrings: make(map[int64]*domain.RecurringBooking)}
}

func (f *fakeRecurringRepo) GetByID(_ context.Context, id int64) (*domain.RecurringBooking, error) {
	rb, ok := f.recurrings[id]
	if !ok {
		return nil, recurringRepo.ErrRecurringNotFound
	}
	copied := *rb
	return &copied, nil
}

func (f *fakeRecurringRepo) ListByOwner(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.RecurringBooking, error) {
	return f.listed, nil
}

func (f *fakeRecurringRepo) ListActiveByResource(_ context.Context, _ int64) ([]*domain.RecurringBooking, error) {
	return f.listed, nil
}

func (f *fakeRecurringRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	f.recurrings[id].Status = status
	return nil
}

func (f *fakeRecurringRepo) UpdateOwner(_ context.Context, id int64, newOwnerID int64) error {
	f.recurrings[id].OwnerID = newOwnerID
	return nil
}

func (f *fakeRecurringRepo) CreateException(_ context.Context, exc *domain.RecurringException) (*domain.RecurringException, error) {
	if f.exceptionExists {
		return nil, recurringRepo.ErrExceptionExists
	}
	created := *exc
	created.ID = 7
	f.lastException = &created
	return &created, nil
}

func (f *fakeRecurringRepo) ListExceptions(_ context.Context, _ int64) ([]*domain.RecurringException, error) {
	return f.exceptions, nil
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

type fixture struct {
	bookingRepo   *fakeBookingRepo
	recurringRepo *fakeRecurringRepo
	access        *fakeAccessClient
	cal           *fakeCalendar
}

func newFixture() *fixture {
	return &fixture{
		bookingRepo:   newFakeBookingRepo(),
		recurringRepo: newFakeRecurringRepo(),
		access:        &fakeAccessClient{roles: map[int64]accessservice.Role{}},
		cal:           &fakeCalendar{today: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func (f *fixture) service() *Service {
	return NewService(f.bookingRepo, f.recurringRepo, f.access, fakeTxManager{}, f.cal, nopLogger{})
}

const (
	ownerID     = int64(55)
	adminID     = int64(1)
	strangerID  = int64(77)
	newOwnerID  = int64(88)
	bookingID   = int64(10)
	recurringID = int64(20)
)

func (f *fixture) seedBooking(status domain.BookingStatus) {
	f.bookingRepo.bookings[bookingID] = &domain.OneOffBooking{
		ID:         bookingID,
		ResourceID: 3,
		Date:       time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  "19:00",
		OwnerID:    ownerID,
		Status:     status,
	}
}

func (f *fixture) seedRecurring(status domain.BookingStatus) {
	f.recurringRepo.recurrings[recurringID] = &domain.RecurringBooking{
		ID:         recurringID,
		ResourceID: 3,
		Weekday:    time.Wednesday,
		StartTime:  "19:00",
		OwnerID:    ownerID,
		Status:     status,
	}
}

func TestGetOneOff(t *testing.T) {
	t.Run("owner can read own booking", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)

		resp, err := f.service().GetOneOff(context.Background(), bookingID, ownerID)

		require.NoError(t, err)
		assert.Equal(t, bookingID, resp.ID)
		assert.Equal(t, "2025-10-15", resp.Date)
		assert.Equal(t, "19:00", resp.StartTime)
	})

	t.Run("admin can read someone else's booking", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)
		f.access.roles[adminID] = accessservice.RoleAdminMaster

		_, err := f.service().GetOneOff(context.Background(), bookingID, adminID)
		require.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)

		_, err := f.service().GetOneOff(context.Background(), bookingID, strangerID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.service().GetOneOff(context.Background(), bookingID, ownerID)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGetOwnerBookings(t *testing.T) {
	t.Run("owner sees own history including terminal records", func(t *testing.T) {
		f := newFixture()
		f.bookingRepo.listed = []*domain.OneOffBooking{{
			ID: 1, ResourceID: 3, OwnerID: ownerID, Status: domain.StatusCancelled,
			Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), StartTime: "10:00",
		}}
		f.recurringRepo.listed = []*domain.RecurringBooking{{
			ID: 2, ResourceID: 3, OwnerID: ownerID, Status: domain.StatusConfirmed,
			Weekday: time.Wednesday, StartTime: "19:00",
		}}

		resp, err := f.service().GetOwnerBookings(context.Background(), &models.GetOwnerBookingsRequest{
			RequesterID: ownerID,
			OwnerID:     ownerID,
		})

		require.NoError(t, err)
		require.Len(t, resp.OneOff, 1)
		require.Len(t, resp.Recurring, 1)
		assert.True(t, f.bookingRepo.lastFilter.IncludeInactive)
	})

	t.Run("status filter is validated", func(t *testing.T) {
		f := newFixture()

		_, err := f.service().GetOwnerBookings(context.Background(), &models.GetOwnerBookingsRequest{
			RequesterID: ownerID,
			OwnerID:     ownerID,
			Status:      ptr.Ptr("done"),
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("stranger cannot read someone else's history", func(t *testing.T) {
		f := newFixture()

		_, err := f.service().GetOwnerBookings(context.Background(), &models.GetOwnerBookingsRequest{
			RequesterID: strangerID,
			OwnerID:     ownerID,
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestGetResourceBookings(t *testing.T) {
	t.Run("admin only", func(t *testing.T) {
		f := newFixture()

		_, err := f.service().GetResourceBookings(context.Background(), &models.GetResourceBookingsRequest{
			RequesterID: ownerID,
			ResourceID:  3,
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("filter is passed to the repository", func(t *testing.T) {
		f := newFixture()
		f.access.roles[adminID] = accessservice.RoleAdminAttendant
		start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

		_, err := f.service().GetResourceBookings(context.Background(), &models.GetResourceBookingsRequest{
			RequesterID: adminID,
			ResourceID:  3,
			StartDate:   &start,
			Status:      ptr.Ptr("confirmed"),
		})

		require.NoError(t, err)
		require.NotNil(t, f.bookingRepo.lastFilter.ResourceID)
		assert.Equal(t, int64(3), *f.bookingRepo.lastFilter.ResourceID)
		require.NotNil(t, f.bookingRepo.lastFilter.Status)
		assert.Equal(t, domain.StatusConfirmed, *f.bookingRepo.lastFilter.Status)
	})
}

func TestCancelOneOff(t *testing.T) {
	t.Run("owner cancels and the reason is stored", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)

		err := f.service().CancelOneOff(context.Background(), bookingID, &models.CancelBookingRequest{
			RequesterID:        ownerID,
			CancellationReason: "rain",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, f.bookingRepo.bookings[bookingID].Status)
		assert.Equal(t, "rain", f.bookingRepo.lastCancelReason)
	})

	t.Run("terminal booking cannot be cancelled", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusCompleted)

		err := f.service().CancelOneOff(context.Background(), bookingID, &models.CancelBookingRequest{RequesterID: ownerID})
		assert.ErrorIs(t, err, ErrTerminalStatus)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()

		err := f.service().CancelOneOff(context.Background(), bookingID, &models.CancelBookingRequest{RequesterID: ownerID})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestCancelRecurring(t *testing.T) {
	t.Run("owner cancels the whole series", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)

		err := f.service().CancelRecurring(context.Background(), recurringID, &models.CancelBookingRequest{RequesterID: ownerID})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, f.recurringRepo.recurrings[recurringID].Status)
	})

	t.Run("cancelled series stays cancelled", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusCancelled)

		err := f.service().CancelRecurring(context.Background(), recurringID, &models.CancelBookingRequest{RequesterID: ownerID})
		assert.ErrorIs(t, err, ErrTerminalStatus)
	})
}

func TestCompleteOneOff(t *testing.T) {
	t.Run("admin completes a booking", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)
		f.access.roles[adminID] = accessservice.RoleAdminAttendant

		err := f.service().CompleteOneOff(context.Background(), bookingID, adminID)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, f.bookingRepo.bookings[bookingID].Status)
	})

	t.Run("owner without admin role is denied", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)

		err := f.service().CompleteOneOff(context.Background(), bookingID, ownerID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("terminal booking cannot be completed again", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusCancelled)
		f.access.roles[adminID] = accessservice.RoleAdminMaster

		err := f.service().CompleteOneOff(context.Background(), bookingID, adminID)
		assert.ErrorIs(t, err, ErrTerminalStatus)
	})
}

func TestTransferOneOff(t *testing.T) {
	t.Run("old booking releases the slot, new one takes it", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)
		original := f.bookingRepo.bookings[bookingID]
		original.InstructorID = ptr.Ptr(int64(5))
		original.SessionKind = ptr.Ptr(domain.SessionClass)

		resp, err := f.service().TransferOneOff(context.Background(), bookingID, &models.TransferBookingRequest{
			RequesterID: ownerID,
			NewOwnerID:  newOwnerID,
		})

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusTransferred), resp.OldBooking.Status)
		assert.Equal(t, domain.StatusTransferred, f.bookingRepo.bookings[bookingID].Status)

		assert.Equal(t, newOwnerID, resp.NewBooking.OwnerID)
		assert.Equal(t, string(domain.StatusConfirmed), resp.NewBooking.Status)
		assert.Equal(t, resp.OldBooking.Date, resp.NewBooking.Date)
		assert.Equal(t, resp.OldBooking.StartTime, resp.NewBooking.StartTime)
		require.NotNil(t, resp.NewBooking.InstructorID)
		assert.Equal(t, int64(5), *resp.NewBooking.InstructorID)
	})

	t.Run("transfer to the same owner is rejected", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)

		_, err := f.service().TransferOneOff(context.Background(), bookingID, &models.TransferBookingRequest{
			RequesterID: ownerID,
			NewOwnerID:  ownerID,
		})

		assert.ErrorIs(t, err, ErrSelfTransfer)
	})

	t.Run("past slot cannot be transferred", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)
		f.cal.today = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

		_, err := f.service().TransferOneOff(context.Background(), bookingID, &models.TransferBookingRequest{
			RequesterID: ownerID,
			NewOwnerID:  newOwnerID,
		})

		assert.ErrorIs(t, err, ErrPastDate)
	})

	t.Run("terminal booking cannot be transferred", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusTransferred)

		_, err := f.service().TransferOneOff(context.Background(), bookingID, &models.TransferBookingRequest{
			RequesterID: ownerID,
			NewOwnerID:  newOwnerID,
		})

		assert.ErrorIs(t, err, ErrTerminalStatus)
	})

	t.Run("admin transfers someone else's booking", func(t *testing.T) {
		f := newFixture()
		f.seedBooking(domain.StatusConfirmed)
		f.access.roles[adminID] = accessservice.RoleAdminAttendant

		resp, err := f.service().TransferOneOff(context.Background(), bookingID, &models.TransferBookingRequest{
			RequesterID: adminID,
			NewOwnerID:  newOwnerID,
		})

		require.NoError(t, err)
		assert.Equal(t, newOwnerID, resp.NewBooking.OwnerID)
	})
}

func TestTransferRecurring(t *testing.T) {
	t.Run("series keeps slot and exceptions, owner changes", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)

		resp, err := f.service().TransferRecurring(context.Background(), recurringID, &models.TransferBookingRequest{
			RequesterID: ownerID,
			NewOwnerID:  newOwnerID,
		})

		require.NoError(t, err)
		assert.Equal(t, newOwnerID, resp.OwnerID)
		assert.Equal(t, 3, resp.Weekday)
		assert.Equal(t, "19:00", resp.StartTime)
		assert.Equal(t, newOwnerID, f.recurringRepo.recurrings[recurringID].OwnerID)
	})

	t.Run("self transfer is rejected", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)

		_, err := f.service().TransferRecurring(context.Background(), recurringID, &models.TransferBookingRequest{
			RequesterID: ownerID,
			NewOwnerID:  ownerID,
		})

		assert.ErrorIs(t, err, ErrSelfTransfer)
	})

	t.Run("cancelled series cannot be transferred", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusCancelled)

		_, err := f.service().TransferRecurring(context.Background(), recurringID, &models.TransferBookingRequest{
			RequesterID: ownerID,
			NewOwnerID:  newOwnerID,
		})

		assert.ErrorIs(t, err, ErrTerminalStatus)
	})
}

func TestCreateException(t *testing.T) {
	// 2025-10-15 среда, серия из seedRecurring по средам
	validDate := "2025-10-15"

	t.Run("owner skips one occurrence", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)

		resp, err := f.service().CreateException(context.Background(), recurringID, &models.CreateExceptionRequest{
			RequesterID: ownerID,
			Date:        validDate,
			Reason:      ptr.Ptr("travel"),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, recurringID, resp.RecurringBookingID)
		assert.Equal(t, validDate, resp.Date)
		assert.Equal(t, ownerID, f.recurringRepo.lastException.CreatedBy)
	})

	t.Run("date must fall on the series weekday", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)

		_, err := f.service().CreateException(context.Background(), recurringID, &models.CreateExceptionRequest{
			RequesterID: ownerID,
			Date:        "2025-10-16", // четверг
		})

		assert.ErrorIs(t, err, ErrInvalidExceptionDate)
	})

	t.Run("date before series start is rejected", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)
		start := time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)
		f.recurringRepo.recurrings[recurringID].StartDate = &start

		_, err := f.service().CreateException(context.Background(), recurringID, &models.CreateExceptionRequest{
			RequesterID: ownerID,
			Date:        validDate,
		})

		assert.ErrorIs(t, err, ErrInvalidExceptionDate)
	})

	t.Run("past date is rejected", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)
		f.cal.today = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

		_, err := f.service().CreateException(context.Background(), recurringID, &models.CreateExceptionRequest{
			RequesterID: ownerID,
			Date:        validDate,
		})

		assert.ErrorIs(t, err, ErrPastDate)
	})

	t.Run("duplicate exception", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)
		f.recurringRepo.exceptionExists = true

		_, err := f.service().CreateException(context.Background(), recurringID, &models.CreateExceptionRequest{
			RequesterID: ownerID,
			Date:        validDate,
		})

		assert.ErrorIs(t, err, ErrExceptionExists)
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)

		_, err := f.service().CreateException(context.Background(), recurringID, &models.CreateExceptionRequest{
			RequesterID: ownerID,
			Date:        "15/10/2025",
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("reason length is capped", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusConfirmed)
		long := strings.Repeat("x", domain.MaxExceptionReasonLength+1)

		_, err := f.service().CreateException(context.Background(), recurringID, &models.CreateExceptionRequest{
			RequesterID: ownerID,
			Date:        validDate,
			Reason:      &long,
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("cancelled series rejects exceptions", func(t *testing.T) {
		f := newFixture()
		f.seedRecurring(domain.StatusCancelled)

		_, err := f.service().CreateException(context.Background(), recurringID, &models.CreateExceptionRequest{
			RequesterID: ownerID,
			Date:        validDate,
		})

		assert.ErrorIs(t, err, ErrTerminalStatus)
	})
}
