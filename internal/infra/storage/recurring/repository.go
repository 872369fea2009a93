package recurring

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/pkg/dbmetrics"
	"github.com/quadralivre/facility-booking-service/pkg/psqlbuilder"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

const (
	// uniqueSlotConstraint частичный уникальный индекс активного
	// еженедельного слота
	uniqueSlotConstraint = "uq_recurring_slot"

	// uniqueExceptionConstraint уникальность (recurring_booking_id, date)
	uniqueExceptionConstraint = "uq_recurring_exceptions_date"

	pgUniqueViolation = "23505"
)

var recurringColumns = []string{
	"id",
	"resource_id",
	"weekday",
	"start_time",
	"owner_id",
	"status",
	"start_date",
	"instructor_id",
	"session_kind",
	"created_at",
	"updated_at",
}

// Repository репозиторий еженедельных бронирований и их исключений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает еженедельное бронирование.
// Нарушение уникальности активного слота транслируется в ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, rb *domain.RecurringBooking) (*domain.RecurringBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("recurring_bookings").
		Columns(
			"resource_id",
			"weekday",
			"start_time",
			"owner_id",
			"status",
			"start_date",
			"instructor_id",
			"session_kind",
		).
		Values(
			rb.ResourceID,
			int(rb.Weekday),
			rb.StartTime,
			rb.OwnerID,
			rb.Status,
			rb.StartDate,
			rb.InstructorID,
			rb.SessionKind,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rb.ID,
		&createdAt,
		&updatedAt,
	)

	if isUniqueViolation(err, uniqueSlotConstraint) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rb.CreatedAt = createdAt.Time
	rb.UpdatedAt = updatedAt.Time

	return rb, nil
}

// GetByID получает еженедельное бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RecurringBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(recurringColumns...).
		From("recurring_bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rb, err := r.scanRecurring(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRecurringNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan recurring booking: %v", ErrScanRow, err)
	}

	return rb, nil
}

// GetActiveBySlot получает активное еженедельное бронирование слота
// (resource_id, weekday, start_time), если оно есть.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetActiveBySlot(ctx context.Context, resourceID int64, weekday time.Weekday, startTime types.TimeString) (*domain.RecurringBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(recurringColumns...).
		From("recurring_bookings").
		Where(squirrel.Eq{
			"resource_id": resourceID,
			"weekday":     int(weekday),
			"start_time":  startTime,
			"status":      domain.StatusConfirmed,
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rb, err := r.scanRecurring(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRecurringNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - scan recurring booking: %v", ErrScanRow, err)
	}

	return rb, nil
}

// ListActiveByResource получает все активные еженедельные бронирования ресурса
func (r *Repository) ListActiveByResource(ctx context.Context, resourceID int64) ([]*domain.RecurringBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(recurringColumns...).
		From("recurring_bookings").
		Where(squirrel.Eq{
			"resource_id": resourceID,
			"status":      domain.StatusConfirmed,
		}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRecurrings(rows)
}

// ListByOwner получает еженедельные бронирования владельца
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.RecurringBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(recurringColumns...).
		From("recurring_bookings").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("weekday ASC, start_time ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRecurrings(rows)
}

// UpdateStatus обновляет статус еженедельного бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("recurring_bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRecurringNotFound
	}

	return nil
}

// UpdateOwner переназначает владельца еженедельного бронирования.
// Исключения остаются привязанными к бронированию: они ключуются по его id,
// а не по владельцу.
func (r *Repository) UpdateOwner(ctx context.Context, id int64, newOwnerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("recurring_bookings").
		Set("owner_id", newOwnerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateOwner - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateOwner - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateOwner - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRecurringNotFound
	}

	return nil
}

// CreateException создает исключение на одну дату еженедельного бронирования.
// Повторное исключение на ту же дату транслируется в ErrExceptionExists.
func (r *Repository) CreateException(ctx context.Context, exc *domain.RecurringException) (*domain.RecurringException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("recurring_exceptions").
		Columns(
			"recurring_booking_id",
			"exception_date",
			"reason",
			"created_by",
		).
		Values(
			exc.RecurringBookingID,
			exc.Date,
			exc.Reason,
			exc.CreatedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exc.ID,
		&createdAt,
	)

	if isUniqueViolation(err, uniqueExceptionConstraint) {
		return nil, ErrExceptionExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}

	exc.CreatedAt = createdAt.Time
	return exc, nil
}

// ListExceptions получает все исключения еженедельного бронирования
func (r *Repository) ListExceptions(ctx context.Context, recurringBookingID int64) ([]*domain.RecurringException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"recurring_booking_id",
		"exception_date",
		"reason",
		"created_by",
		"created_at",
	).
		From("recurring_exceptions").
		Where(squirrel.Eq{"recurring_booking_id": recurringBookingID}).
		OrderBy("exception_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.RecurringException, 0)
	for rows.Next() {
		var exc domain.RecurringException
		var createdAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.RecurringBookingID,
			&exc.Date,
			&exc.Reason,
			&exc.CreatedBy,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExceptions - scan row: %v", ErrScanRow, err)
		}

		exc.CreatedAt = createdAt.Time
		exceptions = append(exceptions, &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// ListExceptionsForBookings получает исключения сразу для набора
// бронирований, сгруппированные по id бронирования
func (r *Repository) ListExceptionsForBookings(ctx context.Context, recurringBookingIDs []int64) (map[int64][]*domain.RecurringException, error) {
	result := make(map[int64][]*domain.RecurringException, len(recurringBookingIDs))
	if len(recurringBookingIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"recurring_booking_id",
		"exception_date",
		"reason",
		"created_by",
		"created_at",
	).
		From("recurring_exceptions").
		Where(squirrel.Eq{"recurring_booking_id": recurringBookingIDs}).
		OrderBy("exception_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsForBookings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsForBookings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var exc domain.RecurringException
		var createdAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.RecurringBookingID,
			&exc.Date,
			&exc.Reason,
			&exc.CreatedBy,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExceptionsForBookings - scan row: %v", ErrScanRow, err)
		}

		exc.CreatedAt = createdAt.Time
		result[exc.RecurringBookingID] = append(result[exc.RecurringBookingID], &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsForBookings - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) scanRecurring(row interface{ Scan(dest ...interface{}) error }) (*domain.RecurringBooking, error) {
	var rb domain.RecurringBooking
	var weekday int
	var createdAt, updatedAt sql.NullTime
	var sessionKind sql.NullString

	err := row.Scan(
		&rb.ID,
		&rb.ResourceID,
		&weekday,
		&rb.StartTime,
		&rb.OwnerID,
		&rb.Status,
		&rb.StartDate,
		&rb.InstructorID,
		&sessionKind,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rb.Weekday = time.Weekday(weekday)
	if sessionKind.Valid {
		kind := domain.SessionKind(sessionKind.String)
		rb.SessionKind = &kind
	}
	rb.CreatedAt = createdAt.Time
	rb.UpdatedAt = updatedAt.Time

	return &rb, nil
}

func (r *Repository) scanRecurrings(rows *sql.Rows) ([]*domain.RecurringBooking, error) {
	bookings := make([]*domain.RecurringBooking, 0)

	for rows.Next() {
		rb, err := r.scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRecurrings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, rb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRecurrings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == constraint
	}
	return false
}
