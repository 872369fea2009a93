package teachingwindow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/pkg/dbmetrics"
	"github.com/quadralivre/facility-booking-service/pkg/psqlbuilder"
)

// DBExecutor общий интерфейс исполнителя запросов
type DBExecutor = dbmetrics.DBExecutor

var windowColumns = []string{
	"id",
	"sport_id",
	"weekday",
	"session_kind",
	"start_time",
	"end_time",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий учебных окон
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория учебных окон
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает окно или обновляет времена существующего для той же
// комбинации (sport_id, weekday, session_kind)
func (r *Repository) Upsert(ctx context.Context, window *domain.TeachingWindow) (*domain.TeachingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var weekday interface{}
	if window.Weekday != nil {
		weekday = int(*window.Weekday)
	}

	// Частичные уникальные индексы не работают с ON CONFLICT по колонкам,
	// поэтому используем COALESCE-выражение индекса
	query, args, err := psqlbuilder.Insert("teaching_windows").
		Columns(
			"sport_id",
			"weekday",
			"session_kind",
			"start_time",
			"end_time",
			"active",
		).
		Values(
			window.SportID,
			weekday,
			window.SessionKind,
			window.StartTime,
			window.EndTime,
			window.Active,
		).
		Suffix(`ON CONFLICT (sport_id, COALESCE(weekday, -1), session_kind)
			DO UPDATE SET start_time = EXCLUDED.start_time,
			              end_time = EXCLUDED.end_time,
			              active = EXCLUDED.active,
			              updated_at = NOW()`).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&window.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	window.CreatedAt = createdAt.Time
	window.UpdatedAt = updatedAt.Time

	return window, nil
}

// ListForSportKind получает активные окна (дневные и по умолчанию) для
// вида спорта и типа занятия. Выбор действующего окна делает scheduling.ResolveWindow.
func (r *Repository) ListForSportKind(ctx context.Context, sportID int64, kind domain.SessionKind) ([]*domain.TeachingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("teaching_windows").
		Where(squirrel.Eq{
			"sport_id":     sportID,
			"session_kind": kind,
			"active":       true,
		}).
		OrderBy("weekday ASC NULLS LAST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForSportKind - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForSportKind - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanWindows(rows)
}

// ListBySport получает все окна вида спорта, включая неактивные
func (r *Repository) ListBySport(ctx context.Context, sportID int64) ([]*domain.TeachingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("teaching_windows").
		Where(squirrel.Eq{"sport_id": sportID}).
		OrderBy("session_kind ASC, weekday ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBySport - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySport - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanWindows(rows)
}

// Deactivate выключает окно, не удаляя его
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("teaching_windows").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrWindowNotFound
	}

	return nil
}

func (r *Repository) scanWindows(rows *sql.Rows) ([]*domain.TeachingWindow, error) {
	windows := make([]*domain.TeachingWindow, 0)

	for rows.Next() {
		var window domain.TeachingWindow
		var weekday sql.NullInt64
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&window.ID,
			&window.SportID,
			&weekday,
			&window.SessionKind,
			&window.StartTime,
			&window.EndTime,
			&window.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanWindows - scan row: %v", ErrScanRow, err)
		}

		if weekday.Valid {
			day := time.Weekday(weekday.Int64)
			window.Weekday = &day
		}
		window.CreatedAt = createdAt.Time
		window.UpdatedAt = updatedAt.Time

		windows = append(windows, &window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}
