package scheduling

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/recurrence"
)

// ConflictProbe отвечает, занята ли кандидатная дата. Вызывающий обычно
// замыкает сюда запрос к хранилищу одноразовых бронирований: еженедельные
// конфликты здесь не проверяются, поиск запускается именно для разрешения
// коллизии нового еженедельного бронирования с существующими одноразовыми.
type ConflictProbe func(date time.Time) (bool, error)

// NextFreeStartDates шагает по неделям от первой даты с нужным днем недели
// не раньше fromDate и собирает до maxResults свободных дат, прекращая
// после maxWeeks шагов. Пустой результат - штатный ответ "предложений нет",
// не ошибка.
func NextFreeStartDates(
	fromDate time.Time,
	weekday time.Weekday,
	maxWeeks, maxResults int,
	hasConflict ConflictProbe,
) ([]time.Time, error) {
	if maxWeeks <= 0 || maxResults <= 0 {
		return []time.Time{}, nil
	}

	dates := make([]time.Time, 0, maxResults)
	candidate := recurrence.NextOnOrAfter(weekday, fromDate)

	for week := 0; week < maxWeeks && len(dates) < maxResults; week++ {
		conflicted, err := hasConflict(candidate)
		if err != nil {
			return nil, err
		}
		if !conflicted {
			dates = append(dates, candidate)
		}
		candidate = candidate.AddDate(0, 0, 7)
	}

	return dates, nil
}
