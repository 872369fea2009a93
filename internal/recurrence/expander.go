package recurrence

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/domain"
)

// ExceptionDates набор дат, подавленных исключениями, с доступом за O(1)
type ExceptionDates map[string]struct{}

// NewExceptionDates строит набор дат из записей исключений
func NewExceptionDates(exceptions []*domain.RecurringException) ExceptionDates {
	set := make(ExceptionDates, len(exceptions))
	for _, e := range exceptions {
		set[calendar.Canonical(e.Date).Format(calendar.DateFormat)] = struct{}{}
	}
	return set
}

// Contains возвращает true, если дата подавлена исключением
func (s ExceptionDates) Contains(date time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s[calendar.Canonical(date).Format(calendar.DateFormat)]
	return ok
}

// IsActiveOccurrence возвращает true, если date является активным
// вхождением еженедельного бронирования: статус не терминальный, день
// недели совпадает, дата не раньше StartDate и нет исключения на эту дату.
func IsActiveOccurrence(rb *domain.RecurringBooking, date time.Time, exceptions ExceptionDates) bool {
	if rb.IsTerminal() {
		return false
	}

	day := calendar.Canonical(date)
	if calendar.WeekdayIndex(day) != rb.Weekday {
		return false
	}
	if rb.StartDate != nil && day.Before(calendar.Canonical(*rb.StartDate)) {
		return false
	}
	return !exceptions.Contains(day)
}

// NextOnOrAfter возвращает первую дату с днем недели weekday, не раньше from
func NextOnOrAfter(weekday time.Weekday, from time.Time) time.Time {
	day := calendar.Canonical(from)
	offset := (int(weekday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

// ExpandOccurrences перечисляет даты вхождений еженедельного бронирования
// в полуинтервале [max(windowStart, StartDate), windowEnd), пропуская
// подавленные исключениями. Чистая функция своих аргументов: два вызова
// с одинаковыми входами дают одинаковый результат.
//
// maxOccurrences ограничивает число произведенных дат; значения <= 0 или
// выше потолка заменяются на domain.MaxExpandOccurrences, чтобы цикл был
// ограничен даже при очень широком окне.
func ExpandOccurrences(
	rb *domain.RecurringBooking,
	windowStart, windowEnd time.Time,
	maxOccurrences int,
	exceptions ExceptionDates,
) []time.Time {
	if maxOccurrences <= 0 || maxOccurrences > domain.MaxExpandOccurrences {
		maxOccurrences = domain.MaxExpandOccurrences
	}

	start := calendar.Canonical(windowStart)
	if rb.StartDate != nil {
		if sd := calendar.Canonical(*rb.StartDate); sd.After(start) {
			start = sd
		}
	}
	end := calendar.Canonical(windowEnd)

	occurrences := make([]time.Time, 0)
	if rb.IsTerminal() || !start.Before(end) {
		return occurrences
	}

	for current := NextOnOrAfter(rb.Weekday, start); current.Before(end); current = current.AddDate(0, 0, 7) {
		if len(occurrences) >= maxOccurrences {
			break
		}
		if exceptions.Contains(current) {
			continue
		}
		occurrences = append(occurrences, current)
	}

	return occurrences
}
