package scheduling

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// ResolveWindow выбирает действующее учебное окно для (вид спорта, день
// недели, тип занятия) по иерархии приоритетов:
//  1. дневное окно (Weekday совпадает)
//  2. окно по умолчанию (Weekday = nil)
//
// Возвращает nil, если не настроено ни одно окно: отсутствие настройки -
// разрешение, а не запрет.
func ResolveWindow(windows []*domain.TeachingWindow, weekday time.Weekday, kind domain.SessionKind) *domain.TeachingWindow {
	var fallback *domain.TeachingWindow

	for _, w := range windows {
		if !w.Active || w.SessionKind != kind {
			continue
		}
		if w.Weekday != nil && *w.Weekday == weekday {
			return w
		}
		if w.Weekday == nil && fallback == nil {
			fallback = w
		}
	}

	return fallback
}

// WithinWindow проверяет запрошенный интервал против действующего окна.
// Ненастроенное окно (nil) пропускает любой интервал; настроенное требует
// пересечения, частичное пересечение допустимо.
func WithinWindow(window *domain.TeachingWindow, start types.TimeString, durationMinutes int) bool {
	if window == nil {
		return true
	}
	return window.Overlaps(start, durationMinutes)
}
