package calendar

import (
	"fmt"
	"time"

	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// DateFormat формат календарной даты
const DateFormat = "2006-01-02"

// Calendar единственный владелец преобразований "календарный день площадки
// <-> канонический момент". Все остальные пакеты обязаны ходить сюда,
// а не выводить часовые пояса самостоятельно.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New создает календарь для настроенного часового пояса площадки
// (например, "America/Sao_Paulo")
func New(timezone string) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar: load timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc, now: time.Now}, nil
}

// NewWithNow создает календарь с подменяемым источником времени (для тестов)
func NewWithNow(timezone string, now func() time.Time) (*Calendar, error) {
	cal, err := New(timezone)
	if err != nil {
		return nil, err
	}
	cal.now = now
	return cal, nil
}

// Canonical возвращает канонический маркер календарного дня: полночь UTC
// с теми же цифрами даты. Бронирования дневной гранулярности хранятся и
// сравниваются через этот маркер, поэтому не плывут при переходах на
// летнее время и не зависят от пояса сервера.
func Canonical(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит "YYYY-MM-DD" в канонический маркер дня
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: parse date %q: %w", s, err)
	}
	return Canonical(t), nil
}

// WeekdayIndex возвращает день недели даты, 0 = воскресенье.
// Считается по цифрам даты (канонический маркер), не по поясу исполнения.
func WeekdayIndex(date time.Time) time.Weekday {
	return Canonical(date).Weekday()
}

// SameDay возвращает true, если обе даты указывают на один календарный день
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Location возвращает часовой пояс площадки
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today возвращает канонический маркер сегодняшнего дня в поясе площадки.
// Именно здесь, и только здесь, берется wall-clock "сейчас".
func (c *Calendar) Today() time.Time {
	return Canonical(c.now().In(c.loc))
}

// Now возвращает текущий момент в поясе площадки
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// IsPastDay возвращает true, если календарный день date уже прошел
// в поясе площадки
func (c *Calendar) IsPastDay(date time.Time) bool {
	return Canonical(date).Before(c.Today())
}

// DayBoundaries возвращает [начало дня, начало следующего дня) в поясе
// площадки как реальные моменты времени
func (c *Calendar) DayBoundaries(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, c.loc)
	return start, start.AddDate(0, 0, 1)
}

// PastSlot возвращает true, если слот (день + время начала) уже начался
// в поясе площадки
func (c *Calendar) PastSlot(date time.Time, startTime types.TimeString) bool {
	if c.IsPastDay(date) {
		return true
	}
	if !SameDay(Canonical(date), c.Today()) {
		return false
	}
	minutes, err := startTime.MinutesSinceMidnight()
	if err != nil {
		return false
	}
	now := c.Now()
	return now.Hour()*60+now.Minute() >= minutes
}
