package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

var (
	// ErrInvalidTimeFormat возвращается при неразборчивом значении времени
	ErrInvalidTimeFormat = errors.New("types: invalid time string format, expected HH:MM")
)

// TimeString время суток в формате "HH:MM".
// Используется вместо time.Time для слотов: слот привязан к календарному дню,
// а не к конкретному моменту, поэтому хранится как строка без часового пояса.
type TimeString string

// NewTimeString создает TimeString из компонента времени time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" в TimeString
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return TimeString(t.Format(timeLayout)), nil
}

// String возвращает строковое представление "HH:MM"
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero возвращает true для пустого значения
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет формат значения
func (ts TimeString) Validate() error {
	_, err := ts.minutes()
	return err
}

// IsBefore возвращает true, если ts строго раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	a, errA := ts.minutes()
	b, errB := other.minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	a, errA := ts.minutes()
	b, errB := other.minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a > b
}

// Equal возвращает true при совпадении значений с точностью до минуты
func (ts TimeString) Equal(other TimeString) bool {
	a, errA := ts.minutes()
	b, errB := other.minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a == b
}

// AddMinutes возвращает время, сдвинутое на minutes вперед.
// Результат обрезается по границе суток (23:59 максимум не контролируется,
// переход через полночь считается ошибкой вызывающего).
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := ts.minutes()
	if err != nil {
		return "", err
	}
	total += minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %q + %d minutes crosses day boundary", ErrInvalidTimeFormat, ts, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// MinutesSinceMidnight возвращает количество минут с начала суток
func (ts TimeString) MinutesSinceMidnight() (int, error) {
	return ts.minutes()
}

func (ts TimeString) minutes() (int, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, ts)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Value реализует driver.Valuer для записи в БД
func (ts TimeString) Value() (driver.Value, error) {
	if ts == "" {
		return nil, nil
	}
	return string(ts), nil
}

// Scan реализует sql.Scanner для чтения из БД.
// Поддерживает TIME колонки ("10:00:00"), текстовые колонки и time.Time.
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case string:
		return ts.scanString(v)
	case []byte:
		return ts.scanString(string(v))
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeFormat, src)
	}
}

func (ts *TimeString) scanString(s string) error {
	// TIME колонки приходят с секундами, обрезаем до HH:MM
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
