package create_recurring_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден в каталоге
	ErrResourceNotFound = errors.New("create_recurring_booking: resource not found")

	// ErrResourceInactive возвращается, когда ресурс выведен из эксплуатации
	ErrResourceInactive = errors.New("create_recurring_booking: resource is inactive")

	// ErrAccessDenied возвращается при бронировании от чужого имени без прав
	ErrAccessDenied = errors.New("create_recurring_booking: access denied")

	// ErrInvalidStartDate возвращается, когда дата начала в прошлом или
	// не попадает на день недели серии
	ErrInvalidStartDate = errors.New("create_recurring_booking: invalid start date")

	// ErrInvalidTimeSlot возвращается, когда время вне рабочих часов или
	// не выровнено по сетке слотов
	ErrInvalidTimeSlot = errors.New("create_recurring_booking: invalid time slot")

	// ErrShiftRequired возвращается, когда для зоны барбекю не указана смена
	ErrShiftRequired = errors.New("create_recurring_booking: shift is required for this resource")

	// ErrStartTimeRequired возвращается, когда для корта не указано время начала
	ErrStartTimeRequired = errors.New("create_recurring_booking: start time is required for this resource")

	// ErrOutsideTeachingWindow возвращается, когда занятие с инструктором
	// не попадает в окно преподавания
	ErrOutsideTeachingWindow = errors.New("create_recurring_booking: outside teaching window")

	// ErrSlotTaken возвращается, когда слот уже занят другой еженедельной серией
	ErrSlotTaken = errors.New("create_recurring_booking: weekly slot is already taken")

	// ErrUpcomingOneOffs возвращается, когда на слоте есть будущие
	// одноразовые бронирования и серия без сдвига начала накрыла бы их
	ErrUpcomingOneOffs = errors.New("create_recurring_booking: slot has upcoming one-off bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_recurring_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_recurring_booking: internal error")
)

// StartDateConflictError детализирует ErrUpcomingOneOffs: какие даты заняты
// и с каких дат серия могла бы начаться без конфликтов
type StartDateConflictError struct {
	ConflictDates  []time.Time
	SuggestedDates []time.Time
}

func (e *StartDateConflictError) Error() string {
	return fmt.Sprintf("%v: %d conflicting dates, %d suggestions",
		ErrUpcomingOneOffs, len(e.ConflictDates), len(e.SuggestedDates))
}

// Unwrap позволяет errors.Is(err, ErrUpcomingOneOffs)
func (e *StartDateConflictError) Unwrap() error {
	return ErrUpcomingOneOffs
}

// FormatDates форматирует даты для ответа API
func FormatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(domain.DateFormat))
	}
	return out
}
