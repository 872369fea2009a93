package create_recurring_booking

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Params параметры календаря и горизонтов проверки
type Params struct {
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int

	// ConflictHorizonWeeks сколько недель вперед проверяются будущие
	// одноразовые бронирования на слоте серии
	ConflictHorizonWeeks int

	// SuggestionMaxWeeks и SuggestionMaxResults ограничивают подбор
	// альтернативных дат начала
	SuggestionMaxWeeks   int
	SuggestionMaxResults int
}

// Request модель запроса на создание еженедельного бронирования
type Request struct {
	RequesterID int64
	OwnerID     int64
	ResourceID  int64
	Weekday     int              // 0 = воскресенье
	StartTime   types.TimeString // время начала слота корта
	Shift       domain.Shift     // смена зоны барбекю

	// StartDate сдвигает начало действия серии вперед, освобождая более
	// ранние занятые даты. Пустое значение - серия действует с создания.
	StartDate *time.Time

	InstructorID *int64
	SessionKind  *domain.SessionKind
}

// Response модель ответа с созданной серией
type Response struct {
	ID         int64
	ResourceID int64
	Weekday    int
	StartTime  types.TimeString
	Shift      domain.Shift
	OwnerID    int64
	Status     string
	StartDate  *time.Time

	InstructorID *int64
	SessionKind  *domain.SessionKind

	CreatedAt time.Time
	UpdatedAt time.Time
}
