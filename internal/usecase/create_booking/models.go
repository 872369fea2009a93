package create_booking

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Params параметры календаря комплекса для валидации слотов
type Params struct {
	OpenTime            types.TimeString // начало рабочего дня, например "07:00"
	CloseTime           types.TimeString // конец рабочего дня, например "23:00"
	SlotDurationMinutes int              // длительность слота корта
}

// Request модель запроса на создание одноразового бронирования.
// Для кортов передается StartTime, для зон барбекю Shift.
type Request struct {
	RequesterID int64
	OwnerID     int64 // владелец бронирования; отличается от RequesterID при брони администратором
	ResourceID  int64
	Date        time.Time        // календарная дата (без времени)
	StartTime   types.TimeString // время начала слота корта
	Shift       domain.Shift     // смена зоны барбекю: "day" или "night"

	// Занятие с инструктором проверяется против окон преподавания
	InstructorID *int64
	SessionKind  *domain.SessionKind

	Notes *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	ResourceID int64
	Date       time.Time
	StartTime  types.TimeString
	Shift      domain.Shift // заполняется для зон барбекю
	OwnerID    int64
	Status     string

	InstructorID *int64
	SessionKind  *domain.SessionKind
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
