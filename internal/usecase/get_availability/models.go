package get_availability

import (
	"time"

	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Params параметры сетки слотов комплекса
type Params struct {
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int
}

// Request модель запроса доступности. Без StartTime и Shift возвращается
// картина всего дня; с одним из них проверяется единственный слот.
type Request struct {
	ResourceID int64
	Date       time.Time
	StartTime  types.TimeString // проверка одного слота корта
	Shift      domain.Shift     // проверка одной смены зоны барбекю
}

// SlotStatus доступность одного слота
type SlotStatus struct {
	StartTime types.TimeString
	Shift     domain.Shift // заполняется для зон барбекю
	Available bool

	// ConflictKind заполняется для занятых слотов: "blocked", "one_off"
	// или "recurring"
	ConflictKind string
}

// Response картина доступности ресурса на день
type Response struct {
	ResourceID int64
	Date       time.Time
	Category   domain.ResourceCategory
	Slots      []SlotStatus
}
