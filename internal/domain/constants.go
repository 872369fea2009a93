package domain

import "github.com/quadralivre/facility-booking-service/pkg/types"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Canonical shift start times for BBQ pits
const (
	DayShiftStart   types.TimeString = "10:00"
	NightShiftStart types.TimeString = "18:00"
)

// Default scheduling parameters, overridable via config
const (
	// DefaultSlotDurationMinutes длительность слота корта
	DefaultSlotDurationMinutes = 60

	// DefaultConflictHorizonWeeks сколько недель вперед проверяются
	// одноразовые бронирования при создании еженедельного
	DefaultConflictHorizonWeeks = 26

	// DefaultSuggestionMaxWeeks ограничение поиска ближайшей свободной даты
	DefaultSuggestionMaxWeeks = 26

	// DefaultSuggestionMaxResults сколько дат предлагать при конфликте
	DefaultSuggestionMaxResults = 3

	// MaxExpandOccurrences жесткий потолок итераций разворачивания
	// еженедельной серии, защита от незамкнутых окон
	MaxExpandOccurrences = 104
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxExceptionReasonLength    = 500
)

// TerminalStatuses список терминальных статусов бронирования.
// Бронирование в терминальном статусе не занимает слот и не меняет статус.
var TerminalStatuses = []BookingStatus{
	StatusCancelled,
	StatusTransferred,
	StatusCompleted,
}

// SlotHoldingStatuses статусы, при которых бронирование удерживает слот
var SlotHoldingStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
}

// SlotReleasingStatuses статусы, освобождающие слот
var SlotReleasingStatuses = []BookingStatus{
	StatusCancelled,
	StatusTransferred,
}
