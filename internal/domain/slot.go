package domain

import (
	"errors"
	"time"

	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// ErrUnknownShift возвращается при неизвестном значении смены
var ErrUnknownShift = errors.New("domain: unknown shift")

// Shift is the coarse time-of-day bucket used for BBQ-pit scheduling
// instead of an exact clock time (the "turno").
type Shift string

const (
	ShiftDay   Shift = "day"
	ShiftNight Shift = "night"
)

// IsValid reports whether s is a known shift value.
func (s Shift) IsValid() bool {
	return s == ShiftDay || s == ShiftNight
}

// SlotTime maps a shift onto its canonical start time so that BBQ pits
// flow through the same conflict engine as courts.
func (s Shift) SlotTime() (types.TimeString, error) {
	switch s {
	case ShiftDay:
		return DayShiftStart, nil
	case ShiftNight:
		return NightShiftStart, nil
	default:
		return "", ErrUnknownShift
	}
}

// ShiftForSlotTime is the inverse of Shift.SlotTime. Returns false when the
// time does not correspond to a shift boundary.
func ShiftForSlotTime(t types.TimeString) (Shift, bool) {
	switch {
	case t.Equal(DayShiftStart):
		return ShiftDay, true
	case t.Equal(NightShiftStart):
		return ShiftNight, true
	default:
		return "", false
	}
}

// Slot is the atomic unit of contention per resource: a calendar date plus
// a start time.
type Slot struct {
	Date      time.Time // canonical date marker, UTC midnight
	StartTime types.TimeString
}

// SlotAvailability результат проверки доступности одного слота
type SlotAvailability struct {
	StartTime       types.TimeString
	Available       bool
	ConflictKind    string
	DurationMinutes int
}
