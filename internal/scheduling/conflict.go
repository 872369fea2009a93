package scheduling

import (
	"sort"
	"time"

	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/domain"
	"github.com/quadralivre/facility-booking-service/internal/recurrence"
	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// ConflictKind categorizes what occupies a slot
type ConflictKind string

const (
	ConflictNone      ConflictKind = "none"
	ConflictOneOff    ConflictKind = "one_off"
	ConflictRecurring ConflictKind = "recurring"
	ConflictBlocked   ConflictKind = "blocked"
)

// Availability is the full diagnostic result for one slot. Every source of
// conflict is computed independently; Kind reports the winner by precedence.
type Availability struct {
	Available bool
	Kind      ConflictKind

	Block     *domain.Block
	OneOff    *domain.OneOffBooking
	Recurring *domain.RecurringBooking
}

// ResolveSlot determines whether a slot is free against the three sources
// of truth. Precedence for reporting: blocked > one-off > recurring. The
// computation is pure and side-effect free; race safety against concurrent
// writers is owned by the transactional layer, never by this function.
func ResolveSlot(
	date time.Time,
	slotTime types.TimeString,
	blocks []*domain.Block,
	oneOffs []*domain.OneOffBooking,
	recurrings []*domain.RecurringBooking,
	exceptionsByBooking map[int64]recurrence.ExceptionDates,
) Availability {
	day := calendar.Canonical(date)

	result := Availability{}

	for _, b := range blocks {
		if calendar.SameDay(b.Date, day) && b.Covers(slotTime) {
			result.Block = b
			break
		}
	}

	for _, b := range oneOffs {
		if !b.HoldsSlot() {
			continue
		}
		if calendar.SameDay(b.Date, day) && b.StartTime.Equal(slotTime) {
			result.OneOff = b
			break
		}
	}

	for _, r := range recurrings {
		if !r.StartTime.Equal(slotTime) {
			continue
		}
		if recurrence.IsActiveOccurrence(r, day, exceptionsByBooking[r.ID]) {
			result.Recurring = r
			break
		}
	}

	switch {
	case result.Block != nil:
		result.Kind = ConflictBlocked
	case result.OneOff != nil:
		result.Kind = ConflictOneOff
	case result.Recurring != nil:
		result.Kind = ConflictRecurring
	default:
		result.Kind = ConflictNone
		result.Available = true
	}

	return result
}

// FutureOneOffConflicts returns, in date order, the one-off bookings that
// still hold a slot on a future occurrence of (weekday, slotTime) on or
// after fromDate. A new recurring booking must not silently override these.
func FutureOneOffConflicts(
	oneOffs []*domain.OneOffBooking,
	weekday time.Weekday,
	slotTime types.TimeString,
	fromDate time.Time,
) []*domain.OneOffBooking {
	from := calendar.Canonical(fromDate)

	conflicts := make([]*domain.OneOffBooking, 0)
	for _, b := range oneOffs {
		if !b.HoldsSlot() {
			continue
		}
		day := calendar.Canonical(b.Date)
		if day.Before(from) {
			continue
		}
		if calendar.WeekdayIndex(day) != weekday || !b.StartTime.Equal(slotTime) {
			continue
		}
		conflicts = append(conflicts, b)
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Date.Before(conflicts[j].Date)
	})
	return conflicts
}
