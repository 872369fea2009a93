package domain

import (
	"time"

	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// TeachingWindow is a configured allowed time range for instructor-led
// sessions of a sport. A day-specific window (Weekday set) overrides the
// default window (Weekday nil) for the same (sport, session kind).
type TeachingWindow struct {
	ID          int64
	SportID     int64
	Weekday     *time.Weekday // nil = default for every weekday
	SessionKind SessionKind
	StartTime   types.TimeString
	EndTime     types.TimeString
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDefault returns true for windows that apply to every weekday unless a
// day-specific window exists
func (w *TeachingWindow) IsDefault() bool {
	return w.Weekday == nil
}

// Overlaps reports whether the requested interval [start, start+duration)
// overlaps the window's [StartTime, EndTime). Partial overlap counts: a
// class may start inside the window and run slightly past its end.
func (w *TeachingWindow) Overlaps(start types.TimeString, durationMinutes int) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		// interval runs past midnight, clamp to end of day
		end = types.TimeString("23:59")
	}
	return start.IsBefore(w.EndTime) && end.IsAfter(w.StartTime)
}
