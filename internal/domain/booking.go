package domain

import (
	"time"

	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed   BookingStatus = "confirmed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusTransferred BookingStatus = "transferred"
	StatusCompleted   BookingStatus = "completed"
)

// SessionKind distinguishes instructor-led sessions for teaching-window checks
type SessionKind string

const (
	SessionClass SessionKind = "class"
	SessionGame  SessionKind = "game"
)

// OneOffBooking represents a reservation of a resource for a single calendar date
type OneOffBooking struct {
	ID         int64
	ResourceID int64
	Date       time.Time // canonical date marker, UTC midnight
	StartTime  types.TimeString
	OwnerID    int64
	Status     BookingStatus

	// Instructor-led sessions are validated against teaching windows
	InstructorID *int64
	SessionKind  *SessionKind

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the booking reached a final status
func (b *OneOffBooking) IsTerminal() bool {
	return b.Status != StatusConfirmed
}

// HoldsSlot returns true if the booking still occupies its slot.
// Cancelled and transferred bookings release the slot; completed ones keep
// it, they describe a slot that was actually used.
func (b *OneOffBooking) HoldsSlot() bool {
	return b.Status != StatusCancelled && b.Status != StatusTransferred
}

// IsInstructorLed returns true if the session is tied to an instructor
func (b *OneOffBooking) IsInstructorLed() bool {
	return b.InstructorID != nil && b.SessionKind != nil
}

// RecurringBooking represents "every Weekday at StartTime, from StartDate
// (or creation) onward, until cancelled"
type RecurringBooking struct {
	ID         int64
	ResourceID int64
	Weekday    time.Weekday
	StartTime  types.TimeString
	OwnerID    int64
	Status     BookingStatus
	StartDate  *time.Time // canonical date marker; nil = active since creation

	InstructorID *int64
	SessionKind  *SessionKind

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the recurring booking reached a final status
func (r *RecurringBooking) IsTerminal() bool {
	return r.Status != StatusConfirmed
}

// IsInstructorLed returns true if the session is tied to an instructor
func (r *RecurringBooking) IsInstructorLed() bool {
	return r.InstructorID != nil && r.SessionKind != nil
}

// RecurringException suppresses exactly one occurrence of a recurring booking.
// At most one exception may exist per (RecurringBookingID, Date).
type RecurringException struct {
	ID                 int64
	RecurringBookingID int64
	Date               time.Time // canonical date marker
	Reason             *string
	CreatedBy          int64
	CreatedAt          time.Time
}

// BookingsFilter фильтр для выборки одноразовых бронирований
type BookingsFilter struct {
	ResourceID      *int64
	OwnerID         *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *BookingStatus
	IncludeInactive bool // включать ли терминальные бронирования
}
