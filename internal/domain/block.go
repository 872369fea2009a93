package domain

import (
	"time"

	"github.com/quadralivre/facility-booking-service/pkg/types"
)

// Block is an administrative unavailability window on one or more resources
// for a single calendar day. It suppresses availability regardless of any
// booking on the affected slots.
type Block struct {
	ID          int64
	ResourceIDs []int64
	Date        time.Time // canonical date marker
	StartTime   types.TimeString
	EndTime     types.TimeString
	Reason      *string
	CreatedBy   int64
	CreatedAt   time.Time
}

// Covers returns true if the slot time falls inside the block window.
// The window is half-open: [StartTime, EndTime).
func (b *Block) Covers(slotTime types.TimeString) bool {
	return !slotTime.IsBefore(b.StartTime) && slotTime.IsBefore(b.EndTime)
}

// AppliesTo returns true if the block targets the given resource
func (b *Block) AppliesTo(resourceID int64) bool {
	for _, id := range b.ResourceIDs {
		if id == resourceID {
			return true
		}
	}
	return false
}
