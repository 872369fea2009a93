package domain

// ResourceCategory categorizes bookable facility resources
type ResourceCategory string

const (
	CategoryCourt  ResourceCategory = "court"
	CategoryBBQPit ResourceCategory = "bbq_pit"
)

// Resource is a bookable facility resource. Identity and metadata are owned
// by the resource directory service; this is the read model used locally.
type Resource struct {
	ID       int64
	Name     string
	Category ResourceCategory
	SportIDs []int64 // courts only
}

// UsesShifts returns true for resources booked per shift rather than per
// exact start time
func (r *Resource) UsesShifts() bool {
	return r.Category == CategoryBBQPit
}

// PrimarySport returns the first associated sport, if any. Teaching windows
// are configured per sport, and a court serving multiple sports is gated by
// the sport the session is booked for.
func (r *Resource) PrimarySport() *int64 {
	if len(r.SportIDs) == 0 {
		return nil
	}
	return &r.SportIDs[0]
}
