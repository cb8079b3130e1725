package domain

import "time"

// MaintenanceRequest is the queued form of a maintenance work request,
// not yet placed on a section's timeline. It carries everything needed
// to create a Task row and feed the allocator.
type MaintenanceRequest struct {
	Department   string
	DEN          string
	NatureOfWork string
	Block        string
	Location     string
	Line         Line

	PreferredStartsAt TimeOfDay
	PreferredEndsAt   TimeOfDay

	RequestedDate     time.Time
	RequestedDuration time.Duration

	Priority  int
	SectionID int64
}

// PreferredRange is the wall-clock duration of the preferred window,
// adding 24h when it wraps past midnight.
func (r MaintenanceRequest) PreferredRange() time.Duration {
	return TimeDiff(r.PreferredStartsAt, r.PreferredEndsAt)
}

// Task converts the request into the form persisted as a Task row.
func (r MaintenanceRequest) Task() PartialTask {
	return PartialTask{
		Department:        r.Department,
		DEN:               r.DEN,
		NatureOfWork:      r.NatureOfWork,
		Block:             r.Block,
		Location:          r.Location,
		PreferredStartsAt: r.PreferredStartsAt,
		PreferredEndsAt:   r.PreferredEndsAt,
		RequestedDate:     r.RequestedDate,
		RequestedDuration: r.RequestedDuration,
	}
}
