package domain

import (
	"time"
)

// PlacementCandidate is a request queued for placement on a single
// section: either a freshly-ingested MaintenanceRequest or a task
// reconstituted after its slot was preempted by a higher-priority
// placement (spec.md §4.3 step 7). It carries exactly the fields the
// allocator's work-heap comparator and placement algorithm need.
type PlacementCandidate struct {
	Priority int
	TaskID   int64

	PreferredStartsAt TimeOfDay
	PreferredEndsAt   TimeOfDay

	RequestedDate     time.Time
	RequestedDuration time.Duration
}

// PreferredRange is the wall-clock duration of the preferred window,
// adding 24h when it wraps past midnight.
func (c PlacementCandidate) PreferredRange() time.Duration {
	return TimeDiff(c.PreferredStartsAt, c.PreferredEndsAt)
}

// NewPlacementCandidate builds a candidate from a newly-accepted
// MaintenanceRequest and its persisted task ID.
func NewPlacementCandidate(r MaintenanceRequest, taskID int64) PlacementCandidate {
	return PlacementCandidate{
		Priority:          r.Priority,
		TaskID:            taskID,
		PreferredStartsAt: r.PreferredStartsAt,
		PreferredEndsAt:   r.PreferredEndsAt,
		RequestedDate:     r.RequestedDate,
		RequestedDuration: r.RequestedDuration,
	}
}
