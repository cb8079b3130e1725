package domain

import "time"

// Task is the persisted form of a MaintenanceRequest. It retains its
// request metadata forever (invariant 6) — even after its slot is
// preempted and cannot be replaced, the task row remains and is reported
// as "unplaced".
type Task struct {
	ID int64 `json:"id"`

	Department   string `json:"department"`
	DEN          string `json:"den"`
	NatureOfWork string `json:"natureOfWork"`
	Block        string `json:"block"`
	Location     string `json:"location"`

	PreferredStartsAt TimeOfDay `json:"preferredStartsAt"`
	PreferredEndsAt   TimeOfDay `json:"preferredEndsAt"`

	RequestedDate     time.Time     `json:"requestedDate"`
	RequestedDuration time.Duration `json:"requestedDuration"`
}

// PartialTask is the pre-insert form of a Task.
type PartialTask struct {
	Department   string
	DEN          string
	NatureOfWork string
	Block        string
	Location     string

	PreferredStartsAt TimeOfDay
	PreferredEndsAt   TimeOfDay

	RequestedDate     time.Time
	RequestedDuration time.Duration
}

// PreferredRange is the wall-clock duration of [PreferredStartsAt,
// PreferredEndsAt), adding 24h when the window wraps past midnight.
func (t PartialTask) PreferredRange() time.Duration {
	return TimeDiff(t.PreferredStartsAt, t.PreferredEndsAt)
}
