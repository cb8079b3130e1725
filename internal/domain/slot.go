package domain

import (
	"errors"
	"time"
)

// ErrInvalidOccupant is returned when a slot's occupant does not satisfy
// the task_id XOR train_id invariant (spec.md invariant 2).
var ErrInvalidOccupant = errors.New("slot must have exactly one of task_id or train_id set")

// Slot is a half-open interval [StartsAt, EndsAt) on a specific section,
// tagged with its priority and an exclusive occupant: either a TaskID
// (maintenance placement) or a TrainID (fixed pass). Never model the
// occupant as two independently-nullable fields without checking the
// invariant — see PartialSlot.Validate.
type Slot struct {
	ID int64 `json:"id"`

	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`

	Priority  int   `json:"priority"`
	SectionID int64 `json:"sectionId"`

	TaskID  *int64 `json:"taskId,omitempty"`
	TrainID *int64 `json:"trainId,omitempty"`
}

// PartialSlot is the pre-insert form of a Slot.
type PartialSlot struct {
	StartsAt time.Time
	EndsAt   time.Time

	Priority  int
	SectionID int64

	TaskID  *int64
	TrainID *int64
}

// NewTaskSlot builds a PartialSlot owned by a maintenance task.
func NewTaskSlot(sectionID int64, startsAt, endsAt time.Time, priority int, taskID int64) PartialSlot {
	return PartialSlot{
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Priority:  priority,
		SectionID: sectionID,
		TaskID:    &taskID,
	}
}

// NewTrainSlot builds a PartialSlot owned by a fixed train pass.
func NewTrainSlot(sectionID int64, startsAt, endsAt time.Time, trainID int64) PartialSlot {
	return PartialSlot{
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Priority:  TrainPriority,
		SectionID: sectionID,
		TrainID:   &trainID,
	}
}

// Validate enforces the task_id XOR train_id invariant.
func (s PartialSlot) Validate() error {
	if (s.TaskID == nil) == (s.TrainID == nil) {
		return ErrInvalidOccupant
	}
	return nil
}
