package domain

import "errors"

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrTrainNotFound    = errors.New("train not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrDuplicateNode    = errors.New("node with this name and position already exists")
	ErrDuplicateSection = errors.New("section with this line and nodes already exists")

	// ErrNoFreeSlot means no feasible gap exists for a request on its
	// target section. Reported per-request; does not abort the batch.
	ErrNoFreeSlot = errors.New("no free slot for requested date and duration")

	// ErrInvalidRequest means a request failed validation at ingest —
	// a missing/mistyped required field, a duration that exceeds the
	// preferred window, or a section that cannot be resolved.
	ErrInvalidRequest = errors.New("invalid maintenance request")

	// ErrTopologyMismatch means a timetable referenced a node or section
	// absent from the topology catalogue. Fatal for seeding.
	ErrTopologyMismatch = errors.New("timetable references unknown node or section")
)
