package domain

// Train is an identity (name, number). Immutable.
type Train struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// PartialTrain is the pre-insert form of a Train.
type PartialTrain struct {
	Name   string
	Number string
}

// TrainPriority is the sentinel priority assigned to every slot seeded
// from a timetable. It is greater than any admissible task priority, so
// a train slot can never be preempted by a maintenance request.
const TrainPriority = 1_000_000
