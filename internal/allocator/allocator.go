package allocator

import (
	"container/heap"
	"context"
	"errors"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
)

// Result partitions a batch's task IDs by outcome. Preempted counts
// slots displaced by a higher-priority placement and successfully
// re-queued (note: a re-queued task may itself end up in Unplaced or
// preempt something else before the heap drains, so Preempted counts
// displacement events, not distinct tasks).
type Result struct {
	Placed    []int64
	Unplaced  []int64
	Preempted int
}

// Allocate drains a section's work-heap of pending placements, assigning
// each a concrete interval or reporting it unplaceable. Ported from
// original_source/src/train/services/slot.py::insert_task_slots
// (spec.md §4.3 step 7-8 plus the heap-driven outer loop): popping the
// highest-priority candidate, finding it an interval, evicting any
// lower-priority slots that interval intersects and re-queuing their
// tasks, then writing the new slot — until the heap is empty.
//
// Callers own the transaction: tx must already hold the section's
// advisory lock (repository.SlotTx.LockSection) before Allocate is
// called, and are responsible for Commit/Rollback once it returns.
func Allocate(ctx context.Context, tx repository.SlotTx, sectionID int64, candidates []domain.PlacementCandidate) (Result, error) {
	h := make(workHeap, len(candidates))
	copy(h, candidates)
	heap.Init(&h)

	var result Result

	for h.Len() > 0 {
		c := heap.Pop(&h).(domain.PlacementCandidate)

		iv, err := findInterval(ctx, tx, sectionID, c)
		if err != nil {
			if errors.Is(err, domain.ErrNoFreeSlot) {
				result.Unplaced = append(result.Unplaced, c.TaskID)
				continue
			}
			return Result{}, err
		}

		displaced, err := tx.PopIntersectingSlots(ctx, sectionID, iv.startsAt, iv.endsAt, c.Priority)
		if err != nil {
			return Result{}, err
		}
		result.Preempted += len(displaced)
		for _, d := range displaced {
			heap.Push(&h, d)
		}

		_, err = tx.InsertSlot(ctx, domain.NewTaskSlot(sectionID, iv.startsAt, iv.endsAt, c.Priority, c.TaskID))
		if err != nil {
			return Result{}, err
		}

		result.Placed = append(result.Placed, c.TaskID)
	}

	return result, nil
}
