package allocator

import (
	"container/heap"

	"github.com/nandhagk/railsched/internal/domain"
)

// workHeap orders pending placements by spec.md §4.3's four-level
// comparator: higher priority first, then longer requested duration,
// then narrower preferred range, then earlier preferred start. Ported
// from original_source/src/train/services/slot.py::TaskSlotToInsert.__lt__
// onto container/heap.Interface — no third-party priority queue appears
// anywhere in the retrieved pack, and the Python original itself reaches
// for stdlib heapq, so container/heap is the grounded choice here.
type workHeap []domain.PlacementCandidate

func (h workHeap) Len() int { return len(h) }

func (h workHeap) Less(i, j int) bool {
	a, b := h[i], h[j]

	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.RequestedDuration != b.RequestedDuration {
		return a.RequestedDuration > b.RequestedDuration
	}
	aRange, bRange := a.PreferredRange(), b.PreferredRange()
	if aRange != bRange {
		return aRange < bRange
	}
	return a.PreferredStartsAt < b.PreferredStartsAt
}

func (h workHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *workHeap) Push(x any) {
	*h = append(*h, x.(domain.PlacementCandidate))
}

func (h *workHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*workHeap)(nil)
